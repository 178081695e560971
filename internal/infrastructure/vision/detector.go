//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"vehicle-damage-ai/internal/domain/entity"
)

// YOLODetector запускает ONNX-модель детекции повреждений через gocv.
// Сеть не реентерабельна, поэтому прогоны сериализуются мьютексом.
type YOLODetector struct {
	mu            sync.Mutex
	net           gocv.Net
	classes       []string
	inputSize     int
	confThreshold float32
	nmsThreshold  float32
}

// NewYOLODetector загружает веса модели один раз при старте процесса.
func NewYOLODetector(modelPath string, classes []string, inputSize int, confThreshold, nmsThreshold float32) (*YOLODetector, error) {
	net := gocv.ReadNet(modelPath, "")
	if net.Empty() {
		return nil, fmt.Errorf("failed to load detector model from %s", modelPath)
	}

	return &YOLODetector{
		net:           net,
		classes:       classes,
		inputSize:     inputSize,
		confThreshold: confThreshold,
		nmsThreshold:  nmsThreshold,
	}, nil
}

// Detect ищет повреждения и возвращает рамки в пикселях исходного
// изображения. Порядок детекций определяется NMS и считается произвольным.
func (d *YOLODetector) Detect(ctx context.Context, imageData []byte) (*entity.DetectionSet, error) {
	_ = ctx
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err != nil || mat.Empty() {
		if !mat.Empty() {
			mat.Close()
		}
		return nil, errors.New("failed to decode image")
	}
	defer mat.Close()

	origW := mat.Cols()
	origH := mat.Rows()

	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(d.inputSize, d.inputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	// Выходной Mat разделяет буфер сети, который переиспользуется между
	// прогонами: данные копируются до освобождения замка.
	d.mu.Lock()
	d.net.SetInput(blob, "")
	out := d.net.Forward("")
	sizes := out.Size()
	var data []float32
	raw, readErr := out.DataPtrFloat32()
	if readErr == nil {
		data = make([]float32, len(raw))
		copy(data, raw)
	}
	out.Close()
	d.mu.Unlock()

	if readErr != nil {
		return nil, fmt.Errorf("read detector output: %w", readErr)
	}
	if len(sizes) != 3 || sizes[1] < 5 {
		return nil, fmt.Errorf("unexpected detector output shape %v", sizes)
	}

	detections, err := decodeYOLOOutput(data, sizes[1], sizes[2], d.inputSize, origW, origH,
		d.confThreshold, d.nmsThreshold, d.classes)
	if err != nil {
		return nil, err
	}

	return &entity.DetectionSet{
		ImageWidth:  origW,
		ImageHeight: origH,
		Detections:  detections,
	}, nil
}

// Close освобождает ресурсы сети.
func (d *YOLODetector) Close() error {
	return d.net.Close()
}
