//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"

	"vehicle-damage-ai/internal/domain/entity"
)

type YOLODetector struct {
	classes       []string
	inputSize     int
	confThreshold float32
	nmsThreshold  float32
}

// NewYOLODetector создаёт детектор-заглушку (без OpenCV).
func NewYOLODetector(modelPath string, classes []string, inputSize int, confThreshold, nmsThreshold float32) (*YOLODetector, error) {
	_ = modelPath
	return &YOLODetector{
		classes:       classes,
		inputSize:     inputSize,
		confThreshold: confThreshold,
		nmsThreshold:  nmsThreshold,
	}, nil
}

// Detect возвращает ошибку, если сборка без тега gocv.
func (d *YOLODetector) Detect(ctx context.Context, imageData []byte) (*entity.DetectionSet, error) {
	_ = ctx
	_ = imageData
	return nil, errors.New("gocv build tag is not enabled")
}

// Close ничего не освобождает в заглушке.
func (d *YOLODetector) Close() error { return nil }
