//go:build gocv
// +build gocv

package vision

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"gocv.io/x/gocv"

	"vehicle-damage-ai/internal/domain/entity"
)

// GoCVSeverityClassifier запускает модель классификации серьёзности через gocv.
// Сеть не реентерабельна, поэтому прогоны сериализуются мьютексом.
type GoCVSeverityClassifier struct {
	mu  sync.Mutex
	net gocv.Net
}

// NewSeverityClassifier загружает веса классификатора один раз при старте.
func NewSeverityClassifier(modelPath string) (*GoCVSeverityClassifier, error) {
	net := gocv.ReadNet(modelPath, "")
	if net.Empty() {
		return nil, fmt.Errorf("failed to load severity model from %s", modelPath)
	}
	return &GoCVSeverityClassifier{net: net}, nil
}

// Classify прогоняет патч через модель и возвращает метку с максимальной
// вероятностью. Батчей нет: один патч за вызов.
func (c *GoCVSeverityClassifier) Classify(ctx context.Context, patch *entity.Patch) (entity.SeverityPrediction, error) {
	_ = ctx
	blob, err := blobFromPatch(patch)
	if err != nil {
		return entity.SeverityPrediction{}, err
	}
	defer blob.Close()

	// Выходной Mat разделяет буфер сети, который переиспользуется между
	// прогонами: вероятности копируются до освобождения замка.
	c.mu.Lock()
	c.net.SetInput(blob, "")
	out := c.net.Forward("")
	total := out.Total()
	var scores []float32
	if total >= len(severityLabels) {
		scores = make([]float32, len(severityLabels))
		for i := range scores {
			scores[i] = out.GetFloatAt(0, i)
		}
	}
	out.Close()
	c.mu.Unlock()

	if total < len(severityLabels) {
		return entity.SeverityPrediction{}, fmt.Errorf("unexpected classifier output size %d", total)
	}
	return pickSeverity(scores)
}

// blobFromPatch собирает четырёхмерный blob NCHW из данных патча.
func blobFromPatch(patch *entity.Patch) (gocv.Mat, error) {
	buf := make([]byte, len(patch.Data)*4)
	for i, v := range patch.Data {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return gocv.NewMatWithSizesFromBytes([]int{1, 3, patch.Height, patch.Width}, gocv.MatTypeCV32F, buf)
}

// Close освобождает ресурсы сети.
func (c *GoCVSeverityClassifier) Close() error {
	return c.net.Close()
}
