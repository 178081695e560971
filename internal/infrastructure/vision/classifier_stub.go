//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"

	"vehicle-damage-ai/internal/domain/entity"
)

type GoCVSeverityClassifier struct{}

// NewSeverityClassifier создаёт классификатор-заглушку (без OpenCV).
func NewSeverityClassifier(modelPath string) (*GoCVSeverityClassifier, error) {
	_ = modelPath
	return &GoCVSeverityClassifier{}, nil
}

// Classify возвращает ошибку, если сборка без тега gocv.
func (c *GoCVSeverityClassifier) Classify(ctx context.Context, patch *entity.Patch) (entity.SeverityPrediction, error) {
	_ = ctx
	_ = patch
	return entity.SeverityPrediction{}, errors.New("gocv build tag is not enabled")
}

// Close ничего не освобождает в заглушке.
func (c *GoCVSeverityClassifier) Close() error { return nil }
