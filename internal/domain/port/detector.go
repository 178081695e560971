package port

import (
	"context"

	"vehicle-damage-ai/internal/domain/entity"
)

// DamageDetector интерфейс детектора повреждений
type DamageDetector interface {
	// Detect ищет повреждения на изображении и возвращает рамки
	// в пиксельных координатах вместе с размерами изображения
	Detect(ctx context.Context, imageData []byte) (*entity.DetectionSet, error)
}
