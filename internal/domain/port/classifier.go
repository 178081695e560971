package port

import (
	"context"

	"vehicle-damage-ai/internal/domain/entity"
)

// SeverityClassifier интерфейс классификатора серьёзности повреждения
type SeverityClassifier interface {
	// Classify возвращает наиболее вероятный класс серьёзности для патча.
	// Порога нет: метка возвращается даже при низкой уверенности.
	Classify(ctx context.Context, patch *entity.Patch) (entity.SeverityPrediction, error)
}
