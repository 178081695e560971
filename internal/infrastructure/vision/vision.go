package vision

import "vehicle-damage-ai/internal/domain/port"

// Проверка реализации интерфейсов
var (
	_ port.DamageDetector     = (*YOLODetector)(nil)
	_ port.SeverityClassifier = (*GoCVSeverityClassifier)(nil)
)
