package entity

// Severity — степень серьёзности повреждения.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// Patch — вырезанный и нормализованный фрагмент изображения,
// готовый к подаче в классификатор. Данные лежат в порядке CHW.
type Patch struct {
	Width  int
	Height int
	Data   []float32
}

// SeverityPrediction — ответ классификатора серьёзности.
type SeverityPrediction struct {
	Label      Severity
	Confidence float32
}
