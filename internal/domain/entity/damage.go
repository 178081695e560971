package entity

// ImageOrigin указывает, с какого снимка пары пришла запись.
type ImageOrigin string

const (
	OriginBefore ImageOrigin = "before"
	OriginAfter  ImageOrigin = "after"
)

// BoundingBox — рамка в долях [0,1] от размеров исходного изображения.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DamageRecord — одна запись о повреждении в ответе анализа.
// Создаётся на каждую детекцию и дальше не изменяется.
type DamageRecord struct {
	ID        string      `json:"id"`
	ImageType ImageOrigin `json:"imageType"`
	Area      string      `json:"area"`
	Type      string      `json:"type"`
	Severity  Severity    `json:"severity"`
	BBox      BoundingBox `json:"bbox"`
}

// AnalysisResult — итог анализа пары снимков "до"/"после".
// Записи "before" всегда идут раньше записей "after".
type AnalysisResult struct {
	InspectionID string         `json:"inspectionId"`
	Damages      []DamageRecord `json:"damages"`
	Message      string         `json:"message,omitempty"`
}
