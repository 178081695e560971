package port

import (
	"image"

	"vehicle-damage-ai/internal/domain/entity"
)

// PatchExtractor интерфейс подготовки фрагмента изображения для классификатора
type PatchExtractor interface {
	// Extract вырезает рамку из изображения и приводит её к входному
	// формату классификатора
	Extract(img image.Image, box entity.PixelBox) (*entity.Patch, error)
}
