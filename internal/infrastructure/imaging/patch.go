package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"vehicle-damage-ai/internal/domain/entity"
	"vehicle-damage-ai/internal/domain/port"
)

// ErrEmptyCrop возвращается при попытке вырезать рамку нулевой площади.
var ErrEmptyCrop = errors.New("zero-area crop")

// PatchExtractor вырезает рамку из изображения, масштабирует её до
// квадрата Size x Size и раскладывает в тензор CHW для классификатора.
type PatchExtractor struct {
	Size  int        // сторона патча в пикселях
	Mean  [3]float32 // вычитаемое среднее по каналам RGB
	Scale float32    // множитель после вычитания среднего
}

// NewPatchExtractor создаёт экстрактор под вход классификатора.
// EfficientNet ожидает сырые значения 0..255, поэтому по умолчанию
// среднее нулевое, а масштаб единичный.
func NewPatchExtractor(size int) *PatchExtractor {
	return &PatchExtractor{Size: size, Scale: 1}
}

// Extract вырезает рамку и приводит её к входному формату классификатора.
// Пропорции не сохраняются: патч растягивается до квадрата.
func (e *PatchExtractor) Extract(img image.Image, box entity.PixelBox) (*entity.Patch, error) {
	clamped := clampToBounds(box, img.Bounds())
	if clamped.Empty() {
		return nil, fmt.Errorf("box (%d,%d)-(%d,%d): %w", box.X1, box.Y1, box.X2, box.Y2, ErrEmptyCrop)
	}

	crop := image.NewRGBA(image.Rect(0, 0, clamped.Dx(), clamped.Dy()))
	draw.Draw(crop, crop.Bounds(), img, image.Pt(clamped.X1, clamped.Y1), draw.Src)

	resized := resize.Resize(uint(e.Size), uint(e.Size), crop, resize.Lanczos3)

	// Раскладываем пиксели поканально: сначала весь R, затем G, затем B.
	plane := e.Size * e.Size
	data := make([]float32, 3*plane)
	idx := 0
	for y := 0; y < e.Size; y++ {
		for x := 0; x < e.Size; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			data[idx] = (float32(r>>8) - e.Mean[0]) * e.Scale
			data[idx+plane] = (float32(g>>8) - e.Mean[1]) * e.Scale
			data[idx+2*plane] = (float32(b>>8) - e.Mean[2]) * e.Scale
			idx++
		}
	}

	return &entity.Patch{Width: e.Size, Height: e.Size, Data: data}, nil
}

// Decode декодирует байты изображения. Поддерживаются те же форматы,
// что принимает детектор: JPEG, PNG, BMP, TIFF и WebP.
func Decode(imageData []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// clampToBounds обрезает рамку по границам изображения.
func clampToBounds(box entity.PixelBox, bounds image.Rectangle) entity.PixelBox {
	if box.X1 < bounds.Min.X {
		box.X1 = bounds.Min.X
	}
	if box.Y1 < bounds.Min.Y {
		box.Y1 = bounds.Min.Y
	}
	if box.X2 > bounds.Max.X {
		box.X2 = bounds.Max.X
	}
	if box.Y2 > bounds.Max.Y {
		box.Y2 = bounds.Max.Y
	}
	return box
}

// Проверка реализации интерфейса
var _ port.PatchExtractor = (*PatchExtractor)(nil)
