package entity

// PixelBox представляет рамку в пиксельных координатах (x1,y1)-(x2,y2).
type PixelBox struct {
	X1 int
	Y1 int
	X2 int
	Y2 int
}

// Dx возвращает ширину рамки в пикселях.
func (b PixelBox) Dx() int { return b.X2 - b.X1 }

// Dy возвращает высоту рамки в пикселях.
func (b PixelBox) Dy() int { return b.Y2 - b.Y1 }

// Empty сообщает, имеет ли рамка нулевую площадь.
func (b PixelBox) Empty() bool { return b.X2 <= b.X1 || b.Y2 <= b.Y1 }

// Normalize переводит рамку в доли от размеров исходного изображения.
func (b PixelBox) Normalize(imageWidth, imageHeight int) BoundingBox {
	w := float64(imageWidth)
	h := float64(imageHeight)
	return BoundingBox{
		X:      float64(b.X1) / w,
		Y:      float64(b.Y1) / h,
		Width:  float64(b.Dx()) / w,
		Height: float64(b.Dy()) / h,
	}
}

// Detection — одна найденная область повреждения.
type Detection struct {
	Box        PixelBox // рамка в пикселях исходного изображения
	ClassID    int      // индекс класса модели
	Label      string   // человекочитаемое имя класса
	Confidence float32  // уверенность модели (0.0 - 1.0)
}

// DetectionSet — результат прогона детектора по одному изображению.
// Порядок детекций не гарантируется и считается произвольным.
type DetectionSet struct {
	ImageWidth  int
	ImageHeight int
	Detections  []Detection
}
