package vision

import (
	"fmt"
	"image"
	"sort"

	"vehicle-damage-ai/internal/domain/entity"
)

// Метки серьёзности в порядке выходов модели.
var severityLabels = []entity.Severity{
	entity.SeverityMinor,
	entity.SeverityModerate,
	entity.SeveritySevere,
}

type yoloCandidate struct {
	rect    image.Rectangle
	score   float32
	classID int
}

// decodeYOLOOutput разбирает выход YOLO формы [каналы x якоря]:
// первые четыре канала — центр и размеры рамки во входных пикселях сети,
// дальше — вероятности классов. Кандидаты ниже порога отбрасываются,
// пересекающиеся подавляются по IoU, рамки масштабируются к исходному
// изображению и обрезаются по его границам.
func decodeYOLOOutput(data []float32, channels, anchors, inputSize, origW, origH int, confThreshold, nmsThreshold float32, classes []string) ([]entity.Detection, error) {
	if channels < 5 || anchors <= 0 || len(data) != channels*anchors {
		return nil, fmt.Errorf("unexpected detector output: %d values for %dx%d", len(data), channels, anchors)
	}
	numClasses := channels - 4

	xScale := float32(origW) / float32(inputSize)
	yScale := float32(origH) / float32(inputSize)
	at := func(c, j int) float32 { return data[c*anchors+j] }

	candidates := make([]yoloCandidate, 0)
	for j := 0; j < anchors; j++ {
		classID, prob := 0, float32(0)
		for c := 0; c < numClasses; c++ {
			if v := at(4+c, j); v > prob {
				prob = v
				classID = c
			}
		}
		if prob < confThreshold {
			continue
		}

		xc := at(0, j)
		yc := at(1, j)
		w := at(2, j)
		h := at(3, j)

		candidates = append(candidates, yoloCandidate{
			rect: image.Rect(
				int((xc-w/2)*xScale),
				int((yc-h/2)*yScale),
				int((xc+w/2)*xScale),
				int((yc+h/2)*yScale),
			),
			score:   prob,
			classID: classID,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	frame := image.Rect(0, 0, origW, origH)
	detections := make([]entity.Detection, 0, len(candidates))
	suppressed := make([]bool, len(candidates))
	for i, cand := range candidates {
		if suppressed[i] {
			continue
		}
		for j := i + 1; j < len(candidates); j++ {
			if !suppressed[j] && rectIoU(cand.rect, candidates[j].rect) > nmsThreshold {
				suppressed[j] = true
			}
		}

		// Рамка может выходить за край кадра, обрезаем по границам.
		r := cand.rect.Intersect(frame)
		detections = append(detections, entity.Detection{
			Box:        entity.PixelBox{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y},
			ClassID:    cand.classID,
			Label:      className(classes, cand.classID),
			Confidence: cand.score,
		})
	}
	return detections, nil
}

// rectIoU считает пересечение-к-объединению двух рамок.
func rectIoU(a, b image.Rectangle) float32 {
	inter := a.Intersect(b)
	interArea := inter.Dx() * inter.Dy()
	if interArea <= 0 {
		return 0
	}
	union := a.Dx()*a.Dy() + b.Dx()*b.Dy() - interArea
	return float32(interArea) / float32(union)
}

// className переводит индекс класса в имя, с запасным вариантом class_<id>.
func className(classes []string, id int) string {
	if id >= 0 && id < len(classes) {
		return classes[id]
	}
	return fmt.Sprintf("class_%d", id)
}

// pickSeverity выбирает метку с максимальной вероятностью.
// Модель заканчивается softmax, значения уже являются вероятностями.
func pickSeverity(scores []float32) (entity.SeverityPrediction, error) {
	if len(scores) != len(severityLabels) {
		return entity.SeverityPrediction{}, fmt.Errorf("unexpected classifier output size %d", len(scores))
	}
	best, conf := 0, scores[0]
	for i := 1; i < len(scores); i++ {
		if scores[i] > conf {
			conf = scores[i]
			best = i
		}
	}
	return entity.SeverityPrediction{Label: severityLabels[best], Confidence: conf}, nil
}
