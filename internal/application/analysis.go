package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"vehicle-damage-ai/internal/domain/entity"
	"vehicle-damage-ai/internal/domain/port"
	"vehicle-damage-ai/internal/infrastructure/imaging"
)

// Виды сбоев анализа. Наружу всё равно уходит общий ответ,
// но внутри они различаются для логов и будущей детализации API.
var (
	ErrReadImage = errors.New("image read failed")
	ErrBadImage  = errors.New("bad image")
	ErrInference = errors.New("inference failed")
)

// Сообщения итога анализа по счётчикам детекций.
const (
	msgNoDamageEither = "No damage detected in either image."
	msgNoDamageBefore = "No damage detected in BEFORE image."
	msgNoDamageAfter  = "No damage detected in AFTER image."
	msgDamageDetected = "Damage detected successfully."
)

// AnalysisService прогоняет пару снимков "до"/"после" через детектор
// и классификатор серьёзности и собирает итоговый отчёт.
type AnalysisService struct {
	detector   port.DamageDetector
	classifier port.SeverityClassifier
	extractor  port.PatchExtractor
}

// NewAnalysisService создаёт сервис анализа пары снимков.
func NewAnalysisService(detector port.DamageDetector, classifier port.SeverityClassifier, extractor port.PatchExtractor) *AnalysisService {
	return &AnalysisService{
		detector:   detector,
		classifier: classifier,
		extractor:  extractor,
	}
}

// AnalyzePair анализирует оба снимка и возвращает отчёт, в котором записи
// "before" всегда предшествуют записям "after".
func (s *AnalysisService) AnalyzePair(ctx context.Context, beforePath, afterPath string) (*entity.AnalysisResult, error) {
	beforeDamages, err := s.analyzeImage(ctx, beforePath, entity.OriginBefore)
	if err != nil {
		return nil, err
	}

	afterDamages, err := s.analyzeImage(ctx, afterPath, entity.OriginAfter)
	if err != nil {
		return nil, err
	}

	damages := make([]entity.DamageRecord, 0, len(beforeDamages)+len(afterDamages))
	damages = append(damages, beforeDamages...)
	damages = append(damages, afterDamages...)

	return &entity.AnalysisResult{
		InspectionID: uuid.NewString(),
		Damages:      damages,
		Message:      summaryMessage(len(beforeDamages), len(afterDamages)),
	}, nil
}

// analyzeImage запускает детектор по снимку и классифицирует каждую находку.
func (s *AnalysisService) analyzeImage(ctx context.Context, path string, origin entity.ImageOrigin) ([]entity.DamageRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s image: %w: %w", origin, ErrReadImage, err)
	}

	img, err := imaging.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s image: %w: %w", origin, ErrBadImage, err)
	}

	set, err := s.detector.Detect(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("detect on %s image: %w: %w", origin, ErrInference, err)
	}

	records := make([]entity.DamageRecord, 0, len(set.Detections))
	for i, det := range set.Detections {
		patch, err := s.extractor.Extract(img, det.Box)
		if err != nil {
			return nil, fmt.Errorf("patch %d of %s image: %w: %w", i, origin, ErrBadImage, err)
		}

		pred, err := s.classifier.Classify(ctx, patch)
		if err != nil {
			return nil, fmt.Errorf("classify patch %d of %s image: %w: %w", i, origin, ErrInference, err)
		}

		bbox := det.Box.Normalize(set.ImageWidth, set.ImageHeight)
		records = append(records, entity.DamageRecord{
			ID:        fmt.Sprintf("%s-%d", origin, i),
			ImageType: origin,
			Area:      areaLabel(bbox),
			Type:      damageTypeLabel(det.Label),
			Severity:  pred.Label,
			BBox:      bbox,
		})
	}

	return records, nil
}

// summaryMessage выбирает итоговое сообщение по счётчикам детекций.
func summaryMessage(before, after int) string {
	switch {
	case before == 0 && after == 0:
		return msgNoDamageEither
	case before == 0:
		return msgNoDamageBefore
	case after == 0:
		return msgNoDamageAfter
	default:
		return msgDamageDetected
	}
}

// damageTypeLabel приводит сырое имя класса детектора к заголовочному виду.
func damageTypeLabel(raw string) string {
	return cases.Title(language.English).String(strings.TrimSpace(raw))
}

// areaLabel определяет зону кадра по центру нормализованной рамки
// на сетке 3x3: top/middle/bottom и left/center/right.
func areaLabel(b entity.BoundingBox) string {
	cx := b.X + b.Width/2
	cy := b.Y + b.Height/2

	col := "center"
	if cx < 1.0/3 {
		col = "left"
	} else if cx > 2.0/3 {
		col = "right"
	}

	row := "middle"
	if cy < 1.0/3 {
		row = "top"
	} else if cy > 2.0/3 {
		row = "bottom"
	}

	if row == "middle" && col == "center" {
		return "center"
	}
	return row + " " + col
}
