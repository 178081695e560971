package container

import (
	app "vehicle-damage-ai/internal/application"
	"vehicle-damage-ai/internal/domain/port"
)

type Container struct {
	AnalysisService *app.AnalysisService
}

func New(detector port.DamageDetector, classifier port.SeverityClassifier, extractor port.PatchExtractor) *Container {
	return &Container{
		AnalysisService: app.NewAnalysisService(detector, classifier, extractor),
	}
}
