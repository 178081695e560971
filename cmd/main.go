package main

import (
	"log"
	"log/slog"
	"os"

	"vehicle-damage-ai/config"
	"vehicle-damage-ai/internal/api"
	"vehicle-damage-ai/internal/container"
	"vehicle-damage-ai/internal/infrastructure/imaging"
	"vehicle-damage-ai/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// Загружаем обе модели один раз при старте процесса
	detector, err := vision.NewYOLODetector(
		cfg.DetectorModelPath,
		cfg.DetectorClasses,
		cfg.DetectorInputSize,
		cfg.DetectorConfThreshold,
		cfg.DetectorNMSThreshold,
	)
	if err != nil {
		log.Fatalf("Failed to load detector model: %v", err)
	}
	defer detector.Close()

	classifier, err := vision.NewSeverityClassifier(cfg.SeverityModelPath)
	if err != nil {
		log.Fatalf("Failed to load severity model: %v", err)
	}
	defer classifier.Close()

	extractor := imaging.NewPatchExtractor(cfg.PatchSize)

	// Собираем сервисы приложения
	appContainer := container.New(detector, classifier, extractor)

	server := api.NewServer(cfg, appContainer)

	slog.Info("server is running", "port", cfg.Port)
	if err := server.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
