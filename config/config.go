package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config собирает настройки сервиса из окружения.
type Config struct {
	Port string

	DetectorModelPath     string
	DetectorClasses       []string
	DetectorInputSize     int
	DetectorConfThreshold float32
	DetectorNMSThreshold  float32

	SeverityModelPath string
	PatchSize         int

	TmpDir string
}

// Классы модели детекции повреждений по умолчанию.
var defaultDetectorClasses = []string{
	"dent", "scratch", "crack", "glass shatter", "lamp broken", "tire flat",
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		Port:                  getEnv("PORT", "8000"),
		DetectorModelPath:     getEnv("DETECTOR_MODEL_PATH", "./models/yolo-car-damage.onnx"),
		DetectorClasses:       getEnvList("DETECTOR_CLASSES", defaultDetectorClasses),
		DetectorInputSize:     getEnvInt("DETECTOR_INPUT_SIZE", 640),
		DetectorConfThreshold: getEnvFloat("DETECTOR_CONF_THRESHOLD", 0.25),
		DetectorNMSThreshold:  getEnvFloat("DETECTOR_NMS_THRESHOLD", 0.45),
		SeverityModelPath:     getEnv("SEVERITY_MODEL_PATH", "./models/severity_efficientnetb0.onnx"),
		PatchSize:             getEnvInt("PATCH_SIZE", 224),
		TmpDir:                getEnv("TMP_DIR", os.TempDir()),
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float32) float32 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 32); err == nil {
			return float32(f)
		}
	}
	return defaultVal
}

// getEnvList разбирает список значений, разделённых запятыми.
func getEnvList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
