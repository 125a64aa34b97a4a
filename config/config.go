package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const (
	defaultModelPath   = "models/best.onnx"
	defaultModelLabels = "good_condition,dent,scratch,severe damage"
	defaultInputSize   = 416
	defaultPoolSize    = 2
)

type Config struct {
	TelegramToken string

	ModelURL       string   // откуда скачать веса, если их нет локально
	ModelPath      string   // локальный кеш весов
	ModelLabels    []string // имена классов в порядке индексов модели
	ModelInputSize int      // сторона квадратного входа модели
	OnnxLibPath    string   // путь к libonnxruntime
	PoolSize       int      // число сессий инференса

	MetricsAddr string // адрес для /metrics, пустой адрес выключает listener

	LogLevel string
	LogFile  string
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		ModelURL:       os.Getenv("MODEL_URL"),
		ModelPath:      getEnv("MODEL_PATH", defaultModelPath),
		ModelLabels:    splitLabels(getEnv("MODEL_LABELS", defaultModelLabels)),
		ModelInputSize: cast.ToInt(getEnv("MODEL_INPUT_SIZE", cast.ToString(defaultInputSize))),
		OnnxLibPath:    os.Getenv("ONNX_LIB_PATH"),
		PoolSize:       cast.ToInt(getEnv("DETECTOR_POOL_SIZE", cast.ToString(defaultPoolSize))),
		MetricsAddr:    os.Getenv("METRICS_ADDR"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        os.Getenv("LOG_FILE"),
	}

	if cfg.ModelInputSize <= 0 {
		cfg.ModelInputSize = defaultInputSize
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = defaultPoolSize
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitLabels режет список классов по запятым; пробелы внутри имени сохраняются
func splitLabels(raw string) []string {
	parts := strings.Split(raw, ",")
	labels := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			labels = append(labels, p)
		}
	}
	return labels
}
