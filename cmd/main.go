package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vehicle-inspector/config"
	telegram "vehicle-inspector/internal/api"
	"vehicle-inspector/internal/container"
	"vehicle-inspector/internal/domain/port"
	"vehicle-inspector/internal/infrastructure/describer"
	"vehicle-inspector/internal/infrastructure/metrics"
	"vehicle-inspector/internal/infrastructure/modelstore"
	"vehicle-inspector/internal/infrastructure/storage"
	"vehicle-inspector/internal/infrastructure/vision"
	"vehicle-inspector/pkg/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(log.Fields{"error": err.Error()}, "failed to load config")
	}

	log.NewLogger(log.Options{Level: cfg.LogLevel, File: cfg.LogFile})

	if cfg.TelegramToken == "" {
		log.Fatal(nil, "TELEGRAM_TOKEN is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Модель может не загрузиться: бот всё равно стартует и отвечает ошибкой
	detector := loadDetector(ctx, cfg)
	if closer, ok := detector.(*vision.ONNXDetector); ok {
		defer closer.Close()
	}

	collector := metrics.NewCollector()
	if cfg.MetricsAddr != "" {
		srv := serveMetrics(cfg.MetricsAddr, collector)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	appContainer := container.New(container.Deps{
		Users:     storage.NewMemoryUserRepository(),
		Detector:  detector,
		Estimator: vision.NewCleanlinessEstimator(),
		Annotator: vision.NewAnnotator(),
		Describer: describer.NewTemplateDescriber(),
		Observer:  collector,
	})

	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer)
	if err != nil {
		log.Fatal(log.Fields{"error": err.Error()}, "failed to create bot")
	}

	log.Info(nil, "bot is running")
	if err := bot.Run(ctx); err != nil {
		log.Error(log.Fields{"error": err.Error()}, "bot stopped with error")
		return
	}
	log.Info(nil, "bot stopped")
}

func loadDetector(ctx context.Context, cfg *config.Config) port.DamageDetector {
	modelPath, err := modelstore.NewFetcher().Ensure(ctx, cfg.ModelURL, cfg.ModelPath)
	if err != nil {
		log.Error(log.Fields{"error": err.Error()}, "model weights are not available")
		return vision.NewUnavailableDetector(err)
	}

	detector, err := vision.NewONNXDetector(vision.DetectorConfig{
		ModelPath:   modelPath,
		LibraryPath: cfg.OnnxLibPath,
		Labels:      cfg.ModelLabels,
		InputSize:   cfg.ModelInputSize,
		PoolSize:    cfg.PoolSize,
	})
	if err != nil {
		log.Error(log.Fields{"error": err.Error()}, "failed to load damage detector")
		return vision.NewUnavailableDetector(err)
	}
	return detector
}

func serveMetrics(addr string, collector *metrics.Collector) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info(log.Fields{"addr": addr}, "metrics listener started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(log.Fields{"error": err.Error()}, "metrics listener failed")
		}
	}()

	return srv
}
