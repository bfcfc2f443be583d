package main

import (
	"context"
	"errors"

	"stallmap/internal/designer/handler"
	"stallmap/internal/designer/service"
	"stallmap/internal/designer/validator"
	"stallmap/pkg/app"
	"stallmap/pkg/config"
	"stallmap/pkg/kafka"
	kafka_config "stallmap/pkg/kafka/config"
	kafka_middleware "stallmap/pkg/kafka/middleware"
)

const ServiceName = "designer"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetLayoutClient()

	cfg.Log.Info("Starting Designer service")
	designerService := initServices(cfg)

	health := app.NewHealthHandler(cfg.Log,
		func() map[string]any {
			return map[string]any{"sessions": designerService.ActiveSessions()}
		},
		app.HealthCheck{Name: "layout_store", Check: cfg.Client.Layout.Ping},
	)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewSessionHandler(designerService, cfg.Log), health, "/save")
	serverApp.OnShutdown(func(context.Context) error {
		designerService.Stop()
		return nil
	})

	if cfg.LayoutEventsEnabled {
		startLayoutListener(cfg, designerService, serverApp)
	}

	serverApp.Run()
}

func initServices(cfg *config.Config) service.DesignerService {
	designerValidator := validator.NewDesignerValidator(cfg.Log)
	designerService := service.NewDesignerService(cfg.Client.Layout, designerValidator, cfg)

	cfg.Log.Info("Designer service initialized",
		"layout_service_url", cfg.LayoutServiceURL,
		"session_ttl", cfg.SessionTTL,
	)
	return designerService
}

// startLayoutListener marks sessions stale when another writer changes
// their event. The consumer stops when the application shuts down.
func startLayoutListener(cfg *config.Config, designerService service.DesignerService, serverApp *app.Application) {
	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	listener := service.NewLayoutListener(designerService, cfg.Log)
	consumer, err := kafka.NewConsumer(kafkaCfg, cfg.LayoutEventsTopic, kafkaCfg.ConsumerGroupID, kafkaCfg.DLQTopic, listener.Handle, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create layout events consumer", "error", err)
	}
	if kafkaCfg.EnableMiddleware {
		metrics := kafka_middleware.NewMetrics()
		consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
		consumer.Use(metrics.ConsumerMiddleware())
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			cfg.Log.Error("Layout events consumer stopped", "error", err)
		}
	}()

	serverApp.OnShutdown(func(context.Context) error {
		cancel()
		return consumer.Close()
	})
	cfg.Log.Info("Layout events listener started", "topic", cfg.LayoutEventsTopic, "group_id", kafkaCfg.ConsumerGroupID)
}
