package main

import (
	"context"

	"stallmap/internal/layouts/events"
	"stallmap/internal/layouts/handler"
	"stallmap/internal/layouts/repository"
	"stallmap/internal/layouts/service"
	"stallmap/internal/layouts/validator"
	"stallmap/pkg/app"
	"stallmap/pkg/config"
	"stallmap/pkg/kafka"
	kafka_config "stallmap/pkg/kafka/config"
	kafka_middleware "stallmap/pkg/kafka/middleware"
)

const ServiceName = "layouts"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Layouts service")
	serverApp := app.NewApplication(cfg)
	layoutService := initServices(cfg, serverApp)

	health := app.NewHealthHandler(cfg.Log, nil,
		app.HealthCheck{Name: "mongo", Check: func(ctx context.Context) error {
			return cfg.Client.Mongo.Ping(ctx, nil)
		}},
	)

	serverApp.SetApp(handler.NewEventHandler(layoutService, cfg.Log), health)
	serverApp.Run()
}

func initServices(cfg *config.Config, serverApp *app.Application) service.LayoutService {
	layoutsValidator := validator.NewLayoutsValidator(cfg.Log)
	layoutRepo := repository.NewMongoLayoutRepository(cfg)
	layoutService := service.NewLayoutService(
		layoutRepo,
		layoutsValidator,
		initPublisher(cfg, serverApp),
		cfg,
	)

	cfg.Log.Info("Layouts service initialized", "database", cfg.MongoDatabaseName)
	return layoutService
}

func initPublisher(cfg *config.Config, serverApp *app.Application) events.LayoutPublisher {
	if !cfg.LayoutEventsEnabled {
		cfg.Log.Info("Layout events disabled")
		return events.NewLayoutPublisher(nil, cfg.Log)
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.LayoutEventsTopic, kafkaCfg.DLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create layout events producer", "error", err)
	}
	if kafkaCfg.EnableMiddleware {
		metrics := kafka_middleware.NewMetrics()
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
		producer.Use(metrics.ProducerMiddleware())
	}

	serverApp.OnShutdown(func(context.Context) error {
		return producer.Close()
	})
	cfg.Log.Info("Layout events producer started", "topic", cfg.LayoutEventsTopic)
	return events.NewLayoutPublisher(producer, cfg.Log)
}
