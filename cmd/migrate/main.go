package main

import (
	"context"
	"os"
	"time"

	mongoMigration "stallmap/internal/migrations/mongo"
	"stallmap/pkg/config"
)

const JobName = "mongo-migration"

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.SetMongo()
	cfg.Log.Info("Starting Mongo migration job")

	err := mongoMigration.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.Log)
	if shutdownErr := cfg.GracefulShutdown(ctx); shutdownErr != nil {
		cfg.Log.Error("Failed to disconnect from MongoDB", "error", shutdownErr)
	}
	if err != nil {
		cfg.Log.Error("Migration failed", "error", err)
		cancel()
		os.Exit(1)
	}
	cfg.Log.Info("Migration completed successfully")
}
