package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stallmap/internal/layouts/repository"
	"stallmap/internal/migrations/mongo/validators"
	"stallmap/pkg/logger"
)

var (
	EventsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "starts_at", Value: -1}}},
	}

	StallsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "event_id", Value: 1}, {Key: "position", Value: 1}}},
		{Keys: bson.D{{Key: "event_id", Value: 1}, {Key: "hall_name", Value: 1}}},
	}
)

type collectionDef struct {
	Indexes   []mongo.IndexModel
	Validator bson.M
}

// Collections lists every collection the layout store owns.
var Collections = map[string]collectionDef{
	repository.EventsCollection: {
		Indexes:   EventsIndexes,
		Validator: validators.EventValidator,
	},
	repository.StallsCollection: {
		Indexes:   StallsIndexes,
		Validator: validators.StallValidator,
	},
	repository.CountersCollection: {
		Validator: validators.CounterValidator,
	},
}

// RunMigration creates the collections with their validators and indexes.
// Collections that exist get their validator updated. Stall ids are
// allocated inside transactions, so every collection must exist up front.
func RunMigration(ctx context.Context, client *mongo.Client, dbName string, log *logger.Logger) error {
	db := client.Database(dbName)
	log.Info("Running Mongo migrations", "database", dbName)

	for name, def := range Collections {
		if err := ensureCollection(ctx, db, name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection already exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	if len(models) == 0 {
		return nil
	}
	if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "indexes", len(models))
	return nil
}
