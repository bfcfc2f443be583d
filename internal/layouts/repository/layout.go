package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	layoutserrors "stallmap/internal/layouts/errors"
	"stallmap/pkg/config"
	mongotx "stallmap/pkg/db/mongo"
	"stallmap/pkg/model"
)

const (
	EventsCollection   = "events"
	StallsCollection   = "stalls"
	CountersCollection = "counters"

	EventsCounter = "events"
	StallsCounter = "stalls"
)

type LayoutRepository interface {
	CreateEvent(ctx context.Context, e *model.Event) error
	FindEvent(ctx context.Context, id int64) (*model.Event, error)
	UpdateEvent(ctx context.Context, id int64, set bson.M) (*model.Event, error)
	FindStalls(ctx context.Context, eventID int64) ([]model.Stall, error)
	// FindForeignStallIDs returns those of ids that belong to an event other
	// than eventID.
	FindForeignStallIDs(ctx context.Context, eventID int64, ids []int64) ([]int64, error)
	ReplaceStalls(ctx context.Context, eventID int64, stalls []model.Stall) error
	// NextIDs reserves n consecutive ids from the named counter and returns
	// the first.
	NextIDs(ctx context.Context, counter string, n int) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoLayoutRepository struct {
	cfg       *config.Config
	events    *mongo.Collection
	stalls    *mongo.Collection
	counters  *mongo.Collection
	txManager mongotx.TransactionManager
}

func NewMongoLayoutRepository(cfg *config.Config) LayoutRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoLayoutRepository{
		cfg:       cfg,
		events:    db.Collection(EventsCollection),
		stalls:    db.Collection(StallsCollection),
		counters:  db.Collection(CountersCollection),
		txManager: mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout unless it is a transaction's
// SessionContext, which cannot be wrapped without leaving the transaction.
func (r *mongoLayoutRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining > timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoLayoutRepository) CreateEvent(ctx context.Context, e *model.Event) error {
	id, err := r.NextIDs(ctx, EventsCounter, 1)
	if err != nil {
		return err
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	e.ID = id
	e.CreatedAt = now
	e.UpdatedAt = now
	if _, err := r.events.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *mongoLayoutRepository) FindEvent(ctx context.Context, id int64) (*model.Event, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var e model.Event
	err := r.events.FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %d", layoutserrors.ErrEventNotFound, id)
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return &e, nil
}

func (r *mongoLayoutRepository) UpdateEvent(ctx context.Context, id int64, set bson.M) (*model.Event, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	fields := bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)}
	for k, v := range set {
		fields[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var e model.Event
	err := r.events.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&e)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %d", layoutserrors.ErrEventNotFound, id)
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return &e, nil
}

func (r *mongoLayoutRepository) FindStalls(ctx context.Context, eventID int64) ([]model.Stall, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.stalls.Find(ctx, bson.M{"event_id": eventID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query stalls: %w", err)
	}
	defer cursor.Close(ctx)

	stalls := []model.Stall{}
	if err = cursor.All(ctx, &stalls); err != nil {
		return nil, fmt.Errorf("failed to decode stalls: %w", err)
	}
	return stalls, nil
}

func (r *mongoLayoutRepository) FindForeignStallIDs(ctx context.Context, eventID int64, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"_id": bson.M{"$in": ids}, "event_id": bson.M{"$ne": eventID}}
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.stalls.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query stall owners: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID int64 `bson:"_id"`
	}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode stall owners: %w", err)
	}
	foreign := make([]int64, 0, len(docs))
	for _, d := range docs {
		foreign = append(foreign, d.ID)
	}
	return foreign, nil
}

// ReplaceStalls deletes every stall of the event and inserts stalls. Run it
// inside ExecuteTransaction so readers never see a partial replace.
func (r *mongoLayoutRepository) ReplaceStalls(ctx context.Context, eventID int64, stalls []model.Stall) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.stalls.DeleteMany(ctx, bson.M{"event_id": eventID}); err != nil {
		return fmt.Errorf("failed to clear stalls: %w", err)
	}
	if len(stalls) == 0 {
		return nil
	}

	docs := make([]any, len(stalls))
	for i := range stalls {
		docs[i] = stalls[i]
	}
	if _, err := r.stalls.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert stalls: %w", err)
	}
	return nil
}

func (r *mongoLayoutRepository) NextIDs(ctx context.Context, counter string, n int) (int64, error) {
	if n <= 0 {
		return 0, fmt.Errorf("invalid id count %d", n)
	}
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": counter},
		bson.M{"$inc": bson.M{"seq": int64(n)}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate %s ids: %w", counter, err)
	}
	return doc.Seq - int64(n) + 1, nil
}

func (r *mongoLayoutRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
