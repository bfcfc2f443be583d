package client

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stallmap/pkg/logger"
)

// Client holds the outbound connections a service was configured with.
type Client struct {
	Mongo  *mongo.Client
	Layout *LayoutClient
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) SetMongo(log *logger.Logger, mongoURI string, mongoConnTimeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoConnTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB", "error", err)
	}

	log.Info("Successfully connected to MongoDB")
	c.Mongo = client
}

func (c *Client) SetLayout(log *logger.Logger, baseURL string, timeout time.Duration) {
	c.Layout = NewLayoutClient(baseURL, timeout)
	log.Info("Layout store client configured", "base_url", baseURL, "timeout", timeout)
}

// GracefulShutdown disconnects from MongoDB when connected.
func (c *Client) GracefulShutdown(ctx context.Context) error {
	if c.Mongo == nil {
		return nil
	}
	return c.Mongo.Disconnect(ctx)
}
