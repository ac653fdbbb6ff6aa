// internal/common/database/mongo.go
package database

import (
	"context"
	"fmt"

	"pro-discovery/internal/common/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoClient holds the connected client and the profile collection.
type MongoClient struct {
	Client     *mongo.Client
	Collection *mongo.Collection
}

func NewMongo(ctx context.Context, cfg config.MongoConfig) (*MongoClient, error) {
	ctx, cancel := context.WithTimeout(ctx, config.GetDuration(cfg.Timeout))
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	return &MongoClient{
		Client:     client,
		Collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (c *MongoClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping failed: %w", err)
	}
	return nil
}

func (c *MongoClient) Close(ctx context.Context) error {
	return c.Client.Disconnect(ctx)
}
