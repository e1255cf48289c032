package db

import (
	"context"
	"fmt"

	"newscrawler/pkg/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig holds the MongoDB archive location
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// Client wraps the MongoDB client and the archive collection
type Client struct {
	mongoClient *mongo.Client
	collection  *mongo.Collection
}

// NewClient creates a new MongoDB archive client. The connection is verified by Connect.
func NewClient(cfg MongoConfig) (*Client, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo URI is required")
	}

	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	return &Client{
		mongoClient: mongoClient,
		collection:  mongoClient.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Connect verifies the connection to MongoDB
func (c *Client) Connect(ctx context.Context) error {
	if c.mongoClient == nil {
		return fmt.Errorf("mongo client not initialized")
	}
	return c.mongoClient.Ping(ctx, nil)
}

// Close closes the MongoDB connection
func (c *Client) Close(ctx context.Context) error {
	if c.mongoClient == nil {
		return nil
	}
	return c.mongoClient.Disconnect(ctx)
}

// SaveArticle upserts the record using its article URL as the key
func (c *Client) SaveArticle(ctx context.Context, rec *domain.ArticleRecord) error {
	if c.collection == nil {
		return fmt.Errorf("collection not initialized")
	}

	filter := bson.M{"article_url": rec.ArticleURL}
	update := bson.M{"$set": rec}
	opts := options.Update().SetUpsert(true)

	if _, err := c.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("upsert article %s: %w", rec.ArticleURL, err)
	}
	return nil
}
