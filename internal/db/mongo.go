package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/yigit/signupdesk/internal/pkg/logger"
)

// MongoStore keeps each namespace in its own MongoDB collection
type MongoStore struct {
	client *mongo.Client
}

// NewMongoStore creates the client. The driver connects lazily, so an unreachable
// server only shows up on Ping or on the first operation.
func NewMongoStore(ctx context.Context, uri string, connectTimeout time.Duration) (*MongoStore, error) {
	opts := options.Client().ApplyURI(uri)
	if connectTimeout > 0 {
		opts.SetConnectTimeout(connectTimeout).SetServerSelectionTimeout(connectTimeout)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	return &MongoStore{client: client}, nil
}

func (s *MongoStore) collection(ns Namespace) *mongo.Collection {
	return s.client.Database(ns.Database).Collection(ns.Collection)
}

// InsertOne stores doc using its bson tags
func (s *MongoStore) InsertOne(ctx context.Context, ns Namespace, doc Document) error {
	if _, err := s.collection(ns).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert into %s: %w", ns, err)
	}
	return nil
}

// FindAll returns documents in natural order
func (s *MongoStore) FindAll(ctx context.Context, ns Namespace, results any) error {
	cursor, err := s.collection(ns).Find(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("find in %s: %w", ns, err)
	}
	if err := cursor.All(ctx, results); err != nil {
		return fmt.Errorf("decode %s: %w", ns, err)
	}
	return nil
}

// NewID returns a new ObjectID in hex form
func (s *MongoStore) NewID() string {
	return primitive.NewObjectID().Hex()
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		logger.Error().Err(err).Msg("Failed to disconnect from MongoDB")
		return err
	}
	logger.Info().Msg("MongoDB connection closed")
	return nil
}
