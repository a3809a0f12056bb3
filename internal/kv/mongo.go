package kv

import (
	"context"
	"time"

	"github.com/vhvplatform/go-reminder-engine/internal/shared/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const stateCollection = "engine_state"

type stateDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStore persists keys as single documents in the engine_state
// collection.
type MongoStore struct {
	client *mongodb.MongoClient
}

// NewMongoStore creates a Mongo-backed key/value store.
func NewMongoStore(client *mongodb.MongoClient) *MongoStore {
	return &MongoStore{client: client}
}

// Get retrieves the value stored under key.
func (s *MongoStore) Get(ctx context.Context, key string) (string, bool, error) {
	var doc stateDocument
	err := s.client.Collection(stateCollection).FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return doc.Value, true, nil
}

// Set upserts the value stored under key.
func (s *MongoStore) Set(ctx context.Context, key, value string) error {
	update := bson.M{"$set": bson.M{"value": value, "updated_at": time.Now()}}
	opts := options.Update().SetUpsert(true)
	_, err := s.client.Collection(stateCollection).UpdateOne(ctx, bson.M{"_id": key}, update, opts)
	return err
}
