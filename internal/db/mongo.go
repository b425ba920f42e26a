package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
)

// ConnectMongo opens a Mongo client, verifies connectivity with a ping and
// returns the named database.
func ConnectMongo(ctx context.Context, uri, database string) (*mongo.Database, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetMonitor(otelmongo.NewMonitor()).
		SetMaxConnIdleTime(5 * time.Minute)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client.Database(database), nil
}

// EnsureMongoIndexes creates the indexes backing the uniqueness rules on users
// and carts plus the order lookup by user. It is safe to call on every start.
func EnsureMongoIndexes(ctx context.Context, database *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"carts": {
			{Keys: bson.D{{Key: "user", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"orders": {
			{Keys: bson.D{{Key: "user", Value: 1}}},
		},
		"payments": {
			{Keys: bson.D{{Key: "order", Value: 1}}},
		},
	}
	for coll, models := range indexes {
		if _, err := database.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}
