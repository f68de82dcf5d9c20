package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Connect opens a client and checks it with a primary ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return client, nil
}

func Ping(ctx context.Context, client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return client.Ping(ctx, readpref.Primary())
}

const (
	offersIDIndex       = "offers_id_index"
	offersIDUniqueIndex = "offers_id_unique"
)

// Коды ошибок MongoDB для отсутствующего индекса и коллекции.
const (
	codeNamespaceNotFound = 26
	codeIndexNotFound     = 27
)

// EnsureOfferIndexes indexes offers_id, as a unique index when unique is set.
// Both variants share a key pattern, so the other one is dropped first.
func EnsureOfferIndexes(ctx context.Context, coll *mongo.Collection, unique bool, log *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	name, stale := offersIDIndex, offersIDUniqueIndex
	opts := options.Index().SetName(name)
	if unique {
		name, stale = offersIDUniqueIndex, offersIDIndex
		opts = options.Index().SetName(name).SetUnique(true)
	}

	if _, err := coll.Indexes().DropOne(ctx, stale); err != nil && !isMissing(err) {
		return fmt.Errorf("drop index %s: %w", stale, err)
	}

	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "offers_id", Value: 1}},
		Options: opts,
	}

	log.Info("Ensuring offer index", zap.String("index", name), zap.String("dropped", stale))
	if _, err := coll.Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("create index %s: %w", name, err)
	}
	return nil
}

func isMissing(err error) bool {
	var cmdErr mongo.CommandError
	if !errors.As(err, &cmdErr) {
		return false
	}
	return cmdErr.Code == codeIndexNotFound || cmdErr.Code == codeNamespaceNotFound
}
