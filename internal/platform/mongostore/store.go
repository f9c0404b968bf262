// Package mongostore loads fixture datasets into MongoDB under the collection
// names the hospital web app reads.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	CollectionUsers        = "users"
	CollectionMedicalStaff = "medical_staff"
	CollectionPatients     = "patient"
)

const connectTimeout = 10 * time.Second

// Connect dials uri and pings the primary.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// Collection is the slice of *mongo.Collection the loader uses.
type Collection interface {
	Drop(ctx context.Context) error
	InsertMany(ctx context.Context, docs []interface{}) (int, error)
	CreateIndexes(ctx context.Context, models []mongo.IndexModel) ([]string, error)
}

type Database interface {
	Collection(name string) Collection
}

// NewDatabase adapts a driver database to Database.
func NewDatabase(db *mongo.Database) Database {
	return mongoDatabase{db: db}
}

type mongoDatabase struct {
	db *mongo.Database
}

func (d mongoDatabase) Collection(name string) Collection {
	return mongoCollection{coll: d.db.Collection(name)}
}

type mongoCollection struct {
	coll *mongo.Collection
}

func (c mongoCollection) Drop(ctx context.Context) error {
	return c.coll.Drop(ctx)
}

func (c mongoCollection) InsertMany(ctx context.Context, docs []interface{}) (int, error) {
	res, err := c.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if res == nil {
		return 0, err
	}
	return len(res.InsertedIDs), err
}

func (c mongoCollection) CreateIndexes(ctx context.Context, models []mongo.IndexModel) ([]string, error) {
	return c.coll.Indexes().CreateMany(ctx, models)
}
