package mongostore

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ehr/fixtures/internal/domain/fixtures"
)

// Indexes lists the secondary indexes created per collection. Entity ids are
// stored as _id and need no index of their own.
var Indexes = map[string][]mongo.IndexModel{
	CollectionUsers: {
		{Keys: bson.D{{Key: "username", Value: 1}}},
	},
	CollectionMedicalStaff: {
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "specialisation", Value: 1}}},
	},
	CollectionPatients: {
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "appointments.doctor_id", Value: 1}, {Key: "appointments.date", Value: 1}}},
		{Keys: bson.D{{Key: "medical_records.doctor_id", Value: 1}}},
	},
}

type LoadOptions struct {
	// Drop removes each collection, indexes included, before inserting.
	Drop bool
}

type LoadResult struct {
	Users        int `json:"users"`
	MedicalStaff int `json:"medicalStaff"`
	Patients     int `json:"patients"`
}

type Loader struct {
	db     Database
	logger zerolog.Logger
}

func NewLoader(db Database, logger zerolog.Logger) *Loader {
	return &Loader{db: db, logger: logger}
}

// Load inserts users first, then medical staff, then patients, creating the
// indexes of each collection after its documents are in.
func (l *Loader) Load(ctx context.Context, ds *fixtures.Dataset, opts LoadOptions) (*LoadResult, error) {
	result := &LoadResult{}
	steps := []struct {
		name  string
		docs  []interface{}
		count *int
	}{
		{CollectionUsers, documents(ds.Users), &result.Users},
		{CollectionMedicalStaff, documents(ds.MedicalStaff), &result.MedicalStaff},
		{CollectionPatients, documents(ds.Patients), &result.Patients},
	}

	for _, step := range steps {
		n, err := l.loadCollection(ctx, step.name, step.docs, opts)
		if err != nil {
			return nil, err
		}
		*step.count = n
	}

	l.logger.Info().
		Int("users", result.Users).
		Int("medical_staff", result.MedicalStaff).
		Int("patients", result.Patients).
		Bool("dropped", opts.Drop).
		Msg("dataset loaded into mongo")
	return result, nil
}

func (l *Loader) loadCollection(ctx context.Context, name string, docs []interface{}, opts LoadOptions) (int, error) {
	coll := l.db.Collection(name)
	if opts.Drop {
		if err := coll.Drop(ctx); err != nil {
			return 0, fmt.Errorf("drop %s: %w", name, err)
		}
	}

	n := 0
	if len(docs) > 0 {
		var err error
		if n, err = coll.InsertMany(ctx, docs); err != nil {
			return n, fmt.Errorf("insert %s: %w", name, err)
		}
	}

	created, err := coll.CreateIndexes(ctx, Indexes[name])
	if err != nil {
		return n, fmt.Errorf("index %s: %w", name, err)
	}
	l.logger.Debug().Str("collection", name).Int("documents", n).Strs("indexes", created).Msg("collection loaded")
	return n, nil
}

func documents[T any](items []T) []interface{} {
	docs := make([]interface{}, len(items))
	for i, item := range items {
		docs[i] = item
	}
	return docs
}
