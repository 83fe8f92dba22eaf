// Package mongo implements the document store on MongoDB. Each collection
// maps to a Mongo collection of the same name; record ids live in _id and
// store order is ascending _id.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/adfharrison1/go-baas/pkg/domain"
)

const idField = "_id"

var _ domain.DocumentStore = (*Store)(nil)

// Store implements domain.DocumentStore on a Mongo database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials uri, pings the primary and binds to database.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	if uri == "" || database == "" {
		return nil, fmt.Errorf("mongo uri and database are required")
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", wrapErr(err))
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("error pinging database: %w", wrapErr(err))
	}

	return &Store{client: client, db: client.Database(database)}, nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Query(ctx context.Context, collection string, q domain.Query) ([]domain.Snapshot, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	coll := s.db.Collection(collection)

	var cursorValue interface{}
	if q.StartAfter != nil && q.Order != nil {
		v, err := s.resumeValue(ctx, coll, *q.StartAfter, q.Order.Field)
		if err != nil {
			return nil, err
		}
		cursorValue = v
	}

	filter, err := buildQueryFilter(q, cursorValue)
	if err != nil {
		return nil, err
	}

	findOptions := options.Find().SetSort(buildSort(q.Order))
	if q.Limit > 0 {
		findOptions.SetLimit(int64(q.Limit))
	}
	if q.Offset > 0 {
		findOptions.SetSkip(int64(q.Offset))
	}

	cursor, err := coll.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("error querying collection %s: %w", collection, wrapErr(err))
	}
	defer cursor.Close(ctx)

	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("error decoding documents: %w", wrapErr(err))
	}

	docs := make([]domain.Snapshot, 0, len(raw))
	for _, m := range raw {
		docs = append(docs, toSnapshot(m))
	}
	return docs, nil
}

// resumeValue finds the order-field value of the resume point, re-reading the
// record when the snapshot does not carry it.
func (s *Store) resumeValue(ctx context.Context, coll *mongo.Collection, after domain.Snapshot, field string) (interface{}, error) {
	if v, ok := after.Data[field]; ok {
		return v, nil
	}
	var m bson.M
	err := coll.FindOne(ctx, bson.D{{Key: idField, Value: after.ID}}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: resume document %q", domain.ErrNotFound, after.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading resume document: %w", wrapErr(err))
	}
	v, ok := m[field]
	if !ok {
		return nil, fmt.Errorf("%w: resume document %q has no field %q", domain.ErrNotFound, after.ID, field)
	}
	return fromBSON(v), nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (domain.Snapshot, error) {
	if id == "" {
		return domain.Snapshot{}, fmt.Errorf("%w: empty document id", domain.ErrInvalidArgument)
	}

	var m bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.D{{Key: idField, Value: id}}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Snapshot{ID: id}, nil
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("error getting document %s: %w", id, wrapErr(err))
	}
	return toSnapshot(m), nil
}

func (s *Store) Add(ctx context.Context, collection string, data domain.Document) (domain.DocumentRef, error) {
	id := s.NewID(collection)
	if _, err := s.db.Collection(collection).InsertOne(ctx, toBSONDoc(id, data)); err != nil {
		return domain.DocumentRef{}, fmt.Errorf("error inserting document: %w", wrapErr(err))
	}
	return domain.DocumentRef{Collection: collection, ID: id}, nil
}

func (s *Store) Set(ctx context.Context, collection, id string, data domain.Document) error {
	if id == "" {
		return fmt.Errorf("%w: empty document id", domain.ErrInvalidArgument)
	}
	_, err := s.db.Collection(collection).ReplaceOne(ctx,
		bson.D{{Key: idField, Value: id}},
		toBSONDoc(id, data),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("error setting document %s: %w", id, wrapErr(err))
	}
	return nil
}

func (s *Store) Update(ctx context.Context, collection, id string, data domain.Document) error {
	coll := s.db.Collection(collection)
	filter := bson.D{{Key: idField, Value: id}}

	fields := toBSONFields(data)
	if len(fields) == 0 {
		// $set rejects an empty document; only check the record exists
		n, err := coll.CountDocuments(ctx, filter)
		if err != nil {
			return fmt.Errorf("error updating document %s: %w", id, wrapErr(err))
		}
		if n == 0 {
			return fmt.Errorf("document with id %s in collection %s: %w", id, collection, domain.ErrNotFound)
		}
		return nil
	}

	res, err := coll.UpdateOne(ctx, filter, bson.D{{Key: "$set", Value: fields}})
	if err != nil {
		return fmt.Errorf("error updating document %s: %w", id, wrapErr(err))
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("document with id %s in collection %s: %w", id, collection, domain.ErrNotFound)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.D{{Key: idField, Value: id}})
	if err != nil {
		return fmt.Errorf("error deleting document %s: %w", id, wrapErr(err))
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("document with id %s in collection %s: %w", id, collection, domain.ErrNotFound)
	}
	return nil
}

// NewID returns a fresh ObjectID in hex form. ObjectIDs grow with time, so
// generated records sort in roughly insertion order.
func (s *Store) NewID(collection string) string {
	return bson.NewObjectID().Hex()
}

// wrapErr marks network failures and timeouts as transient.
func wrapErr(err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return domain.Transient(err)
	}
	return err
}
