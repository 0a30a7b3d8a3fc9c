package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/lineplanner/pkg/snapshot"
)

// MongoConfig configures the MongoDB snapshot store.
type MongoConfig struct {
	URI        string // connection string, e.g. "mongodb://localhost:27017"
	Database   string // defaults to "lineplanner"
	Collection string // defaults to "snapshots"
}

// MongoStore is a MongoDB-backed snapshot store for durable save history.
// The snapshot payload is stored as its canonical JSON string rather than
// as BSON: the wire format stays identical across every backend and the
// integer-keyed maps of the snapshot format need no BSON mapping.
type MongoStore struct {
	client *mongo.Client
	col    *mongo.Collection
}

// mongoRecord is the document shape in the snapshots collection.
type mongoRecord struct {
	ID         string    `bson:"_id"`
	CreatedAt  time.Time `bson:"created_at"`
	LineCount  int       `bson:"line_count"`
	PointCount int       `bson:"point_count"`
	Data       string    `bson:"data"` // canonical snapshot JSON
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "lineplanner"
	}
	if cfg.Collection == "" {
		cfg.Collection = "snapshots"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &MongoStore{
		client: client,
		col:    client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Save stores a snapshot as a new document.
func (s *MongoStore) Save(ctx context.Context, snap snapshot.Snapshot) (Record, error) {
	rec := newRecord(snap)
	data, err := json.Marshal(snap)
	if err != nil {
		return Record{}, fmt.Errorf("marshal snapshot: %w", err)
	}

	doc := mongoRecord{
		ID:         rec.ID,
		CreatedAt:  rec.CreatedAt,
		LineCount:  rec.LineCount,
		PointCount: rec.PointCount,
		Data:       string(data),
	}
	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		return Record{}, fmt.Errorf("insert record: %w", err)
	}
	return rec, nil
}

// Load retrieves a record by ID.
func (s *MongoStore) Load(ctx context.Context, id string) (Record, error) {
	var doc mongoRecord
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("find record: %w", err)
	}
	return s.toRecord(doc)
}

// Latest retrieves the most recently saved record.
func (s *MongoStore) Latest(ctx context.Context) (Record, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var doc mongoRecord
	err := s.col.FindOne(ctx, bson.M{}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("find latest record: %w", err)
	}
	return s.toRecord(doc)
}

// List returns all records, newest first.
func (s *MongoStore) List(ctx context.Context) ([]Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []Record
	for cursor.Next(ctx) {
		var doc mongoRecord
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		rec, err := s.toRecord(doc)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// Delete removes a record.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) toRecord(doc mongoRecord) (Record, error) {
	snap, err := snapshot.Unmarshal([]byte(doc.Data))
	if err != nil {
		return Record{}, fmt.Errorf("record %s: %w", doc.ID, err)
	}
	return Record{
		ID:         doc.ID,
		CreatedAt:  doc.CreatedAt,
		LineCount:  doc.LineCount,
		PointCount: doc.PointCount,
		Snapshot:   snap,
	}, nil
}

var _ Store = (*MongoStore)(nil)
