package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mkoller/domainmap/pkg/graph"
)

// ===== MongoDB Store =====

const (
	defaultDatabase   = "domainmap"
	defaultCollection = "datasets"
)

// datasetDoc is the persisted shape of one dataset. The _id is the dataset
// content hash, so saving the same workbook twice overwrites in place.
type datasetDoc struct {
	ID    string       `bson:"_id"`
	Nodes []graph.Node `bson:"nodes"`
}

// MongoStore persists node tables in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

var _ Store = (*MongoStore)(nil)

// NewMongoStore connects to the MongoDB instance at uri and verifies the
// connection with a ping before returning.
func NewMongoStore(ctx context.Context, uri string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}
	coll := client.Database(defaultDatabase).Collection(defaultCollection)
	return &MongoStore{client: client, coll: coll}, nil
}

// SaveTable upserts the node table under the dataset hash.
func (s *MongoStore) SaveTable(ctx context.Context, dataset string, tbl graph.Table) error {
	doc := datasetDoc{ID: dataset, Nodes: tbl.Nodes}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": dataset}, doc, opts); err != nil {
		return fmt.Errorf("saving dataset %s: %w", dataset, err)
	}
	return nil
}

// LoadTable retrieves the node table stored under the dataset hash.
func (s *MongoStore) LoadTable(ctx context.Context, dataset string) (graph.Table, bool, error) {
	var doc datasetDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": dataset}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return graph.Table{}, false, nil
	}
	if err != nil {
		return graph.Table{}, false, fmt.Errorf("loading dataset %s: %w", dataset, err)
	}
	return graph.Table{Nodes: doc.Nodes}, true, nil
}

// Datasets lists the stored dataset hashes in no particular order.
func (s *MongoStore) Datasets(ctx context.Context) ([]string, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("listing datasets: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding dataset id: %w", err)
		}
		ids = append(ids, doc.ID)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("listing datasets: %w", err)
	}
	return ids, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
