package viewcount

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/dvh-sh/folio/listing"
)

// viewDoc is a document of the blogs collection.
type viewDoc struct {
	Slug  string `bson:"slug"`
	Views int    `bson:"views"`
	Type  string `bson:"type"`
}

// MongoStore keeps view counts in the "blogs" collection.
type MongoStore struct {
	client *mongo.Client
	col    *mongo.Collection
}

// NewMongoStore connects to uri, verifies the connection and ensures the
// unique (slug, type) index.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = "folio"
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cl, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := cl.Ping(ctx, readpref.Primary()); err != nil {
		_ = cl.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := &MongoStore{client: cl, col: cl.Database(database).Collection("blogs")}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = cl.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	mi := mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}, {Key: "type", Value: 1}},
		Options: options.Index().SetName("uniq_slug_type").SetUnique(true),
	}
	if _, err := s.col.Indexes().CreateOne(ctx, mi); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) Counts(ctx context.Context, kind listing.Kind) (map[string]int, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	opts := options.Find().SetProjection(bson.M{"slug": 1, "views": 1, "type": 1})
	cur, err := s.col.Find(ctx, bson.M{"type": string(kind)}, opts)
	if err != nil {
		return nil, fmt.Errorf("find views: %w", err)
	}
	defer cur.Close(ctx)

	out := make(map[string]int)
	for cur.Next(ctx) {
		var d viewDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out[d.Slug] = d.Views
	}
	return out, cur.Err()
}

func (s *MongoStore) Count(ctx context.Context, slug string, kind listing.Kind) (int, error) {
	if err := checkKind(kind); err != nil {
		return 0, err
	}
	var d viewDoc
	err := s.col.FindOne(ctx, bson.M{"slug": slug, "type": string(kind)}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("find view: %w", err)
	}
	return d.Views, nil
}

func (s *MongoStore) Increment(ctx context.Context, slug string, kind listing.Kind) (int, error) {
	if err := checkKind(kind); err != nil {
		return 0, err
	}
	filter := bson.M{"slug": slug, "type": string(kind)}
	update := bson.M{"$inc": bson.M{"views": 1}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var d viewDoc
	if err := s.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&d); err != nil {
		return 0, fmt.Errorf("increment view: %w", err)
	}
	return d.Views, nil
}
