package docstore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/iliyamo/cinemood/internal/model"
)

type contentDoc struct {
	OID               bson.ObjectID `bson:"_id,omitempty"`
	model.ContentItem `bson:",inline"`
}

// CatalogStore reads the movies and tvseries collections.
type CatalogStore struct {
	movies *mongo.Collection
	tv     *mongo.Collection
}

func NewCatalogStore(db *mongo.Database) *CatalogStore {
	return &CatalogStore{
		movies: db.Collection(MoviesCollection),
		tv:     db.Collection(TVSeriesCollection),
	}
}

func (s *CatalogStore) collection(kind model.ContentType) (*mongo.Collection, error) {
	switch kind {
	case model.ContentMovie:
		return s.movies, nil
	case model.ContentTV:
		return s.tv, nil
	}
	return nil, fmt.Errorf("unknown content type %q", kind)
}

func (s *CatalogStore) Count(ctx context.Context, kind model.ContentType) (int64, error) {
	coll, err := s.collection(kind)
	if err != nil {
		return 0, err
	}
	return coll.CountDocuments(ctx, bson.M{})
}

// ListByPopularity pages through kind, most popular first.  Documents
// without popularity sort after every scored one.
func (s *CatalogStore) ListByPopularity(ctx context.Context, kind model.ContentType, skip, limit int) ([]model.ContentItem, error) {
	coll, err := s.collection(kind)
	if err != nil {
		return nil, err
	}
	// Mongo reads limit 0 as no limit.
	if limit <= 0 {
		return []model.ContentItem{}, nil
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "popularity", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"credits": 0, "keywords": 0, "streamingProviders": 0})
	cur, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var docs []contentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	items := make([]model.ContentItem, 0, len(docs))
	for _, d := range docs {
		it := d.ContentItem
		it.ID = d.OID.Hex()
		if it.Type == "" {
			it.Type = kind
		}
		items = append(items, it)
	}
	return items, nil
}
