// Package docstore implements the stores on MongoDB.  Documents keep the
// TMDB payload as ingested; only emotions (posts) and favorites (users)
// are written here.
package docstore

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/iliyamo/cinemood/internal/repository"
)

// Collection names.
const (
	MoviesCollection   = "movies"
	TVSeriesCollection = "tvseries"
	PostsCollection    = "posts"
	UsersCollection    = "users"
)

// EnsureIndexes creates the unique and sort indexes the stores rely on.
// It is safe to call on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)
	byPopularity := mongo.IndexModel{Keys: bson.D{{Key: "popularity", Value: -1}, {Key: "_id", Value: 1}}}

	specs := map[string][]mongo.IndexModel{
		MoviesCollection: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			byPopularity,
		},
		TVSeriesCollection: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			byPopularity,
		},
		PostsCollection: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "emotions", Value: 1}, {Key: "popularity", Value: -1}}},
		},
		UsersCollection: {
			{Keys: bson.D{{Key: "externalId", Value: 1}}, Options: unique},
		},
	}
	for name, models := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}

// objectID parses a hex ObjectID, mapping failures to repository.ErrInvalidID.
func objectID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, repository.ErrInvalidID
	}
	return oid, nil
}
