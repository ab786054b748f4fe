package docstore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/iliyamo/cinemood/internal/model"
	"github.com/iliyamo/cinemood/internal/repository"
)

type showDoc struct {
	OID        bson.ObjectID `bson:"_id,omitempty"`
	model.Show `bson:",inline"`
}

func (d showDoc) toModel() model.Show {
	s := d.Show
	s.ID = d.OID.Hex()
	if s.Emotions == nil {
		s.Emotions = []string{}
	}
	return s
}

// ShowStore keeps shows in the posts collection.
type ShowStore struct {
	coll *mongo.Collection
}

func NewShowStore(db *mongo.Database) *ShowStore {
	return &ShowStore{coll: db.Collection(PostsCollection)}
}

func (s *ShowStore) GetByID(ctx context.Context, id string) (model.Show, error) {
	oid, err := objectID(id)
	if err != nil {
		return model.Show{}, err
	}
	var doc showDoc
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Show{}, repository.ErrNotFound
	}
	if err != nil {
		return model.Show{}, err
	}
	return doc.toModel(), nil
}

// ReplaceEmotions sets the emotions array in one document update.
func (s *ShowStore) ReplaceEmotions(ctx context.Context, id string, emotions []string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	if emotions == nil {
		emotions = []string{}
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"emotions": emotions}},
		opts,
	).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	return err
}

func (s *ShowStore) HasEmotions(ctx context.Context, id string) (bool, error) {
	oid, err := objectID(id)
	if err != nil {
		return false, err
	}
	n, err := s.coll.CountDocuments(ctx,
		bson.M{"_id": oid, "emotions.0": bson.M{"$exists": true}},
		options.Count().SetLimit(1))
	return n > 0, err
}

func (s *ShowStore) CountByEmotion(ctx context.Context, emotion string) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{"emotions": emotion})
}

func (s *ShowStore) ListByEmotion(ctx context.Context, emotion string, skip, limit int) ([]model.Show, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "popularity", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))
	cur, err := s.coll.Find(ctx, bson.M{"emotions": emotion}, opts)
	if err != nil {
		return nil, err
	}
	return decodeShows(ctx, cur)
}

// GetMany returns the shows named by ids in the order given; malformed
// and missing ids are skipped.
func (s *ShowStore) GetMany(ctx context.Context, ids []string) ([]model.Show, error) {
	oids := make([]bson.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := objectID(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []model.Show{}, nil
	}
	cur, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}
	found, err := decodeShows(ctx, cur)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.Show, len(found))
	for _, sh := range found {
		byID[sh.ID] = sh
	}
	out := make([]model.Show, 0, len(found))
	for _, oid := range oids {
		if sh, ok := byID[oid.Hex()]; ok {
			out = append(out, sh)
		}
	}
	return out, nil
}

func decodeShows(ctx context.Context, cur *mongo.Cursor) ([]model.Show, error) {
	var docs []showDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]model.Show, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}
