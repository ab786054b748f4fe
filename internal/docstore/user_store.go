package docstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/iliyamo/cinemood/internal/model"
	"github.com/iliyamo/cinemood/internal/repository"
)

type userDoc struct {
	OID        bson.ObjectID   `bson:"_id,omitempty"`
	ExternalID string          `bson:"externalId"`
	Email      string          `bson:"email"`
	Favorites  []bson.ObjectID `bson:"favorites"`
	CreatedAt  time.Time       `bson:"createdAt"`
	UpdatedAt  time.Time       `bson:"updatedAt"`
}

func (d userDoc) toModel() model.User {
	favs := make([]string, 0, len(d.Favorites))
	for _, oid := range d.Favorites {
		favs = append(favs, oid.Hex())
	}
	return model.User{
		ID:         d.OID.Hex(),
		ExternalID: d.ExternalID,
		Email:      d.Email,
		Favorites:  favs,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

// UserStore keeps users in the users collection.
type UserStore struct {
	coll *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{coll: db.Collection(UsersCollection)}
}

func (s *UserStore) GetByExternalID(ctx context.Context, externalID string) (model.User, error) {
	var doc userDoc
	err := s.coll.FindOne(ctx, bson.M{"externalId": externalID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, repository.ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return doc.toModel(), nil
}

// Create inserts a user; a concurrent insert of the same external id
// resolves to the stored record via the unique index.
func (s *UserStore) Create(ctx context.Context, externalID, email string) (model.User, error) {
	now := time.Now().UTC()
	doc := userDoc{
		ExternalID: externalID,
		Email:      strings.ToLower(strings.TrimSpace(email)),
		Favorites:  []bson.ObjectID{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return s.GetByExternalID(ctx, externalID)
		}
		return model.User{}, err
	}
	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		doc.OID = oid
	}
	return doc.toModel(), nil
}

func (s *UserStore) SaveFavorites(ctx context.Context, userID string, favs []string) error {
	oid, err := objectID(userID)
	if err != nil {
		return err
	}
	refs, err := objectIDs(favs)
	if err != nil {
		return err
	}
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"favorites": refs, "updatedAt": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// objectIDs converts favorite ids to the ObjectId references the users
// collection stores.
func objectIDs(ids []string) ([]bson.ObjectID, error) {
	out := make([]bson.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := objectID(id)
		if err != nil {
			return nil, err
		}
		out = append(out, oid)
	}
	return out, nil
}
