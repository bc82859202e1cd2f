package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"github.com/postwright/postwright/apiserver/internal/authx"
	"github.com/postwright/postwright/sdk/meta"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type sessionsStore struct {
	collection *mongo.Collection
}

// NewSessionsStore returns a MongoDB implementation of the
// authx.SessionsStore interface.
func NewSessionsStore(database *mongo.Database) (authx.SessionsStore, error) {
	ctx, cancel :=
		context.WithTimeout(context.Background(), createIndexTimeout)
	defer cancel()
	unique := true
	collection := database.Collection("sessions")
	if _, err := collection.Indexes().CreateMany(
		ctx,
		[]mongo.IndexModel{
			{
				Keys: bson.M{
					"id": 1,
				},
				Options: &options.IndexOptions{
					Unique: &unique,
				},
			},
			{
				Keys: bson.M{
					"hashedToken": 1,
				},
				Options: &options.IndexOptions{
					Unique: &unique,
				},
			},
		},
	); err != nil {
		return nil, errors.Wrap(
			err,
			"error adding indexes to sessions collection",
		)
	}
	return &sessionsStore{
		collection: collection,
	}, nil
}

func (s *sessionsStore) Create(
	ctx context.Context,
	session authx.Session,
) error {
	if _, err := s.collection.InsertOne(ctx, session); err != nil {
		return errors.Wrapf(err, "error inserting new session %q", session.ID)
	}
	return nil
}

func (s *sessionsStore) GetByHashedToken(
	ctx context.Context,
	hashedToken string,
) (authx.Session, error) {
	session := authx.Session{}
	res := s.collection.FindOne(ctx, bson.M{"hashedToken": hashedToken})
	if res.Err() == mongo.ErrNoDocuments {
		return session, &meta.ErrNotFound{
			Type: "Session",
		}
	}
	if res.Err() != nil {
		return session,
			errors.Wrap(res.Err(), "error finding session by hashed token")
	}
	if err := res.Decode(&session); err != nil {
		return session, errors.Wrap(err, "error decoding session")
	}
	return session, nil
}

func (s *sessionsStore) Delete(ctx context.Context, id string) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return errors.Wrapf(err, "error deleting session %q", id)
	}
	if res.DeletedCount == 0 {
		return &meta.ErrNotFound{
			Type: "Session",
			ID:   id,
		}
	}
	return nil
}

func (s *sessionsStore) DeleteByUserID(
	ctx context.Context,
	userID string,
) error {
	if _, err := s.collection.DeleteMany(
		ctx,
		bson.M{"userID": userID},
	); err != nil {
		return errors.Wrapf(err, "error deleting sessions for user %q", userID)
	}
	return nil
}
