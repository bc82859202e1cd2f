package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/postwright/postwright/apiserver/internal/authx"
	"github.com/postwright/postwright/sdk/meta"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const createIndexTimeout = 5 * time.Second

type usersStore struct {
	collection *mongo.Collection
}

// NewUsersStore returns a MongoDB implementation of the authx.UsersStore
// interface.
func NewUsersStore(database *mongo.Database) (authx.UsersStore, error) {
	ctx, cancel :=
		context.WithTimeout(context.Background(), createIndexTimeout)
	defer cancel()
	unique := true
	collection := database.Collection("users")
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
					"email": 1,
				},
				Options: &options.IndexOptions{
					Unique: &unique,
				},
			},
		},
	); err != nil {
		return nil, errors.Wrap(err, "error adding indexes to users collection")
	}
	return &usersStore{
		collection: collection,
	}, nil
}

func (u *usersStore) Create(ctx context.Context, user authx.User) error {
	if _, err := u.collection.InsertOne(ctx, user); err != nil {
		if writeException, ok := err.(mongo.WriteException); ok {
			if len(writeException.WriteErrors) == 1 &&
				writeException.WriteErrors[0].Code == 11000 {
				return &meta.ErrConflict{
					Type: "User",
					ID:   user.Email,
					Reason: fmt.Sprintf(
						"A user with the email %q already exists.",
						user.Email,
					),
				}
			}
		}
		return errors.Wrapf(err, "error inserting new user %q", user.ID)
	}
	return nil
}

func (u *usersStore) Get(
	ctx context.Context,
	id string,
) (authx.User, error) {
	user := authx.User{}
	res := u.collection.FindOne(ctx, bson.M{"id": id})
	if res.Err() == mongo.ErrNoDocuments {
		return user, &meta.ErrNotFound{
			Type: "User",
			ID:   id,
		}
	}
	if res.Err() != nil {
		return user, errors.Wrapf(res.Err(), "error finding user %q", id)
	}
	if err := res.Decode(&user); err != nil {
		return user, errors.Wrapf(err, "error decoding user %q", id)
	}
	return user, nil
}

func (u *usersStore) GetByEmail(
	ctx context.Context,
	email string,
) (authx.User, error) {
	user := authx.User{}
	res := u.collection.FindOne(ctx, bson.M{"email": email})
	if res.Err() == mongo.ErrNoDocuments {
		return user, &meta.ErrNotFound{
			Type: "User",
			ID:   email,
		}
	}
	if res.Err() != nil {
		return user,
			errors.Wrapf(res.Err(), "error finding user with email %q", email)
	}
	if err := res.Decode(&user); err != nil {
		return user,
			errors.Wrapf(err, "error decoding user with email %q", email)
	}
	return user, nil
}

func (u *usersStore) UpdateProfile(
	ctx context.Context,
	id string,
	update authx.UserProfileUpdate,
) error {
	res, err := u.collection.UpdateOne(
		ctx,
		bson.M{"id": id},
		bson.M{
			"$set": bson.M{
				"name":        update.Name,
				"username":    update.Username,
				"bio":         update.Bio,
				"lastUpdated": time.Now(),
			},
		},
	)
	if err != nil {
		return errors.Wrapf(err, "error updating user %q", id)
	}
	if res.MatchedCount == 0 {
		return &meta.ErrNotFound{
			Type: "User",
			ID:   id,
		}
	}
	return nil
}

func (u *usersStore) SetHashedPassword(
	ctx context.Context,
	id string,
	hashedPassword string,
) error {
	res, err := u.collection.UpdateOne(
		ctx,
		bson.M{"id": id},
		bson.M{
			"$set": bson.M{
				"hashedPassword": hashedPassword,
				"lastUpdated":    time.Now(),
			},
		},
	)
	if err != nil {
		return errors.Wrapf(err, "error updating user %q", id)
	}
	if res.MatchedCount == 0 {
		return &meta.ErrNotFound{
			Type: "User",
			ID:   id,
		}
	}
	return nil
}

func (u *usersStore) SetLastLogin(
	ctx context.Context,
	id string,
	lastLogin time.Time,
) error {
	res, err := u.collection.UpdateOne(
		ctx,
		bson.M{"id": id},
		bson.M{
			"$set": bson.M{
				"lastLogin": lastLogin,
			},
		},
	)
	if err != nil {
		return errors.Wrapf(err, "error updating user %q", id)
	}
	if res.MatchedCount == 0 {
		return &meta.ErrNotFound{
			Type: "User",
			ID:   id,
		}
	}
	return nil
}

func (u *usersStore) Deactivate(ctx context.Context, id string) error {
	res, err := u.collection.UpdateOne(
		ctx,
		bson.M{"id": id},
		bson.M{
			"$set": bson.M{
				"deactivated": time.Now(),
			},
		},
	)
	if err != nil {
		return errors.Wrapf(err, "error updating user %q", id)
	}
	if res.MatchedCount == 0 {
		return &meta.ErrNotFound{
			Type: "User",
			ID:   id,
		}
	}
	return nil
}
