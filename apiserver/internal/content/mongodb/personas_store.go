package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/postwright/postwright/apiserver/internal/content"
	"github.com/postwright/postwright/sdk/meta"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const createIndexTimeout = 5 * time.Second

type personasStore struct {
	collection *mongo.Collection
}

// NewPersonasStore returns a MongoDB-based implementation of the
// content.PersonasStore interface.
func NewPersonasStore(database *mongo.Database) (content.PersonasStore, error) {
	ctx, cancel :=
		context.WithTimeout(context.Background(), createIndexTimeout)
	defer cancel()
	unique := true
	collection := database.Collection("personas")
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
				// Persona names are unique per owner, not globally
				Keys: bson.D{
					{Key: "userID", Value: 1},
					{Key: "name", Value: 1},
				},
				Options: &options.IndexOptions{
					Unique: &unique,
				},
			},
		},
	); err != nil {
		return nil, errors.Wrap(err, "error adding indexes to personas collection")
	}
	return &personasStore{
		collection: collection,
	}, nil
}

func (p *personasStore) Create(
	ctx context.Context,
	persona content.Persona,
) error {
	if _, err := p.collection.InsertOne(ctx, persona); err != nil {
		if writeException, ok := err.(mongo.WriteException); ok {
			if len(writeException.WriteErrors) == 1 &&
				writeException.WriteErrors[0].Code == 11000 {
				return &meta.ErrConflict{
					Type: "Persona",
					ID:   persona.Name,
					Reason: fmt.Sprintf(
						"A persona with the name %q already exists.",
						persona.Name,
					),
				}
			}
		}
		return errors.Wrapf(err, "error inserting new persona %q", persona.ID)
	}
	return nil
}

func (p *personasStore) Count(
	ctx context.Context,
	userID string,
) (int64, error) {
	count, err := p.collection.CountDocuments(ctx, bson.M{"userID": userID})
	if err != nil {
		return 0, errors.Wrapf(err, "error counting personas for user %q", userID)
	}
	return count, nil
}

func (p *personasStore) List(
	ctx context.Context,
	userID string,
	opts meta.ListOptions,
) (content.PersonaList, error) {
	personas := content.PersonaList{}

	criteria := bson.M{"userID": userID}
	if opts.Continue != "" {
		criteria["name"] = bson.M{"$gt": opts.Continue}
	}

	findOptions := options.Find()
	findOptions.SetSort(bson.M{"name": 1})
	findOptions.SetLimit(opts.Limit)
	cur, err := p.collection.Find(ctx, criteria, findOptions)
	if err != nil {
		return personas, errors.Wrap(err, "error finding personas")
	}
	if err := cur.All(ctx, &personas.Items); err != nil {
		return personas, errors.Wrap(err, "error decoding personas")
	}

	if int64(len(personas.Items)) == opts.Limit {
		continueName := personas.Items[opts.Limit-1].Name
		criteria["name"] = bson.M{"$gt": continueName}
		remaining, err := p.collection.CountDocuments(ctx, criteria)
		if err != nil {
			return personas, errors.Wrap(err, "error counting remaining personas")
		}
		if remaining > 0 {
			personas.Continue = continueName
			personas.RemainingItemCount = remaining
		}
	}

	return personas, nil
}

func (p *personasStore) Get(
	ctx context.Context,
	userID string,
	id string,
) (content.Persona, error) {
	persona := content.Persona{}
	res := p.collection.FindOne(ctx, bson.M{"id": id, "userID": userID})
	if res.Err() == mongo.ErrNoDocuments {
		return persona, &meta.ErrNotFound{
			Type: "Persona",
			ID:   id,
		}
	}
	if res.Err() != nil {
		return persona, errors.Wrapf(res.Err(), "error finding persona %q", id)
	}
	if err := res.Decode(&persona); err != nil {
		return persona, errors.Wrapf(err, "error decoding persona %q", id)
	}
	return persona, nil
}

func (p *personasStore) GetDefault(
	ctx context.Context,
	userID string,
) (content.Persona, error) {
	persona := content.Persona{}
	res := p.collection.FindOne(
		ctx,
		bson.M{"userID": userID, "default": true},
	)
	if res.Err() == mongo.ErrNoDocuments {
		return persona, &meta.ErrNotFound{
			Type: "Persona",
		}
	}
	if res.Err() != nil {
		return persona, errors.Wrapf(
			res.Err(),
			"error finding default persona for user %q",
			userID,
		)
	}
	if err := res.Decode(&persona); err != nil {
		return persona, errors.Wrap(err, "error decoding default persona")
	}
	return persona, nil
}

func (p *personasStore) Update(
	ctx context.Context,
	userID string,
	id string,
	persona content.Persona,
) error {
	res, err := p.collection.UpdateOne(
		ctx,
		bson.M{"id": id, "userID": userID},
		bson.M{
			"$set": bson.M{
				"name":           persona.Name,
				"description":    persona.Description,
				"brandVoice":     persona.BrandVoice,
				"targetAudience": persona.TargetAudience,
				"guidelines":     persona.Guidelines,
				"instagram":      persona.Instagram,
				"lastUpdated":    time.Now(),
			},
		},
	)
	if err != nil {
		if writeException, ok := err.(mongo.WriteException); ok {
			if len(writeException.WriteErrors) == 1 &&
				writeException.WriteErrors[0].Code == 11000 {
				return &meta.ErrConflict{
					Type: "Persona",
					ID:   persona.Name,
					Reason: fmt.Sprintf(
						"A persona with the name %q already exists.",
						persona.Name,
					),
				}
			}
		}
		return errors.Wrapf(err, "error updating persona %q", id)
	}
	if res.MatchedCount == 0 {
		return &meta.ErrNotFound{
			Type: "Persona",
			ID:   id,
		}
	}
	return nil
}

func (p *personasStore) Delete(
	ctx context.Context,
	userID string,
	id string,
) error {
	res, err := p.collection.DeleteOne(ctx, bson.M{"id": id, "userID": userID})
	if err != nil {
		return errors.Wrapf(err, "error deleting persona %q", id)
	}
	if res.DeletedCount == 0 {
		return &meta.ErrNotFound{
			Type: "Persona",
			ID:   id,
		}
	}
	return nil
}

func (p *personasStore) SetDefault(
	ctx context.Context,
	userID string,
	id string,
) error {
	// Clear any existing default first so the user never ends up with two.
	if _, err := p.collection.UpdateMany(
		ctx,
		bson.M{"userID": userID, "default": true},
		bson.M{
			"$set": bson.M{
				"default": false,
			},
		},
	); err != nil {
		return errors.Wrapf(
			err,
			"error clearing default persona for user %q",
			userID,
		)
	}
	res, err := p.collection.UpdateOne(
		ctx,
		bson.M{"id": id, "userID": userID},
		bson.M{
			"$set": bson.M{
				"default": true,
			},
		},
	)
	if err != nil {
		return errors.Wrapf(err, "error updating persona %q", id)
	}
	if res.MatchedCount == 0 {
		return &meta.ErrNotFound{
			Type: "Persona",
			ID:   id,
		}
	}
	return nil
}
