package content

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/postwright/postwright/sdk/meta"
	uuid "github.com/satori/go.uuid"
)

// BrandVoice describes the tone and personality the AI should adopt when
// generating content for a Persona.
type BrandVoice struct {
	Traits        []string `json:"traits,omitempty" bson:"traits,omitempty"`
	Tone          string   `json:"tone,omitempty" bson:"tone,omitempty"`
	LanguageStyle string   `json:"languageStyle,omitempty" bson:"languageStyle,omitempty"` // nolint: lll
	EmojiUsage    string   `json:"emojiUsage,omitempty" bson:"emojiUsage,omitempty"`       // nolint: lll
}

// TargetAudience describes who a Persona's content is written for.
type TargetAudience struct {
	AgeRange  string   `json:"ageRange,omitempty" bson:"ageRange,omitempty"`
	Location  string   `json:"location,omitempty" bson:"location,omitempty"`
	Interests []string `json:"interests,omitempty" bson:"interests,omitempty"`
}

// ContentGuidelines constrains the subject matter of generated content.
type ContentGuidelines struct {
	Topics        []string `json:"topics,omitempty" bson:"topics,omitempty"`
	AvoidTopics   []string `json:"avoidTopics,omitempty" bson:"avoidTopics,omitempty"`     // nolint: lll
	Hashtags      []string `json:"hashtags,omitempty" bson:"hashtags,omitempty"`           // nolint: lll
	CallToActions []string `json:"callToActions,omitempty" bson:"callToActions,omitempty"` // nolint: lll
}

// InstagramSettings captures Instagram-specific generation preferences.
type InstagramSettings struct {
	CaptionLength   string   `json:"captionLength,omitempty" bson:"captionLength,omitempty"`     // nolint: lll
	HashtagStrategy string   `json:"hashtagStrategy,omitempty" bson:"hashtagStrategy,omitempty"` // nolint: lll
	PostTypes       []string `json:"postTypes,omitempty" bson:"postTypes,omitempty"`             // nolint: lll
}

// Persona defines the identity, voice, audience, and guidelines the AI
// follows when generating content. Each user may maintain multiple Personas
// for different brands or campaigns.
type Persona struct {
	meta.TypeMeta   `json:",inline" bson:",inline"`
	meta.ObjectMeta `json:"metadata" bson:",inline"`
	// UserID identifies the owner. Personas are strictly private to their
	// owner.
	UserID         string             `json:"-" bson:"userID"`
	Name           string             `json:"name" bson:"name"`
	Description    string             `json:"description,omitempty" bson:"description"`       // nolint: lll
	BrandVoice     *BrandVoice        `json:"brandVoice,omitempty" bson:"brandVoice"`         // nolint: lll
	TargetAudience *TargetAudience    `json:"targetAudience,omitempty" bson:"targetAudience"` // nolint: lll
	Guidelines     *ContentGuidelines `json:"guidelines,omitempty" bson:"guidelines"`         // nolint: lll
	Instagram      *InstagramSettings `json:"instagram,omitempty" bson:"instagram"`           // nolint: lll
	// Default indicates whether this is the owner's default Persona. A user
	// has at most one default Persona at a time.
	Default bool `json:"default" bson:"default"`
}

// MarshalJSON amends Persona instances with type metadata.
func (p Persona) MarshalJSON() ([]byte, error) {
	type Alias Persona
	return json.Marshal(
		struct {
			meta.TypeMeta `json:",inline"`
			Alias         `json:",inline"`
		}{
			TypeMeta: meta.TypeMeta{
				APIVersion: meta.APIVersion,
				Kind:       "Persona",
			},
			Alias: (Alias)(p),
		},
	)
}

// PersonaList is an ordered collection of Personas.
type PersonaList struct {
	meta.ListMeta `json:"metadata"`
	Items         []Persona `json:"items,omitempty"`
}

// MarshalJSON amends PersonaList instances with type metadata.
func (p PersonaList) MarshalJSON() ([]byte, error) {
	type Alias PersonaList
	return json.Marshal(
		struct {
			meta.TypeMeta `json:",inline"`
			Alias         `json:",inline"`
		}{
			TypeMeta: meta.TypeMeta{
				APIVersion: meta.APIVersion,
				Kind:       "PersonaList",
			},
			Alias: (Alias)(p),
		},
	)
}

// PersonasService is the specialized interface for managing Personas. It's
// decoupled from underlying technology choices (e.g. data store) to keep
// business logic reusable and consistent while the underlying tech stack
// remains free to change.
type PersonasService interface {
	// Create stores a new Persona owned by the specified User. A User's first
	// Persona automatically becomes their default.
	Create(ctx context.Context, userID string, persona Persona) (Persona, error)
	// List retrieves the specified User's Personas, ordered by name.
	List(
		ctx context.Context,
		userID string,
		opts meta.ListOptions,
	) (PersonaList, error)
	// Get retrieves a single Persona. Implementations MUST return a
	// *meta.ErrNotFound error if the Persona does not exist or is owned by
	// another User.
	Get(ctx context.Context, userID, id string) (Persona, error)
	// Update replaces the mutable fields of the specified Persona and returns
	// the updated Persona.
	Update(
		ctx context.Context,
		userID string,
		id string,
		persona Persona,
	) (Persona, error)
	// Delete deletes the specified Persona.
	Delete(ctx context.Context, userID, id string) error
	// SetDefault makes the specified Persona the User's default, displacing
	// any previous default.
	SetDefault(ctx context.Context, userID, id string) error
	// Duplicate creates a copy of the specified Persona under a new name. The
	// copy is never the default.
	Duplicate(
		ctx context.Context,
		userID string,
		id string,
		newName string,
	) (Persona, error)
	// GetDefault retrieves the User's default Persona. Implementations MUST
	// return a *meta.ErrNotFound error if the User has no default Persona.
	GetDefault(ctx context.Context, userID string) (Persona, error)
}

type personasService struct {
	personasStore PersonasStore
}

// NewPersonasService returns a specialized interface for managing Personas.
func NewPersonasService(personasStore PersonasStore) PersonasService {
	return &personasService{
		personasStore: personasStore,
	}
}

func (p *personasService) Create(
	ctx context.Context,
	userID string,
	persona Persona,
) (Persona, error) {
	now := time.Now()
	persona.ID = uuid.NewV4().String()
	persona.Created = &now
	persona.UserID = userID

	count, err := p.personasStore.Count(ctx, userID)
	if err != nil {
		return persona, errors.Wrapf(
			err,
			"error counting personas for user %q",
			userID,
		)
	}
	// The first persona becomes the default automatically
	makeDefault := persona.Default || count == 0
	persona.Default = false

	if err = p.personasStore.Create(ctx, persona); err != nil {
		return persona, errors.Wrapf(
			err,
			"error storing new persona %q",
			persona.ID,
		)
	}
	if makeDefault {
		if err = p.personasStore.SetDefault(ctx, userID, persona.ID); err != nil {
			return persona, errors.Wrapf(
				err,
				"error making persona %q the default",
				persona.ID,
			)
		}
		persona.Default = true
	}
	return persona, nil
}

func (p *personasService) List(
	ctx context.Context,
	userID string,
	opts meta.ListOptions,
) (PersonaList, error) {
	if opts.Limit == 0 {
		opts.Limit = 20
	}
	personas, err := p.personasStore.List(ctx, userID, opts)
	if err != nil {
		return personas, errors.Wrapf(
			err,
			"error retrieving personas for user %q from store",
			userID,
		)
	}
	return personas, nil
}

func (p *personasService) Get(
	ctx context.Context,
	userID string,
	id string,
) (Persona, error) {
	persona, err := p.personasStore.Get(ctx, userID, id)
	if err != nil {
		return persona, errors.Wrapf(
			err,
			"error retrieving persona %q from store",
			id,
		)
	}
	return persona, nil
}

func (p *personasService) Update(
	ctx context.Context,
	userID string,
	id string,
	persona Persona,
) (Persona, error) {
	if err := p.personasStore.Update(ctx, userID, id, persona); err != nil {
		return Persona{}, errors.Wrapf(err, "error updating persona %q", id)
	}
	updated, err := p.personasStore.Get(ctx, userID, id)
	if err != nil {
		return updated, errors.Wrapf(
			err,
			"error retrieving persona %q from store",
			id,
		)
	}
	return updated, nil
}

func (p *personasService) Delete(
	ctx context.Context,
	userID string,
	id string,
) error {
	if err := p.personasStore.Delete(ctx, userID, id); err != nil {
		return errors.Wrapf(err, "error removing persona %q from store", id)
	}
	return nil
}

func (p *personasService) SetDefault(
	ctx context.Context,
	userID string,
	id string,
) error {
	// Confirm the persona exists and belongs to this user before touching the
	// default flag.
	if _, err := p.personasStore.Get(ctx, userID, id); err != nil {
		return errors.Wrapf(err, "error retrieving persona %q from store", id)
	}
	if err := p.personasStore.SetDefault(ctx, userID, id); err != nil {
		return errors.Wrapf(err, "error making persona %q the default", id)
	}
	return nil
}

func (p *personasService) Duplicate(
	ctx context.Context,
	userID string,
	id string,
	newName string,
) (Persona, error) {
	persona, err := p.personasStore.Get(ctx, userID, id)
	if err != nil {
		return persona, errors.Wrapf(
			err,
			"error retrieving persona %q from store",
			id,
		)
	}
	now := time.Now()
	persona.ID = uuid.NewV4().String()
	persona.Created = &now
	persona.LastUpdated = nil
	persona.Default = false
	if newName == "" {
		newName = fmt.Sprintf("%s (copy)", persona.Name)
	}
	persona.Name = newName
	if err = p.personasStore.Create(ctx, persona); err != nil {
		return persona, errors.Wrapf(
			err,
			"error storing new persona %q",
			persona.ID,
		)
	}
	return persona, nil
}

func (p *personasService) GetDefault(
	ctx context.Context,
	userID string,
) (Persona, error) {
	persona, err := p.personasStore.GetDefault(ctx, userID)
	if err != nil {
		return persona, errors.Wrapf(
			err,
			"error retrieving default persona for user %q from store",
			userID,
		)
	}
	return persona, nil
}

// PersonasStore is an interface for Persona persistence operations.
type PersonasStore interface {
	// Create stores the provided Persona. Implementations MUST return a
	// *meta.ErrConflict error if the owner already has a Persona with the same
	// name.
	Create(context.Context, Persona) error
	// Count returns the number of Personas the specified User owns.
	Count(ctx context.Context, userID string) (int64, error)
	// List retrieves the specified User's Personas, ordered by name.
	List(
		ctx context.Context,
		userID string,
		opts meta.ListOptions,
	) (PersonaList, error)
	// Get retrieves a single Persona scoped to its owner. Implementations MUST
	// return a *meta.ErrNotFound error if no such Persona exists.
	Get(ctx context.Context, userID, id string) (Persona, error)
	// GetDefault retrieves the specified User's default Persona.
	// Implementations MUST return a *meta.ErrNotFound error if the User has no
	// default Persona.
	GetDefault(ctx context.Context, userID string) (Persona, error)
	// Update replaces the mutable fields of the specified Persona.
	Update(ctx context.Context, userID, id string, persona Persona) error
	// Delete deletes the specified Persona.
	Delete(ctx context.Context, userID, id string) error
	// SetDefault flags the specified Persona as the User's default and clears
	// the flag from all of the User's other Personas.
	SetDefault(ctx context.Context, userID, id string) error
}
