package api

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"net/http"

	"github.com/postwright/postwright/sdk/internal/restmachinery"
	"github.com/postwright/postwright/sdk/meta"
)

// BrandVoice describes the tone and personality the AI should adopt when
// generating content for a Persona.
type BrandVoice struct {
	// Traits enumerates personality traits, e.g. "friendly", "irreverent".
	Traits []string `json:"traits,omitempty"`
	// Tone is the overall register: formal, informal, or neutral.
	Tone string `json:"tone,omitempty"`
	// LanguageStyle qualifies vocabulary: technical, simple, elaborate.
	LanguageStyle string `json:"languageStyle,omitempty"`
	// EmojiUsage indicates how liberally emoji should be used: never, sparing,
	// moderate, or heavy.
	EmojiUsage string `json:"emojiUsage,omitempty"`
}

// TargetAudience describes who a Persona's content is written for.
type TargetAudience struct {
	AgeRange  string   `json:"ageRange,omitempty"`
	Location  string   `json:"location,omitempty"`
	Interests []string `json:"interests,omitempty"`
}

// ContentGuidelines constrains the subject matter of generated content.
type ContentGuidelines struct {
	// Topics enumerates themes the content should favor.
	Topics []string `json:"topics,omitempty"`
	// AvoidTopics enumerates themes the content must steer clear of.
	AvoidTopics []string `json:"avoidTopics,omitempty"`
	// Hashtags enumerates hashtags that are always appropriate.
	Hashtags []string `json:"hashtags,omitempty"`
	// CallToActions enumerates preferred calls to action.
	CallToActions []string `json:"callToActions,omitempty"`
}

// InstagramSettings captures Instagram-specific generation preferences.
type InstagramSettings struct {
	// CaptionLength is short, medium, or long.
	CaptionLength string `json:"captionLength,omitempty"`
	// HashtagStrategy is popular, niche, or mix.
	HashtagStrategy string `json:"hashtagStrategy,omitempty"`
	// PostTypes enumerates preferred formats, e.g. "photo", "carousel", "reel".
	PostTypes []string `json:"postTypes,omitempty"`
}

// Persona defines the identity, voice, audience, and guidelines the AI
// follows when generating content. Each user may maintain multiple Personas
// for different brands or campaigns.
type Persona struct {
	meta.TypeMeta   `json:",inline"`
	meta.ObjectMeta `json:"metadata"`
	Name            string             `json:"name"`
	Description     string             `json:"description,omitempty"`
	BrandVoice      *BrandVoice        `json:"brandVoice,omitempty"`
	TargetAudience  *TargetAudience    `json:"targetAudience,omitempty"`
	Guidelines      *ContentGuidelines `json:"guidelines,omitempty"`
	Instagram       *InstagramSettings `json:"instagram,omitempty"`
	// Default indicates whether this is the owner's default Persona.
	Default bool `json:"default"`
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

// PersonasClient is the specialized client for managing Postwright Personas.
type PersonasClient interface {
	// Create creates a new Persona owned by the current user.
	Create(context.Context, Persona) (Persona, error)
	// List retrieves the current user's Personas.
	List(context.Context, meta.ListOptions) (PersonaList, error)
	// Get retrieves a single Persona by ID.
	Get(ctx context.Context, id string) (Persona, error)
	// Update updates a Persona.
	Update(context.Context, Persona) (Persona, error)
	// Delete deletes a Persona.
	Delete(ctx context.Context, id string) error
	// SetDefault makes the specified Persona the current user's default.
	SetDefault(ctx context.Context, id string) error
	// Duplicate creates a copy of the specified Persona under a new name.
	Duplicate(ctx context.Context, id string, newName string) (Persona, error)
}

type personasClient struct {
	*restmachinery.BaseClient
}

// NewPersonasClient returns a specialized client for managing Postwright
// Personas.
func NewPersonasClient(
	apiAddress string,
	apiToken string,
	allowInsecure bool,
) PersonasClient {
	return &personasClient{
		BaseClient: &restmachinery.BaseClient{
			APIAddress: apiAddress,
			APIToken:   apiToken,
			HTTPClient: &http.Client{
				Transport: &http.Transport{
					TLSClientConfig: &tls.Config{
						InsecureSkipVerify: allowInsecure,
					},
				},
			},
		},
	}
}

func (p *personasClient) Create(
	ctx context.Context,
	persona Persona,
) (Persona, error) {
	created := Persona{}
	return created, p.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodPost,
			Path:        "v2/personas",
			AuthHeaders: p.BearerTokenAuthHeaders(),
			ReqBodyObj:  persona,
			SuccessCode: http.StatusCreated,
			RespObj:     &created,
		},
	)
}

func (p *personasClient) List(
	ctx context.Context,
	opts meta.ListOptions,
) (PersonaList, error) {
	personas := PersonaList{}
	queryParams := map[string]string{}
	if opts.Continue != "" {
		queryParams["continue"] = opts.Continue
	}
	return personas, p.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodGet,
			Path:        "v2/personas",
			AuthHeaders: p.BearerTokenAuthHeaders(),
			QueryParams: queryParams,
			SuccessCode: http.StatusOK,
			RespObj:     &personas,
		},
	)
}

func (p *personasClient) Get(
	ctx context.Context,
	id string,
) (Persona, error) {
	persona := Persona{}
	return persona, p.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodGet,
			Path:        "v2/personas/" + id,
			AuthHeaders: p.BearerTokenAuthHeaders(),
			SuccessCode: http.StatusOK,
			RespObj:     &persona,
		},
	)
}

func (p *personasClient) Update(
	ctx context.Context,
	persona Persona,
) (Persona, error) {
	updated := Persona{}
	return updated, p.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodPut,
			Path:        "v2/personas/" + persona.ID,
			AuthHeaders: p.BearerTokenAuthHeaders(),
			ReqBodyObj:  persona,
			SuccessCode: http.StatusOK,
			RespObj:     &updated,
		},
	)
}

func (p *personasClient) Delete(ctx context.Context, id string) error {
	return p.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodDelete,
			Path:        "v2/personas/" + id,
			AuthHeaders: p.BearerTokenAuthHeaders(),
			SuccessCode: http.StatusOK,
		},
	)
}

func (p *personasClient) SetDefault(ctx context.Context, id string) error {
	return p.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodPut,
			Path:        "v2/personas/" + id + "/default",
			AuthHeaders: p.BearerTokenAuthHeaders(),
			SuccessCode: http.StatusOK,
		},
	)
}

func (p *personasClient) Duplicate(
	ctx context.Context,
	id string,
	newName string,
) (Persona, error) {
	persona := Persona{}
	return persona, p.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodPost,
			Path:        "v2/personas/" + id + "/duplicates",
			AuthHeaders: p.BearerTokenAuthHeaders(),
			ReqBodyObj: struct {
				Name string `json:"name"`
			}{Name: newName},
			SuccessCode: http.StatusCreated,
			RespObj:     &persona,
		},
	)
}
