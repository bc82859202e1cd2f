package api

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"net/http"

	"github.com/postwright/postwright/sdk/internal/restmachinery"
	"github.com/postwright/postwright/sdk/meta"
)

// CaptionRequest encapsulates a request to generate an Instagram caption.
type CaptionRequest struct {
	// PersonaID identifies the Persona whose voice and guidelines the caption
	// should follow. When empty, the user's default Persona is used.
	PersonaID string `json:"personaID,omitempty"`
	// Topic is what the caption should be about.
	Topic string `json:"topic"`
	// Style selects between engagement, informative, and storytelling captions.
	Style string `json:"style,omitempty"`
	// IncludeHashtags indicates whether hashtags should be appended.
	IncludeHashtags bool `json:"includeHashtags"`
	// AdditionalContext optionally enriches the topic with further detail.
	AdditionalContext string `json:"additionalContext,omitempty"`
}

// Caption is a generated Instagram caption.
type Caption struct {
	meta.TypeMeta `json:",inline"`
	// Text is the caption itself.
	Text string `json:"text"`
	// Hashtags enumerates hashtags generated alongside the caption.
	Hashtags []string `json:"hashtags,omitempty"`
	// Model identifies the model that produced the caption.
	Model string `json:"model,omitempty"`
	// Persona identifies the Persona the caption was generated for.
	Persona string `json:"persona,omitempty"`
}

// HashtagsRequest encapsulates a request to generate hashtags.
type HashtagsRequest struct {
	PersonaID string `json:"personaID,omitempty"`
	Topic     string `json:"topic"`
	// Count is the desired number of hashtags. The server bounds this.
	Count int `json:"count,omitempty"`
}

// HashtagSet is a generated set of hashtags.
type HashtagSet struct {
	meta.TypeMeta `json:",inline"`
	Hashtags      []string `json:"hashtags"`
	Model         string   `json:"model,omitempty"`
	Persona       string   `json:"persona,omitempty"`
}

// IdeasRequest encapsulates a request to generate content ideas.
type IdeasRequest struct {
	PersonaID string `json:"personaID,omitempty"`
	// ContentType selects between posts, stories, and reels.
	ContentType string `json:"contentType,omitempty"`
	// Count is the desired number of ideas. The server bounds this.
	Count int `json:"count,omitempty"`
}

// ContentIdea is a single generated content idea.
type ContentIdea struct {
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Format       string `json:"format,omitempty"`
	CallToAction string `json:"callToAction,omitempty"`
}

// IdeaList is an ordered collection of generated content ideas.
type IdeaList struct {
	meta.TypeMeta `json:",inline"`
	Items         []ContentIdea `json:"items"`
	Model         string        `json:"model,omitempty"`
	Persona       string        `json:"persona,omitempty"`
}

// AnalysisRequest encapsulates a request to analyze existing content against
// a Persona.
type AnalysisRequest struct {
	// PersonaID identifies the Persona the content should be measured against.
	// When empty, the user's default Persona is used.
	PersonaID string `json:"personaID,omitempty"`
	// Content is the caption or other text to analyze.
	Content string `json:"content"`
	// ContentType identifies what kind of content is being analyzed.
	ContentType string `json:"contentType,omitempty"`
	// TargetMetrics lists the metrics the content should be optimized for.
	TargetMetrics []string `json:"targetMetrics,omitempty"`
}

// ContentAnalysis is the result of analyzing content against a Persona.
type ContentAnalysis struct {
	meta.TypeMeta  `json:",inline"`
	CharacterCount int `json:"characterCount"`
	WordCount      int `json:"wordCount"`
	HashtagCount   int `json:"hashtagCount"`
	MentionCount   int `json:"mentionCount"`
	// AlignmentScore rates how well the content matches the Persona, from 0
	// to 1.
	AlignmentScore float64  `json:"alignmentScore"`
	Feedback       string   `json:"feedback,omitempty"`
	Suggestions    []string `json:"suggestions,omitempty"`
	Model          string   `json:"model,omitempty"`
	Persona        string   `json:"persona,omitempty"`
}

// Usage summarizes how much generation the current user has performed.
type Usage struct {
	meta.TypeMeta `json:",inline"`
	Captions      int64 `json:"captions"`
	Hashtags      int64 `json:"hashtags"`
	Ideas         int64 `json:"ideas"`
	Analyses      int64 `json:"analyses"`
}

// MarshalJSON amends Usage instances with type metadata.
func (u Usage) MarshalJSON() ([]byte, error) {
	type Alias Usage
	return json.Marshal(
		struct {
			meta.TypeMeta `json:",inline"`
			Alias         `json:",inline"`
		}{
			TypeMeta: meta.TypeMeta{
				APIVersion: meta.APIVersion,
				Kind:       "Usage",
			},
			Alias: (Alias)(u),
		},
	)
}

// ContentClient is the specialized client for generating content through the
// Postwright API.
type ContentClient interface {
	// GenerateCaption generates an Instagram caption.
	GenerateCaption(context.Context, CaptionRequest) (Caption, error)
	// GenerateHashtags generates a set of hashtags.
	GenerateHashtags(context.Context, HashtagsRequest) (HashtagSet, error)
	// GenerateIdeas generates content ideas.
	GenerateIdeas(context.Context, IdeasRequest) (IdeaList, error)
	// AnalyzeContent reviews existing content against a Persona and suggests
	// improvements.
	AnalyzeContent(context.Context, AnalysisRequest) (ContentAnalysis, error)
	// GetUsage retrieves the current user's generation counters.
	GetUsage(context.Context) (Usage, error)
}

type contentClient struct {
	*restmachinery.BaseClient
}

// NewContentClient returns a specialized client for generating content
// through the Postwright API.
func NewContentClient(
	apiAddress string,
	apiToken string,
	allowInsecure bool,
) ContentClient {
	return &contentClient{
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

func (c *contentClient) GenerateCaption(
	ctx context.Context,
	req CaptionRequest,
) (Caption, error) {
	caption := Caption{}
	return caption, c.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodPost,
			Path:        "v2/captions",
			AuthHeaders: c.BearerTokenAuthHeaders(),
			ReqBodyObj:  req,
			SuccessCode: http.StatusCreated,
			RespObj:     &caption,
		},
	)
}

func (c *contentClient) GenerateHashtags(
	ctx context.Context,
	req HashtagsRequest,
) (HashtagSet, error) {
	hashtags := HashtagSet{}
	return hashtags, c.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodPost,
			Path:        "v2/hashtags",
			AuthHeaders: c.BearerTokenAuthHeaders(),
			ReqBodyObj:  req,
			SuccessCode: http.StatusCreated,
			RespObj:     &hashtags,
		},
	)
}

func (c *contentClient) GenerateIdeas(
	ctx context.Context,
	req IdeasRequest,
) (IdeaList, error) {
	ideas := IdeaList{}
	return ideas, c.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodPost,
			Path:        "v2/ideas",
			AuthHeaders: c.BearerTokenAuthHeaders(),
			ReqBodyObj:  req,
			SuccessCode: http.StatusCreated,
			RespObj:     &ideas,
		},
	)
}

func (c *contentClient) AnalyzeContent(
	ctx context.Context,
	req AnalysisRequest,
) (ContentAnalysis, error) {
	analysis := ContentAnalysis{}
	return analysis, c.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodPost,
			Path:        "v2/analyses",
			AuthHeaders: c.BearerTokenAuthHeaders(),
			ReqBodyObj:  req,
			SuccessCode: http.StatusCreated,
			RespObj:     &analysis,
		},
	)
}

func (c *contentClient) GetUsage(ctx context.Context) (Usage, error) {
	usage := Usage{}
	return usage, c.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodGet,
			Path:        "v2/usage",
			AuthHeaders: c.BearerTokenAuthHeaders(),
			SuccessCode: http.StatusOK,
			RespObj:     &usage,
		},
	)
}
