package content

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/postwright/postwright/sdk/meta"
)

// Engine is an interface for the component that turns a prompt into text.
// It's decoupled from any particular model provider.
type Engine interface {
	// GenerateText submits the provided prompt to the underlying model and
	// returns its text response.
	GenerateText(ctx context.Context, prompt string) (string, error)
	// Model identifies the underlying model, for inclusion in responses.
	Model() string
}

// CaptionRequest encapsulates a request to generate an Instagram caption.
type CaptionRequest struct {
	// PersonaID identifies the Persona whose voice and guidelines the caption
	// should follow. When empty, the user's default Persona is used.
	PersonaID string `json:"personaID,omitempty"`
	// Topic is what the caption should be about.
	Topic string `json:"topic"`
	// Style selects between engagement, informative, and storytelling
	// captions.
	Style string `json:"style,omitempty"`
	// IncludeHashtags indicates whether hashtags should be generated
	// alongside the caption.
	IncludeHashtags bool `json:"includeHashtags"`
	// AdditionalContext optionally enriches the topic with further detail.
	AdditionalContext string `json:"additionalContext,omitempty"`
}

// Caption is a generated Instagram caption.
type Caption struct {
	meta.TypeMeta `json:",inline"`
	Text          string   `json:"text"`
	Hashtags      []string `json:"hashtags,omitempty"`
	Model         string   `json:"model,omitempty"`
	Persona       string   `json:"persona,omitempty"`
}

// MarshalJSON amends Caption instances with type metadata.
func (c Caption) MarshalJSON() ([]byte, error) {
	type Alias Caption
	return json.Marshal(
		struct {
			meta.TypeMeta `json:",inline"`
			Alias         `json:",inline"`
		}{
			TypeMeta: meta.TypeMeta{
				APIVersion: meta.APIVersion,
				Kind:       "Caption",
			},
			Alias: (Alias)(c),
		},
	)
}

// HashtagsRequest encapsulates a request to generate hashtags.
type HashtagsRequest struct {
	PersonaID string `json:"personaID,omitempty"`
	Topic     string `json:"topic"`
	Count     int    `json:"count,omitempty"`
}

// HashtagSet is a generated set of hashtags.
type HashtagSet struct {
	meta.TypeMeta `json:",inline"`
	Hashtags      []string `json:"hashtags"`
	Model         string   `json:"model,omitempty"`
	Persona       string   `json:"persona,omitempty"`
}

// MarshalJSON amends HashtagSet instances with type metadata.
func (h HashtagSet) MarshalJSON() ([]byte, error) {
	type Alias HashtagSet
	return json.Marshal(
		struct {
			meta.TypeMeta `json:",inline"`
			Alias         `json:",inline"`
		}{
			TypeMeta: meta.TypeMeta{
				APIVersion: meta.APIVersion,
				Kind:       "HashtagSet",
			},
			Alias: (Alias)(h),
		},
	)
}

// IdeasRequest encapsulates a request to generate content ideas.
type IdeasRequest struct {
	PersonaID   string `json:"personaID,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Count       int    `json:"count,omitempty"`
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

// MarshalJSON amends IdeaList instances with type metadata.
func (i IdeaList) MarshalJSON() ([]byte, error) {
	type Alias IdeaList
	return json.Marshal(
		struct {
			meta.TypeMeta `json:",inline"`
			Alias         `json:",inline"`
		}{
			TypeMeta: meta.TypeMeta{
				APIVersion: meta.APIVersion,
				Kind:       "IdeaList",
			},
			Alias: (Alias)(i),
		},
	)
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

// MarshalJSON amends ContentAnalysis instances with type metadata.
func (c ContentAnalysis) MarshalJSON() ([]byte, error) {
	type Alias ContentAnalysis
	return json.Marshal(
		struct {
			meta.TypeMeta `json:",inline"`
			Alias         `json:",inline"`
		}{
			TypeMeta: meta.TypeMeta{
				APIVersion: meta.APIVersion,
				Kind:       "ContentAnalysis",
			},
			Alias: (Alias)(c),
		},
	)
}

// Usage summarizes how much generation a user has performed today.
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

// UsageStore is an interface for tracking per-user generation counters.
type UsageStore interface {
	// Increment bumps the specified User's counter for the given kind of
	// generation and returns the new total for the current day.
	Increment(ctx context.Context, userID, kind string) (int64, error)
	// Get retrieves the specified User's counters for the current day.
	Get(ctx context.Context, userID string) (Usage, error)
}

// Generation counter kinds.
const (
	UsageKindCaptions = "captions"
	UsageKindHashtags = "hashtags"
	UsageKindIdeas    = "ideas"
	UsageKindAnalyses = "analyses"
)

// GenerationService is the specialized interface for generating Instagram
// content through an AI model.
type GenerationService interface {
	// GenerateCaption generates a caption in the voice of the requested (or
	// default) Persona.
	GenerateCaption(
		ctx context.Context,
		userID string,
		req CaptionRequest,
	) (Caption, error)
	// GenerateHashtags generates a set of hashtags for a topic.
	GenerateHashtags(
		ctx context.Context,
		userID string,
		req HashtagsRequest,
	) (HashtagSet, error)
	// GenerateIdeas generates content ideas aligned with a Persona.
	GenerateIdeas(
		ctx context.Context,
		userID string,
		req IdeasRequest,
	) (IdeaList, error)
	// AnalyzeContent reviews existing content against a Persona and suggests
	// improvements.
	AnalyzeContent(
		ctx context.Context,
		userID string,
		req AnalysisRequest,
	) (ContentAnalysis, error)
	// GetUsage retrieves the specified User's generation counters for the
	// current day.
	GetUsage(ctx context.Context, userID string) (Usage, error)
}

type generationService struct {
	personasService PersonasService
	engine          Engine
	usageStore      UsageStore
	dailyLimit      int64
}

// NewGenerationService returns a specialized interface for generating
// Instagram content. A dailyLimit of 0 disables limiting.
func NewGenerationService(
	personasService PersonasService,
	engine Engine,
	usageStore UsageStore,
	dailyLimit int64,
) GenerationService {
	return &generationService{
		personasService: personasService,
		engine:          engine,
		usageStore:      usageStore,
		dailyLimit:      dailyLimit,
	}
}

func (g *generationService) GenerateCaption(
	ctx context.Context,
	userID string,
	req CaptionRequest,
) (Caption, error) {
	caption := Caption{}
	persona, err := g.resolvePersona(ctx, userID, req.PersonaID)
	if err != nil {
		return caption, err
	}
	if err = g.consumeQuota(ctx, userID, UsageKindCaptions); err != nil {
		return caption, err
	}

	var sb strings.Builder
	sb.WriteString(
		"You are an expert Instagram content creator. Write one authentic, " +
			"engaging caption based on the persona and task below.\n\n",
	)
	sb.WriteString(personaContext(persona))
	fmt.Fprintf(&sb, "\nTASK: Write an Instagram caption about %q.\n", req.Topic)
	if req.Style != "" {
		fmt.Fprintf(&sb, "STYLE: %s\n", req.Style)
	}
	if req.AdditionalContext != "" {
		fmt.Fprintf(&sb, "ADDITIONAL CONTEXT: %s\n", req.AdditionalContext)
	}
	if req.IncludeHashtags {
		sb.WriteString(
			"INCLUDE HASHTAGS: yes. Mix popular and niche hashtags.\n",
		)
	} else {
		sb.WriteString("INCLUDE HASHTAGS: no\n")
	}
	sb.WriteString(
		"\nRespond with ONLY a JSON object of the form " +
			`{"caption": "...", "hashtags": ["#...", "#..."]} ` +
			"and no additional text.\n",
	)

	responseText, err := g.engine.GenerateText(ctx, sb.String())
	if err != nil {
		return caption, errors.Wrap(err, "error generating caption")
	}

	parsed := struct {
		Caption  string   `json:"caption"`
		Hashtags []string `json:"hashtags"`
	}{}
	if err = json.Unmarshal(
		[]byte(extractJSON(responseText)),
		&parsed,
	); err != nil {
		// The model ignored the format instructions. Salvage what we can.
		caption.Text = strings.TrimSpace(responseText)
		caption.Hashtags = extractHashtags(responseText)
	} else {
		caption.Text = parsed.Caption
		caption.Hashtags = parsed.Hashtags
	}
	caption.Model = g.engine.Model()
	caption.Persona = persona.Name
	return caption, nil
}

func (g *generationService) GenerateHashtags(
	ctx context.Context,
	userID string,
	req HashtagsRequest,
) (HashtagSet, error) {
	hashtags := HashtagSet{}
	persona, err := g.resolvePersona(ctx, userID, req.PersonaID)
	if err != nil {
		return hashtags, err
	}
	if err = g.consumeQuota(ctx, userID, UsageKindHashtags); err != nil {
		return hashtags, err
	}

	count := req.Count
	if count < 1 || count > 30 {
		count = 15
	}

	var sb strings.Builder
	sb.WriteString(
		"You are an expert Instagram growth strategist. Suggest hashtags for " +
			"the persona and topic below.\n\n",
	)
	sb.WriteString(personaContext(persona))
	fmt.Fprintf(
		&sb,
		"\nTASK: Suggest exactly %d hashtags for a post about %q. Mix popular "+
			"and niche hashtags.\n",
		count,
		req.Topic,
	)
	sb.WriteString(
		"\nRespond with ONLY a JSON object of the form " +
			`{"hashtags": ["#...", "#..."]} and no additional text.` + "\n",
	)

	responseText, err := g.engine.GenerateText(ctx, sb.String())
	if err != nil {
		return hashtags, errors.Wrap(err, "error generating hashtags")
	}

	parsed := struct {
		Hashtags []string `json:"hashtags"`
	}{}
	if err = json.Unmarshal(
		[]byte(extractJSON(responseText)),
		&parsed,
	); err != nil {
		hashtags.Hashtags = extractHashtags(responseText)
	} else {
		hashtags.Hashtags = parsed.Hashtags
	}
	hashtags.Model = g.engine.Model()
	hashtags.Persona = persona.Name
	return hashtags, nil
}

func (g *generationService) GenerateIdeas(
	ctx context.Context,
	userID string,
	req IdeasRequest,
) (IdeaList, error) {
	ideas := IdeaList{}
	persona, err := g.resolvePersona(ctx, userID, req.PersonaID)
	if err != nil {
		return ideas, err
	}
	if err = g.consumeQuota(ctx, userID, UsageKindIdeas); err != nil {
		return ideas, err
	}

	count := req.Count
	if count < 1 || count > 10 {
		count = 5
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = "posts"
	}

	var sb strings.Builder
	sb.WriteString(
		"You are an Instagram content strategist. Generate creative content " +
			"ideas for the persona below.\n\n",
	)
	sb.WriteString(personaContext(persona))
	fmt.Fprintf(
		&sb,
		"\nTASK: Generate exactly %d ideas for Instagram %s, aligned with the "+
			"persona and varied in engagement style.\n",
		count,
		contentType,
	)
	sb.WriteString(
		"\nRespond with ONLY a JSON object of the form " +
			`{"ideas": [{"title": "...", "description": "...", "format": "...", ` +
			`"callToAction": "..."}]} and no additional text.` + "\n",
	)

	responseText, err := g.engine.GenerateText(ctx, sb.String())
	if err != nil {
		return ideas, errors.Wrap(err, "error generating content ideas")
	}

	parsed := struct {
		Ideas []ContentIdea `json:"ideas"`
	}{}
	if err = json.Unmarshal(
		[]byte(extractJSON(responseText)),
		&parsed,
	); err != nil {
		return ideas, errors.Wrap(
			err,
			"error parsing content ideas from model response",
		)
	}
	ideas.Items = parsed.Ideas
	ideas.Model = g.engine.Model()
	ideas.Persona = persona.Name
	return ideas, nil
}

func (g *generationService) AnalyzeContent(
	ctx context.Context,
	userID string,
	req AnalysisRequest,
) (ContentAnalysis, error) {
	analysis := ContentAnalysis{}
	persona, err := g.resolvePersona(ctx, userID, req.PersonaID)
	if err != nil {
		return analysis, err
	}
	if err = g.consumeQuota(ctx, userID, UsageKindAnalyses); err != nil {
		return analysis, err
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "caption"
	}

	var sb strings.Builder
	sb.WriteString(
		"You are an Instagram content consultant. Review the content below " +
			"and rate how well it aligns with the persona.\n\n",
	)
	sb.WriteString(personaContext(persona))
	fmt.Fprintf(
		&sb,
		"\nTASK: Analyze this Instagram %s and suggest improvements:\n%s\n",
		contentType,
		req.Content,
	)
	if len(req.TargetMetrics) > 0 {
		fmt.Fprintf(
			&sb,
			"TARGET METRICS: %s\n",
			strings.Join(req.TargetMetrics, ", "),
		)
	}
	sb.WriteString(
		"\nRespond with ONLY a JSON object of the form " +
			`{"score": 0.0, "feedback": "...", "suggestions": ["..."]} ` +
			"where score is the persona alignment between 0 and 1, and no " +
			"additional text.\n",
	)

	responseText, err := g.engine.GenerateText(ctx, sb.String())
	if err != nil {
		return analysis, errors.Wrap(err, "error analyzing content")
	}

	parsed := struct {
		Score       float64  `json:"score"`
		Feedback    string   `json:"feedback"`
		Suggestions []string `json:"suggestions"`
	}{}
	if err = json.Unmarshal(
		[]byte(extractJSON(responseText)),
		&parsed,
	); err != nil {
		// The model ignored the format instructions. Salvage what we can.
		analysis.Feedback = strings.TrimSpace(responseText)
	} else {
		analysis.AlignmentScore = parsed.Score
		analysis.Feedback = parsed.Feedback
		analysis.Suggestions = parsed.Suggestions
	}
	analysis.CharacterCount = utf8.RuneCountInString(req.Content)
	analysis.WordCount = len(strings.Fields(req.Content))
	analysis.HashtagCount = strings.Count(req.Content, "#")
	analysis.MentionCount = strings.Count(req.Content, "@")
	analysis.Model = g.engine.Model()
	analysis.Persona = persona.Name
	return analysis, nil
}

func (g *generationService) GetUsage(
	ctx context.Context,
	userID string,
) (Usage, error) {
	usage, err := g.usageStore.Get(ctx, userID)
	if err != nil {
		return usage, errors.Wrapf(
			err,
			"error retrieving usage for user %q from store",
			userID,
		)
	}
	return usage, nil
}

// resolvePersona loads the requested Persona, falling back to the user's
// default when no Persona was named.
func (g *generationService) resolvePersona(
	ctx context.Context,
	userID string,
	personaID string,
) (Persona, error) {
	if personaID != "" {
		return g.personasService.Get(ctx, userID, personaID)
	}
	persona, err := g.personasService.GetDefault(ctx, userID)
	if err != nil {
		if _, ok := errors.Cause(err).(*meta.ErrNotFound); ok {
			return persona, &meta.ErrBadRequest{
				Reason: "No persona was specified and no default persona exists. " +
					"Please create a persona first.",
			}
		}
		return persona, err
	}
	return persona, nil
}

// consumeQuota counts one generation against the user's daily allowance.
func (g *generationService) consumeQuota(
	ctx context.Context,
	userID string,
	kind string,
) error {
	count, err := g.usageStore.Increment(ctx, userID, kind)
	if err != nil {
		return errors.Wrapf(err, "error incrementing %s usage", kind)
	}
	if g.dailyLimit > 0 && count > g.dailyLimit {
		return &meta.ErrLimitExceeded{
			Reason: fmt.Sprintf(
				"The daily limit of %d %s generations has been reached. Please try "+
					"again tomorrow.",
				g.dailyLimit,
				kind,
			),
		}
	}
	return nil
}

// personaContext renders a Persona as a block of prompt text.
func personaContext(persona Persona) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "PERSONA: %s\n", persona.Name)
	if persona.Description != "" {
		fmt.Fprintf(&sb, "DESCRIPTION: %s\n", persona.Description)
	}
	if voice := persona.BrandVoice; voice != nil {
		parts := []string{}
		if len(voice.Traits) > 0 {
			parts = append(
				parts,
				fmt.Sprintf("traits: %s", strings.Join(voice.Traits, ", ")),
			)
		}
		if voice.Tone != "" {
			parts = append(parts, fmt.Sprintf("tone: %s", voice.Tone))
		}
		if voice.LanguageStyle != "" {
			parts = append(
				parts,
				fmt.Sprintf("language style: %s", voice.LanguageStyle),
			)
		}
		if voice.EmojiUsage != "" {
			parts = append(parts, fmt.Sprintf("emoji usage: %s", voice.EmojiUsage))
		}
		if len(parts) > 0 {
			fmt.Fprintf(&sb, "BRAND VOICE: %s\n", strings.Join(parts, " | "))
		}
	}
	if audience := persona.TargetAudience; audience != nil {
		parts := []string{}
		if audience.AgeRange != "" {
			parts = append(parts, fmt.Sprintf("age: %s", audience.AgeRange))
		}
		if audience.Location != "" {
			parts = append(parts, fmt.Sprintf("location: %s", audience.Location))
		}
		if len(audience.Interests) > 0 {
			parts = append(
				parts,
				fmt.Sprintf("interests: %s", strings.Join(audience.Interests, ", ")),
			)
		}
		if len(parts) > 0 {
			fmt.Fprintf(&sb, "TARGET AUDIENCE: %s\n", strings.Join(parts, " | "))
		}
	}
	if guidelines := persona.Guidelines; guidelines != nil {
		parts := []string{}
		if len(guidelines.Topics) > 0 {
			parts = append(
				parts,
				fmt.Sprintf("topics: %s", strings.Join(guidelines.Topics, ", ")),
			)
		}
		if len(guidelines.AvoidTopics) > 0 {
			parts = append(
				parts,
				fmt.Sprintf("avoid: %s", strings.Join(guidelines.AvoidTopics, ", ")),
			)
		}
		if len(guidelines.Hashtags) > 0 {
			parts = append(
				parts,
				fmt.Sprintf("hashtags: %s", strings.Join(guidelines.Hashtags, ", ")),
			)
		}
		if len(guidelines.CallToActions) > 0 {
			parts = append(
				parts,
				fmt.Sprintf(
					"CTAs: %s",
					strings.Join(guidelines.CallToActions, ", "),
				),
			)
		}
		if len(parts) > 0 {
			fmt.Fprintf(&sb, "GUIDELINES: %s\n", strings.Join(parts, " | "))
		}
	}
	if instagram := persona.Instagram; instagram != nil {
		parts := []string{}
		if instagram.CaptionLength != "" {
			parts = append(
				parts,
				fmt.Sprintf("caption length: %s", instagram.CaptionLength),
			)
		}
		if instagram.HashtagStrategy != "" {
			parts = append(
				parts,
				fmt.Sprintf("hashtag strategy: %s", instagram.HashtagStrategy),
			)
		}
		if len(parts) > 0 {
			fmt.Fprintf(&sb, "INSTAGRAM: %s\n", strings.Join(parts, " | "))
		}
	}
	return sb.String()
}

// extractJSON strips markdown code fences and any surrounding chatter from a
// model response, leaving the outermost JSON object.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}

// extractHashtags scans free-form text for hashtag-shaped words.
func extractHashtags(s string) []string {
	hashtags := []string{}
	for _, field := range strings.Fields(s) {
		if strings.HasPrefix(field, "#") && len(field) > 1 {
			hashtags = append(hashtags, strings.Trim(field, `",.]`))
		}
	}
	return hashtags
}
