package content

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/postwright/postwright/sdk/meta"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	generateTextFn func(ctx context.Context, prompt string) (string, error)
}

func (f *fakeEngine) GenerateText(
	ctx context.Context,
	prompt string,
) (string, error) {
	return f.generateTextFn(ctx, prompt)
}

func (f *fakeEngine) Model() string {
	return "test-model"
}

type fakeUsageStore struct {
	incrementFn func(ctx context.Context, userID, kind string) (int64, error)
	getFn       func(ctx context.Context, userID string) (Usage, error)
}

func (f *fakeUsageStore) Increment(
	ctx context.Context,
	userID string,
	kind string,
) (int64, error) {
	if f.incrementFn == nil {
		return 1, nil
	}
	return f.incrementFn(ctx, userID, kind)
}

func (f *fakeUsageStore) Get(
	ctx context.Context,
	userID string,
) (Usage, error) {
	return f.getFn(ctx, userID)
}

var testPersona = Persona{
	ObjectMeta: meta.ObjectMeta{
		ID: "persona-id",
	},
	UserID: "tony@example.com",
	Name:   "Travel Brand",
	BrandVoice: &BrandVoice{
		Traits: []string{"adventurous", "friendly"},
		Tone:   "informal",
	},
	Guidelines: &ContentGuidelines{
		AvoidTopics: []string{"politics"},
	},
	Default: true,
}

func personasServiceForPersona(persona Persona) PersonasService {
	return NewPersonasService(
		&fakePersonasStore{
			getFn: func(context.Context, string, string) (Persona, error) {
				return persona, nil
			},
			getDefaultFn: func(context.Context, string) (Persona, error) {
				return persona, nil
			},
		},
	)
}

func TestGenerateCaption(t *testing.T) {
	testCases := []struct {
		name       string
		engine     Engine
		req        CaptionRequest
		assertions func(t *testing.T, caption Caption, err error)
	}{
		{
			name: "engine fails",
			engine: &fakeEngine{
				generateTextFn: func(context.Context, string) (string, error) {
					return "", errors.New("model unavailable")
				},
			},
			req: CaptionRequest{
				Topic: "sunset in Lisbon",
			},
			assertions: func(t *testing.T, _ Caption, err error) {
				require.Error(t, err)
				require.Contains(t, err.Error(), "model unavailable")
			},
		},
		{
			name: "well formed model response",
			engine: &fakeEngine{
				generateTextFn: func(
					_ context.Context,
					prompt string,
				) (string, error) {
					// The persona's voice should have made it into the prompt
					require.Contains(t, prompt, "Travel Brand")
					require.Contains(t, prompt, "adventurous")
					require.Contains(t, prompt, "sunset in Lisbon")
					return `{"caption": "Golden hour hits different here.",` +
						` "hashtags": ["#lisbon", "#sunset"]}`, nil
				},
			},
			req: CaptionRequest{
				Topic:           "sunset in Lisbon",
				IncludeHashtags: true,
			},
			assertions: func(t *testing.T, caption Caption, err error) {
				require.NoError(t, err)
				require.Equal(t, "Golden hour hits different here.", caption.Text)
				require.Equal(t, []string{"#lisbon", "#sunset"}, caption.Hashtags)
				require.Equal(t, "test-model", caption.Model)
				require.Equal(t, "Travel Brand", caption.Persona)
			},
		},
		{
			name: "model response wrapped in a code fence",
			engine: &fakeEngine{
				generateTextFn: func(context.Context, string) (string, error) {
					return "```json\n" +
						`{"caption": "Golden hour hits different here.", "hashtags": []}` +
						"\n```", nil
				},
			},
			req: CaptionRequest{
				Topic: "sunset in Lisbon",
			},
			assertions: func(t *testing.T, caption Caption, err error) {
				require.NoError(t, err)
				require.Equal(t, "Golden hour hits different here.", caption.Text)
			},
		},
		{
			name: "model ignores format instructions",
			engine: &fakeEngine{
				generateTextFn: func(context.Context, string) (string, error) {
					return "Golden hour hits different here. #lisbon #sunset", nil
				},
			},
			req: CaptionRequest{
				Topic: "sunset in Lisbon",
			},
			assertions: func(t *testing.T, caption Caption, err error) {
				require.NoError(t, err)
				require.Contains(t, caption.Text, "Golden hour")
				require.Equal(t, []string{"#lisbon", "#sunset"}, caption.Hashtags)
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			service := NewGenerationService(
				personasServiceForPersona(testPersona),
				testCase.engine,
				&fakeUsageStore{},
				0,
			)
			caption, err := service.GenerateCaption(
				context.Background(),
				"tony@example.com",
				testCase.req,
			)
			testCase.assertions(t, caption, err)
		})
	}
}

func TestGenerateCaptionWithoutAnyPersona(t *testing.T) {
	service := NewGenerationService(
		NewPersonasService(
			&fakePersonasStore{
				getDefaultFn: func(context.Context, string) (Persona, error) {
					return Persona{}, &meta.ErrNotFound{
						Type: "Persona",
					}
				},
			},
		),
		&fakeEngine{},
		&fakeUsageStore{},
		0,
	)
	_, err := service.GenerateCaption(
		context.Background(),
		"tony@example.com",
		CaptionRequest{
			Topic: "sunset in Lisbon",
		},
	)
	require.Error(t, err)
	require.IsType(t, &meta.ErrBadRequest{}, errors.Cause(err))
}

func TestGenerateCaptionOverDailyLimit(t *testing.T) {
	service := NewGenerationService(
		personasServiceForPersona(testPersona),
		&fakeEngine{
			generateTextFn: func(context.Context, string) (string, error) {
				require.Fail(t, "the engine should never be invoked over the limit")
				return "", nil
			},
		},
		&fakeUsageStore{
			incrementFn: func(context.Context, string, string) (int64, error) {
				return 51, nil
			},
		},
		50,
	)
	_, err := service.GenerateCaption(
		context.Background(),
		"tony@example.com",
		CaptionRequest{
			Topic: "sunset in Lisbon",
		},
	)
	require.Error(t, err)
	require.IsType(t, &meta.ErrLimitExceeded{}, errors.Cause(err))
}

func TestGenerateHashtags(t *testing.T) {
	testCases := []struct {
		name       string
		engine     Engine
		req        HashtagsRequest
		assertions func(t *testing.T, hashtags HashtagSet, err error)
	}{
		{
			name: "count is bounded",
			engine: &fakeEngine{
				generateTextFn: func(
					_ context.Context,
					prompt string,
				) (string, error) {
					require.Contains(t, prompt, "exactly 15 hashtags")
					return `{"hashtags": ["#lisbon"]}`, nil
				},
			},
			req: HashtagsRequest{
				Topic: "sunset in Lisbon",
				Count: 1000,
			},
			assertions: func(t *testing.T, hashtags HashtagSet, err error) {
				require.NoError(t, err)
				require.Equal(t, []string{"#lisbon"}, hashtags.Hashtags)
			},
		},
		{
			name: "model ignores format instructions",
			engine: &fakeEngine{
				generateTextFn: func(context.Context, string) (string, error) {
					return "Here you go: #lisbon #sunset #goldenhour", nil
				},
			},
			req: HashtagsRequest{
				Topic: "sunset in Lisbon",
			},
			assertions: func(t *testing.T, hashtags HashtagSet, err error) {
				require.NoError(t, err)
				require.Equal(
					t,
					[]string{"#lisbon", "#sunset", "#goldenhour"},
					hashtags.Hashtags,
				)
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			service := NewGenerationService(
				personasServiceForPersona(testPersona),
				testCase.engine,
				&fakeUsageStore{},
				0,
			)
			hashtags, err := service.GenerateHashtags(
				context.Background(),
				"tony@example.com",
				testCase.req,
			)
			testCase.assertions(t, hashtags, err)
		})
	}
}

func TestGenerateIdeas(t *testing.T) {
	testCases := []struct {
		name       string
		engine     Engine
		assertions func(t *testing.T, ideas IdeaList, err error)
	}{
		{
			name: "well formed model response",
			engine: &fakeEngine{
				generateTextFn: func(context.Context, string) (string, error) {
					return `{"ideas": [{"title": "Hidden alleys of Alfama",` +
						` "format": "carousel", "callToAction": "Save for later"}]}`, nil
				},
			},
			assertions: func(t *testing.T, ideas IdeaList, err error) {
				require.NoError(t, err)
				require.Len(t, ideas.Items, 1)
				require.Equal(t, "Hidden alleys of Alfama", ideas.Items[0].Title)
				require.Equal(t, "test-model", ideas.Model)
			},
		},
		{
			name: "unparseable model response",
			engine: &fakeEngine{
				generateTextFn: func(context.Context, string) (string, error) {
					return "no json to be found here", nil
				},
			},
			assertions: func(t *testing.T, _ IdeaList, err error) {
				require.Error(t, err)
				require.Contains(t, err.Error(), "error parsing content ideas")
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			service := NewGenerationService(
				personasServiceForPersona(testPersona),
				testCase.engine,
				&fakeUsageStore{},
				0,
			)
			ideas, err := service.GenerateIdeas(
				context.Background(),
				"tony@example.com",
				IdeasRequest{},
			)
			testCase.assertions(t, ideas, err)
		})
	}
}

func TestAnalyzeContent(t *testing.T) {
	const testContent = "Chasing golden hour in Lisbon 🌅 #travel #sunset " +
		"shoutout to @anamaria"
	testCases := []struct {
		name       string
		engine     Engine
		assertions func(t *testing.T, analysis ContentAnalysis, err error)
	}{
		{
			name: "engine fails",
			engine: &fakeEngine{
				generateTextFn: func(context.Context, string) (string, error) {
					return "", errors.New("model unavailable")
				},
			},
			assertions: func(t *testing.T, _ ContentAnalysis, err error) {
				require.Error(t, err)
				require.Contains(t, err.Error(), "model unavailable")
			},
		},
		{
			name: "well formed model response",
			engine: &fakeEngine{
				generateTextFn: func(
					_ context.Context,
					prompt string,
				) (string, error) {
					// Both the persona and the content under review should have
					// made it into the prompt
					require.Contains(t, prompt, "Travel Brand")
					require.Contains(t, prompt, testContent)
					require.Contains(t, prompt, "engagement")
					return `{"score": 0.85, "feedback": "On brand.",` +
						` "suggestions": ["Add a clearer call to action"]}`, nil
				},
			},
			assertions: func(t *testing.T, analysis ContentAnalysis, err error) {
				require.NoError(t, err)
				require.Equal(t, 0.85, analysis.AlignmentScore)
				require.Equal(t, "On brand.", analysis.Feedback)
				require.Len(t, analysis.Suggestions, 1)
				require.Equal(t, "test-model", analysis.Model)
				require.Equal(t, "Travel Brand", analysis.Persona)
			},
		},
		{
			name: "free text model response",
			engine: &fakeEngine{
				generateTextFn: func(context.Context, string) (string, error) {
					return "Looks good overall.", nil
				},
			},
			assertions: func(t *testing.T, analysis ContentAnalysis, err error) {
				require.NoError(t, err)
				require.Equal(t, "Looks good overall.", analysis.Feedback)
				require.Zero(t, analysis.AlignmentScore)
				require.Empty(t, analysis.Suggestions)
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			service := NewGenerationService(
				personasServiceForPersona(testPersona),
				testCase.engine,
				&fakeUsageStore{},
				0,
			)
			analysis, err := service.AnalyzeContent(
				context.Background(),
				"tony@example.com",
				AnalysisRequest{
					Content:       testContent,
					TargetMetrics: []string{"engagement"},
				},
			)
			if err == nil {
				// These are computed locally, independent of the model response
				require.Equal(t, 2, analysis.HashtagCount)
				require.Equal(t, 1, analysis.MentionCount)
				require.Equal(t, 11, analysis.WordCount)
			}
			testCase.assertions(t, analysis, err)
		})
	}
}

func TestGenerationUsageKindsAreTracked(t *testing.T) {
	kinds := []string{}
	service := NewGenerationService(
		personasServiceForPersona(testPersona),
		&fakeEngine{
			generateTextFn: func(context.Context, string) (string, error) {
				return `{"caption": "x", "hashtags": ["#x"], "ideas": []}`, nil
			},
		},
		&fakeUsageStore{
			incrementFn: func(
				_ context.Context,
				_ string,
				kind string,
			) (int64, error) {
				kinds = append(kinds, kind)
				return 1, nil
			},
		},
		0,
	)
	ctx := context.Background()
	_, err := service.GenerateCaption(ctx, "tony@example.com", CaptionRequest{
		Topic: "x",
	})
	require.NoError(t, err)
	_, err = service.GenerateHashtags(ctx, "tony@example.com", HashtagsRequest{
		Topic: "x",
	})
	require.NoError(t, err)
	_, err = service.AnalyzeContent(ctx, "tony@example.com", AnalysisRequest{
		Content: "x",
	})
	require.NoError(t, err)
	require.Equal(
		t,
		[]string{UsageKindCaptions, UsageKindHashtags, UsageKindAnalyses},
		kinds,
	)
}

func TestGetUsage(t *testing.T) {
	service := NewGenerationService(
		personasServiceForPersona(testPersona),
		&fakeEngine{},
		&fakeUsageStore{
			getFn: func(context.Context, string) (Usage, error) {
				return Usage{
					Captions: 3,
					Hashtags: 1,
				}, nil
			},
		},
		0,
	)
	usage, err := service.GetUsage(context.Background(), "tony@example.com")
	require.NoError(t, err)
	require.Equal(t, int64(3), usage.Captions)
	require.Equal(t, int64(1), usage.Hashtags)
	require.Zero(t, usage.Ideas)
}
