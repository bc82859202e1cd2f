package genai

import (
	"context"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/postwright/postwright/apiserver/internal/content"
	"github.com/postwright/postwright/internal/common/retries"
	"google.golang.org/genai"
)

const (
	maxGenerateAttempts = 3
	maxGenerateBackoff  = 10 * time.Second
)

const envconfigPrefix = "GEMINI"

// EngineConfig encapsulates options for connecting to the Gemini API.
type EngineConfig struct {
	// APIKey authenticates requests to the Gemini API.
	APIKey string `envconfig:"API_KEY" required:"true"`
	// Model identifies which Gemini model to use for generation.
	Model string `envconfig:"MODEL"`
}

// GetEngineConfigFromEnvironment returns EngineConfig derived from environment
// variables.
func GetEngineConfigFromEnvironment() (EngineConfig, error) {
	config := EngineConfig{}
	err := envconfig.Process(envconfigPrefix, &config)
	return config, errors.Wrap(
		err,
		"error getting gemini configuration from environment",
	)
}

type engine struct {
	client *genai.Client
	model  string
}

// NewEngine returns an implementation of the content.Engine interface backed
// by Google's Gemini API.
func NewEngine(
	ctx context.Context,
	config EngineConfig,
) (content.Engine, error) {
	if config.APIKey == "" {
		return nil, errors.New("a Gemini API key is required")
	}
	model := config.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: config.APIKey,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error creating Gemini client")
	}
	return &engine{
		client: client,
		model:  model,
	}, nil
}

func (e *engine) GenerateText(
	ctx context.Context,
	prompt string,
) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	var text string
	err := retries.ManageRetries(
		ctx,
		"generate content",
		maxGenerateAttempts,
		maxGenerateBackoff,
		func() (bool, error) {
			resp, err := e.client.Models.GenerateContent(
				ctx,
				e.model,
				contents,
				nil,
			)
			if err != nil {
				// Transient API failures are worth another attempt
				return true, errors.Wrap(err, "error invoking model")
			}
			text = resp.Text()
			if text == "" {
				return true, errors.New("model returned an empty response")
			}
			return false, nil
		},
	)
	return text, err
}

func (e *engine) Model() string {
	return e.model
}
