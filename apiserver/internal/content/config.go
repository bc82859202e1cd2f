package content

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const envconfigPrefix = "GENERATION"

// GenerationConfig encapsulates tunable generation behavior.
type GenerationConfig struct {
	// DailyLimit caps how many generations of each kind a single user may
	// perform per UTC day. Zero disables limiting.
	DailyLimit int64 `envconfig:"DAILY_LIMIT" default:"50"`
}

// GetGenerationConfigFromEnvironment returns GenerationConfig derived from
// environment variables.
func GetGenerationConfigFromEnvironment() (GenerationConfig, error) {
	config := GenerationConfig{}
	err := envconfig.Process(envconfigPrefix, &config)
	return config, errors.Wrap(
		err,
		"error getting generation configuration from environment",
	)
}
