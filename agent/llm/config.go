package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
	openrouterx "github.com/tanpawarit/guide-life-agents/pkg/openrouter"
)

// Purpose names for completions that are not bound to an agent.
const (
	PurposeGreeting  = "greeting"
	PurposeExtractor = "extractor"
	PurposeRenderer  = "renderer"
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	// Overrides keyed by agent type or purpose, e.g. "money:openai/gpt-4o,renderer:meta-llama/llama-3.3-70b-instruct".
	Models       map[string]string  `envconfig:"MODELS"`
	Temperatures map[string]float32 `envconfig:"TEMPERATURES"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

func (c Config) OpenRouterFor(agentType contractx.AgentType) openrouterx.Config {
	return c.OpenRouterForPurpose(string(agentType))
}

// OpenRouterForPurpose resolves the endpoint config for an agent type or one
// of the Purpose* names, falling back to the defaults.
func (c Config) OpenRouterForPurpose(key string) openrouterx.Config {
	key = strings.TrimSpace(key)
	modelName := strings.TrimSpace(c.Model)
	if v := strings.TrimSpace(c.Models[key]); v != "" {
		modelName = v
	}
	temp := c.Temperature
	if v, ok := c.Temperatures[key]; ok && v >= 0 {
		temp = v
	}

	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
