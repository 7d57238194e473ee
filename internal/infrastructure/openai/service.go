package openai

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

// NewClient builds the single OpenAI client shared by every request. The client
// is safe for concurrent use.
func NewClient(key, baseURL string) (*openai.Client, error) {
	if key == "" {
		return nil, fmt.Errorf("OpenAI key is required")
	}

	cfg := openai.DefaultConfig(key)
	if baseURL != "" {
		log.Info().Str("base_url", baseURL).Msg("Using custom OpenAI base URL")
		cfg.BaseURL = baseURL
	}

	return openai.NewClientWithConfig(cfg), nil
}
