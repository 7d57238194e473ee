package config

import (
	"time"

	"github.com/rs/zerolog/log"
)

type RateLimitConfig struct {
	Enabled bool
	MaxHits int
	Window  time.Duration
}

func GetRateLimitConfig(key string) RateLimitConfig {
	enabled := parseEnvBool("RATELIMIT_ENABLED", false)

	configs := map[string]RateLimitConfig{
		"role_prompt": {
			Enabled: enabled,
			MaxHits: parseEnvPositiveInt("RATELIMIT_ROLE_PROMPT", 60), // 60 requests per minute
			Window:  time.Minute,
		},
		"assistant_prompt": {
			Enabled: enabled,
			MaxHits: parseEnvPositiveInt("RATELIMIT_ASSISTANT_PROMPT", 30), // 30 requests per minute
			Window:  time.Minute,
		},
		"thread_create": {
			Enabled: enabled,
			MaxHits: parseEnvPositiveInt("RATELIMIT_THREAD_CREATE", 10), // 10 requests per minute
			Window:  time.Minute,
		},
	}

	if config, exists := configs[key]; exists {
		return config
	}

	log.Warn().Str("key", key).Msg("No rate limit config found")
	return RateLimitConfig{Enabled: false}
}
