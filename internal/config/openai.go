package config

import "github.com/rs/zerolog/log"

const defaultOpenAIModel = "gpt-4o-mini"

// GetOpenAIKey returns the OpenAI API key. OPENAI_KEY takes precedence over the
// OPENAI_API_KEY name used by the official SDKs.
func GetOpenAIKey() string {
	value := GetEnvOrDefault("OPENAI_KEY", GetEnvOrDefault("OPENAI_API_KEY", ""))
	if value == "" {
		log.Warn().Msg("OPENAI_KEY environment variable not set")
	}
	return value
}

// GetOpenAIModel returns the chat model used for role prompts
func GetOpenAIModel() string {
	return GetEnvOrDefault("OPENAI_MODEL", defaultOpenAIModel)
}

// GetOpenAIBaseURL returns an optional override of the API base URL
func GetOpenAIBaseURL() string {
	return GetEnvOrDefault("OPENAI_BASE_URL", "")
}

// GetOpenAIAssistantID returns the assistant that thread prompts run against
func GetOpenAIAssistantID() string {
	value := GetEnvOrDefault("OPENAI_ASSISTANT_ID", "")
	if value == "" {
		log.Warn().Msg("OPENAI_ASSISTANT_ID environment variable not set - assistant prompts will be unavailable")
	}
	return value
}
