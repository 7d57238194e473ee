package config

import "time"

const (
	defaultRunTimeout   = 2 * time.Minute
	defaultPollInterval = 500 * time.Millisecond
)

// GetRunTimeout bounds how long a thread prompt waits for its run to finish
func GetRunTimeout() time.Duration {
	return parseEnvDuration("RELAY_RUN_TIMEOUT", defaultRunTimeout)
}

// GetPollInterval is the delay between run status checks
func GetPollInterval() time.Duration {
	return parseEnvDuration("RELAY_POLL_INTERVAL", defaultPollInterval)
}
