package config

// GetLogLevel returns the minimum level logged (trace, debug, info, warn, error)
func GetLogLevel() string {
	return GetEnvOrDefault("LOG_LEVEL", "info")
}

// GetLogFormat returns "console" for human readable logs, anything else means JSON
func GetLogFormat() string {
	return GetEnvOrDefault("LOG_FORMAT", "json")
}
