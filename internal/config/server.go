package config

// GetPort returns the port the HTTP server listens on
func GetPort() string {
	return GetEnvOrDefault("PORT", "8088")
}
