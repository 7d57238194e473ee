package config

import (
	"sync"
)

var (
	jwtSecretMu sync.RWMutex
	// JWTSecret signs and verifies API bearer tokens. Empty disables authentication.
	JWTSecret = []byte(GetEnvOrDefault("JWT_SECRET", ""))
)

// SetJWTSecret temporarily changes the JWT secret and returns a function to restore it
// This is primarily used for testing
func SetJWTSecret(secret []byte) func() {
	jwtSecretMu.Lock()
	previous := JWTSecret
	JWTSecret = secret
	jwtSecretMu.Unlock()

	return func() {
		jwtSecretMu.Lock()
		JWTSecret = previous
		jwtSecretMu.Unlock()
	}
}

// GetJWTSecret returns the current JWT secret in a thread-safe manner
func GetJWTSecret() []byte {
	jwtSecretMu.RLock()
	defer jwtSecretMu.RUnlock()
	return JWTSecret
}

// AuthEnabled reports whether /api/v1 requires a bearer token
func AuthEnabled() bool {
	return len(GetJWTSecret()) > 0
}

// LoadJWTSecret re-reads JWT_SECRET, for use after a .env file has been loaded
func LoadJWTSecret() {
	jwtSecretMu.Lock()
	defer jwtSecretMu.Unlock()
	JWTSecret = []byte(GetEnvOrDefault("JWT_SECRET", ""))
}
