package config

import (
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// GetThreadStoreBackend returns which backend persists named threads
func GetThreadStoreBackend() string {
	value := strings.ToLower(GetEnvOrDefault("THREAD_STORE", StoreSQLite))
	switch value {
	case StoreSQLite, StoreRedis, StoreMemory:
		return value
	default:
		log.Warn().Str("thread_store", value).Msg("Unknown THREAD_STORE, falling back to sqlite")
		return StoreSQLite
	}
}

// GetThreadsDBPath returns the sqlite database file for the thread store
func GetThreadsDBPath() string {
	return GetEnvOrDefault("THREADS_DB_PATH", "./data/airelay.db")
}
