package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/deepgram/airelay/internal/catalog"
	"github.com/deepgram/airelay/internal/config"
	"github.com/deepgram/airelay/internal/infrastructure/openai"
	"github.com/deepgram/airelay/internal/services/relay"
	"github.com/deepgram/airelay/internal/services/resolver"
	"github.com/deepgram/airelay/internal/threads"
	"github.com/rs/zerolog/log"
)

var (
	// Mutex for thread-safe initialization
	servicesMu sync.RWMutex
)

type Services struct {
	roleCatalog        *catalog.Catalog
	instructionCatalog *catalog.Catalog
	threadStore        threads.Store
	relayService       *relay.Service
	resolverService    *resolver.Service
}

// InitializeServices builds every service from environment configuration
func InitializeServices(ctx context.Context) (*Services, error) {
	servicesMu.Lock()
	defer servicesMu.Unlock()

	log.Info().Msg("Initializing core services")

	roles := catalog.New("role", config.GetSystemRolesPath())
	instructions := catalog.New("assistant instructions", config.GetAssistantInstructionsPath())
	log.Info().
		Str("roles", config.GetSystemRolesPath()).
		Str("instructions", config.GetAssistantInstructionsPath()).
		Msg("Initializing resource catalogs")

	// Initialize OpenAI client (required)
	client, err := openai.NewClient(config.GetOpenAIKey(), config.GetOpenAIBaseURL())
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize OpenAI client - set OPENAI_KEY")
		return nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
	}

	relayService := relay.NewService(client, relay.Options{
		Model:        config.GetOpenAIModel(),
		AssistantID:  config.GetOpenAIAssistantID(),
		RunTimeout:   config.GetRunTimeout(),
		PollInterval: config.GetPollInterval(),
	})
	log.Info().Str("model", config.GetOpenAIModel()).Msg("Initializing relay service")

	store, err := threads.Open(ctx, threads.OptionsFromEnv())
	if err != nil {
		log.Error().Err(err).Msg("Failed to open thread store")
		return nil, fmt.Errorf("failed to open thread store: %w", err)
	}

	log.Info().Msg("All services initialized successfully")

	return New(roles, instructions, store, relayService), nil
}

// New wires already constructed dependencies together
func New(roles, instructions *catalog.Catalog, store threads.Store, relayService *relay.Service) *Services {
	return &Services{
		roleCatalog:        roles,
		instructionCatalog: instructions,
		threadStore:        store,
		relayService:       relayService,
		resolverService:    resolver.NewService(store, relayService),
	}
}

// GetRoleCatalog returns the system role catalog
func (s *Services) GetRoleCatalog() *catalog.Catalog {
	return s.roleCatalog
}

// GetInstructionCatalog returns the assistant instruction catalog
func (s *Services) GetInstructionCatalog() *catalog.Catalog {
	return s.instructionCatalog
}

// GetThreadStore returns the thread store
func (s *Services) GetThreadStore() threads.Store {
	return s.threadStore
}

// GetRelayService returns the relay service
func (s *Services) GetRelayService() *relay.Service {
	return s.relayService
}

// GetResolverService returns the thread resolver
func (s *Services) GetResolverService() *resolver.Service {
	return s.resolverService
}

// Close releases the thread store
func (s *Services) Close() error {
	servicesMu.Lock()
	defer servicesMu.Unlock()

	if s.threadStore == nil {
		return nil
	}
	return s.threadStore.Close()
}
