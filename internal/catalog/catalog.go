// Package catalog loads named text resources (role personas, assistant
// instructions) from a YAML definition file.
//
// The file is a mapping from name to a record with at least a description:
//
//	spock:
//	  description: You are Spock, science officer of the USS Enterprise.
//	.internal:
//	  description: Hidden from listings, addressable by name.
//
// Names are case-insensitive. Entries whose name starts with "." are hidden:
// ListAll leaves them out but GetByName still resolves them. The file is read
// on every call so edits take effect without a restart.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/deepgram/airelay/internal/domain"
	"github.com/deepgram/airelay/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Catalog is a named-resource lookup backed by a YAML file.
type Catalog struct {
	kind string
	path string
}

// New returns a catalog reading path. kind ("role", "instructions") only labels
// log lines and error messages.
func New(kind, path string) *Catalog {
	return &Catalog{kind: kind, path: path}
}

// Kind returns the label the catalog was created with.
func (c *Catalog) Kind() string {
	return c.kind
}

// NormalizeKey is applied to names at load time and at lookup time.
func NormalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ListAll returns every visible resource keyed by normalized name. A missing
// file fails with domain.ErrConfigurationMissing; an empty file yields an empty map.
func (c *Catalog) ListAll(ctx context.Context) (map[string]domain.NamedResource, error) {
	resources, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	visible := make(map[string]domain.NamedResource, len(resources))
	for key, res := range resources {
		if res.Hidden() {
			continue
		}
		visible[key] = res
	}
	return visible, nil
}

// GetByName returns a single resource, hidden or not.
func (c *Catalog) GetByName(ctx context.Context, name string) (domain.NamedResource, error) {
	resources, err := c.load(ctx)
	if err != nil {
		return domain.NamedResource{}, err
	}

	res, ok := resources[NormalizeKey(name)]
	if !ok {
		return domain.NamedResource{}, fmt.Errorf("%s %q: %w", c.kind, name, domain.ErrNotFound)
	}

	l := logger.For(logger.CATALOG)
	l.Debug().Str("kind", c.kind).Str("name", res.Key).Bool("hidden", res.Hidden()).Msg("Resolved catalog entry")
	return res, nil
}

func (c *Catalog) load(ctx context.Context) (map[string]domain.NamedResource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l := logger.For(logger.CATALOG)

	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.Error().Str("kind", c.kind).Str("path", c.path).Msg("Catalog file does not exist")
			return nil, fmt.Errorf("%s file %q does not exist: %w", c.kind, c.path, domain.ErrConfigurationMissing)
		}
		return nil, fmt.Errorf("read %s file %q: %w", c.kind, c.path, err)
	}

	var raw map[string]domain.NamedResource
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s file %q: %w", c.kind, c.path, err)
	}

	resources := make(map[string]domain.NamedResource, len(raw))
	for name, res := range raw {
		key := NormalizeKey(name)
		if key == "" {
			return nil, fmt.Errorf("%s file %q: empty entry name", c.kind, c.path)
		}
		if _, dup := resources[key]; dup {
			return nil, fmt.Errorf("%s file %q: %q collides with another entry after case folding", c.kind, c.path, name)
		}
		res.Key = key
		resources[key] = res
	}

	l.Debug().Str("kind", c.kind).Int("entries", len(resources)).Msg("Loaded catalog")
	return resources, nil
}
