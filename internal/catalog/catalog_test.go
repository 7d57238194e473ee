package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/deepgram/airelay/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rolesYAML = `
Spock:
  description: You are Spock, science officer. Answer with logic.
BugsBunny:
  description: You are Bugs Bunny. Start every answer with "Eh, what's up, doc?"
default:
  description: You are a helpful assistant.
.Riker:
  description: You are Riker, first officer aka number one.
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "system_roles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestListAllExcludesHidden(t *testing.T) {
	c := New("role", writeCatalog(t, rolesYAML))

	all, err := c.ListAll(context.Background())
	require.NoError(t, err)

	assert.Len(t, all, 3)
	assert.Contains(t, all, "spock")
	assert.Contains(t, all, "bugsbunny")
	assert.Contains(t, all, "default")
	assert.NotContains(t, all, ".riker")
	for key := range all {
		assert.NotEqual(t, domain.HiddenPrefix, key[:1])
	}
}

func TestGetByNameHiddenEntry(t *testing.T) {
	c := New("role", writeCatalog(t, rolesYAML))

	res, err := c.GetByName(context.Background(), ".Riker")
	require.NoError(t, err)
	assert.True(t, res.Hidden())
	assert.Equal(t, ".riker", res.Key)
	assert.Contains(t, res.Description, "Riker")
}

func TestGetByNameCaseInsensitive(t *testing.T) {
	c := New("role", writeCatalog(t, rolesYAML))

	for _, name := range []string{"spock", "SPOCK", "Spock", "  sPoCk "} {
		t.Run(name, func(t *testing.T) {
			res, err := c.GetByName(context.Background(), name)
			require.NoError(t, err)
			assert.Equal(t, "spock", res.Key)
			assert.Contains(t, res.Description, "Spock")
		})
	}
}

func TestGetByNameUnknown(t *testing.T) {
	c := New("role", writeCatalog(t, rolesYAML))

	for _, name := range []string{"kirk", "riker", ""} {
		t.Run(name, func(t *testing.T) {
			_, err := c.GetByName(context.Background(), name)
			assert.ErrorIs(t, err, domain.ErrNotFound)
			assert.NotErrorIs(t, err, domain.ErrConfigurationMissing)
		})
	}
}

func TestMissingFile(t *testing.T) {
	c := New("instructions", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := c.GetByName(context.Background(), "spock")
	assert.ErrorIs(t, err, domain.ErrConfigurationMissing)
	assert.NotErrorIs(t, err, domain.ErrNotFound)

	_, err = c.ListAll(context.Background())
	assert.ErrorIs(t, err, domain.ErrConfigurationMissing)
}

func TestEmptyFile(t *testing.T) {
	c := New("role", writeCatalog(t, ""))

	all, err := c.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = c.GetByName(context.Background(), "spock")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReloadedOnEveryCall(t *testing.T) {
	path := writeCatalog(t, rolesYAML)
	c := New("role", path)

	_, err := c.GetByName(context.Background(), "kirk")
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, os.WriteFile(path, []byte(rolesYAML+"Kirk:\n  description: You are Captain Kirk.\n"), 0o600))

	res, err := c.GetByName(context.Background(), "kirk")
	require.NoError(t, err)
	assert.Equal(t, "You are Captain Kirk.", res.Description)
}

func TestCaseCollision(t *testing.T) {
	c := New("role", writeCatalog(t, "Spock:\n  description: a\nSPOCK:\n  description: b\n"))

	_, err := c.ListAll(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "collides")
}

func TestMalformedFile(t *testing.T) {
	c := New("role", writeCatalog(t, "spock: [unterminated"))

	_, err := c.ListAll(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrConfigurationMissing)
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "bugsbunny", NormalizeKey(" BugsBunny "))
	assert.Equal(t, ".riker", NormalizeKey(".Riker"))
}
