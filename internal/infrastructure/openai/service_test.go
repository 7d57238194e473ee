package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewClient(t *testing.T) {
	_, err := NewClient("", "")
	assert.Error(t, err)

	client, err := NewClient("sk-test", "http://localhost:9999/v1")
	assert.NoError(t, err)
	assert.NotNil(t, client)
}
