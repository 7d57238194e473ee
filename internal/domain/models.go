package domain

import (
	"strings"
	"time"
)

// HiddenPrefix marks catalog entries that are left out of listings.
const HiddenPrefix = "."

// DefaultThreadName is the thread used when a requested thread name is unknown.
const DefaultThreadName = "default"

// NamedResource is a role persona or a set of assistant instructions.
type NamedResource struct {
	Key         string `json:"-" yaml:"-"`
	Description string `json:"description" yaml:"description"`
}

// Hidden reports whether the resource is excluded from listings.
func (r NamedResource) Hidden() bool {
	return strings.HasPrefix(r.Key, HiddenPrefix)
}

// Thread maps a user chosen name onto a provider thread id.
type Thread struct {
	ThreadID    string    `json:"thread_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"timestamp"`
}
