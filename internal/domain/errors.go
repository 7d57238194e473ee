package domain

import (
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

var (
	// ErrNotFound is returned when a role, instruction set or thread name is unknown.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a thread name or id is already stored.
	ErrConflict = errors.New("conflict")
	// ErrConfigurationMissing is returned when a catalog file or the assistant id is not configured.
	ErrConfigurationMissing = errors.New("configuration missing")
	// ErrThreadResolutionFailed is returned when neither the requested nor the fallback thread exists.
	ErrThreadResolutionFailed = errors.New("thread resolution failed")
	// ErrRunIncomplete is returned when an assistant run ends in anything other than completed.
	ErrRunIncomplete = errors.New("run incomplete")
	// ErrEmptyReply is returned when a completed run produced no assistant text.
	ErrEmptyReply = errors.New("assistant produced no text reply")
	// ErrInvalidInput is returned for malformed caller input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUpstream wraps failures reported by the model provider.
	ErrUpstream = errors.New("upstream provider error")
)

// ThreadResolutionError names every thread name that was tried.
type ThreadResolutionError struct {
	Requested string
	Fallback  string
}

func (e *ThreadResolutionError) Error() string {
	return fmt.Sprintf("no thread named %q and no fallback thread %q: create a thread named %q to enable the fallback",
		e.Requested, e.Fallback, e.Fallback)
}

func (e *ThreadResolutionError) Is(target error) bool {
	return target == ErrThreadResolutionFailed
}

// RunIncompleteError carries the terminal (or last observed) status of a run.
type RunIncompleteError struct {
	ThreadID string
	RunID    string
	Status   openai.RunStatus
	Reason   string
}

func (e *RunIncompleteError) Error() string {
	msg := fmt.Sprintf("run %s on thread %s ended with status %q", e.RunID, e.ThreadID, e.Status)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *RunIncompleteError) Is(target error) bool {
	return target == ErrRunIncomplete
}
