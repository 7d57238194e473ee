package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deepgram/airelay/internal/domain"
	"github.com/deepgram/airelay/pkg/logger"
	"github.com/sashabaranov/go-openai"
)

var errRunTimeout = errors.New("run did not reach a terminal state in time")

// awaitRun blocks until run reaches a terminal state or the run timeout passes.
// Anything but completed comes back as a *domain.RunIncompleteError.
func (s *Service) awaitRun(ctx context.Context, threadID string, run openai.Run) (openai.Run, error) {
	ctx, cancel := context.WithTimeoutCause(ctx, s.opts.RunTimeout, errRunTimeout)
	defer cancel()

	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	l := logger.For(logger.RELAY)
	polls := 0

	for {
		switch run.Status {
		case openai.RunStatusCompleted:
			l.Debug().Str("run_id", run.ID).Int("polls", polls).Msg("Run completed")
			return run, nil
		case openai.RunStatusFailed,
			openai.RunStatusCancelled,
			openai.RunStatusExpired,
			openai.RunStatusIncomplete,
			openai.RunStatusRequiresAction: // no tools are registered, so nothing can satisfy the action
			l.Warn().Str("run_id", run.ID).Str("status", string(run.Status)).Msg("Run ended without completing")
			return run, incomplete(threadID, run, "")
		}

		select {
		case <-ctx.Done():
			return run, s.stopWaiting(ctx, threadID, run)
		case <-ticker.C:
		}

		next, err := s.client.RetrieveRun(ctx, threadID, run.ID)
		if err != nil {
			if ctx.Err() != nil {
				return run, s.stopWaiting(ctx, threadID, run)
			}
			return run, upstream("retrieve run", err)
		}
		run = next
		polls++
	}
}

func (s *Service) stopWaiting(ctx context.Context, threadID string, run openai.Run) error {
	if errors.Is(context.Cause(ctx), errRunTimeout) {
		l := logger.For(logger.RELAY)
		l.Warn().Str("run_id", run.ID).Dur("timeout", s.opts.RunTimeout).Str("status", string(run.Status)).Msg("Gave up waiting for run")
		return incomplete(threadID, run, fmt.Sprintf("still %s after %s", run.Status, s.opts.RunTimeout))
	}
	return fmt.Errorf("waiting for run %s: %w", run.ID, ctx.Err())
}

func incomplete(threadID string, run openai.Run, reason string) error {
	if reason == "" && run.LastError != nil {
		reason = fmt.Sprintf("%s: %s", run.LastError.Code, run.LastError.Message)
	}
	return &domain.RunIncompleteError{
		ThreadID: threadID,
		RunID:    run.ID,
		Status:   run.Status,
		Reason:   reason,
	}
}
