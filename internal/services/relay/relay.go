// Package relay forwards prompts to the model provider: stateless role prompts
// through chat completions, and thread prompts through the assistants API.
package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/deepgram/airelay/internal/domain"
	"github.com/deepgram/airelay/pkg/logger"
	"github.com/sashabaranov/go-openai"
)

type Options struct {
	Model        string
	AssistantID  string
	RunTimeout   time.Duration
	PollInterval time.Duration
}

type Service struct {
	client Client
	opts   Options
}

func NewService(client Client, opts Options) *Service {
	if opts.Model == "" {
		opts.Model = openai.GPT4oMini
	}
	if opts.RunTimeout <= 0 {
		opts.RunTimeout = 2 * time.Minute
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 500 * time.Millisecond
	}
	return &Service{client: client, opts: opts}
}

// VerifyAssistant checks that the configured assistant exists.
func (s *Service) VerifyAssistant(ctx context.Context) error {
	if s.opts.AssistantID == "" {
		return fmt.Errorf("OPENAI_ASSISTANT_ID is not set: %w", domain.ErrConfigurationMissing)
	}
	asst, err := s.client.RetrieveAssistant(ctx, s.opts.AssistantID)
	if err != nil {
		return upstream("retrieve assistant", err)
	}

	l := logger.For(logger.RELAY)
	l.Info().Str("assistant_id", asst.ID).Str("model", asst.Model).Msg("Assistant verified")
	return nil
}

// PersonaPrompt sends prompt with persona as the system message.
func (s *Service) PersonaPrompt(ctx context.Context, prompt, persona string) (string, error) {
	l := logger.For(logger.RELAY)
	l.Debug().Str("model", s.opts.Model).Int("persona_length", len(persona)).Msg("Sending role prompt")

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.opts.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: persona},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		l.Error().Err(err).Msg("Failed to get chat completion")
		return "", upstream("chat completion", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion %s: no response choices returned: %w", resp.ID, domain.ErrUpstream)
	}

	l.Info().
		Str("completion_id", resp.ID).
		Int("total_tokens", resp.Usage.TotalTokens).
		Msg("Role prompt completed")
	return resp.Choices[0].Message.Content, nil
}

// NewThread allocates an empty conversation thread on the provider.
func (s *Service) NewThread(ctx context.Context) (string, error) {
	thread, err := s.client.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		return "", upstream("create thread", err)
	}

	l := logger.For(logger.RELAY)
	l.Info().Str("thread_id", thread.ID).Msg("Created provider thread")
	return thread.ID, nil
}

// ThreadPrompt appends prompt to the thread, runs the assistant on it and
// returns the first assistant text produced by that run.
func (s *Service) ThreadPrompt(ctx context.Context, prompt, threadID string) (string, error) {
	if s.opts.AssistantID == "" {
		return "", fmt.Errorf("OPENAI_ASSISTANT_ID is not set: %w", domain.ErrConfigurationMissing)
	}

	l := logger.For(logger.RELAY)

	if _, err := s.client.CreateMessage(ctx, threadID, openai.MessageRequest{
		Role:    string(openai.ThreadMessageRoleUser),
		Content: prompt,
	}); err != nil {
		return "", upstream("create message", err)
	}

	run, err := s.client.CreateRun(ctx, threadID, openai.RunRequest{AssistantID: s.opts.AssistantID})
	if err != nil {
		return "", upstream("create run", err)
	}
	l.Debug().Str("thread_id", threadID).Str("run_id", run.ID).Msg("Run created")

	run, err = s.awaitRun(ctx, threadID, run)
	if err != nil {
		return "", err
	}

	reply, err := s.firstAssistantText(ctx, threadID, run.ID)
	if err != nil {
		return "", err
	}

	l.Info().
		Str("thread_id", threadID).
		Str("run_id", run.ID).
		Int("total_tokens", run.Usage.TotalTokens).
		Msg("Thread prompt completed")
	return reply, nil
}

func (s *Service) firstAssistantText(ctx context.Context, threadID, runID string) (string, error) {
	order := "asc"
	messages, err := s.client.ListMessage(ctx, threadID, nil, &order, nil, nil, &runID)
	if err != nil {
		return "", upstream("list messages", err)
	}

	for _, msg := range messages.Messages {
		if msg.Role != string(openai.ThreadMessageRoleAssistant) {
			continue
		}
		for _, content := range msg.Content {
			if content.Type == "text" && content.Text != nil {
				return content.Text.Value, nil
			}
		}
	}

	return "", fmt.Errorf("run %s on thread %s: %w", runID, threadID, domain.ErrEmptyReply)
}

func upstream(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrUpstream, err)
}
