// Package relaytest provides an in-memory stand-in for the model provider.
package relaytest

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/deepgram/airelay/internal/services/relay"
	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"
)

// Provider keeps threads, messages and runs in memory. Runs complete on the
// first poll with the text produced by Reply.
type Provider struct {
	mu sync.Mutex

	// Reply builds the assistant text for a prompt. Defaults to echoing it.
	Reply func(prompt string) string
	// FinalStatus is the status runs settle in. Defaults to completed.
	FinalStatus openai.RunStatus
	// AssistantID is the only assistant RetrieveAssistant knows about.
	AssistantID string

	threads     map[string][]openai.Message
	runs        map[string]openai.Run
	pending     map[string]string
	completions []openai.ChatCompletionRequest
}

var _ relay.Client = (*Provider)(nil)

func New() *Provider {
	return &Provider{
		AssistantID: "asst_test",
		threads:     make(map[string][]openai.Message),
		runs:        make(map[string]openai.Run),
		pending:     make(map[string]string),
	}
}

func (p *Provider) reply(prompt string) string {
	if p.Reply != nil {
		return p.Reply(prompt)
	}
	return "echo: " + prompt
}

// ThreadCount reports how many threads were created.
func (p *Provider) ThreadCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.threads)
}

// Messages returns a copy of the messages on threadID.
func (p *Provider) Messages(threadID string) []openai.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]openai.Message(nil), p.threads[threadID]...)
}

// Completions returns the chat completion requests received so far.
func (p *Provider) Completions() []openai.ChatCompletionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]openai.ChatCompletionRequest(nil), p.completions...)
}

// AddThread registers an existing thread id, as if created out of band.
func (p *Provider) AddThread(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.threads[id]; !ok {
		p.threads[id] = nil
	}
}

func notFound(kind, id string) error {
	return &openai.APIError{
		HTTPStatusCode: http.StatusNotFound,
		Message:        fmt.Sprintf("No %s found with id '%s'.", kind, id),
	}
}

func (p *Provider) CreateChatCompletion(_ context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.completions = append(p.completions, request)

	var prompt string
	for _, msg := range request.Messages {
		if msg.Role == openai.ChatMessageRoleUser {
			prompt = msg.Content
		}
	}

	return openai.ChatCompletionResponse{
		ID:    "chatcmpl-" + uuid.NewString(),
		Model: request.Model,
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: p.reply(prompt),
			},
			FinishReason: openai.FinishReasonStop,
		}},
	}, nil
}

func (p *Provider) RetrieveAssistant(_ context.Context, assistantID string) (openai.Assistant, error) {
	if assistantID != p.AssistantID {
		return openai.Assistant{}, notFound("assistant", assistantID)
	}
	return openai.Assistant{ID: assistantID, Model: openai.GPT4oMini}, nil
}

func (p *Provider) CreateThread(_ context.Context, _ openai.ThreadRequest) (openai.Thread, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := "thread_" + uuid.NewString()
	p.threads[id] = nil
	return openai.Thread{ID: id, Object: "thread"}, nil
}

func (p *Provider) CreateMessage(_ context.Context, threadID string, request openai.MessageRequest) (openai.Message, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.threads[threadID]; !ok {
		return openai.Message{}, notFound("thread", threadID)
	}

	msg := openai.Message{
		ID:       "msg_" + uuid.NewString(),
		ThreadID: threadID,
		Role:     request.Role,
		Content:  []openai.MessageContent{{Type: "text", Text: &openai.MessageText{Value: request.Content}}},
	}
	p.threads[threadID] = append(p.threads[threadID], msg)
	return msg, nil
}

func (p *Provider) CreateRun(_ context.Context, threadID string, request openai.RunRequest) (openai.Run, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	msgs, ok := p.threads[threadID]
	if !ok {
		return openai.Run{}, notFound("thread", threadID)
	}
	if request.AssistantID != p.AssistantID {
		return openai.Run{}, notFound("assistant", request.AssistantID)
	}

	run := openai.Run{
		ID:          "run_" + uuid.NewString(),
		ThreadID:    threadID,
		AssistantID: request.AssistantID,
		Status:      openai.RunStatusQueued,
	}
	p.runs[run.ID] = run

	var prompt string
	if len(msgs) > 0 {
		last := msgs[len(msgs)-1]
		if len(last.Content) > 0 && last.Content[0].Text != nil {
			prompt = last.Content[0].Text.Value
		}
	}
	p.pending[run.ID] = prompt
	return run, nil
}

func (p *Provider) RetrieveRun(_ context.Context, threadID string, runID string) (openai.Run, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	run, ok := p.runs[runID]
	if !ok || run.ThreadID != threadID {
		return openai.Run{}, notFound("run", runID)
	}

	if prompt, waiting := p.pending[runID]; waiting {
		delete(p.pending, runID)

		run.Status = p.FinalStatus
		if run.Status == "" {
			run.Status = openai.RunStatusCompleted
		}
		if run.Status == openai.RunStatusCompleted {
			id := runID
			p.threads[threadID] = append(p.threads[threadID], openai.Message{
				ID:       "msg_" + uuid.NewString(),
				ThreadID: threadID,
				Role:     string(openai.ThreadMessageRoleAssistant),
				RunID:    &id,
				Content:  []openai.MessageContent{{Type: "text", Text: &openai.MessageText{Value: p.reply(prompt)}}},
			})
		} else {
			run.LastError = &openai.RunLastError{Code: openai.RunErrorServerError, Message: "simulated failure"}
		}
		p.runs[runID] = run
	}

	return run, nil
}

func (p *Provider) ListMessage(_ context.Context, threadID string, _ *int, _ *string, _ *string, _ *string, runID *string) (openai.MessagesList, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	msgs, ok := p.threads[threadID]
	if !ok {
		return openai.MessagesList{}, notFound("thread", threadID)
	}

	var out []openai.Message
	for _, msg := range msgs {
		if runID != nil && (msg.RunID == nil || *msg.RunID != *runID) {
			continue
		}
		out = append(out, msg)
	}
	return openai.MessagesList{Messages: out}, nil
}
