package console

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"agi-console/internal/assistant"
)

// Messages shown in place of a reply when a submission does not produce one.
const (
	MsgNoReply       = "No valid reply received from the assistant."
	MsgInvalidFormat = "Invalid response format from the assistant."
	MsgUnreachable   = "Unable to reach the assistant. Please try again."
)

// Asker sends a prompt to the assistant.
type Asker interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

// Coordinator owns the output text and the in-flight flag, and performs the
// outbound call for each accepted submission.
type Coordinator struct {
	asker Asker

	mu     sync.Mutex
	busy   bool
	output string

	submissions atomic.Uint64
}

// NewCoordinator creates an idle coordinator.
func NewCoordinator(asker Asker) *Coordinator {
	return &Coordinator{asker: asker}
}

// Busy reports whether a submission is outstanding.
func (c *Coordinator) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Output returns the last output text.
func (c *Coordinator) Output() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.output
}

// Submissions returns how many submissions have been accepted.
func (c *Coordinator) Submissions() uint64 {
	return c.submissions.Load()
}

// Submit starts one request for prompt. It is rejected when the prompt is
// blank or a request is already in flight. The returned channel is closed
// once the outcome is recorded and busy is cleared.
func (c *Coordinator) Submit(ctx context.Context, prompt string) (<-chan struct{}, bool) {
	if strings.TrimSpace(prompt) == "" {
		return nil, false
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return nil, false
	}
	c.busy = true
	c.output = ""
	c.mu.Unlock()

	c.submissions.Add(1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		text := c.resolve(ctx, prompt)

		c.mu.Lock()
		c.output = text
		c.busy = false
		c.mu.Unlock()
	}()
	return done, true
}

// resolve performs the call and maps its outcome to display text.
func (c *Coordinator) resolve(ctx context.Context, prompt string) string {
	reply, err := c.asker.Ask(ctx, prompt)
	switch {
	case err == nil:
		return reply
	case errors.Is(err, assistant.ErrNoReply):
		slog.Info("Assistant response had no reply field", "component", "Coordinator")
		return MsgNoReply
	case errors.Is(err, assistant.ErrInvalidFormat):
		slog.Error("Assistant response could not be parsed", "component", "Coordinator", "error", err)
		return MsgInvalidFormat
	default:
		slog.Error("Assistant request failed", "component", "Coordinator", "error", err)
		return MsgUnreachable
	}
}
