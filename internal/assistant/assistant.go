// Package assistant talks to the remote assistant endpoint: one JSON POST
// per prompt, one JSON reply.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ReplyField is the key of the reply text in the response object.
const ReplyField = "response"

var (
	// ErrUnreachable covers transport failures: refused connections, DNS,
	// timeouts, broken bodies.
	ErrUnreachable = errors.New("assistant unreachable")
	// ErrInvalidFormat is returned when the body is not JSON.
	ErrInvalidFormat = errors.New("invalid response format")
	// ErrNoReply is returned when the body is JSON but carries no reply text.
	ErrNoReply = errors.New("no reply in response")
)

// Request is the JSON body sent for every prompt.
type Request struct {
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens"`
	Tag       string `json:"tag"`
}

// Options configures a Client.
type Options struct {
	Endpoint  string
	MaxTokens int
	Tag       string
	Timeout   time.Duration
	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client posts prompts to the assistant endpoint.
type Client struct {
	endpoint  string
	maxTokens int
	tag       string
	http      *http.Client
}

// New creates a Client.
func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		endpoint:  opts.Endpoint,
		maxTokens: opts.MaxTokens,
		tag:       opts.Tag,
		http:      hc,
	}
}

// Ask sends prompt and returns the reply text. Errors wrap ErrUnreachable,
// ErrInvalidFormat or ErrNoReply.
func (c *Client) Ask(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(Request{
		Prompt:    prompt,
		MaxTokens: c.maxTokens,
		Tag:       c.tag,
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: building request: %v", ErrUnreachable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %v", ErrUnreachable, err)
	}

	// The status code is not part of the contract; the body decides.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("Assistant returned non-2xx status",
			"component", "Assistant", "status", resp.StatusCode, "bytes", len(raw))
	}
	slog.Debug("Assistant responded",
		"component", "Assistant", "status", resp.StatusCode, "duration", time.Since(start).String())

	return ParseReply(raw)
}

// ParseReply extracts the reply text from a response body.
func ParseReply(raw []byte) (string, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return "", ErrNoReply
	}
	text, ok := obj[ReplyField].(string)
	if !ok || text == "" {
		return "", ErrNoReply
	}
	return text, nil
}
