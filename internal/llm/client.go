// Package llm talks to the OpenAI-compatible chat-completions endpoint of the
// local inference server and turns a staged diff into a one-line commit
// message.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultRequestTimeout = 90 * time.Second

// Client is a thin chat-completions client. One instance per invocation.
type Client struct {
	baseURL    string
	apiKey     string
	http       *http.Client
	log        zerolog.Logger
	reqTimeout time.Duration
}

// Option adjusts a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option { return func(cl *Client) { cl.http = c } }

// WithRequestTimeout bounds a single completion request.
func WithRequestTimeout(d time.Duration) Option { return func(cl *Client) { cl.reqTimeout = d } }

// New builds a Client. Requests carry context deadlines, the http.Client
// itself has no timeout.
func New(baseURL, apiKey string, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		http:       &http.Client{},
		log:        log,
		reqTimeout: defaultRequestTimeout,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ChatMessage is one turn of a chat-completion conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the subset of the chat-completions payload commitgen sends.
type ChatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// ChatCompletion posts a non-streaming chat request and returns the first
// choice's content.
func (c *Client) ChatCompletion(ctx context.Context, req ChatRequest) (string, error) {
	if c.reqTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.reqTimeout)
		defer cancel()
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("completion request: %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("completion response carried no choices")
	}
	return out.Choices[0].Message.Content, nil
}

// Prompt bundles what CommitMessage needs from the caller.
type Prompt struct {
	Model       string
	Diff        string
	Files       []string
	Temperature float64
	MaxTokens   int
}

const systemPrompt = "You write git commit messages. Given a staged diff, reply with exactly one " +
	"conventional-commit subject line (type: summary), at most 72 characters, imperative mood, " +
	"no trailing period, no quotes, no code fences, no explanation."

// CommitMessage asks the model for a subject line and normalizes the reply.
func (c *Client) CommitMessage(ctx context.Context, p Prompt) (string, error) {
	var user strings.Builder
	if len(p.Files) > 0 {
		user.WriteString("Staged files:\n")
		for _, f := range p.Files {
			user.WriteString("  " + f + "\n")
		}
		user.WriteString("\n")
	}
	user.WriteString("Staged diff:\n")
	user.WriteString(p.Diff)

	raw, err := c.ChatCompletion(ctx, ChatRequest{
		Model: p.Model,
		Messages: []ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: user.String()},
		},
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	msg := sanitizeMessage(raw)
	if msg == "" {
		return "", fmt.Errorf("model returned an empty commit message")
	}
	c.log.Debug().Str("raw", raw).Str("message", msg).Msg("commit message generated")
	return msg, nil
}

const maxSubjectLen = 120

// sanitizeMessage reduces a model reply to a single clean subject line:
// code fences and surrounding quotes stripped, first non-empty line kept,
// whitespace collapsed, trailing period dropped, length capped at a word
// boundary.
func sanitizeMessage(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```text")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "```" {
			continue
		}
		line = strings.Trim(line, "\"'`")
		line = strings.Join(strings.Fields(line), " ")
		line = strings.TrimSuffix(line, ".")
		if len(line) > maxSubjectLen {
			if cut := strings.LastIndexByte(line[:maxSubjectLen], ' '); cut > 0 {
				line = line[:cut]
			} else {
				line = line[:maxSubjectLen]
			}
		}
		return line
	}
	return ""
}
