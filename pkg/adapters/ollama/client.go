// Package ollama implements the extraction gateway against a locally
// hosted model served over an OpenAI-compatible API (Ollama's /v1
// endpoints by default).
package ollama

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/aretw0/magie/internal/logging"
	"github.com/aretw0/magie/pkg/domain"
	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultBaseURL = "http://localhost:11434/v1"
	defaultModel   = "llama3.2"
	defaultTimeout = 10 * time.Second
)

// Client implements ports.Extractor.
type Client struct {
	api           *openai.Client
	model         string
	accountNumber string
	timeout       time.Duration
	logger        *slog.Logger
}

type Option func(*Client)

// WithModel overrides the model name.
func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

// WithTimeout bounds the wait for the model before the turn fails.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger configures a logger for raw request/response debugging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a gateway client. baseURL may be empty for the local
// Ollama default; accountNumber is injected into the system prompt so
// the model never asks for it.
func New(baseURL, accountNumber string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	c := &Client{
		model:         defaultModel,
		accountNumber: accountNumber,
		timeout:       defaultTimeout,
		logger:        logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	cfg := openai.DefaultConfig("")
	cfg.BaseURL = baseURL
	cfg.HTTPClient = &http.Client{Timeout: c.timeout}
	c.api = openai.NewClientWithConfig(cfg)

	return c
}

// Extract sends the conversation to the model and returns the validated
// structured result. Failures come back as *domain.ExtractionError; the
// caller surfaces them once and does not retry.
func (c *Client) Extract(ctx context.Context, userID string, history []string, utterance string) (*domain.ExtractionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		// Zero temperature for deterministic extraction. The library drops
		// a literal 0 via omitempty, so send the smallest non-zero value.
		Temperature: math.SmallestNonzeroFloat32,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildSystemMessage(c.accountNumber)},
			{Role: openai.ChatMessageRoleUser, Content: buildUserMessage(history, utterance)},
		},
	})
	if err != nil {
		reason := "transport failure"
		if errors.Is(err, context.DeadlineExceeded) {
			reason = "timeout waiting for model"
		}
		return nil, &domain.ExtractionError{Reason: reason, Err: err}
	}

	if len(resp.Choices) == 0 {
		return nil, &domain.ExtractionError{Reason: "empty completion"}
	}
	raw := resp.Choices[0].Message.Content
	c.logger.Debug("raw model response", "user_id", userID, "content", raw)

	decoded, err := decodeResponse(raw)
	if err != nil {
		return nil, &domain.ExtractionError{Reason: "model returned an unexpected format", Err: err}
	}

	result := &domain.ExtractionResult{
		Intent:          domain.ParseIntent(decoded.Intent),
		Entities:        decoded.Entities,
		MissingEntities: decoded.MissingEntities,
		NextQuestion:    decoded.NextQuestion,
	}
	if result.Entities == nil {
		result.Entities = map[string]any{}
	}
	return result, nil
}
