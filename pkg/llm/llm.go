// Package llm wraps an OpenAI-compatible chat API behind a small
// interface. The only in-process LLM use is query intent analysis;
// answer generation stays outside this system.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-4o-mini"

	defaultTemperature = 0.0
)

// ErrEmptyResponse is returned when the API answered with no choices.
var ErrEmptyResponse = errors.New("empty completion response")

// Client is the chat completion surface the intent analyzer depends on.
type Client interface {
	// Complete sends a system+user prompt pair and returns the raw
	// completion text.
	Complete(ctx context.Context, system, user string) (string, error)
}

// Config holds client settings. BaseURL is optional and allows any
// OpenAI-compatible endpoint.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAIClient implements Client over the OpenAI chat API with a
// circuit breaker. Once the breaker opens after repeated failures,
// calls fail fast and the analyzer falls back to heuristics instead of
// waiting on a dead endpoint.
type OpenAIClient struct {
	api     *openai.Client
	model   string
	breaker *gobreaker.CircuitBreaker
}

// NewOpenAIClient builds a client from config.
func NewOpenAIClient(cfg Config) *OpenAIClient {
	apiConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiConfig.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "llm",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	return &OpenAIClient{
		api:     openai.NewClientWithConfig(apiConfig),
		model:   model,
		breaker: breaker,
	}
}

// Complete implements Client.
func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	result, err := c.breaker.Execute(func() (any, error) {
		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.model,
			Temperature: defaultTemperature,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: system},
				{Role: openai.ChatMessageRoleUser, Content: user},
			},
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 {
			return nil, ErrEmptyResponse
		}
		return resp.Choices[0].Message.Content, nil
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	return result.(string), nil
}
