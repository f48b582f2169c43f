// Package ai is the boundary to the language model. A Generator makes a
// single attempt per call and reports every failure as an error; deciding
// what to do about it is the caller's job.
package ai

import (
	"context"
	"errors"
	"fmt"

	"io73k/config"
	"io73k/story"

	"go.uber.org/zap"
)

// ErrNoAPIKey is returned by backends that have no credentials.
var ErrNoAPIKey = errors.New("ai: no API key configured")

// ErrEmptyResponse is returned when the model answered with no text.
var ErrEmptyResponse = errors.New("ai: empty response")

// Request is one call to the model. Messages alternate user/assistant and
// end with the user turn being answered.
type Request struct {
	System    string
	Messages  []story.ChatMessage
	Model     string
	MaxTokens int
}

// Generator produces text for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Offline is a Generator that always fails, so every caller takes its
// scripted fallback.
type Offline struct{}

func (Offline) Generate(context.Context, Request) (string, error) { return "", ErrNoAPIKey }

// Closer is implemented by backends holding network clients.
type Closer interface {
	Close() error
}

// New builds the configured backend. With no API key it returns Offline
// rather than failing, so the game stays playable.
func New(ctx context.Context, c *config.Config, log *zap.Logger) (Generator, error) {
	if log == nil {
		log = zap.NewNop()
	}
	cfg := c.LLM
	if cfg.Provider == "offline" || cfg.APIKey == "" {
		log.Warn("language model disabled, using scripted fallbacks", zap.String("provider", cfg.Provider))
		return Offline{}, nil
	}

	switch cfg.Provider {
	case "gemini":
		return NewGemini(ctx, cfg.APIKey, cfg.NarrativeModel)
	case "anthropic":
		return NewAnthropic(AnthropicConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.NarrativeModel,
			Timeout: c.LLMTimeout(),
		}), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}

// lastUserTurn splits messages into history and the final user message.
func lastUserTurn(msgs []story.ChatMessage) ([]story.ChatMessage, story.ChatMessage, error) {
	if len(msgs) == 0 {
		return nil, story.ChatMessage{}, errors.New("ai: request has no messages")
	}
	last := msgs[len(msgs)-1]
	if last.Role != story.RoleUser {
		return nil, story.ChatMessage{}, fmt.Errorf("ai: last message has role %q, want user", last.Role)
	}
	return msgs[:len(msgs)-1], last, nil
}
