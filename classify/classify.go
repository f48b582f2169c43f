// Package classify turns model output into game decisions. Every method
// recovers from model failures with the caller's fallback, so no caller
// ever sees an error from the model.
package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"io73k/ai"
	"io73k/config"
	"io73k/story"

	"go.uber.org/zap"
)

// Categorical asks the model to pick one of Options. Fallback is returned
// when the model fails or answers something else.
type Categorical struct {
	System   string
	Input    string
	Options  []string
	Fallback string
}

// Boolean asks a true/false question.
type Boolean struct {
	System   string
	Input    string
	Fallback bool
}

// Classifier wraps a Generator with lenient parsing and fallbacks.
type Classifier struct {
	gen ai.Generator
	cfg config.LLMConfig
	log *zap.Logger
}

// New returns a Classifier. A nil generator behaves like a permanent outage.
func New(gen ai.Generator, cfg config.LLMConfig, log *zap.Logger) *Classifier {
	if gen == nil {
		gen = ai.Offline{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Classifier{gen: gen, cfg: cfg, log: log.Named("classifier")}
}

// Choose runs a categorical classification.
func (c *Classifier) Choose(ctx context.Context, q Categorical) string {
	text, err := c.gen.Generate(ctx, ai.Request{
		System:    q.System,
		Messages:  []story.ChatMessage{{Role: story.RoleUser, Content: q.Input}},
		Model:     c.cfg.ClassifierModel,
		MaxTokens: c.cfg.ClassifierMaxToken,
	})
	if err != nil {
		c.log.Warn("classification failed, using fallback", zap.String("fallback", q.Fallback), zap.Error(err))
		return q.Fallback
	}

	opt, ok := Normalize(text, q.Options)
	if !ok {
		c.log.Warn("unrecognized classification", zap.String("response", text), zap.String("fallback", q.Fallback))
		return q.Fallback
	}
	return opt
}

// Flag runs a true/false classification.
func (c *Classifier) Flag(ctx context.Context, q Boolean) bool {
	text, err := c.gen.Generate(ctx, ai.Request{
		System:    q.System,
		Messages:  []story.ChatMessage{{Role: story.RoleUser, Content: q.Input}},
		Model:     c.cfg.ClassifierModel,
		MaxTokens: c.cfg.ClassifierMaxToken,
	})
	if err != nil {
		c.log.Warn("flag check failed, using fallback", zap.Bool("fallback", q.Fallback), zap.Error(err))
		return q.Fallback
	}

	cleaned := strings.ToLower(strings.TrimSpace(text))
	switch {
	case strings.HasPrefix(cleaned, "true"):
		return true
	case strings.HasPrefix(cleaned, "false"):
		return false
	}
	c.log.Warn("unrecognized flag", zap.String("response", text))
	return q.Fallback
}

// Decode asks for a JSON answer and unmarshals it into v. Unlike the other
// modes it returns the error, because only the caller knows which partial
// result is safe.
func (c *Classifier) Decode(ctx context.Context, req ai.Request, v any) error {
	if req.Model == "" {
		req.Model = c.cfg.ClassifierModel
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = c.cfg.JSONMaxTokens
	}

	text, err := c.gen.Generate(ctx, req)
	if err != nil {
		c.log.Warn("json request failed", zap.Error(err))
		return err
	}
	if err := json.Unmarshal([]byte(StripFences(text)), v); err != nil {
		c.log.Warn("model returned invalid json", zap.String("response", text), zap.Error(err))
		return fmt.Errorf("decode model response: %w", err)
	}
	return nil
}

// Narrate generates free text, or returns fallback on any failure.
func (c *Classifier) Narrate(ctx context.Context, req ai.Request, fallback string) string {
	if req.Model == "" {
		req.Model = c.cfg.NarrativeModel
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = c.cfg.NarrativeMaxTokens
	}
	req.Messages = story.LimitHistory(req.Messages, c.cfg.HistoryLimit)

	text, err := c.gen.Generate(ctx, req)
	if err != nil {
		c.log.Warn("narration failed, using fallback", zap.Error(err))
		return fallback
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fallback
	}
	return text
}

// HistoryLimit is the number of messages sent with narrative requests.
func (c *Classifier) HistoryLimit() int {
	if c.cfg.HistoryLimit <= 0 {
		return story.DefaultHistoryLimit
	}
	return c.cfg.HistoryLimit
}

// Normalize matches a model answer against options, ignoring case, quotes,
// surrounding whitespace and trailing text after the option.
func Normalize(resp string, options []string) (string, bool) {
	cleaned := strings.ToUpper(strings.TrimSpace(resp))
	cleaned = strings.Trim(cleaned, "\"'`*. ")

	best := ""
	for _, opt := range options {
		up := strings.ToUpper(opt)
		if cleaned == up {
			return opt, true
		}
		if strings.HasPrefix(cleaned, up) && len(up) > len(best) {
			best = opt
		}
	}
	return best, best != ""
}

// StripFences removes a markdown code fence around a JSON answer.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
