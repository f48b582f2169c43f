package ai

import (
	"context"
	"fmt"
	"strings"

	"io73k/story"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-2.5-flash"

// Gemini generates text with Google's Gemini models.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}

func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	history, last, err := lastUserTurn(req.Messages)
	if err != nil {
		return "", err
	}

	name := req.Model
	if name == "" || !strings.HasPrefix(name, "gemini") {
		name = g.model
	}
	model := g.client.GenerativeModel(name)
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}

	cs := model.StartChat()
	cs.History = toContents(history)

	resp, err := cs.SendMessage(ctx, genai.Text(last.Content))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			out.WriteString(string(t))
		}
	}
	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// toContents maps chat turns to Gemini's user/model roles.
func toContents(msgs []story.ChatMessage) []*genai.Content {
	out := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		role := "user"
		if m.Role == story.RoleAssistant {
			role = "model"
		}
		out = append(out, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Content)}})
	}
	return out
}
