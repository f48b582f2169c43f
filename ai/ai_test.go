package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"io73k/config"
	"io73k/story"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userSays(s string) []story.ChatMessage {
	return []story.ChatMessage{{Role: story.RoleUser, Content: s}}
}

func TestAnthropicGenerate(t *testing.T) {
	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "sk-test", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"  false \n"}]}`))
	}))
	defer srv.Close()

	a := NewAnthropic(AnthropicConfig{APIKey: "sk-test", BaseURL: srv.URL + "/"})
	text, err := a.Generate(context.Background(), Request{
		System:    "classify",
		Messages:  userSays("I draw my sword"),
		MaxTokens: 20,
	})

	require.NoError(t, err)
	assert.Equal(t, "false", text)
	assert.Equal(t, defaultAnthropicModel, got.Model)
	assert.Equal(t, 20, got.MaxTokens)
	assert.Equal(t, "classify", got.System)
	assert.Equal(t, userSays("I draw my sword"), got.Messages)
}

func TestAnthropicFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":{"message":"overloaded"}}`},
		{"malformed body", http.StatusOK, `{"content":`},
		{"api error", http.StatusOK, `{"error":{"message":"bad"}}`},
		{"no text", http.StatusOK, `{"content":[{"type":"tool_use"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			a := NewAnthropic(AnthropicConfig{APIKey: "sk-test", BaseURL: srv.URL})
			_, err := a.Generate(context.Background(), Request{Messages: userSays("hello")})
			assert.Error(t, err)
		})
	}
}

func TestAnthropicRejectsBadRequests(t *testing.T) {
	a := NewAnthropic(AnthropicConfig{})
	_, err := a.Generate(context.Background(), Request{Messages: userSays("hi")})
	assert.ErrorIs(t, err, ErrNoAPIKey)

	a = NewAnthropic(AnthropicConfig{APIKey: "k"})
	_, err = a.Generate(context.Background(), Request{})
	assert.Error(t, err)

	_, err = a.Generate(context.Background(), Request{Messages: []story.ChatMessage{{Role: story.RoleAssistant, Content: "x"}}})
	assert.Error(t, err)
}

func TestOffline(t *testing.T) {
	_, err := Offline{}.Generate(context.Background(), Request{Messages: userSays("hi")})
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestNewFallsBackToOffline(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LLM.APIKey = ""

	g, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, Offline{}, g)

	cfg.LLM.Provider = "anthropic"
	cfg.LLM.APIKey = "sk-test"
	g, err = New(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &Anthropic{}, g)

	cfg.LLM.Provider = "ouija"
	_, err = New(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestToContents(t *testing.T) {
	contents := toContents([]story.ChatMessage{
		{Role: story.RoleUser, Content: "who are you?"},
		{Role: story.RoleAssistant, Content: "I'm you."},
	})
	require.Len(t, contents, 2)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "model", contents[1].Role)
}

func TestGeneratorFunc(t *testing.T) {
	g := GeneratorFunc(func(_ context.Context, req Request) (string, error) {
		return req.System, nil
	})
	out, err := g.Generate(context.Background(), Request{System: "echo"})
	require.NoError(t, err)
	assert.Equal(t, "echo", out)
}
