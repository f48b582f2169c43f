package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 0.75, cfg.Combat.BaseWinRate)
	assert.Equal(t, 0.15, cfg.Combat.MinWinRate)
	assert.Equal(t, 2, cfg.Convent.MaxHP)
	assert.Equal(t, 6, cfg.Hangman.MaxAttempts)
	assert.Equal(t, 5*time.Minute, cfg.LockoutDuration())
	assert.Equal(t, "io73k_", cfg.Storage.KeyPrefix)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("CLAUDE_API_KEY", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Convent, cfg.Convent)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "io73k.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
convent:
  max_hp: 3
offense:
  lockout_duration: 90s
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Convent.MaxHP)
	assert.Equal(t, 10, cfg.Convent.MaxExplorationTurns, "unset keys keep defaults")
	assert.Equal(t, 90*time.Second, cfg.LockoutDuration())
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("convent: [unterminated"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("CLAUDE_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("IO73K_DB", "/tmp/game.db")
	t.Setenv("IO73K_ADDR", "127.0.0.1:8080")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "/tmp/game.db", cfg.Storage.Path)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("CLAUDE_API_KEY", "")

	path := filepath.Join(t.TempDir(), "nested", "io73k.yaml")
	cfg := DefaultConfig()
	cfg.WhiteRoom.MaxExplorationTurns = 4
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.WhiteRoom.MaxExplorationTurns)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"offline needs no key", func(c *Config) { c.LLM.Provider = "offline" }, false},
		{"missing key", func(c *Config) { c.LLM.Provider = "gemini"; c.LLM.APIKey = "" }, true},
		{"unknown provider", func(c *Config) { c.LLM.Provider = "ouija" }, true},
		{"min above base", func(c *Config) { c.LLM.Provider = "offline"; c.Combat.MinWinRate = 0.9 }, true},
		{"zero attempts", func(c *Config) { c.LLM.Provider = "offline"; c.Hangman.MaxAttempts = 0 }, true},
		{"bad duration", func(c *Config) { c.LLM.Provider = "offline"; c.Offense.LockoutDuration = "soon" }, true},
		{"bad driver", func(c *Config) { c.LLM.Provider = "offline"; c.Storage.Driver = "redis" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDurationFallbacks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM.Timeout = "nonsense"
	cfg.Behavior.HesitationThreshold = "-1s"

	assert.Equal(t, 30*time.Second, cfg.LLMTimeout())
	assert.Equal(t, 15*time.Second, cfg.HesitationThreshold())
}
