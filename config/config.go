package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ValidProviders lists the LLM backends the game can talk to.
var ValidProviders = []string{"gemini", "anthropic", "offline"}

// Config holds every tunable of the game. A Config is built once at startup
// and handed to constructors; nothing mutates it afterwards.
type Config struct {
	LLM       LLMConfig       `yaml:"llm"`
	Combat    CombatConfig    `yaml:"combat"`
	Convent   ConventConfig   `yaml:"convent"`
	Hangman   HangmanConfig   `yaml:"hangman"`
	WhiteRoom WhiteRoomConfig `yaml:"white_room"`
	Offense   OffenseConfig   `yaml:"offense"`
	Timing    TimingConfig    `yaml:"timing"`
	Behavior  BehaviorConfig  `yaml:"behavior"`
	Storage   StorageConfig   `yaml:"storage"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LLMConfig configures the language model backend.
type LLMConfig struct {
	Provider           string `yaml:"provider"` // gemini, anthropic, offline
	APIKey             string `yaml:"api_key"`
	BaseURL            string `yaml:"base_url"`
	ClassifierModel    string `yaml:"classifier_model"`
	NarrativeModel     string `yaml:"narrative_model"`
	Timeout            string `yaml:"timeout"`
	ClassifierMaxToken int    `yaml:"classifier_max_tokens"`
	JSONMaxTokens      int    `yaml:"json_max_tokens"`
	NarrativeMaxTokens int    `yaml:"narrative_max_tokens"`
	HistoryLimit       int    `yaml:"history_limit"`
}

// CombatConfig shapes the dice model.
type CombatConfig struct {
	BaseWinRate       float64 `yaml:"base_win_rate"`
	CorruptionPenalty float64 `yaml:"corruption_penalty"`
	MinWinRate        float64 `yaml:"min_win_rate"`
	MinBonus          int     `yaml:"min_bonus"`
	DieSides          int     `yaml:"die_sides"`
}

type ConventConfig struct {
	MaxHP                 int     `yaml:"max_hp"`
	MaxExplorationTurns   int     `yaml:"max_exploration_turns"`
	MaxPotionsPerRoom     int     `yaml:"max_potions_per_room"`
	HealPotionChance      float64 `yaml:"heal_potion_chance"`
	PotionOfferCorruption int     `yaml:"potion_offer_corruption"`
	FleeFreeCorruption    int     `yaml:"flee_free_corruption"`
}

type HangmanConfig struct {
	MaxAttempts          int `yaml:"max_attempts"`
	TimeLimitSeconds     int `yaml:"time_limit_seconds"`
	ConfrontationAttempt int `yaml:"confrontation_attempt"`
}

type WhiteRoomConfig struct {
	MaxExplorationTurns int `yaml:"max_exploration_turns"`
}

// OffenseConfig controls meta-breaking escalation.
type OffenseConfig struct {
	Enabled         bool   `yaml:"enabled"`
	LockoutOffense  int    `yaml:"lockout_offense"`
	LockoutDuration string `yaml:"lockout_duration"`
	KilljoyLockouts int    `yaml:"killjoy_lockouts"`
}

// TimingConfig holds display delays in milliseconds.
type TimingConfig struct {
	First    int `yaml:"first"`
	Min      int `yaml:"min"`
	Max      int `yaml:"max"`
	Dramatic int `yaml:"dramatic"`
}

type BehaviorConfig struct {
	HesitationThreshold string `yaml:"hesitation_threshold"`
}

type StorageConfig struct {
	Driver    string `yaml:"driver"` // sqlite, memory
	Path      string `yaml:"path"`
	KeyPrefix string `yaml:"key_prefix"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:           "gemini",
			ClassifierModel:    "gemini-2.5-flash",
			NarrativeModel:     "gemini-2.5-flash",
			Timeout:            "30s",
			ClassifierMaxToken: 20,
			JSONMaxTokens:      100,
			NarrativeMaxTokens: 300,
			HistoryLimit:       10,
		},
		Combat: CombatConfig{
			BaseWinRate:       0.75,
			CorruptionPenalty: 0.10,
			MinWinRate:        0.15,
			MinBonus:          -5,
			DieSides:          20,
		},
		Convent: ConventConfig{
			MaxHP:                 2,
			MaxExplorationTurns:   10,
			MaxPotionsPerRoom:     1,
			HealPotionChance:      0.30,
			PotionOfferCorruption: 2,
			FleeFreeCorruption:    1,
		},
		Hangman: HangmanConfig{
			MaxAttempts:          6,
			TimeLimitSeconds:     50,
			ConfrontationAttempt: 3,
		},
		WhiteRoom: WhiteRoomConfig{
			MaxExplorationTurns: 8,
		},
		Offense: OffenseConfig{
			Enabled:         true,
			LockoutOffense:  3,
			LockoutDuration: "5m",
			KilljoyLockouts: 3,
		},
		Timing: TimingConfig{
			First:    1000,
			Min:      2000,
			Max:      3000,
			Dramatic: 4000,
		},
		Behavior: BehaviorConfig{
			HesitationThreshold: "15s",
		},
		Storage: StorageConfig{
			Driver:    "sqlite",
			Path:      "data/io73k.db",
			KeyPrefix: "io73k_",
		},
		Server: ServerConfig{
			Addr: "0.0.0.0:9779",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads a YAML config over the defaults, then the .env file and the
// environment. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "gemini"
	}
	for _, name := range []string{"CLAUDE_API_KEY", "ANTHROPIC_API_KEY"} {
		if key := os.Getenv(name); key != "" {
			c.LLM.APIKey = key
			c.LLM.Provider = "anthropic"
		}
	}
	if p := os.Getenv("IO73K_PROVIDER"); p != "" {
		c.LLM.Provider = p
	}
	if db := os.Getenv("IO73K_DB"); db != "" {
		c.Storage.Path = db
	}
	if addr := os.Getenv("IO73K_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if lvl := os.Getenv("IO73K_LOG_LEVEL"); lvl != "" {
		c.Logging.Level = lvl
	}
}

// Validate reports settings the engine cannot run with.
func (c *Config) Validate() error {
	valid := false
	for _, p := range ValidProviders {
		if c.LLM.Provider == p {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid LLM provider: %s (valid: %v)", c.LLM.Provider, ValidProviders)
	}
	if c.LLM.Provider != "offline" && c.LLM.APIKey == "" {
		return fmt.Errorf("LLM API key not configured (set GEMINI_API_KEY or ANTHROPIC_API_KEY, or use provider offline)")
	}

	cb := c.Combat
	if cb.MinWinRate < 0 || cb.MinWinRate > 1 || cb.BaseWinRate < 0 || cb.BaseWinRate > 1 {
		return fmt.Errorf("combat win rates must be within [0,1]")
	}
	if cb.MinWinRate > cb.BaseWinRate {
		return fmt.Errorf("combat min_win_rate %.2f exceeds base_win_rate %.2f", cb.MinWinRate, cb.BaseWinRate)
	}
	if cb.DieSides < 2 {
		return fmt.Errorf("combat die_sides must be at least 2")
	}

	caps := map[string]int{
		"convent.max_hp":                   c.Convent.MaxHP,
		"convent.max_exploration_turns":    c.Convent.MaxExplorationTurns,
		"hangman.max_attempts":             c.Hangman.MaxAttempts,
		"white_room.max_exploration_turns": c.WhiteRoom.MaxExplorationTurns,
		"offense.lockout_offense":          c.Offense.LockoutOffense,
	}
	for name, v := range caps {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, v)
		}
	}

	for name, d := range map[string]string{
		"llm.timeout":                   c.LLM.Timeout,
		"offense.lockout_duration":      c.Offense.LockoutDuration,
		"behavior.hesitation_threshold": c.Behavior.HesitationThreshold,
	} {
		if _, err := time.ParseDuration(d); err != nil {
			return fmt.Errorf("invalid duration for %s: %w", name, err)
		}
	}

	switch c.Storage.Driver {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("invalid storage driver: %s", c.Storage.Driver)
	}
	return nil
}

// LLMTimeout returns the per-call timeout, falling back to 30s.
func (c *Config) LLMTimeout() time.Duration {
	return parseDuration(c.LLM.Timeout, 30*time.Second)
}

// LockoutDuration returns how long a meta-breaking lockout lasts.
func (c *Config) LockoutDuration() time.Duration {
	return parseDuration(c.Offense.LockoutDuration, 5*time.Minute)
}

// HesitationThreshold returns the response time above which a reply counts
// as a hesitation.
func (c *Config) HesitationThreshold() time.Duration {
	return parseDuration(c.Behavior.HesitationThreshold, 15*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
