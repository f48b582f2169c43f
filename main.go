package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"io73k/ai"
	"io73k/classify"
	"io73k/config"
	"io73k/handlers"
	"io73k/lockout"
	"io73k/logging"
	"io73k/profile"
	"io73k/session"
	"io73k/storage"
	"io73k/unlock"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "io73k",
	Short: "Three trials, narrated by a demon who is enjoying this far too much",
	Long: `io73k is a narrative horror game played in a chat window.

A knight clears a convent of monsters, a lawyer defends a condemned man,
and a prisoner faces their own double in a white room. Paimon narrates,
remembers how you behaved, and does not like being reminded it is a game.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if cfg.LLM.Provider != "offline" && cfg.LLM.APIKey == "" {
			cfg.LLM.Provider = "offline"
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		logger, err = logging.New(cfg.Logging, verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the game over HTTP",
	RunE:  runServe,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored profile, lockout and unlocks",
	RunE:  runStatus,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the player profile",
	Long: `Forgets the player profile. With --all, achievements, the codex,
any active lockout and the lockout count are cleared too.`,
	RunE: runReset,
}

var resetAll bool

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "io73k.yaml", "path to the YAML config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	resetCmd.Flags().BoolVar(&resetAll, "all", false, "also clear unlocks and lockouts")

	rootCmd.AddCommand(serveCmd, playCmd, statusCmd, resetCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app is everything a command needs, built from the loaded config.
type app struct {
	kv           storage.KV
	achievements *unlock.Registry
	codex        *unlock.Registry
	lockouts     *lockout.Store
	tally        *lockout.Counter
	profiles     *profile.KVStore
	manager      *session.Manager

	closers []func() error
}

func openApp(ctx context.Context) (*app, error) {
	a := &app{}

	switch cfg.Storage.Driver {
	case "memory":
		a.kv = storage.NewMemory()
	default:
		db, err := storage.OpenSQLite(cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		a.kv = db
		a.closers = append(a.closers, db.Close)
	}
	if cfg.Storage.KeyPrefix != "" {
		a.kv = storage.WithPrefix(cfg.Storage.KeyPrefix, a.kv)
	}

	gen, err := ai.New(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create language model client: %w", err)
	}
	if c, ok := gen.(ai.Closer); ok {
		a.closers = append(a.closers, c.Close)
	}

	a.achievements = unlock.NewAchievements(a.kv, logger)
	a.codex = unlock.NewCodex(a.kv, logger)
	a.lockouts = lockout.NewStore(a.kv, cfg.LockoutDuration(), logger)
	a.tally = lockout.NewCounter(a.kv, logger)
	a.profiles = profile.NewKVStore(a.kv, logger)
	a.manager = session.NewManager(session.Deps{
		Config:       cfg,
		Logger:       logger,
		Classifier:   classify.New(gen, cfg.LLM, logger),
		Profiles:     a.profiles,
		Lockouts:     a.lockouts,
		Tally:        a.tally,
		Achievements: a.achievements,
		Codex:        a.codex,
	})
	return a, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn("failed to close", zap.Error(err))
		}
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	h := &handlers.Handler{
		Manager:      a.manager,
		Achievements: a.achievements,
		Codex:        a.codex,
		MaxHP:        cfg.Convent.MaxHP,
		Title:        "Paimon",
		Logger:       logger.Named("http"),
	}

	mux := http.NewServeMux()
	fs := http.FileServer(http.Dir("./static"))
	mux.Handle("/static/", http.StripPrefix("/static/", fs))
	mux.Handle("/assets/", fs)
	h.Register(mux)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", "http://"+cfg.Server.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	printStatus(cmd.OutOrStdout(), a, time.Now())
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	a.manager.Reset(resetAll)
	if resetAll {
		fmt.Fprintln(cmd.OutOrStdout(), "Profile, unlocks and lockouts cleared.")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Profile cleared.")
	}
	return nil
}
