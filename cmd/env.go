package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyplan/internal/coach"
	"github.com/abhisek/studyplan/internal/config"
	"github.com/abhisek/studyplan/internal/llm"
	"github.com/abhisek/studyplan/internal/logger"
	"github.com/abhisek/studyplan/internal/planner"
	"github.com/abhisek/studyplan/internal/store"
)

// env is everything a command needs, built from config and flags.
type env struct {
	cfg    config.Config
	log    *logger.Logger
	svc    *planner.Service
	events store.EventRepo
	// provider is nil when no LLM is configured.
	provider llm.Provider

	closers []func() error
}

type envOptions struct {
	// logLevel overrides the config default when the flag is unset.
	logLevel string
	// quiet discards logs unless a log file is configured, for the TUI.
	quiet bool
	// withLLM builds the coach's provider.
	withLLM bool
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, os.Getenv)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if v, _ := flags.GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if v, _ := flags.GetString("store"); v != "" {
		cfg.Store = v
	}
	if v, _ := flags.GetString("session"); v != "" {
		cfg.SessionKey = v
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config, opts envOptions) (*logger.Logger, error) {
	level := cfg.Log.Level
	if opts.logLevel != "" && os.Getenv("STUDYPLAN_LOG_LEVEL") == "" {
		level = opts.logLevel
	}
	switch {
	case cfg.Log.File != "":
		return logger.New(cfg.Log.Mode, level, cfg.Log.File)
	case opts.quiet:
		return logger.Nop(), nil
	}
	return logger.New(cfg.Log.Mode, level)
}

// resolveDBPath returns the configured database path, falling back to the
// default XDG location.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// setup opens the configured stores and builds the planner service.
func setup(cmd *cobra.Command, opts envOptions) (*env, error) {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	e := &env{cfg: cfg, log: log}
	var sessions store.SessionRepo
	switch cfg.Store {
	case config.StoreSQLite:
		dbPath, err := resolveDBPath(cfg)
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		e.closers = append(e.closers, st.Close)
		sessions, e.events = st.SessionRepo(), st.EventRepo()
	case config.StoreRedis:
		rdb, err := store.OpenRedis(ctx, store.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("open redis: %w", err)
		}
		e.closers = append(e.closers, rdb.Close)
		sessions = rdb
	case config.StoreMemory:
		sessions = store.NewMemorySessionRepo()
	}

	svcOpts := []planner.Option{planner.WithLogger(log)}
	if e.events != nil {
		svcOpts = append(svcOpts, planner.WithEvents(e.events))
	}
	e.svc, err = planner.New(ctx, sessions, cfg.SessionKey, svcOpts...)
	if err != nil {
		e.Close()
		return nil, err
	}

	if opts.withLLM {
		e.provider, err = llm.NewProvider(ctx, cfg.LLM, e.events, log)
		if err != nil {
			log.Warn("llm provider unavailable, coach will use built-in advice", "error", err)
			e.provider = nil
		}
	}
	return e, nil
}

func (e *env) coach() *coach.Coach {
	return coach.New(e.provider, coach.DefaultConfig(), e.log)
}

// requireEvents fails when the store has no event log.
func (e *env) requireEvents() (store.EventRepo, error) {
	if e.events == nil {
		return nil, errors.New("the event log is only kept by the sqlite store")
	}
	return e.events, nil
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			e.log.Warn("close failed", "error", err)
		}
	}
	e.log.Sync()
}
