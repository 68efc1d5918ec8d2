// Package config resolves studyplan settings from defaults, an optional
// YAML file, and STUDYPLAN_* environment variables. Command-line flags are
// applied on top by the cmd package.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/studyplan/internal/llm"
)

// Session store backends.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

const DefaultSessionKey = "default"

type Config struct {
	// DBPath is the SQLite file. Empty means store.DefaultDBPath.
	DBPath     string      `yaml:"db_path"`
	Store      string      `yaml:"store"`
	SessionKey string      `yaml:"session"`
	Redis      RedisConfig `yaml:"redis"`
	Log        LogConfig   `yaml:"log"`
	Serve      ServeConfig `yaml:"serve"`
	LLM        llm.Config  `yaml:"llm"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type LogConfig struct {
	Mode  string `yaml:"mode"`
	Level string `yaml:"level"`
	// File receives log output instead of stderr when set.
	File string `yaml:"file"`
}

type ServeConfig struct {
	Addr         string   `yaml:"addr"`
	AllowOrigins []string `yaml:"allow_origins"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Store:      StoreSQLite,
		SessionKey: DefaultSessionKey,
		Redis:      RedisConfig{Addr: "localhost:6379", Prefix: "studyplan:session:"},
		Log:        LogConfig{Mode: "dev", Level: "warn"},
		Serve:      ServeConfig{Addr: ":8080", AllowOrigins: []string{"*"}},
		LLM:        llm.DefaultConfig(),
	}
}

// Load builds the configuration. path is an explicit config file and must
// exist when given; otherwise STUDYPLAN_CONFIG and then the XDG location
// are tried, and a missing file there is not an error.
func Load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = getenv("STUDYPLAN_CONFIG")
		explicit = path != ""
	}
	if !explicit {
		path = DefaultPath(getenv)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decode(bytes.NewReader(data), &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// DefaultPath is $XDG_CONFIG_HOME/studyplan/config.yaml, falling back to
// ~/.config. It returns "" when no home directory can be found.
func DefaultPath(getenv func(string) string) string {
	dir := getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "studyplan", "config.yaml")
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.DBPath, "STUDYPLAN_DB")
	set(&c.Store, "STUDYPLAN_STORE")
	set(&c.SessionKey, "STUDYPLAN_SESSION")
	set(&c.Redis.Addr, "STUDYPLAN_REDIS_ADDR")
	set(&c.Redis.Password, "STUDYPLAN_REDIS_PASSWORD")
	set(&c.Log.Mode, "STUDYPLAN_LOG_MODE")
	set(&c.Log.Level, "STUDYPLAN_LOG_LEVEL")
	set(&c.Log.File, "STUDYPLAN_LOG_FILE")
	set(&c.Serve.Addr, "STUDYPLAN_ADDR")

	if v := getenv("STUDYPLAN_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("STUDYPLAN_REDIS_DB: %w", err)
		}
		c.Redis.DB = n
	}
	if v := getenv("STUDYPLAN_ALLOW_ORIGINS"); v != "" {
		c.Serve.AllowOrigins = strings.Split(v, ",")
	}

	c.LLM.ApplyEnv(getenv)
	return nil
}

// Validate rejects settings no backend can honor.
func (c Config) Validate() error {
	switch c.Store {
	case StoreSQLite, StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("unknown store %q (want sqlite, redis or memory)", c.Store)
	}
	if c.SessionKey == "" {
		return fmt.Errorf("session key must not be empty")
	}
	return c.LLM.Validate()
}
