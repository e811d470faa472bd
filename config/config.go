// Package config loads the process configuration: a YAML file supplies
// the starting values, environment variables override whatever they
// name, and struct tags validate the merged result.
package config

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the full set of knobs the controller, dispatcher and seed
// binaries read. Field names mirror the env keys directly.
//
// Fields intentionally carry no envDefault tag: caarlos0/env applies an
// envDefault whenever its variable is unset, which would stomp on a value
// already loaded from YAML. defaults() below fills the same gaps before
// the YAML file is even read, so env.Parse only ever touches a field when
// its variable is actually present in the environment.
type Config struct {
	LogDir string `yaml:"log_dir" env:"LOG_DIR" validate:"required"`

	PGDB     string `yaml:"pg_db" env:"PG_DB" validate:"required"`
	PGUser   string `yaml:"pg_user" env:"PG_USER" validate:"required"`
	PGSecret string `yaml:"pg_secret" env:"PG_SECRET" validate:"required"`
	PGHost   string `yaml:"pg_host" env:"PG_HOST" validate:"required"`
	PGPort   string `yaml:"pg_port" env:"PG_PORT" validate:"required"`

	// BearerToken is for leaf scripts reading the same config file; the
	// core carries it but never reads or forwards it.
	BearerToken string `yaml:"bearer_token" env:"BEARER_TOKEN"`

	WorkerCount     int    `yaml:"worker_count" env:"WORKER_COUNT" validate:"min=1,max=100"`
	FlowTickSec     int    `yaml:"flow_tick_sec" env:"FLOW_TICK_SEC" validate:"min=1"`
	DispatchTickSec int    `yaml:"dispatch_tick_sec" env:"DISPATCH_TICK_SEC" validate:"min=1"`
	MetricsPort     string `yaml:"metrics_port" env:"METRICS_PORT"`
	BuildTool       string `yaml:"build_tool" env:"BUILD_TOOL" validate:"required"`

	Env      string `yaml:"env" env:"ENV" validate:"required,oneof=local staging production"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" validate:"required,oneof=debug info warn error"`

	// Path is the --config value this process was started with. Workers
	// forward it to child scripts so the whole tree reads one file.
	Path string `yaml:"-" env:"-"`
}

func defaults() *Config {
	return &Config{
		LogDir:          "./logs",
		PGPort:          "5432",
		WorkerCount:     8,
		FlowTickSec:     600,
		DispatchTickSec: 600,
		MetricsPort:     "9090",
		BuildTool:       "cargo",
		Env:             "local",
		LogLevel:        "info",
	}
}

// Load parses --config/-c (required), unmarshals it over the
// built-in defaults, lets environment variables override whatever they
// name, and validates the merged result.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("flowcore", flag.ContinueOnError)
	var path string
	fs.StringVar(&path, "config", "", "path to the YAML config file")
	fs.StringVar(&path, "c", "", "path to the YAML config file (shorthand)")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	if path == "" {
		return nil, fmt.Errorf("--config/-c is required")
	}

	cfg := defaults()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.Path = path
	return cfg, nil
}

// SlogLevel converts LogLevel to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
