// Package config loads rivet's settings from defaults, a YAML file, RIVET_
// environment variables and command-line flags, in that order of precedence.
package config

import (
	"log/slog"
	"time"

	"github.com/leapstack-labs/rivet/internal/session"
)

// Config holds all CLI configuration options.
type Config struct {
	ReadOnly      bool          `koanf:"read_only"`
	PageSize      int           `koanf:"page_size"`
	HistoryLimit  int           `koanf:"history_limit"`
	InputLimit    int           `koanf:"input_limit"`
	LogLines      int           `koanf:"log_lines"`
	OnExit        string        `koanf:"on_exit"`
	Theme         string        `koanf:"theme"`
	Color         bool          `koanf:"color"`
	NotifyTimeout time.Duration `koanf:"notify_timeout"`
	Output        string        `koanf:"output"`
	Plain         bool          `koanf:"plain"`
	LogFile       string        `koanf:"log_file"`
	LogLevel      string        `koanf:"log_level"`
	Verbose       bool          `koanf:"verbose"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultPageSize      = 500
	DefaultHistoryLimit  = 100
	DefaultInputLimit    = 2048
	DefaultLogLines      = 1000
	DefaultOnExit        = "rollback"
	DefaultTheme         = "nord"
	DefaultNotifyTimeout = 5 * time.Second
	DefaultOutput        = OutputTable
	DefaultLogLevel      = "warn"
)

// Output formats for --execute and the plain REPL.
const (
	OutputTable    = "table"
	OutputJSON     = "json"
	OutputCSV      = "csv"
	OutputMarkdown = "markdown"
	OutputYAML     = "yaml"
)

// Outputs lists the accepted output formats.
var Outputs = []string{OutputTable, OutputJSON, OutputCSV, OutputMarkdown, OutputYAML}

// LogLevels lists the accepted log levels.
var LogLevels = []string{"debug", "info", "warn", "error"}

// ExitPolicy returns the parsed on_exit value. Validate must have passed.
func (c *Config) ExitPolicy() session.ExitPolicy {
	p, _ := session.ParseExitPolicy(c.OnExit)
	return p
}

// Level returns the slog level for log_level; verbose forces debug.
func (c *Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
