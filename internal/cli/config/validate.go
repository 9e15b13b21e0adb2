package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/rivet/internal/session"
	"github.com/leapstack-labs/rivet/internal/tui"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	limits := []struct {
		key   string
		value int
	}{
		{"page_size", c.PageSize},
		{"history_limit", c.HistoryLimit},
		{"input_limit", c.InputLimit},
		{"log_lines", c.LogLines},
	}
	for _, l := range limits {
		if l.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", l.key, l.value)
		}
	}

	if c.NotifyTimeout <= 0 {
		return fmt.Errorf("notify_timeout must be positive, got %s", c.NotifyTimeout)
	}
	if _, err := session.ParseExitPolicy(c.OnExit); err != nil {
		return fmt.Errorf("on_exit: %w", err)
	}
	if _, ok := tui.LookupTheme(c.Theme); !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", c.Theme, strings.Join(tui.ThemeNames(), ", "))
	}
	if !slices.Contains(Outputs, c.Output) {
		return fmt.Errorf("unknown output format %q (available: %s)", c.Output, strings.Join(Outputs, ", "))
	}
	if !slices.Contains(LogLevels, c.LogLevel) {
		return fmt.Errorf("unknown log level %q (available: %s)", c.LogLevel, strings.Join(LogLevels, ", "))
	}
	return nil
}
