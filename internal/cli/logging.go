package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/leapstack-labs/rivet/internal/cli/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newLogger builds the process logger. Output goes to log_file when set,
// to stderr in the line-oriented modes, and nowhere under the full-screen
// interface, which owns the terminal.
func newLogger(cfg *config.Config, m mode, stderr io.Writer) (*slog.Logger, io.Closer, error) {
	var (
		w      io.Writer
		closer io.Closer = nopCloser{}
	)
	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w, closer = f, f
	case m == modeTUI:
		return slog.New(slog.DiscardHandler), closer, nil
	default:
		w = stderr
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.Level()})
	return slog.New(handler).With("session_id", uuid.NewString()), closer, nil
}
