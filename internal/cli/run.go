package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/leapstack-labs/rivet/internal/cli/config"
	"github.com/leapstack-labs/rivet/internal/pipeline"
	"github.com/leapstack-labs/rivet/internal/session"
	"github.com/leapstack-labs/rivet/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// mode is the front end a run uses.
type mode int

const (
	modeTUI mode = iota
	modePlain
	modeExecute
)

func (m mode) String() string {
	switch m {
	case modePlain:
		return "plain"
	case modeExecute:
		return "execute"
	default:
		return "tui"
	}
}

// chooseMode picks the front end. The full-screen interface needs a
// terminal on both ends.
func chooseMode(cfg *config.Config, execute string, interactive bool) mode {
	switch {
	case execute != "":
		return modeExecute
	case cfg.Plain || !interactive:
		return modePlain
	default:
		return modeTUI
	}
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// run opens the database, drives the chosen front end and closes the
// session with the configured exit policy.
func (a *app) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := config.GetLogger(ctx)
	defer func() { _ = a.logCloser.Close() }()

	sess, err := session.Open(ctx, args[0], a.cfg.ReadOnly, session.WithLogger(logger))
	if err != nil {
		return err
	}

	p := pipeline.New(sess,
		pipeline.WithPageSize(a.cfg.PageSize),
		pipeline.WithInputLimit(a.cfg.InputLimit),
		pipeline.WithHistoryLimit(a.cfg.HistoryLimit),
		pipeline.WithLogger(logger),
	)
	logger.Debug("front end selected", "mode", a.mode.String())

	var runErr error
	switch a.mode {
	case modeExecute:
		o := p.SubmitLine(ctx, a.execute)
		runErr = show(ctx, p, o, a.cfg.Output, cmd.OutOrStdout())
	case modePlain:
		runErr = a.plain(ctx, cmd, p)
	default:
		tui.ConfigureColor(a.cfg.Color)
		runErr = tui.Run(ctx, p, tui.Options{
			Theme:         a.cfg.Theme,
			NotifyTimeout: a.cfg.NotifyTimeout,
			LogLines:      a.cfg.LogLines,
			OnExit:        a.cfg.ExitPolicy(),
			Logger:        logger,
		})
	}

	return errors.Join(runErr, closeSession(ctx, sess, a.cfg.ExitPolicy(), a.mode, cmd.ErrOrStderr()))
}

func (a *app) plain(ctx context.Context, cmd *cobra.Command, p *pipeline.Pipeline) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	var (
		r   lineReader
		err error
	)
	if a.interactive {
		r, err = newReadline(ctx, p.Session(), out, errOut)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "%s %s (database: %s)\n", tui.AppName, Version, p.Session().Path())
		_, _ = fmt.Fprintln(out, "Type .help for commands, .quit to exit")
	} else {
		r = newScanReader(cmd.InOrStdin())
	}
	defer func() { _ = r.Close() }()

	return repl(ctx, p, r, a.cfg.Output, out, errOut)
}

// closeSession ends the session. Outside the full-screen interface, which
// shows the pending count before quitting, staged changes that the policy
// discards are reported on w.
func closeSession(ctx context.Context, sess *session.Session, policy session.ExitPolicy, m mode, w io.Writer) error {
	if n := sess.Pending(); n > 0 && policy == session.ExitRollback && m != modeTUI {
		_, _ = fmt.Fprintf(w, "%d staged changes rolled back (save with .save or use --on-exit commit)\n", n)
	}
	if err := sess.Close(ctx, policy); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
