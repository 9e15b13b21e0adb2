package cli

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/rivet/internal/cli/config"
	"github.com/leapstack-labs/rivet/internal/session"
	"github.com/leapstack-labs/rivet/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

type result struct {
	out, errOut string
	err         error
}

func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(bytes.NewBufferString(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return result{out: out.String(), errOut: errOut.String(), err: err}
}

func countPeople(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var n int
	require.NoError(t, db.QueryRow("SELECT count(*) FROM people").Scan(&n))
	return n
}

func TestRun_Execute(t *testing.T) {
	path := testutil.NewSQLiteFile(t, testutil.PeopleSchema...)

	r := execute(t, "", "-e", "SELECT name FROM people WHERE id = 2", "-o", "markdown", path)
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "| name |")
	assert.Contains(t, r.out, "| bob |")
}

func TestRun_ExecuteAllPages(t *testing.T) {
	path := testutil.NewSQLiteFile(t, testutil.SeqSchema(25)...)

	r := execute(t, "", "--page-size", "10", "-o", "json", "-e", "SELECT n FROM nums", path)
	require.NoError(t, r.err)

	var rows []map[string]string
	require.NoError(t, json.Unmarshal([]byte(r.out), &rows))
	assert.Len(t, rows, 25)
}

func TestRun_ExecuteErrors(t *testing.T) {
	path := testutil.NewSQLiteFile(t, testutil.PeopleSchema...)

	r := execute(t, "", "-e", "SELECT * FROM nope", path)
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "no such table: nope")
	assert.Equal(t, 1, ExitCode(r.err))

	r = execute(t, "", "-r", "-e", "DELETE FROM people", path)
	require.Error(t, r.err)
	assert.ErrorContains(t, r.err, "attempted a write operation (DELETE) on a read only database")
	assert.Equal(t, 3, countPeople(t, path))
}

func TestRun_ExitPolicy(t *testing.T) {
	t.Run("rollback by default", func(t *testing.T) {
		path := testutil.NewSQLiteFile(t, testutil.PeopleSchema...)

		r := execute(t, "", "-e", "DELETE FROM people WHERE id = 1", path)
		require.NoError(t, r.err)
		assert.Equal(t, "1 changes.\n", r.out)
		assert.Contains(t, r.errOut, "1 staged changes rolled back")
		assert.Equal(t, 3, countPeople(t, path))
	})

	t.Run("commit", func(t *testing.T) {
		path := testutil.NewSQLiteFile(t, testutil.PeopleSchema...)

		r := execute(t, "", "--on-exit", "commit", "-e", "DELETE FROM people WHERE id = 1", path)
		require.NoError(t, r.err)
		assert.NotContains(t, r.errOut, "rolled back")
		assert.Equal(t, 2, countPeople(t, path))
	})
}

func TestRun_PipedInputUsesPlainREPL(t *testing.T) {
	path := testutil.NewSQLiteFile(t, testutil.PeopleSchema...)
	stdin := "SELECT name FROM people ORDER BY id\n" +
		"DELETE FROM people WHERE age < 30\n" +
		".save\n" +
		".status\n" +
		".quit\n" +
		"DELETE FROM people\n"

	r := execute(t, stdin, "-o", "csv", path)
	require.NoError(t, r.err)

	assert.Contains(t, r.out, "name\nalice\nbob\ncarol\n")
	assert.Contains(t, r.out, "1 changes.\n")
	assert.Contains(t, r.out, "Changes to database saved successfully.\n")
	assert.Contains(t, r.out, "pending: 0")
	assert.NotContains(t, r.out, "rivet> ")
	assert.Equal(t, 2, countPeople(t, path))
}

func TestRun_StartupErrors(t *testing.T) {
	dir := t.TempDir()

	r := execute(t, "", filepath.Join(dir, "missing.db"))
	require.Error(t, r.err)
	var startup *session.StartupError
	assert.ErrorAs(t, r.err, &startup)
	assert.Equal(t, 1, ExitCode(r.err))

	bogus := filepath.Join(dir, "bogus.db")
	require.NoError(t, os.WriteFile(bogus, []byte("this is not a database file at all, not even close"), 0o600))
	r = execute(t, "", bogus)
	require.Error(t, r.err)
	assert.ErrorAs(t, r.err, &startup)
}

func TestRun_UsageErrors(t *testing.T) {
	path := testutil.NewSQLiteFile(t, testutil.PeopleSchema...)

	tests := []struct {
		name string
		args []string
	}{
		{name: "no database", args: nil},
		{name: "two databases", args: []string{path, path}},
		{name: "unknown flag", args: []string{"--frobnicate", path}},
		{name: "bad int", args: []string{"--page-size", "many", path}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := execute(t, "", tt.args...)
			require.Error(t, r.err)
			assert.Equal(t, 2, ExitCode(r.err))
		})
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	path := testutil.NewSQLiteFile(t, testutil.PeopleSchema...)

	r := execute(t, "", "--theme", "neon", "-e", "SELECT 1", path)
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "unknown theme")
	assert.Equal(t, 1, ExitCode(r.err))
}

func TestRun_LogFile(t *testing.T) {
	path := testutil.NewSQLiteFile(t, testutil.PeopleSchema...)
	logPath := filepath.Join(t.TempDir(), "rivet.log")

	r := execute(t, "", "--log-file", logPath, "-v", "-e", "SELECT 1", path)
	require.NoError(t, r.err)
	assert.Empty(t, r.errOut)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "session_id=")
	assert.Contains(t, string(data), "level=DEBUG")
}

func TestRun_Completion(t *testing.T) {
	r := execute(t, "", "completion", "bash")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "rivet")
}

func TestChooseMode(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.Config
		execute     string
		interactive bool
		want        mode
	}{
		{name: "terminal", interactive: true, want: modeTUI},
		{name: "piped", interactive: false, want: modePlain},
		{name: "plain flag", cfg: config.Config{Plain: true}, interactive: true, want: modePlain},
		{name: "execute wins", cfg: config.Config{Plain: true}, execute: "SELECT 1", interactive: true, want: modeExecute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chooseMode(&tt.cfg, tt.execute, tt.interactive))
		})
	}
}

func TestNewLogger(t *testing.T) {
	var stderr bytes.Buffer
	cfg := &config.Config{LogLevel: "info"}

	logger, closer, err := newLogger(cfg, modeTUI, &stderr)
	require.NoError(t, err)
	logger.Error("hidden")
	assert.Empty(t, stderr.String())
	assert.NoError(t, closer.Close())

	logger, _, err = newLogger(cfg, modePlain, &stderr)
	require.NoError(t, err)
	logger.Debug("too quiet")
	logger.Info("opened")
	assert.NotContains(t, stderr.String(), "too quiet")
	assert.Contains(t, stderr.String(), "msg=opened")
	assert.Contains(t, stderr.String(), "session_id=")

	cfg.LogFile = filepath.Join(t.TempDir(), "missing", "rivet.log")
	_, _, err = newLogger(cfg, modePlain, &stderr)
	assert.ErrorContains(t, err, "failed to open log file")
}
