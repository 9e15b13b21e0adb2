package main

import (
	"bytes"
	"testing"

	"github.com/leapstack-labs/rivet/internal/cli"
	"github.com/leapstack-labs/rivet/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cmd := cli.NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(bytes.NewBufferString(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersionFlag(t *testing.T) {
	out, _, err := run(t, "", "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "rivet "+cli.Version)
}

func TestExecute(t *testing.T) {
	path := testutil.NewSQLiteFile(t, testutil.PeopleSchema...)

	out, _, err := run(t, "", "-o", "csv", "-e", "SELECT name, age FROM people ORDER BY id", path)
	require.NoError(t, err)
	assert.Equal(t, "name,age\nalice,30\nbob,25\ncarol,41\n", out)
}

func TestExitCodes(t *testing.T) {
	_, _, err := run(t, "")
	require.Error(t, err)
	assert.Equal(t, 2, cli.ExitCode(err))

	_, _, err = run(t, "", "--page-size", "lots", "x.db")
	require.Error(t, err)
	assert.Equal(t, 2, cli.ExitCode(err))

	_, _, err = run(t, "", "missing.db")
	require.Error(t, err)
	assert.Equal(t, 1, cli.ExitCode(err))

	assert.Equal(t, 0, cli.ExitCode(nil))
}
