package testutil

import (
	"database/sql"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

// PeopleSchema creates a small table used across package tests.
var PeopleSchema = []string{
	`CREATE TABLE people (id INTEGER PRIMARY KEY, name TEXT, age INTEGER, score REAL, avatar BLOB)`,
	`INSERT INTO people (name, age, score, avatar) VALUES ('alice', 30, 1.5, x'FFFE')`,
	`INSERT INTO people (name, age, score, avatar) VALUES ('bob', 25, NULL, NULL)`,
	`INSERT INTO people (name, age, score, avatar) VALUES ('carol', 41, 99.25, x'68656c6c6f')`,
}

// NewSQLiteFile creates a database file in a temporary directory, runs the
// given statements against it and returns its path.
func NewSQLiteFile(t testing.TB, statements ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	// An empty file is a valid database; touch it so it exists on disk.
	_, err = db.Exec("CREATE TABLE IF NOT EXISTS _fixture (x)")
	require.NoError(t, err)
	_, err = db.Exec("DROP TABLE _fixture")
	require.NoError(t, err)

	for _, stmt := range statements {
		_, err := db.Exec(stmt)
		require.NoError(t, err, "fixture statement: %s", stmt)
	}
	return path
}

// SeqSchema returns statements creating table nums holding the integers 1..n
// for n >= 1.
func SeqSchema(n int) []string {
	return []string{
		`CREATE TABLE nums (n INTEGER PRIMARY KEY, parity TEXT)`,
		`WITH RECURSIVE c(x) AS (SELECT 1 UNION ALL SELECT x + 1 FROM c WHERE x < ` + strconv.Itoa(n) + `)
		 INSERT INTO nums SELECT x, CASE x % 2 WHEN 0 THEN 'even' ELSE 'odd' END FROM c`,
	}
}
