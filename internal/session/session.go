// Package session owns the connection to a SQLite database file and the single
// transaction that every write joins until it is committed or rolled back.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)

	"github.com/leapstack-labs/rivet/internal/sqlscan"
)

// ExitPolicy decides what happens to an open transaction on Close.
type ExitPolicy int

const (
	// ExitRollback discards staged changes.
	ExitRollback ExitPolicy = iota
	// ExitCommit saves staged changes.
	ExitCommit
)

// ParseExitPolicy maps "rollback" and "commit" to a policy.
func ParseExitPolicy(s string) (ExitPolicy, error) {
	switch strings.ToLower(s) {
	case "", "rollback":
		return ExitRollback, nil
	case "commit":
		return ExitCommit, nil
	default:
		return ExitRollback, fmt.Errorf("unknown exit policy %q (want rollback or commit)", s)
	}
}

func (p ExitPolicy) String() string {
	if p == ExitCommit {
		return "commit"
	}
	return "rollback"
}

// Session is a connection to one database file.
//
// All statements run on a single pinned connection so that BEGIN, the
// statements that follow and the final COMMIT see the same transaction.
// A Session is not safe for concurrent use.
type Session struct {
	db     *sql.DB
	conn   *sql.Conn
	logger *slog.Logger
	path   string

	readOnly bool
	txActive bool
	pending  int
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// WithPath records the path the database was opened from.
func WithPath(path string) Option {
	return func(s *Session) {
		s.path = path
	}
}

var dsnEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

// Open opens the SQLite file at path. It fails with a *StartupError if the
// file is missing, is a directory, is not a database, or is write-protected
// while readOnly is false.
func Open(ctx context.Context, path string, readOnly bool, opts ...Option) (*Session, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &StartupError{Path: path, Message: fmt.Sprintf("unable to open %s", path), Err: err}
	}
	if info.IsDir() {
		return nil, &StartupError{Path: path, Message: fmt.Sprintf("unable to open %s: is a directory", path)}
	}

	if !readOnly && !writable(path) {
		return nil, &StartupError{
			Path:    path,
			Message: fmt.Sprintf("unable to open %s in write mode: %s is a read only database", path, path),
		}
	}

	mode := "rw"
	if readOnly {
		mode = "ro"
	}
	db, err := sql.Open("sqlite", "file:"+dsnEscaper.Replace(path)+"?mode="+mode)
	if err != nil {
		return nil, &StartupError{Path: path, Message: fmt.Sprintf("unable to open %s", path), Err: err}
	}

	s, err := New(ctx, db, readOnly, append([]Option{WithPath(path)}, opts...)...)
	if err != nil {
		_ = db.Close()
		return nil, &StartupError{Path: path, Message: fmt.Sprintf("unable to open %s", path), Err: err}
	}

	var n int
	if err := s.conn.QueryRowContext(ctx, "SELECT count(*) FROM sqlite_master").Scan(&n); err != nil {
		_ = s.close()
		return nil, &StartupError{Path: path, Message: fmt.Sprintf("unable to open %s: not a SQLite database", path), Err: err}
	}

	s.logger.Info("database opened", "path", path, "read_only", readOnly, "objects", n)
	return s, nil
}

// writable reports whether the file can be opened for writing.
func writable(path string) bool {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// New wraps an already opened database. The pool is capped at one connection,
// which the session pins for its lifetime.
func New(ctx context.Context, db *sql.DB, readOnly bool, opts ...Option) (*Session, error) {
	s := &Session{db: db, readOnly: readOnly}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}

	db.SetMaxOpenConns(1)
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	s.conn = conn
	return s, nil
}

// ColumnNames returns the result column names of query in engine order,
// duplicates included. Only read statements are accepted. When the
// statement's own bounds allow it, it runs under LIMIT 0 so the engine
// stops before scanning or sorting any rows.
func (s *Session) ColumnNames(ctx context.Context, query string) ([]string, error) {
	if err := checkStatement(query); err != nil {
		return nil, err
	}
	if sqlscan.Classify(query) != sqlscan.KindRead {
		return nil, &QueryError{Query: query, Err: ErrNotRead}
	}

	probe := query
	if info := sqlscan.AnalyzeSelect(query); info.Literal {
		probe = info.Base() + " LIMIT 0"
	}
	rows, err := s.conn.QueryContext(ctx, probe)
	if err != nil {
		return nil, &QueryError{Query: query, Err: err}
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &QueryError{Query: query, Err: err}
	}
	return cols, nil
}

// checkStatement rejects empty input and input holding more than one
// statement. The driver would run every statement of a batch outside the
// session transaction.
func checkStatement(query string) error {
	if sqlscan.Classify(query) == sqlscan.KindEmpty {
		return ErrEmptyQuery
	}
	if sqlscan.MultipleStatements(query) {
		return &QueryError{Query: query, Err: sqlscan.ErrMultipleStatements}
	}
	return nil
}

// Select runs query and returns every row rendered with FormatValue.
func (s *Session) Select(ctx context.Context, query string) ([][]string, error) {
	_, rows, err := s.Query(ctx, query)
	return rows, err
}

// Query runs query and returns its column names along with every row
// rendered with FormatValue.
func (s *Session) Query(ctx context.Context, query string) ([]string, [][]string, error) {
	if err := checkStatement(query); err != nil {
		return nil, nil, err
	}
	s.logger.Debug("select", "query", query)

	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, &QueryError{Query: query, Err: err}
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, &QueryError{Query: query, Err: err}
	}

	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	var out [][]string
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, &QueryError{Query: query, Err: err}
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = FormatValue(v)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, &QueryError{Query: query, Err: err}
	}
	return cols, out, nil
}

// Execute runs a write statement inside the session transaction, opening it
// first if needed, and returns the number of rows affected.
//
// BEGIN, COMMIT/END and ROLLBACK typed as statements are routed to the
// session's own transaction handling so its state stays in step with the
// engine.
func (s *Session) Execute(ctx context.Context, query string) (int64, error) {
	if s.readOnly {
		return 0, &ReadOnlyError{Operation: sqlscan.Verb(query)}
	}
	if err := checkStatement(query); err != nil {
		return 0, err
	}

	switch sqlscan.TransactionControl(query) {
	case sqlscan.ControlBegin:
		return 0, s.begin(ctx)
	case sqlscan.ControlCommit:
		return 0, s.Commit(ctx)
	case sqlscan.ControlRollback:
		return 0, s.Rollback(ctx)
	}

	if err := s.begin(ctx); err != nil {
		return 0, err
	}

	s.logger.Debug("execute", "query", query)
	res, err := s.conn.ExecContext(ctx, query)
	if err != nil {
		if lost := s.resync(ctx); lost > 0 {
			err = fmt.Errorf("%w (%d staged changes were rolled back)", err, lost)
		}
		return 0, &QueryError{Query: query, Err: err}
	}
	s.pending++

	// The engine always reports a count; a driver that cannot is treated as zero.
	n, _ := res.RowsAffected()
	return n, nil
}

func (s *Session) begin(ctx context.Context) error {
	if s.txActive {
		return nil
	}
	if _, err := s.conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return &QueryError{Query: "BEGIN IMMEDIATE", Err: err}
	}
	s.txActive = true
	s.logger.Debug("transaction started")
	return nil
}

// resync checks, after a failed statement, that the engine is still inside
// the session transaction. SQLite ends it on its own for OR ROLLBACK
// conflicts, RAISE(ROLLBACK) and some I/O errors. When it has, a fresh
// transaction is opened in its place and the number of staged statements
// that were lost is returned.
func (s *Session) resync(ctx context.Context) int {
	if !s.txActive {
		return 0
	}
	_, err := s.conn.ExecContext(ctx, "BEGIN IMMEDIATE")
	if err != nil && strings.Contains(err.Error(), "within a transaction") {
		return 0
	}

	lost := s.pending
	s.pending = 0
	if err != nil {
		s.txActive = false
		s.logger.Warn("transaction ended by the engine", "lost", lost, "error", err)
		return lost
	}
	s.logger.Warn("transaction ended by the engine, started a new one", "lost", lost)
	return lost
}

// Commit saves the open transaction. The session leaves the transaction
// whether or not the engine accepts the commit; a failure is logged and
// returned for display only.
func (s *Session) Commit(ctx context.Context) error {
	return s.finish(ctx, "COMMIT")
}

// Rollback discards the open transaction, with the same failure handling as
// Commit.
func (s *Session) Rollback(ctx context.Context) error {
	return s.finish(ctx, "ROLLBACK")
}

func (s *Session) finish(ctx context.Context, stmt string) error {
	if !s.txActive {
		return nil
	}
	pending := s.pending
	s.txActive = false
	s.pending = 0

	if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
		s.logger.Warn("transaction end failed", "statement", stmt, "pending", pending, "error", err)
		return &QueryError{Query: stmt, Err: err}
	}
	s.logger.Info("transaction ended", "statement", stmt, "pending", pending)
	return nil
}

// Close applies policy to any open transaction and releases the database.
func (s *Session) Close(ctx context.Context, policy ExitPolicy) error {
	var endErr error
	if s.txActive {
		if policy == ExitCommit {
			endErr = s.Commit(ctx)
		} else {
			endErr = s.Rollback(ctx)
		}
	}
	return errors.Join(endErr, s.close())
}

func (s *Session) close() error {
	var connErr error
	if s.conn != nil {
		connErr = s.conn.Close()
		s.conn = nil
	}
	return errors.Join(connErr, s.db.Close())
}

// ReadOnly reports whether writes are rejected.
func (s *Session) ReadOnly() bool { return s.readOnly }

// TransactionActive reports whether a transaction is open.
func (s *Session) TransactionActive() bool { return s.txActive }

// Pending returns the number of statements run since the last commit or rollback.
func (s *Session) Pending() int { return s.pending }

// Path returns the database file path, empty for wrapped databases.
func (s *Session) Path() string { return s.path }
