package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

const helpText = `Commands:
  .help            Show this help message
  .tables          List all tables and views
  .views           List views only
  .schema <name>   Show columns of a table or view
  .save / .commit  Save staged changes
  .rollback        Discard staged changes
  .status          Show session state
  .history         Show command history
  .quit / .exit    Exit

Statements run one per line. Writes are staged in a transaction until saved.`

// MetaCommands lists the dot-commands, for completion.
var MetaCommands = []string{
	".help", ".tables", ".views", ".schema", ".save", ".commit",
	".rollback", ".status", ".history", ".quit", ".exit",
}

// IsQuit reports whether line asks to leave the program. Front ends handle it.
func IsQuit(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case ".quit", ".exit":
		return true
	}
	return false
}

func (p *Pipeline) runMeta(ctx context.Context, line string) Outcome {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return Outcome{}
	case ".help":
		return Outcome{Kind: KindInfo, Message: helpText}
	case ".tables":
		return p.listObjects(ctx, false)
	case ".views":
		return p.listObjects(ctx, true)
	case ".schema":
		if len(parts) < 2 {
			return Outcome{Kind: KindError, Message: "usage: .schema <table>"}
		}
		return p.schema(ctx, parts[1])
	case ".save", ".commit":
		return p.Save(ctx)
	case ".rollback":
		return p.Revert(ctx)
	case ".status":
		return p.status()
	case ".history":
		return p.listHistory()
	default:
		return Outcome{Kind: KindError, Message: fmt.Sprintf("unknown command: %s (type .help for commands)", command)}
	}
}

func (p *Pipeline) listObjects(ctx context.Context, viewsOnly bool) Outcome {
	query := `SELECT name, type FROM sqlite_master
		WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'`
	if viewsOnly {
		query += ` AND type = 'view'`
	}
	query += ` ORDER BY type DESC, name`

	rows, err := p.sess.Select(ctx, query)
	if err != nil {
		return errorOutcome(err)
	}
	if len(rows) == 0 {
		return infoOutcome("no tables")
	}
	return Outcome{Kind: KindRows, Result: NewTableResult([]string{"name", "type"}, rows)}
}

func (p *Pipeline) schema(ctx context.Context, name string) Outcome {
	query := fmt.Sprintf(
		`SELECT name, type, "notnull", dflt_value, pk FROM pragma_table_info(%s)`,
		quoteLiteral(name))

	rows, err := p.sess.Select(ctx, query)
	if err != nil {
		return errorOutcome(err)
	}
	if len(rows) == 0 {
		return Outcome{Kind: KindError, Message: fmt.Sprintf("table or view '%s' not found", name)}
	}
	return Outcome{
		Kind:   KindRows,
		Result: NewTableResult([]string{"column", "type", "not_null", "default", "pk"}, rows),
	}
}

func (p *Pipeline) status() Outcome {
	mode := "read-write"
	if p.sess.ReadOnly() {
		mode = "read-only"
	}
	tx := "none"
	if p.sess.TransactionActive() {
		tx = "active"
	}
	return infoOutcome("database: %s | mode: %s | transaction: %s | pending: %d",
		p.sess.Path(), mode, tx, p.sess.Pending())
}

func (p *Pipeline) listHistory() Outcome {
	entries := p.history.Entries()
	if len(entries) == 0 {
		return infoOutcome("history is empty")
	}
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{strconv.Itoa(i + 1), e}
	}
	return Outcome{Kind: KindRows, Result: NewTableResult([]string{"#", "command"}, rows)}
}

// quoteLiteral renders s as a SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
