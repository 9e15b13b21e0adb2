package pipeline

import (
	"fmt"

	"github.com/leapstack-labs/rivet/internal/pager"
)

// Kind tells a front end how to present an Outcome.
type Kind int

const (
	// KindNone means there is nothing to show.
	KindNone Kind = iota
	// KindInfo carries a status message.
	KindInfo
	// KindRowsChanged carries the number of rows a write affected.
	KindRowsChanged
	// KindRows carries a table of results.
	KindRows
	// KindError carries a message describing a failure.
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInfo:
		return "info"
	case KindRowsChanged:
		return "rows_changed"
	case KindRows:
		return "rows"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome is the result of running one command line.
type Outcome struct {
	Kind    Kind
	Message string // KindInfo, KindError
	Count   int64  // KindRowsChanged

	// Result holds the rows of KindRows. Selection is set when the rows are
	// one page of a larger result and nil when everything was fetched at once.
	Result    *TableResult
	Selection *pager.Selection
}

func infoOutcome(format string, args ...any) Outcome {
	return Outcome{Kind: KindInfo, Message: fmt.Sprintf(format, args...)}
}

func errorOutcome(err error) Outcome {
	return Outcome{Kind: KindError, Message: err.Error()}
}

// Text renders the outcome as a single status line.
func (o Outcome) Text() string {
	switch o.Kind {
	case KindInfo, KindError:
		return o.Message
	case KindRowsChanged:
		return fmt.Sprintf("%d changes.", o.Count)
	case KindRows:
		if o.Result == nil {
			return ""
		}
		if o.Selection == nil {
			return fmt.Sprintf("%d rows", len(o.Result.Rows))
		}
		return fmt.Sprintf("%d rows (page %d of %d)",
			o.Selection.Size(), o.Selection.PageIndex()+1, max(o.Selection.PageCount(), 1))
	default:
		return ""
	}
}
