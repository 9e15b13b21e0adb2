package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/rivet/internal/cli/config"
	"github.com/leapstack-labs/rivet/internal/pipeline"
	"gopkg.in/yaml.v3"
)

// renderResult writes res to w in format.
func renderResult(w io.Writer, format string, res *pipeline.TableResult) error {
	switch format {
	case config.OutputJSON:
		return renderJSON(w, res)
	case config.OutputYAML:
		return renderYAML(w, res)
	case config.OutputCSV:
		return renderCSV(w, res)
	case config.OutputMarkdown:
		t := newTableWriter(w, res)
		t.RenderMarkdown()
		return nil
	default:
		t := newTableWriter(w, res)
		t.SetStyle(table.StyleLight)
		t.Render()
		_, err := fmt.Fprintf(w, "(%d rows)\n", len(res.Rows))
		return err
	}
}

func newTableWriter(w io.Writer, res *pipeline.TableResult) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := make(table.Row, len(res.Columns))
	for i, col := range res.Columns {
		header[i] = col
	}
	t.AppendHeader(header)

	for r := range res.Rows {
		row := make(table.Row, len(res.Columns))
		for c := range res.Columns {
			row[c] = res.Cell(r, c)
		}
		t.AppendRow(row)
	}
	return t
}

// orderedRow marshals as a JSON object whose keys keep column order.
type orderedRow struct {
	columns []string
	values  []string
}

func (o orderedRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range o.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(o.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func rowValues(res *pipeline.TableResult, r int) []string {
	values := make([]string, len(res.Columns))
	for c := range res.Columns {
		values[c] = res.Cell(r, c)
	}
	return values
}

func renderJSON(w io.Writer, res *pipeline.TableResult) error {
	rows := make([]orderedRow, len(res.Rows))
	for r := range res.Rows {
		rows[r] = orderedRow{columns: res.Columns, values: rowValues(res, r)}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// renderCSV writes RFC 4180 CSV; go-pretty's CSV mode escapes with
// backslashes, which CSV readers do not accept.
func renderCSV(w io.Writer, res *pipeline.TableResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(res.Columns); err != nil {
		return err
	}
	for r := range res.Rows {
		if err := cw.Write(rowValues(res, r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func renderYAML(w io.Writer, res *pipeline.TableResult) error {
	doc := &yaml.Node{Kind: yaml.SequenceNode}
	for r := range res.Rows {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for c, v := range rowValues(res, r) {
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: res.Columns[c]},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v},
			)
		}
		doc.Content = append(doc.Content, m)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
