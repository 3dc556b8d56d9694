// Package report renders rollups, trends and drill-down records as terminal
// or Markdown tables.
package report

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Mode controls the output format.
type Mode int

const (
	ASCII    Mode = iota // Fixed-width terminal tables
	Markdown             // GitHub-flavoured Markdown tables
)

// ParseMode accepts "ascii" (default) or "markdown"/"md".
func ParseMode(s string) Mode {
	switch s {
	case "markdown", "md":
		return Markdown
	default:
		return ASCII
	}
}

// tableBuilder wraps go-pretty's table.Writer with the handful of calls the
// renderers need.
type tableBuilder struct {
	writer table.Writer
	mode   Mode
	title  string
}

// newTable starts a table. In ASCII mode the title is printed on its own line
// above the box; go-pretty wraps titles to the table width, which would split
// headings such as dates across lines.
func newTable(m Mode, title string) *tableBuilder {
	w := table.NewWriter()
	if m == ASCII {
		w.SetStyle(table.StyleLight)
	}
	return &tableBuilder{writer: w, mode: m, title: title}
}

func (b *tableBuilder) header(cols ...any) {
	b.writer.AppendHeader(table.Row(cols))
}

func (b *tableBuilder) row(vals ...any) {
	b.writer.AppendRow(table.Row(vals))
}

func (b *tableBuilder) footer(vals ...any) {
	b.writer.AppendFooter(table.Row(vals))
}

func (b *tableBuilder) alignRight(cols ...int) {
	cfgs := make([]table.ColumnConfig, len(cols))
	for i, n := range cols {
		cfgs[i] = table.ColumnConfig{Number: n, Align: text.AlignRight}
	}
	b.writer.SetColumnConfigs(cfgs)
}

func (b *tableBuilder) String() string {
	if b.mode == Markdown {
		return b.writer.RenderMarkdown()
	}
	if b.title == "" {
		return b.writer.Render()
	}
	return b.title + "\n" + b.writer.Render()
}
