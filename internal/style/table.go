package style

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Align is a column's horizontal alignment.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
	AlignCenter
)

// Column describes one table column. Width is in terminal cells.
type Column struct {
	Name  string
	Width int
	Align Align
}

// Table renders fixed-width columns with a bold header.
type Table struct {
	columns   []Column
	rows      [][]string
	headerSep bool
	indent    string
}

// NewTable creates a table with a header separator and a two-space indent.
func NewTable(columns ...Column) *Table {
	return &Table{
		columns:   columns,
		headerSep: true,
		indent:    "  ",
	}
}

// SetIndent sets the prefix of every line.
func (t *Table) SetIndent(indent string) *Table {
	t.indent = indent
	return t
}

// SetHeaderSeparator toggles the rule under the header.
func (t *Table) SetHeaderSeparator(on bool) *Table {
	t.headerSep = on
	return t
}

// AddRow appends a row. Missing trailing values are empty; extra values
// are dropped.
func (t *Table) AddRow(values ...string) *Table {
	row := make([]string, len(t.columns))
	copy(row, values)
	t.rows = append(t.rows, row)
	return t
}

// Render returns the table text, one line per row, each ending in "\n".
func (t *Table) Render() string {
	if len(t.columns) == 0 {
		return ""
	}

	var b strings.Builder
	header := make([]string, len(t.columns))
	total := 0
	for i, col := range t.columns {
		header[i] = t.pad(Bold.Render(col.Name), col.Name, col.Width, col.Align)
		total += col.Width
	}
	total += len(t.columns) - 1
	t.line(&b, header)

	if t.headerSep {
		b.WriteString(t.indent)
		b.WriteString(Dim.Render(strings.Repeat("─", total)))
		b.WriteString("\n")
	}

	for _, row := range t.rows {
		cells := make([]string, len(t.columns))
		for i, col := range t.columns {
			styled := row[i]
			plain := stripAnsi(styled)
			if lipgloss.Width(plain) > col.Width {
				plain = truncate(plain, col.Width)
				styled = plain
			}
			cells[i] = t.pad(styled, plain, col.Width, col.Align)
		}
		t.line(&b, cells)
	}
	return b.String()
}

func (t *Table) line(b *strings.Builder, cells []string) {
	b.WriteString(t.indent)
	b.WriteString(strings.TrimRight(strings.Join(cells, " "), " "))
	b.WriteString("\n")
}

// pad aligns styled within width, measuring the unstyled plain text.
func (t *Table) pad(styled, plain string, width int, align Align) string {
	w := lipgloss.Width(plain)
	if w >= width {
		return styled
	}
	gap := width - w
	switch align {
	case AlignRight:
		return strings.Repeat(" ", gap) + styled
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + styled + strings.Repeat(" ", gap-left)
	default:
		return styled + strings.Repeat(" ", gap)
	}
}

// truncate shortens s to width cells, ending in "...".
func truncate(s string, width int) string {
	if width <= 3 {
		return strings.Repeat(".", width)
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripAnsi(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}
