package display

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// TableStyle defines the visual style of a table.
type TableStyle struct {
	Name            string
	Border          BorderStyle
	HeaderSeparator bool
	RowSeparator    bool
	Padding         int
}

// BorderStyle defines table border characters. An empty Horizontal
// disables rules, an empty Vertical disables column borders.
type BorderStyle struct {
	TopLeft, TopRight, BottomLeft, BottomRight  string
	Horizontal, Vertical                        string
	Cross, TopTee, BottomTee, LeftTee, RightTee string
}

var (
	asciiBorder = BorderStyle{
		TopLeft: "+", TopRight: "+", BottomLeft: "+", BottomRight: "+",
		Horizontal: "-", Vertical: "|",
		Cross: "+", TopTee: "+", BottomTee: "+", LeftTee: "+", RightTee: "+",
	}

	roundedBorder = BorderStyle{
		TopLeft: "╭", TopRight: "╮", BottomLeft: "╰", BottomRight: "╯",
		Horizontal: "─", Vertical: "│",
		Cross: "┼", TopTee: "┬", BottomTee: "┴", LeftTee: "├", RightTee: "┤",
	}
)

// Table styles by name.
var (
	DefaultTableStyle = TableStyle{Name: "default", Border: asciiBorder, HeaderSeparator: true, Padding: 1}
	RoundedTableStyle = TableStyle{Name: "rounded", Border: roundedBorder, HeaderSeparator: true, Padding: 1}
	CompactTableStyle = TableStyle{Name: "compact", Padding: 1}
	GridTableStyle    = TableStyle{Name: "grid", Border: asciiBorder, HeaderSeparator: true, RowSeparator: true, Padding: 1}
)

// GetTableStyle returns the named style, defaulting to the ASCII style.
func GetTableStyle(name string) TableStyle {
	switch name {
	case "rounded":
		return RoundedTableStyle
	case "compact":
		return CompactTableStyle
	case "grid":
		return GridTableStyle
	default:
		return DefaultTableStyle
	}
}

// Table renders rows under headers. Cells wider than the available width
// are truncated with an ellipsis.
type Table struct {
	Headers  []string
	Rows     [][]string
	Style    TableStyle
	MaxWidth int

	colors *Colorizer
	header Color
}

// NewTable creates a table sized to the terminal.
func NewTable(headers []string, rows [][]string, style TableStyle) *Table {
	return &Table{
		Headers:  headers,
		Rows:     rows,
		Style:    style,
		MaxWidth: terminalWidth(),
	}
}

// Render returns the formatted table.
func (t *Table) Render() string {
	widths := t.columnWidths()
	if len(widths) == 0 {
		return ""
	}
	widths = t.fit(widths)

	var b strings.Builder
	border := t.Style.Border
	rule := func(left, mid, right string) {
		if border.Horizontal == "" {
			return
		}
		b.WriteString(left)
		for i, w := range widths {
			b.WriteString(strings.Repeat(border.Horizontal, w))
			if i < len(widths)-1 {
				b.WriteString(mid)
			}
		}
		b.WriteString(right)
		b.WriteString("\n")
	}

	rule(border.TopLeft, border.TopTee, border.TopRight)
	if len(t.Headers) > 0 {
		t.writeRow(&b, t.Headers, widths, true)
		if t.Style.HeaderSeparator {
			rule(border.LeftTee, border.Cross, border.RightTee)
		}
	}
	for i, row := range t.Rows {
		t.writeRow(&b, row, widths, false)
		if t.Style.RowSeparator && i < len(t.Rows)-1 {
			rule(border.LeftTee, border.Cross, border.RightTee)
		}
	}
	rule(border.BottomLeft, border.BottomTee, border.BottomRight)

	return b.String()
}

// RenderTo writes the table to w.
func (t *Table) RenderTo(w io.Writer) {
	fmt.Fprint(w, t.Render())
}

func (t *Table) columnWidths() []int {
	cols := len(t.Headers)
	for _, row := range t.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}

	widths := make([]int, cols)
	measure := func(row []string) {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}
	measure(t.Headers)
	for _, row := range t.Rows {
		measure(row)
	}

	for i := range widths {
		widths[i] += t.Style.Padding * 2
	}
	return widths
}

// fit shrinks all columns evenly until the table fits MaxWidth.
func (t *Table) fit(widths []int) []int {
	if t.MaxWidth <= 0 {
		return widths
	}

	total := 0
	for _, w := range widths {
		total += w
	}
	if t.Style.Border.Vertical != "" {
		total += len(widths) + 1
	}
	if total <= t.MaxWidth {
		return widths
	}

	reduction := (total - t.MaxWidth + len(widths) - 1) / len(widths)
	minimum := t.Style.Padding*2 + 3
	for i := range widths {
		widths[i] -= reduction
		if widths[i] < minimum {
			widths[i] = minimum
		}
	}
	return widths
}

func (t *Table) writeRow(b *strings.Builder, row []string, widths []int, header bool) {
	vertical := t.Style.Border.Vertical
	b.WriteString(vertical)
	for i, w := range widths {
		var cell string
		if i < len(row) {
			cell = row[i]
		}
		b.WriteString(t.formatCell(cell, w, header))
		b.WriteString(vertical)
	}
	b.WriteString("\n")
}

func (t *Table) formatCell(content string, width int, header bool) string {
	space := width - t.Style.Padding*2
	if space < 0 {
		space = 0
	}

	if runes := []rune(content); len(runes) > space {
		if space > 3 {
			content = string(runes[:space-3]) + "..."
		} else {
			content = string(runes[:space])
		}
	}
	fill := space - utf8.RuneCountInString(content)

	if header && t.colors != nil {
		content = t.colors.Colorize(content, t.header)
	}

	pad := strings.Repeat(" ", t.Style.Padding)
	return pad + content + strings.Repeat(" ", fill) + pad
}

func terminalWidth() int {
	width, _, err := term.GetSize(0)
	if err != nil {
		return 0
	}
	return width
}
