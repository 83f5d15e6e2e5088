package dis

import (
	"io"
	"regexp"
	"strings"
	"unicode/utf8"
)

type alignment int

const (
	alignLeft alignment = iota
	alignRight
	alignCenter
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// visibleWidth is the rune count of s with color escapes removed.
func visibleWidth(s string) int {
	return utf8.RuneCountInString(ansiPattern.ReplaceAllString(s, ""))
}

// table renders rows as an ASCII box. The header is always centered.
type table struct {
	w      io.Writer
	header []string
	align  []alignment
	rows   [][]string
}

func newTable(w io.Writer) *table {
	return &table{w: w}
}

func (t *table) withHeader(header []string) *table {
	t.header = header
	return t
}

func (t *table) withColumnAlignment(align []alignment) *table {
	t.align = align
	return t
}

func (t *table) withRows(rows [][]string) *table {
	t.rows = append(t.rows, rows...)
	return t
}

func (t *table) widths() []int {
	widths := make([]int, len(t.header))
	for i, h := range t.header {
		widths[i] = visibleWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && visibleWidth(cell) > widths[i] {
				widths[i] = visibleWidth(cell)
			}
		}
	}
	return widths
}

func (t *table) render() {
	widths := t.widths()
	var sb strings.Builder
	separator := func() {
		sb.WriteString("+")
		for _, w := range widths {
			sb.WriteString(strings.Repeat("-", w+2))
			sb.WriteString("+")
		}
		sb.WriteString("\n")
	}
	line := func(cells []string, align func(int) alignment) {
		sb.WriteString("|")
		for i, w := range widths {
			var cell string
			if i < len(cells) {
				cell = cells[i]
			}
			sb.WriteString(" ")
			sb.WriteString(pad(cell, w, align(i)))
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}
	separator()
	line(t.header, func(int) alignment { return alignCenter })
	separator()
	for _, row := range t.rows {
		line(row, func(i int) alignment {
			if i < len(t.align) {
				return t.align[i]
			}
			return alignLeft
		})
	}
	separator()
	io.WriteString(t.w, sb.String())
}

func pad(s string, width int, align alignment) string {
	gap := width - visibleWidth(s)
	if gap <= 0 {
		return s
	}
	switch align {
	case alignRight:
		return strings.Repeat(" ", gap) + s
	case alignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}
