package txtdoc

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Ellipsis marks a truncated field.
const Ellipsis = "…"

// Separator terminates every field.
const Separator = '|'

// Align selects how a field is placed inside its column.
type Align int

const (
	// AlignLeft pads on the right.
	AlignLeft Align = iota
	// AlignRight pads on the left.
	AlignRight
)

// Column describes one fixed-width column.
type Column struct {
	Width int
	Align Align
}

// RowSource returns the fields of the given line, or false when the
// document is finished. Missing trailing fields are left blank.
type RowSource func(line int) ([]string, bool)

// Document is a titled fixed-width table.
type Document struct {
	title   string
	columns []Column
}

// New creates a document with the given title and columns.
func New(title string, columns ...Column) *Document {
	return &Document{title: title, columns: columns}
}

// LineWidth returns the width of a row including separators.
func (d *Document) LineWidth() int {
	width := 0
	for _, c := range d.columns {
		width += c.Width + 1
	}
	return width
}

// Write prints the title and then every row produced by rows.
func (d *Document) Write(w io.Writer, rows RowSource) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(d.title + "\n"); err != nil {
		return err
	}

	var line strings.Builder
	line.Grow(d.LineWidth() + 1)
	for n := 0; ; n++ {
		fields, ok := rows(n)
		if !ok {
			break
		}
		line.Reset()
		d.formatRow(&line, fields)
		line.WriteByte('\n')
		if _, err := bw.WriteString(line.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// FormatRow renders a single row without the trailing newline.
func (d *Document) FormatRow(fields ...string) string {
	var line strings.Builder
	d.formatRow(&line, fields)
	return line.String()
}

func (d *Document) formatRow(line *strings.Builder, fields []string) {
	for i, col := range d.columns {
		var field string
		if i < len(fields) {
			field = fields[i]
		}
		writeField(line, field, col)
		line.WriteRune(Separator)
	}
}

func writeField(line *strings.Builder, field string, col Column) {
	field = norm.NFC.String(field)
	n := utf8.RuneCountInString(field)

	if n > col.Width {
		if col.Width < 2 {
			line.WriteString(strings.Repeat(" ", col.Width))
			return
		}
		runes := []rune(field)
		line.WriteString(string(runes[:col.Width-1]))
		line.WriteString(Ellipsis)
		return
	}

	pad := strings.Repeat(" ", col.Width-n)
	if col.Align == AlignRight {
		line.WriteString(pad)
		line.WriteString(field)
		return
	}
	line.WriteString(field)
	line.WriteString(pad)
}
