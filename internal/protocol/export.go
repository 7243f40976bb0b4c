package protocol

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/roach88/lostar/internal/txtdoc"
)

// DefaultBytesPerLine is the export width used when none is given.
const DefaultBytesPerLine = 16

const (
	exportTitle = "Protocol"
	timeWidth   = 10
	labelWidth  = 10
)

// TxtExport writes the merged view to path as a fixed-width text table.
func (tl *Timeline[T]) TxtExport(path string, bytesPerLine int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("protocol: export: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("protocol: export: %w", cerr)
		}
	}()
	return tl.WriteTxt(f, bytesPerLine)
}

// WriteTxt renders the merged view. Each entry starts a new line showing
// its start time, the delta to the previous entry and its label; payloads
// longer than bytesPerLine continue on lines with those columns blank.
// The timeline is initialized first if needed.
func (tl *Timeline[T]) WriteTxt(w io.Writer, bytesPerLine int) error {
	if bytesPerLine <= 0 {
		bytesPerLine = DefaultBytesPerLine
	}
	if err := tl.Init(); err != nil {
		return err
	}

	doc := txtdoc.New(exportTitle,
		txtdoc.Column{Width: timeWidth, Align: txtdoc.AlignRight},
		txtdoc.Column{Width: timeWidth, Align: txtdoc.AlignRight},
		txtdoc.Column{Width: labelWidth},
		txtdoc.Column{Width: 3*bytesPerLine - 1},
		txtdoc.Column{Width: bytesPerLine},
	)

	// lineEnd[i] is the number of text lines used by entries 0..i
	lineEnd := make([]int, len(tl.entries))
	lines := 0
	for i, e := range tl.entries {
		lines += lineCount(len(e.Span.Payload.Bytes()), bytesPerLine)
		lineEnd[i] = lines
	}

	return doc.Write(w, func(line int) ([]string, bool) {
		if line >= lines {
			return nil, false
		}
		index := sort.SearchInts(lineEnd, line+1)
		rel := line
		if index > 0 {
			rel -= lineEnd[index-1]
		}
		return tl.exportRow(index, rel, bytesPerLine), true
	})
}

func (tl *Timeline[T]) exportRow(index, rel, bytesPerLine int) []string {
	e := tl.entries[index]
	data := e.Span.Payload.Bytes()
	from := rel * bytesPerLine
	chunk := data[from:min(from+bytesPerLine, len(data))]

	row := make([]string, 5)
	if rel == 0 {
		row[0] = fmt.Sprintf("%.6f", e.Span.Start)
		if index > 0 {
			row[1] = fmt.Sprintf("%.6f", e.Span.Start-tl.entries[index-1].Span.Start)
		}
		row[2] = e.Label
	}
	row[3] = Hex(chunk)
	row[4] = ASCII(chunk)
	return row
}

func lineCount(n, bytesPerLine int) int {
	return (n + bytesPerLine - 1) / bytesPerLine
}

// Hex formats data as space-separated uppercase byte pairs.
func Hex(data []byte) string {
	var b strings.Builder
	b.Grow(3 * len(data))
	for i, c := range data {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02X", c)
	}
	return b.String()
}

// ASCII formats data with non-printable bytes replaced by '.'.
func ASCII(data []byte) string {
	b := make([]byte, len(data))
	for i, c := range data {
		if c >= 0x20 && c <= 0x7E {
			b[i] = c
		} else {
			b[i] = '.'
		}
	}
	return string(b)
}

// Row is one line of a single payload's hex dump.
type Row struct {
	Address string `json:"address"`
	Hex     string `json:"hex"`
	ASCII   string `json:"ascii"`
}

// Rows splits a payload into dump rows of bytesPerRow bytes. The address
// column is the low byte of the row offset.
func Rows(payload []byte, bytesPerRow int) []Row {
	if bytesPerRow <= 0 {
		bytesPerRow = DefaultBytesPerLine
	}
	rows := make([]Row, 0, lineCount(len(payload), bytesPerRow))
	for offset := 0; offset < len(payload); offset += bytesPerRow {
		chunk := payload[offset:min(offset+bytesPerRow, len(payload))]
		rows = append(rows, Row{
			Address: fmt.Sprintf("%02X", byte(offset)),
			Hex:     Hex(chunk),
			ASCII:   ASCII(chunk),
		})
	}
	return rows
}
