// Package difftab renders a side-by-side table of two diverging text streams.
//
// The table has three columns: the reference stream, a per-row marker, and the
// stream under test. Each side starts with two header rows (a label plus a
// separator), then one row per line of the decoded stream. The shorter side is
// padded with empty rows, and each side is left-justified to the width of its
// own widest row, so the two sides may end up different widths.
//
// Markers come from a character-level edit script between the two decoded
// strings: every insert or delete is mapped back to the reference row that
// contains its reference-side position. The mapping anchors to reference line
// boundaries only; an insertion that exists purely on the test side is
// attributed to the reference row at the edit position, which existing fixtures
// depend on.
package difftab

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/oaklang/crosscheck/internal/textwidth"
)

const (
	// Separator is the fixed-width rule under each column's title row.
	Separator = "=========="

	// MarkerDiffers flags a row whose sides diverge; MarkerEqual fills the
	// marker column otherwise. Both are exactly 5 characters.
	MarkerDiffers = " =/= "
	MarkerEqual   = "     "

	headerRows = 2
)

// DecodingError reports that a captured stream is not valid UTF-8 and cannot
// be rendered as text. It is fatal to rendering; nothing recovers it.
type DecodingError struct {
	Side  string // which column failed to decode
	Title string // the channel being rendered
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("difftab: %s side of %q is not valid UTF-8", e.Side, e.Title)
}

// Renderer renders diff tables. The zero value uses the label "C" for the
// reference column and "Test" for the column under test.
type Renderer struct {
	RefLabel  string
	TestLabel string
}

// Render is Renderer.Render with default labels.
func Render(ref, test []byte, title string) (string, error) {
	return Renderer{}.Render(ref, test, title)
}

// Render builds the three-column table for one diverging channel. The returned
// string holds one "| ref | marker | test |" line per row, newline-separated,
// with no trailing newline. The row count is always
// max(2+lines(ref), 2+lines(test)).
//
// Rendering is pure: the same inputs always produce the same table.
func (r Renderer) Render(ref, test []byte, title string) (string, error) {
	refLabel := r.RefLabel
	if refLabel == "" {
		refLabel = "C"
	}
	testLabel := r.TestLabel
	if testLabel == "" {
		testLabel = "Test"
	}

	if !utf8.Valid(ref) {
		return "", &DecodingError{Side: "reference", Title: title}
	}
	if !utf8.Valid(test) {
		return "", &DecodingError{Side: "test", Title: title}
	}
	refText := string(ref)
	testText := string(test)

	refRows := append([]string{refLabel + " " + title, Separator}, strings.Split(refText, "\n")...)
	testRows := append([]string{testLabel + " " + title, Separator}, strings.Split(testText, "\n")...)

	total := len(refRows)
	if len(testRows) > total {
		total = len(testRows)
	}
	refRows = padRows(refRows, total)
	testRows = padRows(testRows, total)

	refWidth := textwidth.MaxWidth(refRows)
	testWidth := textwidth.MaxWidth(testRows)

	markers := markRows(refText, testText, total)

	var b strings.Builder
	for i := 0; i < total; i++ {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("| ")
		b.WriteString(textwidth.Pad(refRows[i], refWidth))
		b.WriteString(" | ")
		b.WriteString(markers[i])
		b.WriteString(" | ")
		b.WriteString(textwidth.Pad(testRows[i], testWidth))
		b.WriteString(" |")
	}
	return b.String(), nil
}

// padRows extends rows with empty rows until it is total long.
func padRows(rows []string, total int) []string {
	for len(rows) < total {
		rows = append(rows, "")
	}
	return rows
}

// markRows computes the per-row marker column. It walks the character-level
// edit script between refText and testText once, keeping the current
// reference-side byte offset, and resolves each edit's offset to a row via a
// binary search over the reference string's newline offsets.
func markRows(refText, testText string, total int) []string {
	markers := make([]string, total)
	for i := range markers {
		markers[i] = MarkerEqual
	}

	newlines := newlineOffsets(refText)

	mark := func(offset int) {
		// Row index = newlines strictly before offset, shifted past the headers.
		row := sort.SearchInts(newlines, offset) + headerRows
		if row < total {
			markers[row] = MarkerDiffers
		}
	}

	dmp := diffmatchpatch.New()
	pos := 0
	for _, d := range dmp.DiffMain(refText, testText, false) {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			pos += len(d.Text)
		case diffmatchpatch.DiffDelete:
			// Every deleted character has a reference-side position; mark the
			// row of the first and last, and every row between.
			first := sort.SearchInts(newlines, pos)
			last := sort.SearchInts(newlines, pos+len(d.Text)-1)
			for row := first; row <= last; row++ {
				if r := row + headerRows; r < total {
					markers[r] = MarkerDiffers
				}
			}
			pos += len(d.Text)
		case diffmatchpatch.DiffInsert:
			// No reference-side span; attribute to the row at the current
			// reference position.
			mark(pos)
		}
	}
	return markers
}

// newlineOffsets returns the byte offsets of every '\n' in s, ascending.
func newlineOffsets(s string) []int {
	var offsets []int
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			offsets = append(offsets, i)
		}
	}
	return offsets
}
