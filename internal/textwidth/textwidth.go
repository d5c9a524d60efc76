// Package textwidth measures and pads text by terminal cell width.
//
// Widths are computed per grapheme cluster, so combining marks and multi-codepoint
// clusters count once, and East Asian wide characters count as 2 cells. The diff
// renderer relies on this so that both columns of a table line up in a terminal
// even when the compared streams contain non-ASCII output.
package textwidth

import (
	"strings"

	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/mattn/go-runewidth"
)

// Width returns the terminal cell width of s for monospace fonts.
func Width(s string) int {
	cond := condition()
	total := 0
	iter := graphemes.FromString(s)
	for iter.Next() {
		total += cond.StringWidth(iter.Value())
	}
	return total
}

// Pad left-justifies s to width cells by appending spaces. Strings already at
// least width cells wide are returned unchanged.
func Pad(s string, width int) string {
	gap := width - Width(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}

// MaxWidth returns the cell width of the widest string in lines, or 0 for an
// empty slice.
func MaxWidth(lines []string) int {
	maximum := 0
	for _, line := range lines {
		if w := Width(line); w > maximum {
			maximum = w
		}
	}
	return maximum
}

func condition() *runewidth.Condition {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = false
	cond.StrictEmojiNeutral = true
	return cond
}
