// Package textutil provides width-aware text helpers for terminal rendering.
package textutil

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// TruncateEllipsis is appended to truncated text.
const TruncateEllipsis = "…"

// VisualWidth returns the number of terminal columns s occupies.
// s must not contain escape sequences; use StyledWidth for styled text.
func VisualWidth(s string) int {
	return runewidth.StringWidth(s)
}

// StyledWidth returns the column width of s ignoring ANSI sequences.
func StyledWidth(s string) int {
	return ansi.StringWidth(s)
}

// Truncate shortens plain text to maxWidth columns, ending in an
// ellipsis when anything was cut.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if VisualWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, TruncateEllipsis)
}

// TruncateStyled is Truncate for text that may carry ANSI styling.
func TruncateStyled(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return ansi.Truncate(s, maxWidth, TruncateEllipsis)
}

// PadRight pads styled s with spaces to width columns, truncating when it
// is wider.
func PadRight(s string, width int) string {
	w := StyledWidth(s)
	if w >= width {
		return TruncateStyled(s, width)
	}
	return s + strings.Repeat(" ", width-w)
}

// JoinEnds places left and right on one line of width columns, trimming
// left first when both don't fit.
func JoinEnds(left, right string, width int) string {
	rw := StyledWidth(right)
	if rw >= width {
		return TruncateStyled(right, width)
	}
	left = TruncateStyled(left, width-rw-1)
	gap := width - StyledWidth(left) - rw
	return left + strings.Repeat(" ", gap) + right
}
