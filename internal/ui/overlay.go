package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

const sgrReset = "\x1b[0m"

// Place draws box over base with its top-left corner at (x, y). Both may
// carry ANSI styling; base cells under the box are replaced, the rest of
// each base line is kept.
func Place(base, box string, x, y int) string {
	if box == "" {
		return base
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	baseLines := strings.Split(base, "\n")
	boxLines := strings.Split(box, "\n")
	for len(baseLines) < y+len(boxLines) {
		baseLines = append(baseLines, "")
	}

	for i, line := range boxLines {
		row := y + i
		under := baseLines[row]
		boxW := ansi.StringWidth(line)

		left := ansi.Truncate(under, x, "")
		if w := ansi.StringWidth(left); w < x {
			left += strings.Repeat(" ", x-w)
		}
		right := ""
		if ansi.StringWidth(under) > x+boxW {
			right = ansi.TruncateLeft(under, x+boxW, "")
		}
		baseLines[row] = left + sgrReset + line + sgrReset + right
	}
	return strings.Join(baseLines, "\n")
}

// PlaceCenter draws box centered over a base of the given size.
func PlaceCenter(base, box string, width, height int) string {
	boxW, boxH := blockSize(box)
	return Place(base, box, (width-boxW)/2, (height-boxH)/2)
}

func blockSize(s string) (w, h int) {
	lines := strings.Split(s, "\n")
	for _, l := range lines {
		w = max(w, ansi.StringWidth(l))
	}
	return w, len(lines)
}
