package ui

import (
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// halfBlock paints its foreground in the top half of a cell and its
// background in the bottom half.
const halfBlock = "▀"

// cellRun is a horizontal run of cells sharing the same pair of colours.
type cellRun struct {
	top    string
	bottom string
	n      int
}

// renderHalfBlocks draws img as cols x rows terminal cells, two image rows
// per cell row. Cells outside the image are black.
func renderHalfBlocks(img *image.RGBA, cols, rows int) string {
	lines := make([]string, rows)
	for row := 0; row < rows; row++ {
		var b strings.Builder
		for _, run := range cellRuns(img, row, cols) {
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(run.top)).
				Background(lipgloss.Color(run.bottom))
			b.WriteString(style.Render(strings.Repeat(halfBlock, run.n)))
		}
		lines[row] = b.String()
	}
	return strings.Join(lines, "\n")
}

// cellRuns groups the cells of one terminal row into runs of equal colour.
func cellRuns(img *image.RGBA, row, cols int) []cellRun {
	var runs []cellRun
	for col := 0; col < cols; col++ {
		top := pixelHex(img, col, row*2)
		bottom := pixelHex(img, col, row*2+1)

		if n := len(runs); n > 0 && runs[n-1].top == top && runs[n-1].bottom == bottom {
			runs[n-1].n++
			continue
		}
		runs = append(runs, cellRun{top: top, bottom: bottom, n: 1})
	}
	return runs
}

func pixelHex(img *image.RGBA, x, y int) string {
	if img == nil {
		return "#000000"
	}
	p := image.Pt(img.Rect.Min.X+x, img.Rect.Min.Y+y)
	if !p.In(img.Rect) {
		return "#000000"
	}
	off := img.PixOffset(p.X, p.Y)
	c := colorful.Color{
		R: float64(img.Pix[off]) / 255,
		G: float64(img.Pix[off+1]) / 255,
		B: float64(img.Pix[off+2]) / 255,
	}
	return c.Hex()
}

// Title gradient endpoints: deep blue into the warm constellation white.
var (
	titleFrom, _ = colorful.Hex("#3b5bdb")
	titleTo, _   = colorful.Hex("#f7eada")
)

// renderTitle renders text with a horizontal gradient.
func renderTitle(text string) string {
	runes := []rune(text)

	var b strings.Builder
	for col, r := range runes {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(gradientColor(col, len(runes))))
		b.WriteString(style.Render(string(r)))
	}
	return b.String()
}

// gradientColor returns a hex color for a position in the title gradient.
func gradientColor(col, width int) string {
	if width <= 1 {
		return titleTo.Hex()
	}
	t := float64(col) / float64(width-1)
	return titleFrom.BlendLuv(titleTo, t).Clamped().Hex()
}
