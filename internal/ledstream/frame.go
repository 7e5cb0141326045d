// Package ledstream streams the night sky to an LED matrix over MQTT.
package ledstream

import (
	"encoding/binary"
	"fmt"
	"image"

	"github.com/fogleman/ease"
	"github.com/lucasb-eyer/go-colorful"
)

// maxPixels is the largest count the uint16 header can carry.
const maxPixels = 0xffff

// Frame is a grid of RGB pixels for one LED matrix refresh, stored row-major.
type Frame struct {
	Rows int
	Cols int

	pixels []colorful.Color
}

// NewFrame creates a black frame.
func NewFrame(rows, cols int) *Frame {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Frame{
		Rows:   rows,
		Cols:   cols,
		pixels: make([]colorful.Color, rows*cols),
	}
}

// Len returns the pixel count.
func (f *Frame) Len() int {
	return len(f.pixels)
}

// At returns the pixel at row, col.
func (f *Frame) At(row, col int) colorful.Color {
	return f.pixels[row*f.Cols+col]
}

// Set sets the pixel at row, col.
func (f *Frame) Set(row, col int, c colorful.Color) {
	f.pixels[row*f.Cols+col] = c
}

// MarshalBinary converts a Frame into binary data: a little-endian uint16
// pixel count followed by one RGB triplet per pixel.
func (f *Frame) MarshalBinary() ([]byte, error) {
	if len(f.pixels) > maxPixels {
		return nil, fmt.Errorf("frame of %d pixels exceeds %d", len(f.pixels), maxPixels)
	}

	data := make([]byte, 2, len(f.pixels)*3+2)
	binary.LittleEndian.PutUint16(data, uint16(len(f.pixels)))
	for _, p := range f.pixels {
		r, g, b := p.Clamped().RGB255()
		data = append(data, r, g, b)
	}
	return data, nil
}

// Sample box-averages img down to rows x cols and applies the LED brightness
// curve scaled by gain.
func Sample(img *image.RGBA, rows, cols int, gain float64) *Frame {
	f := NewFrame(rows, cols)
	if img == nil || f.Len() == 0 {
		return f
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return f
	}

	for row := 0; row < rows; row++ {
		y0, y1 := span(row, rows, h)
		for col := 0; col < cols; col++ {
			x0, x1 := span(col, cols, w)

			var r, g, bl float64
			for y := y0; y < y1; y++ {
				off := img.PixOffset(b.Min.X+x0, b.Min.Y+y)
				for x := x0; x < x1; x++ {
					r += float64(img.Pix[off])
					g += float64(img.Pix[off+1])
					bl += float64(img.Pix[off+2])
					off += 4
				}
			}

			n := float64((x1 - x0) * (y1 - y0) * 255)
			f.Set(row, col, colorful.Color{
				R: brightness(r/n, gain),
				G: brightness(g/n, gain),
				B: brightness(bl/n, gain),
			})
		}
	}
	return f
}

// span returns the source range covered by cell i of n over size pixels. It
// is never empty.
func span(i, n, size int) (lo, hi int) {
	lo = i * size / n
	hi = (i + 1) * size / n
	if hi <= lo {
		hi = lo + 1
	}
	if hi > size {
		lo, hi = size-1, size
	}
	return lo, hi
}

// brightness maps a channel value onto the LED response.
func brightness(v, gain float64) float64 {
	return ease.InQuad(v) * gain
}
