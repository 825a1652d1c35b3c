package filter

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/sobel/internal/image"
)

// ErrNotInterior is the panic value (wrapped) raised when a kernel is applied
// at a coordinate without a full 3x3 neighborhood. Callers derive their loop
// bounds from the image size, so reaching it means a broken invariant.
var ErrNotInterior = errors.New("filter: coordinate has no full 3x3 neighborhood")

// Magnitude computes the clamped gradient magnitude at interior pixel
// (col, row) of src, sampling channel ch.
//
// src must be an RGB8 buffer. The result is
// round(sqrt(gx² + gy²)) clamped to 255.
func Magnitude(src *image.ImageBuf, col, row int, ch Channel, op Operator) uint8 {
	w, h := src.Bounds()
	if col < 1 || col > w-2 || row < 1 || row > h-2 {
		panic(fmt.Errorf("%w: (%d, %d) in %dx%d", ErrNotInterior, col, row, w, h))
	}
	bpp := sourceBPP(src, ch)
	return magnitudeAt(src.Data(), src.Stride(), bpp, col, row, int(ch), &op)
}

// ConvolveRow computes the magnitudes of interior columns 1..W-2 of row and
// stores them in span, so span[i] holds column i+1. src must be an RGB8
// buffer and len(span) must be W-2.
func ConvolveRow(src *image.ImageBuf, row int, ch Channel, op Operator, span []uint8) {
	w, h := src.Bounds()
	if row < 1 || row > h-2 {
		panic(fmt.Errorf("%w: row %d in %dx%d", ErrNotInterior, row, w, h))
	}
	if len(span) != w-2 {
		panic(fmt.Errorf("filter: span length %d, want %d", len(span), w-2))
	}

	data := src.Data()
	stride := src.Stride()
	bpp := sourceBPP(src, ch)
	for col := 1; col <= w-2; col++ {
		span[col-1] = magnitudeAt(data, stride, bpp, col, row, int(ch), &op)
	}
}

// sourceBPP panics unless src is RGB8 and ch is one of its channels.
func sourceBPP(src *image.ImageBuf, ch Channel) int {
	if src.Format() != image.FormatRGB8 {
		panic(fmt.Errorf("filter: source must be %v, got %v", image.FormatRGB8, src.Format()))
	}
	bpp := src.Format().BytesPerPixel()
	if int(ch) < 0 || int(ch) >= bpp {
		panic(fmt.Errorf("filter: channel %v out of range for %v", ch, src.Format()))
	}
	return bpp
}

func magnitudeAt(data []byte, stride, bpp, col, row, ch int, op *Operator) uint8 {
	var gx, gy int
	for dy := -1; dy <= 1; dy++ {
		base := (row+dy)*stride + ch
		for dx := -1; dx <= 1; dx++ {
			p := int(data[base+(col+dx)*bpp])
			gx += p * op.X[dy+1][dx+1]
			gy += p * op.Y[dy+1][dx+1]
		}
	}
	return ClampMagnitude(gx, gy)
}

// ClampMagnitude returns round(sqrt(gx² + gy²)) clamped to [0, 255].
func ClampMagnitude(gx, gy int) uint8 {
	m := math.Round(math.Sqrt(float64(gx*gx + gy*gy)))
	if m >= 255 {
		return 255
	}
	return uint8(m)
}
