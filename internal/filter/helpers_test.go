package filter

import (
	"testing"

	"github.com/gogpu/sobel/internal/image"
)

// Test helper functions shared across filter tests.

// newRGB creates a w x h RGB8 buffer where pixel (x, y) gets fn(x, y) on
// every channel.
func newRGB(t testing.TB, w, h int, fn func(x, y int) uint8) *image.ImageBuf {
	t.Helper()
	buf, err := image.NewImageBuf(w, h, image.FormatRGB8)
	if err != nil {
		t.Fatalf("NewImageBuf(%d, %d) error = %v", w, h, err)
	}
	for y := range h {
		row := buf.RowBytes(y)
		for x := range w {
			v := fn(x, y)
			row[x*3], row[x*3+1], row[x*3+2] = v, v, v
		}
	}
	return buf
}

// mustPanic fails the test unless fn panics.
func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", name)
		}
	}()
	fn()
}
