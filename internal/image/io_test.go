package image

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestFromStdImage_NRGBA(t *testing.T) {
	nrgba := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	nrgba.Set(3, 3, color.NRGBA{R: 128, G: 64, B: 32, A: 200})

	buf := FromStdImage(nrgba)

	if buf.Format() != FormatRGB8 {
		t.Fatalf("Format() = %v, want RGB8", buf.Format())
	}
	if got := rgbAt(buf, 3, 3); got != [3]uint8{128, 64, 32} {
		t.Errorf("Pixel = %v, want [128 64 32]", got)
	}
}

func TestFromStdImage_RGBAOpaque(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(0, 0, 4, 4))
	rgba.Set(1, 2, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	buf := FromStdImage(rgba)

	if got := rgbAt(buf, 1, 2); got != [3]uint8{200, 100, 50} {
		t.Errorf("Pixel = %v, want [200 100 50]", got)
	}
}

func TestFromStdImage_Gray(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 10, 10))
	gray.SetGray(5, 5, color.Gray{Y: 128})

	buf := FromStdImage(gray)

	if got := rgbAt(buf, 5, 5); got != [3]uint8{128, 128, 128} {
		t.Errorf("Pixel = %v, want [128 128 128]", got)
	}
}

func TestFromStdImage_OffsetBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	src.Set(5, 6, color.NRGBA{R: 99, A: 255})
	sub := src.SubImage(image.Rect(4, 4, 8, 8))

	buf := FromStdImage(sub)

	if buf.Width() != 4 || buf.Height() != 4 {
		t.Fatalf("Bounds() = (%d, %d), want (4, 4)", buf.Width(), buf.Height())
	}
	if got := rgbAt(buf, 1, 2)[0]; got != 99 {
		t.Errorf("red at (1, 2) = %d, want 99", got)
	}
}

func TestToStdImage_Gray8(t *testing.T) {
	buf, _ := NewImageBuf(3, 2, FormatGray8)
	buf.RowBytes(1)[2] = 77

	gray, ok := buf.ToStdImage().(*image.Gray)
	if !ok {
		t.Fatalf("ToStdImage() returned %T, want *image.Gray", buf.ToStdImage())
	}
	if got := gray.GrayAt(2, 1).Y; got != 77 {
		t.Errorf("GrayAt(2, 1) = %d, want 77", got)
	}
}

func TestEncodingFor(t *testing.T) {
	tests := []struct {
		path string
		want Encoding
	}{
		{"out.png", EncodingPNG},
		{"out.PNG", EncodingPNG},
		{"out.jpg", EncodingJPEG},
		{"out.jpeg", EncodingJPEG},
		{"out.bmp", EncodingBMP},
		{"out.tif", EncodingTIFF},
		{"out.tiff", EncodingTIFF},
		{"out", EncodingPNG},
		{"out.unknown", EncodingPNG},
	}
	for _, tt := range tests {
		if got := EncodingFor(tt.path); got != tt.want {
			t.Errorf("EncodingFor(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestEncodeImage_Lossless(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 5, 4))
	for y := range 4 {
		for x := range 5 {
			src.SetGray(x, y, color.Gray{Y: byte(x*40 + y)})
		}
	}

	for _, enc := range []Encoding{EncodingPNG, EncodingBMP, EncodingTIFF} {
		t.Run(enc.String(), func(t *testing.T) {
			var b bytes.Buffer
			if err := EncodeImage(&b, src, enc); err != nil {
				t.Fatalf("EncodeImage() error = %v", err)
			}

			img, err := decode(&b)
			if err != nil {
				t.Fatalf("decode() error = %v", err)
			}
			got := FromStdImage(img)
			for y := range 4 {
				for x := range 5 {
					want := src.GrayAt(x, y).Y
					for c, v := range rgbAt(got, x, y) {
						if v != want {
							t.Fatalf("(%d,%d) channel %d = %d, want %d", x, y, c, v, want)
						}
					}
				}
			}
		})
	}
}

func TestEncodeImage_JPEG(t *testing.T) {
	var b bytes.Buffer
	if err := EncodeImage(&b, image.NewGray(image.Rect(0, 0, 16, 16)), EncodingJPEG); err != nil {
		t.Fatalf("EncodeImage(JPEG) error = %v", err)
	}
	img, err := decode(&b)
	if err != nil {
		t.Fatalf("decode() error = %v", err)
	}
	if got := img.Bounds(); got != image.Rect(0, 0, 16, 16) {
		t.Errorf("Bounds() = %v, want 16x16", got)
	}
}

func TestEncodeImage_UnknownEncoding(t *testing.T) {
	var b bytes.Buffer
	err := EncodeImage(&b, image.NewGray(image.Rect(0, 0, 1, 1)), Encoding(99))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("EncodeImage(99) error = %v, want %v", err, ErrUnsupportedFormat)
	}
}

func TestDecode_Unsupported(t *testing.T) {
	_, err := decode(bytes.NewReader([]byte("definitely not an image")))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("decode(garbage) error = %v, want %v", err, ErrUnsupportedFormat)
	}
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.png"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open(missing) error = %v, want os.ErrNotExist", err)
	}
}

func TestSaveImage_PNGKeepsGray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.png")
	buf, _ := NewImageBuf(3, 3, FormatGray8)
	buf.RowBytes(1)[1] = 200

	if err := SaveImage(path, buf.ToStdImage()); err != nil {
		t.Fatalf("SaveImage() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open saved file: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	gray, ok := img.(*image.Gray)
	if !ok {
		t.Fatalf("saved PNG decoded as %T, want *image.Gray", img)
	}
	if got := gray.GrayAt(1, 1).Y; got != 200 {
		t.Errorf("GrayAt(1, 1) = %d, want 200", got)
	}
}

func TestSaveImage_UnwritablePath(t *testing.T) {
	err := SaveImage(filepath.Join(t.TempDir(), "no", "such", "dir", "out.png"), image.NewGray(image.Rect(0, 0, 1, 1)))
	if err == nil {
		t.Fatal("SaveImage() into a missing directory should fail")
	}
}

func TestSaveImage_ReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "edges.png")
	if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := SaveImage(path, image.NewGray(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("SaveImage() error = %v", err)
	}
	img, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if got := img.Bounds(); got != image.Rect(0, 0, 2, 2) {
		t.Errorf("Open() bounds = %v, want 2x2", got)
	}
	assertOnlyFile(t, dir, "edges.png")
}

func TestSaveImage_EncodeFailureKeepsExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "edges.png")
	if err := os.WriteFile(path, []byte("previous run"), 0o600); err != nil {
		t.Fatal(err)
	}

	// png refuses to encode an image with no pixels.
	if err := SaveImage(path, image.NewGray(image.Rect(0, 0, 0, 0))); err == nil {
		t.Fatal("SaveImage(empty) should fail")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("existing file was removed: %v", err)
	}
	if string(data) != "previous run" {
		t.Errorf("existing file = %q, want %q", data, "previous run")
	}
	assertOnlyFile(t, dir, "edges.png")
}

func TestSaveImage_EncodeFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	if err := SaveImage(filepath.Join(dir, "edges.png"), image.NewGray(image.Rect(0, 0, 0, 0))); err == nil {
		t.Fatal("SaveImage(empty) should fail")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("directory holds %d entries after a failed save, want 0", len(entries))
	}
}

func TestSaveImage_Open(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.bmp")
	gray := image.NewGray(image.Rect(0, 0, 4, 2))
	gray.SetGray(2, 1, color.Gray{Y: 77})

	if err := SaveImage(path, gray); err != nil {
		t.Fatalf("SaveImage() error = %v", err)
	}
	img, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if got := img.Bounds(); got != gray.Bounds() {
		t.Errorf("Open() bounds = %v, want %v", got, gray.Bounds())
	}
	r, _, _, _ := img.At(2, 1).RGBA()
	if got := uint8(r >> 8); got != 77 {
		t.Errorf("pixel (2,1) = %d, want 77", got)
	}
}

func TestOpen_Unsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.png")
	if err := os.WriteFile(path, []byte("plain text"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Open(text) error = %v, want ErrUnsupportedFormat", err)
	}
}

func rgbAt(b *ImageBuf, x, y int) [3]uint8 {
	px := b.RowBytes(y)[x*3:]
	return [3]uint8{px[0], px[1], px[2]}
}

func assertOnlyFile(t *testing.T, dir, name string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != name {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory holds %v, want only %s", names, name)
	}
}
