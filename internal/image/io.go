package image

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	// Decoders registered with image.Decode.
	_ "image/gif"

	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned when the image format is not supported.
var ErrUnsupportedFormat = errors.New("image: unsupported format")

// DefaultJPEGQuality is used by SaveImage for .jpg and .jpeg outputs.
const DefaultJPEGQuality = 95

// Open decodes the image at path without converting it.
// Supported formats: PNG, JPEG, GIF, BMP, TIFF, WebP. The format is detected
// from the file content, not the extension.
func Open(path string) (image.Image, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("image: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return decode(f)
}

func decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
		}
		return nil, fmt.Errorf("image: decode: %w", err)
	}
	return img, nil
}

// FromStdImage creates an RGB8 ImageBuf from a standard library image.Image.
// Alpha is discarded after un-premultiplying, matching a plain RGB8 conversion.
func FromStdImage(img image.Image) *ImageBuf {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	buf, err := NewImageBuf(width, height, FormatRGB8)
	if err != nil {
		return &ImageBuf{format: FormatRGB8}
	}

	// Fast path for grayscale sources
	if gray, ok := img.(*image.Gray); ok {
		for y := range height {
			src := gray.Pix[y*gray.Stride : y*gray.Stride+width]
			dst := buf.RowBytes(y)
			for x, v := range src {
				dst[x*3] = v
				dst[x*3+1] = v
				dst[x*3+2] = v
			}
		}
		return buf
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Rect.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, width, height))
		xdraw.Draw(nrgba, nrgba.Rect, img, bounds.Min, xdraw.Src)
	}

	for y := range height {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+width*4]
		dst := buf.RowBytes(y)
		for x := range width {
			dst[x*3] = src[x*4]
			dst[x*3+1] = src[x*4+1]
			dst[x*3+2] = src[x*4+2]
		}
	}

	return buf
}

// ToStdImage converts the ImageBuf to a standard library image.Image.
// Returns *image.Gray for FormatGray8 and an opaque *image.NRGBA for FormatRGB8.
func (b *ImageBuf) ToStdImage() image.Image {
	rect := image.Rect(0, 0, b.width, b.height)

	switch b.format {
	case FormatGray8:
		gray := image.NewGray(rect)
		for y := range b.height {
			copy(gray.Pix[y*gray.Stride:], b.RowBytes(y))
		}
		return gray

	default:
		// Expand RGB8 to opaque NRGBA
		nrgba := image.NewNRGBA(rect)
		for y := range b.height {
			row := b.RowBytes(y)
			dstStart := y * nrgba.Stride
			for x := range b.width {
				srcOff := x * 3
				dstOff := dstStart + x*4
				nrgba.Pix[dstOff] = row[srcOff]
				nrgba.Pix[dstOff+1] = row[srcOff+1]
				nrgba.Pix[dstOff+2] = row[srcOff+2]
				nrgba.Pix[dstOff+3] = 255
			}
		}
		return nrgba
	}
}

// Encoding identifies an output file format.
type Encoding uint8

const (
	EncodingPNG Encoding = iota
	EncodingJPEG
	EncodingBMP
	EncodingTIFF
)

// String returns the conventional name of the encoding.
func (e Encoding) String() string {
	switch e {
	case EncodingPNG:
		return "png"
	case EncodingJPEG:
		return "jpeg"
	case EncodingBMP:
		return "bmp"
	case EncodingTIFF:
		return "tiff"
	default:
		return "unknown"
	}
}

// EncodingFor picks the output encoding from the file extension.
// Unknown or missing extensions fall back to PNG.
func EncodingFor(path string) Encoding {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return EncodingJPEG
	case ".bmp":
		return EncodingBMP
	case ".tif", ".tiff":
		return EncodingTIFF
	default:
		return EncodingPNG
	}
}

// EncodeImage writes any image.Image to w using the given encoding.
func EncodeImage(w io.Writer, img image.Image, enc Encoding) error {
	var err error
	switch enc {
	case EncodingPNG:
		err = png.Encode(w, img)
	case EncodingJPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: DefaultJPEGQuality})
	case EncodingBMP:
		err = bmp.Encode(w, img)
	case EncodingTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return ErrUnsupportedFormat
	}
	if err != nil {
		return fmt.Errorf("image: encode %s: %w", enc, err)
	}
	return nil
}

// SaveImage writes img to path, choosing the encoding from the extension.
// The image is encoded into a temporary file next to path and renamed over
// it, so a failed encode leaves an existing file at path untouched.
func SaveImage(path string, img image.Image) error {
	path = filepath.Clean(path)
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("image: create file: %w", err)
	}
	tmp := f.Name()

	if err := EncodeImage(f, img, EncodingFor(path)); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("image: close file: %w", err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("image: chmod file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("image: rename file: %w", err)
	}
	return nil
}
