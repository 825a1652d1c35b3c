package sobel

import (
	"image"

	intImage "github.com/gogpu/sobel/internal/image"
)

// Codec reads the input image and writes the edge map.
type Codec interface {
	// Decode reads the image at path.
	Decode(path string) (image.Image, error)

	// Encode writes img to path.
	Encode(path string, img *image.Gray) error
}

// FileCodec is the default Codec. It decodes PNG, JPEG, GIF, BMP, TIFF and
// WebP by content, and encodes by the output extension: .png (also used for
// unknown extensions), .jpg/.jpeg, .bmp, .tif/.tiff.
type FileCodec struct{}

// Decode implements Codec.
func (FileCodec) Decode(path string) (image.Image, error) {
	return intImage.Open(path)
}

// Encode implements Codec. An existing file at path is replaced only once
// the new image has been fully encoded.
func (FileCodec) Encode(path string, img *image.Gray) error {
	return intImage.SaveImage(path, img)
}
