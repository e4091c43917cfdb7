package loaders

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/spaghettifunk/anima-io/engine/loader"
)

// ImageResourceData is a decoded image together with its source format.
type ImageResourceData struct {
	Format string
	Width  uint32
	Height uint32
	Image  image.Image
}

// GetImage decodes id as png, jpeg, gif, bmp, tiff or webp.
func GetImage(loaded loader.Loaded, id string) (*ImageResourceData, error) {
	buf, err := loader.Get(loaded, id)
	if err != nil {
		return nil, err
	}

	img, format, err := image.Decode(bytes.NewReader(buf)) // Decodes the image (e.g., PNG, JPEG)
	if err != nil {
		return nil, &DecodeError{ID: id, Format: "image", Err: err}
	}
	bounds := img.Bounds()
	return &ImageResourceData{
		Format: format,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
		Image:  img,
	}, nil
}
