package pixels

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Load decodes the image at path into an (H, W, 3) array. Any format with a
// registered decoder is accepted: PNG, JPEG, GIF, BMP, TIFF and WebP.
func Load(path string) (*Array, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	a := FromImage(img)

	event := log.Debug().
		Str("component", "pixels").
		Str("path", path).
		Str("format", format).
		Ints("shape", a.Shape())
	if info, err := f.Stat(); err == nil {
		event = event.Str("size", humanize.Bytes(uint64(info.Size())))
	}
	event.Msg("image loaded")

	return a, nil
}
