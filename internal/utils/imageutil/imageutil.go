package imageutil

import (
	"bytes"
	"fmt"
	"image"

	"github.com/gabriel-vasile/mimetype"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Decode sniffs the content type of data and decodes it with whichever
// registered image format matches.
func Decode(data []byte) (image.Image, string, error) {
	mtype := mimetype.Detect(data).String()

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, mtype, fmt.Errorf("failed to decode %s image: %w", mtype, err)
	}

	return img, mtype, nil
}
