package classifier

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// ErrEmptyImage is returned for an empty upload.
var ErrEmptyImage = errors.New("empty file")

// CheckImage verifies that data decodes as a supported image and returns
// its format name.
func CheckImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyImage
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("unsupported image: %w", err)
	}
	return format, nil
}
