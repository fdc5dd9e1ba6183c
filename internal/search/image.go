package search

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/ncruces/zenity"
	_ "golang.org/x/image/webp"
)

var (
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrCanceled         = errors.New("image selection canceled")
)

// SniffImage reports the format of data: png, jpeg, gif or webp. Only the
// header is decoded.
func SniffImage(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	return format, nil
}

// PickImage opens a native file dialog and returns the chosen image's bytes.
func PickImage() ([]byte, string, error) {
	path, err := zenity.SelectFile(
		zenity.Title("Search by image"),
		zenity.FileFilters{{
			Name:     "Images",
			Patterns: []string{"*.png", "*.jpg", "*.jpeg", "*.gif", "*.webp"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil, "", ErrCanceled
		}
		return nil, "", err
	}
	data, err := LoadImage(path)
	return data, path, err
}

// LoadImage reads path and checks that it holds a supported image.
func LoadImage(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if _, err := SniffImage(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}
