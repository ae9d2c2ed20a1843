package pipeline

import (
	"bytes"
	"image"
	"os"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/postcard/pkg/cache"
	"github.com/matzehuels/postcard/pkg/errors"
)

// background is a decoded image plus the hash of its encoded bytes.
type background struct {
	path string
	img  image.Image
	hash string
}

// loadBackground reads and decodes a JPEG or PNG file. The hash covers the
// file content, so renaming a background keeps its cache entries.
func loadBackground(path string) (*background, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "background %s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidImage, err, "read background %s", path)
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidImage, err, "decode background %s", path)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidImage, "background %s is empty", path)
	}
	return &background{path: path, img: img, hash: cache.Hash(data)}, nil
}
