package source

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageSource is a single raster image file exposed as a one-page Source.
type ImageSource struct {
	path string
	hash string
	img  image.Image
}

func NewImageSource(path string) (*ImageSource, error) {
	hash, err := HashFile(path)
	if err != nil {
		return nil, err
	}
	return &ImageSource{path: path, hash: hash}, nil
}

func (s *ImageSource) PageCount() int {
	return 1
}

func (s *ImageSource) GetPageDimensions(index int) (float64, float64, error) {
	if index != 0 {
		return 0, 0, fmt.Errorf("page %d out of range (image has 1 page)", index)
	}
	f, err := os.Open(s.path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return float64(cfg.Width), float64(cfg.Height), nil
}

// RenderPage decodes the image once and returns the cached result on later
// calls. dpi is ignored for raster inputs.
func (s *ImageSource) RenderPage(index int, dpi int) (image.Image, error) {
	if index != 0 {
		return nil, fmt.Errorf("page %d out of range (image has 1 page)", index)
	}
	if s.img == nil {
		img, err := DecodeFile(s.path)
		if err != nil {
			return nil, err
		}
		s.img = img
	}
	return s.img, nil
}

func (s *ImageSource) Hash() string {
	return s.hash
}

func (s *ImageSource) Close() error {
	s.img = nil
	return nil
}

// DecodeFile opens and decodes any registered raster format.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
