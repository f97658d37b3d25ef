package source

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// Source yields the raster pages a run can animate. An image file has a
// single page; a PDF has one page per document page.
type Source interface {
	PageCount() int
	GetPageDimensions(index int) (width, height float64, err error)
	RenderPage(index int, dpi int) (image.Image, error)
	Hash() string
	Close() error
}

// Open picks the Source implementation by file extension.
func Open(path string) (Source, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return NewFitzPDFSource(path)
	}
	return NewImageSource(path)
}

// FitzPDFSource renders PDF pages through MuPDF.
type FitzPDFSource struct {
	doc  *fitz.Document
	path string
	hash string
}

func NewFitzPDFSource(path string) (*FitzPDFSource, error) {
	hash, err := HashFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	return &FitzPDFSource{doc: doc, path: path, hash: hash}, nil
}

func (f *FitzPDFSource) PageCount() int {
	return f.doc.NumPage()
}

func (f *FitzPDFSource) GetPageDimensions(index int) (float64, float64, error) {
	if err := f.checkIndex(index); err != nil {
		return 0, 0, err
	}
	rect, err := f.doc.Bound(index)
	if err != nil {
		return 0, 0, err
	}
	return float64(rect.Dx()), float64(rect.Dy()), nil
}

func (f *FitzPDFSource) RenderPage(index int, dpi int) (image.Image, error) {
	if err := f.checkIndex(index); err != nil {
		return nil, err
	}
	return f.doc.ImageDPI(index, float64(dpi))
}

func (f *FitzPDFSource) Hash() string {
	return f.hash
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}

func (f *FitzPDFSource) checkIndex(index int) error {
	if index < 0 || index >= f.doc.NumPage() {
		return fmt.Errorf("page %d out of range (document has %d pages)", index, f.doc.NumPage())
	}
	return nil
}
