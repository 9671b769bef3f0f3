package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"

	"github.com/dgallion1/reportgen/internal/report"
	"github.com/dgallion1/reportgen/internal/style"
)

// ImageLoader resolves an image locator to its bytes.
type ImageLoader interface {
	Load(url string) (Image, error)
}

// FileLoader reads images from the local filesystem. Relative locators
// are resolved against Root. With Confine set, a locator that resolves
// outside Root is refused, and so is every locator when Root is empty.
type FileLoader struct {
	Root    string
	Confine bool
}

var (
	errNotImage    = errors.New("not a recognized image")
	errOutsideRoot = errors.New("locator outside image root")
	errNoRoot      = errors.New("no image root configured")
)

func (l FileLoader) Load(url string) (Image, error) {
	if url == "" {
		return Image{}, errors.New("empty locator")
	}
	path := url
	if !filepath.IsAbs(path) && l.Root != "" {
		path = filepath.Join(l.Root, path)
	}
	if l.Confine {
		var err error
		if path, err = l.confine(path); err != nil {
			return Image{}, err
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, err
	}
	kind, err := filetype.Match(data)
	if err != nil {
		return Image{}, fmt.Errorf("sniff type: %w", err)
	}
	if !filetype.IsImage(data) {
		return Image{}, errNotImage
	}
	return Image{Data: data, Format: kind.Extension}, nil
}

// confine returns the absolute form of path if it lies inside Root.
func (l FileLoader) confine(path string) (string, error) {
	if l.Root == "" {
		return "", errNoRoot
	}
	root, err := filepath.Abs(l.Root)
	if err != nil {
		return "", fmt.Errorf("image root: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errOutsideRoot
	}
	return abs, nil
}

// RenderPicture appends a centered paragraph holding the image scaled to
// spec.Size cm wide, then the caption. Both failure modes return a
// *ResourceError and skip the caption: a load failure writes nothing, an
// embed failure leaves the picture paragraph empty.
func RenderPicture(s Surface, spec report.PictureSpec, loader ImageLoader, captionStyle style.Record) error {
	if _, err := style.ParseAlignment(string(captionStyle.Alignment)); err != nil {
		return err
	}
	img, err := loader.Load(spec.URL)
	if err != nil {
		return &ResourceError{URL: spec.URL, Err: err}
	}
	p := s.AddParagraph()
	if err := p.AddPicture(img, spec.Size); err != nil {
		return &ResourceError{URL: spec.URL, Err: err}
	}
	p.SetAlignment(style.AlignCenter)
	return RenderParagraph(s, spec.Name, captionStyle, captionStyle)
}
