package canvasrenderer

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrNotImage marks sources whose content is not a decodable image.
var ErrNotImage = errors.New("not an image")

// ImageSource resolves an image reference to its encoded bytes.
type ImageSource interface {
	Open(src string) ([]byte, error)
}

// DirSource reads images from the file system. Relative paths are resolved
// against BaseDir and refused when BaseDir is empty. Blobs registered under
// "built-in:<name>" take precedence over files.
type DirSource struct {
	BaseDir string
	Blobs   map[string][]byte
}

func (d DirSource) Open(src string) ([]byte, error) {
	if name, ok := builtinName(src); ok {
		blob, ok := d.Blobs[name]
		if !ok {
			return nil, fmt.Errorf("built-in image %q not found", name)
		}
		return blob, nil
	}
	path := src
	if !filepath.IsAbs(path) {
		if d.BaseDir == "" {
			return nil, fmt.Errorf("relative image path %q without a base directory", src)
		}
		path = filepath.Join(d.BaseDir, path)
	}
	return os.ReadFile(path)
}

func builtinName(src string) (string, bool) {
	for _, prefix := range []string{"built-in:", "builtin:"} {
		if strings.HasPrefix(src, prefix) {
			return strings.TrimPrefix(src, prefix), true
		}
	}
	return "", false
}

// loadImage reads, sniffs and decodes src. Decoded images are cached for the
// lifetime of the renderer since logos repeat on every page.
func (r *Renderer) loadImage(src string) (image.Image, error) {
	r.imgMu.Lock()
	defer r.imgMu.Unlock()
	if img, ok := r.imgCache[src]; ok {
		return img, nil
	}
	data, err := r.images.Open(src)
	if err != nil {
		return nil, err
	}
	img, err := decodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("image %s: %w", src, err)
	}
	r.imgCache[src] = img
	return img, nil
}

func decodeImage(data []byte) (image.Image, error) {
	if !filetype.IsImage(data) {
		kind, _ := filetype.Match(data)
		if kind == filetype.Unknown {
			return nil, ErrNotImage
		}
		return nil, fmt.Errorf("%w: detected %s", ErrNotImage, kind.MIME.Value)
	}
	return imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
}

// contain scales an image of iw×ih into a box, preserving aspect ratio, and
// returns the drawn size.
func contain(iw, ih int, boxW, boxH float64) (w, h float64) {
	if iw <= 0 || ih <= 0 {
		return 0, 0
	}
	scale := min(boxW/float64(iw), boxH/float64(ih))
	return float64(iw) * scale, float64(ih) * scale
}

// downsample limits img to the pixel budget of a w×h mm box at dpmm.
func downsample(img image.Image, w, h, dpmm float64) image.Image {
	maxW, maxH := int(w*dpmm+0.5), int(h*dpmm+0.5)
	b := img.Bounds()
	if maxW <= 0 || maxH <= 0 || (b.Dx() <= maxW && b.Dy() <= maxH) {
		return img
	}
	return imaging.Fit(img, maxW, maxH, imaging.Lanczos)
}
