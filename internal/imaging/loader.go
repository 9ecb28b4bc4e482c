// Package imaging implements the item collaborators of the pipeline:
// decoding image files into RGBA work items and reducing them to their
// average colour.
package imaging

import (
	"bytes"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"

	"github.com/matinrusydan/Parallel-Image-Processor/internal/core"
)

// Loader reads image files from disk. The zero value is ready to use and
// safe for concurrent use.
type Loader struct {
	// MaxBytes rejects files larger than this many bytes. Zero means no limit.
	MaxBytes int64
}

// NewLoader returns a Loader with no size limit.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads, sniffs and decodes the file at path. Every failure wraps
// core.ErrLoad.
func (l *Loader) Load(path string) (core.WorkItem, error) {
	name := filepath.Base(path)

	info, err := os.Stat(path)
	if err != nil {
		return core.WorkItem{}, errors.Wrapf(core.ErrLoad, "stat %s: %v", name, err)
	}
	if info.IsDir() {
		return core.WorkItem{}, errors.Wrapf(core.ErrLoad, "%s is a directory", name)
	}
	if l.MaxBytes > 0 && info.Size() > l.MaxBytes {
		return core.WorkItem{}, errors.Wrapf(core.ErrLoad, "%s is %d bytes, limit %d", name, info.Size(), l.MaxBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return core.WorkItem{}, errors.Wrapf(core.ErrLoad, "read %s: %v", name, err)
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return core.WorkItem{}, errors.Wrapf(core.ErrLoad, "%s has content type %s", name, mtype.String())
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return core.WorkItem{}, errors.Wrapf(core.ErrLoad, "decode %s: %v", name, err)
	}

	rgba := ToRGB(img)
	b := rgba.Bounds()
	return core.WorkItem{
		Path:   path,
		Name:   name,
		Image:  rgba,
		Width:  b.Dx(),
		Height: b.Dy(),
		Size:   int64(len(data)),
	}, nil
}

// ToRGB converts src to an opaque 8-bit RGBA image anchored at the origin.
// Alpha is discarded rather than premultiplied, so a translucent pixel keeps
// its straight colour values.
func ToRGB(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	if rgba, ok := src.(*image.RGBA); ok && rgba.Opaque() {
		for y := 0; y < b.Dy(); y++ {
			srcOff := rgba.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+b.Dx()*4], rgba.Pix[srcOff:srcOff+b.Dx()*4])
		}
		return dst
	}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			dst.Pix[i+0] = c.R
			dst.Pix[i+1] = c.G
			dst.Pix[i+2] = c.B
			dst.Pix[i+3] = 0xff
			i += 4
		}
	}
	return dst
}
