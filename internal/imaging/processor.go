package imaging

import (
	"fmt"
	"image"
	"time"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/matinrusydan/Parallel-Image-Processor/internal/core"
)

// DefaultSize is the edge length items are resized to before reduction.
const DefaultSize = 128

// Processor resizes an item and reduces it to its per-channel mean.
// Safe for concurrent use.
type Processor struct {
	Size   uint
	Filter resize.InterpolationFunction
	Log    *zap.Logger
}

// NewProcessor returns a Processor using a 128x128 Lanczos3 resize.
func NewProcessor(log *zap.Logger) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{Size: DefaultSize, Filter: resize.Lanczos3, Log: log}
}

// Process implements core.Processor. It never panics; any failure becomes a
// failed result labelled with the item's name.
func (p *Processor) Process(item core.WorkItem, heavy bool) (res core.ItemResult) {
	start := time.Now()
	label := item.Name
	if label == "" {
		label = "<unknown>"
	}

	defer func() {
		if r := recover(); r != nil {
			res = core.Failed(label, errors.Wrapf(core.ErrProcess, "panic: %v", r), time.Since(start))
		}
	}()

	if item.Image == nil {
		return core.Failed(label, errors.Wrap(core.ErrProcess, "no image payload"), time.Since(start))
	}
	if item.Image.Bounds().Empty() {
		return core.Failed(label, errors.Wrap(core.ErrProcess, "empty image"), time.Since(start))
	}

	size := p.Size
	if size == 0 {
		size = DefaultSize
	}
	resized := asRGBA(resize.Resize(size, size, item.Image, p.Filter))

	if heavy {
		var entropy [3]float32
		resized, entropy = heavyPass(resized)
		if p.Log != nil {
			p.Log.Debug("heavy pass",
				zap.String("item", label),
				zap.Float32s("entropy", entropy[:]),
			)
		}
	}

	return core.Succeeded(label, MeanColor(resized), time.Since(start))
}

// MeanColor returns the per-channel mean of img on the 0..255 scale.
func MeanColor(img *image.RGBA) core.RGB {
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return core.RGB{}
	}

	var r, g, bl uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		row := img.Pix[off : off+b.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			r += uint64(row[i])
			g += uint64(row[i+1])
			bl += uint64(row[i+2])
		}
	}
	return core.RGB{
		R: float64(r) / float64(n),
		G: float64(g) / float64(n),
		B: float64(bl) / float64(n),
	}
}

func asRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	return ToRGB(img)
}

// String describes the processor for logs.
func (p *Processor) String() string {
	return fmt.Sprintf("resize %dx%d", p.Size, p.Size)
}
