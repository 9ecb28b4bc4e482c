package dataset

import (
	"fmt"
	"image"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
)

// DefaultImageSize is the edge length of generated images.
const DefaultImageSize = 256

// FileName returns the name of the i-th generated image.
func FileName(i int) string {
	return fmt.Sprintf("generated_%04d.png", i)
}

// Generate writes count random-noise PNG images of size x size pixels into
// folder, creating it if needed. Image i is drawn from a generator seeded
// with seed+i, so output is byte-identical for a given seed.
func Generate(folder string, count, size int, seed int64) error {
	if size <= 0 {
		size = DefaultImageSize
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return fmt.Errorf("creating folder: %w", err)
	}

	for i := 0; i < count; i++ {
		img := Noise(size, seed+int64(i))
		if err := writePNG(filepath.Join(folder, FileName(i)), img); err != nil {
			return err
		}
	}
	return nil
}

// Noise returns an opaque image of uniformly random pixels.
func Noise(size int, seed int64) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = uint8(rng.Intn(256))
		img.Pix[i+1] = uint8(rng.Intn(256))
		img.Pix[i+2] = uint8(rng.Intn(256))
		img.Pix[i+3] = 0xff
	}
	return img
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
