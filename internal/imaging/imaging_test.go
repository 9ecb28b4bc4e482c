package imaging

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matinrusydan/Parallel-Image-Processor/internal/core"
)

func uniform(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "red.png", uniform(20, 10, color.RGBA{R: 200, A: 255}))

	item, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, "red.png", item.Name)
	assert.Equal(t, path, item.Path)
	assert.Equal(t, 20, item.Width)
	assert.Equal(t, 10, item.Height)
	assert.Positive(t, item.Size)
	require.NotNil(t, item.Image)
	assert.Equal(t, color.RGBA{R: 200, A: 255}, item.Image.RGBAAt(3, 3))
}

func TestLoader_Failures(t *testing.T) {
	dir := t.TempDir()

	text := filepath.Join(dir, "notes.png")
	require.NoError(t, os.WriteFile(text, []byte("just some text, not pixels"), 0o644))

	truncated := filepath.Join(dir, "cut.png")
	require.NoError(t, os.WriteFile(truncated, []byte("\x89PNG\r\n\x1a\n\x00\x00"), 0o644))

	tests := []struct {
		name string
		path string
	}{
		{"missing", filepath.Join(dir, "missing.png")},
		{"directory", dir},
		{"not an image", text},
		{"truncated png", truncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().Load(tt.path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrLoad), "expected ErrLoad, got %v", err)
		})
	}
}

func TestLoader_MaxBytes(t *testing.T) {
	path := writePNG(t, t.TempDir(), "big.png", uniform(64, 64, color.RGBA{G: 10, A: 255}))

	_, err := (&Loader{MaxBytes: 8}).Load(path)
	assert.ErrorIs(t, err, core.ErrLoad)
}

func TestToRGB_DropsAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	src.SetNRGBA(5, 5, color.NRGBA{R: 100, G: 50, B: 25, A: 10})
	src.SetNRGBA(6, 5, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	dst := ToRGB(src)
	assert.Equal(t, image.Rect(0, 0, 2, 1), dst.Bounds())
	assert.Equal(t, color.RGBA{R: 100, G: 50, B: 25, A: 255}, dst.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 1, G: 2, B: 3, A: 255}, dst.RGBAAt(1, 0))
}

func TestProcessor_Mean(t *testing.T) {
	item := core.WorkItem{Name: "flat.png", Image: uniform(300, 200, color.RGBA{R: 10, G: 120, B: 250, A: 255})}

	for _, heavy := range []bool{false, true} {
		res := NewProcessor(nil).Process(item, heavy)
		require.True(t, res.OK(), "heavy=%v: %v", heavy, res.Err)
		assert.Equal(t, "flat.png", res.Label)
		assert.InDelta(t, 10, res.Channels.R, 1)
		assert.InDelta(t, 120, res.Channels.G, 1)
		assert.InDelta(t, 250, res.Channels.B, 1)
	}
}

func TestProcessor_String(t *testing.T) {
	assert.Equal(t, "resize 128x128", NewProcessor(nil).String())
}

func TestProcessor_Failures(t *testing.T) {
	p := NewProcessor(nil)

	res := p.Process(core.WorkItem{Name: "nothing.png"}, false)
	assert.False(t, res.OK())
	assert.Equal(t, "nothing.png", res.Label)
	assert.ErrorIs(t, res.Err, core.ErrProcess)

	res = p.Process(core.WorkItem{Image: image.NewRGBA(image.Rect(0, 0, 0, 0))}, false)
	assert.False(t, res.OK())
	assert.Equal(t, "<unknown>", res.Label)
	assert.ErrorIs(t, res.Err, core.ErrProcess)
}

func TestMeanColor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 0, G: 100, B: 255, A: 255})
	img.SetRGBA(1, 0, color.RGBA{R: 50, G: 100, B: 0, A: 255})

	assert.Equal(t, core.RGB{R: 25, G: 100, B: 127.5}, MeanColor(img))
	assert.Equal(t, core.RGB{}, MeanColor(image.NewRGBA(image.Rect(0, 0, 0, 0))))
}

func TestChannelEntropy(t *testing.T) {
	flat := uniform(4, 4, color.RGBA{R: 9, G: 9, B: 9, A: 255})
	assert.Equal(t, [3]float32{0, 0, 0}, channelEntropy(flat))

	split := uniform(4, 2, color.RGBA{A: 255})
	for x := 0; x < 4; x++ {
		split.SetRGBA(x, 1, color.RGBA{R: 255, A: 255})
	}
	e := channelEntropy(split)
	assert.InDelta(t, 1.0, e[0], 1e-6)
	assert.InDelta(t, 0.0, e[1], 1e-6)
}

func TestBoxBlur_PreservesUniform(t *testing.T) {
	src := uniform(8, 8, color.RGBA{R: 77, G: 78, B: 79, A: 255})
	out := gaussian3x3(boxBlur(src, 2))
	assert.Equal(t, src.Pix, out.Pix)
}
