package imaging

import (
	"image"

	"github.com/chewxy/math32"
)

const (
	blurRadius = 2
	blurPasses = 2
)

// heavyPass runs the extra workload used to make per-item compute CPU bound:
// box blur passes, a 3x3 Gaussian and a per-channel histogram entropy.
func heavyPass(img *image.RGBA) (*image.RGBA, [3]float32) {
	for i := 0; i < blurPasses; i++ {
		img = boxBlur(img, blurRadius)
	}
	img = gaussian3x3(img)
	return img, channelEntropy(img)
}

// boxBlur applies a separable box blur with clamped edges.
func boxBlur(src *image.RGBA, radius int) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	tmp := image.NewRGBA(b)
	dst := image.NewRGBA(b)
	window := 2*radius + 1

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum [4]int
			for k := -radius; k <= radius; k++ {
				off := src.PixOffset(b.Min.X+clamp(x+k, w), b.Min.Y+y)
				for c := 0; c < 4; c++ {
					sum[c] += int(src.Pix[off+c])
				}
			}
			off := tmp.PixOffset(b.Min.X+x, b.Min.Y+y)
			for c := 0; c < 4; c++ {
				tmp.Pix[off+c] = uint8(sum[c] / window)
			}
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum [4]int
			for k := -radius; k <= radius; k++ {
				off := tmp.PixOffset(b.Min.X+x, b.Min.Y+clamp(y+k, h))
				for c := 0; c < 4; c++ {
					sum[c] += int(tmp.Pix[off+c])
				}
			}
			off := dst.PixOffset(b.Min.X+x, b.Min.Y+y)
			for c := 0; c < 4; c++ {
				dst.Pix[off+c] = uint8(sum[c] / window)
			}
		}
	}
	return dst
}

var gaussKernel = [3][3]int{
	{1, 2, 1},
	{2, 4, 2},
	{1, 2, 1},
}

func gaussian3x3(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(b)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum [4]int
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					weight := gaussKernel[ky+1][kx+1]
					off := src.PixOffset(b.Min.X+clamp(x+kx, w), b.Min.Y+clamp(y+ky, h))
					for c := 0; c < 4; c++ {
						sum[c] += weight * int(src.Pix[off+c])
					}
				}
			}
			off := dst.PixOffset(b.Min.X+x, b.Min.Y+y)
			for c := 0; c < 4; c++ {
				dst.Pix[off+c] = uint8((sum[c] + 8) / 16)
			}
		}
	}
	return dst
}

// channelEntropy returns the Shannon entropy in bits of each colour channel's
// 256-bin histogram.
func channelEntropy(img *image.RGBA) [3]float32 {
	var hist [3][256]int
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		row := img.Pix[off : off+b.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			hist[0][row[i]]++
			hist[1][row[i+1]]++
			hist[2][row[i+2]]++
		}
	}

	n := float32(b.Dx() * b.Dy())
	var out [3]float32
	if n == 0 {
		return out
	}
	for c := range hist {
		var e float32
		for _, count := range hist[c] {
			if count == 0 {
				continue
			}
			p := float32(count) / n
			e -= p * math32.Log2(p)
		}
		out[c] = e
	}
	return out
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
