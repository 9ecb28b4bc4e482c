package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/matinrusydan/Parallel-Image-Processor/internal/core"
)

// DefaultVariationThreshold is the per-channel standard deviation a dataset
// must exceed to count as varied.
const DefaultVariationThreshold = 1.0

// GlobalAverage returns the per-channel mean and population standard
// deviation over the OK results. Failed results are excluded; with no OK
// results both triples are zero.
func GlobalAverage(results []core.ItemResult) (mean, stddev core.RGB) {
	var r, g, b []float64
	for _, res := range results {
		if !res.OK() {
			continue
		}
		r = append(r, res.Channels.R)
		g = append(g, res.Channels.G)
		b = append(b, res.Channels.B)
	}
	if len(r) == 0 {
		return core.RGB{}, core.RGB{}
	}

	mean.R, stddev.R = meanStd(r)
	mean.G, stddev.G = meanStd(g)
	mean.B, stddev.B = meanStd(b)
	return mean, stddev
}

func meanStd(x []float64) (float64, float64) {
	m, v := stat.PopMeanVariance(x, nil)
	return m, math.Sqrt(v)
}

// AuditVariation reports whether every channel's standard deviation is
// strictly greater than threshold. With no OK results there is nothing to
// disprove, so the audit passes.
func AuditVariation(results []core.ItemResult, threshold float64) bool {
	ok := 0
	for _, res := range results {
		if res.OK() {
			ok++
		}
	}
	if ok == 0 {
		return true
	}

	_, std := GlobalAverage(results)
	for _, s := range std.Slice() {
		if !(s > threshold) {
			return false
		}
	}
	return true
}

type paletteEntry struct {
	name    string
	r, g, b int
}

// palette order breaks distance ties: the earlier entry wins.
var palette = []paletteEntry{
	{"Black", 0, 0, 0},
	{"White", 255, 255, 255},
	{"Red", 255, 0, 0},
	{"Green", 0, 128, 0},
	{"Blue", 0, 0, 255},
	{"Yellow", 255, 255, 0},
	{"Orange", 255, 165, 0},
	{"Magenta", 255, 0, 255},
	{"Cyan", 0, 255, 255},
	{"Gray", 128, 128, 128},
	{"Brown", 150, 75, 0},
	{"Purple", 128, 0, 128},
	{"Pink", 255, 192, 203},
	{"Cream", 240, 234, 214},
}

// PaletteNames lists the colour names NearestColor can return.
func PaletteNames() []string {
	names := make([]string, len(palette))
	for i, p := range palette {
		names[i] = p.name
	}
	return names
}

// NearestColor names the palette colour closest to c by squared Euclidean
// distance after rounding each channel half to even.
func NearestColor(c core.RGB) (string, [3]int) {
	rounded := [3]int{
		int(math.RoundToEven(c.R)),
		int(math.RoundToEven(c.G)),
		int(math.RoundToEven(c.B)),
	}

	best := palette[0].name
	bestDist := math.MaxInt
	for _, p := range palette {
		dr, dg, db := rounded[0]-p.r, rounded[1]-p.g, rounded[2]-p.b
		dist := dr*dr + dg*dg + db*db
		if dist < bestDist {
			bestDist = dist
			best = p.name
		}
	}
	return best, rounded
}
