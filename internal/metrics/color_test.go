package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matinrusydan/Parallel-Image-Processor/internal/core"
)

func ok(r, g, b float64) core.ItemResult {
	return core.Succeeded("img.png", core.RGB{R: r, G: g, B: b}, 0)
}

func TestGlobalAverage_Empty(t *testing.T) {
	mean, std := GlobalAverage(nil)
	assert.Equal(t, core.RGB{}, mean)
	assert.Equal(t, core.RGB{}, std)
}

func TestGlobalAverage_AllFailed(t *testing.T) {
	results := []core.ItemResult{
		core.Failed("a.png", errors.New("boom"), 0),
		core.Failed("b.png", errors.New("boom"), 0),
	}
	mean, std := GlobalAverage(results)
	assert.Equal(t, core.RGB{}, mean)
	assert.Equal(t, core.RGB{}, std)
}

func TestGlobalAverage_PopulationStd(t *testing.T) {
	results := []core.ItemResult{
		ok(0, 10, 100),
		ok(10, 10, 200),
		core.Failed("broken.png", errors.New("boom"), 0),
	}

	mean, std := GlobalAverage(results)
	assert.InDelta(t, 5.0, mean.R, 1e-9)
	assert.InDelta(t, 10.0, mean.G, 1e-9)
	assert.InDelta(t, 150.0, mean.B, 1e-9)

	assert.InDelta(t, 5.0, std.R, 1e-9)
	assert.InDelta(t, 0.0, std.G, 1e-9)
	assert.InDelta(t, 50.0, std.B, 1e-9)
}

func TestAuditVariation(t *testing.T) {
	assert.True(t, AuditVariation(nil, DefaultVariationThreshold), "empty input is vacuously varied")
	assert.True(t, AuditVariation([]core.ItemResult{core.Failed("x", errors.New("boom"), 0)}, 1))

	varied := []core.ItemResult{ok(0, 0, 0), ok(100, 100, 100)}
	assert.True(t, AuditVariation(varied, DefaultVariationThreshold))

	flatGreen := []core.ItemResult{ok(0, 50, 0), ok(100, 50, 100)}
	assert.False(t, AuditVariation(flatGreen, DefaultVariationThreshold))

	// std of exactly the threshold does not pass
	edge := []core.ItemResult{ok(0, 0, 0), ok(2, 2, 2)}
	assert.False(t, AuditVariation(edge, 1.0))
}

func TestNearestColor(t *testing.T) {
	tests := []struct {
		name    string
		in      core.RGB
		want    string
		rounded [3]int
	}{
		{"black", core.RGB{R: 1, G: 2, B: 3}, "Black", [3]int{1, 2, 3}},
		{"white", core.RGB{R: 250, G: 250, B: 250}, "White", [3]int{250, 250, 250}},
		{"gray", core.RGB{R: 127.6, G: 127.4, B: 130}, "Gray", [3]int{128, 127, 130}},
		{"orange", core.RGB{R: 250, G: 160, B: 10}, "Orange", [3]int{250, 160, 10}},
		{"half to even", core.RGB{R: 0.5, G: 1.5, B: 2.5}, "Black", [3]int{0, 2, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, rounded := NearestColor(tt.in)
			assert.Equal(t, tt.want, name)
			assert.Equal(t, tt.rounded, rounded)
		})
	}
}

func TestPaletteNames(t *testing.T) {
	names := PaletteNames()
	require.Len(t, names, 14)
	assert.Equal(t, "Black", names[0])
	assert.Equal(t, "Cream", names[13])
}
