package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThresholds_Nil(t *testing.T) {
	var th *Thresholds
	results := th.Check(sampleRows())
	assert.True(t, results.Passed)
	assert.Empty(t, results.Results)
}

func TestThresholds_SkipSerialRow(t *testing.T) {
	th := &Thresholds{MinSpeedup: 1.5}
	results := th.Check(sampleRows()[:1])
	assert.True(t, results.Passed)
	assert.Empty(t, results.Results)
}

func TestThresholds_Speedup(t *testing.T) {
	th := &Thresholds{MinSpeedup: 3}
	results := th.Check(sampleRows())

	assert.False(t, results.Passed)
	require.Len(t, results.Results, 2)
	violations := results.Violations()
	require.Len(t, violations, 1)
	assert.Equal(t, "nim_config.speedup", violations[0].Name)
	assert.Equal(t, ">= 3.00", violations[0].Threshold)
	assert.Equal(t, "2.00", violations[0].Actual)
}

func TestThresholds_Efficiency(t *testing.T) {
	th := &Thresholds{MinEfficiency: "110%"}
	results := th.Check(sampleRows())

	assert.False(t, results.Passed)
	violations := results.Violations()
	require.Len(t, violations, 1)
	assert.Equal(t, "nim_config.efficiency", violations[0].Name)
	assert.Equal(t, "100.00%", violations[0].Actual)
}

func TestThresholds_InvalidEfficiencyIgnored(t *testing.T) {
	th := &Thresholds{MinEfficiency: "80"}
	results := th.Check(sampleRows())
	assert.True(t, results.Passed)
	assert.Empty(t, results.Results)
}

func TestThresholds_MaxTime(t *testing.T) {
	th := &Thresholds{MaxTime: 1500 * time.Millisecond}
	results := th.Check(sampleRows())

	violations := results.Violations()
	require.Len(t, violations, 1)
	assert.Equal(t, "nim_config.time", violations[0].Name)
	assert.Equal(t, "2.0s", violations[0].Actual)
}

func TestThresholds_AllPass(t *testing.T) {
	th := &Thresholds{MinSpeedup: 1.5, MinEfficiency: "50%", MaxTime: 3 * time.Second}
	results := th.Check(sampleRows())
	assert.True(t, results.Passed)
	assert.Len(t, results.Results, 6)
	assert.Empty(t, results.Violations())
}

func TestFormatThresholds(t *testing.T) {
	th := &Thresholds{MinSpeedup: 3}
	var buf bytes.Buffer
	FormatThresholds(&buf, th.Check(sampleRows()))
	assert.Contains(t, buf.String(), "✗ nim_config.speedup: 2.00 (threshold >= 3.00)")
	assert.Contains(t, buf.String(), "✓ alt_config.speedup")

	buf.Reset()
	FormatThresholds(&buf, nil)
	assert.Empty(t, buf.String())
}
