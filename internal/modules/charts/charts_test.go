package charts

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/aristath/nwcreek/internal/clients/northwest"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func sampleBars() []northwest.Bar {
	return []northwest.Bar{
		{Date: "2026-01-02", Open: 100, Close: 102, Volume: 1000},
		{Date: "2026-01-05", Open: 102, Close: 101, Volume: 1500},
		{Date: "2026-01-06", Open: 101, Close: 110, Volume: 900},
	}
}

func TestPadRange(t *testing.T) {
	lo, hi, ok := PadRange([]float64{100, 110}, 0.1)
	require.True(t, ok)
	assert.InDelta(t, 99, lo, 1e-9)
	assert.InDelta(t, 111, hi, 1e-9)

	lo, hi, ok = PadRange([]float64{50, 50}, 0.1)
	require.True(t, ok)
	assert.InDelta(t, 45, lo, 1e-9)
	assert.InDelta(t, 55, hi, 1e-9)

	lo, hi, ok = PadRange([]float64{0}, 0.1)
	require.True(t, ok)
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 1.0, hi)

	_, _, ok = PadRange(nil, 0.1)
	assert.False(t, ok)
}

func TestPriceChart(t *testing.T) {
	cfg := PriceChart("AAPL", sampleBars())

	assert.Equal(t, TypeLine, cfg.Type)
	assert.Equal(t, []string{"2026-01-02", "2026-01-05", "2026-01-06"}, cfg.Data.Labels)
	require.Len(t, cfg.Data.Datasets, 1)
	assert.Equal(t, 110.0, *cfg.Data.Datasets[0].Data[2])

	y := cfg.Options.Scales["y"]
	require.NotNil(t, y.SuggestedMin)
	assert.Less(t, *y.SuggestedMin, 101.0)
	assert.Greater(t, *y.SuggestedMax, 110.0)
}

func TestVolumeChart_SplitsUpAndDownDays(t *testing.T) {
	cfg := VolumeChart(sampleBars())

	require.Len(t, cfg.Data.Datasets, 2)
	up, down := cfg.Data.Datasets[0].Data, cfg.Data.Datasets[1].Data
	assert.Equal(t, 1000.0, *up[0])
	assert.Nil(t, down[0])
	assert.Nil(t, up[1])
	assert.Equal(t, 1500.0, *down[1])
}

func TestAnalysisChart_OverlaysOnlyPresentIndicators(t *testing.T) {
	a := &northwest.Analysis{
		Ticker:    "MSFT",
		ChartData: sampleBars(),
		Indicators: northwest.Indicators{
			MovingAverages: northwest.MovingAverages{SMA20: f(104)},
			BollingerBands: northwest.BollingerBands{UpperBand: f(120), MiddleBand: f(104), LowerBand: f(90)},
		},
	}

	cfg := AnalysisChart(a)

	labels := make([]string, 0, len(cfg.Data.Datasets))
	for _, ds := range cfg.Data.Datasets {
		labels = append(labels, ds.Label)
		assert.Len(t, ds.Data, 3)
	}
	assert.Equal(t, []string{"Close", "SMA 20", "Upper band", "Middle band", "Lower band"}, labels)

	// Axis covers the overlays, not just the closes
	y := cfg.Options.Scales["y"]
	assert.Less(t, *y.SuggestedMin, 90.0)
	assert.Greater(t, *y.SuggestedMax, 120.0)
}

func TestDCFChart(t *testing.T) {
	r := &northwest.DCFResult{Projections: []northwest.Projection{
		{Year: 1, CashFlow: 105, PresentValue: 95.45},
		{Year: 2, CashFlow: 110.25, PresentValue: 91.12},
	}}

	cfg := DCFChart(r)
	assert.Equal(t, TypeBar, cfg.Type)
	assert.Equal(t, []string{"Year 1", "Year 2"}, cfg.Data.Labels)
	assert.Equal(t, 91.12, *cfg.Data.Datasets[1].Data[1])
}

func TestConfig_JSON(t *testing.T) {
	js, err := PriceChart("AAPL", sampleBars()).JSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(js), &decoded))
	assert.Equal(t, "line", decoded["type"])
	assert.Contains(t, string(js), `"maintainAspectRatio":false`)
}

func TestDownsample(t *testing.T) {
	assert.Equal(t, []float64{1, 2}, Downsample([]float64{1, 2}, 5))
	assert.Equal(t, []float64{1.5, 3.5}, Downsample([]float64{1, 2, 3, 4}, 2))
}

func TestRenderArea(t *testing.T) {
	out := RenderArea([]float64{1, 2, 3, 4}, 2.5, 4, 2, lipgloss.Color("#00FF00"), lipgloss.Color("#FF0000"))
	assert.NotEmpty(t, out)
	assert.LessOrEqual(t, len(strings.Split(out, "\n")), 2)

	assert.Empty(t, RenderArea(nil, 0, 10, 3, "", ""))
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "▁█", Sparkline([]float64{1, 9}, 10))
	assert.Equal(t, "▁▁", Sparkline([]float64{5, 5}, 10))
}
