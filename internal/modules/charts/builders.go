package charts

import (
	"fmt"

	"github.com/aristath/nwcreek/internal/clients/northwest"
)

// Palette
const (
	ColorPrice     = "#2563EB"
	ColorPriceFill = "rgba(37, 99, 235, 0.12)"
	ColorUp        = "#16A34A"
	ColorDown      = "#DC2626"
	ColorSMA20     = "#F59E0B"
	ColorSMA50     = "#8B5CF6"
	ColorSMA200    = "#EC4899"
	ColorBand      = "#64748B"
	ColorCashFlow  = "#0EA5E9"
	ColorPresent   = "#22C55E"
)

// axisPadding widens price axes by 5% of the visible range.
const axisPadding = 0.05

// ChartDataPoint is a single labelled value.
type ChartDataPoint struct {
	Time  string  `json:"time"`  // YYYY-MM-DD
	Value float64 `json:"value"` // Close price
}

// Closes extracts the close series from bars.
func Closes(bars []northwest.Bar) []ChartDataPoint {
	out := make([]ChartDataPoint, len(bars))
	for i, b := range bars {
		out[i] = ChartDataPoint{Time: b.Date, Value: b.Close}
	}
	return out
}

func split(points []ChartDataPoint) ([]string, []float64) {
	labels := make([]string, len(points))
	vals := make([]float64, len(points))
	for i, p := range points {
		labels[i] = p.Time
		vals[i] = p.Value
	}
	return labels, vals
}

func baseOptions(title string) Options {
	return Options{
		Responsive:          true,
		MaintainAspectRatio: false,
		Interaction:         &Interaction{Mode: "index", Intersect: false},
		Plugins: Plugins{
			Legend: Legend{Display: true, Position: "top"},
			Title:  Title{Display: title != "", Text: title},
		},
	}
}

// PriceChart is a filled close-price line.
func PriceChart(ticker string, bars []northwest.Bar) Config {
	labels, closes := split(Closes(bars))

	opts := baseOptions(fmt.Sprintf("%s price", ticker))
	opts.Plugins.Legend.Display = false
	opts.Scales = map[string]Scale{
		"x": {Display: true, Grid: &Grid{Display: false}},
		"y": paddedScale(closes, axisPadding),
	}

	return Config{
		Type: TypeLine,
		Data: Data{
			Labels: labels,
			Datasets: []Dataset{{
				Label:           "Close",
				Data:            values(closes),
				BorderColor:     ColorPrice,
				BackgroundColor: ColorPriceFill,
				BorderWidth:     2,
				Fill:            true,
				Tension:         0.25,
				PointRadius:     intPtr(0),
			}},
		},
		Options: opts,
	}
}

// VolumeChart is a bar per day, green on up days and red on down days.
// Per-bar colors are not expressible in Dataset, so up and down days are two stacked series.
func VolumeChart(bars []northwest.Bar) Config {
	labels := make([]string, len(bars))
	up := make([]*float64, len(bars))
	down := make([]*float64, len(bars))
	for i := range bars {
		labels[i] = bars[i].Date
		v := bars[i].Volume
		if bars[i].Close >= bars[i].Open {
			up[i] = &v
		} else {
			down[i] = &v
		}
	}

	opts := baseOptions("Volume")
	opts.Plugins.Legend.Display = false
	opts.Scales = map[string]Scale{
		"x": {Display: true, Grid: &Grid{Display: false}},
		"y": {Display: true, BeginAtZero: true},
	}

	return Config{
		Type: TypeBar,
		Data: Data{
			Labels: labels,
			Datasets: []Dataset{
				{Label: "Up", Data: up, BackgroundColor: ColorUp},
				{Label: "Down", Data: down, BackgroundColor: ColorDown},
			},
		},
		Options: opts,
	}
}

// AnalysisChart is the close line with the backend's current moving averages and
// Bollinger bands drawn as horizontal overlays. Missing indicators are omitted.
func AnalysisChart(a *northwest.Analysis) Config {
	labels, closes := split(Closes(a.ChartData))
	n := len(labels)

	datasets := []Dataset{{
		Label:       "Close",
		Data:        values(closes),
		BorderColor: ColorPrice,
		BorderWidth: 2,
		Tension:     0.2,
		PointRadius: intPtr(0),
		Order:       1,
	}}
	axis := append([]float64(nil), closes...)

	overlay := func(label string, v *float64, color string, dash []int) {
		if v == nil {
			return
		}
		axis = append(axis, *v)
		datasets = append(datasets, Dataset{
			Label:       label,
			Data:        constant(v, n),
			BorderColor: color,
			BorderWidth: 1,
			BorderDash:  dash,
			PointRadius: intPtr(0),
			Order:       2,
		})
	}

	ma := a.Indicators.MovingAverages
	overlay("SMA 20", ma.SMA20, ColorSMA20, nil)
	overlay("SMA 50", ma.SMA50, ColorSMA50, nil)
	overlay("SMA 200", ma.SMA200, ColorSMA200, nil)

	bb := a.Indicators.BollingerBands
	overlay("Upper band", bb.UpperBand, ColorBand, []int{6, 4})
	overlay("Middle band", bb.MiddleBand, ColorBand, []int{2, 2})
	overlay("Lower band", bb.LowerBand, ColorBand, []int{6, 4})

	opts := baseOptions(fmt.Sprintf("%s technical overview", a.Ticker))
	opts.Scales = map[string]Scale{
		"x": {Display: true, Grid: &Grid{Display: false}},
		"y": paddedScale(axis, axisPadding),
	}

	return Config{
		Type:    TypeLine,
		Data:    Data{Labels: labels, Datasets: datasets},
		Options: opts,
	}
}

// DCFChart compares projected cash flows with their present values per year.
func DCFChart(r *northwest.DCFResult) Config {
	labels := make([]string, len(r.Projections))
	cash := make([]float64, len(r.Projections))
	present := make([]float64, len(r.Projections))
	for i, p := range r.Projections {
		labels[i] = fmt.Sprintf("Year %d", p.Year)
		cash[i] = p.CashFlow
		present[i] = p.PresentValue
	}

	opts := baseOptions("Projected cash flows")
	opts.Scales = map[string]Scale{
		"x": {Display: true, Grid: &Grid{Display: false}},
		"y": {Display: true, BeginAtZero: true, Title: &Title{Display: true, Text: "USD"}},
	}

	return Config{
		Type: TypeBar,
		Data: Data{
			Labels: labels,
			Datasets: []Dataset{
				{Label: "Cash flow", Data: values(cash), BackgroundColor: ColorCashFlow},
				{Label: "Present value", Data: values(present), BackgroundColor: ColorPresent},
			},
		},
		Options: opts,
	}
}
