// Package charts maps fetched series into chart configuration objects consumed by the
// browser charting library, and renders the same series for the terminal.
// Nothing here computes an indicator: every value comes from the backend.
package charts

import (
	"encoding/json"
	"html/template"

	"gonum.org/v1/gonum/floats"
)

// Chart types understood by the charting library.
const (
	TypeLine = "line"
	TypeBar  = "bar"
)

// Config is a chart.js configuration object.
type Config struct {
	Type    string  `json:"type"`
	Data    Data    `json:"data"`
	Options Options `json:"options"`
}

// Data holds labels and datasets.
type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset is one series. Nil entries in Data are gaps.
type Dataset struct {
	Type            string     `json:"type,omitempty"`
	Label           string     `json:"label"`
	Data            []*float64 `json:"data"`
	BorderColor     string     `json:"borderColor,omitempty"`
	BackgroundColor string     `json:"backgroundColor,omitempty"`
	BorderWidth     float64    `json:"borderWidth,omitempty"`
	BorderDash      []int      `json:"borderDash,omitempty"`
	Fill            bool       `json:"fill"`
	Tension         float64    `json:"tension,omitempty"`
	PointRadius     *int       `json:"pointRadius,omitempty"`
	YAxisID         string     `json:"yAxisID,omitempty"`
	Order           int        `json:"order,omitempty"`
}

// Options holds the subset of chart.js options the pages use.
type Options struct {
	Responsive          bool             `json:"responsive"`
	MaintainAspectRatio bool             `json:"maintainAspectRatio"`
	Interaction         *Interaction     `json:"interaction,omitempty"`
	Plugins             Plugins          `json:"plugins"`
	Scales              map[string]Scale `json:"scales,omitempty"`
}

// Interaction configures hover behaviour.
type Interaction struct {
	Mode      string `json:"mode"`
	Intersect bool   `json:"intersect"`
}

// Plugins configures legend and title.
type Plugins struct {
	Legend Legend `json:"legend"`
	Title  Title  `json:"title"`
}

// Legend visibility.
type Legend struct {
	Display  bool   `json:"display"`
	Position string `json:"position,omitempty"`
}

// Title of the chart or an axis.
type Title struct {
	Display bool   `json:"display"`
	Text    string `json:"text,omitempty"`
}

// Scale is one axis.
type Scale struct {
	Display      bool     `json:"display"`
	Position     string   `json:"position,omitempty"`
	SuggestedMin *float64 `json:"suggestedMin,omitempty"`
	SuggestedMax *float64 `json:"suggestedMax,omitempty"`
	BeginAtZero  bool     `json:"beginAtZero,omitempty"`
	Title        *Title   `json:"title,omitempty"`
	Grid         *Grid    `json:"grid,omitempty"`
}

// Grid line visibility.
type Grid struct {
	Display bool `json:"display"`
}

// JSON marshals the config for embedding in a page.
func (c Config) JSON() (template.JS, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return template.JS(data), nil
}

// PadRange returns suggested axis bounds around values, widened by frac of the
// range on each side. A flat series is padded by frac of its magnitude.
func PadRange(values []float64, frac float64) (lo, hi float64, ok bool) {
	if len(values) == 0 {
		return 0, 0, false
	}
	lo, hi = floats.Min(values), floats.Max(values)
	pad := (hi - lo) * frac
	if hi == lo {
		pad = abs(hi) * frac
		if pad == 0 {
			pad = 1
		}
	}
	return lo - pad, hi + pad, true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func values(vs []float64) []*float64 {
	out := make([]*float64, len(vs))
	for i := range vs {
		out[i] = &vs[i]
	}
	return out
}

// constant repeats v n times; a nil v yields gaps.
func constant(v *float64, n int) []*float64 {
	out := make([]*float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func intPtr(v int) *int { return &v }

func paddedScale(vals []float64, frac float64) Scale {
	s := Scale{Display: true, Grid: &Grid{Display: true}}
	if lo, hi, ok := PadRange(vals, frac); ok {
		s.SuggestedMin = &lo
		s.SuggestedMax = &hi
	}
	return s
}
