// Package dcf holds the DCF valuation form: percent-valued inputs shown to the user,
// converted to the fractions the backend expects only when the request is built.
package dcf

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aristath/nwcreek/internal/clients/northwest"
	"github.com/aristath/nwcreek/internal/utils"
	"github.com/shopspring/decimal"
)

// Form field names, shared by the HTML form and the TUI inputs.
const (
	FieldTicker          = "ticker"
	FieldGrowthRate      = "growth_rate"
	FieldTerminalGrowth  = "terminal_growth"
	FieldDiscountRate    = "discount_rate"
	FieldProjectionYears = "projection_years"
)

var hundred = decimal.NewFromInt(100)

// Bounds in percent, mirroring the backend's query validation.
var (
	GrowthMin   = decimal.NewFromInt(-50)
	GrowthMax   = decimal.NewFromInt(100)
	TerminalMin = decimal.Zero
	TerminalMax = decimal.NewFromInt(10)
	DiscountMin = decimal.NewFromInt(1)
	DiscountMax = decimal.NewFromInt(30)
)

// Projection year bounds.
const (
	YearsMin = 3
	YearsMax = 10
)

// Form is the DCF input state. Rates are percentages as the user typed them.
type Form struct {
	Ticker          string
	GrowthRate      decimal.Decimal
	TerminalGrowth  decimal.Decimal
	DiscountRate    decimal.Decimal
	ProjectionYears int
}

// Defaults returns the backend's default assumptions: 5%, 2.5%, 10%, 5 years.
func Defaults() Form {
	return Form{
		GrowthRate:      decimal.NewFromInt(5),
		TerminalGrowth:  decimal.RequireFromString("2.5"),
		DiscountRate:    decimal.NewFromInt(10),
		ProjectionYears: 5,
	}
}

// FieldErrors maps a field name to its message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return strings.Join(parts, "; ")
}

// Getter reads one submitted field; url.Values.Get satisfies it.
type Getter func(name string) string

// Parse reads submitted text into a Form starting from the defaults. Blank rate
// fields keep their defaults. Unparseable fields are reported and keep the default.
func Parse(get Getter) (Form, FieldErrors) {
	form := Defaults()
	errs := FieldErrors{}

	form.Ticker = utils.NormalizeTicker(get(FieldTicker))

	parseRate := func(name string, dst *decimal.Decimal) {
		raw := strings.TrimSuffix(strings.TrimSpace(get(name)), "%")
		if raw == "" {
			return
		}
		d, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			errs[name] = "must be a number"
			return
		}
		*dst = d
	}
	parseRate(FieldGrowthRate, &form.GrowthRate)
	parseRate(FieldTerminalGrowth, &form.TerminalGrowth)
	parseRate(FieldDiscountRate, &form.DiscountRate)

	if raw := strings.TrimSpace(get(FieldProjectionYears)); raw != "" {
		years, err := strconv.Atoi(raw)
		if err != nil {
			errs[FieldProjectionYears] = "must be a whole number"
		} else {
			form.ProjectionYears = years
		}
	}

	if len(errs) == 0 {
		return form, nil
	}
	return form, errs
}

// Validate checks the form against the backend bounds. It returns nil when valid.
func (f Form) Validate() FieldErrors {
	errs := FieldErrors{}

	if f.Ticker == "" {
		errs[FieldTicker] = "is required"
	}
	checkRange(errs, FieldGrowthRate, f.GrowthRate, GrowthMin, GrowthMax)
	checkRange(errs, FieldTerminalGrowth, f.TerminalGrowth, TerminalMin, TerminalMax)
	checkRange(errs, FieldDiscountRate, f.DiscountRate, DiscountMin, DiscountMax)
	if f.ProjectionYears < YearsMin || f.ProjectionYears > YearsMax {
		errs[FieldProjectionYears] = fmt.Sprintf("must be between %d and %d", YearsMin, YearsMax)
	}
	if _, bad := errs[FieldTerminalGrowth]; !bad {
		if _, bad := errs[FieldDiscountRate]; !bad && !f.TerminalGrowth.LessThan(f.DiscountRate) {
			errs[FieldTerminalGrowth] = "must be lower than the discount rate"
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func checkRange(errs FieldErrors, field string, v, lo, hi decimal.Decimal) {
	if v.LessThan(lo) || v.GreaterThan(hi) {
		errs[field] = fmt.Sprintf("must be between %s%% and %s%%", lo.String(), hi.String())
	}
}

// Params converts the percentages into the fractions sent as query parameters.
// The form itself is not modified.
func (f Form) Params() northwest.DCFParams {
	return northwest.DCFParams{
		GrowthRate:      f.GrowthRate.Div(hundred).InexactFloat64(),
		TerminalGrowth:  f.TerminalGrowth.Div(hundred).InexactFloat64(),
		DiscountRate:    f.DiscountRate.Div(hundred).InexactFloat64(),
		ProjectionYears: f.ProjectionYears,
	}
}

// Values returns the displayed text of every field, e.g. growth 5 -> "5".
func (f Form) Values() map[string]string {
	return map[string]string{
		FieldTicker:          f.Ticker,
		FieldGrowthRate:      f.GrowthRate.String(),
		FieldTerminalGrowth:  f.TerminalGrowth.String(),
		FieldDiscountRate:    f.DiscountRate.String(),
		FieldProjectionYears: strconv.Itoa(f.ProjectionYears),
	}
}

// FractionToPercent renders a backend fraction (0.025) as percent text ("2.5").
func FractionToPercent(fraction float64) string {
	return decimal.NewFromFloat(fraction).Mul(hundred).String()
}
