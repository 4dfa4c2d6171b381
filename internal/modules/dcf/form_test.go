package dcf

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	form := Defaults()
	form.Ticker = "AAPL"

	assert.Nil(t, form.Validate())
	assert.Equal(t, map[string]string{
		FieldTicker:          "AAPL",
		FieldGrowthRate:      "5",
		FieldTerminalGrowth:  "2.5",
		FieldDiscountRate:    "10",
		FieldProjectionYears: "5",
	}, form.Values())
}

func TestParams_PostsFractions(t *testing.T) {
	form := Defaults()

	p := form.Params()
	assert.Equal(t, 0.05, p.GrowthRate)
	assert.Equal(t, 0.025, p.TerminalGrowth)
	assert.Equal(t, 0.1, p.DiscountRate)
	assert.Equal(t, 5, p.ProjectionYears)
}

func TestRoundTrip_DisplayedValuesUnchanged(t *testing.T) {
	submitted := url.Values{
		FieldTicker:          {" msft "},
		FieldGrowthRate:      {"7.5"},
		FieldTerminalGrowth:  {"3%"},
		FieldDiscountRate:    {"9"},
		FieldProjectionYears: {"8"},
	}

	form, errs := Parse(submitted.Get)
	require.Nil(t, errs)
	require.Nil(t, form.Validate())

	before := form.Values()
	p := form.Params()
	after := form.Values()

	assert.Equal(t, before, after, "building the request must not touch the form")
	assert.Equal(t, "7.5", after[FieldGrowthRate])
	assert.Equal(t, "3", after[FieldTerminalGrowth])
	assert.Equal(t, "MSFT", after[FieldTicker])
	assert.Equal(t, 0.075, p.GrowthRate)
	assert.Equal(t, 0.03, p.TerminalGrowth)
	assert.Equal(t, 0.09, p.DiscountRate)
	assert.Equal(t, 8, p.ProjectionYears)

	// Re-parsing the displayed values yields the same form
	again, errs := Parse(func(name string) string { return after[name] })
	require.Nil(t, errs)
	assert.Equal(t, after, again.Values())
}

func TestParse_BlankFieldsKeepDefaults(t *testing.T) {
	form, errs := Parse(url.Values{FieldTicker: {"aapl"}}.Get)
	require.Nil(t, errs)
	assert.Equal(t, "AAPL", form.Ticker)
	assert.Equal(t, "5", form.Values()[FieldGrowthRate])
	assert.Equal(t, 5, form.ProjectionYears)
}

func TestParse_ReportsGarbage(t *testing.T) {
	_, errs := Parse(url.Values{
		FieldGrowthRate:      {"five"},
		FieldProjectionYears: {"5.5"},
	}.Get)
	require.NotNil(t, errs)
	assert.Contains(t, errs, FieldGrowthRate)
	assert.Contains(t, errs, FieldProjectionYears)
}

func TestValidate_Bounds(t *testing.T) {
	tests := []struct {
		name  string
		field string
		edit  func(f *Form)
	}{
		{"ticker required", FieldTicker, func(f *Form) { f.Ticker = "" }},
		{"growth too low", FieldGrowthRate, func(f *Form) { f.GrowthRate = GrowthMin.Sub(Defaults().GrowthRate) }},
		{"growth too high", FieldGrowthRate, func(f *Form) { f.GrowthRate = GrowthMax.Add(Defaults().GrowthRate) }},
		{"terminal negative", FieldTerminalGrowth, func(f *Form) { f.TerminalGrowth = TerminalMin.Sub(Defaults().TerminalGrowth) }},
		{"discount too low", FieldDiscountRate, func(f *Form) { f.DiscountRate = DiscountMin.Div(hundred) }},
		{"discount too high", FieldDiscountRate, func(f *Form) { f.DiscountRate = DiscountMax.Add(DiscountMin) }},
		{"too few years", FieldProjectionYears, func(f *Form) { f.ProjectionYears = YearsMin - 1 }},
		{"too many years", FieldProjectionYears, func(f *Form) { f.ProjectionYears = YearsMax + 1 }},
		{"terminal not below discount", FieldTerminalGrowth, func(f *Form) {
			f.TerminalGrowth = TerminalMax
			f.DiscountRate = TerminalMax
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := Defaults()
			form.Ticker = "AAPL"
			tt.edit(&form)

			errs := form.Validate()
			require.NotNil(t, errs)
			assert.Contains(t, errs, tt.field)
			assert.Len(t, errs, 1)
		})
	}
}

func TestValidate_EdgeValuesAccepted(t *testing.T) {
	form := Form{
		Ticker:          "AAPL",
		GrowthRate:      GrowthMin,
		TerminalGrowth:  TerminalMin,
		DiscountRate:    DiscountMin,
		ProjectionYears: YearsMax,
	}
	assert.Nil(t, form.Validate())
}

func TestFractionToPercent(t *testing.T) {
	assert.Equal(t, "2.5", FractionToPercent(0.025))
	assert.Equal(t, "10", FractionToPercent(0.1))
	assert.Equal(t, "-50", FractionToPercent(-0.5))
}

func TestFieldErrors_Error(t *testing.T) {
	errs := FieldErrors{FieldTicker: "is required", FieldDiscountRate: "must be a number"}
	assert.Equal(t, "discount_rate: must be a number; ticker: is required", errs.Error())
}
