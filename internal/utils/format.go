package utils

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency every backend amount is quoted in.
const Currency = money.USD

// Dash is shown for values the backend sent as null.
const Dash = "—"

// toMoney converts a float dollar amount to integer cents without float drift.
func toMoney(amount float64) *money.Money {
	cents := decimal.NewFromFloat(amount).Shift(2).Round(0).IntPart()
	return money.New(cents, Currency)
}

// USD formats an amount as "$1,234.56".
func USD(amount float64) string {
	return toMoney(amount).Display()
}

// CentsUSD formats an integer cent amount as "$20.00".
func CentsUSD(cents int64) string {
	return money.New(cents, Currency).Display()
}

// SignedUSD formats an amount with an explicit sign: "+$12.00", "-$3.50".
func SignedUSD(amount float64) string {
	m := toMoney(amount)
	if m.IsNegative() {
		return "-" + m.Absolute().Display()
	}
	return "+" + m.Display()
}

// USDPtr formats a nullable amount.
func USDPtr(amount *float64) string {
	if amount == nil {
		return Dash
	}
	return USD(*amount)
}

// SignedUSDPtr formats a nullable amount with a sign.
func SignedUSDPtr(amount *float64) string {
	if amount == nil {
		return Dash
	}
	return SignedUSD(*amount)
}

// Percent formats a percentage value (5 -> "5.00%").
func Percent(p float64) string {
	return decimal.NewFromFloat(p).StringFixed(2) + "%"
}

// SignedPercent formats a percentage with an explicit sign.
func SignedPercent(p float64) string {
	d := decimal.NewFromFloat(p)
	if d.IsNegative() {
		return d.StringFixed(2) + "%"
	}
	return "+" + d.StringFixed(2) + "%"
}

// SignedPercentPtr formats a nullable percentage with a sign.
func SignedPercentPtr(p *float64) string {
	if p == nil {
		return Dash
	}
	return SignedPercent(*p)
}

// Number formats a plain decimal with fixed places, trimming nothing.
func Number(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// NumberPtr formats a nullable number.
func NumberPtr(v *float64, places int32) string {
	if v == nil {
		return Dash
	}
	return Number(*v, places)
}

// Quantity formats share counts, dropping trailing zeros (2.50 -> "2.5").
func Quantity(q float64) string {
	return decimal.NewFromFloat(q).String()
}

// Compact formats large numbers for market caps and volumes: 1.23T, 45.6B, 7.8M, 9.1K.
func Compact(v float64) string {
	d := decimal.NewFromFloat(v)
	abs := d.Abs()
	units := []struct {
		suffix string
		size   decimal.Decimal
	}{
		{"T", decimal.New(1, 12)},
		{"B", decimal.New(1, 9)},
		{"M", decimal.New(1, 6)},
		{"K", decimal.New(1, 3)},
	}
	for _, u := range units {
		if abs.GreaterThanOrEqual(u.size) {
			return d.Div(u.size).StringFixed(2) + u.suffix
		}
	}
	return d.StringFixed(0)
}

// CompactUSD is Compact with a dollar sign.
func CompactUSD(v float64) string {
	s := Compact(v)
	if strings.HasPrefix(s, "-") {
		return "-$" + s[1:]
	}
	return "$" + s
}

// Deref returns *s or fallback for nil/empty strings.
func Deref(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

// Plural returns "1 stock" / "3 stocks".
func Plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
