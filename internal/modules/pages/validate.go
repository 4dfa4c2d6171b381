package pages

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	maxTickerLen = 10
	maxNotesLen  = 500
	dateLayout   = "2006-01-02"
)

// checker accumulates field errors in form order.
type checker struct {
	errs FieldErrors
}

func newChecker() *checker {
	return &checker{errs: FieldErrors{}}
}

func (c *checker) ticker(field, value string) {
	switch {
	case value == "":
		c.errs[field] = "is required"
	case len(value) > maxTickerLen:
		c.errs[field] = "must be at most 10 characters"
	}
}

func (c *checker) required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		c.errs[field] = "is required"
		return false
	}
	return true
}

// positive parses a required number greater than zero.
func (c *checker) positive(field, value string) float64 {
	if !c.required(field, value) {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	// ParseFloat accepts "NaN" and "Inf", which cannot be sent as JSON
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		c.errs[field] = "must be a number"
		return 0
	}
	if v <= 0 {
		c.errs[field] = "must be greater than zero"
		return 0
	}
	return v
}

// optionalPositive is positive for fields that may be left blank.
func (c *checker) optionalPositive(field, value string) *float64 {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	v := c.positive(field, value)
	return &v
}

func (c *checker) date(field, value string) string {
	value = strings.TrimSpace(value)
	if !c.required(field, value) {
		return ""
	}
	if _, err := time.Parse(dateLayout, value); err != nil {
		c.errs[field] = "must be a date (YYYY-MM-DD)"
	}
	return value
}

func (c *checker) notes(field, value string) *string {
	value = strings.TrimSpace(value)
	if len(value) > maxNotesLen {
		c.errs[field] = "must be at most 500 characters"
	}
	if value == "" {
		return nil
	}
	return &value
}

func (c *checker) result() FieldErrors {
	if len(c.errs) == 0 {
		return nil
	}
	return c.errs
}
