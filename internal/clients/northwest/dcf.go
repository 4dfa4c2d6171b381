package northwest

import (
	"context"
	"net/url"
	"strconv"
)

// CalculateDCF asks the backend for a DCF valuation. Rates are fractions (0.05 = 5%).
func (c *Client) CalculateDCF(ctx context.Context, ticker string, p DCFParams) (*DCFResult, error) {
	q := url.Values{
		"growth_rate":      {strconv.FormatFloat(p.GrowthRate, 'f', -1, 64)},
		"terminal_growth":  {strconv.FormatFloat(p.TerminalGrowth, 'f', -1, 64)},
		"discount_rate":    {strconv.FormatFloat(p.DiscountRate, 'f', -1, 64)},
		"projection_years": {strconv.Itoa(p.ProjectionYears)},
	}
	var out DCFResult
	if err := c.get(ctx, "/dcf/calculate/"+escape(ticker), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
