package northwest

import (
	"context"
	"net/url"
	"strconv"
)

// Analyze returns the server-computed technical analysis of a ticker.
func (c *Client) Analyze(ctx context.Context, ticker string, days int) (*Analysis, error) {
	var out Analysis
	q := url.Values{"days": {strconv.Itoa(days)}}
	if err := c.get(ctx, "/technical-analysis/analyze/"+escape(ticker), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
