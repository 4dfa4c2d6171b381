package northwest

import (
	"context"
	"net/url"
	"strconv"
)

// Quote returns the latest quote for a ticker.
func (c *Client) Quote(ctx context.Context, ticker string) (*Quote, error) {
	var out Quote
	if err := c.get(ctx, "/stocks/"+escape(ticker)+"/quote", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Company returns company profile data.
func (c *Client) Company(ctx context.Context, ticker string) (*Company, error) {
	var out Company
	if err := c.get(ctx, "/stocks/"+escape(ticker)+"/company", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// History returns daily bars for the last days (1..365, enforced by the backend).
func (c *Client) History(ctx context.Context, ticker string, days int) (*History, error) {
	var out History
	q := url.Values{"days": {strconv.Itoa(days)}}
	if err := c.get(ctx, "/stocks/"+escape(ticker)+"/historical", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
