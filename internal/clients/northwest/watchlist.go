package northwest

import (
	"context"
	"net/http"
)

// Watchlist returns the user's watchlist with quotes.
func (c *Client) Watchlist(ctx context.Context) (*Watchlist, error) {
	var out Watchlist
	if err := c.get(ctx, "/watchlist/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddToWatchlist adds a ticker. The returned item may carry a warning.
func (c *Client) AddToWatchlist(ctx context.Context, add WatchlistAdd) (*WatchlistItem, error) {
	var out WatchlistItem
	if err := c.do(ctx, http.MethodPost, "/watchlist/", nil, add, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateWatchlistItem changes the notes of a ticker.
func (c *Client) UpdateWatchlistItem(ctx context.Context, ticker string, upd WatchlistUpdate) (*WatchlistItem, error) {
	var out WatchlistItem
	if err := c.do(ctx, http.MethodPatch, "/watchlist/"+escape(ticker), nil, upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveFromWatchlist deletes a ticker from the watchlist.
func (c *Client) RemoveFromWatchlist(ctx context.Context, ticker string) error {
	return c.do(ctx, http.MethodDelete, "/watchlist/"+escape(ticker), nil, nil, nil)
}
