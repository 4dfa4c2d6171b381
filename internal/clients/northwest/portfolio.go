package northwest

import (
	"context"
	"net/http"
)

// Portfolio returns all positions and the computed summary.
func (c *Client) Portfolio(ctx context.Context) (*Portfolio, error) {
	var out Portfolio
	if err := c.get(ctx, "/portfolio/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddPosition records a purchase.
func (c *Client) AddPosition(ctx context.Context, add PositionAdd) (*Position, error) {
	var out Position
	if err := c.do(ctx, http.MethodPost, "/portfolio/", nil, add, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePosition patches a position.
func (c *Client) UpdatePosition(ctx context.Context, id string, upd PositionUpdate) (*Position, error) {
	var out Position
	if err := c.do(ctx, http.MethodPatch, "/portfolio/"+escape(id), nil, upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePosition removes a position.
func (c *Client) DeletePosition(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/portfolio/"+escape(id), nil, nil, nil)
}
