package northwest

import (
	"context"
	"net/http"
)

// Alerts returns all price alerts with counts.
func (c *Client) Alerts(ctx context.Context) (*Alerts, error) {
	var out Alerts
	if err := c.get(ctx, "/alerts/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateAlert adds a price alert.
func (c *Client) CreateAlert(ctx context.Context, add AlertAdd) (*Alert, error) {
	var out Alert
	if err := c.do(ctx, http.MethodPost, "/alerts/", nil, add, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAlert patches an alert, including toggling is_active.
func (c *Client) UpdateAlert(ctx context.Context, id string, upd AlertUpdate) (*Alert, error) {
	var out Alert
	if err := c.do(ctx, http.MethodPatch, "/alerts/"+escape(id), nil, upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAlert removes an alert.
func (c *Client) DeleteAlert(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/alerts/"+escape(id), nil, nil, nil)
}
