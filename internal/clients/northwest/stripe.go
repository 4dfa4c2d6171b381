package northwest

import (
	"context"
	"net/http"
	"net/url"
)

// StripeConfig returns the publishable key and price ids.
func (c *Client) StripeConfig(ctx context.Context) (*StripeConfig, error) {
	var out StripeConfig
	if err := c.get(ctx, "/stripe/config", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubscriptionStatus returns the current tier.
func (c *Client) SubscriptionStatus(ctx context.Context) (*SubscriptionStatus, error) {
	var out SubscriptionStatus
	if err := c.get(ctx, "/stripe/subscription-status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCheckoutSession starts a Stripe checkout for priceID.
func (c *Client) CreateCheckoutSession(ctx context.Context, priceID string) (*CheckoutSession, error) {
	var out CheckoutSession
	q := url.Values{"price_id": {priceID}}
	if err := c.do(ctx, http.MethodPost, "/stripe/create-checkout-session", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
