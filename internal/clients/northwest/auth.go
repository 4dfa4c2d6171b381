package northwest

import (
	"context"
	"net/http"
	"net/url"
)

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, creds Credentials) (*Token, error) {
	var out Token
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account. selectedTier is carried into the verification link.
func (c *Client) Register(ctx context.Context, reg Registration, selectedTier string) (*Message, error) {
	if selectedTier == "" {
		selectedTier = "free"
	}
	var out Message
	q := url.Values{"selected_tier": {selectedTier}}
	if err := c.do(ctx, http.MethodPost, "/auth/register", q, reg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the current user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.get(ctx, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyEmail confirms an address; the response carries an access token.
func (c *Client) VerifyEmail(ctx context.Context, token string) (*Verification, error) {
	var out Verification
	if err := c.get(ctx, "/auth/verify-email", url.Values{"token": {token}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResendVerification asks the backend to mail a new verification link.
func (c *Client) ResendVerification(ctx context.Context, email string) (*Message, error) {
	var out Message
	q := url.Values{"email": {email}}
	if err := c.do(ctx, http.MethodPost, "/auth/resend-verification", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
