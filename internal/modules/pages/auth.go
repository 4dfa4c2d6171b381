package pages

import (
	"context"
	"net/url"
	"strings"

	"github.com/aristath/nwcreek/internal/clients/northwest"
	"github.com/aristath/nwcreek/internal/modules/storage"
	"github.com/aristath/nwcreek/internal/modules/tiers"
)

const minPasswordLen = 8

// RegisterForm is the sign-up form as typed.
type RegisterForm struct {
	Email           string
	Password        string
	ConfirmPassword string
	FullName        string
	Tier            string // carried from the pricing page
}

// RegisterPage creates an account and asks the user to verify their email.
type RegisterPage struct {
	single[northwest.Message]
}

// NewRegisterPage creates the sign-up controller.
func NewRegisterPage(env *Env) *RegisterPage {
	p := &RegisterPage{}
	p.init(env, "register")
	return p
}

// Submit validates and registers. Passwords are never kept in page state.
func (p *RegisterPage) Submit(ctx context.Context, form RegisterForm) error {
	c := newChecker()
	email := strings.TrimSpace(form.Email)
	if c.required("email", email) && !strings.Contains(email, "@") {
		c.errs["email"] = "must be an email address"
	}
	if c.required("password", form.Password) && len(form.Password) < minPasswordLen {
		c.errs["password"] = "must be at least 8 characters"
	}
	if form.Password != form.ConfirmPassword {
		c.errs["confirm_password"] = "does not match"
	}
	if errs := c.result(); errs != nil {
		return p.invalid(errs)
	}

	tier := strings.ToLower(strings.TrimSpace(form.Tier))
	if _, ok := tiers.PlanFor(tier); !ok {
		tier = tiers.Free
	}

	p.begin()
	msg, err := p.env.API.Register(ctx, northwest.Registration{
		Email:    email,
		Password: form.Password,
		FullName: strings.TrimSpace(form.FullName),
	}, tier)
	if err != nil {
		return p.settle(nil, err, northwest.Detail(err, "Registration failed. Please try again."))
	}
	return p.settle(msg, nil, "")
}

// LoginPage signs in and offers to resend the verification email.
type LoginPage struct {
	single[northwest.Message]
}

// NewLoginPage creates the sign-in controller.
func NewLoginPage(env *Env) *LoginPage {
	p := &LoginPage{}
	p.init(env, "login")
	return p
}

// Submit signs in, stores the token and navigates to next, or the watchlist.
// A 401 here means bad credentials, not an expired session.
func (p *LoginPage) Submit(ctx context.Context, email, password, next string) error {
	c := newChecker()
	email = strings.TrimSpace(email)
	c.required("email", email)
	c.required("password", password)
	if errs := c.result(); errs != nil {
		return p.invalid(errs)
	}

	p.begin()
	token, err := p.env.API.Login(ctx, northwest.Credentials{Email: email, Password: password})
	if err != nil {
		return p.settle(nil, err, northwest.Detail(err, "Login failed. Please try again."))
	}
	if err := p.env.Store.Set(storage.TokenKey, token.AccessToken); err != nil {
		return p.settle(nil, err, GenericError)
	}
	p.env.Log.Info().Str("email", email).Msg("Signed in")
	p.env.Nav.Navigate(safeNext(next))
	return p.settle(nil, nil, "")
}

// Resend asks the backend to send the verification email again.
func (p *LoginPage) Resend(ctx context.Context, email string) error {
	c := newChecker()
	email = strings.TrimSpace(email)
	c.required("email", email)
	if errs := c.result(); errs != nil {
		return p.invalid(errs)
	}

	p.begin()
	msg, err := p.env.API.ResendVerification(ctx, email)
	if err != nil {
		return p.settle(nil, err, northwest.Detail(err, "Could not resend the verification email."))
	}
	return p.settle(msg, nil, "")
}

// safeNext keeps redirects on this site.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && next != PathLogin {
		return next
	}
	return PathWatchlist
}

// VerifyPage is the landing page of the verification link.
type VerifyPage struct {
	single[northwest.Verification]
}

// NewVerifyPage creates the email verification controller.
func NewVerifyPage(env *Env) *VerifyPage {
	p := &VerifyPage{}
	p.init(env, "verify-email")
	return p
}

// Verify confirms the email and signs the user in with the returned token.
// A paid tier chosen at sign-up continues to the pricing page.
func (p *VerifyPage) Verify(ctx context.Context, token, tier string) error {
	if strings.TrimSpace(token) == "" {
		return p.invalid(FieldErrors{"token": "is missing from the verification link"})
	}

	p.begin()
	v, err := p.env.API.VerifyEmail(ctx, token)
	if err != nil {
		return p.settle(nil, err, northwest.Detail(err, "Verification failed. The link may have expired."))
	}
	if v.AccessToken != "" {
		if err := p.env.Store.Set(storage.TokenKey, v.AccessToken); err != nil {
			return p.settle(nil, err, GenericError)
		}
	}
	if plan, ok := tiers.PlanFor(strings.ToLower(tier)); ok && plan.MonthlyCents > 0 {
		p.env.Nav.Navigate(PathPricing + "?tier=" + url.QueryEscape(plan.Tier))
	}
	return p.settle(v, nil, "")
}
