package pages

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aristath/nwcreek/internal/clients/northwest"
	"github.com/aristath/nwcreek/internal/modules/tiers"
	"golang.org/x/sync/errgroup"
)

// ErrCheckoutUnavailable is returned when Stripe has no price for the chosen plan.
var ErrCheckoutUnavailable = errors.New("checkout unavailable for plan")

// PricingView is the pricing page: marketing copy, plan cards and the current tier.
type PricingView struct {
	Content  string // markdown
	Plans    []tiers.Plan
	Stripe   *northwest.StripeConfig
	Current  string // empty when signed out
	Selected string
}

// PricingPage shows the plans and starts Stripe checkout.
type PricingPage struct {
	single[PricingView]
	content string
}

// NewPricingPage creates the pricing controller around the marketing markdown.
func NewPricingPage(env *Env, content string) *PricingPage {
	p := &PricingPage{content: content}
	p.init(env, "pricing")
	return p
}

// Load fetches the Stripe configuration and, when signed in, the user.
// A missing Stripe configuration only disables checkout.
func (p *PricingPage) Load(ctx context.Context, selected string) error {
	p.begin()
	view := &PricingView{
		Content:  p.content,
		Plans:    tiers.Plans(),
		Selected: strings.ToLower(strings.TrimSpace(selected)),
	}

	var g errgroup.Group
	g.Go(func() error {
		cfg, err := p.env.API.StripeConfig(ctx)
		if err != nil {
			p.env.Log.Warn().Err(err).Msg("Stripe configuration unavailable")
			return nil
		}
		view.Stripe = cfg
		return nil
	})
	if p.env.LoggedIn() {
		g.Go(func() error {
			u, err := p.env.API.Me(ctx)
			if err != nil {
				return err
			}
			p.setUser(u)
			view.Current = u.SubscriptionTier
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return p.finish(nil, err, "Failed to load pricing")
	}
	if view.Stripe == nil {
		p.setNotice("Online checkout is currently unavailable.")
	}
	return p.finish(view, nil, "")
}

// Checkout starts a subscription to tier. Signed-out users are sent to register
// with the tier preselected; the free plan needs no checkout.
func (p *PricingPage) Checkout(ctx context.Context, tier string) error {
	tier = strings.ToLower(strings.TrimSpace(tier))
	plan, ok := tiers.PlanFor(tier)
	if !ok {
		return p.fail(fmt.Errorf("unknown plan %q", tier), "Unknown plan.")
	}
	if !p.env.LoggedIn() {
		p.env.Nav.Navigate(PathRegister + "?tier=" + url.QueryEscape(plan.Tier))
		return nil
	}
	if plan.MonthlyCents == 0 {
		p.env.Nav.Navigate(PathWatchlist)
		return nil
	}

	cfg, err := p.env.API.StripeConfig(ctx)
	if err != nil {
		return p.fail(err, "Checkout is currently unavailable.")
	}
	priceID := cfg.PriceIDFor(plan.Tier)
	if priceID == "" {
		return p.fail(fmt.Errorf("%w: %s", ErrCheckoutUnavailable, plan.Tier), "Checkout is currently unavailable.")
	}
	session, err := p.env.API.CreateCheckoutSession(ctx, priceID)
	if err != nil {
		return p.fail(err, "Failed to start checkout.")
	}
	p.env.Log.Info().Str("tier", plan.Tier).Str("session_id", session.SessionID).Msg("Checkout started")
	p.env.Nav.Navigate(session.CheckoutURL)
	return nil
}
