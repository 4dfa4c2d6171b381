package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/nwcreek/internal/clients/northwest"
	"github.com/aristath/nwcreek/internal/modules/content"
	"github.com/aristath/nwcreek/internal/modules/pages"
	"github.com/aristath/nwcreek/internal/modules/tiers"
	"github.com/aristath/nwcreek/internal/utils"
)

// Login

type loginScreen struct {
	p    *page
	ctl  *pages.LoginPage
	form *form
	next string
}

func newLoginScreen(p *page, next string) *loginScreen {
	return &loginScreen{
		p:   p,
		ctl: pages.NewLoginPage(p.env),
		form: newForm(
			fieldSpec{name: "email", label: "Email", placeholder: "you@example.com"},
			fieldSpec{name: "password", label: "Password", secret: true},
		),
		next: next,
	}
}

func (s *loginScreen) init() tea.Cmd { return s.form.Focus() }

func (s *loginScreen) capturing() bool { return true }

func (s *loginScreen) help() []key.Binding {
	return []key.Binding{keys.Submit, keys.Next, keys.Resend, keys.Register, keys.Verify, keys.Pricing}
}

func (s *loginScreen) user() *northwest.User { return nil }

func (s *loginScreen) update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if key.Matches(km, keys.Resend) {
		email := s.form.Value("email")
		return s.p.run(func(ctx context.Context) error {
			return s.ctl.Resend(ctx, email)
		})
	}
	if key.Matches(km, keys.Back) {
		return nil
	}
	submitted, cmd := s.form.HandleKey(km)
	if !submitted {
		return cmd
	}
	email, password, next := s.form.Value("email"), s.form.Value("password"), s.next
	s.form.Set("password", "")
	return s.p.run(func(ctx context.Context) error {
		return s.ctl.Submit(ctx, email, password, next)
	})
}

func (s *loginScreen) view(t Theme, width int) string {
	state := s.ctl.Snapshot()
	parts := []string{heading(t, "Log in", "to Northwest Creek"), s.form.View(t, state.FieldErrors)}
	if state.Loading {
		parts = append(parts, t.muted().Render("Signing in…"))
	}
	if state.Error != "" {
		parts = append(parts, t.errorStyle().Render(state.Error))
	}
	if state.Data != nil && state.Data.Message != "" {
		parts = append(parts, t.noticeStyle().Render(state.Data.Message))
	}
	return strings.Join(parts, "\n\n")
}

// Register

type registerScreen struct {
	p    *page
	ctl  *pages.RegisterPage
	form *form
	tier string
}

func newRegisterScreen(p *page, tier string) *registerScreen {
	return &registerScreen{
		p:   p,
		ctl: pages.NewRegisterPage(p.env),
		form: newForm(
			fieldSpec{name: "email", label: "Email", placeholder: "you@example.com"},
			fieldSpec{name: "full_name", label: "Full name"},
			fieldSpec{name: "password", label: "Password", secret: true},
			fieldSpec{name: "confirm_password", label: "Confirm", secret: true},
		),
		tier: strings.ToLower(strings.TrimSpace(tier)),
	}
}

func (s *registerScreen) init() tea.Cmd { return s.form.Focus() }

func (s *registerScreen) capturing() bool { return true }

func (s *registerScreen) help() []key.Binding {
	return []key.Binding{keys.Submit, keys.Next, keys.Login, keys.Verify, keys.Pricing}
}

func (s *registerScreen) user() *northwest.User { return nil }

func (s *registerScreen) update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok || key.Matches(km, keys.Back) {
		return nil
	}
	submitted, cmd := s.form.HandleKey(km)
	if !submitted {
		return cmd
	}
	form := pages.RegisterForm{
		Email:           s.form.Value("email"),
		Password:        s.form.Value("password"),
		ConfirmPassword: s.form.Value("confirm_password"),
		FullName:        s.form.Value("full_name"),
		Tier:            s.tier,
	}
	s.form.Set("password", "")
	s.form.Set("confirm_password", "")
	return s.p.run(func(ctx context.Context) error {
		return s.ctl.Submit(ctx, form)
	})
}

func (s *registerScreen) view(t Theme, width int) string {
	state := s.ctl.Snapshot()
	right := "free plan"
	if plan, ok := tiers.PlanFor(s.tier); ok {
		right = plan.Name
	}
	parts := []string{heading(t, "Create your account", right), s.form.View(t, state.FieldErrors)}
	if state.Loading {
		parts = append(parts, t.muted().Render("Creating account…"))
	}
	if state.Error != "" {
		parts = append(parts, t.errorStyle().Render(state.Error))
	}
	if state.Data != nil {
		msg := state.Data.Message
		if msg == "" {
			msg = "Check your email to verify your account."
		}
		parts = append(parts, t.noticeStyle().Render(msg), t.muted().Render("Paste the token from the email with ctrl+e."))
	}
	return strings.Join(parts, "\n\n")
}

// Verify email

type verifyScreen struct {
	p    *page
	ctl  *pages.VerifyPage
	form *form
	tier string
}

func newVerifyScreen(p *page, tier string) *verifyScreen {
	return &verifyScreen{
		p:    p,
		ctl:  pages.NewVerifyPage(p.env),
		form: newForm(fieldSpec{name: "token", label: "Token", placeholder: "from the verification link"}),
		tier: tier,
	}
}

func (s *verifyScreen) init() tea.Cmd { return s.form.Focus() }

func (s *verifyScreen) capturing() bool { return true }

func (s *verifyScreen) help() []key.Binding {
	return []key.Binding{keys.Submit, keys.Login, keys.Register}
}

func (s *verifyScreen) user() *northwest.User { return nil }

func (s *verifyScreen) update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok || key.Matches(km, keys.Back) {
		return nil
	}
	submitted, cmd := s.form.HandleKey(km)
	if !submitted {
		return cmd
	}
	token, tier := strings.TrimSpace(s.form.Value("token")), s.tier
	return s.p.run(func(ctx context.Context) error {
		return s.ctl.Verify(ctx, token, tier)
	})
}

func (s *verifyScreen) view(t Theme, width int) string {
	state := s.ctl.Snapshot()
	parts := []string{heading(t, "Verify your email", ""), s.form.View(t, state.FieldErrors)}
	if state.Loading {
		parts = append(parts, t.muted().Render("Verifying…"))
	}
	if state.Error != "" {
		parts = append(parts, t.errorStyle().Render(state.Error))
	}
	if state.Data != nil {
		parts = append(parts, t.noticeStyle().Render(state.Data.Message))
		if state.Data.AccessToken != "" {
			parts = append(parts, t.muted().Render("You are signed in. Press 1 for your watchlist."))
		}
	}
	return strings.Join(parts, "\n\n")
}

// Pricing

type pricingScreen struct {
	p         *page
	ctl       *pages.PricingPage
	markdown  string
	selected  string
	highlight int

	// rendered copy, keyed by width and theme
	rendered    string
	renderedFor string
}

var (
	keyLeft  = key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "choose plan"))
	keyRight = key.NewBinding(key.WithKeys("right", "l"))
)

func newPricingScreen(p *page, markdown, tier string) *pricingScreen {
	s := &pricingScreen{p: p, ctl: pages.NewPricingPage(p.env, markdown), markdown: markdown, selected: tier}
	for i, plan := range tiers.Plans() {
		if plan.Tier == strings.ToLower(tier) {
			s.highlight = i
		}
	}
	return s
}

func (s *pricingScreen) init() tea.Cmd {
	selected := s.selected
	return s.p.run(func(ctx context.Context) error {
		return s.ctl.Load(ctx, selected)
	})
}

func (s *pricingScreen) capturing() bool { return false }

func (s *pricingScreen) help() []key.Binding {
	return []key.Binding{keyLeft, keys.Choose}
}

func (s *pricingScreen) user() *northwest.User { return s.ctl.Snapshot().User }

func (s *pricingScreen) update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	plans := tiers.Plans()
	switch {
	case key.Matches(km, keyLeft):
		s.highlight = (s.highlight - 1 + len(plans)) % len(plans)
	case key.Matches(km, keyRight):
		s.highlight = (s.highlight + 1) % len(plans)
	case key.Matches(km, keys.Choose), key.Matches(km, keys.Submit):
		tier := plans[s.highlight].Tier
		return s.p.run(func(ctx context.Context) error {
			return s.ctl.Checkout(ctx, tier)
		})
	}
	return nil
}

func (s *pricingScreen) copy(t Theme, width int) string {
	cacheKey := t.Name + ":" + strconv.Itoa(width)
	if s.renderedFor == cacheKey {
		return s.rendered
	}
	out, err := content.Terminal(s.markdown, width, t.Name)
	if err != nil {
		s.p.env.Log.Warn().Err(err).Msg("Failed to render pricing copy")
		out = s.markdown
	}
	s.rendered, s.renderedFor = strings.TrimSpace(out), cacheKey
	return s.rendered
}

func (s *pricingScreen) view(t Theme, width int) string {
	state := s.ctl.Snapshot()
	parts := []string{s.copy(t, width)}
	if st := (status{phase: state.Phase, loading: state.Loading, loadErr: state.Error, notice: state.Notice}).view(t); st != "" {
		parts = append(parts, st)
	}

	current := ""
	if state.Data != nil {
		current = state.Data.Current
	}
	cardWidth := (width - 8) / 4
	if cardWidth < 22 {
		cardWidth = 22
	}

	var cards []string
	for i, plan := range tiers.Plans() {
		price := "Free"
		if plan.MonthlyCents > 0 {
			price = utils.CentsUSD(plan.MonthlyCents) + t.muted().Render("/month")
		}
		ta := "No technical analysis"
		if plan.TechnicalAnalysis {
			ta = "Technical analysis"
		}
		lines := []string{
			t.title().Render(plan.Name),
			price,
			"",
			"Portfolio: " + plan.Portfolio.String(),
			"Alerts: " + plan.Alerts.String(),
			ta,
			"DCF: " + plan.DCF,
		}
		if plan.Tier == current {
			lines = append(lines, "", t.badge(plan.Tier)+" current plan")
		}
		border := t.Border
		if i == s.highlight {
			border = t.Primary
		} else if plan.Featured {
			border = t.Accent
		}
		cards = append(cards, lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Width(cardWidth).
			Padding(0, 1).
			Render(strings.Join(lines, "\n")))
	}
	parts = append(parts, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	return strings.Join(parts, "\n\n")
}
