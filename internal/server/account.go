package server

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/aristath/nwcreek/internal/clients/northwest"
	"github.com/aristath/nwcreek/internal/modules/pages"
	"github.com/aristath/nwcreek/internal/modules/session"
	"github.com/aristath/nwcreek/internal/modules/tiers"
)

type loginView struct {
	State pages.State[northwest.Message]
	Email string
	Next  string
}

type registerView struct {
	State    pages.State[northwest.Message]
	Tier     string
	Plan     *tiers.Plan
	Email    string
	FullName string
}

type verifyView struct {
	State pages.State[northwest.Verification]
}

type pricingView struct {
	State   pages.State[pages.PricingView]
	Content template.HTML
	Error   string
}

func (s *Server) showLogin(w http.ResponseWriter, r *http.Request, rec *session.Recorder, page *pages.LoginPage, email, next string) {
	s.render(w, r, rec, "login", view{
		Title:  "Log in",
		Active: "login",
		Page:   loginView{State: page.Snapshot(), Email: email, Next: next},
	})
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	env, rec := s.newEnv(r, pages.Never)
	if env.LoggedIn() {
		redirect(w, r, pages.PathWatchlist)
		return
	}
	s.showLogin(w, r, rec, pages.NewLoginPage(env), "", r.URL.Query().Get("next"))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	env, rec := s.newEnv(r, pages.Never)
	page := pages.NewLoginPage(env)
	email := r.PostFormValue("email")
	next := r.PostFormValue("next")
	_ = page.Submit(r.Context(), email, r.PostFormValue("password"), next)
	s.showLogin(w, r, rec, page, email, next)
}

func (s *Server) handleResendVerification(w http.ResponseWriter, r *http.Request) {
	env, rec := s.newEnv(r, pages.Never)
	page := pages.NewLoginPage(env)
	email := r.PostFormValue("email")
	_ = page.Resend(r.Context(), email)
	s.showLogin(w, r, rec, page, email, "")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	env, rec := s.newEnv(r, pages.Never)
	if err := pages.Logout(env); err != nil {
		s.log.Error().Err(err).Msg("Failed to log out")
	}
	redirect(w, r, rec.Target())
}

func (s *Server) showRegister(w http.ResponseWriter, r *http.Request, rec *session.Recorder, page *pages.RegisterPage, form pages.RegisterForm) {
	v := registerView{State: page.Snapshot(), Tier: form.Tier, Email: form.Email, FullName: form.FullName}
	if plan, ok := tiers.PlanFor(strings.ToLower(form.Tier)); ok {
		v.Plan = &plan
	}
	s.render(w, r, rec, "register", view{Title: "Sign up", Active: "register", Page: v})
}

func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	env, rec := s.newEnv(r, pages.Never)
	s.showRegister(w, r, rec, pages.NewRegisterPage(env), pages.RegisterForm{Tier: r.URL.Query().Get("tier")})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	env, rec := s.newEnv(r, pages.Never)
	page := pages.NewRegisterPage(env)
	form := pages.RegisterForm{
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
		FullName:        r.PostFormValue("full_name"),
		Tier:            r.PostFormValue("tier"),
	}
	_ = page.Submit(r.Context(), form)
	s.showRegister(w, r, rec, page, form)
}

func (s *Server) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	env, rec := s.newEnv(r, pages.Never)
	page := pages.NewVerifyPage(env)
	q := r.URL.Query()
	_ = page.Verify(r.Context(), q.Get("token"), q.Get("tier"))
	s.render(w, r, rec, "verify", view{Title: "Email verification", Page: verifyView{State: page.Snapshot()}})
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	if _, err := pages.ToggleTheme(s.store(r)); err != nil {
		s.log.Error().Err(err).Msg("Failed to save theme")
	}
	next := r.PostFormValue("next")
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		next = "/"
	}
	redirect(w, r, next)
}

// Pricing

func (s *Server) showPricing(w http.ResponseWriter, r *http.Request, rec *session.Recorder, page *pages.PricingPage, checkoutErr string) {
	state := page.Snapshot()
	s.render(w, r, rec, "pricing", view{
		Title:  "Pricing",
		Active: "pricing",
		User:   state.User,
		Page:   pricingView{State: state, Content: s.pricingHTML, Error: checkoutErr},
	})
}

func (s *Server) handlePricing(w http.ResponseWriter, r *http.Request) {
	env, rec := s.newEnv(r, pages.Never)
	page := pages.NewPricingPage(env, s.pricing)
	_ = page.Load(r.Context(), r.URL.Query().Get("tier"))
	s.showPricing(w, r, rec, page, "")
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	env, rec := s.newEnv(r, pages.Never)
	page := pages.NewPricingPage(env, s.pricing)
	tier := r.PostFormValue("tier")
	if err := page.Checkout(r.Context(), tier); err == nil || rec.Target() != "" {
		s.settle(w, r, rec, pages.PathPricing, nil, "", func() { s.showPricing(w, r, rec, page, "") })
		return
	}
	checkoutErr := page.Snapshot().Error
	_ = page.Load(r.Context(), tier)
	s.showPricing(w, r, rec, page, checkoutErr)
}
