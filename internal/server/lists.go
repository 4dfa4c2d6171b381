package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aristath/nwcreek/internal/clients/northwest"
	"github.com/aristath/nwcreek/internal/modules/pages"
	"github.com/aristath/nwcreek/internal/modules/session"
	"github.com/aristath/nwcreek/internal/modules/tiers"
)

type watchlistView struct {
	State   pages.ListState[northwest.Watchlist, pages.WatchlistForm]
	Limit   tiers.Limit
	Live    bool
	Tickers string
}

type portfolioView struct {
	State pages.ListState[northwest.Portfolio, pages.PositionForm]
	Limit tiers.Limit
}

type alertsView struct {
	State pages.ListState[northwest.Alerts, pages.AlertForm]
	Limit tiers.Limit
}

// settle redirects back to the list after a clean mutation. A mutation that left
// something to show (field errors, a backend detail or warning) renders in place.
func (s *Server) settle(w http.ResponseWriter, r *http.Request, rec *session.Recorder, path string, err error, notice string, show func()) {
	if rec.Target() == "" && err == nil && notice == "" {
		redirect(w, r, path)
		return
	}
	show()
}

// Watchlist

func (s *Server) showWatchlist(w http.ResponseWriter, r *http.Request, rec *session.Recorder, page *pages.WatchlistPage) {
	state := page.Snapshot()
	tickers := page.Tickers()
	s.render(w, r, rec, "watchlist", view{
		Title:  "Watchlist",
		Active: "watchlist",
		User:   state.User,
		Page: watchlistView{
			State:   state,
			Limit:   page.Limit(),
			Live:    s.cfg.LivePrices && len(tickers) > 0,
			Tickers: strings.Join(tickers, ","),
		},
	})
}

func (s *Server) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	env, rec := s.newEnv(r, pages.Never)
	if !requireLogin(w, r, env, pages.PathWatchlist) {
		return
	}
	page := pages.NewWatchlistPage(env)
	_ = page.Load(r.Context())
	s.showWatchlist(w, r, rec, page)
}

func (s *Server) handleWatchlistCreate(w http.ResponseWriter, r *http.Request) {
	env, rec := s.newEnv(r, pages.Never)
	if !requireLogin(w, r, env, pages.PathWatchlist) {
		return
	}
	page := pages.NewWatchlistPage(env)
	form := pages.WatchlistForm{
		Ticker: r.PostFormValue("ticker"),
		Notes:  r.PostFormValue("notes"),
	}
	if err := page.Validate(form); err != nil {
		// The list is still needed to redisplay the form
		_ = page.Load(r.Context())
		s.showWatchlist(w, r, rec, page)
		return
	}
	if err := page.Load(r.Context()); err != nil {
		s.showWatchlist(w, r, rec, page)
		return
	}
	err := page.Create(r.Context(), form)
	s.settle(w, r, rec, pages.PathWatchlist, err, page.Snapshot().Notice, func() { s.showWatchlist(w, r, rec, page) })
}

func (s *Server) handleWatchlistNotes(w http.ResponseWriter, r *http.Request) {
	env, rec := s.newEnv(r, pages.Never)
	if !requireLogin(w, r, env, pages.PathWatchlist) {
		return
	}
	page := pages.NewWatchlistPage(env)
	err := page.UpdateNotes(r.Context(), chi.URLParam(r, "ticker"), r.PostFormValue("notes"))
	if err != nil && page.Snapshot().Data == nil {
		_ = page.Load(r.Context())
	}
	s.settle(w, r, rec, pages.PathWatchlist, err, "", func() { s.showWatchlist(w, r, rec, page) })
}

func (s *Server) handleWatchlistDelete(w http.ResponseWriter, r *http.Request) {
	env, rec := s.newEnv(r, confirmedForm(r))
	if !requireLogin(w, r, env, pages.PathWatchlist) {
		return
	}
	page := pages.NewWatchlistPage(env)
	_, err := page.Remove(r.Context(), chi.URLParam(r, "ticker"))
	s.settle(w, r, rec, pages.PathWatchlist, err, "", func() { s.showWatchlist(w, r, rec, page) })
}

// Portfolio

func (s *Server) showPortfolio(w http.ResponseWriter, r *http.Request, rec *session.Recorder, page *pages.PortfolioPage) {
	state := page.Snapshot()
	s.render(w, r, rec, "portfolio", view{
		Title:  "Portfolio",
		Active: "portfolio",
		User:   state.User,
		Page:   portfolioView{State: state, Limit: page.Limit()},
	})
}

func positionForm(r *http.Request) pages.PositionForm {
	return pages.PositionForm{
		Ticker:   r.PostFormValue("ticker"),
		Quantity: r.PostFormValue("quantity"),
		BuyPrice: r.PostFormValue("buy_price"),
		BuyDate:  r.PostFormValue("buy_date"),
		Notes:    r.PostFormValue("notes"),
	}
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	env, rec := s.newEnv(r, pages.Never)
	if !requireLogin(w, r, env, "/portfolio") {
		return
	}
	page := pages.NewPortfolioPage(env)
	_ = page.Load(r.Context())
	s.showPortfolio(w, r, rec, page)
}

func (s *Server) handlePortfolioCreate(w http.ResponseWriter, r *http.Request) {
	env, rec := s.newEnv(r, pages.Never)
	if !requireLogin(w, r, env, "/portfolio") {
		return
	}
	page := pages.NewPortfolioPage(env)
	form := positionForm(r)
	if err := page.Validate(form); err != nil {
		_ = page.Load(r.Context())
		s.showPortfolio(w, r, rec, page)
		return
	}
	// Create checks the plan limit against the loaded positions
	if err := page.Load(r.Context()); err != nil {
		s.showPortfolio(w, r, rec, page)
		return
	}
	err := page.Create(r.Context(), form)
	s.settle(w, r, rec, "/portfolio", err, page.Snapshot().Notice, func() { s.showPortfolio(w, r, rec, page) })
}

func (s *Server) handlePortfolioUpdate(w http.ResponseWriter, r *http.Request) {
	env, rec := s.newEnv(r, pages.Never)
	if !requireLogin(w, r, env, "/portfolio") {
		return
	}
	page := pages.NewPortfolioPage(env)
	err := page.Update(r.Context(), chi.URLParam(r, "id"), positionForm(r))
	if err != nil && page.Snapshot().Data == nil {
		// Field errors come back before any load
		_ = page.Load(r.Context())
	}
	s.settle(w, r, rec, "/portfolio", err, "", func() { s.showPortfolio(w, r, rec, page) })
}

func (s *Server) handlePortfolioDelete(w http.ResponseWriter, r *http.Request) {
	env, rec := s.newEnv(r, confirmedForm(r))
	if !requireLogin(w, r, env, "/portfolio") {
		return
	}
	page := pages.NewPortfolioPage(env)
	_, err := page.Remove(r.Context(), chi.URLParam(r, "id"))
	s.settle(w, r, rec, "/portfolio", err, "", func() { s.showPortfolio(w, r, rec, page) })
}

// Alerts

func (s *Server) showAlerts(w http.ResponseWriter, r *http.Request, rec *session.Recorder, page *pages.AlertsPage) {
	state := page.Snapshot()
	s.render(w, r, rec, "alerts", view{
		Title:  "Alerts",
		Active: "alerts",
		User:   state.User,
		Page:   alertsView{State: state, Limit: page.Limit()},
	})
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	env, rec := s.newEnv(r, pages.Never)
	if !requireLogin(w, r, env, "/alerts") {
		return
	}
	page := pages.NewAlertsPage(env)
	_ = page.Load(r.Context())
	s.showAlerts(w, r, rec, page)
}

func (s *Server) handleAlertsCreate(w http.ResponseWriter, r *http.Request) {
	env, rec := s.newEnv(r, pages.Never)
	if !requireLogin(w, r, env, "/alerts") {
		return
	}
	page := pages.NewAlertsPage(env)
	form := pages.AlertForm{
		Ticker:      r.PostFormValue("ticker"),
		TargetPrice: r.PostFormValue("target_price"),
		Condition:   r.PostFormValue("condition"),
		Notes:       r.PostFormValue("notes"),
	}
	if err := page.Validate(form); err != nil {
		_ = page.Load(r.Context())
		s.showAlerts(w, r, rec, page)
		return
	}
	if err := page.Load(r.Context()); err != nil {
		s.showAlerts(w, r, rec, page)
		return
	}
	err := page.Create(r.Context(), form)
	s.settle(w, r, rec, "/alerts", err, page.Snapshot().Notice, func() { s.showAlerts(w, r, rec, page) })
}

func (s *Server) handleAlertsToggle(w http.ResponseWriter, r *http.Request) {
	env, rec := s.newEnv(r, pages.Never)
	if !requireLogin(w, r, env, "/alerts") {
		return
	}
	page := pages.NewAlertsPage(env)
	if err := page.Load(r.Context()); err != nil {
		s.showAlerts(w, r, rec, page)
		return
	}
	err := page.Toggle(r.Context(), chi.URLParam(r, "id"))
	s.settle(w, r, rec, "/alerts", err, "", func() { s.showAlerts(w, r, rec, page) })
}

func (s *Server) handleAlertsDelete(w http.ResponseWriter, r *http.Request) {
	env, rec := s.newEnv(r, confirmedForm(r))
	if !requireLogin(w, r, env, "/alerts") {
		return
	}
	page := pages.NewAlertsPage(env)
	_, err := page.Remove(r.Context(), chi.URLParam(r, "id"))
	s.settle(w, r, rec, "/alerts", err, "", func() { s.showAlerts(w, r, rec, page) })
}
