package server

import (
	"html/template"
	"net/http"
	"strconv"

	"github.com/aristath/nwcreek/internal/clients/northwest"
	"github.com/aristath/nwcreek/internal/modules/charts"
	"github.com/aristath/nwcreek/internal/modules/pages"
)

type stocksView struct {
	State       pages.State[pages.StockView]
	Ticker      string
	Days        int
	DayOptions  []int
	PriceChart  template.JS
	VolumeChart template.JS
}

type technicalView struct {
	State      pages.State[northwest.Analysis]
	Ticker     string
	Days       int
	DayOptions []int
	Chart      template.JS
}

type dcfView struct {
	State pages.State[northwest.DCFResult]
	Form  map[string]string
	Chart template.JS
}

func queryInt(r *http.Request, name string, fallback int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(name)); err == nil {
		return v
	}
	return fallback
}

// chartJS serializes a chart config, logging instead of failing the page.
func (s *Server) chartJS(cfg charts.Config) template.JS {
	js, err := cfg.JSON()
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to encode chart")
		return ""
	}
	return js
}

func (s *Server) handleStocks(w http.ResponseWriter, r *http.Request) {
	env, rec := s.newEnv(r, pages.Never)
	if !requireLogin(w, r, env, r.URL.RequestURI()) {
		return
	}
	page := pages.NewStocksPage(env)
	ticker := r.URL.Query().Get("ticker")
	days := queryInt(r, "days", pages.DefaultHistoryDays)

	_ = page.Load(r.Context())
	if ticker != "" && rec.Target() == "" {
		_ = page.Lookup(r.Context(), ticker, days)
	}

	state := page.Snapshot()
	v := stocksView{
		State:      state,
		Ticker:     ticker,
		Days:       days,
		DayOptions: []int{7, 30, 90, 180, 365},
	}
	if data := state.Data; data != nil {
		v.Ticker = data.Ticker
		v.Days = data.Days
		if data.History != nil {
			v.PriceChart = s.chartJS(charts.PriceChart(data.Ticker, data.History.Data))
			v.VolumeChart = s.chartJS(charts.VolumeChart(data.History.Data))
		}
	}
	s.render(w, r, rec, "stocks", view{Title: "Stocks", Active: "stocks", User: state.User, Page: v})
}

// handleSuggest answers the search box with JSON. Ordering of concurrent answers
// is left to the browser, which keeps only its latest query.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	env, _ := s.newEnv(r, pages.Never)
	suggester := pages.NewSuggester(env.API, s.directory, s.log)
	results := suggester.Search(r.Context(), r.URL.Query().Get("q"))
	if results == nil {
		results = []pages.Suggestion{}
	}
	s.writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleTechnical(w http.ResponseWriter, r *http.Request) {
	env, rec := s.newEnv(r, pages.Never)
	if !requireLogin(w, r, env, r.URL.RequestURI()) {
		return
	}
	page := pages.NewTechnicalPage(env)
	ticker := r.URL.Query().Get("ticker")
	days := queryInt(r, "days", pages.DefaultAnalysisDays)

	_ = page.Load(r.Context())
	if ticker != "" && rec.Target() == "" {
		_ = page.Analyze(r.Context(), ticker, days)
	}

	state := page.Snapshot()
	v := technicalView{
		State:      state,
		Ticker:     ticker,
		Days:       days,
		DayOptions: []int{30, 60, 90, 180, 365},
	}
	if state.Data != nil {
		v.Ticker = state.Data.Ticker
		v.Chart = s.chartJS(charts.AnalysisChart(state.Data))
	}
	s.render(w, r, rec, "technical", view{Title: "Technical analysis", Active: "technical", User: state.User, Page: v})
}

func (s *Server) handleDCF(w http.ResponseWriter, r *http.Request) {
	env, rec := s.newEnv(r, pages.Never)
	if !requireLogin(w, r, env, r.URL.RequestURI()) {
		return
	}
	page := pages.NewDCFPage(env)
	query := r.URL.Query()

	_ = page.Load(r.Context())
	if (query.Get("ticker") != "" || query.Get("submitted") != "") && rec.Target() == "" {
		_ = page.Submit(r.Context(), query.Get)
	}

	state := page.Snapshot()
	v := dcfView{State: state, Form: page.Form().Values()}
	if state.Data != nil {
		v.Chart = s.chartJS(charts.DCFChart(state.Data))
	}
	s.render(w, r, rec, "dcf", view{Title: "DCF valuation", Active: "dcf", User: state.User, Page: v})
}
