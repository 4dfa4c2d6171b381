// Package tui is the terminal front-end. It drives the same page controllers as
// the web server; local storage is a profile scope in the SQLite store.
package tui

import (
	"context"
	"net/url"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/aristath/nwcreek/internal/clients/northwest"
	"github.com/aristath/nwcreek/internal/modules/pages"
	"github.com/aristath/nwcreek/internal/modules/storage"
	"github.com/aristath/nwcreek/internal/utils"
)

// Config wires the TUI to the shared services.
type Config struct {
	API        *northwest.Client
	Store      storage.Store
	Directory  []pages.Suggestion
	Pricing    string // markdown
	LivePrices bool
	Log        zerolog.Logger
	MaxWidth   int // 0 = no limit
}

type route int

const (
	routeLogin route = iota
	routeRegister
	routeVerify
	routeWatchlist
	routePortfolio
	routeAlerts
	routeStocks
	routeTechnical
	routeDCF
	routePricing
)

var routePaths = map[route]string{
	routeLogin:     pages.PathLogin,
	routeRegister:  pages.PathRegister,
	routeVerify:    "/verify-email",
	routeWatchlist: pages.PathWatchlist,
	routePortfolio: "/portfolio",
	routeAlerts:    "/alerts",
	routeStocks:    "/stocks",
	routeTechnical: "/technical-analysis",
	routeDCF:       "/dcf",
	routePricing:   pages.PathPricing,
}

var routeTitles = map[route]string{
	routeLogin:     "Log in",
	routeRegister:  "Sign up",
	routeVerify:    "Verify email",
	routeWatchlist: "Watchlist",
	routePortfolio: "Portfolio",
	routeAlerts:    "Alerts",
	routeStocks:    "Stocks",
	routeTechnical: "Technical",
	routeDCF:       "DCF",
	routePricing:   "Pricing",
}

// tabs are reachable with the number keys once signed in.
var tabs = []route{routeWatchlist, routePortfolio, routeAlerts, routeStocks, routeTechnical, routeDCF, routePricing}

func routeFor(path string) (route, bool) {
	for r, p := range routePaths {
		if p == path {
			return r, true
		}
	}
	return 0, false
}

func (r route) protected() bool {
	return r >= routeWatchlist && r <= routeDCF
}

// navigator collects the page controllers' navigation requests. Unlike the web
// recorder it is drained after every operation.
type navigator struct {
	mu     sync.Mutex
	target string
}

func (n *navigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.target = path
}

func (n *navigator) take() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	t := n.target
	n.target = ""
	return t
}

// page is one screen lifetime: its own Env, session guard and context.
type page struct {
	path    string
	ctx     context.Context
	cancel  context.CancelFunc
	env     *pages.Env
	nav     *navigator
	gen     int
	closers []func()
}

func (p *page) onClose(fn func()) {
	p.closers = append(p.closers, fn)
}

func (p *page) close() {
	p.cancel()
	for _, fn := range p.closers {
		fn()
	}
	p.closers = nil
}

// run executes op off the UI goroutine and reports back with doneMsg.
func (p *page) run(op func(ctx context.Context) error) tea.Cmd {
	ctx, gen, nav := p.ctx, p.gen, p.nav
	timer := "tui:" + p.path
	return func() tea.Msg {
		done := utils.OperationTimer(timer, p.env.Log)
		err := op(ctx)
		done()
		return doneMsg{gen: gen, target: nav.take(), err: err}
	}
}

// confirmer asks the user through the UI and blocks the calling operation until
// the answer arrives.
type confirmer struct {
	ctx  context.Context
	mu   sync.Mutex
	send func(tea.Msg)
}

func (c *confirmer) bind(send func(tea.Msg)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.send = send
}

func (c *confirmer) Confirm(prompt string) bool {
	c.mu.Lock()
	send := c.send
	c.mu.Unlock()
	if send == nil {
		return false
	}

	answer := make(chan bool, 1)
	send(confirmMsg{prompt: prompt, answer: answer})
	select {
	case ok := <-answer:
		return ok
	case <-c.ctx.Done():
		return false
	}
}

// Messages

type doneMsg struct {
	gen    int
	target string
	err    error
}

type confirmMsg struct {
	prompt string
	answer chan<- bool
}

// screen is one page of the TUI.
type screen interface {
	init() tea.Cmd
	update(msg tea.Msg) tea.Cmd
	view(t Theme, width int) string
	// capturing reports whether keys go to a text input.
	capturing() bool
	help() []key.Binding
	// user is the signed-in account once loaded, nil otherwise.
	user() *northwest.User
}

// Model is the root bubbletea model.
type Model struct {
	cfg       Config
	ctx       context.Context
	log       zerolog.Logger
	confirmer *confirmer
	help      help.Model

	width  int
	height int
	theme  Theme

	route  route
	page   *page
	screen screen
	gen    int
	status string
	prompt *confirmMsg
	scroll int
}

// NewModel creates the model on the login page, or the watchlist when a token is stored.
func NewModel(ctx context.Context, cfg Config) Model {
	m := Model{
		cfg:       cfg,
		ctx:       ctx,
		log:       cfg.Log.With().Str("component", "tui").Logger(),
		confirmer: &confirmer{ctx: ctx},
		help:      help.New(),
		theme:     ThemeFor(pages.Theme(cfg.Store)),
	}
	m.open(routeWatchlist, nil)
	return m
}

// Bind lets page operations reach the running program, e.g. to ask for confirmation.
func (m Model) Bind(p *tea.Program) {
	m.confirmer.bind(p.Send)
}

func (m Model) Init() tea.Cmd {
	return m.screen.init()
}

// open starts a new page lifetime. Protected pages redirect to login when no
// token is stored.
func (m *Model) open(r route, query url.Values) tea.Cmd {
	if m.page != nil {
		m.page.close()
	}
	if query == nil {
		query = url.Values{}
	}

	m.gen++
	nav := &navigator{}
	ctx, cancel := context.WithCancel(m.ctx)
	env := pages.NewEnv(m.cfg.API, m.cfg.Store, nav, m.confirmer, m.log)
	if r.protected() && !env.LoggedIn() {
		query = url.Values{"next": {routePaths[r]}}
		r = routeLogin
	}

	m.page = &page{path: routePaths[r], ctx: ctx, cancel: cancel, env: env, nav: nav, gen: m.gen}
	m.route = r
	m.prompt = nil
	m.scroll = 0
	m.screen = m.build(r, query)
	m.log.Debug().Str("page", routePaths[r]).Int("gen", m.gen).Msg("Opened page")
	return m.screen.init()
}

func (m *Model) build(r route, query url.Values) screen {
	p := m.page
	switch r {
	case routeRegister:
		return newRegisterScreen(p, query.Get("tier"))
	case routeVerify:
		return newVerifyScreen(p, query.Get("tier"))
	case routeWatchlist:
		return newWatchlistScreen(p, m.cfg.LivePrices)
	case routePortfolio:
		return newPortfolioScreen(p)
	case routeAlerts:
		return newAlertsScreen(p)
	case routeStocks:
		return newStocksScreen(p, pages.NewSuggester(p.env.API, m.cfg.Directory, m.log))
	case routeTechnical:
		return newTechnicalScreen(p)
	case routeDCF:
		return newDCFScreen(p)
	case routePricing:
		return newPricingScreen(p, m.cfg.Pricing, query.Get("tier"))
	}
	return newLoginScreen(p, query.Get("next"))
}

// navigate follows a controller's navigation request. Absolute URLs (Stripe
// checkout) cannot be opened here and are shown instead.
func (m *Model) navigate(target string) tea.Cmd {
	u, err := url.Parse(target)
	if err != nil {
		m.log.Warn().Err(err).Str("target", target).Msg("Ignoring malformed navigation target")
		return nil
	}
	if u.IsAbs() {
		m.status = "Open this link to complete checkout: " + target
		return nil
	}
	r, ok := routeFor(u.Path)
	if !ok {
		r = routeWatchlist
	}
	return m.open(r, u.Query())
}
