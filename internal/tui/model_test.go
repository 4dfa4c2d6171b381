package tui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/nwcreek/internal/clients/northwest"
	"github.com/aristath/nwcreek/internal/modules/pages"
	"github.com/aristath/nwcreek/internal/modules/storage"
)

type backend struct {
	mu     sync.Mutex
	routes map[string]func(w http.ResponseWriter, r *http.Request)
	calls  map[string]int
}

func newBackend(t *testing.T) (*backend, *northwest.Client) {
	t.Helper()
	b := &backend{routes: map[string]func(http.ResponseWriter, *http.Request){}, calls: map[string]int{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.Path
		b.mu.Lock()
		b.calls[route]++
		h := b.routes[route]
		b.mu.Unlock()
		if h == nil {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"Not Found"}`))
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return b, northwest.NewClient(northwest.Config{BaseURL: srv.URL + "/api/v1"}, zerolog.Nop())
}

func (b *backend) on(route string, status int, body any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[route] = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if body != nil {
			_ = json.NewEncoder(w).Encode(body)
		}
	}
}

func (b *backend) count(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[route]
}

func newTestModel(t *testing.T, store storage.Store, api *northwest.Client) Model {
	t.Helper()
	return NewModel(context.Background(), Config{
		API:       api,
		Store:     store,
		Directory: []pages.Suggestion{{Ticker: "AAPL", Name: "Apple Inc."}, {Ticker: "AMD", Name: "Advanced Micro Devices"}},
		Pricing:   "# Plans",
		Log:       zerolog.Nop(),
	})
}

func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

// settle runs cmd and feeds its message back until a step yields no command.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for i := 0; cmd != nil && i < 10; i++ {
		msg := cmd()
		if msg == nil {
			return m
		}
		m, cmd = step(t, m, msg)
	}
	return m
}

func signedIn(t *testing.T) *storage.Memory {
	t.Helper()
	store := storage.NewMemory()
	require.NoError(t, store.Set(storage.TokenKey, "jwt"))
	return store
}

func me(tier string) map[string]any {
	return map[string]any{"id": "u1", "email": "ann@example.com", "subscription_tier": tier}
}

func watchlist(tickers ...string) map[string]any {
	items := []map[string]any{}
	for _, t := range tickers {
		items = append(items, map[string]any{"id": "id-" + t, "ticker": t, "added_at": "2024-03-01T10:00:00", "current_price": 100.5})
	}
	return map[string]any{"items": items, "count": len(items), "limit": 5, "subscription_tier": "free"}
}

func TestNewModelStartsOnLoginWithoutToken(t *testing.T) {
	_, api := newBackend(t)
	m := newTestModel(t, storage.NewMemory(), api)
	assert.Equal(t, routeLogin, m.route)

	login, ok := m.screen.(*loginScreen)
	require.True(t, ok)
	assert.Equal(t, pages.PathWatchlist, login.next)
}

func TestLoginNavigatesToWatchlist(t *testing.T) {
	be, api := newBackend(t)
	be.on("POST /api/v1/auth/login", http.StatusOK, map[string]string{"access_token": "jwt", "token_type": "bearer"})
	be.on("GET /api/v1/auth/me", http.StatusOK, me("free"))
	be.on("GET /api/v1/watchlist/", http.StatusOK, watchlist("AAPL"))

	store := storage.NewMemory()
	m := newTestModel(t, store, api)
	login := m.screen.(*loginScreen)
	login.form.Set("email", "ann@example.com")
	login.form.Set("password", "secret123")

	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = settle(t, m, cmd)

	assert.Equal(t, routeWatchlist, m.route)
	token, _ := store.Get(storage.TokenKey)
	assert.Equal(t, "jwt", token)
	assert.Empty(t, login.form.Value("password"), "password is not kept after submit")

	wl := m.screen.(*watchlistScreen)
	assert.Equal(t, pages.PhaseData, wl.ctl.Snapshot().Phase)
	assert.Len(t, wl.table.Rows(), 1)
	assert.Contains(t, m.View(), "AAPL")
}

func TestExpiredSessionReturnsToLogin(t *testing.T) {
	be, api := newBackend(t)
	be.on("GET /api/v1/auth/me", http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
	be.on("GET /api/v1/watchlist/", http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})

	store := signedIn(t)
	m := newTestModel(t, store, api)
	require.Equal(t, routeWatchlist, m.route)

	m = settle(t, m, m.Init())
	assert.Equal(t, routeLogin, m.route)
	_, ok := store.Get(storage.TokenKey)
	assert.False(t, ok)
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	for _, tc := range []struct {
		name    string
		answer  tea.KeyMsg
		deletes int
	}{
		{name: "confirmed", answer: runes("y"), deletes: 1},
		{name: "declined", answer: runes("n"), deletes: 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			be, api := newBackend(t)
			be.on("GET /api/v1/auth/me", http.StatusOK, me("free"))
			be.on("GET /api/v1/watchlist/", http.StatusOK, watchlist("AAPL"))
			be.on("DELETE /api/v1/watchlist/AAPL", http.StatusNoContent, nil)

			m := newTestModel(t, signedIn(t), api)
			m = settle(t, m, m.Init())

			prompts := make(chan tea.Msg, 1)
			m.confirmer.bind(func(msg tea.Msg) { prompts <- msg })

			m, cmd := step(t, m, runes("d"))
			require.NotNil(t, cmd)
			done := make(chan tea.Msg, 1)
			go func() { done <- cmd() }()

			var prompt tea.Msg
			select {
			case prompt = <-prompts:
			case <-time.After(5 * time.Second):
				t.Fatal("no confirmation prompt")
			}
			m, _ = step(t, m, prompt)
			require.NotNil(t, m.prompt)
			assert.Equal(t, "Remove AAPL from your watchlist?", m.prompt.prompt)
			assert.Contains(t, m.View(), "Remove AAPL from your watchlist?")

			m, _ = step(t, m, tc.answer)
			assert.Nil(t, m.prompt)

			select {
			case msg := <-done:
				m, _ = step(t, m, msg)
			case <-time.After(5 * time.Second):
				t.Fatal("delete did not finish")
			}
			assert.Equal(t, tc.deletes, be.count("DELETE /api/v1/watchlist/AAPL"))
		})
	}
}

func TestThemeToggle(t *testing.T) {
	_, api := newBackend(t)
	store := storage.NewMemory()
	m := newTestModel(t, store, api)
	assert.Equal(t, Light.Name, m.theme.Name)

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, Dark.Name, m.theme.Name)
	theme, _ := store.Get(storage.ThemeKey)
	assert.Equal(t, "dark", theme)
}

func TestStaleMessagesAreDropped(t *testing.T) {
	be, api := newBackend(t)
	be.on("GET /api/v1/auth/me", http.StatusOK, me("free"))
	be.on("GET /api/v1/portfolio/", http.StatusOK, map[string]any{"positions": []any{}})

	m := newTestModel(t, signedIn(t), api)
	stale := doneMsg{gen: m.gen, target: "/pricing"}

	m, cmd := step(t, m, runes("2"))
	require.Equal(t, routePortfolio, m.route)
	m = settle(t, m, cmd)

	m, cmd = step(t, m, stale)
	assert.Nil(t, cmd)
	assert.Equal(t, routePortfolio, m.route)
}

func TestNavigateToCheckoutShowsLink(t *testing.T) {
	_, api := newBackend(t)
	m := newTestModel(t, signedIn(t), api)
	route := m.route

	cmd := m.navigate("https://checkout.stripe.com/c/pay/cs_test")
	assert.Nil(t, cmd)
	assert.Equal(t, route, m.route)
	assert.Contains(t, m.status, "https://checkout.stripe.com/c/pay/cs_test")
}

func TestPricingCheckoutSignedOutGoesToRegister(t *testing.T) {
	be, api := newBackend(t)
	be.on("GET /api/v1/stripe/config", http.StatusOK, map[string]string{"casual_price_id": "price_c"})

	m := newTestModel(t, storage.NewMemory(), api)
	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	require.Equal(t, routePricing, m.route)
	m = settle(t, m, cmd)

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, cmd = step(t, m, runes("c"))
	m = settle(t, m, cmd)

	require.Equal(t, routeRegister, m.route)
	reg := m.screen.(*registerScreen)
	assert.Equal(t, "casual", reg.tier)
}

func TestProtectedTabsNeedLogin(t *testing.T) {
	_, api := newBackend(t)
	m := newTestModel(t, storage.NewMemory(), api)

	// Digits are typed into the login form rather than switching pages
	m, _ = step(t, m, runes("3"))
	assert.Equal(t, routeLogin, m.route)
	assert.Equal(t, "3", m.screen.(*loginScreen).form.Value("email"))
}

func TestSuggestionsKeepOnlyLatestQuery(t *testing.T) {
	_, api := newBackend(t)
	m := newTestModel(t, signedIn(t), api)
	s := newStocksScreen(m.page, pages.NewSuggester(nil, m.cfg.Directory, zerolog.Nop()))

	first := s.suggest.Begin("a")
	second := s.suggest.Begin("am")

	// The superseded tick starts no lookup
	assert.Nil(t, s.update(suggestTickMsg{gen: m.page.gen, seq: first, query: "a"}))

	cmd := s.update(suggestTickMsg{gen: m.page.gen, seq: second, query: "am"})
	require.NotNil(t, cmd)
	msg, ok := cmd().(suggestMsg)
	require.True(t, ok)
	s.update(msg)

	require.Len(t, s.suggestions, 1)
	assert.Equal(t, "AMD", s.suggestions[0].Ticker)

	s.form.Focus()
	s.update(tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Equal(t, "AMD", s.form.Value("ticker"))
}

func TestRouteFor(t *testing.T) {
	r, ok := routeFor("/technical-analysis")
	assert.True(t, ok)
	assert.Equal(t, routeTechnical, r)

	_, ok = routeFor("/nowhere")
	assert.False(t, ok)

	assert.True(t, routeDCF.protected())
	assert.False(t, routePricing.protected())
	assert.False(t, routeLogin.protected())
}
