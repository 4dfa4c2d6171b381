package pages

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/aristath/nwcreek/internal/modules/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStocksLookup(t *testing.T) {
	h := newHarness(t, Never)
	h.backend.json("GET /api/v1/auth/me", http.StatusOK, user("free"))
	h.backend.json("GET /api/v1/stocks/AAPL/quote", http.StatusOK, map[string]any{"ticker": "AAPL", "price": 190.5})
	h.backend.json("GET /api/v1/stocks/AAPL/company", http.StatusOK, map[string]any{"ticker": "AAPL", "name": "Apple Inc."})
	var days string
	h.backend.handle("GET /api/v1/stocks/AAPL/historical", func(w http.ResponseWriter, r *http.Request) {
		days = r.URL.Query().Get("days")
		writeJSON(w, http.StatusOK, map[string]any{"ticker": "AAPL", "days": 30, "data": []map[string]any{{"date": "2024-01-02", "close": 185}}})
	})

	page := NewStocksPage(h.env)
	require.NoError(t, page.Load(context.Background()))
	assert.Equal(t, PhaseEmpty, page.Snapshot().Phase)

	require.NoError(t, page.Lookup(context.Background(), "aapl", 9999))
	state := page.Snapshot()
	assert.Equal(t, PhaseData, state.Phase)
	assert.Equal(t, "30", days)
	assert.Equal(t, "Apple Inc.", state.Data.Company.Name)
	assert.Equal(t, 190.5, state.Data.Quote.Price)
	assert.Len(t, state.Data.History.Data, 1)
}

func TestStocksLookup_BadTicker(t *testing.T) {
	h := newHarness(t, Never)
	h.backend.json("GET /api/v1/stocks/ZZZZ/quote", http.StatusNotFound, map[string]string{"detail": "Could not fetch quote for ZZZZ"})
	h.backend.json("GET /api/v1/stocks/ZZZZ/company", http.StatusNotFound, map[string]string{"detail": "Could not fetch quote for ZZZZ"})
	h.backend.json("GET /api/v1/stocks/ZZZZ/historical", http.StatusNotFound, map[string]string{"detail": "Could not fetch quote for ZZZZ"})

	page := NewStocksPage(h.env)
	require.Error(t, page.Lookup(context.Background(), "zzzz", 30))
	state := page.Snapshot()
	assert.Equal(t, PhaseError, state.Phase)
	assert.Equal(t, "Could not fetch quote for ZZZZ", state.Error)
	assert.Zero(t, h.nav.Count())
}

func TestStocksLookup_EmptyTickerMakesNoRequest(t *testing.T) {
	h := newHarness(t, Never)
	page := NewStocksPage(h.env)
	var fields FieldErrors
	require.ErrorAs(t, page.Lookup(context.Background(), " ", 30), &fields)
	assert.Zero(t, h.backend.total())
}

func TestTechnicalAnalyze(t *testing.T) {
	h := newHarness(t, Never)
	var days string
	h.backend.handle("GET /api/v1/technical-analysis/analyze/MSFT", func(w http.ResponseWriter, r *http.Request) {
		days = r.URL.Query().Get("days")
		writeJSON(w, http.StatusOK, map[string]any{
			"ticker":  "MSFT",
			"summary": map[string]any{"outlook": "bullish", "strength": 3, "message": "Mostly bullish"},
		})
	})

	page := NewTechnicalPage(h.env)
	require.NoError(t, page.Analyze(context.Background(), "msft", 10))
	assert.Equal(t, "60", days)
	assert.Equal(t, "bullish", page.Snapshot().Data.Summary.Outlook)
}

func TestTechnicalAnalyze_UnauthorizedRedirects(t *testing.T) {
	h := newHarness(t, Never)
	h.backend.handle("GET /api/v1/technical-analysis/analyze/MSFT", unauthorized)

	page := NewTechnicalPage(h.env)
	require.Error(t, page.Analyze(context.Background(), "MSFT", 60))
	assert.Equal(t, PathLogin, h.nav.Target())
	_, ok := h.store.Get(storage.TokenKey)
	assert.False(t, ok)
}

func TestDCFSubmit_SendsFractionsAndKeepsForm(t *testing.T) {
	h := newHarness(t, Never)
	var query url.Values
	h.backend.handle("GET /api/v1/dcf/calculate/AAPL", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		writeJSON(w, http.StatusOK, map[string]any{
			"ticker":         "AAPL",
			"recommendation": map[string]any{"rating": "BUY", "color": "green", "message": "Undervalued"},
			"projections":    []map[string]any{{"year": 1, "cash_flow": 100, "present_value": 90.9}},
		})
	})

	values := url.Values{"ticker": {"aapl"}, "growth_rate": {"8"}, "terminal_growth": {"3"}, "discount_rate": {"9"}, "projection_years": {"7"}}
	page := NewDCFPage(h.env)
	require.NoError(t, page.Submit(context.Background(), values.Get))

	assert.Equal(t, "0.08", query.Get("growth_rate"))
	assert.Equal(t, "0.03", query.Get("terminal_growth"))
	assert.Equal(t, "0.09", query.Get("discount_rate"))
	assert.Equal(t, "7", query.Get("projection_years"))

	form := page.Form().Values()
	assert.Equal(t, "8", form["growth_rate"])
	assert.Equal(t, "3", form["terminal_growth"])
	assert.Equal(t, "BUY", page.Snapshot().Data.Recommendation.Rating)
}

func TestDCFSubmit_InvalidMakesNoRequest(t *testing.T) {
	h := newHarness(t, Never)
	values := url.Values{"ticker": {"AAPL"}, "terminal_growth": {"9"}, "discount_rate": {"8"}}

	page := NewDCFPage(h.env)
	var fields FieldErrors
	require.ErrorAs(t, page.Submit(context.Background(), values.Get), &fields)
	assert.Contains(t, fields, "terminal_growth")
	assert.Zero(t, h.backend.total())
	assert.Equal(t, "9", page.Form().Values()["terminal_growth"])
}

func TestDCFSubmit_PaidFeatureDetail(t *testing.T) {
	h := newHarness(t, Never)
	h.backend.json("GET /api/v1/dcf/calculate/AAPL", http.StatusForbidden, map[string]string{"detail": "DCF valuation requires a paid subscription"})

	page := NewDCFPage(h.env)
	require.Error(t, page.Submit(context.Background(), url.Values{"ticker": {"AAPL"}}.Get))
	assert.Equal(t, "DCF valuation requires a paid subscription", page.Snapshot().Error)
	assert.Zero(t, h.nav.Count())
}

func TestLogin_StoresTokenAndNavigates(t *testing.T) {
	h := newHarness(t, Never)
	require.NoError(t, h.store.Clear())
	h.backend.json("POST /api/v1/auth/login", http.StatusOK, map[string]string{"access_token": "fresh", "token_type": "bearer"})

	page := NewLoginPage(h.env)
	require.NoError(t, page.Submit(context.Background(), "ann@example.com", "secret123", "/alerts"))

	token, _ := h.store.Get(storage.TokenKey)
	assert.Equal(t, "fresh", token)
	assert.Equal(t, "/alerts", h.nav.Target())
}

func TestLogin_BadCredentialsIsNotSessionExpiry(t *testing.T) {
	h := newHarness(t, Never)
	h.backend.json("POST /api/v1/auth/login", http.StatusUnauthorized, map[string]string{"detail": "Incorrect email or password"})

	page := NewLoginPage(h.env)
	require.Error(t, page.Submit(context.Background(), "ann@example.com", "wrong", "//evil.example"))
	assert.Equal(t, "Incorrect email or password", page.Snapshot().Error)
	assert.Zero(t, h.nav.Count())
	_, ok := h.store.Get(storage.TokenKey)
	assert.True(t, ok)
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/dcf", safeNext("/dcf"))
	assert.Equal(t, PathWatchlist, safeNext("//evil.example"))
	assert.Equal(t, PathWatchlist, safeNext("https://evil.example"))
	assert.Equal(t, PathWatchlist, safeNext(PathLogin))
	assert.Equal(t, PathWatchlist, safeNext(""))
}

func TestRegister(t *testing.T) {
	h := newHarness(t, Never)
	var tier string
	h.backend.handle("POST /api/v1/auth/register", func(w http.ResponseWriter, r *http.Request) {
		tier = r.URL.Query().Get("selected_tier")
		writeJSON(w, http.StatusCreated, map[string]string{"message": "Check your email", "email": "ann@example.com"})
	})

	page := NewRegisterPage(h.env)
	var fields FieldErrors
	require.ErrorAs(t, page.Submit(context.Background(), RegisterForm{Email: "ann", Password: "short", ConfirmPassword: "other"}), &fields)
	assert.Len(t, fields, 3)
	assert.Zero(t, h.backend.total())

	require.NoError(t, page.Submit(context.Background(), RegisterForm{
		Email: "ann@example.com", Password: "longenough", ConfirmPassword: "longenough", Tier: "Active",
	}))
	assert.Equal(t, "active", tier)
	assert.Equal(t, "Check your email", page.Snapshot().Data.Message)
}

func TestVerify_AutoLoginAndPaidTierGoesToPricing(t *testing.T) {
	h := newHarness(t, Never)
	require.NoError(t, h.store.Clear())
	h.backend.json("GET /api/v1/auth/verify-email", http.StatusOK, map[string]string{
		"message": "Email verified", "email": "ann@example.com", "access_token": "verified", "token_type": "bearer",
	})

	page := NewVerifyPage(h.env)
	require.NoError(t, page.Verify(context.Background(), "tok", "casual"))

	token, _ := h.store.Get(storage.TokenKey)
	assert.Equal(t, "verified", token)
	assert.Equal(t, "/pricing?tier=casual", h.nav.Target())
}

func TestPricingCheckout(t *testing.T) {
	h := newHarness(t, Never)
	h.backend.json("GET /api/v1/stripe/config", http.StatusOK, map[string]string{"active_price_id": "price_active"})
	var priceID string
	h.backend.handle("POST /api/v1/stripe/create-checkout-session", func(w http.ResponseWriter, r *http.Request) {
		priceID = r.URL.Query().Get("price_id")
		writeJSON(w, http.StatusOK, map[string]string{"checkout_url": "https://checkout.stripe.com/c/1", "session_id": "cs_1"})
	})

	page := NewPricingPage(h.env, "# Plans")
	require.NoError(t, page.Checkout(context.Background(), "active"))
	assert.Equal(t, "price_active", priceID)
	assert.Equal(t, "https://checkout.stripe.com/c/1", h.nav.Target())

	assert.ErrorIs(t, page.Checkout(context.Background(), "unlimited"), ErrCheckoutUnavailable)
}

func TestPricingCheckout_SignedOutGoesToRegister(t *testing.T) {
	h := newHarness(t, Never)
	require.NoError(t, h.store.Clear())

	page := NewPricingPage(h.env, "")
	require.NoError(t, page.Checkout(context.Background(), "casual"))
	assert.Equal(t, "/register?tier=casual", h.nav.Target())
	assert.Zero(t, h.backend.total())
}

func TestPricingLoad(t *testing.T) {
	h := newHarness(t, Never)
	h.backend.json("GET /api/v1/auth/me", http.StatusOK, user("casual"))
	h.backend.json("GET /api/v1/stripe/config", http.StatusServiceUnavailable, map[string]string{"detail": "Stripe not configured"})

	page := NewPricingPage(h.env, "# Plans")
	require.NoError(t, page.Load(context.Background(), "Active"))

	state := page.Snapshot()
	assert.Equal(t, PhaseData, state.Phase)
	assert.Equal(t, "casual", state.Data.Current)
	assert.Equal(t, "active", state.Data.Selected)
	assert.Nil(t, state.Data.Stripe)
	assert.NotEmpty(t, state.Notice)
	assert.Len(t, state.Data.Plans, 4)
}

func TestLogoutAndTheme(t *testing.T) {
	h := newHarness(t, Never)
	assert.Equal(t, "light", Theme(h.store))

	theme, err := ToggleTheme(h.store)
	require.NoError(t, err)
	assert.Equal(t, "dark", theme)
	assert.Equal(t, "dark", Theme(h.store))

	require.NoError(t, Logout(h.env))
	assert.Equal(t, PathLogin, h.nav.Target())
	assert.False(t, h.env.LoggedIn())
	assert.Equal(t, "dark", Theme(h.store))
}

func TestParseDirectory(t *testing.T) {
	dir, err := ParseDirectory(strings.NewReader("ticker,name\naapl, Apple Inc.\nMSFT,Microsoft Corporation\n"))
	require.NoError(t, err)
	assert.Equal(t, []Suggestion{{"AAPL", "Apple Inc."}, {"MSFT", "Microsoft Corporation"}}, dir)

	_, err = ParseDirectory(strings.NewReader("AAPL\n"))
	assert.Error(t, err)
}

func TestSuggester_SearchDirectory(t *testing.T) {
	dir := []Suggestion{{"AAPL", "Apple Inc."}, {"AMZN", "Amazon.com Inc."}, {"GOOGL", "Alphabet Inc."}, {"MSFT", "Microsoft Corporation"}}
	s := NewSuggester(nil, dir, zerologNop())

	assert.Equal(t, []Suggestion{
		{"AAPL", "Apple Inc."}, {"AMZN", "Amazon.com Inc."}, {"GOOGL", "Alphabet Inc."}, {"MSFT", "Microsoft Corporation"},
	}, s.Search(context.Background(), "a"))
	assert.Equal(t, []Suggestion{{"MSFT", "Microsoft Corporation"}}, s.Search(context.Background(), "micro"))
	assert.Nil(t, s.Search(context.Background(), "  "))
}

func TestSuggester_BackendLookupForUnknownSymbol(t *testing.T) {
	h := newHarness(t, Never)
	h.backend.json("GET /api/v1/stocks/PLTR/company", http.StatusOK, map[string]string{"ticker": "PLTR", "name": "Palantir Technologies"})

	s := NewSuggester(h.env.API, nil, zerologNop())
	assert.Equal(t, []Suggestion{{"PLTR", "Palantir Technologies"}}, s.Search(context.Background(), "pltr"))
	assert.Empty(t, s.Search(context.Background(), "nope"))
}

func TestSuggester_KeepsOnlyLatestResults(t *testing.T) {
	h := newHarness(t, Never)
	release := make(chan struct{})
	h.backend.handle("GET /api/v1/stocks/AA/company", func(w http.ResponseWriter, r *http.Request) {
		<-release
		writeJSON(w, http.StatusOK, map[string]string{"ticker": "AA", "name": "Alcoa"})
	})
	h.backend.json("GET /api/v1/stocks/AAPL/company", http.StatusOK, map[string]string{"ticker": "AAPL", "name": "Apple Inc."})

	s := NewSuggester(h.env.API, nil, zerologNop())

	first := s.Begin("aa")
	var wg sync.WaitGroup
	var firstKept bool
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstKept = s.Lookup(context.Background(), first, "aa")
	}()

	second := s.Begin("aapl")
	results, kept := s.Lookup(context.Background(), second, "aapl")
	require.True(t, kept)
	assert.Equal(t, []Suggestion{{"AAPL", "Apple Inc."}}, results)

	close(release)
	wg.Wait()
	assert.False(t, firstKept)
	assert.False(t, s.Current(first))

	query, latest := s.Results()
	assert.Equal(t, "aapl", query)
	assert.Equal(t, []Suggestion{{"AAPL", "Apple Inc."}}, latest)
}
