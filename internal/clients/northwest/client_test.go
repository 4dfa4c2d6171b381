package northwest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aristath/nwcreek/internal/modules/storage"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *storage.Memory) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := storage.NewMemory()
	client := NewClient(Config{BaseURL: server.URL + "/api/v1/"}, zerolog.Nop()).WithTokens(store)
	return client, store
}

func TestClient_AttachesBearerTokenAtCallTime(t *testing.T) {
	var headers []string
	client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		headers = append(headers, r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"email":"a@b.c","subscription_tier":"free"}`))
	})

	_, err := client.Me(context.Background())
	require.NoError(t, err)

	require.NoError(t, store.Set(storage.TokenKey, "jwt-1"))
	_, err = client.Me(context.Background())
	require.NoError(t, err)

	require.NoError(t, store.Set(storage.TokenKey, "jwt-2"))
	_, err = client.Me(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"", "Bearer jwt-1", "Bearer jwt-2"}, headers)
}

func TestClient_APIErrorCarriesDetail(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"AAPL already in watchlist"}`))
	})

	_, err := client.AddToWatchlist(context.Background(), WatchlistAdd{Ticker: "AAPL"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "AAPL already in watchlist", apiErr.Detail)
	assert.Equal(t, "AAPL already in watchlist", Detail(err, "fallback"))
	assert.False(t, IsUnauthorized(err))
}

func TestClient_ValidationDetailList(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":[{"loc":["body","quantity"],"msg":"Input should be greater than 0"}]}`))
	})

	_, err := client.AddPosition(context.Background(), PositionAdd{Ticker: "AAPL"})
	assert.Equal(t, "quantity: Input should be greater than 0", Detail(err, ""))
}

func TestClient_ErrorWithoutDetailUsesFallback(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`oops`))
	})

	_, err := client.Watchlist(context.Background())
	assert.Equal(t, 500, StatusCode(err))
	assert.Equal(t, "Something went wrong", Detail(err, "Something went wrong"))
	assert.Contains(t, err.Error(), "API returned 500")
}

func TestClient_Unauthorized(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Could not validate credentials"}`))
	})

	_, err := client.Alerts(context.Background())
	assert.True(t, IsUnauthorized(err))
}

func TestClient_NetworkErrorIsNotAPIError(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1/api/v1"}, zerolog.Nop())

	_, err := client.Me(context.Background())
	require.Error(t, err)
	assert.Zero(t, StatusCode(err))
}

func TestClient_DeleteHandlesNoContent(t *testing.T) {
	var method, path string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.RemoveFromWatchlist(context.Background(), "BRK.B"))
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/api/v1/watchlist/BRK.B", path)
}

func TestClient_CreateAlertSendsBody(t *testing.T) {
	var got AlertAdd
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/alerts/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"a1","ticker":"AAPL","target_price":200,"condition":"above","is_active":true,"created_at":"2026-01-01T00:00:00","warning":"4/5 alerts used"}`))
	})

	alert, err := client.CreateAlert(context.Background(), AlertAdd{Ticker: "AAPL", TargetPrice: 200, Condition: ConditionAbove})
	require.NoError(t, err)
	assert.Equal(t, AlertAdd{Ticker: "AAPL", TargetPrice: 200, Condition: "above"}, got)
	require.NotNil(t, alert.Warning)
	assert.Equal(t, "4/5 alerts used", *alert.Warning)
}

func TestClient_CalculateDCFSendsFractions(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/dcf/calculate/MSFT", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "0.05", q.Get("growth_rate"))
		assert.Equal(t, "0.025", q.Get("terminal_growth"))
		assert.Equal(t, "0.1", q.Get("discount_rate"))
		assert.Equal(t, "5", q.Get("projection_years"))
		_, _ = w.Write([]byte(`{"ticker":"MSFT","projections":[{"year":1,"cash_flow":105,"present_value":95.45,"discount_factor":0.9091}],"recommendation":{"rating":"Hold","color":"yellow","message":"Fair"}}`))
	})

	res, err := client.CalculateDCF(context.Background(), "MSFT", DCFParams{
		GrowthRate: 0.05, TerminalGrowth: 0.025, DiscountRate: 0.10, ProjectionYears: 5,
	})
	require.NoError(t, err)
	require.Len(t, res.Projections, 1)
	assert.Equal(t, "Hold", res.Recommendation.Rating)
}

func TestClient_RegisterDefaultsTier(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "free", r.URL.Query().Get("selected_tier"))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"Registration successful!","email":"a@b.c"}`))
	})

	msg, err := client.Register(context.Background(), Registration{Email: "a@b.c", Password: "longenough"}, "")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", msg.Email)
}

func TestClient_PortfolioDecodesPerformers(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"positions":[{"id":"p1","ticker":"AAPL","quantity":2,"buy_price":100,"buy_date":"2025-01-02","created_at":"x","current_price":null,"total_cost":200}],
			"total_positions":1,"total_invested":200,"total_current_value":0,"total_profit_loss":0,"total_profit_loss_percent":0,
			"best_performer":{"ticker":"AAPL","return":12.5,"profit":25,"lots":1},
			"worst_performer":{"ticker":"TSLA","return":-3,"loss":-9,"lots":2},
			"positions_used":1,"positions_limit":5}`))
	})

	p, err := client.Portfolio(context.Background())
	require.NoError(t, err)
	assert.Nil(t, p.Positions[0].CurrentPrice)
	assert.Equal(t, 25.0, p.BestPerformer.Amount())
	assert.Equal(t, -9.0, p.WorstPerformer.Amount())
}

func TestStripeConfig_PriceIDFor(t *testing.T) {
	cfg := StripeConfig{CasualPriceID: "c", ActivePriceID: "a", UnlimitedPriceID: "u"}
	assert.Equal(t, "c", cfg.PriceIDFor("casual"))
	assert.Equal(t, "a", cfg.PriceIDFor("active"))
	assert.Equal(t, "u", cfg.PriceIDFor("unlimited"))
	assert.Empty(t, cfg.PriceIDFor("free"))
}
