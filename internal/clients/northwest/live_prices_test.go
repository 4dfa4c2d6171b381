package northwest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

func TestLivePricesURL(t *testing.T) {
	c := NewClient(Config{BaseURL: "https://api.example.com/api/v1"}, zerolog.Nop())
	u, err := c.LivePricesURL()
	require.NoError(t, err)
	assert.Equal(t, "wss://api.example.com/api/v1/live-prices/ws", u)

	c = NewClient(Config{BaseURL: "http://localhost:8000/api/v1"}, zerolog.Nop())
	u, err = c.LivePricesURL()
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:8000/api/v1/live-prices/ws", u)
}

func TestPriceStream_SubscribeAndReceive(t *testing.T) {
	subscribed := make(chan liveCommand, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/live-prices/ws", r.URL.Path)
		conn, err := websocket.Accept(w, r, nil)
		require.NoError(t, err)
		defer conn.Close(websocket.StatusNormalClosure, "")

		ctx := r.Context()
		var cmd liveCommand
		require.NoError(t, wsjson.Read(ctx, conn, &cmd))
		subscribed <- cmd

		require.NoError(t, wsjson.Write(ctx, conn, map[string]any{"type": "status", "data": map[string]any{}}))
		require.NoError(t, wsjson.Write(ctx, conn, map[string]any{
			"type": "price_update",
			"data": map[string]any{"ticker": "AAPL", "price": 185.43, "size": 100, "timestamp": 1234567890000, "updated_at": "2026-02-06T14:30:15"},
		}))
		// Keep the connection open until the client is done reading
		_, _, _ = conn.Read(ctx)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL + "/api/v1"}, zerolog.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := client.DialLivePrices(ctx)
	require.NoError(t, err)
	defer stream.Close()

	require.NoError(t, stream.Subscribe(ctx, []string{" aapl ", ""}))
	cmd := <-subscribed
	assert.Equal(t, "subscribe", cmd.Action)
	assert.Equal(t, []string{"AAPL"}, cmd.Tickers)

	update, err := stream.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", update.Ticker)
	assert.Equal(t, 185.43, update.Price)
	assert.Equal(t, int64(1234567890000), update.Timestamp)
}
