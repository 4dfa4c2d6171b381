package northwest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	liveDialTimeout = 15 * time.Second
	liveWriteWait   = 10 * time.Second
)

// PriceStream is one websocket subscription to /live-prices/ws.
// There is no reconnect: callers open a new stream when this one fails.
type PriceStream struct {
	conn *websocket.Conn
	log  zerolog.Logger
	mu   sync.Mutex // serializes writes
}

type liveCommand struct {
	Action  string   `json:"action"`
	Tickers []string `json:"tickers"`
}

type liveFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// LivePricesURL derives the websocket URL from the REST base URL.
func (c *Client) LivePricesURL() (string, error) {
	u, err := url.Parse(c.baseURL + "/live-prices/ws")
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	}
	return u.String(), nil
}

// DialLivePrices opens a live price stream.
func (c *Client) DialLivePrices(ctx context.Context) (*PriceStream, error) {
	wsURL, err := c.LivePricesURL()
	if err != nil {
		return nil, err
	}

	dialCtx, cancel := context.WithTimeout(ctx, liveDialTimeout)
	defer cancel()

	conn, _, err := websocket.Dial(dialCtx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial live prices: %w", err)
	}

	c.log.Debug().Str("url", wsURL).Msg("Live price stream connected")
	return &PriceStream{
		conn: conn,
		log:  c.log.With().Str("stream", "live_prices").Logger(),
	}, nil
}

// Subscribe asks for price_update frames for tickers.
func (s *PriceStream) Subscribe(ctx context.Context, tickers []string) error {
	return s.send(ctx, "subscribe", tickers)
}

// Unsubscribe stops updates for tickers.
func (s *PriceStream) Unsubscribe(ctx context.Context, tickers []string) error {
	return s.send(ctx, "unsubscribe", tickers)
}

func (s *PriceStream) send(ctx context.Context, action string, tickers []string) error {
	normalized := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
			normalized = append(normalized, t)
		}
	}
	if len(normalized) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	writeCtx, cancel := context.WithTimeout(ctx, liveWriteWait)
	defer cancel()

	if err := wsjson.Write(writeCtx, s.conn, liveCommand{Action: action, Tickers: normalized}); err != nil {
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	return nil
}

// Next blocks until the next price_update frame. Other frame types are skipped.
func (s *PriceStream) Next(ctx context.Context) (*PriceUpdate, error) {
	for {
		var frame liveFrame
		if err := wsjson.Read(ctx, s.conn, &frame); err != nil {
			return nil, fmt.Errorf("live price stream closed: %w", err)
		}
		if frame.Type != "price_update" {
			s.log.Debug().Str("type", frame.Type).Msg("Skipping live frame")
			continue
		}

		var update PriceUpdate
		if err := json.Unmarshal(frame.Data, &update); err != nil {
			s.log.Warn().Err(err).Msg("Malformed price_update frame")
			continue
		}
		return &update, nil
	}
}

// Close closes the stream.
func (s *PriceStream) Close() error {
	return s.conn.Close(websocket.StatusNormalClosure, "")
}
