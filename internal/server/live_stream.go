package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aristath/nwcreek/internal/clients/northwest"
	"github.com/aristath/nwcreek/internal/modules/pages"
	"github.com/aristath/nwcreek/internal/utils"
)

const liveHeartbeat = 30 * time.Second

// handleLiveStream relays the backend's live price websocket to the browser as
// Server-Sent Events. One websocket per open watchlist page; it closes with the page.
func (s *Server) handleLiveStream(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.LivePrices {
		http.NotFound(w, r)
		return
	}
	env, _ := s.newEnv(r, pages.Never)
	if !env.LoggedIn() {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}
	tickers := utils.ParseTickers(r.URL.Query().Get("tickers"))
	if len(tickers) == 0 {
		http.Error(w, "tickers is required", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	stream, err := env.API.DialLivePrices(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("Live prices unavailable")
		http.Error(w, "Live prices unavailable", http.StatusBadGateway)
		return
	}
	defer stream.Close()

	if err := stream.Subscribe(ctx, tickers); err != nil {
		s.log.Warn().Err(err).Msg("Live price subscription failed")
		http.Error(w, "Live prices unavailable", http.StatusBadGateway)
		return
	}

	// The server's write timeout would cut the stream
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		s.log.Debug().Err(err).Msg("Could not clear write deadline")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	s.log.Info().Strs("tickers", tickers).Msg("Client connected to live prices")

	updates := make(chan *northwest.PriceUpdate, 32)
	go func() {
		defer close(updates)
		for {
			update, err := stream.Next(ctx)
			if err != nil {
				if ctx.Err() == nil {
					s.log.Warn().Err(err).Msg("Live price stream ended")
				}
				return
			}
			select {
			case updates <- update:
			case <-ctx.Done():
				return
			default:
				s.log.Warn().Str("ticker", update.Ticker).Msg("Live price channel full, dropping update")
			}
		}
	}()

	fmt.Fprint(w, "event: connected\ndata: {}\n\n")
	flusher.Flush()

	heartbeat := time.NewTicker(liveHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("Client disconnected from live prices")
			return

		case update, ok := <-updates:
			if !ok {
				fmt.Fprint(w, "event: closed\ndata: {}\n\n")
				flusher.Flush()
				return
			}
			data, err := json.Marshal(update)
			if err != nil {
				s.log.Error().Err(err).Msg("Failed to encode price update")
				continue
			}
			fmt.Fprintf(w, "event: price\ndata: %s\n\n", data)
			flusher.Flush()

		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		}
	}
}
