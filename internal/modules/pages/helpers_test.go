package pages

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/aristath/nwcreek/internal/clients/northwest"
	"github.com/aristath/nwcreek/internal/modules/session"
	"github.com/aristath/nwcreek/internal/modules/storage"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// fakeBackend routes "METHOD /path" to canned handlers and records every request.
type fakeBackend struct {
	t      *testing.T
	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	calls  []string
}

func (b *fakeBackend) handle(route string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[route] = h
}

func (b *fakeBackend) json(route string, status int, body any) {
	b.handle(route, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, body)
	})
}

func (b *fakeBackend) count(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c == route {
			n++
		}
	}
	return n
}

func (b *fakeBackend) total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route := r.Method + " " + r.URL.Path
	b.mu.Lock()
	b.calls = append(b.calls, route)
	h, ok := b.routes[route]
	b.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
		return
	}
	h(w, r)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

type harness struct {
	backend *fakeBackend
	store   *storage.Memory
	nav     *session.Recorder
	env     *Env
}

func newHarness(t *testing.T, confirm Confirmer) *harness {
	t.Helper()
	backend := &fakeBackend{t: t, routes: map[string]http.HandlerFunc{}}
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	store := storage.NewMemory()
	require.NoError(t, store.Set(storage.TokenKey, "jwt"))
	nav := &session.Recorder{}
	client := northwest.NewClient(northwest.Config{BaseURL: server.URL + "/api/v1"}, zerolog.Nop())

	return &harness{
		backend: backend,
		store:   store,
		nav:     nav,
		env:     NewEnv(client, store, nav, confirm, zerolog.Nop()),
	}
}

func user(tier string) map[string]any {
	return map[string]any{"id": "u1", "email": "ann@example.com", "subscription_tier": tier, "is_verified": true}
}

func unauthorized(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
}

func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func zerologNop() zerolog.Logger {
	return zerolog.Nop()
}
