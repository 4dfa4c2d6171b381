// Package session ends the local session when the backend rejects the stored token.
package session

import (
	"sync"
	"sync/atomic"

	"github.com/aristath/nwcreek/internal/clients/northwest"
	"github.com/aristath/nwcreek/internal/modules/storage"
	"github.com/rs/zerolog"
)

// LoginPath is where an expired session is sent.
const LoginPath = "/login"

// Navigator moves the front-end to another page.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

// Navigate calls f(path).
func (f NavigatorFunc) Navigate(path string) { f(path) }

// Guard watches load-path errors for a single page lifetime.
// Several parallel loads may fail with 401; the token is cleared and the
// navigation issued once.
type Guard struct {
	store      storage.Store
	nav        Navigator
	log        zerolog.Logger
	once       sync.Once
	redirected atomic.Bool
}

// NewGuard creates a guard for one page lifetime.
func NewGuard(store storage.Store, nav Navigator, log zerolog.Logger) *Guard {
	return &Guard{
		store: store,
		nav:   nav,
		log:   log.With().Str("component", "session_guard").Logger(),
	}
}

// Check inspects err. A 401 ends the session and returns true; any other error
// (or nil) is left to the caller and returns false.
func (g *Guard) Check(err error) bool {
	if !northwest.IsUnauthorized(err) {
		return false
	}

	g.once.Do(func() {
		if rmErr := g.store.Remove(storage.TokenKey); rmErr != nil {
			g.log.Error().Err(rmErr).Msg("Failed to clear token")
		}
		g.log.Info().Msg("Session expired, redirecting to login")
		g.redirected.Store(true)
		g.nav.Navigate(LoginPath)
	})
	return true
}

// Redirected reports whether the guard has sent the user to the login page.
func (g *Guard) Redirected() bool {
	return g.redirected.Load()
}

// Recorder is a Navigator that remembers the last target.
// The web front-end turns it into an HTTP redirect after the handler runs.
type Recorder struct {
	mu     sync.Mutex
	target string
	count  int
}

// Navigate records path.
func (r *Recorder) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.target = path
	r.count++
}

// Target returns the last recorded path, empty when none.
func (r *Recorder) Target() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.target
}

// Count returns how many navigations were recorded.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
