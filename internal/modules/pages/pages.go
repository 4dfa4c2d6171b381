// Package pages holds the page controllers shared by the web and terminal front-ends.
//
// Every page moves through loading -> data | empty | error. Controllers keep only the
// current page's view state: every mutation is followed by a full reload, except
// deletes, which drop the row locally and reload only when the backend refuses.
package pages

import (
	"errors"
	"sort"
	"strings"

	"github.com/aristath/nwcreek/internal/clients/northwest"
	"github.com/aristath/nwcreek/internal/modules/session"
	"github.com/aristath/nwcreek/internal/modules/storage"
	"github.com/rs/zerolog"
)

// Phase is the page state.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseData
	PhaseEmpty
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseData:
		return "data"
	case PhaseEmpty:
		return "empty"
	case PhaseError:
		return "error"
	}
	return "unknown"
}

// GenericError is shown when the backend gave no detail.
const GenericError = "Something went wrong. Please try again."

// Paths the controllers navigate to.
const (
	PathLogin     = session.LoginPath
	PathWatchlist = "/watchlist"
	PathPricing   = "/pricing"
	PathRegister  = "/register"
)

// ErrLimitReached is returned by Create when the tier table forbids another item.
var ErrLimitReached = errors.New("tier limit reached")

// FieldErrors maps a form field to its message. It is returned as the error of a
// Create that failed validation, before any network call.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Confirmer asks the user a yes/no question and blocks for the answer.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Always answers yes; used once the user has already confirmed in the browser.
var Always = ConfirmFunc(func(string) bool { return true })

// Never answers no.
var Never = ConfirmFunc(func(string) bool { return false })

// Env is what a page needs for one page lifetime.
type Env struct {
	API     *northwest.Client // bound to Store's token
	Store   storage.Store
	Nav     session.Navigator
	Confirm Confirmer
	Log     zerolog.Logger
	guard   *session.Guard
}

// NewEnv creates the environment of one page lifetime. The API client is bound to store.
func NewEnv(api *northwest.Client, store storage.Store, nav session.Navigator, confirm Confirmer, log zerolog.Logger) *Env {
	if confirm == nil {
		confirm = Never
	}
	return &Env{
		API:     api.WithTokens(store),
		Store:   store,
		Nav:     nav,
		Confirm: confirm,
		Log:     log,
		guard:   session.NewGuard(store, nav, log),
	}
}

// Guard returns the page's session guard.
func (e *Env) Guard() *session.Guard {
	return e.guard
}

// LoggedIn reports whether a token is stored.
func (e *Env) LoggedIn() bool {
	token, ok := e.Store.Get(storage.TokenKey)
	return ok && token != ""
}

// loadError turns a load failure into the message shown on the page.
func (e *Env) loadError(err error, fallback string) string {
	if e.guard.Check(err) {
		return "Your session has expired. Please log in again."
	}
	return northwest.Detail(err, fallback)
}

// Logout clears the token and goes to the login page.
func Logout(env *Env) error {
	if err := env.Store.Remove(storage.TokenKey); err != nil {
		return err
	}
	env.Nav.Navigate(PathLogin)
	return nil
}

// ToggleTheme flips the stored theme between dark and light and returns the new one.
func ToggleTheme(store storage.Store) (string, error) {
	next := "dark"
	if current, _ := store.Get(storage.ThemeKey); current == "dark" {
		next = "light"
	}
	if err := store.Set(storage.ThemeKey, next); err != nil {
		return "", err
	}
	return next, nil
}

// Theme returns the stored theme, "light" when unset.
func Theme(store storage.Store) string {
	if t, ok := store.Get(storage.ThemeKey); ok && t == "dark" {
		return "dark"
	}
	return "light"
}
