package pages

import (
	"context"
	"fmt"
	"sync"

	"github.com/aristath/nwcreek/internal/clients/northwest"
	"github.com/aristath/nwcreek/internal/modules/tiers"
	"golang.org/x/sync/errgroup"
)

// listSource describes one list resource to the generic controller.
type listSource[S any, T any] struct {
	name     string // "watchlist", used in messages
	noun     string // "stock", used in limit messages
	fetch    func(ctx context.Context, api *northwest.Client) (*S, error)
	items    func(*S) []T
	setItems func(*S, []T)
	id       func(T) string
	remove   func(ctx context.Context, api *northwest.Client, id string) error
	limits   tiers.Table
}

// ListState is a snapshot of a list page.
type ListState[S any, F any] struct {
	Phase       Phase
	Loading     bool
	User        *northwest.User
	Data        *S
	Error       string // why the load failed
	FormError   string // why the last mutation failed
	FieldErrors FieldErrors
	Notice      string // backend warning or confirmation after a mutation
	Form        F
}

// List is the generic list-resource controller.
type List[S any, T any, F any] struct {
	env *Env
	src listSource[S, T]

	mu    sync.RWMutex
	state ListState[S, F]
}

func newList[S any, T any, F any](env *Env, src listSource[S, T]) *List[S, T, F] {
	return &List[S, T, F]{
		env:   env,
		src:   src,
		state: ListState[S, F]{Phase: PhaseLoading},
	}
}

// Snapshot returns a copy of the current state.
func (l *List[S, T, F]) Snapshot() ListState[S, F] {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Items returns the rows currently shown.
func (l *List[S, T, F]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.state.Data == nil {
		return nil
	}
	return l.src.items(l.state.Data)
}

// Limit returns the tier limit that applies to the loaded user.
func (l *List[S, T, F]) Limit() tiers.Limit {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.src.limits.For(l.tierLocked())
}

func (l *List[S, T, F]) tierLocked() string {
	if l.state.User == nil {
		return tiers.Free
	}
	return l.state.User.SubscriptionTier
}

// Load fetches the user and the list in parallel. A 401 from either ends the session.
// The loading flag is cleared whatever happens.
func (l *List[S, T, F]) Load(ctx context.Context) error {
	l.mu.Lock()
	l.state.Loading = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.state.Loading = false
		l.mu.Unlock()
	}()

	var (
		user *northwest.User
		data *S
	)
	var g errgroup.Group
	g.Go(func() error {
		u, err := l.env.API.Me(ctx)
		if err != nil {
			l.env.guard.Check(err)
			return fmt.Errorf("load user: %w", err)
		}
		user = u
		return nil
	})
	g.Go(func() error {
		d, err := l.src.fetch(ctx, l.env.API)
		if err != nil {
			l.env.guard.Check(err)
			return fmt.Errorf("load %s: %w", l.src.name, err)
		}
		data = d
		return nil
	})
	err := g.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()

	if err != nil {
		l.env.Log.Warn().Err(err).Str("page", l.src.name).Msg("Page load failed")
		l.state.Phase = PhaseError
		l.state.Error = l.env.loadError(err, fmt.Sprintf("Failed to load %s", l.src.name))
		l.state.Data = nil
		return err
	}

	l.state.User = user
	l.state.Data = data
	l.state.Error = ""
	l.state.Phase = l.phaseLocked()
	return nil
}

func (l *List[S, T, F]) phaseLocked() Phase {
	if l.state.Data == nil || len(l.src.items(l.state.Data)) == 0 {
		return PhaseEmpty
	}
	return PhaseData
}

// reject stores the typed form with its field errors, or clears stale ones.
// It returns the field errors, if any.
func (l *List[S, T, F]) reject(form F, fields FieldErrors) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.Form = form
	l.state.Notice = ""
	if len(fields) > 0 {
		l.state.FieldErrors = fields
		l.state.FormError = "Please correct the highlighted fields."
		return fields
	}
	l.state.FieldErrors = nil
	return nil
}

// create runs the shared create flow. Validation and the tier limit are checked
// before any request; post returns the backend warning, if any.
func (l *List[S, T, F]) create(ctx context.Context, form F, fields FieldErrors, post func(ctx context.Context) (*string, error)) error {
	if err := l.reject(form, fields); err != nil {
		return err
	}
	l.mu.Lock()

	count := 0
	if l.state.Data != nil {
		count = len(l.src.items(l.state.Data))
	}
	tier := l.tierLocked()
	limit := l.src.limits.For(tier)
	if !limit.Allows(count) {
		l.state.FormError = fmt.Sprintf(
			"You have reached the %s limit of your %s plan (%d/%s). Upgrade to add more %ss.",
			l.src.name, tiers.BadgeFor(tier).Label, count, limit, l.src.noun,
		)
		l.mu.Unlock()
		return ErrLimitReached
	}
	l.mu.Unlock()

	warning, err := post(ctx)
	if err != nil {
		l.mu.Lock()
		l.state.FormError = northwest.Detail(err, GenericError)
		l.mu.Unlock()
		return err
	}

	var zero F
	l.mu.Lock()
	l.state.Form = zero
	l.state.FormError = ""
	if warning != nil {
		l.state.Notice = *warning
	}
	l.mu.Unlock()

	return l.Load(ctx)
}

// Delete asks for confirmation, drops the row locally and sends DELETE.
// A refused delete reloads the list. It reports whether the row was deleted.
func (l *List[S, T, F]) Delete(ctx context.Context, id, prompt string) (bool, error) {
	if !l.env.Confirm.Confirm(prompt) {
		return false, nil
	}

	l.mu.Lock()
	if l.state.Data != nil {
		kept := make([]T, 0)
		for _, item := range l.src.items(l.state.Data) {
			if l.src.id(item) != id {
				kept = append(kept, item)
			}
		}
		// Copy the summary so earlier snapshots keep their rows
		data := *l.state.Data
		l.src.setItems(&data, kept)
		l.state.Data = &data
		l.state.Phase = l.phaseLocked()
	}
	l.state.FormError = ""
	l.state.Notice = ""
	l.mu.Unlock()

	if err := l.src.remove(ctx, l.env.API, id); err != nil {
		l.env.Log.Warn().Err(err).Str("page", l.src.name).Str("id", id).Msg("Delete failed, reloading")
		l.mu.Lock()
		l.state.FormError = northwest.Detail(err, fmt.Sprintf("Failed to delete %s", l.src.noun))
		l.mu.Unlock()
		_ = l.Load(ctx)
		return false, err
	}
	return true, nil
}

// update sends a PATCH and reloads.
func (l *List[S, T, F]) update(ctx context.Context, patch func(ctx context.Context) error) error {
	l.mu.Lock()
	l.state.FormError = ""
	l.state.Notice = ""
	l.mu.Unlock()

	err := patch(ctx)
	if err != nil {
		l.mu.Lock()
		l.state.FormError = northwest.Detail(err, GenericError)
		l.mu.Unlock()
	}
	if loadErr := l.Load(ctx); err == nil {
		err = loadErr
	}
	return err
}

// find returns the row with id.
func (l *List[S, T, F]) find(id string) (T, bool) {
	for _, item := range l.Items() {
		if l.src.id(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}
