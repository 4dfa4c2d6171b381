package pages

import (
	"context"
	"sync"

	"github.com/aristath/nwcreek/internal/clients/northwest"
)

// State is a snapshot of a single-shot page.
type State[D any] struct {
	Phase       Phase
	Loading     bool
	User        *northwest.User
	Data        *D
	Error       string
	FieldErrors FieldErrors
	Notice      string
}

// single holds the state shared by the single-shot pages.
type single[D any] struct {
	env  *Env
	name string

	mu    sync.RWMutex
	state State[D]
}

func (s *single[D]) init(env *Env, name string) {
	s.env = env
	s.name = name
	s.state = State[D]{Phase: PhaseEmpty}
}

// Snapshot returns a copy of the current state.
func (s *single[D]) Snapshot() State[D] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *single[D]) begin() {
	s.mu.Lock()
	s.state.Loading = true
	s.state.Phase = PhaseLoading
	s.state.Error = ""
	s.state.FieldErrors = nil
	s.state.Notice = ""
	s.mu.Unlock()
}

// finish settles the page after a load. A 401 ends the session.
func (s *single[D]) finish(data *D, err error, fallback string) error {
	msg := ""
	if err != nil {
		msg = s.env.loadError(err, fallback)
	}
	return s.settle(data, err, msg)
}

// settle sets the final phase. A nil data with no error is the empty phase.
func (s *single[D]) settle(data *D, err error, msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	switch {
	case err != nil:
		s.env.Log.Warn().Err(err).Str("page", s.name).Msg("Page request failed")
		s.state.Phase = PhaseError
		s.state.Error = msg
		s.state.Data = nil
	case data == nil:
		s.state.Phase = PhaseEmpty
		s.state.Data = nil
	default:
		s.state.Phase = PhaseData
		s.state.Data = data
	}
	return err
}

func (s *single[D]) invalid(errs FieldErrors) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.FieldErrors = errs
	s.state.Error = "Please correct the highlighted fields."
	return errs
}

// fail reports a failed action without discarding what the page shows.
func (s *single[D]) fail(err error, fallback string) error {
	msg := s.env.loadError(err, fallback)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Error = msg
	return err
}

func (s *single[D]) setUser(u *northwest.User) {
	s.mu.Lock()
	s.state.User = u
	s.mu.Unlock()
}

func (s *single[D]) setNotice(msg string) {
	s.mu.Lock()
	s.state.Notice = msg
	s.mu.Unlock()
}

// loadUser fetches the signed-in user for the header badge.
func (s *single[D]) loadUser(ctx context.Context) error {
	s.begin()
	u, err := s.env.API.Me(ctx)
	if err != nil {
		return s.finish(nil, err, "Failed to load your account")
	}
	s.setUser(u)
	return s.finish(nil, nil, "")
}
