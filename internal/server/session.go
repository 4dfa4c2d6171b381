package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/aristath/nwcreek/internal/modules/pages"
	"github.com/aristath/nwcreek/internal/modules/session"
	"github.com/aristath/nwcreek/internal/modules/storage"
)

const sessionCookie = "nwcreek_session"

type contextKey int

const scopeKey contextKey = iota

// sessionMiddleware gives every browser a scope id kept in a cookie. The scope is
// the browser's "local storage" on this server.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/static/") || r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		var id string
		if c, err := r.Cookie(sessionCookie); err == nil {
			if parsed, err := uuid.Parse(c.Value); err == nil {
				id = parsed.String()
			}
		}
		if id == "" {
			id = uuid.NewString()
		} else if err := s.storage.Touch(id); err != nil {
			s.log.Warn().Err(err).Msg("Failed to touch session")
		}

		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			MaxAge:   int(s.cfg.SessionTTL.Seconds()),
			HttpOnly: true,
			Secure:   s.cfg.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), scopeKey, id)))
	})
}

// store returns the request's storage scope.
func (s *Server) store(r *http.Request) *storage.Scoped {
	id, _ := r.Context().Value(scopeKey).(string)
	return s.storage.Scope(id)
}

// newEnv creates the page environment of one request. Navigation is recorded
// and turned into a redirect by render.
func (s *Server) newEnv(r *http.Request, confirm pages.Confirmer) (*pages.Env, *session.Recorder) {
	rec := &session.Recorder{}
	log := s.log.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()
	return pages.NewEnv(s.api, s.store(r), rec, confirm, log), rec
}

// confirmedForm treats the browser's confirm() answer, posted as confirmed=true,
// as the confirmer's answer.
func confirmedForm(r *http.Request) pages.Confirmer {
	return pages.ConfirmFunc(func(string) bool {
		return r.PostFormValue("confirmed") == "true"
	})
}
