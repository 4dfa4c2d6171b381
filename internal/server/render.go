package server

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/aristath/nwcreek/internal/clients/northwest"
	"github.com/aristath/nwcreek/internal/modules/dcf"
	"github.com/aristath/nwcreek/internal/modules/pages"
	"github.com/aristath/nwcreek/internal/modules/session"
	"github.com/aristath/nwcreek/internal/modules/storage"
	"github.com/aristath/nwcreek/internal/modules/tiers"
	"github.com/aristath/nwcreek/internal/utils"
	"github.com/aristath/nwcreek/pkg/embedded"
)

var pageTemplates = []string{
	"login", "register", "verify",
	"watchlist", "portfolio", "alerts",
	"stocks", "technical", "dcf", "pricing",
}

// view is the data every template receives.
type view struct {
	Title    string
	Active   string
	Path     string
	Theme    string
	LoggedIn bool
	User     *northwest.User
	Page     any
}

type views struct {
	pages map[string]*template.Template
}

func loadViews() (*views, error) {
	v := &views{pages: make(map[string]*template.Template, len(pageTemplates))}
	for _, name := range pageTemplates {
		t, err := template.New(name).Funcs(funcMap()).ParseFS(embedded.Files, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		v.pages[name] = t
	}
	return v, nil
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"usd":              utils.USD,
		"signedUSD":        utils.SignedUSD,
		"usdPtr":           utils.USDPtr,
		"signedUSDPtr":     utils.SignedUSDPtr,
		"cents":            utils.CentsUSD,
		"percent":          utils.Percent,
		"signedPercent":    utils.SignedPercent,
		"signedPercentPtr": utils.SignedPercentPtr,
		"number":           utils.Number,
		"numberPtr":        utils.NumberPtr,
		"quantity":         utils.Quantity,
		"compact":          utils.Compact,
		"compactUSD":       utils.CompactUSD,
		"deref":            utils.Deref,
		"plural":           utils.Plural,
		"fractionPercent":  dcf.FractionToPercent,
		"badge":            tiers.BadgeFor,
		"signClass":        signClass,
		"signClassPtr":     signClassPtr,
		"date":             displayDate,
	}
}

func signClass(v float64) string {
	switch {
	case v > 0:
		return "up"
	case v < 0:
		return "down"
	}
	return ""
}

func signClassPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return signClass(*v)
}

// displayDate shows a backend timestamp as "Jan 2, 2006"; unparseable input is shown as-is.
func displayDate(s string) string {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("Jan 2, 2006")
		}
	}
	return s
}

// render executes a page, or redirects when the page navigated away.
func (s *Server) render(w http.ResponseWriter, r *http.Request, rec *session.Recorder, name string, v view) {
	if rec != nil && rec.Target() != "" {
		http.Redirect(w, r, rec.Target(), http.StatusSeeOther)
		return
	}

	t, ok := s.views.pages[name]
	if !ok {
		s.log.Error().Str("template", name).Msg("Unknown template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	store := s.store(r)
	v.Path = r.URL.Path
	v.Theme = pages.Theme(store)
	token, _ := store.Get(storage.TokenKey)
	v.LoggedIn = token != ""

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", v); err != nil {
		s.log.Error().Err(err).Str("template", name).Msg("Failed to render page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		s.log.Error().Err(err).Msg("Failed to write page")
	}
}

// redirect sends the browser to path with 303 See Other.
func redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// requireLogin redirects signed-out browsers to the login page and reports
// whether the handler may continue.
func requireLogin(w http.ResponseWriter, r *http.Request, env *pages.Env, back string) bool {
	if env.LoggedIn() {
		return true
	}
	redirect(w, r, pages.PathLogin+"?next="+url.QueryEscape(back))
	return false
}
