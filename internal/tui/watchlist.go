package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aristath/nwcreek/internal/clients/northwest"
	"github.com/aristath/nwcreek/internal/modules/pages"
	"github.com/aristath/nwcreek/internal/utils"
)

type liveMsg struct {
	gen    int
	stream *northwest.PriceStream
	err    error
}

type priceMsg struct {
	gen    int
	update northwest.PriceUpdate
}

type watchlistScreen struct {
	p     *page
	ctl   *pages.WatchlistPage
	table table.Model

	add      *form
	notes    *form
	editing  string // ticker whose notes are edited
	editErrs map[string]string
	pending  string // "create" or "notes" while that operation runs

	live       bool
	liveState  string
	stream     *northwest.PriceStream
	subscribed map[string]bool
	prices     map[string]float64
}

func newWatchlistScreen(p *page, live bool) *watchlistScreen {
	return &watchlistScreen{
		p:   p,
		ctl: pages.NewWatchlistPage(p.env),
		table: newTable([]table.Column{
			{Title: "Ticker", Width: 8},
			{Title: "Company", Width: 24},
			{Title: "Price", Width: 11},
			{Title: "Change", Width: 9},
			{Title: "Notes", Width: 24},
			{Title: "Added", Width: 11},
		}),
		add: newForm(
			fieldSpec{name: "ticker", label: "Ticker", placeholder: "AAPL", limit: 10},
			fieldSpec{name: "notes", label: "Notes", limit: 500},
		),
		notes:      newForm(fieldSpec{name: "notes", label: "Notes", limit: 500}),
		live:       live,
		subscribed: map[string]bool{},
		prices:     map[string]float64{},
	}
}

func (s *watchlistScreen) init() tea.Cmd {
	return s.p.run(s.ctl.Load)
}

func (s *watchlistScreen) capturing() bool {
	return s.add.Active() || s.notes.Active()
}

func (s *watchlistScreen) help() []key.Binding {
	if s.capturing() {
		return []key.Binding{keys.Next, keys.Submit, keys.Back}
	}
	return []key.Binding{keys.Add, keys.Edit, keys.Delete, keys.Reload}
}

func (s *watchlistScreen) user() *northwest.User {
	return s.ctl.Snapshot().User
}

func (s *watchlistScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case doneMsg:
		state := s.ctl.Snapshot()
		switch s.pending {
		case "create":
			if msg.err == nil {
				s.add.Reset()
			}
		case "notes":
			s.editErrs = fieldErrors(msg.err)
		}
		s.pending = ""
		s.refresh()
		if s.live && state.Phase == pages.PhaseData {
			return s.subscribe()
		}
		return nil

	case liveMsg:
		if msg.err != nil {
			s.p.env.Log.Debug().Err(msg.err).Msg("Live prices unavailable")
			s.liveState = "live prices unavailable"
			s.stream = nil
			return nil
		}
		s.stream = msg.stream
		s.liveState = "live"
		stream := msg.stream
		s.p.onClose(func() { _ = stream.Close() })
		return tea.Batch(s.subscribe(), listen(s.p, stream))

	case priceMsg:
		s.prices[strings.ToUpper(msg.update.Ticker)] = msg.update.Price
		s.refresh()
		if s.stream == nil {
			return nil
		}
		return listen(s.p, s.stream)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return nil
}

func (s *watchlistScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	if s.add.Active() {
		submitted, cmd := s.add.HandleKey(msg)
		if !submitted {
			return cmd
		}
		s.pending = "create"
		form := pages.WatchlistForm{Ticker: s.add.Value("ticker"), Notes: s.add.Value("notes")}
		return s.p.run(func(ctx context.Context) error {
			return s.ctl.Create(ctx, form)
		})
	}

	if s.notes.Active() {
		submitted, cmd := s.notes.HandleKey(msg)
		if !submitted {
			return cmd
		}
		ticker, notes := s.editing, s.notes.Value("notes")
		s.editErrs = nil
		s.pending = "notes"
		s.notes.Blur()
		return s.p.run(func(ctx context.Context) error {
			return s.ctl.UpdateNotes(ctx, ticker, notes)
		})
	}

	items := s.ctl.Items()
	switch {
	case key.Matches(msg, keys.Add):
		return s.add.Focus()
	case key.Matches(msg, keys.Reload):
		return s.p.run(s.ctl.Load)
	case key.Matches(msg, keys.Edit):
		if i := selected(s.table, len(items)); i >= 0 {
			s.editing = items[i].Ticker
			s.notes.Set("notes", utils.Deref(items[i].Notes, ""))
			return s.notes.Focus()
		}
	case key.Matches(msg, keys.Delete):
		if i := selected(s.table, len(items)); i >= 0 {
			ticker := items[i].Ticker
			return s.p.run(func(ctx context.Context) error {
				_, err := s.ctl.Remove(ctx, ticker)
				return err
			})
		}
	default:
		var cmd tea.Cmd
		s.table, cmd = s.table.Update(msg)
		return cmd
	}
	return nil
}

// subscribe opens the live stream on first use and subscribes tickers not yet followed.
func (s *watchlistScreen) subscribe() tea.Cmd {
	p := s.p
	if s.stream == nil {
		if s.liveState != "" {
			return nil
		}
		s.liveState = "connecting"
		return func() tea.Msg {
			stream, err := p.env.API.DialLivePrices(p.ctx)
			if err != nil {
				return liveMsg{gen: p.gen, err: err}
			}
			if p.ctx.Err() != nil {
				_ = stream.Close()
				return liveMsg{gen: p.gen, err: p.ctx.Err()}
			}
			return liveMsg{gen: p.gen, stream: stream}
		}
	}

	var fresh []string
	for _, t := range s.ctl.Tickers() {
		if !s.subscribed[t] {
			s.subscribed[t] = true
			fresh = append(fresh, t)
		}
	}
	if len(fresh) == 0 {
		return nil
	}
	stream := s.stream
	return func() tea.Msg {
		if err := stream.Subscribe(p.ctx, fresh); err != nil {
			return liveMsg{gen: p.gen, err: err}
		}
		return nil
	}
}

func listen(p *page, stream *northwest.PriceStream) tea.Cmd {
	return func() tea.Msg {
		update, err := stream.Next(p.ctx)
		if err != nil {
			return liveMsg{gen: p.gen, err: err}
		}
		return priceMsg{gen: p.gen, update: *update}
	}
}

func (s *watchlistScreen) refresh() {
	items := s.ctl.Items()
	rows := make([]table.Row, 0, len(items))
	for _, item := range items {
		price := utils.USDPtr(item.CurrentPrice)
		if live, ok := s.prices[strings.ToUpper(item.Ticker)]; ok {
			price = utils.USD(live)
		}
		rows = append(rows, table.Row{
			item.Ticker,
			utils.Deref(item.CompanyName, "—"),
			price,
			utils.SignedPercentPtr(item.ChangePercent),
			utils.Deref(item.Notes, ""),
			shortDate(item.AddedAt),
		})
	}
	s.table.SetRows(rows)
	if n := len(rows); n > 0 && s.table.Cursor() >= n {
		s.table.SetCursor(n - 1)
	}
}

func (s *watchlistScreen) view(t Theme, width int) string {
	state := s.ctl.Snapshot()
	styleTable(&s.table, t)

	right := ""
	if state.Data != nil {
		right = fmt.Sprintf("%d of %s stocks", state.Data.Count, s.ctl.Limit())
	}
	if s.liveState != "" {
		right += "  · " + s.liveState
	}

	parts := []string{heading(t, "Watchlist", right)}
	if st := (status{
		phase:     state.Phase,
		loading:   state.Loading,
		loadErr:   state.Error,
		formError: state.FormError,
		notice:    state.Notice,
		empty:     "Your watchlist is empty. Press a to add a ticker.",
	}).view(t); st != "" {
		parts = append(parts, st)
	}
	if state.Phase == pages.PhaseData {
		parts = append(parts, s.table.View())
	}
	if s.add.Active() {
		parts = append(parts, t.title().Render("Add to watchlist"), s.add.View(t, state.FieldErrors))
	}
	if s.notes.Active() || s.editErrs != nil {
		parts = append(parts, t.title().Render("Notes for "+s.editing), s.notes.View(t, s.editErrs))
	}
	return strings.Join(parts, "\n\n")
}

// shortDate keeps the date part of a backend timestamp.
func shortDate(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}
