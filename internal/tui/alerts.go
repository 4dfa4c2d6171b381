package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/nwcreek/internal/clients/northwest"
	"github.com/aristath/nwcreek/internal/modules/pages"
	"github.com/aristath/nwcreek/internal/utils"
)

type alertsScreen struct {
	p     *page
	ctl   *pages.AlertsPage
	table table.Model

	add      *form
	edit     *form
	editing  string // alert id
	editErrs map[string]string
	pending  string
}

func newAlertsScreen(p *page) *alertsScreen {
	return &alertsScreen{
		p:   p,
		ctl: pages.NewAlertsPage(p.env),
		table: newTable([]table.Column{
			{Title: "Ticker", Width: 8},
			{Title: "When", Width: 7},
			{Title: "Target", Width: 11},
			{Title: "Price", Width: 11},
			{Title: "Distance", Width: 10},
			{Title: "Status", Width: 10},
			{Title: "Notes", Width: 20},
		}),
		add: newForm(
			fieldSpec{name: "ticker", label: "Ticker", placeholder: "AAPL", limit: 10},
			fieldSpec{name: "target_price", label: "Target price", placeholder: "200.00"},
			fieldSpec{name: "condition", label: "Condition", placeholder: "above | below", limit: 5},
			fieldSpec{name: "notes", label: "Notes", limit: 500},
		),
		edit: newForm(
			fieldSpec{name: "target_price", label: "Target price"},
			fieldSpec{name: "condition", label: "Condition", placeholder: "above | below", limit: 5},
			fieldSpec{name: "notes", label: "Notes", limit: 500},
		),
	}
}

func (s *alertsScreen) init() tea.Cmd {
	return s.p.run(s.ctl.Load)
}

func (s *alertsScreen) capturing() bool {
	return s.add.Active() || s.edit.Active()
}

func (s *alertsScreen) help() []key.Binding {
	if s.capturing() {
		return []key.Binding{keys.Next, keys.Submit, keys.Back}
	}
	return []key.Binding{keys.Add, keys.Edit, keys.Toggle, keys.Delete, keys.Reload}
}

func (s *alertsScreen) user() *northwest.User {
	return s.ctl.Snapshot().User
}

func (s *alertsScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case doneMsg:
		switch s.pending {
		case "create":
			if msg.err == nil {
				s.add.Reset()
			}
		case "edit":
			s.editErrs = fieldErrors(msg.err)
		}
		s.pending = ""
		s.refresh()
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return nil
}

func alertFrom(f *form) pages.AlertForm {
	return pages.AlertForm{
		Ticker:      f.Value("ticker"),
		TargetPrice: f.Value("target_price"),
		Condition:   f.Value("condition"),
		Notes:       f.Value("notes"),
	}
}

func (s *alertsScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	if s.add.Active() {
		submitted, cmd := s.add.HandleKey(msg)
		if !submitted {
			return cmd
		}
		s.pending = "create"
		form := alertFrom(s.add)
		return s.p.run(func(ctx context.Context) error {
			return s.ctl.Create(ctx, form)
		})
	}

	if s.edit.Active() {
		submitted, cmd := s.edit.HandleKey(msg)
		if !submitted {
			return cmd
		}
		s.pending = "edit"
		s.editErrs = nil
		s.edit.Blur()
		id, form := s.editing, alertFrom(s.edit)
		return s.p.run(func(ctx context.Context) error {
			return s.ctl.Update(ctx, id, form)
		})
	}

	items := s.ctl.Items()
	i := selected(s.table, len(items))
	switch {
	case key.Matches(msg, keys.Add):
		return s.add.Focus()
	case key.Matches(msg, keys.Reload):
		return s.p.run(s.ctl.Load)
	case key.Matches(msg, keys.Edit):
		if i >= 0 {
			s.editing = items[i].ID
			s.edit.Reset()
			s.edit.Set("notes", utils.Deref(items[i].Notes, ""))
			return s.edit.Focus()
		}
	case key.Matches(msg, keys.Toggle):
		if i >= 0 {
			id := items[i].ID
			return s.p.run(func(ctx context.Context) error {
				return s.ctl.Toggle(ctx, id)
			})
		}
	case key.Matches(msg, keys.Delete):
		if i >= 0 {
			id := items[i].ID
			return s.p.run(func(ctx context.Context) error {
				_, err := s.ctl.Remove(ctx, id)
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

func alertStatus(a northwest.Alert) string {
	switch {
	case a.TriggeredAt != nil:
		return "triggered"
	case a.IsActive:
		return "active"
	}
	return "paused"
}

func (s *alertsScreen) refresh() {
	items := s.ctl.Items()
	rows := make([]table.Row, 0, len(items))
	for _, a := range items {
		rows = append(rows, table.Row{
			a.Ticker,
			a.Condition,
			utils.USD(a.TargetPrice),
			utils.USDPtr(a.CurrentPrice),
			utils.SignedPercentPtr(a.DistancePercent),
			alertStatus(a),
			utils.Deref(a.Notes, ""),
		})
	}
	s.table.SetRows(rows)
	if n := len(rows); n > 0 && s.table.Cursor() >= n {
		s.table.SetCursor(n - 1)
	}
}

func (s *alertsScreen) view(t Theme, width int) string {
	state := s.ctl.Snapshot()
	styleTable(&s.table, t)

	right := ""
	if state.Data != nil {
		right = fmt.Sprintf("%d of %s alerts", state.Data.TotalAlerts, s.ctl.Limit())
	}

	parts := []string{heading(t, "Price alerts", right)}
	if st := (status{
		phase:     state.Phase,
		loading:   state.Loading,
		loadErr:   state.Error,
		formError: state.FormError,
		notice:    state.Notice,
		empty:     "No alerts yet. Press a to create one.",
	}).view(t); st != "" {
		parts = append(parts, st)
	}
	if d := state.Data; d != nil && state.Phase == pages.PhaseData {
		parts = append(parts,
			lipgloss.JoinHorizontal(lipgloss.Top,
				card(t, "Total", fmt.Sprint(d.TotalAlerts)),
				card(t, "Active", fmt.Sprint(d.ActiveAlerts)),
				card(t, "Triggered", fmt.Sprint(d.TriggeredAlerts)),
			),
			s.table.View(),
		)
	}
	if s.add.Active() {
		parts = append(parts, t.title().Render("New alert"), s.add.View(t, state.FieldErrors))
	}
	if s.edit.Active() || s.editErrs != nil {
		parts = append(parts, t.title().Render("Edit alert")+" "+t.muted().Render("blank fields stay unchanged"), s.edit.View(t, s.editErrs))
	}
	return strings.Join(parts, "\n\n")
}
