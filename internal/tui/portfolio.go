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

type portfolioScreen struct {
	p     *page
	ctl   *pages.PortfolioPage
	table table.Model

	add      *form
	edit     *form
	editing  string // position id
	editErrs map[string]string
	pending  string
}

func newPortfolioScreen(p *page) *portfolioScreen {
	return &portfolioScreen{
		p:   p,
		ctl: pages.NewPortfolioPage(p.env),
		table: newTable([]table.Column{
			{Title: "Ticker", Width: 8},
			{Title: "Shares", Width: 9},
			{Title: "Bought", Width: 11},
			{Title: "Buy price", Width: 11},
			{Title: "Price", Width: 11},
			{Title: "Value", Width: 12},
			{Title: "P&L", Width: 12},
			{Title: "P&L %", Width: 9},
		}),
		add: newForm(
			fieldSpec{name: "ticker", label: "Ticker", placeholder: "AAPL", limit: 10},
			fieldSpec{name: "quantity", label: "Shares", placeholder: "10"},
			fieldSpec{name: "buy_price", label: "Buy price", placeholder: "150.00"},
			fieldSpec{name: "buy_date", label: "Buy date", placeholder: "YYYY-MM-DD", limit: 10},
			fieldSpec{name: "notes", label: "Notes", limit: 500},
		),
		edit: newForm(
			fieldSpec{name: "quantity", label: "Shares"},
			fieldSpec{name: "buy_price", label: "Buy price"},
			fieldSpec{name: "buy_date", label: "Buy date", placeholder: "YYYY-MM-DD", limit: 10},
			fieldSpec{name: "notes", label: "Notes", limit: 500},
		),
	}
}

func (s *portfolioScreen) init() tea.Cmd {
	return s.p.run(s.ctl.Load)
}

func (s *portfolioScreen) capturing() bool {
	return s.add.Active() || s.edit.Active()
}

func (s *portfolioScreen) help() []key.Binding {
	if s.capturing() {
		return []key.Binding{keys.Next, keys.Submit, keys.Back}
	}
	return []key.Binding{keys.Add, keys.Edit, keys.Delete, keys.Reload}
}

func (s *portfolioScreen) user() *northwest.User {
	return s.ctl.Snapshot().User
}

func (s *portfolioScreen) update(msg tea.Msg) tea.Cmd {
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

func positionFrom(f *form) pages.PositionForm {
	return pages.PositionForm{
		Ticker:   f.Value("ticker"),
		Quantity: f.Value("quantity"),
		BuyPrice: f.Value("buy_price"),
		BuyDate:  f.Value("buy_date"),
		Notes:    f.Value("notes"),
	}
}

func (s *portfolioScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	if s.add.Active() {
		submitted, cmd := s.add.HandleKey(msg)
		if !submitted {
			return cmd
		}
		s.pending = "create"
		form := positionFrom(s.add)
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
		id, form := s.editing, positionFrom(s.edit)
		return s.p.run(func(ctx context.Context) error {
			return s.ctl.Update(ctx, id, form)
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
			pos := items[i]
			s.editing = pos.ID
			s.edit.Reset()
			s.edit.Set("notes", utils.Deref(pos.Notes, ""))
			return s.edit.Focus()
		}
	case key.Matches(msg, keys.Delete):
		if i := selected(s.table, len(items)); i >= 0 {
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

func (s *portfolioScreen) refresh() {
	items := s.ctl.Items()
	rows := make([]table.Row, 0, len(items))
	for _, pos := range items {
		rows = append(rows, table.Row{
			pos.Ticker,
			utils.Quantity(pos.Quantity),
			shortDate(pos.BuyDate),
			utils.USD(pos.BuyPrice),
			utils.USDPtr(pos.CurrentPrice),
			utils.USDPtr(pos.CurrentValue),
			utils.SignedUSDPtr(pos.ProfitLoss),
			utils.SignedPercentPtr(pos.ProfitLossPercent),
		})
	}
	s.table.SetRows(rows)
	if n := len(rows); n > 0 && s.table.Cursor() >= n {
		s.table.SetCursor(n - 1)
	}
}

func (s *portfolioScreen) summary(t Theme, data *northwest.Portfolio) string {
	cards := []string{
		card(t, "Invested", utils.USD(data.TotalInvested)),
		card(t, "Value", utils.USD(data.TotalCurrentValue)),
		card(t, "P&L", t.sign(data.TotalProfitLoss, utils.SignedUSD(data.TotalProfitLoss)+" "+utils.SignedPercent(data.TotalProfitLossPercent))),
	}
	if b := data.BestPerformer; b != nil {
		cards = append(cards, card(t, "Best", b.Ticker+" "+t.sign(b.Return, utils.SignedPercent(b.Return))))
	}
	if w := data.WorstPerformer; w != nil {
		cards = append(cards, card(t, "Worst", w.Ticker+" "+t.sign(w.Return, utils.SignedPercent(w.Return))))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (s *portfolioScreen) view(t Theme, width int) string {
	state := s.ctl.Snapshot()
	styleTable(&s.table, t)

	right := ""
	if state.Data != nil {
		right = fmt.Sprintf("%d of %s positions", state.Data.TotalPositions, s.ctl.Limit())
	}

	parts := []string{heading(t, "Portfolio", right)}
	if st := (status{
		phase:     state.Phase,
		loading:   state.Loading,
		loadErr:   state.Error,
		formError: state.FormError,
		notice:    state.Notice,
		empty:     "No positions yet. Press a to record a purchase.",
	}).view(t); st != "" {
		parts = append(parts, st)
	}
	if state.Phase == pages.PhaseData {
		parts = append(parts, s.summary(t, state.Data), s.table.View())
	}
	if s.add.Active() {
		parts = append(parts, t.title().Render("Add position"), s.add.View(t, state.FieldErrors))
	}
	if s.edit.Active() || s.editErrs != nil {
		parts = append(parts, t.title().Render("Edit position")+" "+t.muted().Render("blank fields stay unchanged"), s.edit.View(t, s.editErrs))
	}
	return strings.Join(parts, "\n\n")
}
