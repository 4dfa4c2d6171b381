package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	figure "github.com/common-nighthawk/go-figure"

	"github.com/aristath/nwcreek/internal/clients/northwest"
	"github.com/aristath/nwcreek/internal/modules/charts"
	"github.com/aristath/nwcreek/internal/modules/dcf"
	"github.com/aristath/nwcreek/internal/modules/pages"
	"github.com/aristath/nwcreek/internal/utils"
)

const chartHeight = 10

// renderFiglet renders text in the small figlet font.
func renderFiglet(text string) string {
	fig := figure.NewFigure(text, "small", false)
	return strings.TrimRight(strings.Join(fig.Slicify(), "\n"), "\n ")
}

func closes(bars []northwest.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

func volumes(bars []northwest.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Volume
	}
	return out
}

func areaChart(t Theme, bars []northwest.Bar, width int) string {
	if len(bars) == 0 {
		return ""
	}
	data := closes(bars)
	return charts.RenderArea(data, data[0], width, chartHeight, t.Success, t.Error)
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// Stocks

type suggestTickMsg struct {
	gen   int
	seq   uint64
	query string
}

type suggestMsg struct {
	gen     int
	results []pages.Suggestion
}

type stocksScreen struct {
	p       *page
	ctl     *pages.StocksPage
	suggest *pages.Suggester
	form    *form

	suggestions []pages.Suggestion
	highlight   int
}

func newStocksScreen(p *page, suggester *pages.Suggester) *stocksScreen {
	s := &stocksScreen{
		p:       p,
		ctl:     pages.NewStocksPage(p.env),
		suggest: suggester,
		form: newForm(
			fieldSpec{name: "ticker", label: "Ticker", placeholder: "ticker or company", limit: 40},
			fieldSpec{name: "days", label: "Days", placeholder: strconv.Itoa(pages.DefaultHistoryDays), limit: 3},
		),
		highlight: -1,
	}
	s.form.Set("days", strconv.Itoa(pages.DefaultHistoryDays))
	return s
}

func (s *stocksScreen) init() tea.Cmd {
	return tea.Batch(s.p.run(s.ctl.Load), s.form.Focus())
}

func (s *stocksScreen) capturing() bool { return s.form.Active() }

func (s *stocksScreen) help() []key.Binding {
	if s.capturing() {
		return []key.Binding{keys.Submit, keys.Complete, keys.Next, keys.Back}
	}
	return []key.Binding{keys.Search}
}

func (s *stocksScreen) user() *northwest.User { return s.ctl.Snapshot().User }

func (s *stocksScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case suggestTickMsg:
		// A newer keystroke restarted the delay
		if !s.suggest.Current(msg.seq) {
			return nil
		}
		p, seq, q := s.p, msg.seq, msg.query
		return func() tea.Msg {
			results, kept := s.suggest.Lookup(p.ctx, seq, q)
			if !kept {
				return nil
			}
			return suggestMsg{gen: p.gen, results: results}
		}

	case suggestMsg:
		s.suggestions = msg.results
		s.highlight = -1

	case tea.KeyMsg:
		if !s.form.Active() {
			if key.Matches(msg, keys.Search) {
				return s.form.Focus()
			}
			return nil
		}
		if key.Matches(msg, keys.Complete) && len(s.suggestions) > 0 {
			s.highlight = (s.highlight + 1) % len(s.suggestions)
			s.form.Set("ticker", s.suggestions[s.highlight].Ticker)
			return nil
		}

		before := s.form.Value("ticker")
		submitted, cmd := s.form.HandleKey(msg)
		if submitted {
			s.suggestions = nil
			s.suggest.Begin("")
			ticker, days := s.form.Value("ticker"), atoi(s.form.Value("days"))
			return s.p.run(func(ctx context.Context) error {
				return s.ctl.Lookup(ctx, ticker, days)
			})
		}
		if q := s.form.Value("ticker"); q != before {
			return tea.Batch(cmd, s.debounce(q))
		}
		return cmd
	}
	return nil
}

// debounce restarts the suggestion delay for q.
func (s *stocksScreen) debounce(q string) tea.Cmd {
	seq := s.suggest.Begin(q)
	if strings.TrimSpace(q) == "" {
		s.suggestions = nil
		return nil
	}
	gen := s.p.gen
	return tea.Tick(pages.SuggestDelay, func(time.Time) tea.Msg {
		return suggestTickMsg{gen: gen, seq: seq, query: q}
	})
}

func (s *stocksScreen) view(t Theme, width int) string {
	state := s.ctl.Snapshot()
	parts := []string{heading(t, "Stocks", "quote, company profile and price history"), s.form.View(t, state.FieldErrors)}

	if len(s.suggestions) > 0 && s.form.Active() {
		lines := make([]string, 0, len(s.suggestions))
		for i, sg := range s.suggestions {
			line := fmt.Sprintf("%-6s %s", sg.Ticker, sg.Name)
			if i == s.highlight {
				lines = append(lines, lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Render("› "+line))
			} else {
				lines = append(lines, t.muted().Render("  "+line))
			}
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}

	if st := (status{phase: state.Phase, loading: state.Loading, loadErr: state.Error, notice: state.Notice}).view(t); st != "" {
		parts = append(parts, st)
	}
	if v := state.Data; v != nil && state.Phase == pages.PhaseData {
		parts = append(parts, s.viewStock(t, v, width))
	}
	return strings.Join(parts, "\n\n")
}

func (s *stocksScreen) viewStock(t Theme, v *pages.StockView, width int) string {
	var parts []string

	name := v.Ticker
	if v.Company != nil && v.Company.Name != "" {
		name = v.Company.Name + " (" + v.Ticker + ")"
	}
	parts = append(parts, t.title().Render(name))

	if q := v.Quote; q != nil {
		price := lipgloss.NewStyle().Foreground(t.Info).Render(renderFiglet(utils.Number(q.Price, 2)))
		change := t.sign(q.Change, utils.SignedUSD(q.Change)+" ("+utils.SignedPercent(q.ChangePercent)+")")
		stats := t.muted().Render(fmt.Sprintf("Open %s  High %s  Low %s  Prev %s  Vol %s",
			utils.USD(q.Open), utils.USD(q.High), utils.USD(q.Low), utils.USD(q.PreviousClose), utils.Compact(q.Volume)))
		parts = append(parts, price, change, stats)
	}

	if c := v.Company; c != nil {
		facts := []string{}
		add := func(label string, value *string) {
			if value != nil && *value != "" {
				facts = append(facts, label+" "+*value)
			}
		}
		add("Sector", c.Sector)
		add("Industry", c.Industry)
		add("Exchange", c.Exchange)
		add("Country", c.Country)
		if c.MarketCap != nil {
			facts = append(facts, "Market cap "+utils.CompactUSD(*c.MarketCap))
		}
		if c.Employees != nil {
			facts = append(facts, "Employees "+utils.Compact(float64(*c.Employees)))
		}
		add("Web", c.Website)
		if len(facts) > 0 {
			parts = append(parts, t.style().Render(strings.Join(facts, " · ")))
		}
		if c.Description != nil && *c.Description != "" {
			parts = append(parts, t.muted().Width(width).Render(*c.Description))
		}
	}

	if h := v.History; h != nil && len(h.Data) > 0 {
		parts = append(parts,
			t.title().Render(fmt.Sprintf("Last %s", utils.Plural(v.Days, "day"))),
			areaChart(t, h.Data, width),
			t.muted().Render(charts.Sparkline(volumes(h.Data), width)),
		)
	}
	return strings.Join(parts, "\n")
}

// Technical analysis

type technicalScreen struct {
	p    *page
	ctl  *pages.TechnicalPage
	form *form
}

func newTechnicalScreen(p *page) *technicalScreen {
	s := &technicalScreen{
		p:   p,
		ctl: pages.NewTechnicalPage(p.env),
		form: newForm(
			fieldSpec{name: "ticker", label: "Ticker", placeholder: "AAPL", limit: 10},
			fieldSpec{name: "days", label: "Days", limit: 3},
		),
	}
	s.form.Set("days", strconv.Itoa(pages.DefaultAnalysisDays))
	return s
}

func (s *technicalScreen) init() tea.Cmd {
	return tea.Batch(s.p.run(s.ctl.Load), s.form.Focus())
}

func (s *technicalScreen) capturing() bool { return s.form.Active() }

func (s *technicalScreen) help() []key.Binding {
	if s.capturing() {
		return []key.Binding{keys.Submit, keys.Next, keys.Back}
	}
	return []key.Binding{keys.Search}
}

func (s *technicalScreen) user() *northwest.User { return s.ctl.Snapshot().User }

func (s *technicalScreen) update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if !s.form.Active() {
		if key.Matches(km, keys.Search) {
			return s.form.Focus()
		}
		return nil
	}
	submitted, cmd := s.form.HandleKey(km)
	if !submitted {
		return cmd
	}
	ticker, days := s.form.Value("ticker"), atoi(s.form.Value("days"))
	return s.p.run(func(ctx context.Context) error {
		return s.ctl.Analyze(ctx, ticker, days)
	})
}

func optNumber(v *float64) string {
	return utils.NumberPtr(v, 2)
}

func optText(v *string) string {
	return utils.Deref(v, "—")
}

func (s *technicalScreen) view(t Theme, width int) string {
	state := s.ctl.Snapshot()
	parts := []string{heading(t, "Technical analysis", "indicators computed by Northwest Creek"), s.form.View(t, state.FieldErrors)}
	if st := (status{phase: state.Phase, loading: state.Loading, loadErr: state.Error}).view(t); st != "" {
		parts = append(parts, st)
	}
	a := state.Data
	if a == nil || state.Phase != pages.PhaseData {
		return strings.Join(parts, "\n\n")
	}

	outlook := lipgloss.NewStyle().Foreground(t.Info).Bold(true).Render(strings.ToUpper(a.Summary.Outlook))
	parts = append(parts,
		t.title().Render(fmt.Sprintf("%s (%s) %s", a.CompanyName, a.Ticker, utils.USD(a.CurrentPrice))),
		fmt.Sprintf("%s  strength %d  %s", outlook, a.Summary.Strength, t.muted().Render(a.Summary.Message)),
	)

	ind := a.Indicators
	rows := [][2]string{
		{"RSI", fmt.Sprintf("%s  %s  %s", optNumber(ind.RSI.Value), ind.RSI.Signal, ind.RSI.Description)},
		{"MACD", fmt.Sprintf("line %s  signal %s  hist %s  %s", optNumber(ind.MACD.MACDLine), optNumber(ind.MACD.SignalLine), optNumber(ind.MACD.Histogram), optText(ind.MACD.Trend))},
		{"SMA", fmt.Sprintf("20 %s  50 %s  200 %s", optNumber(ind.MovingAverages.SMA20), optNumber(ind.MovingAverages.SMA50), optNumber(ind.MovingAverages.SMA200))},
		{"Bollinger", fmt.Sprintf("upper %s  middle %s  lower %s  %s", optNumber(ind.BollingerBands.UpperBand), optNumber(ind.BollingerBands.MiddleBand), optNumber(ind.BollingerBands.LowerBand), optText(ind.BollingerBands.Position))},
	}
	label := t.muted().Width(11)
	var lines []string
	for _, r := range rows {
		lines = append(lines, label.Render(r[0])+t.style().Render(r[1]))
	}
	parts = append(parts, strings.Join(lines, "\n"))

	if len(a.Signals) > 0 {
		var sig []string
		for _, sg := range a.Signals {
			style := t.noticeStyle()
			switch strings.ToLower(sg.Type) {
			case "buy", "bullish":
				style = lipgloss.NewStyle().Foreground(t.Success)
			case "sell", "bearish":
				style = t.errorStyle()
			}
			sig = append(sig, style.Render(strings.ToUpper(sg.Type))+" "+t.muted().Render(sg.Indicator)+" "+sg.Message)
		}
		parts = append(parts, strings.Join(sig, "\n"))
	}
	if chart := areaChart(t, a.ChartData, width); chart != "" {
		parts = append(parts, chart)
	}
	return strings.Join(parts, "\n\n")
}

// DCF valuation

type dcfScreen struct {
	p    *page
	ctl  *pages.DCFPage
	form *form
}

func newDCFScreen(p *page) *dcfScreen {
	s := &dcfScreen{
		p:   p,
		ctl: pages.NewDCFPage(p.env),
		form: newForm(
			fieldSpec{name: dcf.FieldTicker, label: "Ticker", placeholder: "AAPL", limit: 10},
			fieldSpec{name: dcf.FieldGrowthRate, label: "Growth rate %"},
			fieldSpec{name: dcf.FieldTerminalGrowth, label: "Terminal growth %"},
			fieldSpec{name: dcf.FieldDiscountRate, label: "Discount rate %"},
			fieldSpec{name: dcf.FieldProjectionYears, label: "Years", limit: 2},
		),
	}
	for name, value := range s.ctl.Form().Values() {
		s.form.Set(name, value)
	}
	return s
}

func (s *dcfScreen) init() tea.Cmd {
	return tea.Batch(s.p.run(s.ctl.Load), s.form.Focus())
}

func (s *dcfScreen) capturing() bool { return s.form.Active() }

func (s *dcfScreen) help() []key.Binding {
	if s.capturing() {
		return []key.Binding{keys.Submit, keys.Next, keys.Back}
	}
	return []key.Binding{keys.Search}
}

func (s *dcfScreen) user() *northwest.User { return s.ctl.Snapshot().User }

func (s *dcfScreen) update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if !s.form.Active() {
		if key.Matches(km, keys.Search) {
			return s.form.Focus()
		}
		return nil
	}
	submitted, cmd := s.form.HandleKey(km)
	if !submitted {
		return cmd
	}
	values := map[string]string{}
	for _, f := range s.form.fields {
		values[f.name] = f.input.Value()
	}
	get := func(name string) string { return values[name] }
	return s.p.run(func(ctx context.Context) error {
		return s.ctl.Submit(ctx, get)
	})
}

func (t Theme) rating(color string) lipgloss.Style {
	c := t.Warning
	switch strings.ToLower(color) {
	case "green":
		c = t.Success
	case "red":
		c = t.Error
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}

func (s *dcfScreen) view(t Theme, width int) string {
	state := s.ctl.Snapshot()
	parts := []string{heading(t, "DCF valuation", "rates in percent"), s.form.View(t, state.FieldErrors)}
	if st := (status{phase: state.Phase, loading: state.Loading, loadErr: state.Error}).view(t); st != "" {
		parts = append(parts, st)
	}
	r := state.Data
	if r == nil || state.Phase != pages.PhaseData {
		return strings.Join(parts, "\n\n")
	}

	banner := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1).
		Render(t.rating(r.Recommendation.Color).Render(r.Recommendation.Rating) + "  " + r.Recommendation.Message)
	parts = append(parts, t.title().Render(fmt.Sprintf("%s (%s)", r.CompanyName, r.Ticker)), banner)

	v := r.Valuation
	parts = append(parts, lipgloss.JoinHorizontal(lipgloss.Top,
		card(t, "Intrinsic value", utils.USD(v.IntrinsicValuePerShare)),
		card(t, "Price", utils.USD(v.CurrentPrice)),
		card(t, "Margin of safety", t.sign(v.MarginOfSafety, utils.SignedPercent(v.MarginOfSafety))),
		card(t, "Enterprise value", utils.CompactUSD(v.EnterpriseValue)),
	))

	a := r.Assumptions
	parts = append(parts, t.muted().Render(fmt.Sprintf("Growth %s%%  Terminal %s%%  Discount %s%%  %s  FCF %s  Shares %s",
		dcf.FractionToPercent(a.GrowthRate), dcf.FractionToPercent(a.TerminalGrowth), dcf.FractionToPercent(a.DiscountRate),
		utils.Plural(a.ProjectionYears, "year"), utils.CompactUSD(a.CurrentFCF), utils.Compact(a.SharesOutstanding))))

	var maxPV float64
	for _, p := range r.Projections {
		if p.PresentValue > maxPV {
			maxPV = p.PresentValue
		}
	}
	barWidth := width - 48
	if barWidth < 10 {
		barWidth = 10
	}
	bar := lipgloss.NewStyle().Foreground(t.Primary)
	lines := []string{t.muted().Render(fmt.Sprintf("%-5s %14s %14s %8s", "Year", "Cash flow", "Present value", "Factor"))}
	for _, p := range r.Projections {
		n := 0
		if maxPV > 0 {
			n = int(p.PresentValue / maxPV * float64(barWidth))
		}
		lines = append(lines, fmt.Sprintf("%-5d %14s %14s %8s %s",
			p.Year, utils.CompactUSD(p.CashFlow), utils.CompactUSD(p.PresentValue), utils.Number(p.DiscountFactor, 4),
			bar.Render(strings.Repeat("█", n))))
	}
	lines = append(lines, fmt.Sprintf("%-5s %14s %14s", "TV", utils.CompactUSD(r.TerminalValue.Value), utils.CompactUSD(r.TerminalValue.PresentValue)))
	parts = append(parts, strings.Join(lines, "\n"))
	return strings.Join(parts, "\n\n")
}
