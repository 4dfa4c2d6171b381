package pages

import (
	"context"
	"fmt"

	"github.com/aristath/nwcreek/internal/clients/northwest"
	"github.com/aristath/nwcreek/internal/utils"
	"golang.org/x/sync/errgroup"
)

// History windows accepted by the backend.
const (
	DefaultHistoryDays = 30
	MaxHistoryDays     = 365
)

// StockView is everything the stock page shows for one ticker.
type StockView struct {
	Ticker  string
	Days    int
	Quote   *northwest.Quote
	Company *northwest.Company
	History *northwest.History
}

// StocksPage looks up a quote, company profile and price history.
type StocksPage struct {
	single[StockView]
}

// NewStocksPage creates the stock lookup controller.
func NewStocksPage(env *Env) *StocksPage {
	p := &StocksPage{}
	p.init(env, "stocks")
	return p
}

// Load fetches the signed-in user; the page stays empty until a lookup.
func (p *StocksPage) Load(ctx context.Context) error {
	return p.loadUser(ctx)
}

// Lookup fetches the three stock resources in parallel. Days outside 1..365
// fall back to 30.
func (p *StocksPage) Lookup(ctx context.Context, ticker string, days int) error {
	ticker = utils.NormalizeTicker(ticker)
	if days < 1 || days > MaxHistoryDays {
		days = DefaultHistoryDays
	}
	c := newChecker()
	c.ticker("ticker", ticker)
	if errs := c.result(); errs != nil {
		return p.invalid(errs)
	}

	p.begin()
	view := &StockView{Ticker: ticker, Days: days}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		view.Quote, err = p.env.API.Quote(gctx, ticker)
		return err
	})
	g.Go(func() (err error) {
		view.Company, err = p.env.API.Company(gctx, ticker)
		return err
	})
	g.Go(func() (err error) {
		view.History, err = p.env.API.History(gctx, ticker, days)
		return err
	})
	if err := g.Wait(); err != nil {
		return p.finish(nil, err, fmt.Sprintf("Could not load %s", ticker))
	}
	return p.finish(view, nil, "")
}
