package pages

import (
	"context"
	"fmt"
	"strings"

	"github.com/aristath/nwcreek/internal/clients/northwest"
	"github.com/aristath/nwcreek/internal/modules/tiers"
	"github.com/aristath/nwcreek/internal/utils"
)

// WatchlistForm is the add-to-watchlist form as typed.
type WatchlistForm struct {
	Ticker string
	Notes  string
}

// WatchlistPage lists watched tickers with their live quotes.
type WatchlistPage struct {
	*List[northwest.Watchlist, northwest.WatchlistItem, WatchlistForm]
}

// NewWatchlistPage creates the watchlist controller.
func NewWatchlistPage(env *Env) *WatchlistPage {
	return &WatchlistPage{newList[northwest.Watchlist, northwest.WatchlistItem, WatchlistForm](env, listSource[northwest.Watchlist, northwest.WatchlistItem]{
		name: "watchlist",
		noun: "stock",
		fetch: func(ctx context.Context, api *northwest.Client) (*northwest.Watchlist, error) {
			return api.Watchlist(ctx)
		},
		items:    func(w *northwest.Watchlist) []northwest.WatchlistItem { return w.Items },
		setItems: func(w *northwest.Watchlist, items []northwest.WatchlistItem) { w.Items = items; w.Count = len(items) },
		// The backend keys watchlist rows by ticker
		id: func(item northwest.WatchlistItem) string { return item.Ticker },
		remove: func(ctx context.Context, api *northwest.Client, ticker string) error {
			return api.RemoveFromWatchlist(ctx, ticker)
		},
		limits: tiers.WatchlistLimits,
	})}
}

func (f WatchlistForm) check() (northwest.WatchlistAdd, FieldErrors) {
	c := newChecker()
	ticker := utils.NormalizeTicker(f.Ticker)
	c.ticker("ticker", ticker)
	notes := c.notes("notes", f.Notes)
	return northwest.WatchlistAdd{Ticker: ticker, Notes: notes}, c.result()
}

// Validate records the form's field errors without contacting the backend.
func (p *WatchlistPage) Validate(form WatchlistForm) error {
	_, fields := form.check()
	return p.reject(form, fields)
}

// Create adds a ticker.
func (p *WatchlistPage) Create(ctx context.Context, form WatchlistForm) error {
	add, fields := form.check()
	return p.create(ctx, form, fields, func(ctx context.Context) (*string, error) {
		item, err := p.env.API.AddToWatchlist(ctx, add)
		if err != nil {
			return nil, err
		}
		return item.Warning, nil
	})
}

// UpdateNotes replaces the notes of a watched ticker. Blank notes clear them.
func (p *WatchlistPage) UpdateNotes(ctx context.Context, ticker, notes string) error {
	ticker = utils.NormalizeTicker(ticker)
	c := newChecker()
	n := c.notes("notes", notes)
	if errs := c.result(); errs != nil {
		return errs
	}
	return p.update(ctx, func(ctx context.Context) error {
		_, err := p.env.API.UpdateWatchlistItem(ctx, ticker, northwest.WatchlistUpdate{Notes: n})
		return err
	})
}

// Remove deletes a ticker after confirmation.
func (p *WatchlistPage) Remove(ctx context.Context, ticker string) (bool, error) {
	ticker = utils.NormalizeTicker(ticker)
	return p.Delete(ctx, ticker, fmt.Sprintf("Remove %s from your watchlist?", ticker))
}

// Tickers returns the watched symbols, for the live price subscription.
func (p *WatchlistPage) Tickers() []string {
	items := p.Items()
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, strings.ToUpper(item.Ticker))
	}
	return out
}
