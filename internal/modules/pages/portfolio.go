package pages

import (
	"context"
	"fmt"
	"strings"

	"github.com/aristath/nwcreek/internal/clients/northwest"
	"github.com/aristath/nwcreek/internal/modules/tiers"
	"github.com/aristath/nwcreek/internal/utils"
)

// PositionForm is the add/edit position form as typed.
type PositionForm struct {
	Ticker   string
	Quantity string
	BuyPrice string
	BuyDate  string
	Notes    string
}

// PortfolioPage lists positions with the backend's summary figures.
type PortfolioPage struct {
	*List[northwest.Portfolio, northwest.Position, PositionForm]
}

// NewPortfolioPage creates the portfolio controller.
func NewPortfolioPage(env *Env) *PortfolioPage {
	return &PortfolioPage{newList[northwest.Portfolio, northwest.Position, PositionForm](env, listSource[northwest.Portfolio, northwest.Position]{
		name: "portfolio",
		noun: "position",
		fetch: func(ctx context.Context, api *northwest.Client) (*northwest.Portfolio, error) {
			return api.Portfolio(ctx)
		},
		items: func(p *northwest.Portfolio) []northwest.Position { return p.Positions },
		setItems: func(p *northwest.Portfolio, items []northwest.Position) {
			p.Positions = items
			p.TotalPositions = len(items)
		},
		id: func(pos northwest.Position) string { return pos.ID },
		remove: func(ctx context.Context, api *northwest.Client, id string) error {
			return api.DeletePosition(ctx, id)
		},
		limits: tiers.PortfolioLimits,
	})}
}

func (f PositionForm) check() (northwest.PositionAdd, FieldErrors) {
	c := newChecker()
	ticker := utils.NormalizeTicker(f.Ticker)
	c.ticker("ticker", ticker)
	add := northwest.PositionAdd{
		Ticker:   ticker,
		Quantity: c.positive("quantity", f.Quantity),
		BuyPrice: c.positive("buy_price", f.BuyPrice),
		BuyDate:  c.date("buy_date", f.BuyDate),
		Notes:    c.notes("notes", f.Notes),
	}
	return add, c.result()
}

// Validate records the form's field errors without contacting the backend.
func (p *PortfolioPage) Validate(form PositionForm) error {
	_, fields := form.check()
	return p.reject(form, fields)
}

// Create adds a position.
func (p *PortfolioPage) Create(ctx context.Context, form PositionForm) error {
	add, fields := form.check()
	return p.create(ctx, form, fields, func(ctx context.Context) (*string, error) {
		pos, err := p.env.API.AddPosition(ctx, add)
		if err != nil {
			return nil, err
		}
		return pos.Warning, nil
	})
}

// Update edits a position. Blank fields are left unchanged; the ticker cannot change.
func (p *PortfolioPage) Update(ctx context.Context, id string, form PositionForm) error {
	c := newChecker()
	upd := northwest.PositionUpdate{
		Quantity: c.optionalPositive("quantity", form.Quantity),
		BuyPrice: c.optionalPositive("buy_price", form.BuyPrice),
		Notes:    c.notes("notes", form.Notes),
	}
	if strings.TrimSpace(form.BuyDate) != "" {
		date := c.date("buy_date", form.BuyDate)
		upd.BuyDate = &date
	}
	if errs := c.result(); errs != nil {
		return errs
	}
	return p.update(ctx, func(ctx context.Context) error {
		_, err := p.env.API.UpdatePosition(ctx, id, upd)
		return err
	})
}

// Remove deletes a position after confirmation.
func (p *PortfolioPage) Remove(ctx context.Context, id string) (bool, error) {
	prompt := "Delete this position?"
	if pos, ok := p.find(id); ok {
		prompt = fmt.Sprintf("Delete %s position of %s shares?", pos.Ticker, utils.Quantity(pos.Quantity))
	}
	return p.Delete(ctx, id, prompt)
}
