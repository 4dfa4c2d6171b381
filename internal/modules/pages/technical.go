package pages

import (
	"context"
	"fmt"

	"github.com/aristath/nwcreek/internal/clients/northwest"
	"github.com/aristath/nwcreek/internal/utils"
)

// Analysis windows accepted by the backend.
const (
	DefaultAnalysisDays = 60
	MinAnalysisDays     = 30
)

// TechnicalPage shows the backend's indicator analysis for a ticker.
type TechnicalPage struct {
	single[northwest.Analysis]
}

// NewTechnicalPage creates the technical analysis controller.
func NewTechnicalPage(env *Env) *TechnicalPage {
	p := &TechnicalPage{}
	p.init(env, "technical-analysis")
	return p
}

// Load fetches the signed-in user.
func (p *TechnicalPage) Load(ctx context.Context) error {
	return p.loadUser(ctx)
}

// Analyze requests the analysis. Days outside 30..365 fall back to 60.
func (p *TechnicalPage) Analyze(ctx context.Context, ticker string, days int) error {
	ticker = utils.NormalizeTicker(ticker)
	if days < MinAnalysisDays || days > MaxHistoryDays {
		days = DefaultAnalysisDays
	}
	c := newChecker()
	c.ticker("ticker", ticker)
	if errs := c.result(); errs != nil {
		return p.invalid(errs)
	}

	p.begin()
	analysis, err := p.env.API.Analyze(ctx, ticker, days)
	return p.finish(analysis, err, fmt.Sprintf("Could not analyze %s", ticker))
}
