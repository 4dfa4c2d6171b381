package pages

import (
	"context"
	"fmt"
	"sync"

	"github.com/aristath/nwcreek/internal/clients/northwest"
	"github.com/aristath/nwcreek/internal/modules/dcf"
)

// DCFPage runs the backend's discounted cash flow valuation.
type DCFPage struct {
	single[northwest.DCFResult]

	formMu sync.RWMutex
	form   dcf.Form
}

// NewDCFPage creates the DCF controller with the default assumptions.
func NewDCFPage(env *Env) *DCFPage {
	p := &DCFPage{form: dcf.Defaults()}
	p.init(env, "dcf")
	return p
}

// Form returns the values shown in the form.
func (p *DCFPage) Form() dcf.Form {
	p.formMu.RLock()
	defer p.formMu.RUnlock()
	return p.form
}

// Load fetches the signed-in user.
func (p *DCFPage) Load(ctx context.Context) error {
	return p.loadUser(ctx)
}

// Submit parses and validates the form, then asks the backend for the valuation.
// The displayed values stay exactly as submitted.
func (p *DCFPage) Submit(ctx context.Context, get dcf.Getter) error {
	form, errs := dcf.Parse(get)
	p.formMu.Lock()
	p.form = form
	p.formMu.Unlock()

	if errs == nil {
		errs = form.Validate()
	}
	if errs != nil {
		return p.invalid(FieldErrors(errs))
	}

	p.begin()
	result, err := p.env.API.CalculateDCF(ctx, form.Ticker, form.Params())
	return p.finish(result, err, fmt.Sprintf("Could not value %s", form.Ticker))
}
