package pages

import (
	"context"
	"fmt"
	"strings"

	"github.com/aristath/nwcreek/internal/clients/northwest"
	"github.com/aristath/nwcreek/internal/modules/tiers"
	"github.com/aristath/nwcreek/internal/utils"
)

// AlertForm is the create-alert form as typed.
type AlertForm struct {
	Ticker      string
	TargetPrice string
	Condition   string
	Notes       string
}

// AlertsPage lists price alerts with the backend's counts.
type AlertsPage struct {
	*List[northwest.Alerts, northwest.Alert, AlertForm]
}

// NewAlertsPage creates the alerts controller.
func NewAlertsPage(env *Env) *AlertsPage {
	return &AlertsPage{newList[northwest.Alerts, northwest.Alert, AlertForm](env, listSource[northwest.Alerts, northwest.Alert]{
		name: "alerts",
		noun: "alert",
		fetch: func(ctx context.Context, api *northwest.Client) (*northwest.Alerts, error) {
			return api.Alerts(ctx)
		},
		items: func(a *northwest.Alerts) []northwest.Alert { return a.Alerts },
		setItems: func(a *northwest.Alerts, items []northwest.Alert) {
			a.Alerts = items
			a.TotalAlerts = len(items)
		},
		id: func(a northwest.Alert) string { return a.ID },
		remove: func(ctx context.Context, api *northwest.Client, id string) error {
			return api.DeleteAlert(ctx, id)
		},
		limits: tiers.AlertLimits,
	})}
}

func condition(c *checker, raw string) string {
	switch v := strings.ToLower(strings.TrimSpace(raw)); v {
	case "":
		return northwest.ConditionAbove
	case northwest.ConditionAbove, northwest.ConditionBelow:
		return v
	default:
		c.errs["condition"] = "must be above or below"
		return v
	}
}

func (f AlertForm) check() (northwest.AlertAdd, FieldErrors) {
	c := newChecker()
	ticker := utils.NormalizeTicker(f.Ticker)
	c.ticker("ticker", ticker)
	add := northwest.AlertAdd{
		Ticker:      ticker,
		TargetPrice: c.positive("target_price", f.TargetPrice),
		Condition:   condition(c, f.Condition),
		Notes:       c.notes("notes", f.Notes),
	}
	return add, c.result()
}

// Validate records the form's field errors without contacting the backend.
func (p *AlertsPage) Validate(form AlertForm) error {
	_, fields := form.check()
	return p.reject(form, fields)
}

// Create adds an alert.
func (p *AlertsPage) Create(ctx context.Context, form AlertForm) error {
	add, fields := form.check()
	return p.create(ctx, form, fields, func(ctx context.Context) (*string, error) {
		alert, err := p.env.API.CreateAlert(ctx, add)
		if err != nil {
			return nil, err
		}
		return alert.Warning, nil
	})
}

// Update edits target, condition or notes. Blank fields are left unchanged.
func (p *AlertsPage) Update(ctx context.Context, id string, form AlertForm) error {
	c := newChecker()
	upd := northwest.AlertUpdate{
		TargetPrice: c.optionalPositive("target_price", form.TargetPrice),
		Notes:       c.notes("notes", form.Notes),
	}
	if strings.TrimSpace(form.Condition) != "" {
		cond := condition(c, form.Condition)
		upd.Condition = &cond
	}
	if errs := c.result(); errs != nil {
		return errs
	}
	return p.update(ctx, func(ctx context.Context) error {
		_, err := p.env.API.UpdateAlert(ctx, id, upd)
		return err
	})
}

// Toggle flips an alert between active and paused.
func (p *AlertsPage) Toggle(ctx context.Context, id string) error {
	alert, ok := p.find(id)
	if !ok {
		return fmt.Errorf("alert %s not loaded", id)
	}
	active := !alert.IsActive
	return p.update(ctx, func(ctx context.Context) error {
		_, err := p.env.API.UpdateAlert(ctx, id, northwest.AlertUpdate{IsActive: &active})
		return err
	})
}

// Remove deletes an alert after confirmation.
func (p *AlertsPage) Remove(ctx context.Context, id string) (bool, error) {
	prompt := "Delete this alert?"
	if a, ok := p.find(id); ok {
		prompt = fmt.Sprintf("Delete the %s alert at %s?", a.Ticker, utils.USD(a.TargetPrice))
	}
	return p.Delete(ctx, id, prompt)
}
