// Package tiers holds the subscription tier tables used by the list pages and the badge/plan
// data used when rendering a tier.
//
// The watchlist page keys its table by free/pro/enterprise while portfolio and alerts use
// free/casual/active/unlimited. Both shapes are kept as they are.
package tiers

import "strconv"

// Tier names
const (
	Free       = "free"
	Casual     = "casual"
	Active     = "active"
	Unlimited  = "unlimited"
	Pro        = "pro"
	Enterprise = "enterprise"
)

// Limit is a count ceiling; the zero value allows nothing.
type Limit struct {
	Max       int
	Unlimited bool
}

// Of returns a finite limit.
func Of(n int) Limit { return Limit{Max: n} }

// NoLimit never blocks.
var NoLimit = Limit{Unlimited: true}

// Allows reports whether one more item fits when count items already exist.
func (l Limit) Allows(count int) bool {
	return l.Unlimited || count < l.Max
}

// Remaining returns how many more items fit, or -1 when unlimited.
func (l Limit) Remaining(count int) int {
	if l.Unlimited {
		return -1
	}
	if r := l.Max - count; r > 0 {
		return r
	}
	return 0
}

func (l Limit) String() string {
	if l.Unlimited {
		return "Unlimited"
	}
	return strconv.Itoa(l.Max)
}

// Table maps tier names to limits for one resource.
type Table struct {
	resource string
	limits   map[string]Limit
}

// NewTable builds a table. It must contain a "free" entry, used for unknown tiers.
func NewTable(resource string, limits map[string]Limit) Table {
	if _, ok := limits[Free]; !ok {
		panic("tiers: table " + resource + " has no free entry")
	}
	return Table{resource: resource, limits: limits}
}

// Resource names what the table limits.
func (t Table) Resource() string { return t.resource }

// For returns the limit of tier, falling back to the free entry.
func (t Table) For(tier string) Limit {
	if l, ok := t.limits[tier]; ok {
		return l
	}
	return t.limits[Free]
}

// Known reports whether tier has its own entry.
func (t Table) Known(tier string) bool {
	_, ok := t.limits[tier]
	return ok
}

var (
	// WatchlistLimits is the table the watchlist page enforces.
	WatchlistLimits = NewTable("watchlist", map[string]Limit{
		Free:       Of(5),
		Pro:        Of(50),
		Enterprise: NoLimit,
	})

	// PortfolioLimits is the table the portfolio page enforces.
	PortfolioLimits = NewTable("portfolio", map[string]Limit{
		Free:      Of(5),
		Casual:    Of(20),
		Active:    Of(45),
		Unlimited: NoLimit,
	})

	// AlertLimits is the table the alerts page enforces.
	AlertLimits = NewTable("alerts", map[string]Limit{
		Free:      Of(0),
		Casual:    Of(5),
		Active:    Of(20),
		Unlimited: NoLimit,
	})
)
