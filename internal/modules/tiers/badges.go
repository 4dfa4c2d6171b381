package tiers

// Badge is how a tier is displayed next to the user's email.
type Badge struct {
	Label string
	Class string // CSS class on the web front-end
	Color string // hex color for the terminal front-end
}

var badges = map[string]Badge{
	Free:       {Label: "Free", Class: "badge-free", Color: "#94A3B8"},
	Casual:     {Label: "Casual", Class: "badge-casual", Color: "#3B82F6"},
	Active:     {Label: "Active", Class: "badge-active", Color: "#8B5CF6"},
	Unlimited:  {Label: "Unlimited", Class: "badge-unlimited", Color: "#F59E0B"},
	Pro:        {Label: "Pro", Class: "badge-pro", Color: "#10B981"},
	Enterprise: {Label: "Enterprise", Class: "badge-enterprise", Color: "#EF4444"},
}

// BadgeFor returns the badge of tier; unknown tiers get the free badge.
func BadgeFor(tier string) Badge {
	if b, ok := badges[tier]; ok {
		return b
	}
	return badges[Free]
}

// Plan is one purchasable subscription shown on the pricing page.
type Plan struct {
	Tier              string
	Name              string
	MonthlyCents      int64
	Portfolio         Limit
	Alerts            Limit
	TechnicalAnalysis bool
	DCF               string
	Featured          bool
}

// Plans lists the pricing-page cards in display order.
func Plans() []Plan {
	return []Plan{
		{
			Tier: Free, Name: "Free", MonthlyCents: 0,
			Portfolio: PortfolioLimits.For(Free), Alerts: AlertLimits.For(Free),
			DCF: "Not included",
		},
		{
			Tier: Casual, Name: "Casual Retail Investor", MonthlyCents: 2000,
			Portfolio: PortfolioLimits.For(Casual), Alerts: AlertLimits.For(Casual),
			TechnicalAnalysis: true, DCF: "5 per week",
		},
		{
			Tier: Active, Name: "Active Retail Investor", MonthlyCents: 4000,
			Portfolio: PortfolioLimits.For(Active), Alerts: AlertLimits.For(Active),
			TechnicalAnalysis: true, DCF: "5 per day", Featured: true,
		},
		{
			Tier: Unlimited, Name: "Unlimited Investor", MonthlyCents: 10000,
			Portfolio: PortfolioLimits.For(Unlimited), Alerts: AlertLimits.For(Unlimited),
			TechnicalAnalysis: true, DCF: "Unlimited",
		},
	}
}

// PlanFor returns the plan of tier, or false for tiers that are not sold.
func PlanFor(tier string) (Plan, bool) {
	for _, p := range Plans() {
		if p.Tier == tier {
			return p, true
		}
	}
	return Plan{}, false
}
