package northwest

// Nullable numeric fields are pointers: the backend sends null when a quote is unavailable.

// User is the authenticated account (GET /auth/me).
type User struct {
	ID               string  `json:"id"`
	Email            string  `json:"email"`
	FullName         *string `json:"full_name"`
	IsActive         bool    `json:"is_active"`
	IsVerified       bool    `json:"is_verified"`
	IsAdmin          bool    `json:"is_admin"`
	SubscriptionTier string  `json:"subscription_tier"`
	CreatedAt        string  `json:"created_at"`
	PhoneVerified    bool    `json:"phone_verified"`
	PhoneLastFour    *string `json:"phone_last_four"`
}

// Credentials is the login body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Token is the login response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Registration is the register body.
type Registration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

// Message is the generic {message, email} acknowledgement.
type Message struct {
	Message string `json:"message"`
	Email   string `json:"email,omitempty"`
}

// Verification is returned by verify-email and carries a token for auto-login.
type Verification struct {
	Message     string `json:"message"`
	Email       string `json:"email"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// WatchlistItem is one row of the watchlist with its live quote.
type WatchlistItem struct {
	ID            string   `json:"id"`
	Ticker        string   `json:"ticker"`
	AddedAt       string   `json:"added_at"`
	Notes         *string  `json:"notes"`
	TargetPrice   *float64 `json:"target_price,omitempty"`
	CurrentPrice  *float64 `json:"current_price"`
	ChangePercent *float64 `json:"change_percent"`
	CompanyName   *string  `json:"company_name"`
	Warning       *string  `json:"warning,omitempty"`
}

// Watchlist is GET /watchlist/.
type Watchlist struct {
	Items            []WatchlistItem `json:"items"`
	Count            int             `json:"count"`
	Limit            int             `json:"limit"`
	SubscriptionTier string          `json:"subscription_tier"`
}

// WatchlistAdd is the create body.
type WatchlistAdd struct {
	Ticker string  `json:"ticker"`
	Notes  *string `json:"notes,omitempty"`
}

// WatchlistUpdate is the patch body.
type WatchlistUpdate struct {
	Notes *string `json:"notes"`
}

// Position is one portfolio lot.
type Position struct {
	ID                string   `json:"id"`
	Ticker            string   `json:"ticker"`
	Quantity          float64  `json:"quantity"`
	BuyPrice          float64  `json:"buy_price"`
	BuyDate           string   `json:"buy_date"`
	Notes             *string  `json:"notes"`
	CreatedAt         string   `json:"created_at"`
	CurrentPrice      *float64 `json:"current_price"`
	CurrentValue      *float64 `json:"current_value"`
	TotalCost         float64  `json:"total_cost"`
	ProfitLoss        *float64 `json:"profit_loss"`
	ProfitLossPercent *float64 `json:"profit_loss_percent"`
	Warning           *string  `json:"warning,omitempty"`
}

// Performer is the best/worst ticker in the portfolio summary.
// Profit is set for the best performer, Loss for the worst.
type Performer struct {
	Ticker string   `json:"ticker"`
	Return float64  `json:"return"`
	Profit *float64 `json:"profit,omitempty"`
	Loss   *float64 `json:"loss,omitempty"`
	Lots   int      `json:"lots"`
}

// Amount returns whichever of Profit or Loss is set.
func (p *Performer) Amount() float64 {
	switch {
	case p == nil:
		return 0
	case p.Profit != nil:
		return *p.Profit
	case p.Loss != nil:
		return *p.Loss
	}
	return 0
}

// Portfolio is GET /portfolio/.
type Portfolio struct {
	Positions              []Position `json:"positions"`
	TotalPositions         int        `json:"total_positions"`
	TotalInvested          float64    `json:"total_invested"`
	TotalCurrentValue      float64    `json:"total_current_value"`
	TotalProfitLoss        float64    `json:"total_profit_loss"`
	TotalProfitLossPercent float64    `json:"total_profit_loss_percent"`
	BestPerformer          *Performer `json:"best_performer"`
	WorstPerformer         *Performer `json:"worst_performer"`
	PositionsUsed          int        `json:"positions_used"`
	PositionsLimit         int        `json:"positions_limit"`
}

// PositionAdd is the create body. BuyDate is YYYY-MM-DD.
type PositionAdd struct {
	Ticker   string  `json:"ticker"`
	Quantity float64 `json:"quantity"`
	BuyPrice float64 `json:"buy_price"`
	BuyDate  string  `json:"buy_date"`
	Notes    *string `json:"notes,omitempty"`
}

// PositionUpdate is the patch body; nil fields are left unchanged.
type PositionUpdate struct {
	Quantity *float64 `json:"quantity,omitempty"`
	BuyPrice *float64 `json:"buy_price,omitempty"`
	BuyDate  *string  `json:"buy_date,omitempty"`
	Notes    *string  `json:"notes,omitempty"`
}

// Alert conditions
const (
	ConditionAbove = "above"
	ConditionBelow = "below"
)

// Alert is one price alert.
type Alert struct {
	ID               string   `json:"id"`
	Ticker           string   `json:"ticker"`
	TargetPrice      float64  `json:"target_price"`
	Condition        string   `json:"condition"`
	IsActive         bool     `json:"is_active"`
	TriggeredAt      *string  `json:"triggered_at"`
	Notes            *string  `json:"notes"`
	CreatedAt        string   `json:"created_at"`
	CurrentPrice     *float64 `json:"current_price"`
	DistanceToTarget *float64 `json:"distance_to_target"`
	DistancePercent  *float64 `json:"distance_percent"`
	Warning          *string  `json:"warning,omitempty"`
}

// Alerts is GET /alerts/.
type Alerts struct {
	Alerts          []Alert `json:"alerts"`
	TotalAlerts     int     `json:"total_alerts"`
	ActiveAlerts    int     `json:"active_alerts"`
	TriggeredAlerts int     `json:"triggered_alerts"`
	AlertsUsed      int     `json:"alerts_used"`
	AlertsLimit     int     `json:"alerts_limit"`
}

// AlertAdd is the create body.
type AlertAdd struct {
	Ticker      string  `json:"ticker"`
	TargetPrice float64 `json:"target_price"`
	Condition   string  `json:"condition"`
	Notes       *string `json:"notes,omitempty"`
}

// AlertUpdate is the patch body; nil fields are left unchanged.
type AlertUpdate struct {
	TargetPrice *float64 `json:"target_price,omitempty"`
	Condition   *string  `json:"condition,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

// Quote is GET /stocks/{t}/quote.
type Quote struct {
	Ticker        string  `json:"ticker"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Volume        float64 `json:"volume"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Open          float64 `json:"open"`
	PreviousClose float64 `json:"previous_close"`
	Timestamp     string  `json:"timestamp"`
}

// Company is GET /stocks/{t}/company.
type Company struct {
	Ticker      string   `json:"ticker"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Sector      *string  `json:"sector"`
	Industry    *string  `json:"industry"`
	Website     *string  `json:"website"`
	Exchange    *string  `json:"exchange"`
	MarketCap   *float64 `json:"market_cap"`
	Phone       *string  `json:"phone"`
	Employees   *int64   `json:"employees"`
	Country     *string  `json:"country"`
}

// Bar is one daily OHLCV record.
type Bar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// History is GET /stocks/{t}/historical.
type History struct {
	Ticker string `json:"ticker"`
	Data   []Bar  `json:"data"`
	Days   int    `json:"days"`
}

// RSI indicator block.
type RSI struct {
	Value       *float64 `json:"value"`
	Signal      string   `json:"signal"`
	Description string   `json:"description"`
}

// MACD indicator block.
type MACD struct {
	MACDLine    *float64 `json:"macd_line"`
	SignalLine  *float64 `json:"signal_line"`
	Histogram   *float64 `json:"histogram"`
	Trend       *string  `json:"trend"`
	Description string   `json:"description"`
}

// MovingAverages indicator block.
type MovingAverages struct {
	SMA20       *float64 `json:"sma_20"`
	SMA50       *float64 `json:"sma_50"`
	SMA200      *float64 `json:"sma_200"`
	AboveSMA20  *bool    `json:"above_sma_20"`
	AboveSMA50  *bool    `json:"above_sma_50"`
	Description string   `json:"description"`
}

// BollingerBands indicator block.
type BollingerBands struct {
	UpperBand   *float64 `json:"upper_band"`
	MiddleBand  *float64 `json:"middle_band"`
	LowerBand   *float64 `json:"lower_band"`
	Position    *string  `json:"position"`
	Description string   `json:"description"`
}

// Indicators groups the indicator blocks of an analysis.
type Indicators struct {
	RSI            RSI            `json:"rsi"`
	MACD           MACD           `json:"macd"`
	MovingAverages MovingAverages `json:"moving_averages"`
	BollingerBands BollingerBands `json:"bollinger_bands"`
}

// Signal is one buy/sell hint.
type Signal struct {
	Type      string `json:"type"`
	Indicator string `json:"indicator"`
	Message   string `json:"message"`
}

// Outlook is the analysis summary.
type Outlook struct {
	Outlook  string `json:"outlook"`
	Strength int    `json:"strength"`
	Message  string `json:"message"`
}

// Analysis is GET /technical-analysis/analyze/{t}.
type Analysis struct {
	Ticker       string     `json:"ticker"`
	CompanyName  string     `json:"company_name"`
	CurrentPrice float64    `json:"current_price"`
	AnalysisDate string     `json:"analysis_date"`
	Indicators   Indicators `json:"indicators"`
	Signals      []Signal   `json:"signals"`
	ChartData    []Bar      `json:"chart_data"`
	Summary      Outlook    `json:"summary"`
}

// DCFParams are the query parameters of a DCF request, as fractions.
type DCFParams struct {
	GrowthRate      float64
	TerminalGrowth  float64
	DiscountRate    float64
	ProjectionYears int
}

// DCFAssumptions echoes the inputs used by the backend.
type DCFAssumptions struct {
	GrowthRate        float64 `json:"growth_rate"`
	TerminalGrowth    float64 `json:"terminal_growth"`
	DiscountRate      float64 `json:"discount_rate"`
	ProjectionYears   int     `json:"projection_years"`
	CurrentFCF        float64 `json:"current_fcf"`
	SharesOutstanding float64 `json:"shares_outstanding"`
}

// Projection is one projected year.
type Projection struct {
	Year           int     `json:"year"`
	CashFlow       float64 `json:"cash_flow"`
	PresentValue   float64 `json:"present_value"`
	DiscountFactor float64 `json:"discount_factor"`
}

// TerminalValue of the DCF.
type TerminalValue struct {
	Value        float64 `json:"value"`
	PresentValue float64 `json:"present_value"`
	GrowthRate   float64 `json:"growth_rate"`
}

// Valuation totals of the DCF.
type Valuation struct {
	SumPVCashFlows         float64 `json:"sum_pv_cash_flows"`
	TerminalPV             float64 `json:"terminal_pv"`
	EnterpriseValue        float64 `json:"enterprise_value"`
	IntrinsicValuePerShare float64 `json:"intrinsic_value_per_share"`
	CurrentPrice           float64 `json:"current_price"`
	MarginOfSafety         float64 `json:"margin_of_safety"`
}

// Recommendation banner of the DCF.
type Recommendation struct {
	Rating  string `json:"rating"`
	Color   string `json:"color"`
	Message string `json:"message"`
}

// DCFResult is GET /dcf/calculate/{t}.
type DCFResult struct {
	Ticker         string         `json:"ticker"`
	CompanyName    string         `json:"company_name"`
	CurrentPrice   float64        `json:"current_price"`
	Assumptions    DCFAssumptions `json:"assumptions"`
	Projections    []Projection   `json:"projections"`
	TerminalValue  TerminalValue  `json:"terminal_value"`
	Valuation      Valuation      `json:"valuation"`
	Recommendation Recommendation `json:"recommendation"`
}

// StripeConfig is GET /stripe/config.
type StripeConfig struct {
	PublishableKey   string `json:"publishable_key"`
	CasualPriceID    string `json:"casual_price_id"`
	ActivePriceID    string `json:"active_price_id"`
	UnlimitedPriceID string `json:"unlimited_price_id"`
}

// PriceIDFor maps a tier to its Stripe price id; empty for tiers that cannot be bought.
func (c StripeConfig) PriceIDFor(tier string) string {
	switch tier {
	case "casual":
		return c.CasualPriceID
	case "active":
		return c.ActivePriceID
	case "unlimited":
		return c.UnlimitedPriceID
	}
	return ""
}

// SubscriptionStatus is GET /stripe/subscription-status.
type SubscriptionStatus struct {
	SubscriptionTier string `json:"subscription_tier"`
	Email            string `json:"email"`
}

// CheckoutSession is POST /stripe/create-checkout-session.
type CheckoutSession struct {
	CheckoutURL string `json:"checkout_url"`
	SessionID   string `json:"session_id"`
}

// PriceUpdate is the payload of a live price_update frame.
type PriceUpdate struct {
	Ticker    string  `json:"ticker"`
	Price     float64 `json:"price"`
	Size      float64 `json:"size"`
	Timestamp int64   `json:"timestamp"`
	UpdatedAt string  `json:"updated_at"`
}
