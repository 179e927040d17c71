// Package domain defines the core business entities for CardWise.
// These models are independent of external services and represent the
// canonical data structures used throughout the API.
package domain

import "time"

// ============================================================
// Users
// ============================================================

// User represents a registered CardWise user.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// ============================================================
// Cards
// ============================================================

// Card represents a credit card tracked for a user.
// RewardRate is points (or %) earned per unit currency spent; Categories
// lists the labels for which the card pays the category bonus.
// ExpiryDate is kept as the raw ISO string the user entered — the expiry
// classifier is responsible for parsing it and degrading gracefully.
type Card struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	BankName      string    `json:"bank_name"`
	CardName      string    `json:"card_name"`
	LastFour      string    `json:"last_four,omitempty"`
	RewardType    string    `json:"reward_type"`
	RewardRate    float64   `json:"reward_rate"`
	PointsBalance int       `json:"points_balance"`
	ExpiryDate    string    `json:"expiry_date,omitempty"`
	Categories    []string  `json:"categories"`
	CreatedAt     time.Time `json:"created_at"`
}

// DisplayName returns the "Bank Card" label used in recommendations.
func (c *Card) DisplayName() string {
	return c.BankName + " " + c.CardName
}

// CardRequest is the payload to create or update a card.
type CardRequest struct {
	BankName   string   `json:"bank_name"`
	CardName   string   `json:"card_name"`
	LastFour   string   `json:"last_four,omitempty"`
	RewardType string   `json:"reward_type"`
	RewardRate float64  `json:"reward_rate"`
	ExpiryDate string   `json:"expiry_date,omitempty"`
	Categories []string `json:"categories"`
}

// ============================================================
// Transactions
// ============================================================

// Transaction is a single card purchase. PointsEarned is recorded at
// creation time and never recomputed, even if the card's reward rate
// changes later.
type Transaction struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	CardID       string    `json:"card_id"`
	Amount       float64   `json:"amount"`
	Category     string    `json:"category"`
	Merchant     string    `json:"merchant"`
	PointsEarned int       `json:"points_earned"`
	Date         time.Time `json:"date"`
}

// TransactionRequest is the payload to record a transaction.
type TransactionRequest struct {
	CardID       string  `json:"card_id"`
	Amount       float64 `json:"amount"`
	Category     string  `json:"category"`
	Merchant     string  `json:"merchant"`
	PointsEarned int     `json:"points_earned"`
}

// ============================================================
// Spending Analytics (engine output)
// ============================================================

// SpendingCluster is a group of categories with similar spend magnitude.
type SpendingCluster struct {
	Level         string   `json:"level"`
	Categories    []string `json:"categories"`
	TotalSpending float64  `json:"total_spending"`
}

// SpendingAnalysis is the result of clustering a user's spending.
// MonthlyAvg divides each category's total by the number of distinct
// months observed across the whole snapshot.
type SpendingAnalysis struct {
	Clusters       []SpendingCluster  `json:"clusters"`
	MonthlyAvg     map[string]float64 `json:"monthly_avg"`
	CategoryTotals map[string]float64 `json:"category_totals"`
	Trends         string             `json:"trends,omitempty"`
}

// SpendingInsights pairs the numeric analysis with advisory prose.
type SpendingInsights struct {
	Insights string            `json:"insights"`
	Patterns *SpendingAnalysis `json:"patterns"`
}

// ============================================================
// Recurring Merchants & Optimization (engine output)
// ============================================================

// RecurringMerchant is a merchant with at least two transactions.
// Category is that of the first observed transaction.
type RecurringMerchant struct {
	Merchant   string  `json:"merchant"`
	Frequency  int     `json:"frequency"`
	AvgAmount  float64 `json:"avg_amount"`
	Category   string  `json:"category"`
	TotalSpent float64 `json:"total_spent"`
}

// CardOptimization is one switch recommendation for a recurring merchant.
type CardOptimization struct {
	Merchant           string  `json:"merchant"`
	Category           string  `json:"category"`
	AvgAmount          float64 `json:"avg_amount"`
	CurrentCard        string  `json:"current_card"`
	RecommendedCard    string  `json:"recommended_card"`
	CurrentPoints      int     `json:"current_points"`
	OptimizedPoints    int     `json:"optimized_points"`
	PointsGain         int     `json:"points_gain"`
	AnnualGainEstimate int     `json:"annual_gain_estimate"`
}

// OptimizationResult lists the top switch recommendations.
// TotalAnnualGain sums the annual gain of ALL qualifying merchants, not
// just the truncated top list.
type OptimizationResult struct {
	Optimizations   []CardOptimization `json:"optimizations"`
	TotalAnnualGain int                `json:"total_annual_gain"`
	Message         string             `json:"message,omitempty"`
	Insights        string             `json:"insights,omitempty"`
}

// ============================================================
// Expiry Risk & Redemptions (engine output)
// ============================================================

// ExpiryRisk classifies how close a card's points are to expiring.
// Days is nil when the card has no expiry date or it cannot be parsed.
type ExpiryRisk struct {
	Risk    string `json:"risk"`
	Message string `json:"message"`
	Days    *int   `json:"days,omitempty"`
}

// ExpiryAlert is surfaced for cards with a positive balance at high or
// medium risk.
type ExpiryAlert struct {
	CardID          string `json:"card_id"`
	CardName        string `json:"card_name"`
	PointsBalance   int    `json:"points_balance"`
	RiskLevel       string `json:"risk_level"`
	Message         string `json:"message"`
	DaysUntilExpiry int    `json:"days_until_expiry"`
}

// CardExpiryInfo is the per-card row for the expiry-dates listing.
type CardExpiryInfo struct {
	CardID          string `json:"card_id"`
	CardName        string `json:"card_name"`
	PointsBalance   int    `json:"points_balance"`
	ExpiryDate      string `json:"expiry_date"`
	DaysUntilExpiry int    `json:"days_until_expiry"`
	RiskLevel       string `json:"risk_level"`
}

// RedemptionOption is one way to redeem a card's points balance.
type RedemptionOption struct {
	Type        string  `json:"type"`
	Value       float64 `json:"value"`
	Description string  `json:"description"`
}

// RedemptionSuggestion groups the applicable options for one card.
type RedemptionSuggestion struct {
	CardID            string             `json:"card_id"`
	CardName          string             `json:"card_name"`
	PointsBalance     int                `json:"points_balance"`
	RedemptionOptions []RedemptionOption `json:"redemption_options"`
}

// ============================================================
// Recommendations (prospective purchase)
// ============================================================

// RecommendationRequest asks which card to use for a planned purchase.
type RecommendationRequest struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// RecommendationResponse names the best card and the projected points.
type RecommendationResponse struct {
	CardID       string  `json:"card_id"`
	CardName     string  `json:"card_name"`
	BankName     string  `json:"bank_name"`
	Reason       string  `json:"reason"`
	PointsEarned int     `json:"points_earned"`
	RewardRate   float64 `json:"reward_rate"`
}

// ============================================================
// Card Offers (referral catalog)
// ============================================================

// CardOffer is a market card offer from the static catalog.
type CardOffer struct {
	ID           string   `json:"id"`
	Bank         string   `json:"bank"`
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	AnnualFee    int      `json:"annual_fee"`
	RewardRate   float64  `json:"reward_rate"`
	WelcomeBonus int      `json:"welcome_bonus"`
	Categories   []string `json:"categories"`
	Benefits     []string `json:"benefits"`
	BestFor      string   `json:"best_for"`
}

// ============================================================
// Advisor (external LLM collaborator)
// ============================================================

// AdvisorRequest is sent to the advisory-text service. The numeric
// summary travels with the prompt so the advisor never needs a second
// data fetch.
type AdvisorRequest struct {
	UserID       string   `json:"user_id"`
	Prompt       string   `json:"prompt"`
	TopMerchants []string `json:"top_merchants,omitempty"`
	TotalGain    int      `json:"total_gain,omitempty"`
}

// AdvisorResponse holds the advisor's opaque prose and token accounting.
type AdvisorResponse struct {
	Text       string     `json:"text"`
	TokensUsed TokenUsage `json:"tokens_used"`
}

// TokenUsage tracks LLM token consumption for cost monitoring.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// AdvisorMetrics is an aggregate snapshot of advisor usage, served by
// the operational metrics endpoint.
type AdvisorMetrics struct {
	TotalCalls      int64   `json:"total_calls"`
	ErrorRate       float64 `json:"error_rate"`
	FallbackRate    float64 `json:"fallback_rate"`
	TotalTokens     int64   `json:"total_tokens"`
	AvgTokensPerUse float64 `json:"avg_tokens_per_use"`
	Period          string  `json:"period"`
}

// ============================================================
// Auth — Request / Response types
// ============================================================

// RegisterRequest is the body for POST /v1/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginRequest is the body for POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register, login and refresh.
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
}

// RefreshRequest is the body for POST /v1/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ============================================================
// Health
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded, unhealthy
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual dependency.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LatencyMs   int64  `json:"latencyMs"`
	LastChecked string `json:"lastChecked"`
}
