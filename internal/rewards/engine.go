// Package rewards implements the deterministic rewards-optimization and
// spending-analytics engine. Every operation is a pure transformation
// over read-only card and transaction snapshots: no I/O, no shared
// mutable state, safe to call concurrently from any number of callers.
//
// The engine never mutates a Card or Transaction it receives and never
// fails on degenerate input — too little data, missing cards or a
// dangling card reference all degrade to a well-formed empty or neutral
// result.
package rewards

import "time"

// Domain constants. These are fixed product behavior, not configuration.
const (
	// MinTransactionsForAnalysis gates spending-pattern analysis.
	MinTransactionsForAnalysis = 3

	// RecurringMinOccurrences is the minimum transaction count for a
	// merchant to count as recurring.
	RecurringMinOccurrences = 2

	// TopResults caps recurring-merchant and optimization listings.
	TopResults = 10

	// CategoryBonusMultiplier applies when a transaction's category
	// matches one of the card's bonus categories.
	CategoryBonusMultiplier = 1.5

	// MonthsPerYear annualizes per-merchant point gains under the fixed
	// monthly-recurrence assumption.
	MonthsPerYear = 12

	// PointValue is the currency value of a single point (₹0.01).
	PointValue = 0.01

	// TravelBonusMultiplier is the redemption bonus for travel bookings.
	TravelBonusMultiplier = 1.25

	// Redemption balance thresholds.
	GiftCardThreshold        = 2500
	StatementCreditThreshold = 5000
	TravelThreshold          = 10000

	// Expiry risk boundaries in days until expiry.
	HighRiskDays   = 30
	MediumRiskDays = 90
)

// Risk levels returned by ClassifyExpiry.
const (
	RiskLow     = "low"
	RiskMedium  = "medium"
	RiskHigh    = "high"
	RiskUnknown = "unknown"
)

// Redemption option types.
const (
	RedemptionGiftCard        = "gift_card"
	RedemptionStatementCredit = "statement_credit"
	RedemptionTravel          = "travel"
)

// Fixed advisory strings for degenerate inputs.
const (
	insufficientDataTrends = "Not enough data for analysis"
	noCardsMessage         = "No cards available"
	noExpiryMessage        = "No expiry date set"
	unparseableExpiry      = "Unable to parse expiry date"
)

// Engine is the stateless analytics engine. The zero value is not
// usable; construct with New. The only injectable piece is the clock,
// which expiry classification depends on.
type Engine struct {
	now func() time.Time
}

// New creates an engine using the wall clock.
func New() *Engine {
	return &Engine{now: time.Now}
}

// NewWithClock creates an engine with a fixed clock, for tests.
func NewWithClock(now func() time.Time) *Engine {
	return &Engine{now: now}
}
