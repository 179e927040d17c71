package rewards

import (
	"sort"

	"github.com/cardwise/cardwise-go/internal/domain"
)

// EffectiveRate is the card's reward rate for a spending category,
// applying the bonus multiplier when the category is one of the card's
// bonus categories.
func EffectiveRate(card *domain.Card, category string) float64 {
	for _, c := range card.Categories {
		if c == category {
			return card.RewardRate * CategoryBonusMultiplier
		}
	}
	return card.RewardRate
}

// BestCardFor picks the card with the highest effective rate for a
// category. Ties keep the earliest card in the slice. Returns nil when
// no cards are given.
func BestCardFor(cards []domain.Card, category string) *domain.Card {
	if len(cards) == 0 {
		return nil
	}
	best := &cards[0]
	bestRate := EffectiveRate(best, category)
	for i := 1; i < len(cards); i++ {
		if r := EffectiveRate(&cards[i], category); r > bestRate {
			best, bestRate = &cards[i], r
		}
	}
	return best
}

// RecommendSwitches evaluates every recurring merchant against the
// user's card portfolio and recommends the card that would earn the
// most points, annualized under a monthly-recurrence assumption. The
// returned total covers every qualifying merchant even though the
// listing itself is capped at TopResults.
func (e *Engine) RecommendSwitches(cards []domain.Card, txns []domain.Transaction) *domain.OptimizationResult {
	if len(cards) == 0 {
		return &domain.OptimizationResult{
			Optimizations: []domain.CardOptimization{},
			Message:       noCardsMessage,
		}
	}

	byID := make(map[string]*domain.Card, len(cards))
	for i := range cards {
		byID[cards[i].ID] = &cards[i]
	}

	opts := make([]domain.CardOptimization, 0, 16)
	totalAnnual := 0
	for _, g := range groupByMerchant(txns) {
		if g.count < RecurringMinOccurrences {
			continue
		}
		avg := g.total / float64(g.count)

		best := BestCardFor(cards, g.category)

		// A transaction can reference a card the user has since
		// removed; score it at the neutral rate so a better card still
		// surfaces.
		currentRate := 1.0
		currentName := "Unknown"
		if cur := byID[g.cardID]; cur != nil {
			currentRate = EffectiveRate(cur, g.category)
			currentName = cur.DisplayName()
		}

		currentPoints := int(avg * currentRate)
		optimizedPoints := int(avg * EffectiveRate(best, g.category))
		gain := optimizedPoints - currentPoints
		if best.ID == g.cardID || gain <= 0 {
			continue
		}

		annual := gain * MonthsPerYear
		totalAnnual += annual
		opts = append(opts, domain.CardOptimization{
			Merchant:           g.merchant,
			Category:           g.category,
			AvgAmount:          round2(avg),
			CurrentCard:        currentName,
			RecommendedCard:    best.DisplayName(),
			CurrentPoints:      currentPoints,
			OptimizedPoints:    optimizedPoints,
			PointsGain:         gain,
			AnnualGainEstimate: annual,
		})
	}

	sort.SliceStable(opts, func(i, j int) bool {
		return opts[i].AnnualGainEstimate > opts[j].AnnualGainEstimate
	})
	if len(opts) > TopResults {
		opts = opts[:TopResults]
	}

	return &domain.OptimizationResult{
		Optimizations:   opts,
		TotalAnnualGain: totalAnnual,
	}
}
