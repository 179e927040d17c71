package rewards

import (
	"fmt"

	"github.com/cardwise/cardwise-go/internal/domain"
)

// SuggestRedemptions proposes every redemption tier the card's points
// balance unlocks, in ascending threshold order. The options are
// cumulative: a balance past the travel threshold gets all three.
// Returns nil when the balance unlocks nothing.
func (e *Engine) SuggestRedemptions(card *domain.Card) []domain.RedemptionOption {
	points := card.PointsBalance
	if points < GiftCardThreshold {
		return nil
	}

	base := float64(points) * PointValue
	options := make([]domain.RedemptionOption, 0, 3)
	options = append(options, domain.RedemptionOption{
		Type:        RedemptionGiftCard,
		Value:       round2(base),
		Description: fmt.Sprintf("₹%.2f gift card", round2(base)),
	})
	if points >= StatementCreditThreshold {
		options = append(options, domain.RedemptionOption{
			Type:        RedemptionStatementCredit,
			Value:       round2(base),
			Description: fmt.Sprintf("₹%.2f statement credit", round2(base)),
		})
	}
	if points >= TravelThreshold {
		travel := round2(base * TravelBonusMultiplier)
		options = append(options, domain.RedemptionOption{
			Type:        RedemptionTravel,
			Value:       travel,
			Description: fmt.Sprintf("₹%.2f travel booking", travel),
		})
	}
	return options
}

// RedemptionSuggestions maps SuggestRedemptions over a card portfolio,
// omitting cards whose balance unlocks no tier.
func (e *Engine) RedemptionSuggestions(cards []domain.Card) []domain.RedemptionSuggestion {
	suggestions := make([]domain.RedemptionSuggestion, 0, len(cards))
	for i := range cards {
		card := &cards[i]
		options := e.SuggestRedemptions(card)
		if len(options) == 0 {
			continue
		}
		suggestions = append(suggestions, domain.RedemptionSuggestion{
			CardID:            card.ID,
			CardName:          card.DisplayName(),
			PointsBalance:     card.PointsBalance,
			RedemptionOptions: options,
		})
	}
	return suggestions
}
