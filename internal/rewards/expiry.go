package rewards

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/cardwise/cardwise-go/internal/domain"
)

// expiryLayouts are tried in order when parsing a card's expiry date.
var expiryLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseExpiry(s string) (time.Time, error) {
	var err error
	for _, layout := range expiryLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// daysUntil counts whole calendar days from now to t, rounding toward
// negative infinity so a card that expired an hour ago reports -1, not
// 0.
func daysUntil(now, t time.Time) int {
	return int(math.Floor(t.Sub(now).Hours() / 24))
}

// ClassifyExpiry grades how urgently a card's points should be spent.
// A missing expiry date is low risk and a malformed one is unknown;
// neither is an error. Negative day counts pass through unclamped.
func (e *Engine) ClassifyExpiry(card *domain.Card) domain.ExpiryRisk {
	if card.ExpiryDate == "" {
		return domain.ExpiryRisk{Risk: RiskLow, Message: noExpiryMessage}
	}
	expiry, err := parseExpiry(card.ExpiryDate)
	if err != nil {
		return domain.ExpiryRisk{Risk: RiskUnknown, Message: unparseableExpiry}
	}

	days := daysUntil(e.now(), expiry)
	risk := domain.ExpiryRisk{Days: &days}
	switch {
	case days < HighRiskDays:
		risk.Risk = RiskHigh
		risk.Message = fmt.Sprintf("Points expire in %d days!", days)
	case days < MediumRiskDays:
		risk.Risk = RiskMedium
		risk.Message = fmt.Sprintf("Points expire in %d days", days)
	default:
		risk.Risk = RiskLow
		risk.Message = fmt.Sprintf("Points expire in %d days", days)
	}
	return risk
}

// ExpiryAlerts surfaces cards whose points are both present and at
// risk. Low-risk and zero-balance cards are classified but never
// alerted on.
func (e *Engine) ExpiryAlerts(cards []domain.Card) []domain.ExpiryAlert {
	alerts := make([]domain.ExpiryAlert, 0, len(cards))
	for i := range cards {
		card := &cards[i]
		if card.PointsBalance <= 0 {
			continue
		}
		risk := e.ClassifyExpiry(card)
		if risk.Risk != RiskHigh && risk.Risk != RiskMedium {
			continue
		}
		days := 0
		if risk.Days != nil {
			days = *risk.Days
		}
		alerts = append(alerts, domain.ExpiryAlert{
			CardID:          card.ID,
			CardName:        card.DisplayName(),
			PointsBalance:   card.PointsBalance,
			RiskLevel:       risk.Risk,
			Message:         risk.Message,
			DaysUntilExpiry: days,
		})
	}
	return alerts
}

// ExpiryDates lists every card with a parseable expiry date, soonest
// first. Cards without a date or with a malformed one are skipped.
func (e *Engine) ExpiryDates(cards []domain.Card) []domain.CardExpiryInfo {
	infos := make([]domain.CardExpiryInfo, 0, len(cards))
	for i := range cards {
		card := &cards[i]
		if card.ExpiryDate == "" {
			continue
		}
		expiry, err := parseExpiry(card.ExpiryDate)
		if err != nil {
			continue
		}

		days := daysUntil(e.now(), expiry)
		risk := RiskLow
		switch {
		case days < HighRiskDays:
			risk = RiskHigh
		case days < MediumRiskDays:
			risk = RiskMedium
		}
		infos = append(infos, domain.CardExpiryInfo{
			CardID:          card.ID,
			CardName:        card.DisplayName(),
			PointsBalance:   card.PointsBalance,
			ExpiryDate:      card.ExpiryDate,
			DaysUntilExpiry: days,
			RiskLevel:       risk,
		})
	}
	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].DaysUntilExpiry < infos[j].DaysUntilExpiry
	})
	return infos
}
