package rewards

import (
	"sort"

	"github.com/cardwise/cardwise-go/internal/domain"
)

// merchantGroup accumulates per-merchant stats while scanning a
// transaction snapshot in order.
type merchantGroup struct {
	merchant string
	count    int
	total    float64
	category string
	cardID   string
}

// groupByMerchant folds transactions into per-merchant groups,
// preserving first-appearance order. The category and card recorded for
// a merchant are those of its first transaction.
func groupByMerchant(txns []domain.Transaction) []*merchantGroup {
	order := make([]*merchantGroup, 0, 16)
	index := make(map[string]*merchantGroup, 16)
	for _, t := range txns {
		g, ok := index[t.Merchant]
		if !ok {
			g = &merchantGroup{merchant: t.Merchant, category: t.Category, cardID: t.CardID}
			index[t.Merchant] = g
			order = append(order, g)
		}
		g.count++
		g.total += t.Amount
	}
	return order
}

// DetectRecurring finds merchants with at least RecurringMinOccurrences
// transactions, ranked by total spend descending and capped at
// TopResults.
func (e *Engine) DetectRecurring(txns []domain.Transaction) []domain.RecurringMerchant {
	groups := groupByMerchant(txns)

	recurring := make([]domain.RecurringMerchant, 0, len(groups))
	for _, g := range groups {
		if g.count < RecurringMinOccurrences {
			continue
		}
		recurring = append(recurring, domain.RecurringMerchant{
			Merchant:   g.merchant,
			Frequency:  g.count,
			AvgAmount:  round2(g.total / float64(g.count)),
			Category:   g.category,
			TotalSpent: round2(g.total),
		})
	}

	sort.SliceStable(recurring, func(i, j int) bool {
		return recurring[i].TotalSpent > recurring[j].TotalSpent
	})
	if len(recurring) > TopResults {
		recurring = recurring[:TopResults]
	}
	return recurring
}
