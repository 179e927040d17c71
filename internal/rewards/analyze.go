package rewards

import (
	"fmt"
	"math"

	"github.com/cardwise/cardwise-go/internal/domain"
)

// Cluster labels when the category count supports three clusters.
var spendLevels = [3]string{"Low", "Medium", "High"}

// AnalyzeSpending groups the user's transactions by category, clusters
// the category totals into spending levels and reports per-category
// monthly averages. With fewer than MinTransactionsForAnalysis
// transactions it returns an empty analysis with an advisory trend
// string rather than an error.
func (e *Engine) AnalyzeSpending(txns []domain.Transaction) *domain.SpendingAnalysis {
	if len(txns) < MinTransactionsForAnalysis {
		return &domain.SpendingAnalysis{
			Clusters:       []domain.SpendingCluster{},
			MonthlyAvg:     map[string]float64{},
			CategoryTotals: map[string]float64{},
			Trends:         insufficientDataTrends,
		}
	}

	categories, totals := categoryTotals(txns)
	months := distinctMonths(txns)

	analysis := &domain.SpendingAnalysis{
		Clusters:       clusterCategories(categories, totals),
		MonthlyAvg:     make(map[string]float64, len(categories)),
		CategoryTotals: make(map[string]float64, len(categories)),
	}
	for _, cat := range categories {
		analysis.CategoryTotals[cat] = round2(totals[cat])
		// The divisor is the distinct month count across the whole
		// snapshot, not the months the category appears in.
		analysis.MonthlyAvg[cat] = round2(totals[cat] / float64(months))
	}
	return analysis
}

// clusterCategories partitions categories into k = min(3, n) spending
// levels by their totals. With a single category the clustering step is
// skipped and everything lands in one "All" cluster. Clusters are
// ordered by ascending centroid, so "Low" (or "Cluster 1") always holds
// the smallest totals.
func clusterCategories(categories []string, totals map[string]float64) []domain.SpendingCluster {
	if len(categories) < 2 {
		total := 0.0
		for _, cat := range categories {
			total += totals[cat]
		}
		return []domain.SpendingCluster{{
			Level:         "All",
			Categories:    append([]string{}, categories...),
			TotalSpending: round2(total),
		}}
	}

	k := 3
	if len(categories) < k {
		k = len(categories)
	}
	values := make([]float64, len(categories))
	for i, cat := range categories {
		values[i] = totals[cat]
	}

	labels := kmeans1D(values, k)
	remap := orderClusters(values, labels, k)

	clusters := make([]domain.SpendingCluster, k)
	for i := range clusters {
		clusters[i] = domain.SpendingCluster{Categories: []string{}}
		if k == 3 {
			clusters[i].Level = spendLevels[i]
		} else {
			clusters[i].Level = fmt.Sprintf("Cluster %d", i+1)
		}
	}
	for i, cat := range categories {
		c := remap[labels[i]]
		clusters[c].Categories = append(clusters[c].Categories, cat)
		clusters[c].TotalSpending += values[i]
	}
	for i := range clusters {
		clusters[i].TotalSpending = round2(clusters[i].TotalSpending)
	}
	return clusters
}

// categoryTotals sums spend per category, preserving the order in which
// categories first appear in the snapshot.
func categoryTotals(txns []domain.Transaction) ([]string, map[string]float64) {
	order := make([]string, 0, 8)
	totals := make(map[string]float64, 8)
	for _, t := range txns {
		if _, ok := totals[t.Category]; !ok {
			order = append(order, t.Category)
		}
		totals[t.Category] += t.Amount
	}
	return order, totals
}

// distinctMonths counts the distinct year-months covered by the
// snapshot. Never returns zero.
func distinctMonths(txns []domain.Transaction) int {
	seen := make(map[string]struct{}, 12)
	for _, t := range txns {
		seen[t.Date.Format("2006-01")] = struct{}{}
	}
	if len(seen) == 0 {
		return 1
	}
	return len(seen)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
