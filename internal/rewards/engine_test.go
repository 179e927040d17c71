package rewards

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/cardwise/cardwise-go/internal/domain"
)

var testNow = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

func testEngine() *Engine {
	return NewWithClock(func() time.Time { return testNow })
}

func tx(merchant, category string, amount float64, date time.Time) domain.Transaction {
	return domain.Transaction{
		ID:       merchant + date.Format("-2006-01-02"),
		UserID:   "user-1",
		CardID:   "card-1",
		Amount:   amount,
		Category: category,
		Merchant: merchant,
		Date:     date,
	}
}

func TestAnalyzeSpendingInsufficientData(t *testing.T) {
	e := testEngine()
	analysis := e.AnalyzeSpending([]domain.Transaction{
		tx("Cafe", "dining", 100, testNow),
		tx("Metro", "travel", 50, testNow),
	})

	if len(analysis.Clusters) != 0 {
		t.Errorf("expected no clusters, got %d", len(analysis.Clusters))
	}
	if analysis.Trends != "Not enough data for analysis" {
		t.Errorf("unexpected trends message: %q", analysis.Trends)
	}
	if len(analysis.MonthlyAvg) != 0 || len(analysis.CategoryTotals) != 0 {
		t.Error("expected empty aggregates for insufficient data")
	}
}

func TestAnalyzeSpendingSingleCategory(t *testing.T) {
	e := testEngine()
	analysis := e.AnalyzeSpending([]domain.Transaction{
		tx("Cafe", "dining", 100, testNow),
		tx("Cafe", "dining", 200, testNow),
		tx("Bar", "dining", 300, testNow),
	})

	if len(analysis.Clusters) != 1 {
		t.Fatalf("expected one cluster, got %d", len(analysis.Clusters))
	}
	c := analysis.Clusters[0]
	if c.Level != "All" {
		t.Errorf("expected level All, got %q", c.Level)
	}
	if c.TotalSpending != 600 {
		t.Errorf("expected total 600, got %v", c.TotalSpending)
	}
	if !reflect.DeepEqual(c.Categories, []string{"dining"}) {
		t.Errorf("unexpected categories: %v", c.Categories)
	}
	if analysis.Trends != "" {
		t.Errorf("expected no trends on the success path, got %q", analysis.Trends)
	}
}

func TestAnalyzeSpendingClusterLevels(t *testing.T) {
	jan := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	e := testEngine()
	analysis := e.AnalyzeSpending([]domain.Transaction{
		tx("Metro", "transport", 100, jan),
		tx("Bus", "transport", 110, jan),
		tx("Cafe", "dining", 5000, jan),
		tx("Bar", "dining", 5200, jan),
		tx("Jeweler", "luxury", 20000, jan),
	})

	if len(analysis.Clusters) != 3 {
		t.Fatalf("expected three clusters, got %d", len(analysis.Clusters))
	}
	levels := []string{analysis.Clusters[0].Level, analysis.Clusters[1].Level, analysis.Clusters[2].Level}
	if !reflect.DeepEqual(levels, []string{"Low", "Medium", "High"}) {
		t.Fatalf("unexpected cluster levels: %v", levels)
	}
	if !reflect.DeepEqual(analysis.Clusters[0].Categories, []string{"transport"}) {
		t.Errorf("low cluster should hold transport, got %v", analysis.Clusters[0].Categories)
	}
	if !reflect.DeepEqual(analysis.Clusters[1].Categories, []string{"dining"}) {
		t.Errorf("medium cluster should hold dining, got %v", analysis.Clusters[1].Categories)
	}
	if !reflect.DeepEqual(analysis.Clusters[2].Categories, []string{"luxury"}) {
		t.Errorf("high cluster should hold luxury, got %v", analysis.Clusters[2].Categories)
	}
}

func TestAnalyzeSpendingTwoCategories(t *testing.T) {
	jan := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	e := testEngine()
	analysis := e.AnalyzeSpending([]domain.Transaction{
		tx("Metro", "transport", 100, jan),
		tx("Cafe", "dining", 5000, jan),
		tx("Bus", "transport", 50, jan),
	})

	if len(analysis.Clusters) != 2 {
		t.Fatalf("expected two clusters, got %d", len(analysis.Clusters))
	}
	if analysis.Clusters[0].Level != "Cluster 1" || analysis.Clusters[1].Level != "Cluster 2" {
		t.Errorf("unexpected levels: %q, %q", analysis.Clusters[0].Level, analysis.Clusters[1].Level)
	}
	if analysis.Clusters[0].TotalSpending != 150 {
		t.Errorf("lowest cluster should total 150, got %v", analysis.Clusters[0].TotalSpending)
	}
}

func TestAnalyzeSpendingMonthlyAvgUsesGlobalMonths(t *testing.T) {
	jan := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC)
	e := testEngine()

	// dining only occurs in January, but the snapshot spans two months,
	// so its monthly average divides by 2.
	analysis := e.AnalyzeSpending([]domain.Transaction{
		tx("Cafe", "dining", 900, jan),
		tx("Metro", "transport", 100, jan),
		tx("Metro", "transport", 100, feb),
	})

	if got := analysis.MonthlyAvg["dining"]; got != 450 {
		t.Errorf("expected dining monthly avg 450, got %v", got)
	}
	if got := analysis.MonthlyAvg["transport"]; got != 100 {
		t.Errorf("expected transport monthly avg 100, got %v", got)
	}
}

func TestAnalyzeSpendingDeterministic(t *testing.T) {
	jan := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	txns := make([]domain.Transaction, 0, 12)
	for i := 0; i < 12; i++ {
		txns = append(txns, tx(
			fmt.Sprintf("Merchant%d", i),
			fmt.Sprintf("category%d", i%5),
			float64(50+i*137),
			jan.AddDate(0, 0, i),
		))
	}

	e := testEngine()
	first := e.AnalyzeSpending(txns)
	for i := 0; i < 5; i++ {
		if again := e.AnalyzeSpending(txns); !reflect.DeepEqual(first, again) {
			t.Fatalf("analysis not deterministic on run %d", i)
		}
	}
}

func TestDetectRecurring(t *testing.T) {
	jan := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	e := testEngine()
	recurring := e.DetectRecurring([]domain.Transaction{
		tx("Netflix", "entertainment", 499, jan),
		tx("Netflix", "entertainment", 499, jan.AddDate(0, 1, 0)),
		tx("Grocer", "groceries", 2000, jan),
		tx("Grocer", "groceries", 2400, jan.AddDate(0, 1, 0)),
		tx("OneOff", "shopping", 9999, jan),
	})

	if len(recurring) != 2 {
		t.Fatalf("expected two recurring merchants, got %d", len(recurring))
	}
	if recurring[0].Merchant != "Grocer" {
		t.Errorf("expected Grocer ranked first by total spend, got %q", recurring[0].Merchant)
	}
	if recurring[0].TotalSpent != 4400 || recurring[0].AvgAmount != 2200 {
		t.Errorf("unexpected Grocer stats: total %v, avg %v", recurring[0].TotalSpent, recurring[0].AvgAmount)
	}
	if recurring[1].Merchant != "Netflix" || recurring[1].Frequency != 2 {
		t.Errorf("unexpected second entry: %+v", recurring[1])
	}
}

func TestDetectRecurringCapsAtTop10(t *testing.T) {
	jan := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	txns := make([]domain.Transaction, 0, 24)
	for i := 0; i < 12; i++ {
		m := fmt.Sprintf("Merchant%d", i)
		txns = append(txns,
			tx(m, "subscriptions", float64(100+i*10), jan),
			tx(m, "subscriptions", float64(100+i*10), jan.AddDate(0, 1, 0)),
		)
	}

	e := testEngine()
	recurring := e.DetectRecurring(txns)
	if len(recurring) != TopResults {
		t.Fatalf("expected %d entries, got %d", TopResults, len(recurring))
	}
	for i := 1; i < len(recurring); i++ {
		if recurring[i].TotalSpent > recurring[i-1].TotalSpent {
			t.Errorf("entries not sorted descending at index %d", i)
		}
	}
}

func TestEffectiveRate(t *testing.T) {
	card := &domain.Card{RewardRate: 2.0, Categories: []string{"dining", "travel"}}
	if got := EffectiveRate(card, "dining"); got != 3.0 {
		t.Errorf("expected bonus rate 3.0, got %v", got)
	}
	if got := EffectiveRate(card, "groceries"); got != 2.0 {
		t.Errorf("expected base rate 2.0, got %v", got)
	}
}

func TestRecommendSwitchesNoCards(t *testing.T) {
	e := testEngine()
	result := e.RecommendSwitches(nil, []domain.Transaction{
		tx("Cafe", "dining", 100, testNow),
	})
	if len(result.Optimizations) != 0 {
		t.Errorf("expected no optimizations, got %d", len(result.Optimizations))
	}
	if result.Message != "No cards available" {
		t.Errorf("unexpected message: %q", result.Message)
	}
}

func TestRecommendSwitches(t *testing.T) {
	jan := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	cards := []domain.Card{
		{ID: "card-1", BankName: "HDFC", CardName: "Regalia", RewardRate: 1.0},
		{ID: "card-2", BankName: "Axis", CardName: "Magnus", RewardRate: 0.8, Categories: []string{"dining"}},
	}
	txns := []domain.Transaction{
		tx("Cafe", "dining", 900, jan),
		tx("Cafe", "dining", 1100, jan.AddDate(0, 1, 0)),
	}

	e := testEngine()
	result := e.RecommendSwitches(cards, txns)
	if len(result.Optimizations) != 1 {
		t.Fatalf("expected one optimization, got %d", len(result.Optimizations))
	}

	opt := result.Optimizations[0]
	if opt.Merchant != "Cafe" || opt.Category != "dining" {
		t.Errorf("unexpected target: %+v", opt)
	}
	if opt.CurrentCard != "HDFC Regalia" || opt.RecommendedCard != "Axis Magnus" {
		t.Errorf("unexpected cards: current %q, recommended %q", opt.CurrentCard, opt.RecommendedCard)
	}
	if opt.CurrentPoints != 1000 || opt.OptimizedPoints != 1200 {
		t.Errorf("unexpected points: current %d, optimized %d", opt.CurrentPoints, opt.OptimizedPoints)
	}
	if opt.PointsGain != 200 || opt.AnnualGainEstimate != 2400 {
		t.Errorf("unexpected gain: %d / %d", opt.PointsGain, opt.AnnualGainEstimate)
	}
	if result.TotalAnnualGain != 2400 {
		t.Errorf("expected total annual gain 2400, got %d", result.TotalAnnualGain)
	}
}

func TestRecommendSwitchesExcludesTiesAndZeroGains(t *testing.T) {
	jan := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	cards := []domain.Card{
		{ID: "card-1", BankName: "HDFC", CardName: "Regalia", RewardRate: 2.0},
		{ID: "card-2", BankName: "Axis", CardName: "Magnus", RewardRate: 2.0},
	}
	txns := []domain.Transaction{
		tx("Cafe", "dining", 500, jan),
		tx("Cafe", "dining", 500, jan.AddDate(0, 1, 0)),
	}

	e := testEngine()
	result := e.RecommendSwitches(cards, txns)
	if len(result.Optimizations) != 0 {
		t.Errorf("tied rates must not produce a recommendation: %+v", result.Optimizations)
	}
	if result.TotalAnnualGain != 0 {
		t.Errorf("expected zero total gain, got %d", result.TotalAnnualGain)
	}
}

func TestRecommendSwitchesUnknownCurrentCard(t *testing.T) {
	jan := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	cards := []domain.Card{
		{ID: "card-9", BankName: "SBI", CardName: "Elite", RewardRate: 2.0},
	}
	// card-1 no longer exists; its rate defaults to 1.0.
	txns := []domain.Transaction{
		tx("Gym", "fitness", 1000, jan),
		tx("Gym", "fitness", 1000, jan.AddDate(0, 1, 0)),
	}

	e := testEngine()
	result := e.RecommendSwitches(cards, txns)
	if len(result.Optimizations) != 1 {
		t.Fatalf("expected one optimization, got %d", len(result.Optimizations))
	}
	opt := result.Optimizations[0]
	if opt.CurrentCard != "Unknown" {
		t.Errorf("expected Unknown current card, got %q", opt.CurrentCard)
	}
	if opt.CurrentPoints != 1000 || opt.OptimizedPoints != 2000 {
		t.Errorf("unexpected points: current %d, optimized %d", opt.CurrentPoints, opt.OptimizedPoints)
	}
}

func TestClassifyExpiryNoDate(t *testing.T) {
	e := testEngine()
	risk := e.ClassifyExpiry(&domain.Card{})
	if risk.Risk != RiskLow || risk.Message != "No expiry date set" {
		t.Errorf("unexpected classification: %+v", risk)
	}
	if risk.Days != nil {
		t.Error("expected no day count without an expiry date")
	}
}

func TestClassifyExpiryMalformedDate(t *testing.T) {
	e := testEngine()
	risk := e.ClassifyExpiry(&domain.Card{ExpiryDate: "next spring"})
	if risk.Risk != RiskUnknown || risk.Message != "Unable to parse expiry date" {
		t.Errorf("unexpected classification: %+v", risk)
	}
}

func TestClassifyExpiryBoundaries(t *testing.T) {
	cases := []struct {
		name   string
		offset time.Duration
		days   int
		risk   string
	}{
		{"just under 30 days", 30*24*time.Hour - time.Hour, 29, RiskHigh},
		{"exactly 30 days", 30 * 24 * time.Hour, 30, RiskMedium},
		{"just under 90 days", 90*24*time.Hour - time.Hour, 89, RiskMedium},
		{"exactly 90 days", 90 * 24 * time.Hour, 90, RiskLow},
		{"expired an hour ago", -25 * time.Hour, -2, RiskHigh},
	}

	e := testEngine()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			card := &domain.Card{ExpiryDate: testNow.Add(tc.offset).Format(time.RFC3339)}
			risk := e.ClassifyExpiry(card)
			if risk.Risk != tc.risk {
				t.Errorf("expected risk %q, got %q", tc.risk, risk.Risk)
			}
			if risk.Days == nil || *risk.Days != tc.days {
				t.Errorf("expected %d days, got %v", tc.days, risk.Days)
			}
		})
	}
}

func TestClassifyExpiryDateOnlyLayout(t *testing.T) {
	e := testEngine()
	risk := e.ClassifyExpiry(&domain.Card{ExpiryDate: "2025-06-01"})
	if risk.Risk != RiskLow {
		t.Errorf("expected low risk, got %q", risk.Risk)
	}
	if risk.Days == nil || *risk.Days != 136 {
		t.Errorf("expected 136 days, got %v", risk.Days)
	}
}

func TestExpiryAlerts(t *testing.T) {
	soon := testNow.Add(10 * 24 * time.Hour).Format(time.RFC3339)
	later := testNow.Add(60 * 24 * time.Hour).Format(time.RFC3339)
	far := testNow.Add(365 * 24 * time.Hour).Format(time.RFC3339)

	cards := []domain.Card{
		{ID: "c1", BankName: "HDFC", CardName: "Regalia", PointsBalance: 5000, ExpiryDate: soon},
		{ID: "c2", BankName: "Axis", CardName: "Magnus", PointsBalance: 3000, ExpiryDate: later},
		{ID: "c3", BankName: "SBI", CardName: "Elite", PointsBalance: 8000, ExpiryDate: far},
		{ID: "c4", BankName: "ICICI", CardName: "Amazon", PointsBalance: 0, ExpiryDate: soon},
	}

	e := testEngine()
	alerts := e.ExpiryAlerts(cards)
	if len(alerts) != 2 {
		t.Fatalf("expected two alerts, got %d", len(alerts))
	}
	if alerts[0].CardID != "c1" || alerts[0].RiskLevel != RiskHigh || alerts[0].DaysUntilExpiry != 10 {
		t.Errorf("unexpected first alert: %+v", alerts[0])
	}
	if alerts[1].CardID != "c2" || alerts[1].RiskLevel != RiskMedium {
		t.Errorf("unexpected second alert: %+v", alerts[1])
	}
}

func TestExpiryDatesSortedSoonestFirst(t *testing.T) {
	cards := []domain.Card{
		{ID: "c1", BankName: "HDFC", CardName: "Regalia", ExpiryDate: testNow.Add(200 * 24 * time.Hour).Format(time.RFC3339)},
		{ID: "c2", BankName: "Axis", CardName: "Magnus", ExpiryDate: testNow.Add(20 * 24 * time.Hour).Format(time.RFC3339)},
		{ID: "c3", BankName: "SBI", CardName: "Elite"},
		{ID: "c4", BankName: "ICICI", CardName: "Amazon", ExpiryDate: "not a date"},
	}

	e := testEngine()
	infos := e.ExpiryDates(cards)
	if len(infos) != 2 {
		t.Fatalf("expected two entries, got %d", len(infos))
	}
	if infos[0].CardID != "c2" || infos[1].CardID != "c1" {
		t.Errorf("entries not sorted soonest first: %+v", infos)
	}
	if infos[0].RiskLevel != RiskHigh || infos[1].RiskLevel != RiskLow {
		t.Errorf("unexpected risk levels: %q, %q", infos[0].RiskLevel, infos[1].RiskLevel)
	}
}

func TestSuggestRedemptionsThresholds(t *testing.T) {
	cases := []struct {
		points int
		types  []string
	}{
		{0, nil},
		{2499, nil},
		{2500, []string{RedemptionGiftCard}},
		{5000, []string{RedemptionGiftCard, RedemptionStatementCredit}},
		{9999, []string{RedemptionGiftCard, RedemptionStatementCredit}},
		{10000, []string{RedemptionGiftCard, RedemptionStatementCredit, RedemptionTravel}},
	}

	e := testEngine()
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d points", tc.points), func(t *testing.T) {
			options := e.SuggestRedemptions(&domain.Card{PointsBalance: tc.points})
			if len(options) != len(tc.types) {
				t.Fatalf("expected %d options, got %d", len(tc.types), len(options))
			}
			for i, typ := range tc.types {
				if options[i].Type != typ {
					t.Errorf("option %d: expected type %q, got %q", i, typ, options[i].Type)
				}
			}
		})
	}
}

func TestSuggestRedemptionsValues(t *testing.T) {
	e := testEngine()
	options := e.SuggestRedemptions(&domain.Card{PointsBalance: 10000})
	if len(options) != 3 {
		t.Fatalf("expected three options, got %d", len(options))
	}
	if options[0].Value != 100 || options[1].Value != 100 {
		t.Errorf("expected base value 100, got %v and %v", options[0].Value, options[1].Value)
	}
	if options[2].Value != 125 {
		t.Errorf("expected travel value 125, got %v", options[2].Value)
	}
	if options[2].Description != "₹125.00 travel booking" {
		t.Errorf("unexpected travel description: %q", options[2].Description)
	}
}

func TestRedemptionSuggestionsSkipsLowBalances(t *testing.T) {
	cards := []domain.Card{
		{ID: "c1", BankName: "HDFC", CardName: "Regalia", PointsBalance: 12000},
		{ID: "c2", BankName: "Axis", CardName: "Magnus", PointsBalance: 100},
	}

	e := testEngine()
	suggestions := e.RedemptionSuggestions(cards)
	if len(suggestions) != 1 {
		t.Fatalf("expected one suggestion, got %d", len(suggestions))
	}
	if suggestions[0].CardID != "c1" || len(suggestions[0].RedemptionOptions) != 3 {
		t.Errorf("unexpected suggestion: %+v", suggestions[0])
	}
}
