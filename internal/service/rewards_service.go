// Package service contains the application services that orchestrate
// the rewards engine, persistence and external collaborators.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cardwise/cardwise-go/internal/domain"
	"github.com/cardwise/cardwise-go/internal/infra/observability"
	"github.com/cardwise/cardwise-go/internal/port"
	"github.com/cardwise/cardwise-go/internal/rewards"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("service/rewards")

// transactionFetchLimit bounds the snapshot the engine analyzes.
const transactionFetchLimit = 1000

// snapshot is the cached card + transaction view of one user.
type snapshot struct {
	cards []domain.Card
	txns  []domain.Transaction
}

// RewardsService runs the analytics engine over user snapshots and
// decorates results with advisor prose where the route calls for it.
type RewardsService struct {
	cards   port.CardStore
	txns    port.TransactionStore
	advisor port.AdvisorCaller
	engine  *rewards.Engine
	cache   port.Cache[any]
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewRewardsService creates the rewards service with all dependencies injected.
func NewRewardsService(
	cards port.CardStore,
	txns port.TransactionStore,
	advisor port.AdvisorCaller,
	engine *rewards.Engine,
	cache port.Cache[any],
	metrics *observability.Metrics,
	logger *zap.Logger,
) *RewardsService {
	return &RewardsService{
		cards:   cards,
		txns:    txns,
		advisor: advisor,
		engine:  engine,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
}

// InvalidateSnapshot drops the cached snapshot after a card or
// transaction mutation.
func (s *RewardsService) InvalidateSnapshot(userID string) {
	s.cache.Delete(snapshotKey(userID))
}

func snapshotKey(userID string) string {
	return fmt.Sprintf("snapshot:%s", userID)
}

// getSnapshot fetches the user's cards and transactions concurrently,
// serving from cache when possible.
func (s *RewardsService) getSnapshot(ctx context.Context, userID string) (*snapshot, error) {
	ctx, span := tracer.Start(ctx, "RewardsService.getSnapshot")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	key := snapshotKey(userID)
	if cached, ok := s.cache.Get(key); ok {
		if snap, ok := cached.(*snapshot); ok {
			s.metrics.IncrCacheHit("snapshot")
			return snap, nil
		}
	}
	s.metrics.IncrCacheMiss("snapshot")

	snap := &snapshot{}
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		cards, err := s.cards.ListCards(gCtx, userID)
		if err != nil {
			s.logger.Error("failed to fetch cards",
				zap.String("user_id", userID),
				zap.Error(err),
			)
			s.metrics.IncrExternalError("supabase/cards")
			return fmt.Errorf("cards fetch: %w", err)
		}
		snap.cards = cards
		return nil
	})

	g.Go(func() error {
		txns, err := s.txns.ListTransactions(gCtx, userID, transactionFetchLimit)
		if err != nil {
			s.logger.Error("failed to fetch transactions",
				zap.String("user_id", userID),
				zap.Error(err),
			)
			s.metrics.IncrExternalError("supabase/transactions")
			return fmt.Errorf("transactions fetch: %w", err)
		}
		snap.txns = txns
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.cache.Set(key, snap)
	return snap, nil
}

// AnalyzeSpending returns the clustered spending analysis for the user.
func (s *RewardsService) AnalyzeSpending(ctx context.Context, userID string) (*domain.SpendingAnalysis, error) {
	ctx, span := tracer.Start(ctx, "RewardsService.AnalyzeSpending")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("analyze_spending", time.Since(start))
	}()

	snap, err := s.getSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.engine.AnalyzeSpending(snap.txns), nil
}

// GetInsights pairs the spending analysis with advisor prose. Advisor
// failures never surface: the fallback is derived from the numbers.
func (s *RewardsService) GetInsights(ctx context.Context, userID string) (*domain.SpendingInsights, error) {
	ctx, span := tracer.Start(ctx, "RewardsService.GetInsights")
	defer span.End()

	snap, err := s.getSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	patterns := s.engine.AnalyzeSpending(snap.txns)
	return &domain.SpendingInsights{
		Insights: s.spendingProse(ctx, userID, snap.txns, patterns),
		Patterns: patterns,
	}, nil
}

// DetectRecurringBills lists the user's recurring merchants.
func (s *RewardsService) DetectRecurringBills(ctx context.Context, userID string) ([]domain.RecurringMerchant, error) {
	ctx, span := tracer.Start(ctx, "RewardsService.DetectRecurringBills")
	defer span.End()

	snap, err := s.getSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.engine.DetectRecurring(snap.txns), nil
}

// Optimize runs the switch recommender and attaches advisor insights.
func (s *RewardsService) Optimize(ctx context.Context, userID string) (*domain.OptimizationResult, error) {
	ctx, span := tracer.Start(ctx, "RewardsService.Optimize")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("optimize", time.Since(start))
	}()
	s.metrics.IncrOptimization()

	snap, err := s.getSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	// The engine scores unresolved card references at the base rate;
	// surface them here as a data-quality signal.
	if missing := missingCardIDs(snap.cards, snap.txns); len(missing) > 0 {
		s.logger.Warn("transactions reference unknown cards, scoring them at the base rate",
			zap.String("user_id", userID),
			zap.Int("card_count", len(missing)),
			zap.Strings("card_ids", missing),
		)
	}

	result := s.engine.RecommendSwitches(snap.cards, snap.txns)
	if len(result.Optimizations) > 0 {
		result.Insights = s.optimizerProse(ctx, userID, result)
	}
	return result, nil
}

// missingCardIDs returns the distinct transaction card IDs that resolve
// to no card in the snapshot, in first-seen order.
func missingCardIDs(cards []domain.Card, txns []domain.Transaction) []string {
	known := make(map[string]struct{}, len(cards))
	for _, c := range cards {
		known[c.ID] = struct{}{}
	}

	seen := make(map[string]struct{})
	var missing []string
	for _, t := range txns {
		if t.CardID == "" {
			continue
		}
		if _, ok := known[t.CardID]; ok {
			continue
		}
		if _, ok := seen[t.CardID]; ok {
			continue
		}
		seen[t.CardID] = struct{}{}
		missing = append(missing, t.CardID)
	}
	return missing
}

// ExpiryAlerts surfaces at-risk cards with a positive balance.
func (s *RewardsService) ExpiryAlerts(ctx context.Context, userID string) ([]domain.ExpiryAlert, error) {
	ctx, span := tracer.Start(ctx, "RewardsService.ExpiryAlerts")
	defer span.End()

	snap, err := s.getSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.engine.ExpiryAlerts(snap.cards), nil
}

// ExpiryDates lists expiry info for every card with a parseable date.
func (s *RewardsService) ExpiryDates(ctx context.Context, userID string) ([]domain.CardExpiryInfo, error) {
	ctx, span := tracer.Start(ctx, "RewardsService.ExpiryDates")
	defer span.End()

	snap, err := s.getSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.engine.ExpiryDates(snap.cards), nil
}

// RedemptionSuggestions lists redemption tiers per card.
func (s *RewardsService) RedemptionSuggestions(ctx context.Context, userID string) ([]domain.RedemptionSuggestion, error) {
	ctx, span := tracer.Start(ctx, "RewardsService.RedemptionSuggestions")
	defer span.End()

	snap, err := s.getSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.engine.RedemptionSuggestions(snap.cards), nil
}

// ============================================================
// Advisor prose with deterministic fallbacks
// ============================================================

func (s *RewardsService) optimizerProse(ctx context.Context, userID string, result *domain.OptimizationResult) string {
	fallback := fmt.Sprintf(
		"By switching to better cards for your recurring bills, you could earn %d additional points per year!",
		result.TotalAnnualGain,
	)

	merchants := make([]string, 0, 3)
	for i, opt := range result.Optimizations {
		if i == 3 {
			break
		}
		merchants = append(merchants, opt.Merchant)
	}

	return s.callAdvisor(ctx, &domain.AdvisorRequest{
		UserID: userID,
		Prompt: fmt.Sprintf(
			"Provide 2-3 brief tips for maximizing rewards on these recurring bills: %v. The user could gain %d points annually by optimizing.",
			merchants, result.TotalAnnualGain,
		),
		TopMerchants: merchants,
		TotalGain:    result.TotalAnnualGain,
	}, fallback)
}

func (s *RewardsService) spendingProse(ctx context.Context, userID string, txns []domain.Transaction, patterns *domain.SpendingAnalysis) string {
	if len(txns) == 0 {
		return "Start using your cards to see personalized insights!"
	}

	topCategory := ""
	topTotal := 0.0
	total := 0.0
	for cat, amount := range patterns.CategoryTotals {
		total += amount
		if amount > topTotal {
			topCategory, topTotal = cat, amount
		}
	}

	fallback := fmt.Sprintf(
		"Your top spending category is %s. Consider using a card with bonus rewards for %s purchases to earn more points.",
		topCategory, topCategory,
	)

	return s.callAdvisor(ctx, &domain.AdvisorRequest{
		UserID: userID,
		Prompt: fmt.Sprintf(
			"Generate 2-3 actionable insights about this spending pattern. Total spent: %.2f. Top category: %s (%.2f).",
			total, topCategory, topTotal,
		),
	}, fallback)
}

// callAdvisor invokes the advisor and substitutes the fallback on any
// failure. Token usage is recorded when the advisor reports it.
func (s *RewardsService) callAdvisor(ctx context.Context, req *domain.AdvisorRequest, fallback string) string {
	resp, err := s.advisor.Call(ctx, req)
	if err != nil {
		s.logger.Warn("advisor call failed, using fallback",
			zap.String("user_id", req.UserID),
			zap.Error(err),
		)
		s.metrics.IncrExternalError("advisor")
		s.metrics.IncrAdvisorCall("fallback")
		return fallback
	}
	if resp.Text == "" {
		s.metrics.IncrAdvisorCall("fallback")
		return fallback
	}

	s.metrics.IncrAdvisorCall("success")
	s.metrics.RecordTokens(resp.TokensUsed.PromptTokens, resp.TokensUsed.CompletionTokens)
	return resp.Text
}
