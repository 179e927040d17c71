package service

import (
	"context"
	"fmt"

	"github.com/cardwise/cardwise-go/internal/domain"
	"github.com/cardwise/cardwise-go/internal/port"
	"github.com/cardwise/cardwise-go/internal/rewards"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var cardsTracer = otel.Tracer("service/cards")

// CardsService handles card CRUD, transaction recording and prospective
// card recommendations.
type CardsService struct {
	cards      port.CardStore
	txns       port.TransactionStore
	advisor    port.AdvisorCaller
	rewardsSvc *RewardsService
	logger     *zap.Logger
}

// NewCardsService creates the cards service. rewardsSvc is used only to
// invalidate the analytics snapshot after mutations.
func NewCardsService(
	cards port.CardStore,
	txns port.TransactionStore,
	advisor port.AdvisorCaller,
	rewardsSvc *RewardsService,
	logger *zap.Logger,
) *CardsService {
	return &CardsService{
		cards:      cards,
		txns:       txns,
		advisor:    advisor,
		rewardsSvc: rewardsSvc,
		logger:     logger,
	}
}

func validateCardRequest(req *domain.CardRequest) error {
	if req.BankName == "" {
		return &domain.ErrValidation{Field: "bank_name", Message: "required"}
	}
	if req.CardName == "" {
		return &domain.ErrValidation{Field: "card_name", Message: "required"}
	}
	if req.RewardRate < 0 {
		return &domain.ErrValidation{Field: "reward_rate", Message: "must not be negative"}
	}
	return nil
}

// CreateCard registers a new card for the user.
func (s *CardsService) CreateCard(ctx context.Context, userID string, req *domain.CardRequest) (*domain.Card, error) {
	ctx, span := cardsTracer.Start(ctx, "CardsService.CreateCard")
	defer span.End()

	if err := validateCardRequest(req); err != nil {
		return nil, err
	}

	card, err := s.cards.CreateCard(ctx, userID, req)
	if err != nil {
		return nil, fmt.Errorf("create card: %w", err)
	}

	s.rewardsSvc.InvalidateSnapshot(userID)
	s.logger.Info("card created",
		zap.String("user_id", userID),
		zap.String("card_id", card.ID),
	)
	return card, nil
}

// ListCards returns the user's card portfolio.
func (s *CardsService) ListCards(ctx context.Context, userID string) ([]domain.Card, error) {
	ctx, span := cardsTracer.Start(ctx, "CardsService.ListCards")
	defer span.End()

	return s.cards.ListCards(ctx, userID)
}

// GetCard returns one card, scoped to the user.
func (s *CardsService) GetCard(ctx context.Context, userID, cardID string) (*domain.Card, error) {
	ctx, span := cardsTracer.Start(ctx, "CardsService.GetCard")
	defer span.End()

	return s.cards.GetCard(ctx, userID, cardID)
}

// UpdateCard replaces a card's editable fields.
func (s *CardsService) UpdateCard(ctx context.Context, userID, cardID string, req *domain.CardRequest) (*domain.Card, error) {
	ctx, span := cardsTracer.Start(ctx, "CardsService.UpdateCard")
	defer span.End()

	if err := validateCardRequest(req); err != nil {
		return nil, err
	}

	// Existence check first so a missing card is a 404, not a silent
	// no-op patch.
	if _, err := s.cards.GetCard(ctx, userID, cardID); err != nil {
		return nil, err
	}

	card, err := s.cards.UpdateCard(ctx, userID, cardID, req)
	if err != nil {
		return nil, fmt.Errorf("update card: %w", err)
	}

	s.rewardsSvc.InvalidateSnapshot(userID)
	return card, nil
}

// DeleteCard removes a card. Its transactions are kept; the engine
// treats their dangling card reference as the neutral rate.
func (s *CardsService) DeleteCard(ctx context.Context, userID, cardID string) error {
	ctx, span := cardsTracer.Start(ctx, "CardsService.DeleteCard")
	defer span.End()

	if _, err := s.cards.GetCard(ctx, userID, cardID); err != nil {
		return err
	}
	if err := s.cards.DeleteCard(ctx, userID, cardID); err != nil {
		return fmt.Errorf("delete card: %w", err)
	}

	s.rewardsSvc.InvalidateSnapshot(userID)
	s.logger.Info("card deleted",
		zap.String("user_id", userID),
		zap.String("card_id", cardID),
	)
	return nil
}

// ============================================================
// Transactions
// ============================================================

// CreateTransaction records a purchase and credits the card's points
// balance by points_earned. The engine never mutates state; this is the
// one collaborator-side mutation.
func (s *CardsService) CreateTransaction(ctx context.Context, userID string, req *domain.TransactionRequest) (*domain.Transaction, error) {
	ctx, span := cardsTracer.Start(ctx, "CardsService.CreateTransaction")
	defer span.End()
	span.SetAttributes(attribute.String("card.id", req.CardID))

	if req.Amount <= 0 {
		return nil, &domain.ErrValidation{Field: "amount", Message: "must be positive"}
	}
	if req.Merchant == "" {
		return nil, &domain.ErrValidation{Field: "merchant", Message: "required"}
	}
	if req.Category == "" {
		return nil, &domain.ErrValidation{Field: "category", Message: "required"}
	}

	card, err := s.cards.GetCard(ctx, userID, req.CardID)
	if err != nil {
		return nil, err
	}

	txn, err := s.txns.CreateTransaction(ctx, &domain.Transaction{
		UserID:       userID,
		CardID:       req.CardID,
		Amount:       req.Amount,
		Category:     req.Category,
		Merchant:     req.Merchant,
		PointsEarned: req.PointsEarned,
	})
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	newBalance := card.PointsBalance + req.PointsEarned
	if err := s.cards.UpdatePointsBalance(ctx, card.ID, newBalance); err != nil {
		// The transaction is recorded; log the balance drift rather
		// than failing the request.
		s.logger.Error("failed to credit points balance",
			zap.String("card_id", card.ID),
			zap.Int("points_earned", req.PointsEarned),
			zap.Error(err),
		)
	}

	s.rewardsSvc.InvalidateSnapshot(userID)
	return txn, nil
}

// ListTransactions returns the user's transactions, newest first.
func (s *CardsService) ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	ctx, span := cardsTracer.Start(ctx, "CardsService.ListTransactions")
	defer span.End()

	return s.txns.ListTransactions(ctx, userID, transactionFetchLimit)
}

// ============================================================
// Recommendations
// ============================================================

// Recommend picks the best card for a prospective purchase. The card
// choice is always the engine's; the advisor only supplies the prose.
func (s *CardsService) Recommend(ctx context.Context, userID string, req *domain.RecommendationRequest) (*domain.RecommendationResponse, error) {
	ctx, span := cardsTracer.Start(ctx, "CardsService.Recommend")
	defer span.End()
	span.SetAttributes(attribute.String("category", req.Category))

	if req.Category == "" {
		return nil, &domain.ErrValidation{Field: "category", Message: "required"}
	}
	if req.Amount <= 0 {
		return nil, &domain.ErrValidation{Field: "amount", Message: "must be positive"}
	}

	cards, err := s.cards.ListCards(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, &domain.ErrValidation{Field: "cards", Message: "no credit cards found, add a card first"}
	}

	best := rewards.BestCardFor(cards, req.Category)

	reason := fmt.Sprintf("Based on reward rates, use the %s for maximum points.", best.DisplayName())
	resp, err := s.advisor.Call(ctx, &domain.AdvisorRequest{
		UserID: userID,
		Prompt: fmt.Sprintf(
			"Recommend the best card for a %.2f purchase in category %s. Best by effective rate: %s.",
			req.Amount, req.Category, best.DisplayName(),
		),
	})
	if err != nil {
		s.logger.Warn("advisor recommendation failed, using fallback",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	} else if resp.Text != "" {
		reason = resp.Text
	}

	return &domain.RecommendationResponse{
		CardID:       best.ID,
		CardName:     best.CardName,
		BankName:     best.BankName,
		Reason:       reason,
		PointsEarned: int(req.Amount * best.RewardRate),
		RewardRate:   best.RewardRate,
	}, nil
}
