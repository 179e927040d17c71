package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cardwise/cardwise-go/internal/domain"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// Credit Cards — CRUD via PostgREST
// ============================================================

func (c *Client) CreateCard(ctx context.Context, userID string, req *domain.CardRequest) (*domain.Card, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateCard")
	defer span.End()

	categories := req.Categories
	if categories == nil {
		categories = []string{}
	}

	row := map[string]any{
		"id":             uuid.NewString(),
		"user_id":        userID,
		"bank_name":      req.BankName,
		"card_name":      req.CardName,
		"last_four":      req.LastFour,
		"reward_type":    req.RewardType,
		"reward_rate":    req.RewardRate,
		"points_balance": 0,
		"expiry_date":    req.ExpiryDate,
		"categories":     categories,
		"created_at":     time.Now().UTC().Format(time.RFC3339),
	}

	body, err := c.doPost(ctx, "credit_cards", row)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/cards", Err: err}
	}

	var results []domain.Card
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("decode credit_card: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no result from credit_cards insert")
	}
	return &results[0], nil
}

// ListCards fetches the user's full card portfolio. This is the
// analytics hot path, so it goes through the circuit breaker.
func (c *Client) ListCards(ctx context.Context, userID string) ([]domain.Card, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListCards")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	var cards []domain.Card
	err := c.execute(ctx, func() error {
		path := fmt.Sprintf("credit_cards?user_id=eq.%s&order=created_at.asc", userID)
		body, err := c.doRequest(ctx, http.MethodGet, path)
		if err != nil {
			return err
		}
		if body == nil || string(body) == "[]" {
			cards = []domain.Card{}
			return nil
		}

		var rows []domain.Card
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("decode credit_cards: %w", err)
		}
		cards = rows
		return nil
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/cards", Err: err}
	}
	return cards, nil
}

func (c *Client) GetCard(ctx context.Context, userID, cardID string) (*domain.Card, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetCard")
	defer span.End()

	path := fmt.Sprintf("credit_cards?user_id=eq.%s&id=eq.%s&limit=1", userID, cardID)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/cards", Err: err}
	}

	var rows []domain.Card
	if body != nil {
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, fmt.Errorf("decode credit_card: %w", err)
		}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "card", ID: cardID}
	}
	return &rows[0], nil
}

// UpdateCard patches the card's editable fields and returns the fresh
// row. The points balance is not touched here.
func (c *Client) UpdateCard(ctx context.Context, userID, cardID string, req *domain.CardRequest) (*domain.Card, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateCard")
	defer span.End()

	categories := req.Categories
	if categories == nil {
		categories = []string{}
	}
	patch := map[string]any{
		"bank_name":   req.BankName,
		"card_name":   req.CardName,
		"last_four":   req.LastFour,
		"reward_type": req.RewardType,
		"reward_rate": req.RewardRate,
		"expiry_date": req.ExpiryDate,
		"categories":  categories,
	}

	path := fmt.Sprintf("credit_cards?user_id=eq.%s&id=eq.%s", userID, cardID)
	if err := c.doPatch(ctx, path, patch); err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/cards", Err: err}
	}
	return c.GetCard(ctx, userID, cardID)
}

func (c *Client) DeleteCard(ctx context.Context, userID, cardID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteCard")
	defer span.End()

	path := fmt.Sprintf("credit_cards?user_id=eq.%s&id=eq.%s", userID, cardID)
	if err := c.doDelete(ctx, path); err != nil {
		return &domain.ErrExternalService{Service: "supabase/cards", Err: err}
	}
	return nil
}

// UpdatePointsBalance sets a card's points balance to an absolute value.
// Callers compute the new balance; the store does not read-modify-write.
func (c *Client) UpdatePointsBalance(ctx context.Context, cardID string, balance int) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdatePointsBalance")
	defer span.End()

	patch := map[string]any{"points_balance": balance}
	if err := c.doPatch(ctx, fmt.Sprintf("credit_cards?id=eq.%s", cardID), patch); err != nil {
		return &domain.ErrExternalService{Service: "supabase/cards", Err: err}
	}
	return nil
}
