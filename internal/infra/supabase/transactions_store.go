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
// Transactions via PostgREST
// ============================================================

// transactionRow maps Supabase table columns; the date column can come
// back with or without a time component.
type transactionRow struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	CardID       string  `json:"card_id"`
	Amount       float64 `json:"amount"`
	Category     string  `json:"category"`
	Merchant     string  `json:"merchant"`
	PointsEarned int     `json:"points_earned"`
	Date         string  `json:"date"`
}

func (r *transactionRow) toDomain() domain.Transaction {
	t, err := time.Parse(time.RFC3339, r.Date)
	if err != nil {
		t, _ = time.Parse("2006-01-02", r.Date)
	}
	return domain.Transaction{
		ID:           r.ID,
		UserID:       r.UserID,
		CardID:       r.CardID,
		Amount:       r.Amount,
		Category:     r.Category,
		Merchant:     r.Merchant,
		PointsEarned: r.PointsEarned,
		Date:         t,
	}
}

func (c *Client) CreateTransaction(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateTransaction")
	defer span.End()

	id := txn.ID
	if id == "" {
		id = uuid.NewString()
	}
	date := txn.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	row := map[string]any{
		"id":            id,
		"user_id":       txn.UserID,
		"card_id":       txn.CardID,
		"amount":        txn.Amount,
		"category":      txn.Category,
		"merchant":      txn.Merchant,
		"points_earned": txn.PointsEarned,
		"date":          date.Format(time.RFC3339),
	}

	body, err := c.doPost(ctx, "transactions", row)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/transactions", Err: err}
	}

	var rows []transactionRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no result from transactions insert")
	}
	created := rows[0].toDomain()
	return &created, nil
}

// ListTransactions fetches the user's transaction history, newest
// first. Part of the analytics hot path, so it goes through the circuit
// breaker.
func (c *Client) ListTransactions(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListTransactions")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	var transactions []domain.Transaction
	err := c.execute(ctx, func() error {
		path := fmt.Sprintf("transactions?user_id=eq.%s&order=date.desc&limit=%d", userID, limit)
		body, err := c.doRequest(ctx, http.MethodGet, path)
		if err != nil {
			return err
		}
		if body == nil || string(body) == "[]" {
			transactions = []domain.Transaction{}
			return nil
		}

		var rows []transactionRow
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("decode transactions: %w", err)
		}
		transactions = make([]domain.Transaction, 0, len(rows))
		for i := range rows {
			transactions = append(transactions, rows[i].toDomain())
		}
		return nil
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/transactions", Err: err}
	}
	return transactions, nil
}
