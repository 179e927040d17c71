// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/cardwise/cardwise-go/internal/domain"
)

// CardStore handles credit card data operations.
type CardStore interface {
	CreateCard(ctx context.Context, userID string, req *domain.CardRequest) (*domain.Card, error)
	ListCards(ctx context.Context, userID string) ([]domain.Card, error)
	GetCard(ctx context.Context, userID, cardID string) (*domain.Card, error)
	UpdateCard(ctx context.Context, userID, cardID string, req *domain.CardRequest) (*domain.Card, error)
	DeleteCard(ctx context.Context, userID, cardID string) error
	UpdatePointsBalance(ctx context.Context, cardID string, balance int) error
}

// TransactionStore handles transaction data operations.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, userID string, limit int) ([]domain.Transaction, error)
}

// UserStore handles user account data operations.
type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User, passwordHash string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, string, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// AdvisorCaller invokes the advisory-text service that turns structured
// engine output into prose.
type AdvisorCaller interface {
	Call(ctx context.Context, req *domain.AdvisorRequest) (*domain.AdvisorResponse, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
