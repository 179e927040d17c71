package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/cardwise/cardwise-go/internal/domain"
)

// Hand-rolled mocks implementing the port interfaces.

type mockCardStore struct {
	mu         sync.Mutex
	cards      []domain.Card
	err        error
	listCalls  int
	balancePut map[string]int
}

func (m *mockCardStore) CreateCard(ctx context.Context, userID string, req *domain.CardRequest) (*domain.Card, error) {
	if m.err != nil {
		return nil, m.err
	}
	card := domain.Card{
		ID:         fmt.Sprintf("card-%d", len(m.cards)+1),
		UserID:     userID,
		BankName:   req.BankName,
		CardName:   req.CardName,
		RewardType: req.RewardType,
		RewardRate: req.RewardRate,
		ExpiryDate: req.ExpiryDate,
		Categories: req.Categories,
	}
	m.cards = append(m.cards, card)
	return &card, nil
}

func (m *mockCardStore) ListCards(ctx context.Context, userID string) ([]domain.Card, error) {
	m.mu.Lock()
	m.listCalls++
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.cards, nil
}

func (m *mockCardStore) GetCard(ctx context.Context, userID, cardID string) (*domain.Card, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.cards {
		if m.cards[i].ID == cardID {
			return &m.cards[i], nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "card", ID: cardID}
}

func (m *mockCardStore) UpdateCard(ctx context.Context, userID, cardID string, req *domain.CardRequest) (*domain.Card, error) {
	card, err := m.GetCard(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}
	card.BankName = req.BankName
	card.CardName = req.CardName
	card.RewardRate = req.RewardRate
	card.Categories = req.Categories
	card.ExpiryDate = req.ExpiryDate
	return card, nil
}

func (m *mockCardStore) DeleteCard(ctx context.Context, userID, cardID string) error {
	for i := range m.cards {
		if m.cards[i].ID == cardID {
			m.cards = append(m.cards[:i], m.cards[i+1:]...)
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "card", ID: cardID}
}

func (m *mockCardStore) UpdatePointsBalance(ctx context.Context, cardID string, balance int) error {
	if m.balancePut == nil {
		m.balancePut = map[string]int{}
	}
	m.balancePut[cardID] = balance
	for i := range m.cards {
		if m.cards[i].ID == cardID {
			m.cards[i].PointsBalance = balance
		}
	}
	return nil
}

type mockTxnStore struct {
	mu        sync.Mutex
	txns      []domain.Transaction
	err       error
	listCalls int
}

func (m *mockTxnStore) CreateTransaction(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error) {
	if m.err != nil {
		return nil, m.err
	}
	created := *txn
	created.ID = fmt.Sprintf("txn-%d", len(m.txns)+1)
	m.txns = append(m.txns, created)
	return &created, nil
}

func (m *mockTxnStore) ListTransactions(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	m.mu.Lock()
	m.listCalls++
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.txns, nil
}

type mockAdvisor struct {
	resp  *domain.AdvisorResponse
	err   error
	calls int
}

func (m *mockAdvisor) Call(ctx context.Context, req *domain.AdvisorRequest) (*domain.AdvisorResponse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

type mockUserStore struct {
	users  map[string]*domain.User
	hashes map[string]string
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: map[string]*domain.User{}, hashes: map[string]string{}}
}

func (m *mockUserStore) CreateUser(ctx context.Context, user *domain.User, passwordHash string) (*domain.User, error) {
	created := *user
	created.ID = fmt.Sprintf("user-%d", len(m.users)+1)
	m.users[created.Email] = &created
	m.hashes[created.Email] = passwordHash
	return &created, nil
}

func (m *mockUserStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, string, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, "", nil
	}
	return u, m.hashes[email], nil
}

func (m *mockUserStore) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "user", ID: userID}
}

// mapCache is a TTL-less cache for tests.
type mapCache struct {
	mu    sync.Mutex
	items map[string]any
}

func newMapCache() *mapCache {
	return &mapCache{items: map[string]any{}}
}

func (c *mapCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *mapCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}

func (c *mapCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}
