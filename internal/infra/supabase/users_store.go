package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cardwise/cardwise-go/internal/domain"
	"github.com/google/uuid"
)

// ============================================================
// UserStore — account CRUD via PostgREST
// ============================================================

// userRow carries the password hash, which never leaves this package
// except through GetUserByEmail's dedicated return value.
type userRow struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"password_hash"`
	CreatedAt    string `json:"created_at"`
}

func (r *userRow) toDomain() *domain.User {
	created, _ := time.Parse(time.RFC3339, r.CreatedAt)
	return &domain.User{
		ID:        r.ID,
		Email:     r.Email,
		Name:      r.Name,
		CreatedAt: created,
	}
}

func (c *Client) CreateUser(ctx context.Context, user *domain.User, passwordHash string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateUser")
	defer span.End()

	id := user.ID
	if id == "" {
		id = uuid.NewString()
	}
	row := map[string]any{
		"id":            id,
		"email":         user.Email,
		"name":          user.Name,
		"password_hash": passwordHash,
		"created_at":    time.Now().UTC().Format(time.RFC3339),
	}

	body, err := c.doPost(ctx, "users", row)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/users", Err: err}
	}

	var rows []userRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no result from users insert")
	}
	return rows[0].toDomain(), nil
}

// GetUserByEmail returns the user and their password hash. A missing
// user returns (nil, "", nil); the caller decides whether that is an
// auth failure.
func (c *Client) GetUserByEmail(ctx context.Context, email string) (*domain.User, string, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetUserByEmail")
	defer span.End()

	path := fmt.Sprintf("users?email=eq.%s&limit=1", url.QueryEscape(email))
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, "", &domain.ErrExternalService{Service: "supabase/users", Err: err}
	}
	if body == nil || string(body) == "[]" {
		return nil, "", nil
	}

	var rows []userRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, "", fmt.Errorf("decode users: %w", err)
	}
	if len(rows) == 0 {
		return nil, "", nil
	}
	return rows[0].toDomain(), rows[0].PasswordHash, nil
}

func (c *Client) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetUserByID")
	defer span.End()

	path := fmt.Sprintf("users?id=eq.%s&limit=1", userID)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/users", Err: err}
	}
	if body == nil || string(body) == "[]" {
		return nil, &domain.ErrNotFound{Resource: "user", ID: userID}
	}

	var rows []userRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "user", ID: userID}
	}
	return rows[0].toDomain(), nil
}
