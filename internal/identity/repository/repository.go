package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type User struct {
	ID          uuid.UUID
	Role        string
	DisplayName string
	Email       string
	Phone       *string
	CreatedAt   time.Time
}

// UserReader is the read side used by the identity service.
type UserReader interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (User, error)
	ListUsersByRole(ctx context.Context, role string) ([]User, error)
}

func (r *Repository) GetUserByID(ctx context.Context, userID uuid.UUID) (User, error) {
	var u User
	err := r.pool.QueryRow(ctx, `
    SELECT id, role, display_name, email, phone, created_at
    FROM users
    WHERE id = $1
  `, userID).Scan(&u.ID, &u.Role, &u.DisplayName, &u.Email, &u.Phone, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *Repository) ListUsersByRole(ctx context.Context, role string) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
    SELECT id, role, display_name, email, phone, created_at
    FROM users
    WHERE role = $1
    ORDER BY display_name
  `, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Role, &u.DisplayName, &u.Email, &u.Phone, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

var _ UserReader = (*Repository)(nil)
