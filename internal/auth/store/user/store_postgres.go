package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"prontuario/internal/auth/models"
	id "prontuario/pkg/domain"
	"prontuario/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// Postgres persists accounts in the usuarios table.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) Create(ctx context.Context, user *models.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO usuarios (id, email, display_name, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		user.ID.String(), user.Email, user.DisplayName, user.PasswordHash, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Postgres) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, `
		SELECT id::text, email, display_name, password_hash, created_at
		FROM usuarios
		WHERE lower(email) = lower($1)`, email)
}

func (s *Postgres) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	return s.findOne(ctx, `
		SELECT id::text, email, display_name, password_hash, created_at
		FROM usuarios
		WHERE id = $1`, userID.String())
}

func (s *Postgres) findOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User
	var userID string
	err := s.pool.QueryRow(ctx, query, arg).
		Scan(&userID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u.ID, err = id.ParseUserID(userID); err != nil {
		return nil, fmt.Errorf("scan user id: %w", err)
	}
	return &u, nil
}
