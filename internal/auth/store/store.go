// Package store defines the persistence boundaries of the auth vertical.
// Implementations return sentinel errors; the service translates them into
// coded domain errors.
package store

import (
	"context"
	"time"

	"prontuario/internal/auth/models"
	id "prontuario/pkg/domain"
)

// UserStore persists accounts. Email is unique case-insensitively.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
}

// SessionStore persists sign-in sessions with their expiry.
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	FindByID(ctx context.Context, sessionID id.SessionID) (*models.Session, error)
	Revoke(ctx context.Context, sessionID id.SessionID, at time.Time) error
}
