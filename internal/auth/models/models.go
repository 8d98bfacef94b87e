// Package models holds the auth vertical's domain types. Wire shapes live in
// the handler package; these structs are what the stores persist.
package models

import (
	"time"

	id "prontuario/pkg/domain"
)

// User is an account that owns patient records.
type User struct {
	ID           id.UserID
	Email        string
	DisplayName  string
	PasswordHash string
	CreatedAt    time.Time
}

// Session is one sign-in. Tokens reference a session so sign-out can
// invalidate them before they expire.
type Session struct {
	ID        id.SessionID
	UserID    id.UserID
	Device    string
	IPAddress string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// Active reports whether the session can still authenticate requests.
func (s *Session) Active(now time.Time) bool {
	if s.RevokedAt != nil {
		return false
	}
	return now.Before(s.ExpiresAt)
}
