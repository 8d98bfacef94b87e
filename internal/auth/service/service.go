// Package service implements sign-up, sign-in, and sign-out on top of the
// user and session stores.
package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"prontuario/internal/auth/device"
	"prontuario/internal/auth/models"
	"prontuario/internal/auth/store"
	"prontuario/internal/jwttoken"
	"prontuario/internal/platform/metrics"
	id "prontuario/pkg/domain"
	dErrors "prontuario/pkg/domain-errors"
	emailutil "prontuario/pkg/email"
	"prontuario/pkg/platform/sentinel"
	"prontuario/pkg/requestcontext"
	"prontuario/pkg/secrets"
)

const minPasswordLength = 8

// Service handles account and session lifecycle.
type Service struct {
	users    store.UserStore
	sessions store.SessionStore
	tokens   *jwttoken.Service
	logger   *slog.Logger
	metrics  *metrics.Metrics

	accessTokenTTL time.Duration
	sessionTTL     time.Duration
}

func New(
	users store.UserStore,
	sessions store.SessionStore,
	tokens *jwttoken.Service,
	logger *slog.Logger,
	m *metrics.Metrics,
	accessTokenTTL time.Duration,
	sessionTTL time.Duration,
) *Service {
	return &Service{
		users:          users,
		sessions:       sessions,
		tokens:         tokens,
		logger:         logger,
		metrics:        m,
		accessTokenTTL: accessTokenTTL,
		sessionTTL:     sessionTTL,
	}
}

// AuthResult is what both sign-up and sign-in hand back to the transport.
type AuthResult struct {
	User        *models.User
	Session     *models.Session
	AccessToken string
	ExpiresIn   time.Duration
}

// SignUp creates an account and signs it in.
func (s *Service) SignUp(ctx context.Context, email, password, displayName string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "a valid email is required")
	}
	if len(password) < minPasswordLength {
		return nil, dErrors.New(dErrors.CodeValidation, "password must be at least 8 characters")
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = emailutil.DeriveDisplayName(email)
	}

	hash, err := secrets.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           id.NewUserID(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "email already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not create user")
	}
	s.metrics.IncrementUsersCreated()
	s.logger.InfoContext(ctx, "user created",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", user.ID,
	)

	return s.startSession(ctx, user)
}

// SignIn verifies credentials and opens a session.
func (s *Service) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not look up user")
	}
	if err := secrets.Verify(password, user.PasswordHash); err != nil {
		return nil, err
	}

	return s.startSession(ctx, user)
}

// SignOut revokes the current session. Tokens carrying its ID stop
// authenticating immediately even though they are unexpired.
func (s *Service) SignOut(ctx context.Context) error {
	sessionID := requestcontext.SessionID(ctx)
	if sessionID.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "no active session")
	}
	if err := s.sessions.Revoke(ctx, sessionID, requestcontext.Now(ctx)); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeUnauthorized, "no active session")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not revoke session")
	}
	s.logger.InfoContext(ctx, "session revoked",
		"request_id", requestcontext.RequestID(ctx),
		"session_id", sessionID,
	)
	return nil
}

// IsSessionActive reports whether the session exists, is unrevoked, and is
// unexpired. Used by the auth middleware on every request.
func (s *Service) IsSessionActive(ctx context.Context, sessionID id.SessionID) (bool, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, nil
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "could not look up session")
	}
	return session.Active(requestcontext.Now(ctx)), nil
}

func (s *Service) startSession(ctx context.Context, user *models.User) (*AuthResult, error) {
	now := requestcontext.Now(ctx)
	session := &models.Session{
		ID:        id.NewSessionID(),
		UserID:    user.ID,
		Device:    device.ParseUserAgent(requestcontext.UserAgent(ctx)),
		IPAddress: requestcontext.ClientIP(ctx),
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not create session")
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, session.ID, s.accessTokenTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not issue access token")
	}

	s.logger.InfoContext(ctx, "session started",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", user.ID,
		"session_id", session.ID,
		"device", session.Device,
	)
	return &AuthResult{
		User:        user,
		Session:     session,
		AccessToken: token,
		ExpiresIn:   s.accessTokenTTL,
	}, nil
}
