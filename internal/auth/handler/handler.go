// Package handler exposes the auth endpoints. Sign-up and sign-in are public;
// sign-out lives behind the auth middleware.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"prontuario/internal/auth/service"
	dErrors "prontuario/pkg/domain-errors"
	"prontuario/pkg/platform/httputil"
	"prontuario/pkg/requestcontext"
)

// Service defines the auth operations the handler needs.
type Service interface {
	SignUp(ctx context.Context, email, password, displayName string) (*service.AuthResult, error)
	SignIn(ctx context.Context, email, password string) (*service.AuthResult, error)
	SignOut(ctx context.Context) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register mounts the public auth routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/signup", h.handleSignUp)
	r.Post("/auth/signin", h.handleSignIn)
}

// RegisterProtected mounts the routes that require an authenticated session.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Post("/auth/signout", h.handleSignOut)
}

func (h *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.Decode[credentialsRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.SignUp(ctx, req.Email, req.Password, req.DisplayName)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeValidation) || dErrors.Is(err, dErrors.CodeConflict) {
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "sign-up failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, fromAuthResult(result))
}

func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.Decode[credentialsRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeUnauthorized) {
			h.logger.WarnContext(ctx, "sign-in rejected",
				"request_id", requestID,
			)
		} else {
			h.logger.ErrorContext(ctx, "sign-in failed",
				"request_id", requestID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, fromAuthResult(result))
}

func (h *Handler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.service.SignOut(ctx); err != nil {
		h.logger.WarnContext(ctx, "sign-out failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
