package testutil

import (
	"net/http"

	id "prontuario/pkg/domain"
	"prontuario/pkg/requestcontext"
)

// WithAuth injects a user and session into the request context, simulating
// what the auth middleware does for authenticated requests.
func WithAuth(req *http.Request, userID id.UserID, sessionID id.SessionID) *http.Request {
	ctx := req.Context()
	if !userID.IsZero() {
		ctx = requestcontext.WithUserID(ctx, userID)
	}
	if !sessionID.IsZero() {
		ctx = requestcontext.WithSessionID(ctx, sessionID)
	}
	return req.WithContext(ctx)
}
