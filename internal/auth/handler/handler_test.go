package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"prontuario/internal/auth/service"
	"prontuario/internal/auth/store/session"
	"prontuario/internal/auth/store/user"
	"prontuario/internal/jwttoken"
	"prontuario/internal/platform/middleware"
	"prontuario/pkg/testutil"
)

const chromeUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type AuthHandlerSuite struct {
	suite.Suite
	router chi.Router
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerSuite))
}

func (s *AuthHandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := jwttoken.NewService("test-signing-key", "test-issuer", "test-audience")
	svc := service.New(
		user.NewInMemory(),
		session.NewInMemory(),
		tokens,
		logger,
		nil,
		time.Hour,
		24*time.Hour,
	)
	h := New(svc, logger)

	r := chi.NewRouter()
	r.Use(middleware.ClientMetadata)
	h.Register(r)
	r.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth(jwttoken.NewAdapter(tokens), svc, logger))
		h.RegisterProtected(protected)
		protected.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})
	s.router = r
}

func signUpBody() map[string]string {
	return map[string]string{
		"email":        "medico@example.com",
		"password":     "correct-horse",
		"display_name": "Dr. Teste",
	}
}

func (s *AuthHandlerSuite) signUp() authResponse {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/signup", signUpBody())
	req.Header.Set("User-Agent", chromeUA)
	rr := testutil.DoRequest(s.router, req)
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	return *testutil.UnmarshalResponse[authResponse](s.T(), rr)
}

func (s *AuthHandlerSuite) TestSignUp() {
	resp := s.signUp()

	s.NotEmpty(resp.AccessToken)
	s.Equal("Bearer", resp.TokenType)
	s.Equal(int64(3600), resp.ExpiresIn)
	s.Equal("medico@example.com", resp.User.Email)
	s.Contains(resp.Session.Device, "Chrome")
}

func (s *AuthHandlerSuite) TestSignUpDuplicate() {
	s.signUp()

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/signup", signUpBody())
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
}

func (s *AuthHandlerSuite) TestSignUpValidation() {
	body := signUpBody()
	body["password"] = "short"

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/signup", body)
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation")
}

func (s *AuthHandlerSuite) TestSignUpMalformedBody() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/signup", nil)
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
}

func (s *AuthHandlerSuite) TestSignInAndAccessProtectedRoute() {
	s.signUp()

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/signin", map[string]string{
		"email":    "medico@example.com",
		"password": "correct-horse",
	})
	rr := testutil.DoRequest(s.router, req)
	s.Require().Equal(http.StatusOK, rr.Code)
	resp := testutil.UnmarshalResponse[authResponse](s.T(), rr)

	probe := testutil.NewJSONRequest(s.T(), http.MethodGet, "/whoami", nil)
	probe.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	rr = testutil.DoRequest(s.router, probe)
	s.Equal(http.StatusOK, rr.Code)
}

func (s *AuthHandlerSuite) TestSignInWrongPassword() {
	s.signUp()

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/signin", map[string]string{
		"email":    "medico@example.com",
		"password": "wrong-password",
	})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
}

func (s *AuthHandlerSuite) TestProtectedRouteWithoutToken() {
	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/whoami", nil)
	rr := testutil.DoRequest(s.router, req)
	s.Equal(http.StatusUnauthorized, rr.Code)
}

func (s *AuthHandlerSuite) TestSignOutInvalidatesToken() {
	resp := s.signUp()

	signOut := testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/signout", nil)
	signOut.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	rr := testutil.DoRequest(s.router, signOut)
	s.Require().Equal(http.StatusNoContent, rr.Code)

	// The token itself is unexpired, but its session is gone.
	probe := testutil.NewJSONRequest(s.T(), http.MethodGet, "/whoami", nil)
	probe.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	rr = testutil.DoRequest(s.router, probe)
	s.Equal(http.StatusUnauthorized, rr.Code)
}
