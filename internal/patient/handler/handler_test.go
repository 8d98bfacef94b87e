package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"prontuario/internal/patient/registry"
	"prontuario/internal/patient/store"
	id "prontuario/pkg/domain"
	"prontuario/pkg/requestcontext"
	"prontuario/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite

	ownerID id.UserID
	server  *httptest.Server
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.ownerID = id.NewUserID()

	manager := registry.NewManager(store.NewInMemory(), logger, nil)
	h := New(manager, logger)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := requestcontext.WithUserID(req.Context(), s.ownerID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	h.Register(r)
	s.server = httptest.NewServer(r)
}

func (s *HandlerSuite) TearDownTest() {
	s.server.Close()
}

func (s *HandlerSuite) do(method, path string, body any) *http.Response {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.server.URL+path, &buf)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *HandlerSuite) decode(resp *http.Response, v any) {
	defer resp.Body.Close()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(v))
}

func validBody(taxID string) map[string]string {
	return map[string]string{
		"full_name":  "Ana Costa",
		"birth_date": "1985-03-02",
		"tax_id":     taxID,
		"phone":      "11987654321",
		"address":    "Av. Paulista, 1000",
	}
}

func (s *HandlerSuite) createPatient(taxID string) patientResponse {
	resp := s.do(http.MethodPost, "/patients", validBody(taxID))
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var created patientResponse
	s.decode(resp, &created)
	return created
}

func (s *HandlerSuite) TestCreateAndList() {
	created := s.createPatient("11122233344")
	s.Equal("111.222.333-44", created.TaxID, "raw digits come back formatted")
	s.Equal("(11) 98765-4321", created.Phone)
	s.NotEmpty(created.ID)
	s.NotEmpty(created.RegisteredAt)

	resp := s.do(http.MethodGet, "/patients", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var list listResponse
	s.decode(resp, &list)
	s.Equal(1, list.Count)
	s.Equal(created.ID, list.Patients[0].ID)
}

func (s *HandlerSuite) TestCreateValidationFailure() {
	body := validBody("11122233344")
	body["full_name"] = ""

	resp := s.do(http.MethodPost, "/patients", body)
	s.Require().Equal(http.StatusBadRequest, resp.StatusCode)
	var envelope map[string]string
	s.decode(resp, &envelope)
	s.Equal("validation", envelope["error"])
	s.Contains(envelope["error_description"], "full name")

	list := s.list("")
	s.Equal(0, list.Count, "nothing is created on validation failure")
}

func (s *HandlerSuite) TestCreateDuplicateTaxID() {
	s.createPatient("11122233344")

	resp := s.do(http.MethodPost, "/patients", validBody("111.222.333-44"))
	s.Require().Equal(http.StatusConflict, resp.StatusCode)
	var envelope map[string]string
	s.decode(resp, &envelope)
	s.Equal("conflict", envelope["error"])
}

func (s *HandlerSuite) TestListFilter() {
	s.createPatient("11122233344")
	second := s.do(http.MethodPost, "/patients", map[string]string{
		"full_name":  "Bruno Dias",
		"birth_date": "1978-11-23",
		"tax_id":     "55566677788",
	})
	s.Require().Equal(http.StatusCreated, second.StatusCode)
	second.Body.Close()

	s.Equal(1, s.list("?q=ana").Count, "name match is case-insensitive")
	s.Equal(1, s.list("?q=555.666").Count, "tax id match is literal")
	s.Equal(0, s.list("?q=55566").Count, "bare digits do not match the formatted tax id")
	s.Equal(2, s.list("?q=").Count)
}

func (s *HandlerSuite) list(query string) listResponse {
	resp := s.do(http.MethodGet, "/patients"+query, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var list listResponse
	s.decode(resp, &list)
	return list
}

func (s *HandlerSuite) TestUpdate() {
	created := s.createPatient("11122233344")

	body := validBody("111.222.333-44")
	body["full_name"] = "Ana Costa Silva"
	resp := s.do(http.MethodPut, "/patients/"+created.ID, body)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var updated patientResponse
	s.decode(resp, &updated)

	s.Equal("Ana Costa Silva", updated.FullName)
	s.Equal(created.ID, updated.ID)
	s.Equal(created.RegisteredAt, updated.RegisteredAt, "registration timestamp is immutable")
}

func (s *HandlerSuite) TestUpdateUnknownID() {
	resp := s.do(http.MethodPut, "/patients/"+id.NewPatientID().String(), validBody("11122233344"))
	s.Require().Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func (s *HandlerSuite) TestUpdateInvalidID() {
	resp := s.do(http.MethodPut, "/patients/not-a-uuid", validBody("11122233344"))
	s.Require().Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func (s *HandlerSuite) TestDeleteFlow() {
	created := s.createPatient("11122233344")

	resp := s.do(http.MethodPost, fmt.Sprintf("/patients/%s/delete", created.ID), nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var pending pendingDeleteResponse
	s.decode(resp, &pending)
	s.Equal("pending", pending.Status)
	s.Equal(created.ID, pending.Patient.ID)

	// The record is still listed while the confirmation is pending.
	s.Equal(1, s.list("").Count)

	resp = s.do(http.MethodPost, fmt.Sprintf("/patients/%s/delete/confirm", created.ID), nil)
	s.Require().Equal(http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	s.Equal(0, s.list("").Count)
}

func (s *HandlerSuite) TestDeleteCancel() {
	created := s.createPatient("11122233344")

	resp := s.do(http.MethodPost, fmt.Sprintf("/patients/%s/delete", created.ID), nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(http.MethodPost, fmt.Sprintf("/patients/%s/delete/cancel", created.ID), nil)
	s.Require().Equal(http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	s.Equal(1, s.list("").Count, "cancel leaves the record untouched")

	// After cancelling there is nothing left to confirm.
	resp = s.do(http.MethodPost, fmt.Sprintf("/patients/%s/delete/confirm", created.ID), nil)
	s.Require().Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func (s *HandlerSuite) TestConfirmRequiresMatchingRecord() {
	first := s.createPatient("11122233344")
	second := s.createPatient("55566677788")

	resp := s.do(http.MethodPost, fmt.Sprintf("/patients/%s/delete", first.ID), nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(http.MethodPost, fmt.Sprintf("/patients/%s/delete/confirm", second.ID), nil)
	s.Require().Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Staging a second deletion while one is pending is rejected.
	resp = s.do(http.MethodPost, fmt.Sprintf("/patients/%s/delete", second.ID), nil)
	s.Require().Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	s.Equal(2, s.list("").Count)
}

func TestRoutesRequireAuthenticatedContext(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := registry.NewManager(store.NewInMemory(), logger, nil)
	h := New(manager, logger)

	r := chi.NewRouter()
	h.Register(r)

	req := testutil.NewJSONRequest(t, http.MethodGet, "/patients", nil)
	rr := testutil.DoRequest(r, req)
	testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")

	// The same request with an identity in context goes through.
	req = testutil.NewJSONRequest(t, http.MethodGet, "/patients", nil)
	req = testutil.WithAuth(req, id.NewUserID(), id.NewSessionID())
	rr = testutil.DoRequest(r, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, rr.Code)
	}
}
