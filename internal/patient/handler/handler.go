// Package handler wires the patient endpoints to the per-owner registry, the
// form controller, and the delete confirmation gate.
package handler

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"prontuario/internal/patient/form"
	"prontuario/internal/patient/gate"
	"prontuario/internal/patient/models"
	"prontuario/internal/patient/registry"
	id "prontuario/pkg/domain"
	dErrors "prontuario/pkg/domain-errors"
	"prontuario/pkg/platform/httputil"
	"prontuario/pkg/requestcontext"
)

// Handler serves the patient CRUD routes. Each authenticated owner gets one
// registry and one confirmation gate, both created lazily.
type Handler struct {
	registries *registry.Manager
	logger     *slog.Logger

	mu    sync.Mutex
	gates map[id.UserID]*gate.Gate
}

func New(registries *registry.Manager, logger *slog.Logger) *Handler {
	return &Handler{
		registries: registries,
		logger:     logger,
		gates:      make(map[id.UserID]*gate.Gate),
	}
}

// Register mounts the patient routes. The caller is expected to place this
// group behind the auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.Get("/patients", h.handleList)
	r.Post("/patients", h.handleCreate)
	r.Put("/patients/{id}", h.handleUpdate)
	r.Post("/patients/{id}/delete", h.handleStageDelete)
	r.Post("/patients/{id}/delete/confirm", h.handleConfirmDelete)
	r.Post("/patients/{id}/delete/cancel", h.handleCancelDelete)
}

func (h *Handler) gateFor(ownerID id.UserID) *gate.Gate {
	h.mu.Lock()
	defer h.mu.Unlock()
	if g, ok := h.gates[ownerID]; ok {
		return g
	}
	g := gate.New(h.registries.ForOwner(ownerID))
	h.gates[ownerID] = g
	return g
}

// owner extracts the authenticated user, writing an error response when the
// auth middleware did not run.
func (h *Handler) owner(w http.ResponseWriter, r *http.Request) (id.UserID, bool) {
	ownerID := requestcontext.UserID(r.Context())
	if ownerID.IsZero() {
		h.logger.ErrorContext(r.Context(), "user missing from context despite auth middleware",
			"request_id", requestcontext.RequestID(r.Context()),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.UserID{}, false
	}
	return ownerID, true
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	reg := h.registries.ForOwner(ownerID)
	if err := reg.EnsureLoaded(ctx); err != nil {
		h.logger.ErrorContext(ctx, "failed to load patient list",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", ownerID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	term := r.URL.Query().Get("q")
	httputil.WriteJSON(w, http.StatusOK, fromPatients(reg.Filter(term)))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[patientRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	controller := form.NewCreate()
	req.fill(controller)
	payload, err := controller.Submit()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	created, err := h.registries.ForOwner(ownerID).Create(ctx, payload)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create patient",
			"request_id", requestID,
			"user_id", ownerID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	controller.Ack()

	h.logger.InfoContext(ctx, "patient created",
		"request_id", requestID,
		"user_id", ownerID,
		"patient_id", created.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, fromPatient(created))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	patientID, existing, ok := h.lookup(w, r, ownerID)
	if !ok {
		return
	}
	req, ok := httputil.Decode[patientRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	controller := form.NewEdit(existing)
	req.fill(controller)
	payload, err := controller.Submit()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	updated, err := h.registries.ForOwner(ownerID).Update(ctx, payload)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to update patient",
			"request_id", requestID,
			"user_id", ownerID,
			"patient_id", patientID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	controller.Ack()

	h.logger.InfoContext(ctx, "patient updated",
		"request_id", requestID,
		"user_id", ownerID,
		"patient_id", patientID,
	)
	httputil.WriteJSON(w, http.StatusOK, fromPatient(updated))
}

func (h *Handler) handleStageDelete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	_, existing, ok := h.lookup(w, r, ownerID)
	if !ok {
		return
	}

	if err := h.gateFor(ownerID).Stage(existing); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pendingDeleteResponse{
		Status:  "pending",
		Patient: fromPatient(existing),
	})
}

func (h *Handler) handleConfirmDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	g := h.gateFor(ownerID)
	patientID, ok := h.stagedMatch(w, r, g)
	if !ok {
		return
	}

	if err := g.Confirm(ctx); err != nil {
		h.logger.ErrorContext(ctx, "failed to delete patient",
			"request_id", requestID,
			"user_id", ownerID,
			"patient_id", patientID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "patient deleted",
		"request_id", requestID,
		"user_id", ownerID,
		"patient_id", patientID,
	)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCancelDelete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	g := h.gateFor(ownerID)
	if _, ok := h.stagedMatch(w, r, g); !ok {
		return
	}
	g.Cancel()
	w.WriteHeader(http.StatusNoContent)
}

// lookup resolves the {id} path parameter against the owner's loaded
// snapshot.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request, ownerID id.UserID) (id.PatientID, *models.Patient, bool) {
	patientID, err := id.ParsePatientID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid patient id"))
		return id.PatientID{}, nil, false
	}

	reg := h.registries.ForOwner(ownerID)
	if err := reg.EnsureLoaded(r.Context()); err != nil {
		httputil.WriteError(w, err)
		return id.PatientID{}, nil, false
	}
	existing, found := reg.Get(patientID)
	if !found {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "record not found"))
		return id.PatientID{}, nil, false
	}
	return patientID, existing, true
}

// stagedMatch checks the {id} path parameter against the gate's staged
// record, so a confirm or cancel can never act on a different deletion than
// the one the client staged.
func (h *Handler) stagedMatch(w http.ResponseWriter, r *http.Request, g *gate.Gate) (id.PatientID, bool) {
	patientID, err := id.ParsePatientID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid patient id"))
		return id.PatientID{}, false
	}
	staged := g.Staged()
	if staged == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvariantViolation, "no deletion awaiting confirmation"))
		return id.PatientID{}, false
	}
	if staged.ID != patientID {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "a different record is awaiting confirmation"))
		return id.PatientID{}, false
	}
	return patientID, true
}
