// Package registry implements the record list store: the single source of
// truth for one owner's visible patient collection and all of its mutation
// traffic.
//
// The registry deliberately avoids optimistic local updates. Every mutation's
// visible effect on the collection is deferred until the subsequent full
// reload succeeds, so the snapshot never shows a state the backing store has
// not confirmed. This trades latency for a simple "server is the only truth"
// invariant.
package registry

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"prontuario/internal/patient/metrics"
	"prontuario/internal/patient/models"
	"prontuario/internal/patient/store"
	id "prontuario/pkg/domain"
	dErrors "prontuario/pkg/domain-errors"
	"prontuario/pkg/platform/sentinel"
	"prontuario/pkg/requestcontext"
)

// Registry holds the in-memory collection of records for a single owner.
// Mutations go to the backing store and, on success, trigger a full reload;
// the previous snapshot is kept untouched whenever anything fails.
type Registry struct {
	ownerID id.UserID
	store   store.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer

	mu       sync.RWMutex
	snapshot []*models.Patient
	loaded   bool

	// Concurrent loads for the same owner collapse into one store query.
	// Overlapping mutations still race on which reload lands last; the last
	// completed load wins, which is the accepted behavior here.
	loads singleflight.Group
}

func New(ownerID id.UserID, st store.Store, logger *slog.Logger, m *metrics.Metrics) *Registry {
	return &Registry{
		ownerID: ownerID,
		store:   st,
		logger:  logger,
		metrics: m,
		tracer:  otel.Tracer("prontuario/internal/patient/registry"),
	}
}

// Load fetches the owner's full collection, ordered most recent first, and
// replaces the snapshot atomically. On failure the previous snapshot is left
// untouched and a normalized error is returned.
func (r *Registry) Load(ctx context.Context) error {
	_, err, _ := r.loads.Do("load", func() (any, error) {
		ctx, span := r.tracer.Start(ctx, "registry.load")
		defer span.End()

		start := time.Now()
		patients, err := r.store.ListByOwner(ctx, r.ownerID)
		if err != nil {
			return nil, normalizeStoreErr(err, "failed to load records")
		}
		r.metrics.ObserveLoad(start)

		r.mu.Lock()
		r.snapshot = patients
		r.loaded = true
		r.mu.Unlock()
		return nil, nil
	})
	return err
}

// EnsureLoaded performs the initial load once. The caller guarantees a session
// identity is present; the registry never loads for anonymous contexts.
func (r *Registry) EnsureLoaded(ctx context.Context) error {
	r.mu.RLock()
	loaded := r.loaded
	r.mu.RUnlock()
	if loaded {
		return nil
	}
	return r.Load(ctx)
}

// Create validates the payload, attaches the owner, inserts the record, and
// reloads the collection. The returned record is non-nil exactly when the
// insert committed; a failed reload afterwards is logged and counted, and the
// snapshot stays stale until the next Load.
func (r *Registry) Create(ctx context.Context, payload models.Payload) (*models.Patient, error) {
	ctx, span := r.tracer.Start(ctx, "registry.create")
	defer span.End()

	patient, err := models.NewPatient(payload, r.ownerID, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	if err := r.store.Create(ctx, patient); err != nil {
		return nil, normalizeStoreErr(err, "failed to create record")
	}
	r.metrics.IncrementCreated()

	r.reloadAfterMutation(ctx, "create")
	return patient, nil
}

// Update sends a full-field update keyed by payload.ID and reloads. The owner
// is not taken from the payload; the store scopes the update to this
// registry's owner, so a foreign ID comes back as not found.
func (r *Registry) Update(ctx context.Context, payload models.Payload) (*models.Patient, error) {
	ctx, span := r.tracer.Start(ctx, "registry.update")
	defer span.End()

	if payload.ID.IsZero() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "record ID is required for update")
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	patient := &models.Patient{
		ID:        payload.ID,
		FullName:  payload.FullName,
		BirthDate: payload.BirthDate,
		TaxID:     payload.TaxID,
		Phone:     payload.Phone,
		Address:   payload.Address,
		OwnerID:   r.ownerID,
	}
	if err := r.store.Update(ctx, r.ownerID, patient); err != nil {
		return nil, normalizeStoreErr(err, "failed to update record")
	}
	r.metrics.IncrementUpdated()

	r.reloadAfterMutation(ctx, "update")

	if updated, ok := r.Get(payload.ID); ok {
		return updated, nil
	}
	// Reload failed; the store accepted the update even though the snapshot
	// has not caught up yet.
	return patient, nil
}

// Delete removes the record and reloads. Deleting an ID that is absent (or
// owned by someone else) fails explicitly and never touches other records.
func (r *Registry) Delete(ctx context.Context, patientID id.PatientID) error {
	ctx, span := r.tracer.Start(ctx, "registry.delete")
	defer span.End()

	if patientID.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "record ID is required for delete")
	}
	if err := r.store.Delete(ctx, r.ownerID, patientID); err != nil {
		return normalizeStoreErr(err, "failed to delete record")
	}
	r.metrics.IncrementDeleted()

	r.reloadAfterMutation(ctx, "delete")
	return nil
}

// Filter returns the records whose full name contains term case-insensitively
// or whose tax ID contains term as a literal substring. An empty term returns
// the full snapshot in order. The snapshot itself is never mutated.
func (r *Registry) Filter(term string) []*models.Patient {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if term == "" {
		return append([]*models.Patient(nil), r.snapshot...)
	}

	lowered := strings.ToLower(term)
	out := make([]*models.Patient, 0)
	for _, p := range r.snapshot {
		if strings.Contains(strings.ToLower(p.FullName), lowered) ||
			strings.Contains(p.TaxID, term) {
			out = append(out, p)
		}
	}
	return out
}

// Get looks a record up in the current snapshot.
func (r *Registry) Get(patientID id.PatientID) (*models.Patient, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.snapshot {
		if p.ID == patientID {
			return p, true
		}
	}
	return nil, false
}

// reloadAfterMutation refreshes the snapshot after a committed mutation. A
// reload failure keeps the previous snapshot, is logged and counted, and the
// next EnsureLoaded caller keeps serving the stale view until a Load succeeds.
func (r *Registry) reloadAfterMutation(ctx context.Context, op string) {
	if err := r.Load(ctx); err != nil {
		r.metrics.IncrementReloadFailure()
		if r.logger != nil {
			r.logger.ErrorContext(ctx, "reload after mutation failed",
				"operation", op,
				"owner_id", r.ownerID.String(),
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
	}
}

// normalizeStoreErr converts store sentinels into the fixed error-kind
// enumeration surfaced to callers.
func normalizeStoreErr(err error, message string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "record not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "a record with this tax ID already exists")
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, message)
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, message)
	}
}
