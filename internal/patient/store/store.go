// Package store is the remote-store boundary for patient records. Every
// operation is scoped to the owning identity; callers never see rows that
// belong to another owner. Implementations report infrastructure facts through
// pkg/platform/sentinel so services can normalize them into coded errors.
package store

import (
	"context"

	"prontuario/internal/patient/models"
	id "prontuario/pkg/domain"
)

// Store abstracts the backing relational store for one logical collection of
// patient records.
type Store interface {
	// ListByOwner returns every record owned by ownerID, ordered by
	// RegisteredAt descending (most recent first).
	ListByOwner(ctx context.Context, ownerID id.UserID) ([]*models.Patient, error)

	// Create inserts a new record. A tax ID already present anywhere in the
	// collection (any owner) fails with sentinel.ErrConflict.
	Create(ctx context.Context, patient *models.Patient) error

	// Update replaces the full client-settable field set of the record with
	// patient.ID, scoped to ownerID. Missing or foreign rows fail with
	// sentinel.ErrNotFound; a tax ID collision fails with sentinel.ErrConflict.
	Update(ctx context.Context, ownerID id.UserID, patient *models.Patient) error

	// Delete removes the record with patientID, scoped to ownerID. Missing or
	// foreign rows fail with sentinel.ErrNotFound.
	Delete(ctx context.Context, ownerID id.UserID, patientID id.PatientID) error
}
