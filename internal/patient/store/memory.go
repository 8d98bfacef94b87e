package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"prontuario/internal/patient/models"
	id "prontuario/pkg/domain"
	"prontuario/pkg/platform/sentinel"
)

// InMemory keeps the patient collection in a mutex-guarded map. It enforces
// the same global tax ID uniqueness and owner scoping as the Postgres store,
// which keeps unit tests honest about the store contract.
type InMemory struct {
	mu       sync.RWMutex
	patients map[id.PatientID]*models.Patient
}

func NewInMemory() *InMemory {
	return &InMemory{patients: make(map[id.PatientID]*models.Patient)}
}

func (s *InMemory) ListByOwner(_ context.Context, ownerID id.UserID) ([]*models.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Patient, 0)
	for _, p := range s.patients {
		if p.OwnerID == ownerID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RegisteredAt.Equal(out[j].RegisteredAt) {
			return out[i].RegisteredAt.After(out[j].RegisteredAt)
		}
		// Stable order for records registered in the same instant.
		return out[i].ID.String() > out[j].ID.String()
	})
	return out, nil
}

func (s *InMemory) Create(_ context.Context, patient *models.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.taxIDTakenLocked(patient.TaxID, patient.ID) {
		return sentinel.ErrConflict
	}
	cp := *patient
	s.patients[patient.ID] = &cp
	return nil
}

func (s *InMemory) Update(_ context.Context, ownerID id.UserID, patient *models.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.patients[patient.ID]
	if !ok || existing.OwnerID != ownerID {
		return sentinel.ErrNotFound
	}
	if s.taxIDTakenLocked(patient.TaxID, patient.ID) {
		return sentinel.ErrConflict
	}

	updated := *existing
	updated.ApplyUpdate(patient.AsPayload())
	s.patients[patient.ID] = &updated
	return nil
}

func (s *InMemory) Delete(_ context.Context, ownerID id.UserID, patientID id.PatientID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.patients[patientID]
	if !ok || existing.OwnerID != ownerID {
		return sentinel.ErrNotFound
	}
	delete(s.patients, patientID)
	return nil
}

// taxIDTakenLocked checks global uniqueness across all owners. Caller holds
// the write lock.
func (s *InMemory) taxIDTakenLocked(taxID string, self id.PatientID) bool {
	for _, p := range s.patients {
		if p.ID != self && strings.EqualFold(p.TaxID, taxID) {
			return true
		}
	}
	return false
}
