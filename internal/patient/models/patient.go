package models

import (
	"time"

	"prontuario/internal/patient/fields"
	id "prontuario/pkg/domain"
	dErrors "prontuario/pkg/domain-errors"
)

// Patient is the aggregate root for one registry record.
//
// Invariants:
//   - FullName is non-empty and at most 255 characters
//   - BirthDate is set; no range validation is applied
//   - TaxID is in canonical 000.000.000-00 form and globally unique
//     (uniqueness is enforced by the store, not here)
//   - Phone, when present, is in canonical (00) 00000-0000 or (00) 0000-0000 form
//   - Address is at most 1000 characters
//   - ID and RegisteredAt are assigned at creation and immutable
//   - OwnerID is fixed at creation; every store operation is scoped to it
type Patient struct {
	ID           id.PatientID `json:"id"`
	FullName     string       `json:"full_name"`
	BirthDate    time.Time    `json:"birth_date"`
	TaxID        string       `json:"tax_id"`
	Phone        string       `json:"phone,omitempty"`
	Address      string       `json:"address,omitempty"`
	RegisteredAt time.Time    `json:"registered_at"`
	OwnerID      id.UserID    `json:"-"`
}

// Payload is a validated full-field record emitted by the form controller.
// ID is zero in create mode and carries the original record's ID in edit mode.
type Payload struct {
	ID        id.PatientID
	FullName  string
	BirthDate time.Time
	TaxID     string
	Phone     string
	Address   string
}

// Validate re-checks the schema rules on a payload. The form controller
// validates before emitting; this guards the service boundary against callers
// that bypass the form.
func (p Payload) Validate() error {
	if err := fields.ValidateFullName(p.FullName); err != nil {
		return err
	}
	if p.BirthDate.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "birth date is required")
	}
	if err := fields.ValidateTaxID(p.TaxID); err != nil {
		return err
	}
	if err := fields.ValidatePhone(p.Phone); err != nil {
		return err
	}
	return fields.ValidateAddress(p.Address)
}

// NewPatient builds a record from a validated payload, assigning identity,
// owner, and registration time. The payload's ID is ignored; creation never
// accepts a client-chosen ID.
func NewPatient(payload Payload, ownerID id.UserID, now time.Time) (*Patient, error) {
	if ownerID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "patient must have an owner")
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return &Patient{
		ID:           id.NewPatientID(),
		FullName:     payload.FullName,
		BirthDate:    payload.BirthDate,
		TaxID:        payload.TaxID,
		Phone:        payload.Phone,
		Address:      payload.Address,
		RegisteredAt: now,
		OwnerID:      ownerID,
	}, nil
}

// ApplyUpdate replaces every client-settable field from the payload.
// ID, RegisteredAt, and OwnerID are never touched.
func (p *Patient) ApplyUpdate(payload Payload) {
	p.FullName = payload.FullName
	p.BirthDate = payload.BirthDate
	p.TaxID = payload.TaxID
	p.Phone = payload.Phone
	p.Address = payload.Address
}

// AsPayload projects the record back into form values for edit mode.
func (p *Patient) AsPayload() Payload {
	return Payload{
		ID:        p.ID,
		FullName:  p.FullName,
		BirthDate: p.BirthDate,
		TaxID:     p.TaxID,
		Phone:     p.Phone,
		Address:   p.Address,
	}
}
