package handler

import (
	"prontuario/internal/patient/fields"
	"prontuario/internal/patient/models"
)

// patientResponse is the wire shape of one record. The owner is scoped by the
// session and never exposed.
type patientResponse struct {
	ID           string `json:"id"`
	FullName     string `json:"full_name"`
	BirthDate    string `json:"birth_date"`
	TaxID        string `json:"tax_id"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
	RegisteredAt string `json:"registered_at"`
}

type listResponse struct {
	Patients []patientResponse `json:"patients"`
	Count    int               `json:"count"`
}

type pendingDeleteResponse struct {
	Status  string          `json:"status"`
	Patient patientResponse `json:"patient"`
}

func fromPatient(p *models.Patient) patientResponse {
	return patientResponse{
		ID:           p.ID.String(),
		FullName:     p.FullName,
		BirthDate:    p.BirthDate.Format(fields.DateLayout),
		TaxID:        p.TaxID,
		Phone:        p.Phone,
		Address:      p.Address,
		RegisteredAt: p.RegisteredAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func fromPatients(list []*models.Patient) listResponse {
	out := make([]patientResponse, 0, len(list))
	for _, p := range list {
		out = append(out, fromPatient(p))
	}
	return listResponse{Patients: out, Count: len(out)}
}
