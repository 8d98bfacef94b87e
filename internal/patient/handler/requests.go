package handler

import (
	"prontuario/internal/patient/form"
)

// patientRequest carries the form fields for create and update. Dates travel
// as YYYY-MM-DD strings; formatting and validation happen in the form
// controller, not here.
type patientRequest struct {
	FullName  string `json:"full_name"`
	BirthDate string `json:"birth_date"`
	TaxID     string `json:"tax_id"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// fill pushes the raw inputs through the controller so the structured fields
// pick up their canonical formatting before submission.
func (req patientRequest) fill(c *form.Controller) {
	c.SetField(form.FieldFullName, req.FullName)
	c.SetField(form.FieldBirthDate, req.BirthDate)
	c.SetField(form.FieldTaxID, req.TaxID)
	c.SetField(form.FieldPhone, req.Phone)
	c.SetField(form.FieldAddress, req.Address)
}
