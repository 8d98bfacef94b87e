// Package form implements the record form controller. A Controller owns one
// form's working values, independent of whether the end action is create or
// update, and emits a validated payload without talking to any store itself.
package form

import (
	"time"

	"prontuario/internal/patient/fields"
	"prontuario/internal/patient/models"
	id "prontuario/pkg/domain"
	dErrors "prontuario/pkg/domain-errors"
)

// Mode distinguishes a blank creation form from an edit of an existing record.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// Field names the form's inputs.
type Field string

const (
	FieldFullName  Field = "full_name"
	FieldBirthDate Field = "birth_date"
	FieldTaxID     Field = "tax_id"
	FieldPhone     Field = "phone"
	FieldAddress   Field = "address"
)

// Controller holds one form's state. It is not safe for concurrent use; each
// form interaction owns its controller.
type Controller struct {
	mode       Mode
	originalID id.PatientID
	open       bool
	values     map[Field]string
}

// NewCreate opens an empty creation form.
func NewCreate() *Controller {
	return &Controller{
		mode:   ModeCreate,
		open:   true,
		values: emptyValues(),
	}
}

// NewEdit opens a form pre-populated from the record's current values.
// Optional fields default to the empty string, never to an absent value, so
// every input stays a controlled field.
func NewEdit(p *models.Patient) *Controller {
	return &Controller{
		mode:       ModeEdit,
		originalID: p.ID,
		open:       true,
		values: map[Field]string{
			FieldFullName:  p.FullName,
			FieldBirthDate: p.BirthDate.Format(fields.DateLayout),
			FieldTaxID:     p.TaxID,
			FieldPhone:     p.Phone,
			FieldAddress:   p.Address,
		},
	}
}

// Mode reports whether the controller was opened for create or edit.
func (c *Controller) Mode() Mode { return c.mode }

// IsOpen reports whether the form is accepting input.
func (c *Controller) IsOpen() bool { return c.open }

// SetField stores a field's raw input, applying the canonical formatter for
// the structured fields, and returns the stored display value.
func (c *Controller) SetField(field Field, raw string) string {
	if !c.open {
		return ""
	}
	var value string
	switch field {
	case FieldTaxID:
		value = fields.FormatTaxID(raw)
	case FieldPhone:
		value = fields.FormatPhone(raw)
	case FieldFullName, FieldBirthDate, FieldAddress:
		value = raw
	default:
		return ""
	}
	c.values[field] = value
	return value
}

// Value returns a field's current display value.
func (c *Controller) Value(field Field) string {
	return c.values[field]
}

// Submit validates every field against the schema. The first failing field
// aborts submission with its message, leaving the form open and populated. On
// success it emits the payload: in edit mode with the original record's ID
// attached, in create mode with none.
func (c *Controller) Submit() (models.Payload, error) {
	if !c.open {
		return models.Payload{}, dErrors.New(dErrors.CodeInvariantViolation, "form is closed")
	}

	if err := fields.ValidateFullName(c.values[FieldFullName]); err != nil {
		return models.Payload{}, err
	}
	if err := fields.ValidateBirthDate(c.values[FieldBirthDate]); err != nil {
		return models.Payload{}, err
	}
	if err := fields.ValidateTaxID(c.values[FieldTaxID]); err != nil {
		return models.Payload{}, err
	}
	if err := fields.ValidatePhone(c.values[FieldPhone]); err != nil {
		return models.Payload{}, err
	}
	if err := fields.ValidateAddress(c.values[FieldAddress]); err != nil {
		return models.Payload{}, err
	}

	birthDate, _ := time.Parse(fields.DateLayout, c.values[FieldBirthDate])

	payload := models.Payload{
		FullName:  c.values[FieldFullName],
		BirthDate: birthDate,
		TaxID:     c.values[FieldTaxID],
		Phone:     c.values[FieldPhone],
		Address:   c.values[FieldAddress],
	}
	if c.mode == ModeEdit {
		payload.ID = c.originalID
	}
	return payload, nil
}

// Ack clears all fields and closes the form. Call it only after the caller
// has confirmed the emitted payload was applied.
func (c *Controller) Ack() {
	c.values = emptyValues()
	c.open = false
}

// Cancel clears all fields and closes without emitting anything.
func (c *Controller) Cancel() {
	c.values = emptyValues()
	c.open = false
}

func emptyValues() map[Field]string {
	return map[Field]string{
		FieldFullName:  "",
		FieldBirthDate: "",
		FieldTaxID:     "",
		FieldPhone:     "",
		FieldAddress:   "",
	}
}
