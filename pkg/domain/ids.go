// Package domain defines the typed identifiers shared across verticals.
// Wrapping uuid.UUID keeps a PatientID from being passed where a UserID is
// expected; the compiler does the checking instead of code review.
package domain

import "github.com/google/uuid"

type (
	// UserID identifies an authenticated account (the session identity).
	UserID uuid.UUID
	// SessionID identifies a single sign-in session.
	SessionID uuid.UUID
	// PatientID identifies one patient record.
	PatientID uuid.UUID
)

func NewUserID() UserID       { return UserID(uuid.New()) }
func NewSessionID() SessionID { return SessionID(uuid.New()) }
func NewPatientID() PatientID { return PatientID(uuid.New()) }

func (id UserID) String() string    { return uuid.UUID(id).String() }
func (id SessionID) String() string { return uuid.UUID(id).String() }
func (id PatientID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsZero() bool    { return uuid.UUID(id) == uuid.Nil }
func (id SessionID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id PatientID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

func ParseUserID(s string) (UserID, error) {
	u, err := uuid.Parse(s)
	return UserID(u), err
}

func ParseSessionID(s string) (SessionID, error) {
	u, err := uuid.Parse(s)
	return SessionID(u), err
}

func ParsePatientID(s string) (PatientID, error) {
	u, err := uuid.Parse(s)
	return PatientID(u), err
}

// MarshalText makes the typed IDs render as canonical UUID strings in JSON.
func (id UserID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id SessionID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id PatientID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *UserID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = UserID(u)
	return nil
}

func (id *SessionID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = SessionID(u)
	return nil
}

func (id *PatientID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = PatientID(u)
	return nil
}
