package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"prontuario/internal/patient/models"
	id "prontuario/pkg/domain"
	"prontuario/pkg/platform/sentinel"
)

// uniqueViolation is the Postgres error code for unique constraint failures.
const uniqueViolation = "23505"

// Postgres persists patient records in the pacientes table. Owner scoping is
// part of every WHERE clause, so a caller can never read or mutate a foreign
// row even if the service layer forgets to check.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) ListByOwner(ctx context.Context, ownerID id.UserID) ([]*models.Patient, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, full_name, birth_date, tax_id, COALESCE(phone, ''), COALESCE(address, ''), registered_at, owner_id::text
		FROM pacientes
		WHERE owner_id = $1
		ORDER BY registered_at DESC, id DESC`,
		ownerID.String())
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()

	var out []*models.Patient
	for rows.Next() {
		var p models.Patient
		var patientID, owner string
		if err := rows.Scan(&patientID, &p.FullName, &p.BirthDate, &p.TaxID, &p.Phone, &p.Address, &p.RegisteredAt, &owner); err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		if p.ID, err = id.ParsePatientID(patientID); err != nil {
			return nil, fmt.Errorf("scan patient id: %w", err)
		}
		if p.OwnerID, err = id.ParseUserID(owner); err != nil {
			return nil, fmt.Errorf("scan patient owner: %w", err)
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return out, nil
}

func (s *Postgres) Create(ctx context.Context, patient *models.Patient) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO pacientes (id, full_name, birth_date, tax_id, phone, address, registered_at, owner_id)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8)`,
		patient.ID.String(), patient.FullName, patient.BirthDate, patient.TaxID,
		patient.Phone, patient.Address, patient.RegisteredAt, patient.OwnerID.String())
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

func (s *Postgres) Update(ctx context.Context, ownerID id.UserID, patient *models.Patient) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE pacientes
		SET full_name = $1, birth_date = $2, tax_id = $3, phone = NULLIF($4, ''), address = NULLIF($5, '')
		WHERE id = $6 AND owner_id = $7`,
		patient.FullName, patient.BirthDate, patient.TaxID, patient.Phone, patient.Address,
		patient.ID.String(), ownerID.String())
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, ownerID id.UserID, patientID id.PatientID) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM pacientes
		WHERE id = $1 AND owner_id = $2`,
		patientID.String(), ownerID.String())
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
