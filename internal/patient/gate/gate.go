// Package gate implements the two-step delete confirmation. Destructive
// actions are staged first and only executed on an explicit confirm.
package gate

import (
	"context"
	"sync"

	"prontuario/internal/patient/models"
	id "prontuario/pkg/domain"
	dErrors "prontuario/pkg/domain-errors"
)

// Deleter is the slice of the registry the gate needs.
type Deleter interface {
	Delete(ctx context.Context, patientID id.PatientID) error
}

// State is the gate's visible condition.
type State int

const (
	StateIdle State = iota
	StatePending
)

// Gate holds at most one record staged for deletion. Confirm executes the
// delete; a failed confirm keeps the record staged so the caller can retry or
// cancel. Safe for concurrent use.
type Gate struct {
	deleter Deleter

	mu     sync.Mutex
	staged *models.Patient
}

func New(deleter Deleter) *Gate {
	return &Gate{deleter: deleter}
}

// State reports whether a deletion is awaiting confirmation.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.staged != nil {
		return StatePending
	}
	return StateIdle
}

// Staged returns the record awaiting confirmation, or nil when idle.
func (g *Gate) Staged() *models.Patient {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.staged
}

// Stage holds a record for deletion. Only one record can be staged at a time;
// staging while another confirmation is pending is rejected.
func (g *Gate) Stage(patient *models.Patient) error {
	if patient == nil {
		return dErrors.New(dErrors.CodeBadRequest, "no record to stage")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.staged != nil {
		return dErrors.New(dErrors.CodeInvariantViolation, "another deletion is awaiting confirmation")
	}
	g.staged = patient
	return nil
}

// Cancel discards the staged record without side effects.
func (g *Gate) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.staged = nil
}

// Confirm executes the staged deletion. On success the gate returns to idle;
// on failure the record stays staged and the error is returned to the caller.
func (g *Gate) Confirm(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.staged == nil {
		return dErrors.New(dErrors.CodeInvariantViolation, "no deletion awaiting confirmation")
	}
	if err := g.deleter.Delete(ctx, g.staged.ID); err != nil {
		return err
	}
	g.staged = nil
	return nil
}
