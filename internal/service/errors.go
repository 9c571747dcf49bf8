// Package service implements the gig operations on top of the
// repository: creating a gig with a validated lineup, cancelling an act,
// selling tickets and reading the schedule.  Every operation runs in one
// transaction and reports failures as *Error.
package service

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/iliyamo/gig-scheduler/internal/schedule"
)

// Kind classifies an operation failure.
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindValidation      Kind = "validation_failed"
	KindInvalidInput    Kind = "invalid_input"
	KindAlreadyTerminal Kind = "already_terminal"
	KindPersistence     Kind = "persistence_failure"
)

// Error is the error type returned by every service operation.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err.  Errors that did not come from this
// package count as persistence failures; nil has no kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindPersistence
}

// ViolationOf returns the broken rule behind a validation error, if any.
func ViolationOf(err error) (*schedule.Violation, bool) {
	var v *schedule.Violation
	ok := errors.As(err, &v)
	return v, ok
}

func notFound(op string, err error) error {
	return &Error{Kind: KindNotFound, Op: op, Err: err}
}

func invalidInput(op, format string, args ...any) error {
	return &Error{Kind: KindInvalidInput, Op: op, Err: fmt.Errorf(format, args...)}
}

func validationFailed(op string, err error) error {
	return &Error{Kind: KindValidation, Op: op, Err: err}
}

func alreadyTerminal(op string, gigID uint64) error {
	return &Error{Kind: KindAlreadyTerminal, Op: op, Err: fmt.Errorf("gig %d is cancelled", gigID)}
}

// persistenceFailure logs the storage error with the step that failed
// and wraps it.
func persistenceFailure(log *zap.Logger, op, step string, gigID uint64, err error) error {
	log.Error("persistence failure",
		zap.String("op", op), zap.String("step", step), zap.Uint64("gig_id", gigID), zap.Error(err))
	return &Error{Kind: KindPersistence, Op: op, Err: err}
}

// finish turns the error out of a transaction into a service error.
// Errors already classified inside the transaction pass through; begin
// and commit failures become persistence failures.
func finish(log *zap.Logger, op string, gigID uint64, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return persistenceFailure(log, op, "transaction", gigID, err)
}
