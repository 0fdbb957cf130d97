package planner

import (
	"errors"
	"fmt"

	"github.com/autowerk/planner/internal/model"
)

// ValidationError reports malformed input rejected before any lookup.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

var (
	ErrNoWorkItems         = ValidationError("at least one work item is required")
	ErrNonPositiveDuration = ValidationError("duration must be positive")
	ErrMissingBegin        = ValidationError("begin is required")
	ErrInvalidStatus       = ValidationError("invalid status")
	ErrInvalidCleaningKind = ValidationError("invalid cleaning kind")
)

// RoleMismatchError reports a user that exists but holds the wrong role for
// the requested responsibility.
type RoleMismatchError struct {
	Username string
	Want     model.Role
	Got      model.Role
}

func (e *RoleMismatchError) Error() string {
	return fmt.Sprintf("user %q is a %s, not a %s", e.Username, e.Got, e.Want)
}

// WrongKindError reports an update aimed at an appointment of another kind.
type WrongKindError struct {
	ID   string
	Want model.Kind
	Got  model.Kind
}

func (e *WrongKindError) Error() string {
	return fmt.Sprintf("appointment %s is a %s appointment, not %s", e.ID, e.Got, e.Want)
}

// OwnershipError reports a working appointment referencing a vehicle the
// customer does not own.
type OwnershipError struct {
	CustomerID string
	Plate      string
}

func (e *OwnershipError) Error() string {
	return fmt.Sprintf("vehicle %q is not owned by customer %s", e.Plate, e.CustomerID)
}

// Vehicle history outcomes that are not failures of the lookup itself.
var (
	ErrNoVehicleAppointments  = errors.New("vehicle has no working appointments")
	ErrNoFinishedAppointments = errors.New("vehicle has working appointments but none are finished")
)

func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}

func IsRoleMismatch(err error) bool {
	var e *RoleMismatchError
	return errors.As(err, &e)
}

func IsWrongKind(err error) bool {
	var e *WrongKindError
	return errors.As(err, &e)
}

func IsOwnership(err error) bool {
	var e *OwnershipError
	return errors.As(err, &e)
}
