package service

import (
	"errors"
	"fmt"
)

// Error classes. Specific errors below wrap one of them so handlers can map
// with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// Validation errors: the request is rejected and nothing changes.
var (
	ErrEmptyOrder        = fmt.Errorf("%w: order has no items", ErrValidation)
	ErrMissingTable      = fmt.Errorf("%w: table number is required", ErrValidation)
	ErrUnknownTable      = fmt.Errorf("%w: table does not exist", ErrValidation)
	ErrUnknownMenuItem   = fmt.Errorf("%w: menu item does not exist", ErrValidation)
	ErrUnknownCustomer   = fmt.Errorf("%w: customer does not exist", ErrValidation)
	ErrInvalidQuantity   = fmt.Errorf("%w: quantity must be > 0", ErrValidation)
	ErrInvalidDiscount   = fmt.Errorf("%w: discount must be a number", ErrValidation)
	ErrInvalidPrice      = fmt.Errorf("%w: price must be >= 0", ErrValidation)
	ErrInvalidCategory   = fmt.Errorf("%w: invalid category", ErrValidation)
	ErrInvalidStatus     = fmt.Errorf("%w: invalid table status", ErrValidation)
	ErrInvalidCapacity   = fmt.Errorf("%w: capacity must be > 0", ErrValidation)
	ErrInvalidTableID    = fmt.Errorf("%w: table id must be > 0", ErrValidation)
	ErrInvalidRole       = fmt.Errorf("%w: invalid role", ErrValidation)
	ErrInvalidShift      = fmt.Errorf("%w: invalid shift", ErrValidation)
	ErrNameRequired      = fmt.Errorf("%w: name is required", ErrValidation)
	ErrEmailRequired     = fmt.Errorf("%w: email is required", ErrValidation)
	ErrDuplicateEmail    = fmt.Errorf("%w: email already in use", ErrValidation)
	ErrTableExists       = fmt.Errorf("%w: table already exists", ErrValidation)
	ErrSummaryRequired   = fmt.Errorf("%w: order summary is required", ErrValidation)
	ErrSectionDisabled   = fmt.Errorf("%w: section is disabled", ErrValidation)
	ErrTableHasOrder     = fmt.Errorf("%w: table has an active order", ErrValidation)
	ErrOrderIDForStatus  = fmt.Errorf("%w: order_id is only allowed on occupied or reserved tables", ErrValidation)
	ErrOrderOnOtherTable = fmt.Errorf("%w: order belongs to another table", ErrValidation)
	ErrPasswordRequired  = fmt.Errorf("%w: password is required", ErrValidation)
	ErrInvalidEmail      = fmt.Errorf("%w: invalid email format", ErrValidation)
	ErrInvalidSalary     = fmt.Errorf("%w: salary must be >= 0", ErrValidation)
	ErrInvalidRange      = fmt.Errorf("%w: invalid date range", ErrValidation)
)

// Not-found errors: the id is no longer in the collection.
var (
	ErrOrderNotFound    = fmt.Errorf("order %w", ErrNotFound)
	ErrTableNotFound    = fmt.Errorf("table %w", ErrNotFound)
	ErrCustomerNotFound = fmt.Errorf("customer %w", ErrNotFound)
	ErrMenuItemNotFound = fmt.Errorf("menu item %w", ErrNotFound)
	ErrStaffNotFound    = fmt.Errorf("staff member %w", ErrNotFound)
)

// Conflicts: the request is valid but the current state does not allow it.
var (
	ErrNoNextStatus  = fmt.Errorf("%w: order is already served", ErrConflict)
	ErrOrderArchived = fmt.Errorf("%w: order is archived", ErrConflict)
	ErrStaleSnapshot = fmt.Errorf("%w: state changed since last refresh", ErrConflict)
)

// ErrInvalidCredentials is returned by Authenticate for an unknown email or
// a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ExternalServiceError reports a failed call to a collaborator (persistence,
// AI, broker). In-memory state is left as it was before the call.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

func external(service string, err error) error {
	return &ExternalServiceError{Service: service, Err: err}
}

// IsExternal reports whether err came from a collaborator.
func IsExternal(err error) bool {
	var e *ExternalServiceError
	return errors.As(err, &e)
}
