package models

import "errors"

var (
	ErrEmptyOrder         = errors.New("order must contain at least one line item")
	ErrInvalidReference   = errors.New("unknown or inactive catalog reference")
	ErrInvalidSchedule    = errors.New("missing or malformed schedule")
	ErrInvalidPackage     = errors.New("unknown package type or occurrence count")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrOrderNotFound      = errors.New("order not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrAlreadyResponded   = errors.New("assignment has already been responded to")
	ErrMissingEmployeeID  = errors.New("employee id is required")
	ErrOrderNotPayable    = errors.New("order is not awaiting payment")
	ErrConflictData       = errors.New("data conflicts with existing data")
)
