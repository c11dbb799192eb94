package domain

import "errors"

// Errors returned when parsing user supplied selections.
var (
	ErrUnknownStatus    = errors.New("unknown pull request status")
	ErrUnknownSortField = errors.New("unknown sort field")
	ErrUnknownSeverity  = errors.New("unknown alert severity")
	ErrInvalidThreshold = errors.New("health threshold must be between 0 and 100")
	ErrUnknownEventType = errors.New("unknown timeline event type")
	ErrUnknownDirection = errors.New("unknown sort direction")
	ErrUnknownAlert     = errors.New("unknown alert")
)
