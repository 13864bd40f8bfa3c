package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrRunInProgress signals that a report generation cycle is already
	// holding the run guard.
	ErrRunInProgress = errors.New("report generation already in progress")
)
