package planner

import "errors"

var (
	// ErrInvalidRange is returned when a date range ends before it starts
	ErrInvalidRange = errors.New("invalid date range")

	// ErrInvalidConfiguration is returned for malformed optimizer input
	ErrInvalidConfiguration = errors.New("invalid optimizer configuration")
)
