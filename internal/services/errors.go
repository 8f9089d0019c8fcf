package services

import "errors"

// Error taxonomy: malformed input and missing entities are the only
// caller-visible failures. "Nothing due" and "already executed" are
// never errors; they surface as a skipped ExecutionResult.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidSchedule = errors.New("invalid schedule")
	ErrValidation      = errors.New("validation failed")
)
