package jobs

import "errors"

var (
	// ErrNotFound is returned when no job exists for an id.
	ErrNotFound = errors.New("job not found")
	// ErrDuplicateID is returned when creating a job whose id already exists.
	ErrDuplicateID = errors.New("job id already exists")
)
