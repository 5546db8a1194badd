package target

import "errors"

var (
	// ErrNilReporter signals that a nil reporter was provided
	ErrNilReporter = errors.New("nil reporter")
	// ErrEmptyProjectID signals that the batch target was enabled without a project ID
	ErrEmptyProjectID = errors.New("empty project ID")
)
