package tracker

import (
	"errors"
	"fmt"
)

var (
	// ErrNilPoller signals that a nil poller was provided
	ErrNilPoller = errors.New("nil poller")
	// ErrEmptyCollection signals that an empty collection name was provided
	ErrEmptyCollection = errors.New("empty collection")
	// ErrUnknownGroupKind signals that the source does not expose the requested group
	ErrUnknownGroupKind = errors.New("unknown metric group")
	// ErrInvalidProjectID signals a project without a numeric ID
	ErrInvalidProjectID = errors.New("invalid project ID")
)

type errUnexpectedResponse struct {
	endpoint string
	reason   string
}

func (e *errUnexpectedResponse) Error() string {
	return fmt.Sprintf("unexpected response from %s: %s", e.endpoint, e.reason)
}
