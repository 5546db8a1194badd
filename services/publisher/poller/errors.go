package poller

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrEmptyBaseURL signals that the poller was created without a base URL
var ErrEmptyBaseURL = errors.New("empty base URL")

type errStatusNotOK struct {
	endpoint   string
	statusCode int
}

func (e *errStatusNotOK) Error() string {
	return fmt.Sprintf("%s: non-2xx HTTP status code: %d %s", e.endpoint, e.statusCode, http.StatusText(e.statusCode))
}

type errMalformedResponse string

func (e errMalformedResponse) Error() string {
	return "malformed JSON response from " + string(e)
}

// StatusCode returns the upstream status code carried by the error, if any
func StatusCode(err error) (int, bool) {
	var statusErr *errStatusNotOK
	if errors.As(err, &statusErr) {
		return statusErr.statusCode, true
	}

	return 0, false
}
