package target

import "context"

// Reporter defines the HTTP client used to push data to an analytics backend
type Reporter interface {
	Post(ctx context.Context, endpoint string, payload interface{}) error
	IsInterfaceNil() bool
}
