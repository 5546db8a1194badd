package sonar

import (
	"context"
	"net/url"

	"github.com/tidwall/gjson"
)

// Poller defines the HTTP client used to query the Sonar web API
type Poller interface {
	Get(ctx context.Context, endpoint string, query url.Values) (gjson.Result, error)
	IsInterfaceNil() bool
}
