package testsCommon

import (
	"context"
	"net/url"

	"github.com/tidwall/gjson"
)

// PollerStub -
type PollerStub struct {
	GetHandler func(ctx context.Context, endpoint string, query url.Values) (gjson.Result, error)
}

// Get -
func (stub *PollerStub) Get(ctx context.Context, endpoint string, query url.Values) (gjson.Result, error) {
	if stub.GetHandler != nil {
		return stub.GetHandler(ctx, endpoint, query)
	}

	return gjson.Parse("[]"), nil
}

// IsInterfaceNil -
func (stub *PollerStub) IsInterfaceNil() bool {
	return stub == nil
}
