package testsCommon

import "context"

// ReporterStub -
type ReporterStub struct {
	PostHandler func(ctx context.Context, endpoint string, payload interface{}) error
}

// Post -
func (stub *ReporterStub) Post(ctx context.Context, endpoint string, payload interface{}) error {
	if stub.PostHandler != nil {
		return stub.PostHandler(ctx, endpoint, payload)
	}

	return nil
}

// IsInterfaceNil -
func (stub *ReporterStub) IsInterfaceNil() bool {
	return stub == nil
}
