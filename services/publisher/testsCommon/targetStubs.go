package testsCommon

import (
	"context"

	"github.com/cyclops23/sonar-data-publish/services/publisher/common"
)

// StreamingTargetStub -
type StreamingTargetStub struct {
	NameValue      string
	EnabledValue   bool
	PublishHandler func(ctx context.Context, collection string, subject string, group common.MetricGroup) error
}

// Name -
func (stub *StreamingTargetStub) Name() string {
	return stub.NameValue
}

// Enabled -
func (stub *StreamingTargetStub) Enabled() bool {
	return stub.EnabledValue
}

// Publish -
func (stub *StreamingTargetStub) Publish(ctx context.Context, collection string, subject string, group common.MetricGroup) error {
	if stub.PublishHandler != nil {
		return stub.PublishHandler(ctx, collection, subject, group)
	}

	return nil
}

// IsInterfaceNil -
func (stub *StreamingTargetStub) IsInterfaceNil() bool {
	return stub == nil
}

// BatchTargetStub -
type BatchTargetStub struct {
	NameValue    string
	EnabledValue bool
	AddHandler   func(collection string, record common.PublishRecord)
	FlushHandler func(ctx context.Context) error
}

// Name -
func (stub *BatchTargetStub) Name() string {
	return stub.NameValue
}

// Enabled -
func (stub *BatchTargetStub) Enabled() bool {
	return stub.EnabledValue
}

// Add -
func (stub *BatchTargetStub) Add(collection string, record common.PublishRecord) {
	if stub.AddHandler != nil {
		stub.AddHandler(collection, record)
	}
}

// Flush -
func (stub *BatchTargetStub) Flush(ctx context.Context) error {
	if stub.FlushHandler != nil {
		return stub.FlushHandler(ctx)
	}

	return nil
}

// IsInterfaceNil -
func (stub *BatchTargetStub) IsInterfaceNil() bool {
	return stub == nil
}
