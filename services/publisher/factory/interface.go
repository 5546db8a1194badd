package factory

import "context"

// Engine defines the publisher's operations
type Engine interface {
	Process(ctx context.Context) error
	EnabledTargets() []string
	IsInterfaceNil() bool
}
