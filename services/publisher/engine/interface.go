package engine

import (
	"context"

	"github.com/cyclops23/sonar-data-publish/services/publisher/common"
)

// Source defines a data source able to list projects and fetch their metric groups
type Source interface {
	// Name returns the collection the source data is published under
	Name() string

	// Projects returns the project working set, already restricted to the projects filter
	Projects(ctx context.Context) ([]common.Project, error)

	// GroupKinds returns the metric groups exposed by the source, in fetch order
	GroupKinds() []common.GroupKind

	// FetchGroup returns the metric group of the project. Metrics without upstream values are absent
	FetchGroup(ctx context.Context, kind common.GroupKind, project common.Project) (common.MetricGroup, error)

	IsInterfaceNil() bool
}

// StreamingTarget defines a backend receiving every metric group as soon as it is fetched
type StreamingTarget interface {
	Name() string
	Enabled() bool
	Publish(ctx context.Context, collection string, subject string, group common.MetricGroup) error
	IsInterfaceNil() bool
}

// BatchTarget defines a backend receiving all the project records in a single call at the end of the run
type BatchTarget interface {
	Name() string
	Enabled() bool
	Add(collection string, record common.PublishRecord)
	Flush(ctx context.Context) error
	IsInterfaceNil() bool
}
