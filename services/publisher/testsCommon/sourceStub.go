package testsCommon

import (
	"context"

	"github.com/cyclops23/sonar-data-publish/services/publisher/common"
)

// SourceStub -
type SourceStub struct {
	NameValue         string
	ProjectsHandler   func(ctx context.Context) ([]common.Project, error)
	GroupKindsValue   []common.GroupKind
	FetchGroupHandler func(ctx context.Context, kind common.GroupKind, project common.Project) (common.MetricGroup, error)
}

// Name -
func (stub *SourceStub) Name() string {
	return stub.NameValue
}

// Projects -
func (stub *SourceStub) Projects(ctx context.Context) ([]common.Project, error) {
	if stub.ProjectsHandler != nil {
		return stub.ProjectsHandler(ctx)
	}

	return make([]common.Project, 0), nil
}

// GroupKinds -
func (stub *SourceStub) GroupKinds() []common.GroupKind {
	return stub.GroupKindsValue
}

// FetchGroup -
func (stub *SourceStub) FetchGroup(ctx context.Context, kind common.GroupKind, project common.Project) (common.MetricGroup, error) {
	if stub.FetchGroupHandler != nil {
		return stub.FetchGroupHandler(ctx, kind, project)
	}

	return make(common.MetricGroup), nil
}

// IsInterfaceNil -
func (stub *SourceStub) IsInterfaceNil() bool {
	return stub == nil
}
