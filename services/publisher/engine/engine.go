package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/cyclops23/sonar-data-publish/services/publisher/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("engine")

// ArgsPublisherEngine is the DTO used to create a new publisher engine
type ArgsPublisherEngine struct {
	Sources          []Source
	StreamingTargets []StreamingTarget
	BatchTarget      BatchTarget
}

// publisherEngine pulls the metric groups of every project and fans them out to the targets
type publisherEngine struct {
	sources          []Source
	streamingTargets []StreamingTarget
	batchTarget      BatchTarget
}

// NewPublisherEngine creates a new engine instance. Disabled targets are dropped from the fan-out
func NewPublisherEngine(args ArgsPublisherEngine) (*publisherEngine, error) {
	for i, source := range args.Sources {
		if check.IfNil(source) {
			return nil, fmt.Errorf("%w at index %d", errNilSource, i)
		}
	}

	streamingTargets := make([]StreamingTarget, 0, len(args.StreamingTargets))
	for i, target := range args.StreamingTargets {
		if check.IfNil(target) {
			return nil, fmt.Errorf("%w at index %d", errNilStreamingTarget, i)
		}
		if target.Enabled() {
			streamingTargets = append(streamingTargets, target)
		}
	}

	if check.IfNil(args.BatchTarget) {
		return nil, errNilBatchTarget
	}

	return &publisherEngine{
		sources:          args.Sources,
		streamingTargets: streamingTargets,
		batchTarget:      args.BatchTarget,
	}, nil
}

// Process runs a full pull and publish cycle. The first error aborts the run; groups already streamed stay sent
// and the batch target is not flushed
func (e *publisherEngine) Process(ctx context.Context) error {
	for _, source := range e.sources {
		err := e.processSource(ctx, source)
		if err != nil {
			return err
		}
	}

	if e.batchTarget.Enabled() {
		err := e.batchTarget.Flush(ctx)
		if err != nil {
			return fmt.Errorf("%w while publishing the batch to %s", err, e.batchTarget.Name())
		}
	}

	targets := e.EnabledTargets()
	if len(targets) > 0 {
		log.Info("data published", "targets", strings.Join(targets, ","))
	}

	return nil
}

func (e *publisherEngine) processSource(ctx context.Context, source Source) error {
	collection := source.Name()

	projects, err := source.Projects(ctx)
	if err != nil {
		return fmt.Errorf("%w while listing the %s projects", err, collection)
	}

	log.Debug("processing source", "source", collection, "projects", len(projects))

	for _, project := range projects {
		log.Info("project", "source", collection, "key", project.Key)

		record := common.NewPublishRecord(project)
		for _, kind := range source.GroupKinds() {
			group, errFetch := source.FetchGroup(ctx, kind, project)
			if errFetch != nil {
				return fmt.Errorf("%w while fetching %s for %s project %s", errFetch, kind, collection, project.Key)
			}

			record.Groups[kind] = group

			errPublish := e.stream(ctx, collection, project.Key, group)
			if errPublish != nil {
				return errPublish
			}
		}

		if e.batchTarget.Enabled() {
			e.batchTarget.Add(collection, record)
		}
	}

	return nil
}

func (e *publisherEngine) stream(ctx context.Context, collection string, subject string, group common.MetricGroup) error {
	for _, target := range e.streamingTargets {
		err := target.Publish(ctx, collection, subject, group)
		if err != nil {
			return fmt.Errorf("%w while publishing %s data of %s to %s", err, collection, subject, target.Name())
		}
	}

	return nil
}

// EnabledTargets returns the names of the targets receiving data
func (e *publisherEngine) EnabledTargets() []string {
	names := make([]string, 0, len(e.streamingTargets)+1)
	if e.batchTarget.Enabled() {
		names = append(names, e.batchTarget.Name())
	}
	for _, target := range e.streamingTargets {
		names = append(names, target.Name())
	}

	return names
}

// IsInterfaceNil returns true if the value under the interface is nil
func (e *publisherEngine) IsInterfaceNil() bool {
	return e == nil
}
