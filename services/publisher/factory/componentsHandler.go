package factory

import (
	"context"
	"time"

	"github.com/cyclops23/sonar-data-publish/services/publisher/config"
	"github.com/cyclops23/sonar-data-publish/services/publisher/engine"
	"github.com/cyclops23/sonar-data-publish/services/publisher/poller"
	"github.com/cyclops23/sonar-data-publish/services/publisher/reporter"
	"github.com/cyclops23/sonar-data-publish/services/publisher/sonar"
	"github.com/cyclops23/sonar-data-publish/services/publisher/target"
	"github.com/cyclops23/sonar-data-publish/services/publisher/tracker"
)

const (
	defaultTimeout           = 30 * time.Second
	defaultSonarCollection   = "sonar"
	defaultTrackerCollection = "pivotal_tracker"
	defaultTrackerURL        = "https://www.pivotaltracker.com/services/v5"
	defaultKeenURL           = "https://api.keen.io/3.0"
	defaultDatadogURL        = "https://api.datadoghq.com"
	defaultDataboxURL        = "https://push.databox.com"
	trackerTokenHeader       = "X-TrackerToken"
	datadogAPIKeyHeader      = "DD-API-KEY"
	databoxAcceptHeader      = "application/vnd.databox.v2+json"
)

type componentsHandler struct {
	sources          []engine.Source
	streamingTargets []engine.StreamingTarget
	batchTarget      engine.BatchTarget
	engine           Engine
}

// NewComponentsHandler creates a new components handler
func NewComponentsHandler(cfg config.Config) (*componentsHandler, error) {
	sources, err := createSources(cfg)
	if err != nil {
		return nil, err
	}

	streamingTargets, err := createStreamingTargets(cfg)
	if err != nil {
		return nil, err
	}

	batchTarget, err := createBatchTarget(cfg)
	if err != nil {
		return nil, err
	}

	eng, err := engine.NewPublisherEngine(engine.ArgsPublisherEngine{
		Sources:          sources,
		StreamingTargets: streamingTargets,
		BatchTarget:      batchTarget,
	})
	if err != nil {
		return nil, err
	}

	return &componentsHandler{
		sources:          sources,
		streamingTargets: streamingTargets,
		batchTarget:      batchTarget,
		engine:           eng,
	}, nil
}

func createSources(cfg config.Config) ([]engine.Source, error) {
	sources := make([]engine.Source, 0, 2)

	if cfg.Sonar.Enabled {
		sonarPoller, err := poller.NewHTTPPoller(poller.ArgsHTTPPoller{
			BaseURL: cfg.Sonar.URL,
			Timeout: timeout(cfg.Sonar.TimeoutInSeconds),
		})
		if err != nil {
			return nil, err
		}

		sonarSource, err := sonar.NewSonarSource(sonar.ArgsSonarSource{
			Poller:         sonarPoller,
			Collection:     valueOrDefault(cfg.Sonar.Collection, defaultSonarCollection),
			Qualifiers:     cfg.Sonar.Qualifiers,
			ProjectsFilter: cfg.ProjectsFilter,
			Window:         cfg.Window,
		})
		if err != nil {
			return nil, err
		}

		sources = append(sources, sonarSource)
	}

	if cfg.Tracker.Enabled {
		trackerPoller, err := poller.NewHTTPPoller(poller.ArgsHTTPPoller{
			BaseURL: valueOrDefault(cfg.Tracker.URL, defaultTrackerURL),
			Headers: map[string]string{trackerTokenHeader: cfg.Tracker.Token},
			Timeout: timeout(cfg.Tracker.TimeoutInSeconds),
		})
		if err != nil {
			return nil, err
		}

		trackerSource, err := tracker.NewTrackerSource(tracker.ArgsTrackerSource{
			Poller:         trackerPoller,
			Collection:     valueOrDefault(cfg.Tracker.Collection, defaultTrackerCollection),
			ProjectsFilter: cfg.ProjectsFilter,
			Window:         cfg.Window,
		})
		if err != nil {
			return nil, err
		}

		sources = append(sources, trackerSource)
	}

	return sources, nil
}

func createStreamingTargets(cfg config.Config) ([]engine.StreamingTarget, error) {
	datadogReporter, err := reporter.NewHTTPReporter(reporter.ArgsHTTPReporter{
		Name:    "datadog",
		BaseURL: valueOrDefault(cfg.Datadog.URL, defaultDatadogURL),
		Headers: map[string]string{datadogAPIKeyHeader: cfg.Datadog.APIKey},
		Timeout: timeout(cfg.Datadog.TimeoutInSeconds),
	})
	if err != nil {
		return nil, err
	}

	datadogTarget, err := target.NewDatadogTarget(target.ArgsDatadogTarget{
		Reporter: datadogReporter,
		Enabled:  cfg.Datadog.Enabled,
		Verbose:  cfg.Verbose,
	})
	if err != nil {
		return nil, err
	}

	databoxReporter, err := reporter.NewHTTPReporter(reporter.ArgsHTTPReporter{
		Name:      "databox",
		BaseURL:   valueOrDefault(cfg.Databox.URL, defaultDataboxURL),
		Headers:   map[string]string{"Accept": databoxAcceptHeader},
		BasicAuth: &reporter.BasicAuth{Username: cfg.Databox.Token},
		Timeout:   timeout(cfg.Databox.TimeoutInSeconds),
	})
	if err != nil {
		return nil, err
	}

	databoxTarget, err := target.NewDataboxTarget(target.ArgsDataboxTarget{
		Reporter:   databoxReporter,
		Enabled:    cfg.Databox.Enabled,
		Verbose:    cfg.Verbose,
		SubmitTime: cfg.Window.To,
	})
	if err != nil {
		return nil, err
	}

	return []engine.StreamingTarget{datadogTarget, databoxTarget}, nil
}

func createBatchTarget(cfg config.Config) (engine.BatchTarget, error) {
	keenReporter, err := reporter.NewHTTPReporter(reporter.ArgsHTTPReporter{
		Name:    "keen",
		BaseURL: valueOrDefault(cfg.Keen.URL, defaultKeenURL),
		Headers: map[string]string{"Authorization": cfg.Keen.WriteKey},
		Timeout: timeout(cfg.Keen.TimeoutInSeconds),
	})
	if err != nil {
		return nil, err
	}

	keenTarget, err := target.NewKeenTarget(target.ArgsKeenTarget{
		Reporter:  keenReporter,
		ProjectID: cfg.Keen.ProjectID,
		Enabled:   cfg.Keen.Enabled,
		Verbose:   cfg.Verbose,
	})
	if err != nil {
		return nil, err
	}

	return keenTarget, nil
}

func timeout(seconds uint32) time.Duration {
	if seconds == 0 {
		return defaultTimeout
	}

	return time.Duration(seconds) * time.Second
}

func valueOrDefault(value string, defaultValue string) string {
	if len(value) == 0 {
		return defaultValue
	}

	return value
}

// GetSources returns the enabled data sources
func (ch *componentsHandler) GetSources() []engine.Source {
	return ch.sources
}

// GetStreamingTargets returns the streaming targets
func (ch *componentsHandler) GetStreamingTargets() []engine.StreamingTarget {
	return ch.streamingTargets
}

// GetBatchTarget returns the batch target
func (ch *componentsHandler) GetBatchTarget() engine.BatchTarget {
	return ch.batchTarget
}

// GetEngine returns the engine component
func (ch *componentsHandler) GetEngine() Engine {
	return ch.engine
}

// Run executes one pull and publish cycle
func (ch *componentsHandler) Run(ctx context.Context) error {
	return ch.engine.Process(ctx)
}
