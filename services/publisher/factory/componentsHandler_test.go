package factory

import (
	"context"
	"fmt"
	"testing"

	"github.com/cyclops23/sonar-data-publish/services/publisher/config"
	"github.com/cyclops23/sonar-data-publish/services/publisher/poller"
	"github.com/cyclops23/sonar-data-publish/services/publisher/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig() config.Config {
	return config.Config{
		Sonar: config.SonarConfig{
			Enabled: true,
			URL:     "http://sonar.local",
		},
		Tracker: config.TrackerConfig{
			Enabled: true,
			Token:   "token",
		},
		Keen: config.KeenConfig{
			Enabled:   true,
			ProjectID: "keen-project",
			WriteKey:  "write-key",
		},
		Datadog: config.DatadogConfig{
			Enabled: true,
			APIKey:  "api-key",
		},
		Databox: config.DataboxConfig{
			Enabled: false,
		},
	}
}

func TestNewComponentsHandler(t *testing.T) {
	t.Parallel()

	t.Run("should work", func(t *testing.T) {
		t.Parallel()

		handler, err := NewComponentsHandler(createTestConfig())
		assert.NotNil(t, handler)
		assert.Nil(t, err)
	})
	t.Run("enabled sonar without URL should error", func(t *testing.T) {
		t.Parallel()

		cfg := createTestConfig()
		cfg.Sonar.URL = ""
		handler, err := NewComponentsHandler(cfg)
		assert.Nil(t, handler)
		assert.Equal(t, poller.ErrEmptyBaseURL, err)
	})
	t.Run("enabled keen without project should error", func(t *testing.T) {
		t.Parallel()

		cfg := createTestConfig()
		cfg.Keen.ProjectID = ""
		handler, err := NewComponentsHandler(cfg)
		assert.Nil(t, handler)
		assert.Equal(t, target.ErrEmptyProjectID, err)
	})
	t.Run("disabled sources are not created", func(t *testing.T) {
		t.Parallel()

		cfg := createTestConfig()
		cfg.Sonar = config.SonarConfig{}
		cfg.Tracker.Enabled = false
		handler, err := NewComponentsHandler(cfg)
		require.Nil(t, err)
		assert.Empty(t, handler.GetSources())

		err = handler.Run(context.Background())
		assert.Nil(t, err)
	})
}

func TestComponentsHandlerMethods(t *testing.T) {
	t.Parallel()

	handler, _ := NewComponentsHandler(createTestConfig())

	sources := handler.GetSources()
	require.Len(t, sources, 2)
	assert.Equal(t, "*sonar.sonarSource", fmt.Sprintf("%T", sources[0]))
	assert.Equal(t, "sonar", sources[0].Name())
	assert.Equal(t, "*tracker.trackerSource", fmt.Sprintf("%T", sources[1]))
	assert.Equal(t, "pivotal_tracker", sources[1].Name())

	streamingTargets := handler.GetStreamingTargets()
	require.Len(t, streamingTargets, 2)
	assert.Equal(t, "*target.datadogTarget", fmt.Sprintf("%T", streamingTargets[0]))
	assert.Equal(t, "*target.databoxTarget", fmt.Sprintf("%T", streamingTargets[1]))

	batchTarget := handler.GetBatchTarget()
	assert.Equal(t, "*target.keenTarget", fmt.Sprintf("%T", batchTarget))

	eng := handler.GetEngine()
	assert.Equal(t, "*engine.publisherEngine", fmt.Sprintf("%T", eng))
	assert.Equal(t, []string{"keen", "datadog"}, eng.EnabledTargets())
}
