package main

import (
	"strings"
	"time"

	"github.com/cyclops23/sonar-data-publish/commonGo"
	"github.com/cyclops23/sonar-data-publish/services/publisher/config"
)

const (
	envSonarURL       = "SONAR_URL"
	envTrackerURL     = "PIVOTAL_TRACKER_URL"
	envTrackerToken   = "PIVOTAL_TRACKER_TOKEN"
	envKeenProjectID  = "KEEN_PROJECT_ID"
	envKeenWriteKey   = "KEEN_WRITE_KEY"
	envDatadogAPIKey  = "DATADOG_API_KEY"
	envDataboxToken   = "DATABOX_TOKEN"
	defaultTrackerURL = "https://www.pivotaltracker.com/services/v5"
)

// runOptions holds the values given on the command line
type runOptions struct {
	verbose     bool
	noKeen      bool
	noDatadog   bool
	noDatabox   bool
	noSonar     bool
	withTracker bool
	projects    []string
	now         time.Time
	fromSecsAgo *int64
	toSecsAgo   int64
}

func loadConfig(configPath string, envPath string, opts runOptions) (config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return config.Config{}, err
	}

	resolved := applyOptions(*cfg, opts)

	env := requiredEnv(resolved)
	err = commonGo.ReadEnvFile(envPath, env)
	if err != nil {
		return config.Config{}, err
	}

	return applyEnv(resolved, env), nil
}

// applyOptions overlays the command line options on top of the file configuration
func applyOptions(cfg config.Config, opts runOptions) config.Config {
	cfg.Verbose = opts.verbose
	cfg.ProjectsFilter = opts.projects

	cfg.Sonar.Enabled = cfg.Sonar.Enabled && !opts.noSonar
	cfg.Tracker.Enabled = cfg.Tracker.Enabled || opts.withTracker
	cfg.Keen.Enabled = cfg.Keen.Enabled && !opts.noKeen
	cfg.Datadog.Enabled = cfg.Datadog.Enabled && !opts.noDatadog
	cfg.Databox.Enabled = cfg.Databox.Enabled && !opts.noDatabox

	cfg.Window.To = opts.now.Add(-time.Duration(opts.toSecsAgo) * time.Second)
	if opts.fromSecsAgo != nil {
		cfg.Window.From = opts.now.Add(-time.Duration(*opts.fromSecsAgo) * time.Second)
	}

	return cfg
}

// requiredEnv returns the environment variables needed by the enabled sources and targets
func requiredEnv(cfg config.Config) map[string]string {
	env := make(map[string]string)
	if cfg.Sonar.Enabled {
		env[envSonarURL] = ""
	}
	if cfg.Tracker.Enabled {
		env[envTrackerToken] = ""
	}
	if cfg.Keen.Enabled {
		env[envKeenProjectID] = ""
		env[envKeenWriteKey] = ""
	}
	if cfg.Datadog.Enabled {
		env[envDatadogAPIKey] = ""
	}
	if cfg.Databox.Enabled {
		env[envDataboxToken] = ""
	}

	return env
}

func applyEnv(cfg config.Config, env map[string]string) config.Config {
	if url, ok := env[envSonarURL]; ok {
		cfg.Sonar.URL = url
	}
	if cfg.Tracker.Enabled {
		base := cfg.Tracker.URL
		if len(base) == 0 {
			base = defaultTrackerURL
		}
		cfg.Tracker.URL = commonGo.ReadOptionalEnv(envTrackerURL, base)
	}

	cfg.Tracker.Token = env[envTrackerToken]
	cfg.Keen.ProjectID = env[envKeenProjectID]
	cfg.Keen.WriteKey = env[envKeenWriteKey]
	cfg.Datadog.APIKey = env[envDatadogAPIKey]
	cfg.Databox.Token = env[envDataboxToken]

	return cfg
}

func splitProjects(value string) []string {
	if len(strings.TrimSpace(value)) == 0 {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) > 0 {
			result = append(result, p)
		}
	}

	return result
}
