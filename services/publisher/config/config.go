package config

import (
	"fmt"
	"os"

	"github.com/cyclops23/sonar-data-publish/services/publisher/common"
	"github.com/pelletier/go-toml/v2"
)

// SonarConfig defines the quality-metrics source
type SonarConfig struct {
	Enabled          bool   `toml:"Enabled"`
	URL              string `toml:"URL"`
	Collection       string `toml:"Collection"`
	Qualifiers       string `toml:"Qualifiers"`
	TimeoutInSeconds uint32 `toml:"TimeoutInSeconds"`
}

// TrackerConfig defines the agile-tracker source
type TrackerConfig struct {
	Enabled          bool   `toml:"Enabled"`
	URL              string `toml:"URL"`
	Token            string `toml:"-"`
	Collection       string `toml:"Collection"`
	TimeoutInSeconds uint32 `toml:"TimeoutInSeconds"`
}

// KeenConfig defines the batch event-analytics target
type KeenConfig struct {
	Enabled          bool   `toml:"Enabled"`
	URL              string `toml:"URL"`
	ProjectID        string `toml:"-"`
	WriteKey         string `toml:"-"`
	TimeoutInSeconds uint32 `toml:"TimeoutInSeconds"`
}

// DatadogConfig defines the time-series target
type DatadogConfig struct {
	Enabled          bool   `toml:"Enabled"`
	URL              string `toml:"URL"`
	APIKey           string `toml:"-"`
	TimeoutInSeconds uint32 `toml:"TimeoutInSeconds"`
}

// DataboxConfig defines the dashboard-push target
type DataboxConfig struct {
	Enabled          bool   `toml:"Enabled"`
	URL              string `toml:"URL"`
	Token            string `toml:"-"`
	TimeoutInSeconds uint32 `toml:"TimeoutInSeconds"`
}

// Config maps to the config.toml file of the publisher. Credentials and the run options are not read from the
// file, they are filled from the environment and the command line before the components are created
type Config struct {
	Sonar   SonarConfig   `toml:"Sonar"`
	Tracker TrackerConfig `toml:"Tracker"`
	Keen    KeenConfig    `toml:"Keen"`
	Datadog DatadogConfig `toml:"Datadog"`
	Databox DataboxConfig `toml:"Databox"`

	Verbose        bool              `toml:"-"`
	ProjectsFilter []string          `toml:"-"`
	Window         common.TimeWindow `toml:"-"`
}

// LoadConfig parses a TOML file into the Config struct
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filepath, err)
	}

	var cfg Config
	err = toml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return &cfg, nil
}
