package sonar

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/cyclops23/sonar-data-publish/services/publisher/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/tidwall/gjson"
)

const (
	resourcesEndpoint   = "/api/resources/index"
	timemachineEndpoint = "/api/timemachine"
	defaultQualifiers   = "TRK"
)

var log = logger.GetOrCreate("sonar")

// ArgsSonarSource is the DTO used to create a new Sonar source
type ArgsSonarSource struct {
	Poller         Poller
	Collection     string
	Qualifiers     string
	ProjectsFilter []string
	Window         common.TimeWindow
}

type sonarSource struct {
	poller         Poller
	collection     string
	qualifiers     string
	projectsFilter []string
	window         common.TimeWindow
}

// NewSonarSource creates a new metrics source backed by a Sonar server
func NewSonarSource(args ArgsSonarSource) (*sonarSource, error) {
	if check.IfNil(args.Poller) {
		return nil, ErrNilPoller
	}
	if len(args.Collection) == 0 {
		return nil, ErrEmptyCollection
	}

	qualifiers := args.Qualifiers
	if len(qualifiers) == 0 {
		qualifiers = defaultQualifiers
	}

	window := args.Window
	if window.To.IsZero() {
		window.To = time.Now()
	}

	return &sonarSource{
		poller:         args.Poller,
		collection:     args.Collection,
		qualifiers:     qualifiers,
		projectsFilter: args.ProjectsFilter,
		window:         window,
	}, nil
}

// Name returns the collection the Sonar metrics are published under
func (s *sonarSource) Name() string {
	return s.collection
}

// Projects returns the keys of the trackable resources, restricted to the projects filter
func (s *sonarSource) Projects(ctx context.Context) ([]common.Project, error) {
	query := url.Values{}
	query.Set("format", "json")
	query.Set("qualifiers", s.qualifiers)

	result, err := s.poller.Get(ctx, resourcesEndpoint, query)
	if err != nil {
		return nil, err
	}
	if !result.IsArray() {
		return nil, &errUnexpectedResponse{endpoint: resourcesEndpoint, reason: "expected a list of resources"}
	}

	keys := result.Get("#.key").Array()
	projects := make([]common.Project, 0, len(keys))
	for _, key := range keys {
		projects = append(projects, common.Project{Key: key.String()})
	}

	filtered := common.FilterProjects(projects, s.projectsFilter)
	log.Debug("resolved projects", "source", s.collection, "upstream", len(projects), "selected", len(filtered))

	return filtered, nil
}

// GroupKinds returns the metric groups this source exposes, in fetch order
func (s *sonarSource) GroupKinds() []common.GroupKind {
	return common.SonarGroupKinds
}

// FetchGroup queries every metric of the group for the project
func (s *sonarSource) FetchGroup(ctx context.Context, kind common.GroupKind, project common.Project) (common.MetricGroup, error) {
	if kind == common.KindQualityGate {
		return s.QualityGate(ctx, project.Key)
	}

	metrics, ok := common.SonarGroupMetrics[kind]
	if !ok {
		return nil, fmt.Errorf("%w %q for source %s", ErrUnknownGroupKind, kind, s.collection)
	}

	return s.numericGroup(ctx, project.Key, metrics)
}

// Issues returns the violations count per severity, including the new violations
func (s *sonarSource) Issues(ctx context.Context, projectKey string) (common.MetricGroup, error) {
	return s.numericGroup(ctx, projectKey, common.SonarGroupMetrics[common.KindIssues])
}

// Complexity returns the complexity metrics
func (s *sonarSource) Complexity(ctx context.Context, projectKey string) (common.MetricGroup, error) {
	return s.numericGroup(ctx, projectKey, common.SonarGroupMetrics[common.KindComplexity])
}

// Duplications returns the duplication metrics
func (s *sonarSource) Duplications(ctx context.Context, projectKey string) (common.MetricGroup, error) {
	return s.numericGroup(ctx, projectKey, common.SonarGroupMetrics[common.KindDuplications])
}

// Tests returns the coverage metrics
func (s *sonarSource) Tests(ctx context.Context, projectKey string) (common.MetricGroup, error) {
	return s.numericGroup(ctx, projectKey, common.SonarGroupMetrics[common.KindTests])
}

// TechDebt returns the technical debt metrics
func (s *sonarSource) TechDebt(ctx context.Context, projectKey string) (common.MetricGroup, error) {
	return s.numericGroup(ctx, projectKey, common.SonarGroupMetrics[common.KindTechDebt])
}

// QualityGate returns the quality gate verdict as a number. An unknown or missing verdict yields an empty group
func (s *sonarSource) QualityGate(ctx context.Context, projectKey string) (common.MetricGroup, error) {
	group := make(common.MetricGroup)

	value, found, err := s.lastValue(ctx, common.AlertStatus, projectKey)
	if err != nil {
		return nil, err
	}
	if !found {
		return group, nil
	}

	status, ok := common.ParseQualityGateStatus(value.String())
	if !ok {
		log.Debug("unknown quality gate status", "project", projectKey, "status", value.String())
		return group, nil
	}

	group[common.QualityGateStatusMetric] = float64(status)

	return group, nil
}

func (s *sonarSource) numericGroup(ctx context.Context, projectKey string, metrics []common.MetricName) (common.MetricGroup, error) {
	group := make(common.MetricGroup, len(metrics))
	for _, metric := range metrics {
		value, found, err := s.lastValue(ctx, metric, projectKey)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}

		numeric, err := toFloat(value)
		if err != nil {
			return nil, fmt.Errorf("%w for metric %s of project %s", err, metric, projectKey)
		}

		group[metric] = numeric
	}

	return group, nil
}

// lastValue returns the first value of the last cell of the last series. Missing series, cells or values
// are reported as not found
func (s *sonarSource) lastValue(ctx context.Context, metric common.MetricName, projectKey string) (gjson.Result, bool, error) {
	query := url.Values{}
	query.Set("format", "json")
	query.Set("metrics", string(metric))
	query.Set("resource", projectKey)
	query.Set("toDateTime", formatTime(s.window.To))
	if !s.window.From.IsZero() {
		query.Set("fromDateTime", formatTime(s.window.From))
	}

	result, err := s.poller.Get(ctx, timemachineEndpoint, query)
	if err != nil {
		return gjson.Result{}, false, err
	}
	if !result.IsArray() {
		return gjson.Result{}, false, &errUnexpectedResponse{endpoint: timemachineEndpoint, reason: "expected a list of series"}
	}

	series := result.Array()
	if len(series) == 0 {
		return gjson.Result{}, false, nil
	}

	cells := series[len(series)-1].Get("cells").Array()
	if len(cells) == 0 {
		return gjson.Result{}, false, nil
	}

	value := cells[len(cells)-1].Get("v.0")
	if !value.Exists() || value.Type == gjson.Null {
		return gjson.Result{}, false, nil
	}

	return value, true, nil
}

func toFloat(value gjson.Result) (float64, error) {
	switch value.Type {
	case gjson.Number:
		return value.Float(), nil
	case gjson.String:
		f, err := strconv.ParseFloat(value.Str, 64)
		if err != nil {
			return 0, fmt.Errorf("non numeric value %q", value.Str)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("non numeric value %s", value.Raw)
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// IsInterfaceNil returns true if the value under the interface is nil
func (s *sonarSource) IsInterfaceNil() bool {
	return s == nil
}
