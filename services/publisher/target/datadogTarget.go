package target

import (
	"context"
	"time"

	"github.com/cyclops23/sonar-data-publish/services/publisher/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

const (
	datadogName           = "datadog"
	datadogSeriesEndpoint = "/api/v1/series"
	datadogGaugeType      = "gauge"
	metricSeparator       = "."
)

var log = logger.GetOrCreate("target")

type datadogSeries struct {
	Metric string       `json:"metric"`
	Points [][2]float64 `json:"points"`
	Type   string       `json:"type"`
	Tags   []string     `json:"tags"`
}

type datadogPayload struct {
	Series []datadogSeries `json:"series"`
}

// ArgsDatadogTarget is the DTO used to create a new Datadog target. A zero SubmitTime stamps the points with
// the time they are published
type ArgsDatadogTarget struct {
	Reporter   Reporter
	Enabled    bool
	Verbose    bool
	SubmitTime time.Time
}

type datadogTarget struct {
	reporter   Reporter
	enabled    bool
	verbose    bool
	submitTime time.Time
}

// NewDatadogTarget creates a streaming target that emits one gauge series per metric
func NewDatadogTarget(args ArgsDatadogTarget) (*datadogTarget, error) {
	if check.IfNil(args.Reporter) {
		return nil, ErrNilReporter
	}

	return &datadogTarget{
		reporter:   args.Reporter,
		enabled:    args.Enabled,
		verbose:    args.Verbose,
		submitTime: args.SubmitTime,
	}, nil
}

// Name returns the target name
func (dt *datadogTarget) Name() string {
	return datadogName
}

// Enabled returns true if the target publishes data
func (dt *datadogTarget) Enabled() bool {
	return dt.enabled
}

// Publish sends the group as gauges named <collection>.<metric>, tagged with the project
func (dt *datadogTarget) Publish(ctx context.Context, collection string, subject string, group common.MetricGroup) error {
	if !dt.enabled || len(group) == 0 {
		return nil
	}

	timestamp := float64(dt.pointTime().Unix())
	tags := []string{"project:" + subject}

	payload := datadogPayload{
		Series: make([]datadogSeries, 0, len(group)),
	}
	for _, metric := range group.SortedNames() {
		name := collection + metricSeparator + string(metric)
		value := group[metric]
		if dt.verbose {
			log.Info("datadog emit point", "metric", name, "value", value, "tags", tags)
		}

		payload.Series = append(payload.Series, datadogSeries{
			Metric: name,
			Points: [][2]float64{{timestamp, value}},
			Type:   datadogGaugeType,
			Tags:   tags,
		})
	}

	return dt.reporter.Post(ctx, datadogSeriesEndpoint, payload)
}

func (dt *datadogTarget) pointTime() time.Time {
	if dt.submitTime.IsZero() {
		return time.Now()
	}

	return dt.submitTime
}

// IsInterfaceNil returns true if the value under the interface is nil
func (dt *datadogTarget) IsInterfaceNil() bool {
	return dt == nil
}
