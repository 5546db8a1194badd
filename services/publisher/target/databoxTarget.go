package target

import (
	"context"
	"time"

	"github.com/cyclops23/sonar-data-publish/services/publisher/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
)

const (
	databoxName         = "databox"
	databoxDateLayout   = "2006-01-02 15:04:05"
	databoxMetricPrefix = "$"
	databoxPushEndpoint = ""
)

type databoxPayload struct {
	Data []map[string]interface{} `json:"data"`
}

// ArgsDataboxTarget is the DTO used to create a new Databox target
type ArgsDataboxTarget struct {
	Reporter   Reporter
	Enabled    bool
	Verbose    bool
	SubmitTime time.Time
}

type databoxTarget struct {
	reporter   Reporter
	enabled    bool
	verbose    bool
	submitDate string
}

// NewDataboxTarget creates a streaming target that pushes the metrics to a dashboard
func NewDataboxTarget(args ArgsDataboxTarget) (*databoxTarget, error) {
	if check.IfNil(args.Reporter) {
		return nil, ErrNilReporter
	}

	submitTime := args.SubmitTime
	if submitTime.IsZero() {
		submitTime = time.Now()
	}

	return &databoxTarget{
		reporter:   args.Reporter,
		enabled:    args.Enabled,
		verbose:    args.Verbose,
		submitDate: submitTime.UTC().Format(databoxDateLayout),
	}, nil
}

// Name returns the target name
func (dt *databoxTarget) Name() string {
	return databoxName
}

// Enabled returns true if the target publishes data
func (dt *databoxTarget) Enabled() bool {
	return dt.enabled
}

// Publish pushes one data item per metric with the project as attribute. Dashboards are keyed by metric name,
// so the collection is not part of the pushed key
func (dt *databoxTarget) Publish(ctx context.Context, _ string, subject string, group common.MetricGroup) error {
	if !dt.enabled || len(group) == 0 {
		return nil
	}

	payload := databoxPayload{
		Data: make([]map[string]interface{}, 0, len(group)),
	}
	for _, metric := range group.SortedNames() {
		value := group[metric]
		if dt.verbose {
			log.Info("databox push", "key", metric, "value", value, "date", dt.submitDate, "project", subject)
		}

		payload.Data = append(payload.Data, map[string]interface{}{
			databoxMetricPrefix + string(metric): value,
			"date":                               dt.submitDate,
			"project":                            subject,
		})
	}

	return dt.reporter.Post(ctx, databoxPushEndpoint, payload)
}

// IsInterfaceNil returns true if the value under the interface is nil
func (dt *databoxTarget) IsInterfaceNil() bool {
	return dt == nil
}
