package target

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cyclops23/sonar-data-publish/services/publisher/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
)

const (
	keenName           = "keen"
	keenEventsEndpoint = "/projects/%s/events"
)

// ArgsKeenTarget is the DTO used to create a new Keen target
type ArgsKeenTarget struct {
	Reporter  Reporter
	ProjectID string
	Enabled   bool
	Verbose   bool
}

type keenTarget struct {
	reporter  Reporter
	projectID string
	enabled   bool
	verbose   bool
	records   map[string][]common.PublishRecord
}

// NewKeenTarget creates a batch target that buffers the records and publishes them in a single call
func NewKeenTarget(args ArgsKeenTarget) (*keenTarget, error) {
	if check.IfNil(args.Reporter) {
		return nil, ErrNilReporter
	}
	if args.Enabled && len(args.ProjectID) == 0 {
		return nil, ErrEmptyProjectID
	}

	return &keenTarget{
		reporter:  args.Reporter,
		projectID: args.ProjectID,
		enabled:   args.Enabled,
		verbose:   args.Verbose,
		records:   make(map[string][]common.PublishRecord),
	}, nil
}

// Name returns the target name
func (kt *keenTarget) Name() string {
	return keenName
}

// Enabled returns true if the target publishes data
func (kt *keenTarget) Enabled() bool {
	return kt.enabled
}

// Add buffers the record under the collection
func (kt *keenTarget) Add(collection string, record common.PublishRecord) {
	if !kt.enabled {
		return
	}

	kt.records[collection] = append(kt.records[collection], record)
}

// NumRecords returns the number of buffered records
func (kt *keenTarget) NumRecords() int {
	num := 0
	for _, records := range kt.records {
		num += len(records)
	}

	return num
}

// Flush publishes every buffered record in one batch call. Nothing is sent when the buffer is empty
func (kt *keenTarget) Flush(ctx context.Context) error {
	if !kt.enabled || kt.NumRecords() == 0 {
		return nil
	}

	numRecords := kt.NumRecords()
	batch := kt.records
	kt.records = make(map[string][]common.PublishRecord)

	endpoint := fmt.Sprintf(keenEventsEndpoint, kt.projectID)
	if kt.verbose {
		logBatch(endpoint, numRecords, batch)
	}

	return kt.reporter.Post(ctx, endpoint, batch)
}

func logBatch(endpoint string, numRecords int, batch map[string][]common.PublishRecord) {
	payload, err := json.Marshal(batch)
	if err != nil {
		log.Warn("keen publish batch: can not encode the payload", "endpoint", endpoint, "error", err)
		return
	}

	log.Info("keen publish batch", "endpoint", endpoint, "records", numRecords, "payload", string(payload))
}

// IsInterfaceNil returns true if the value under the interface is nil
func (kt *keenTarget) IsInterfaceNil() bool {
	return kt == nil
}
