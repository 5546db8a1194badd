package tracker

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/cyclops23/sonar-data-publish/services/publisher/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/tidwall/gjson"
)

const (
	projectsEndpoint = "/projects"
	historyEndpoint  = "/projects/%d/history/days"
	dateColumn       = "date"
	dayLayout        = "2006-01-02"
)

var log = logger.GetOrCreate("tracker")

// HistoryRow is a single day of the project history, keyed by column name
type HistoryRow map[string]gjson.Result

// ArgsTrackerSource is the DTO used to create a new tracker source
type ArgsTrackerSource struct {
	Poller         Poller
	Collection     string
	ProjectsFilter []string
	Window         common.TimeWindow
}

type trackerSource struct {
	poller         Poller
	collection     string
	projectsFilter []string
	day            time.Time
}

// NewTrackerSource creates a new velocity source backed by the tracker API
func NewTrackerSource(args ArgsTrackerSource) (*trackerSource, error) {
	if check.IfNil(args.Poller) {
		return nil, ErrNilPoller
	}
	if len(args.Collection) == 0 {
		return nil, ErrEmptyCollection
	}

	day := args.Window.To
	if day.IsZero() {
		day = time.Now()
	}

	return &trackerSource{
		poller:         args.Poller,
		collection:     args.Collection,
		projectsFilter: args.ProjectsFilter,
		day:            day,
	}, nil
}

// Name returns the collection the tracker metrics are published under
func (ts *trackerSource) Name() string {
	return ts.collection
}

// ProjectIDs returns the project names keyed by project ID
func (ts *trackerSource) ProjectIDs(ctx context.Context) (map[int64]string, error) {
	query := url.Values{}
	query.Set("format", "json")

	result, err := ts.poller.Get(ctx, projectsEndpoint, query)
	if err != nil {
		return nil, err
	}
	if !result.IsArray() {
		return nil, &errUnexpectedResponse{endpoint: projectsEndpoint, reason: "expected a list of projects"}
	}

	ids := make(map[int64]string)
	for _, project := range result.Array() {
		id := project.Get("id")
		if id.Type != gjson.Number {
			return nil, &errUnexpectedResponse{endpoint: projectsEndpoint, reason: "project without a numeric id"}
		}

		ids[id.Int()] = project.Get("name").String()
	}

	return ids, nil
}

// Projects returns the tracker projects ordered by ID, restricted to the projects filter
func (ts *trackerSource) Projects(ctx context.Context) ([]common.Project, error) {
	ids, err := ts.ProjectIDs(ctx)
	if err != nil {
		return nil, err
	}

	sortedIDs := make([]int64, 0, len(ids))
	for id := range ids {
		sortedIDs = append(sortedIDs, id)
	}
	sort.Slice(sortedIDs, func(i, j int) bool {
		return sortedIDs[i] < sortedIDs[j]
	})

	projects := make([]common.Project, 0, len(sortedIDs))
	for _, id := range sortedIDs {
		projects = append(projects, common.Project{
			Key: ids[id],
			ID:  strconv.FormatInt(id, 10),
		})
	}

	filtered := common.FilterProjects(projects, ts.projectsFilter)
	log.Debug("resolved projects", "source", ts.collection, "upstream", len(projects), "selected", len(filtered))

	return filtered, nil
}

// History returns the project history rows of the provided day
func (ts *trackerSource) History(ctx context.Context, projectID int64, day time.Time) ([]HistoryRow, error) {
	query := url.Values{}
	query.Set("format", "json")
	query.Set("start_date", day.Format(dayLayout))
	query.Set("end_date", day.Format(dayLayout))

	endpoint := fmt.Sprintf(historyEndpoint, projectID)
	result, err := ts.poller.Get(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}

	header := result.Get("header")
	data := result.Get("data")
	if !header.IsArray() || !data.IsArray() {
		return nil, &errUnexpectedResponse{endpoint: endpoint, reason: "expected header and data lists"}
	}

	columns := header.Array()
	rows := make([]HistoryRow, 0, len(data.Array()))
	for _, values := range data.Array() {
		row := make(HistoryRow, len(columns))
		cells := values.Array()
		for i, column := range columns {
			if i >= len(cells) {
				break
			}
			row[column.String()] = cells[i]
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// GroupKinds returns the metric groups this source exposes
func (ts *trackerSource) GroupKinds() []common.GroupKind {
	return []common.GroupKind{common.KindHistory}
}

// FetchGroup returns the velocity snapshot of the most recent day of the project history
func (ts *trackerSource) FetchGroup(ctx context.Context, kind common.GroupKind, project common.Project) (common.MetricGroup, error) {
	if kind != common.KindHistory {
		return nil, fmt.Errorf("%w %q for source %s", ErrUnknownGroupKind, kind, ts.collection)
	}

	projectID, err := strconv.ParseInt(project.ID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w %q for project %s", ErrInvalidProjectID, project.ID, project.Key)
	}

	rows, err := ts.History(ctx, projectID, ts.day)
	if err != nil {
		return nil, err
	}

	group := make(common.MetricGroup)
	latest, found := mostRecentRow(rows)
	if !found {
		return group, nil
	}

	for column, value := range latest {
		if column == dateColumn {
			continue
		}

		metric, ok := common.ParseTrackerMetric(column)
		if !ok {
			log.Trace("skipping unknown history column", "project", project.Key, "column", column)
			continue
		}
		if value.Type != gjson.Number {
			continue
		}

		group[metric] = value.Float()
	}

	return group, nil
}

// mostRecentRow returns the row with the greatest date. Ties are won by the later row
func mostRecentRow(rows []HistoryRow) (HistoryRow, bool) {
	if len(rows) == 0 {
		return nil, false
	}

	latest := rows[0]
	for _, row := range rows[1:] {
		if row[dateColumn].String() >= latest[dateColumn].String() {
			latest = row
		}
	}

	return latest, true
}

// IsInterfaceNil returns true if the value under the interface is nil
func (ts *trackerSource) IsInterfaceNil() bool {
	return ts == nil
}
