package common

import (
	"encoding/json"
	"sort"
	"time"
)

// Project identifies a project of a data source. Sonar projects only have a Key, tracker projects are keyed by
// their name and also carry the numeric ID
type Project struct {
	Key string
	ID  string
}

// MetricGroup maps a metric to its numeric value. A metric not reported upstream is absent from the map
type MetricGroup map[MetricName]float64

// SortedNames returns the metric names of the group in ascending order
func (group MetricGroup) SortedNames() []MetricName {
	names := make([]MetricName, 0, len(group))
	for name := range group {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return names[i] < names[j]
	})

	return names
}

// PublishRecord aggregates all the metric groups of a project for the batch target
type PublishRecord struct {
	ProjectKey string
	ProjectID  string
	Groups     map[GroupKind]MetricGroup
}

// NewPublishRecord creates an empty record for the provided project
func NewPublishRecord(project Project) PublishRecord {
	return PublishRecord{
		ProjectKey: project.Key,
		ProjectID:  project.ID,
		Groups:     make(map[GroupKind]MetricGroup),
	}
}

// MarshalJSON flattens the groups next to the project identifiers
func (record PublishRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(record.Groups)+2)
	out["project_key"] = record.ProjectKey
	if len(record.ProjectID) > 0 {
		out["project_id"] = record.ProjectID
	}
	for kind, group := range record.Groups {
		out[string(kind)] = group
	}

	return json.Marshal(out)
}

// TimeWindow is the interval used when querying metric histories. A zero From means the window is open
type TimeWindow struct {
	From time.Time
	To   time.Time
}

// FilterProjects returns the projects whose key or ID is contained in the filter, preserving the order of the
// provided projects. An empty filter returns all projects
func FilterProjects(projects []Project, filter []string) []Project {
	if len(filter) == 0 {
		return projects
	}

	wanted := make(map[string]struct{}, len(filter))
	for _, f := range filter {
		if len(f) > 0 {
			wanted[f] = struct{}{}
		}
	}

	result := make([]Project, 0, len(projects))
	for _, p := range projects {
		_, keyFound := wanted[p.Key]
		_, idFound := wanted[p.ID]
		if keyFound || (len(p.ID) > 0 && idFound) {
			result = append(result, p)
		}
	}

	return result
}
