package common

// MetricName is the name of a metric accepted by the publisher
type MetricName string

// GroupKind names a bundle of metrics fetched together
type GroupKind string

// Sonar metric group kinds
const (
	KindIssues       GroupKind = "issues"
	KindComplexity   GroupKind = "complexity"
	KindDuplications GroupKind = "duplications"
	KindQualityGate  GroupKind = "quality_gate_status"
	KindTests        GroupKind = "tests"
	KindTechDebt     GroupKind = "tech_debt"
)

// KindHistory is the tracker metric group holding the velocity snapshot
const KindHistory GroupKind = "history"

// Sonar metrics
const (
	BlockerViolations       MetricName = "blocker_violations"
	NewBlockerViolations    MetricName = "new_blocker_violations"
	CriticalViolations      MetricName = "critical_violations"
	NewCriticalViolations   MetricName = "new_critical_violations"
	MajorViolations         MetricName = "major_violations"
	NewMajorViolations      MetricName = "new_major_violations"
	MinorViolations         MetricName = "minor_violations"
	NewMinorViolations      MetricName = "new_minor_violations"
	InfoViolations          MetricName = "info_violations"
	NewInfoViolations       MetricName = "new_info_violations"
	Complexity              MetricName = "complexity"
	ClassComplexity         MetricName = "class_complexity"
	FileComplexity          MetricName = "file_complexity"
	FunctionComplexity      MetricName = "function_complexity"
	DuplicatedBlocks        MetricName = "duplicated_blocks"
	DuplicatedFiles         MetricName = "duplicated_files"
	DuplicatedLines         MetricName = "duplicated_lines"
	DuplicatedLinesDensity  MetricName = "duplicated_lines_density"
	AlertStatus             MetricName = "alert_status"
	QualityGateStatusMetric MetricName = "quality_gate_status"
	Coverage                MetricName = "coverage"
	NewCoverage             MetricName = "new_coverage"
	SqaleIndex              MetricName = "sqale_index"
	SqaleDebtRatio          MetricName = "sqale_debt_ratio"
)

// Tracker history metrics
const (
	PointsAccepted    MetricName = "points_accepted"
	PointsDelivered   MetricName = "points_delivered"
	PointsFinished    MetricName = "points_finished"
	PointsStarted     MetricName = "points_started"
	PointsRejected    MetricName = "points_rejected"
	PointsPlanned     MetricName = "points_planned"
	PointsUnstarted   MetricName = "points_unstarted"
	PointsUnscheduled MetricName = "points_unscheduled"
	CountsAccepted    MetricName = "counts_accepted"
	CountsDelivered   MetricName = "counts_delivered"
	CountsFinished    MetricName = "counts_finished"
	CountsStarted     MetricName = "counts_started"
	CountsRejected    MetricName = "counts_rejected"
	CountsPlanned     MetricName = "counts_planned"
	CountsUnstarted   MetricName = "counts_unstarted"
	CountsUnscheduled MetricName = "counts_unscheduled"
)

// SonarGroupKinds lists the Sonar groups in the order they are fetched
var SonarGroupKinds = []GroupKind{
	KindIssues,
	KindComplexity,
	KindDuplications,
	KindQualityGate,
	KindTests,
	KindTechDebt,
}

// SonarGroupMetrics holds the metrics queried on the Sonar server for each numeric group.
// The quality gate group is queried through AlertStatus and published as QualityGateStatusMetric
var SonarGroupMetrics = map[GroupKind][]MetricName{
	KindIssues: {
		BlockerViolations, NewBlockerViolations,
		CriticalViolations, NewCriticalViolations,
		MajorViolations, NewMajorViolations,
		MinorViolations, NewMinorViolations,
		InfoViolations, NewInfoViolations,
	},
	KindComplexity:   {Complexity, ClassComplexity, FileComplexity, FunctionComplexity},
	KindDuplications: {DuplicatedBlocks, DuplicatedFiles, DuplicatedLines, DuplicatedLinesDensity},
	KindTests:        {Coverage, NewCoverage},
	KindTechDebt:     {SqaleIndex, SqaleDebtRatio},
}

var trackerMetrics = map[MetricName]struct{}{
	PointsAccepted: {}, PointsDelivered: {}, PointsFinished: {}, PointsStarted: {},
	PointsRejected: {}, PointsPlanned: {}, PointsUnstarted: {}, PointsUnscheduled: {},
	CountsAccepted: {}, CountsDelivered: {}, CountsFinished: {}, CountsStarted: {},
	CountsRejected: {}, CountsPlanned: {}, CountsUnstarted: {}, CountsUnscheduled: {},
}

// ParseTrackerMetric validates a tracker history column name
func ParseTrackerMetric(column string) (MetricName, bool) {
	name := MetricName(column)
	_, ok := trackerMetrics[name]

	return name, ok
}

// QualityGateStatus is the numeric form of the Sonar quality gate verdict
type QualityGateStatus int

// Quality gate verdicts
const (
	QualityGateError QualityGateStatus = -2
	QualityGateWarn  QualityGateStatus = -1
	QualityGateOK    QualityGateStatus = 0
)

// ParseQualityGateStatus maps the raw Sonar alert status. The second return value is false for unknown statuses
func ParseQualityGateStatus(raw string) (QualityGateStatus, bool) {
	switch raw {
	case "ERROR":
		return QualityGateError, true
	case "WARN":
		return QualityGateWarn, true
	case "OK":
		return QualityGateOK, true
	default:
		return 0, false
	}
}
