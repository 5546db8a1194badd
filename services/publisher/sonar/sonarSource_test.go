package sonar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/cyclops23/sonar-data-publish/services/publisher/common"
	"github.com/cyclops23/sonar-data-publish/services/publisher/poller"
	"github.com/cyclops23/sonar-data-publish/services/publisher/testsCommon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func timemachineBody(value string) string {
	return fmt.Sprintf(`[{"cols":[{"metric":"m"}],"cells":[{"d":"2015-01-01T00:00:00+0000","v":[1]},{"d":"2015-01-02T00:00:00+0000","v":[%s]}]}]`, value)
}

func createMockArgs(values map[string]string) ArgsSonarSource {
	return ArgsSonarSource{
		Poller: &testsCommon.PollerStub{
			GetHandler: func(ctx context.Context, endpoint string, query url.Values) (gjson.Result, error) {
				if endpoint == resourcesEndpoint {
					return gjson.Parse(`[{"key":"A"},{"key":"B"},{"key":"C"}]`), nil
				}

				value, ok := values[query.Get("metrics")]
				if !ok {
					return gjson.Parse(`[]`), nil
				}

				return gjson.Parse(timemachineBody(value)), nil
			},
		},
		Collection: "sonar",
	}
}

func TestNewSonarSource(t *testing.T) {
	t.Parallel()

	t.Run("nil poller should error", func(t *testing.T) {
		t.Parallel()

		args := createMockArgs(nil)
		args.Poller = nil
		source, err := NewSonarSource(args)
		assert.Nil(t, source)
		assert.True(t, source.IsInterfaceNil())
		assert.Equal(t, ErrNilPoller, err)
	})
	t.Run("empty collection should error", func(t *testing.T) {
		t.Parallel()

		args := createMockArgs(nil)
		args.Collection = ""
		source, err := NewSonarSource(args)
		assert.Nil(t, source)
		assert.Equal(t, ErrEmptyCollection, err)
	})
	t.Run("should work and apply defaults", func(t *testing.T) {
		t.Parallel()

		source, err := NewSonarSource(createMockArgs(nil))
		assert.Nil(t, err)
		assert.False(t, source.IsInterfaceNil())
		assert.Equal(t, "sonar", source.Name())
		assert.Equal(t, defaultQualifiers, source.qualifiers)
		assert.False(t, source.window.To.IsZero())
		assert.True(t, source.window.From.IsZero())
	})
}

func TestSonarSource_Projects(t *testing.T) {
	t.Parallel()

	t.Run("no filter should return all", func(t *testing.T) {
		t.Parallel()

		source, _ := NewSonarSource(createMockArgs(nil))
		projects, err := source.Projects(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []common.Project{{Key: "A"}, {Key: "B"}, {Key: "C"}}, projects)
	})
	t.Run("filter should intersect", func(t *testing.T) {
		t.Parallel()

		args := createMockArgs(nil)
		args.ProjectsFilter = []string{"B", "D"}
		source, _ := NewSonarSource(args)
		projects, err := source.Projects(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []common.Project{{Key: "B"}}, projects)
	})
	t.Run("query should select trackable resources", func(t *testing.T) {
		t.Parallel()

		var receivedQuery url.Values
		args := createMockArgs(nil)
		args.Poller = &testsCommon.PollerStub{
			GetHandler: func(ctx context.Context, endpoint string, query url.Values) (gjson.Result, error) {
				receivedQuery = query
				return gjson.Parse(`[]`), nil
			},
		}
		source, _ := NewSonarSource(args)
		projects, err := source.Projects(context.Background())
		require.NoError(t, err)
		assert.Empty(t, projects)
		assert.Equal(t, "TRK", receivedQuery.Get("qualifiers"))
		assert.Equal(t, "json", receivedQuery.Get("format"))
	})
	t.Run("unexpected body should error", func(t *testing.T) {
		t.Parallel()

		args := createMockArgs(nil)
		args.Poller = &testsCommon.PollerStub{
			GetHandler: func(ctx context.Context, endpoint string, query url.Values) (gjson.Result, error) {
				return gjson.Parse(`{"err_code":500}`), nil
			},
		}
		source, _ := NewSonarSource(args)
		projects, err := source.Projects(context.Background())
		assert.Nil(t, projects)
		require.Error(t, err)
		assert.Contains(t, err.Error(), resourcesEndpoint)
	})
	t.Run("poller error should propagate", func(t *testing.T) {
		t.Parallel()

		expectedErr := errors.New("expected error")
		args := createMockArgs(nil)
		args.Poller = &testsCommon.PollerStub{
			GetHandler: func(ctx context.Context, endpoint string, query url.Values) (gjson.Result, error) {
				return gjson.Result{}, expectedErr
			},
		}
		source, _ := NewSonarSource(args)
		_, err := source.Projects(context.Background())
		assert.Equal(t, expectedErr, err)
	})
}

func TestSonarSource_FetchGroup(t *testing.T) {
	t.Parallel()

	project := common.Project{Key: "A"}

	t.Run("absent metrics are omitted", func(t *testing.T) {
		t.Parallel()

		source, _ := NewSonarSource(createMockArgs(map[string]string{
			"complexity":          "120",
			"function_complexity": "null",
		}))
		group, err := source.FetchGroup(context.Background(), common.KindComplexity, project)
		require.NoError(t, err)
		assert.Equal(t, common.MetricGroup{common.Complexity: 120}, group)
	})
	t.Run("empty cells are omitted", func(t *testing.T) {
		t.Parallel()

		args := createMockArgs(nil)
		args.Poller = &testsCommon.PollerStub{
			GetHandler: func(ctx context.Context, endpoint string, query url.Values) (gjson.Result, error) {
				return gjson.Parse(`[{"cols":[{"metric":"coverage"}],"cells":[]}]`), nil
			},
		}
		source, _ := NewSonarSource(args)
		group, err := source.Tests(context.Background(), project.Key)
		require.NoError(t, err)
		assert.Empty(t, group)
		assert.NotNil(t, group)
	})
	t.Run("issues group holds current and new violations", func(t *testing.T) {
		t.Parallel()

		source, _ := NewSonarSource(createMockArgs(map[string]string{
			"blocker_violations":     "1",
			"new_blocker_violations": "0",
			"major_violations":       "42",
			"info_violations":        `"7"`,
		}))
		group, err := source.FetchGroup(context.Background(), common.KindIssues, project)
		require.NoError(t, err)
		assert.Equal(t, common.MetricGroup{
			common.BlockerViolations:    1,
			common.NewBlockerViolations: 0,
			common.MajorViolations:      42,
			common.InfoViolations:       7,
		}, group)
	})
	t.Run("every group accessor uses its own metrics", func(t *testing.T) {
		t.Parallel()

		source, _ := NewSonarSource(createMockArgs(map[string]string{
			"duplicated_lines_density": "3.5",
			"coverage":                 "81.2",
			"new_coverage":             "90",
			"sqale_index":              "1440",
			"sqale_debt_ratio":         "0.4",
			"class_complexity":         "12",
		}))
		ctx := context.Background()

		group, err := source.Duplications(ctx, project.Key)
		require.NoError(t, err)
		assert.Equal(t, common.MetricGroup{common.DuplicatedLinesDensity: 3.5}, group)

		group, err = source.Tests(ctx, project.Key)
		require.NoError(t, err)
		assert.Equal(t, common.MetricGroup{common.Coverage: 81.2, common.NewCoverage: 90}, group)

		group, err = source.TechDebt(ctx, project.Key)
		require.NoError(t, err)
		assert.Equal(t, common.MetricGroup{common.SqaleIndex: 1440, common.SqaleDebtRatio: 0.4}, group)

		group, err = source.Complexity(ctx, project.Key)
		require.NoError(t, err)
		assert.Equal(t, common.MetricGroup{common.ClassComplexity: 12}, group)

		group, err = source.Issues(ctx, project.Key)
		require.NoError(t, err)
		assert.Empty(t, group)
	})
	t.Run("quality gate statuses", func(t *testing.T) {
		t.Parallel()

		for raw, expected := range map[string]common.MetricGroup{
			`"OK"`:    {common.QualityGateStatusMetric: 0},
			`"WARN"`:  {common.QualityGateStatusMetric: -1},
			`"ERROR"`: {common.QualityGateStatusMetric: -2},
			`"NONE"`:  {},
			`null`:    {},
		} {
			source, _ := NewSonarSource(createMockArgs(map[string]string{"alert_status": raw}))
			group, err := source.FetchGroup(context.Background(), common.KindQualityGate, project)
			require.NoError(t, err)
			assert.Equal(t, expected, group, "status %s", raw)
		}

		source, _ := NewSonarSource(createMockArgs(nil))
		group, err := source.QualityGate(context.Background(), project.Key)
		require.NoError(t, err)
		assert.Empty(t, group)
	})
	t.Run("non numeric value should error", func(t *testing.T) {
		t.Parallel()

		source, _ := NewSonarSource(createMockArgs(map[string]string{"coverage": `"lots"`}))
		group, err := source.FetchGroup(context.Background(), common.KindTests, project)
		assert.Nil(t, group)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "coverage")
	})
	t.Run("unknown group should error", func(t *testing.T) {
		t.Parallel()

		source, _ := NewSonarSource(createMockArgs(nil))
		group, err := source.FetchGroup(context.Background(), common.KindHistory, project)
		assert.Nil(t, group)
		assert.True(t, errors.Is(err, ErrUnknownGroupKind))
	})
	t.Run("time window is forwarded", func(t *testing.T) {
		t.Parallel()

		var receivedQuery url.Values
		args := createMockArgs(nil)
		args.Window = common.TimeWindow{
			From: time.Date(2016, 3, 1, 10, 0, 0, 0, time.UTC),
			To:   time.Date(2016, 3, 2, 10, 0, 0, 0, time.UTC),
		}
		args.Poller = &testsCommon.PollerStub{
			GetHandler: func(ctx context.Context, endpoint string, query url.Values) (gjson.Result, error) {
				receivedQuery = query
				return gjson.Parse(`[]`), nil
			},
		}
		source, _ := NewSonarSource(args)
		_, err := source.QualityGate(context.Background(), "proj")
		require.NoError(t, err)
		assert.Equal(t, "alert_status", receivedQuery.Get("metrics"))
		assert.Equal(t, "proj", receivedQuery.Get("resource"))
		assert.Equal(t, "2016-03-01T10:00:00Z", receivedQuery.Get("fromDateTime"))
		assert.Equal(t, "2016-03-02T10:00:00Z", receivedQuery.Get("toDateTime"))
	})
	t.Run("open window does not send the start time", func(t *testing.T) {
		t.Parallel()

		var receivedQuery url.Values
		args := createMockArgs(nil)
		args.Poller = &testsCommon.PollerStub{
			GetHandler: func(ctx context.Context, endpoint string, query url.Values) (gjson.Result, error) {
				receivedQuery = query
				return gjson.Parse(`[]`), nil
			},
		}
		source, _ := NewSonarSource(args)
		_, err := source.QualityGate(context.Background(), "proj")
		require.NoError(t, err)
		_, found := receivedQuery["fromDateTime"]
		assert.False(t, found)
		assert.NotEmpty(t, receivedQuery.Get("toDateTime"))
	})
}

func TestSonarSource_UpstreamFailure(t *testing.T) {
	t.Parallel()

	numCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		numCalls++
		if r.URL.Query().Get("metrics") == "file_complexity" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(timemachineBody("5")))
	}))
	defer server.Close()

	httpPoller, err := poller.NewHTTPPoller(poller.ArgsHTTPPoller{BaseURL: server.URL, Timeout: time.Second})
	require.NoError(t, err)

	source, err := NewSonarSource(ArgsSonarSource{Poller: httpPoller, Collection: "sonar"})
	require.NoError(t, err)

	group, err := source.Complexity(context.Background(), "A")
	assert.Nil(t, group)
	require.Error(t, err)
	assert.Contains(t, err.Error(), timemachineEndpoint)
	assert.Contains(t, err.Error(), "500")
	// complexity, class_complexity, file_complexity; function_complexity is never queried
	assert.Equal(t, 3, numCalls)
}
