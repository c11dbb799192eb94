package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/naka-gawa/devdash/internal/domain"
	"github.com/naka-gawa/devdash/internal/gateway"
	"github.com/naka-gawa/devdash/internal/usecase"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*httptest.Server, *usecase.Aggregator) {
	t.Helper()
	gw := gateway.NewSeedGateway(testNow, zap.NewNop())
	agg := usecase.NewAggregator(gw, zap.NewNop(), usecase.WithClock(func() time.Time { return testNow }))
	h := NewHandler(agg, usecase.DefaultHealthQuery(), zap.NewNop())
	server := httptest.NewServer(NewRouter(h, zap.NewNop()))
	t.Cleanup(server.Close)
	return server, agg
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

type errorBody struct {
	Error APIError `json:"error"`
}

func TestHealthz(t *testing.T) {
	server, _ := newTestServer(t)

	var body map[string]string
	resp := getJSON(t, server.URL+"/healthz", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestRequestID_Propagated(t *testing.T) {
	server, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "fixed-id")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "fixed-id", resp.Header.Get("X-Request-Id"))
}

func TestGetPullRequests(t *testing.T) {
	server, _ := newTestServer(t)

	testCases := []struct {
		name           string
		query          string
		expectedStatus int
		expectedTotal  int
		expectedMerged int
	}{
		{name: "default selection", query: "", expectedStatus: http.StatusOK, expectedTotal: 5, expectedMerged: 2},
		{name: "repository", query: "?repo=frontend-app", expectedStatus: http.StatusOK, expectedTotal: 2},
		{name: "authors and status", query: "?author=mike-johnson&author=david-kim&status=merged", expectedStatus: http.StatusOK, expectedTotal: 2, expectedMerged: 2},
		{name: "closed only", query: "?status=closed", expectedStatus: http.StatusOK, expectedTotal: 1},
		{name: "blank author selects everyone", query: "?author=", expectedStatus: http.StatusOK, expectedTotal: 5, expectedMerged: 2},
		{name: "blank authors mixed in", query: "?author=&author=%20&author=sarah-chen", expectedStatus: http.StatusOK, expectedTotal: 1},
		{name: "toggle author on", query: "?toggle_author=sarah-chen", expectedStatus: http.StatusOK, expectedTotal: 1},
		{name: "toggle author off", query: "?author=sarah-chen&toggle_author=sarah-chen", expectedStatus: http.StatusOK, expectedTotal: 5, expectedMerged: 2},
		{name: "toggle status off", query: "?toggle_status=merged", expectedStatus: http.StatusOK, expectedTotal: 3},
		{name: "bad status", query: "?status=draft", expectedStatus: http.StatusBadRequest},
		{name: "bad toggle status", query: "?toggle_status=draft", expectedStatus: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.expectedStatus != http.StatusOK {
				var body errorBody
				resp := getJSON(t, server.URL+"/api/prs"+tc.query, &body)
				assert.Equal(t, tc.expectedStatus, resp.StatusCode)
				assert.Equal(t, BadRequest, body.Error.Code)
				return
			}
			var report usecase.PRReport
			resp := getJSON(t, server.URL+"/api/prs"+tc.query, &report)
			assert.Equal(t, tc.expectedStatus, resp.StatusCode)
			assert.Equal(t, tc.expectedTotal, report.Metrics.TotalPRs)
			assert.Equal(t, tc.expectedMerged, report.Metrics.MergedPRs)
			assert.Len(t, report.PullRequests, tc.expectedTotal)
			assert.Equal(t, report.Metrics.TotalPRs, report.Metrics.OpenPRs+report.Metrics.MergedPRs+report.Metrics.ClosedPRs)
		})
	}
}

func TestGetHealth(t *testing.T) {
	server, _ := newTestServer(t)

	testCases := []struct {
		name             string
		query            string
		expectedStatus   int
		expectedFirst    string
		expectedAlerts   int
		expectedTimeline int
	}{
		{name: "defaults", query: "", expectedStatus: http.StatusOK, expectedFirst: "data-pipeline", expectedAlerts: 3, expectedTimeline: 4},
		{name: "sort by name ascending", query: "?sort=name&dir=asc", expectedStatus: http.StatusOK, expectedFirst: "backend-api", expectedAlerts: 3, expectedTimeline: 4},
		{name: "warning severity", query: "?severity=warning&threshold=70", expectedStatus: http.StatusOK, expectedFirst: "data-pipeline", expectedAlerts: 2, expectedTimeline: 4},
		{name: "deployment events", query: "?event_type=deployment", expectedStatus: http.StatusOK, expectedFirst: "data-pipeline", expectedAlerts: 3, expectedTimeline: 1},
		{name: "toggle new column starts descending", query: "?toggle_sort=name", expectedStatus: http.StatusOK, expectedFirst: "mobile-app", expectedAlerts: 3, expectedTimeline: 4},
		{name: "toggle active column flips", query: "?sort=name&dir=asc&toggle_sort=name", expectedStatus: http.StatusOK, expectedFirst: "mobile-app", expectedAlerts: 3, expectedTimeline: 4},
		{name: "toggle default column", query: "?toggle_sort=health_score", expectedStatus: http.StatusOK, expectedFirst: "mobile-app", expectedAlerts: 3, expectedTimeline: 4},
		{name: "bad threshold", query: "?threshold=300", expectedStatus: http.StatusBadRequest},
		{name: "bad severity", query: "?severity=loud", expectedStatus: http.StatusBadRequest},
		{name: "bad sort", query: "?sort=stars", expectedStatus: http.StatusBadRequest},
		{name: "bad direction", query: "?dir=sideways", expectedStatus: http.StatusBadRequest},
		{name: "bad toggle", query: "?toggle_sort=stars", expectedStatus: http.StatusBadRequest},
		{name: "bad event type", query: "?event_type=rollback", expectedStatus: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.expectedStatus != http.StatusOK {
				var body errorBody
				resp := getJSON(t, server.URL+"/api/health"+tc.query, &body)
				assert.Equal(t, tc.expectedStatus, resp.StatusCode)
				assert.Equal(t, BadRequest, body.Error.Code)
				return
			}
			var report usecase.HealthReport
			resp := getJSON(t, server.URL+"/api/health"+tc.query, &report)
			assert.Equal(t, tc.expectedStatus, resp.StatusCode)
			require.NotEmpty(t, report.Repositories)
			assert.Equal(t, tc.expectedFirst, report.Repositories[0].Name)
			assert.Len(t, report.Alerts, tc.expectedAlerts)
			assert.Len(t, report.Timeline, tc.expectedTimeline)
		})
	}
}

func TestAlertActions(t *testing.T) {
	server, agg := newTestServer(t)

	resp, err := http.Post(server.URL+"/api/alerts/1/ack", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	report, err := agg.Health(context.Background(), usecase.DefaultHealthQuery())
	require.NoError(t, err)
	assert.Empty(t, report.CriticalAlerts)
	assert.Equal(t, 1, report.Unacknowledged)

	resp, err = http.Post(server.URL+"/api/alerts/2/dismiss", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Post(server.URL+"/api/alerts/abc/ack", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	for _, path := range []string{"/api/alerts/99/ack", "/api/alerts/99/dismiss"} {
		resp, err = http.Post(server.URL+path, "application/json", nil)
		require.NoError(t, err)
		var body errorBody
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Equal(t, NotFound, body.Error.Code, path)
	}
}

func TestDismissCriticalAlerts(t *testing.T) {
	server, agg := newTestServer(t)

	dismiss := func() []int {
		resp, err := http.Post(server.URL+"/api/alerts/critical/dismiss", "application/json", nil)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var body struct {
			Dismissed []int `json:"dismissed"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		return body.Dismissed
	}

	assert.Equal(t, []int{1}, dismiss())
	assert.Empty(t, dismiss())

	report, err := agg.Health(context.Background(), usecase.DefaultHealthQuery())
	require.NoError(t, err)
	assert.Empty(t, report.CriticalAlerts)
	assert.Len(t, report.Alerts, 3)
}

func TestGetLastUpdated(t *testing.T) {
	server, _ := newTestServer(t)

	var body map[string]time.Time
	resp := getJSON(t, server.URL+"/api/last-updated", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, testNow.Equal(body["prs"]))
	assert.True(t, testNow.Equal(body["health"]))
}

type failingDashboards struct {
	*usecase.Aggregator
}

func (failingDashboards) PullRequests(context.Context, domain.FilterSelection) (*usecase.PRReport, error) {
	return nil, errors.New("fixture unavailable")
}

func (failingDashboards) Health(context.Context, usecase.HealthQuery) (*usecase.HealthReport, error) {
	panic("unexpected")
}

func TestServiceFailures(t *testing.T) {
	agg := usecase.NewAggregator(gateway.NewSeedGateway(testNow, zap.NewNop()), zap.NewNop())
	h := NewHandler(failingDashboards{agg}, usecase.DefaultHealthQuery(), zap.NewNop())
	server := httptest.NewServer(NewRouter(h, zap.NewNop()))
	defer server.Close()

	var body errorBody
	resp := getJSON(t, server.URL+"/api/prs", &body)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, InternalError, body.Error.Code)

	body = errorBody{}
	resp = getJSON(t, server.URL+"/api/health", &body)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, InternalError, body.Error.Code)
}
