package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/fishing-planner/internal/planner"
	"github.com/i474232898/fishing-planner/internal/reference"
	"github.com/i474232898/fishing-planner/internal/store"
)

type fakePlanner struct {
	got    planner.PlanRequest
	result *planner.PlanResult
	err    error
}

func (f *fakePlanner) Plan(_ context.Context, req planner.PlanRequest) (*planner.PlanResult, error) {
	f.got = req
	return f.result, f.err
}

func newTestApp(t *testing.T, p Planner, conditions Conditions) *fiber.App {
	t.Helper()
	catalog, err := reference.Load()
	require.NoError(t, err)

	app := fiber.New()
	RegisterRoutes(app, p, catalog, conditions)
	return app
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (int, string) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestMetaRegions(t *testing.T) {
	app := newTestApp(t, &fakePlanner{}, store.NewMemoryStore(10, 0))

	status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/meta/regions", nil))
	require.Equal(t, http.StatusOK, status)

	var payload struct {
		Regions     []reference.Region `json:"regions"`
		Species     []string           `json:"species"`
		SpeciesInfo []speciesInfo      `json:"species_info"`
		Defaults    map[string]string  `json:"defaults"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	assert.Len(t, payload.Regions, 3)
	assert.Contains(t, payload.Species, "kob")
	assert.Len(t, payload.SpeciesInfo, len(payload.Species))
	assert.NotEmpty(t, payload.SpeciesInfo[0].Baits)
	assert.Equal(t, "western_cape", payload.Defaults["region_id"])
	assert.Equal(t, "false_bay", payload.Defaults["area_id"])
}

func TestPlanEndpoint(t *testing.T) {
	p := &fakePlanner{result: &planner.PlanResult{
		Species: []string{"kob"},
		Results: []planner.ScoredWindow{{Date: "2025-12-01", WindowID: "dawn", Score: 42}},
	}}
	app := newTestApp(t, p, store.NewMemoryStore(10, 0))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/plan", strings.NewReader(
		`{"region_id":"western_cape","area_id":"false_bay","species":["kob"],"start_date":"2025-12-01","end_date":"2025-12-02"}`))
	req.Header.Set("Content-Type", "application/json")

	status, body := doRequest(t, app, req)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "false_bay", p.got.AreaID)
	assert.Equal(t, []string{"kob"}, p.got.Species)
	assert.Equal(t, "2025-12-02", p.got.EndDate)

	var result planner.PlanResult
	require.NoError(t, json.Unmarshal([]byte(body), &result))
	require.Len(t, result.Results, 1)
	assert.Equal(t, 42.0, result.Results[0].Score)
}

func TestPlanEndpointErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		planErr    error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "malformed body",
			body:       `{"region_id":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing required fields",
			body:       `{"region_id":"western_cape"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "planner validation error",
			body:       `{"region_id":"western_cape","area_id":"false_bay","start_date":"2025-12-01","end_date":"2025-12-30"}`,
			planErr:    &planner.ValidationError{Message: "limit date range to 10 days or fewer"},
			wantStatus: http.StatusBadRequest,
			wantBody:   "limit date range to 10 days or fewer",
		},
		{
			name:       "upstream failure",
			body:       `{"region_id":"western_cape","area_id":"false_bay","start_date":"2025-12-01","end_date":"2025-12-01"}`,
			planErr:    errors.New("dial tcp: timeout"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "failed to build plan",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, &fakePlanner{err: tt.planErr}, store.NewMemoryStore(10, 0))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/plan", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			status, body := doRequest(t, app, req)
			assert.Equal(t, tt.wantStatus, status)
			if tt.wantBody != "" {
				assert.Contains(t, body, tt.wantBody)
			}
		})
	}
}

func TestConditionsLatest(t *testing.T) {
	memStore := store.NewMemoryStore(10, 0)
	app := newTestApp(t, &fakePlanner{}, memStore)

	// Missing area parameter.
	status, _ := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/conditions/latest?region=western_cape", nil))
	assert.Equal(t, http.StatusBadRequest, status)

	// Nothing collected yet.
	status, _ = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/conditions/latest?region=western_cape&area=false_bay", nil))
	assert.Equal(t, http.StatusNotFound, status)

	memStore.SaveSnapshot(planner.ConditionsSnapshot{
		RunID:       "run-1",
		RegionID:    "western_cape",
		AreaID:      "false_bay",
		Date:        "2025-12-01",
		CollectedAt: time.Now().UTC(),
	})

	status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/conditions/latest?region=western_cape&area=false_bay", nil))
	require.Equal(t, http.StatusOK, status)

	var snap planner.ConditionsSnapshot
	require.NoError(t, json.Unmarshal([]byte(body), &snap))
	assert.Equal(t, "run-1", snap.RunID)
}

func TestConditionsHistory(t *testing.T) {
	memStore := store.NewMemoryStore(10, 0)
	app := newTestApp(t, &fakePlanner{}, memStore)

	collected := time.Date(2025, 12, 1, 6, 0, 0, 0, time.UTC)
	memStore.SaveSnapshot(planner.ConditionsSnapshot{
		RunID:       "run-1",
		RegionID:    "western_cape",
		AreaID:      "false_bay",
		CollectedAt: collected,
	})

	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{name: "missing range", query: "region=western_cape&area=false_bay", wantStatus: http.StatusBadRequest},
		{name: "bad time", query: "region=western_cape&area=false_bay&from=yesterday&to=today", wantStatus: http.StatusBadRequest},
		{name: "inverted range", query: "region=western_cape&area=false_bay&from=2025-12-02T00:00:00Z&to=2025-12-01T00:00:00Z", wantStatus: http.StatusBadRequest},
		{name: "empty range", query: "region=western_cape&area=false_bay&from=2025-11-01T00:00:00Z&to=2025-11-02T00:00:00Z", wantStatus: http.StatusNotFound},
		{name: "rfc3339 range", query: "region=western_cape&area=false_bay&from=2025-12-01T00:00:00Z&to=2025-12-02T00:00:00Z", wantStatus: http.StatusOK},
		{name: "unix range", query: "region=western_cape&area=false_bay&from=1764547200&to=1764633600", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/conditions/history?"+tt.query, nil))
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}
