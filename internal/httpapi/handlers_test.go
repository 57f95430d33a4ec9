package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neopir/internal/audit"
	"neopir/internal/inventory"
	"neopir/internal/report"
	"neopir/internal/scoring"
)

func newTestServer(t *testing.T) (*httptest.Server, *audit.Logger) {
	t.Helper()
	auditLog := audit.NewLogger(filepath.Join(t.TempDir(), "audit.sqlite"))
	srv, err := NewServer(Config{
		Inventory: inventory.MustDefault(),
		Audit:     auditLog,
		Registry:  prometheus.NewRegistry(),
		Now:       func() time.Time { return time.Date(2026, 1, 17, 0, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, auditLog
}

func allAnswers(v int) scoring.Responses {
	r := scoring.Responses{}
	for _, it := range inventory.MustDefault().Items() {
		r[it.ID] = v
	}
	return r
}

func postScore(t *testing.T, ts *httptest.Server, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(ts.URL+"/api/v1/score", "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestListItems(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/v1/items")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got itemsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Len(t, got.Items, 60)
	assert.Equal(t, "N1", got.Items[0].ID)
	assert.Len(t, got.Labels, 5)
	assert.Equal(t, 5, got.ScaleMax)

	resp2, err := http.Get(ts.URL + "/api/v1/items/O5")
	require.NoError(t, err)
	defer resp2.Body.Close()
	var item itemView
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&item))
	assert.Equal(t, "Ideas", item.Facet)

	resp3, err := http.Get(ts.URL + "/api/v1/items/Q1")
	require.NoError(t, err)
	defer resp3.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp3.StatusCode)
}

func TestScoreComplete(t *testing.T) {
	ts, auditLog := newTestServer(t)
	resp := postScore(t, ts, scoreRequest{SessionID: "s1", Responses: allAnswers(3), Strict: true})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rep report.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rep))
	assert.Equal(t, "s1", rep.SessionID)
	assert.Equal(t, "2026-01-17T00:00:00Z", rep.GeneratedAt)
	require.Len(t, rep.Dimensions, 5)
	for _, d := range rep.Dimensions {
		assert.Equal(t, 60.0, d.Percentile)
		assert.Equal(t, scoring.LevelMedium, d.Level)
	}

	events, err := auditLog.Recent(0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "score_finished", events[0].Type)
	assert.Equal(t, "score_started", events[1].Type)
}

func TestScorePartialLenientAndStrict(t *testing.T) {
	ts, _ := newTestServer(t)

	partial := scoring.Responses{"N1": 5, "E1": 2}
	resp := postScore(t, ts, scoreRequest{Responses: partial})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rep report.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rep))
	assert.Equal(t, 2, rep.Answered)

	resp = postScore(t, ts, scoreRequest{Responses: partial, Strict: true})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var errResp errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Len(t, errResp.Missing, 58)
	assert.Equal(t, "N2", errResp.Missing[0])
}

func TestScoreRejectsInvalidInput(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postScore(t, ts, scoreRequest{Responses: scoring.Responses{"N1": 0}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postScore(t, ts, scoreRequest{Responses: scoring.Responses{"ZZ": 3}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	raw, err := http.Post(ts.URL+"/api/v1/score", "application/json", strings.NewReader(`{"responses":{"N1":3},"extra":1}`))
	require.NoError(t, err)
	defer raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	postScore(t, ts, scoreRequest{Responses: allAnswers(3)})
	postScore(t, ts, scoreRequest{Responses: scoring.Responses{"N1": 9}})

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	text := string(body)
	assert.Contains(t, text, `neopir_api_score_submissions_total{outcome="scored"} 1`)
	assert.Contains(t, text, `neopir_api_score_submissions_total{outcome="invalid"} 1`)
	assert.Contains(t, text, `neopir_api_dimension_levels_total{dimension="E",level="Medium"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	ts, _ := newTestServer(t)
	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/v1/score", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.test")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestNewServerRequiresInventory(t *testing.T) {
	_, err := NewServer(Config{})
	assert.Error(t, err)
}
