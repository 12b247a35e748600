package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/ewa-cli/internal/model"
	"github.com/sells-group/ewa-cli/internal/store"
)

// fakeStore serves canned records and captures the filters it was asked
// for.
type fakeStore struct {
	summaries  []model.SummaryRecord
	details    []model.DetailRecord
	lastFilter store.Filter
}

func (f *fakeStore) SaveDetail(ctx context.Context, records []model.DetailRecord) error   { return nil }
func (f *fakeStore) SaveSummary(ctx context.Context, records []model.SummaryRecord) error { return nil }
func (f *fakeStore) Migrate(ctx context.Context) error                                    { return nil }
func (f *fakeStore) Close() error                                                         { return nil }
func (f *fakeStore) Dates(ctx context.Context) ([]time.Time, error)                       { return nil, nil }

func (f *fakeStore) ListDetail(ctx context.Context, flt store.Filter) ([]model.DetailRecord, error) {
	f.lastFilter = flt
	return f.details, nil
}

func (f *fakeStore) ListSummary(ctx context.Context, flt store.Filter) ([]model.SummaryRecord, error) {
	f.lastFilter = flt
	var out []model.SummaryRecord
	for _, s := range f.summaries {
		if flt.Date != "" && model.DateKey(s.ReportDate) != flt.Date {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func record(date, kpi string, status model.Status) model.SummaryRecord {
	d, _ := time.Parse("2006-01-02", date)
	return model.SummaryRecord{
		System:     "PRD",
		ReportDate: d,
		PrimaryKPI: kpi,
		Status:     status,
		SourceFile: "a.html",
	}
}

func TestServeMuxHealth(t *testing.T) {
	t.Parallel()

	mux := newServeMux(&fakeStore{})
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestServeMuxSummary(t *testing.T) {
	t.Parallel()

	st := &fakeStore{summaries: []model.SummaryRecord{
		record("2025-01-13", "Security", model.StatusRed),
	}}
	mux := newServeMux(st)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/summary?system=PRD&limit=5", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, store.Filter{System: "PRD", Limit: 5}, st.lastFilter)

	var got []model.SummaryRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Security", got[0].PrimaryKPI)
}

func TestServeMuxDetail(t *testing.T) {
	t.Parallel()

	st := &fakeStore{details: []model.DetailRecord{{
		System:     "PRD",
		Section:    "3.2 Sap Hardware Capacity",
		Label:      "CPU utilization",
		Status:     model.StatusRed,
		SourceFile: "a.html",
	}}}
	mux := newServeMux(st)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/detail?date=2025-01-13", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, store.Filter{Date: "2025-01-13"}, st.lastFilter)

	var got []model.DetailRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "SAP Hardware Capacity", got[0].Section)
}

func TestServeMuxCompare(t *testing.T) {
	t.Parallel()

	st := &fakeStore{summaries: []model.SummaryRecord{
		record("2025-01-13", "Security", model.StatusGreen),
		record("2025-01-20", "Security", model.StatusRed),
	}}
	mux := newServeMux(st)

	t.Run("missing params", func(t *testing.T) {
		t.Parallel()
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/compare?from=2025-01-13", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("green to red scores double", func(t *testing.T) {
		t.Parallel()
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/compare?from=2025-01-13&to=2025-01-20", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		var got struct {
			RiskScore float64 `json:"risk_score"`
			RiskLevel string  `json:"risk_level"`
			Deltas    []struct {
				Change string `json:"change"`
			} `json:"deltas"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, 2.0, got.RiskScore)
		assert.Equal(t, "MEDIUM", got.RiskLevel)
		require.Len(t, got.Deltas, 1)
		assert.Equal(t, "Deterioration", got.Deltas[0].Change)
	})
}
