package compare

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/ewa-cli/internal/model"
)

func summary(system, kpi string, status model.Status) model.SummaryRecord {
	return model.SummaryRecord{
		System:     system,
		ReportDate: time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC),
		PrimaryKPI: kpi,
		Status:     status,
	}
}

func TestDiff(t *testing.T) {
	t.Parallel()

	old := []model.SummaryRecord{
		summary("PRD", "Security", model.StatusRed),
		summary("PRD", "Hardware Capacity", model.StatusGreen),
		summary("PRD", "Upgrade Planning", model.StatusYellow),
	}
	cur := []model.SummaryRecord{
		summary("PRD", "Security", model.StatusYellow),
		summary("PRD", "Hardware Capacity", model.StatusRed),
		summary("PRD", "Upgrade Planning", model.StatusYellow),
		summary("PRD", "UI Technologies checks", model.StatusGreen),
	}

	deltas := Diff(old, cur)
	require.Len(t, deltas, 4)

	byKPI := make(map[string]Delta)
	for _, d := range deltas {
		byKPI[d.PrimaryKPI] = d
	}

	assert.Equal(t, ChangeImprovement, byKPI["Security"].Change)
	assert.Equal(t, ChangeDeterioration, byKPI["Hardware Capacity"].Change)
	assert.Equal(t, ChangeNone, byKPI["Upgrade Planning"].Change)
	assert.Equal(t, ChangeNew, byKPI["UI Technologies checks"].Change)

	// Sorted by system, then KPI.
	assert.Equal(t, "Hardware Capacity", deltas[0].PrimaryKPI)
	assert.Equal(t, "Upgrade Planning", deltas[3].PrimaryKPI)
}

func TestDiffKeysBySystem(t *testing.T) {
	t.Parallel()

	old := []model.SummaryRecord{summary("PRD", "Security", model.StatusGreen)}
	cur := []model.SummaryRecord{summary("QAS", "Security", model.StatusGreen)}

	deltas := Diff(old, cur)
	require.Len(t, deltas, 1)
	assert.Equal(t, ChangeNew, deltas[0].Change)
}

func TestRiskScore(t *testing.T) {
	t.Parallel()

	deterioration := func(from, to model.Status) Delta {
		return Delta{From: from, To: to, Change: ChangeDeterioration}
	}

	t.Run("no deterioration is low", func(t *testing.T) {
		t.Parallel()
		score, level := RiskScore([]Delta{
			{From: model.StatusRed, To: model.StatusGreen, Change: ChangeImprovement},
			{To: model.StatusRed, Change: ChangeNew},
		})
		assert.Zero(t, score)
		assert.Equal(t, RiskLow, level)
	})

	t.Run("single step down is medium", func(t *testing.T) {
		t.Parallel()
		score, level := RiskScore([]Delta{deterioration(model.StatusGreen, model.StatusYellow)})
		assert.Equal(t, 1.0, score)
		assert.Equal(t, RiskMedium, level)
	})

	t.Run("green to red counts double", func(t *testing.T) {
		t.Parallel()
		score, level := RiskScore([]Delta{deterioration(model.StatusGreen, model.StatusRed)})
		assert.Equal(t, 2.0, score)
		assert.Equal(t, RiskMedium, level)
	})

	t.Run("accumulated score of three is high", func(t *testing.T) {
		t.Parallel()
		score, level := RiskScore([]Delta{
			deterioration(model.StatusGreen, model.StatusRed),
			deterioration(model.StatusYellow, model.StatusRed),
		})
		assert.Equal(t, 3.0, score)
		assert.Equal(t, RiskHigh, level)
	})
}

func TestCleanSection(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"outline prefix", "3.2 Hardware Capacity", "Hardware Capacity"},
		{"deep outline prefix", "12.4.1. Transport Management", "Transport Management"},
		{"whitespace collapse", "  Security \n Overview ", "Security Overview"},
		{"sap casing", "Sap System Operating", "SAP System Operating"},
		{"abap casing", "Abap Stack", "ABAP Stack"},
		{"hana casing", "Hana Database", "HANA Database"},
		{"netweaver casing", "Netweaver Gateway", "NetWeaver Gateway"},
		{"already clean", "Security", "Security"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, CleanSection(tc.in))
		})
	}
}
