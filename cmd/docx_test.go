package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/ewa-cli/internal/kpi"
	"github.com/sells-group/ewa-cli/internal/model"
)

func TestBuildDocxSummary(t *testing.T) {
	t.Parallel()

	tax := kpi.Default()
	date := time.Date(2025, 11, 24, 0, 0, 0, 0, time.UTC)

	t.Run("classified records pad to the full taxonomy", func(t *testing.T) {
		t.Parallel()
		records := []model.DetailRecord{{
			System:     "A1C",
			ReportDate: date,
			Section:    "Security",
			Label:      "Security",
			Status:     model.StatusRed,
			SourceFile: "a.docx",
		}}

		padded, err := buildDocxSummary(records, tax, "A1C")
		require.NoError(t, err)
		require.Len(t, padded, tax.Len())

		byKPI := make(map[string]model.SummaryRecord)
		for _, s := range padded {
			byKPI[s.PrimaryKPI] = s
		}
		assert.Equal(t, model.StatusRed, byKPI["Security"].Status)
		assert.Equal(t, model.NoAlertSource, byKPI["Hardware Capacity"].SourceFile)
	})

	t.Run("no records at all is fatal", func(t *testing.T) {
		t.Parallel()
		_, err := buildDocxSummary(nil, tax, "A1C")
		assert.Error(t, err)
	})

	t.Run("only unclassifiable records is fatal", func(t *testing.T) {
		t.Parallel()
		records := []model.DetailRecord{{
			System:     "A1C",
			ReportDate: date,
			Section:    "Document history",
			Label:      "Document history",
			Status:     model.StatusRed,
			SourceFile: "a.docx",
		}}

		_, err := buildDocxSummary(records, tax, "A1C")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no records classified")
	})
}
