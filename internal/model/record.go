// Package model holds the record types and the status enum shared by the
// extraction pipeline, the store, and the presentation commands.
package model

import "time"

// NoLabel is the label sentinel used when a detected row carries no usable
// text.
const NoLabel = "(no label)"

// NoAlertSource is the provenance sentinel for summary rows synthesized by
// the padder. A GREEN row with this source means "no finding detected",
// which is not the same as a confirmed-green finding.
const NoAlertSource = "No alert"

// DetailRecord is one raw detected status finding, before KPI
// classification. Records are immutable once created; a run recomputes
// them wholesale from the source documents.
type DetailRecord struct {
	System     string    `json:"system"`
	ReportDate time.Time `json:"report_date"`
	Section    string    `json:"section"`
	Label      string    `json:"kpi_text"`
	Status     Status    `json:"status"`
	SourceFile string    `json:"source_file"`
}

// SummaryRecord is one finalized per-date-per-KPI status entry. For every
// report date in a successful run there is exactly one SummaryRecord per
// canonical KPI.
type SummaryRecord struct {
	System     string    `json:"system"`
	ReportDate time.Time `json:"report_date"`
	PrimaryKPI string    `json:"primary_kpi"`
	Status     Status    `json:"status"`
	SourceFile string    `json:"source_file"`
}

// DateKey formats a report date the way the output tables store it.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
