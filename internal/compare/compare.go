// Package compare diffs two summary snapshots week over week and scores
// the aggregate risk of the movement.
package compare

import (
	"regexp"
	"sort"
	"strings"

	"github.com/sells-group/ewa-cli/internal/model"
)

// Change classifies the movement of one KPI between two snapshots.
type Change string

const (
	ChangeImprovement   Change = "Improvement"
	ChangeNone          Change = "No Change"
	ChangeDeterioration Change = "Deterioration"
	ChangeNew           Change = "New"
)

// RiskLevel is the aggregate assessment of a diff.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Delta is one KPI's movement between two snapshots.
type Delta struct {
	System     string       `json:"system"`
	PrimaryKPI string       `json:"primary_kpi"`
	From       model.Status `json:"from"`
	To         model.Status `json:"to"`
	Change     Change       `json:"change"`
}

// Diff compares two summary snapshots keyed by (system, KPI). KPIs
// absent from the old snapshot are reported as New. Output order is
// deterministic: sorted by system then KPI.
func Diff(old, cur []model.SummaryRecord) []Delta {
	type key struct{ system, kpi string }

	prev := make(map[key]model.Status, len(old))
	for _, r := range old {
		prev[key{r.System, r.PrimaryKPI}] = r.Status
	}

	var out []Delta
	for _, r := range cur {
		d := Delta{
			System:     r.System,
			PrimaryKPI: r.PrimaryKPI,
			To:         r.Status,
		}
		from, ok := prev[key{r.System, r.PrimaryKPI}]
		if !ok {
			d.Change = ChangeNew
			out = append(out, d)
			continue
		}
		d.From = from
		switch {
		case r.Status.Severity() > from.Severity():
			d.Change = ChangeDeterioration
		case r.Status.Severity() < from.Severity():
			d.Change = ChangeImprovement
		default:
			d.Change = ChangeNone
		}
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].System != out[j].System {
			return out[i].System < out[j].System
		}
		return out[i].PrimaryKPI < out[j].PrimaryKPI
	})
	return out
}

// RiskScore weighs deteriorations: a straight GREEN to RED flip counts
// double. Score of 3 or more is HIGH, any deterioration is at least
// MEDIUM.
func RiskScore(deltas []Delta) (float64, RiskLevel) {
	var score float64
	for _, d := range deltas {
		if d.Change != ChangeDeterioration {
			continue
		}
		if d.From == model.StatusGreen && d.To == model.StatusRed {
			score += 2.0
		} else {
			score += 1.0
		}
	}

	switch {
	case score >= 3:
		return score, RiskHigh
	case score >= 1:
		return score, RiskMedium
	default:
		return score, RiskLow
	}
}

var (
	outlinePrefixRe = regexp.MustCompile(`^\s*\d+(\.\d+)*\.?\s+`)

	// Product-name casing the report generator mangles.
	casingFixes = []struct{ from, to string }{
		{"Sap ", "SAP "},
		{"Abap", "ABAP"},
		{"Hana", "HANA"},
		{"Netweaver", "NetWeaver"},
	}
)

// CleanSection normalizes a raw section heading for display: strips the
// numeric outline prefix, collapses whitespace, and repairs common
// product-name casing.
func CleanSection(raw string) string {
	s := outlinePrefixRe.ReplaceAllString(raw, "")
	s = strings.Join(strings.Fields(s), " ")
	for _, f := range casingFixes {
		s = strings.ReplaceAll(s, f.from, f.to)
	}
	return s
}
