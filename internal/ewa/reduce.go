package ewa

import (
	"sort"
	"time"

	"github.com/sells-group/ewa-cli/internal/kpi"
	"github.com/sells-group/ewa-cli/internal/model"
)

// Reduce classifies detail records onto canonical KPIs and collapses each
// (system, date, KPI) group to its worst status. Unclassifiable records
// are dropped here but stay in the detail output. Ties keep the first
// record in input order that reached the worst severity, so a given input
// ordering always reproduces the same provenance.
func Reduce(records []model.DetailRecord, tax *kpi.Taxonomy) []model.SummaryRecord {
	type key struct {
		system string
		date   string
		kpiIdx int
	}

	worst := make(map[key]model.SummaryRecord)
	var order []key

	for _, r := range records {
		name, ok := tax.Classify(r.Section, r.Label)
		if !ok {
			continue
		}

		k := key{system: r.System, date: model.DateKey(r.ReportDate), kpiIdx: tax.Index(name)}
		cur, seen := worst[k]
		if !seen {
			order = append(order, k)
		}
		if !seen || r.Status.Severity() > cur.Status.Severity() {
			worst[k] = model.SummaryRecord{
				System:     r.System,
				ReportDate: r.ReportDate,
				PrimaryKPI: name,
				Status:     r.Status,
				SourceFile: r.SourceFile,
			}
		}
	}

	out := make([]model.SummaryRecord, 0, len(order))
	for _, k := range order {
		out = append(out, worst[k])
	}
	return out
}

// Pad guarantees the completeness invariant: exactly one summary row per
// (date, canonical KPI) pair, dates x taxonomy size rows in total, sorted
// by date then canonical KPI order. Missing pairs become GREEN with the
// "No alert" provenance sentinel — absence of a detected alert is treated
// as healthy, and the sentinel is what keeps the two distinguishable.
func Pad(summaries []model.SummaryRecord, dates []time.Time, tax *kpi.Taxonomy, defaultSystem string) []model.SummaryRecord {
	dateSet := make(map[string]time.Time, len(dates))
	for _, d := range dates {
		dateSet[model.DateKey(d)] = d
	}
	for _, s := range summaries {
		if _, ok := dateSet[model.DateKey(s.ReportDate)]; !ok {
			dateSet[model.DateKey(s.ReportDate)] = s.ReportDate
		}
	}

	keys := make([]string, 0, len(dateSet))
	for k := range dateSet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	type cell struct {
		date string
		kpi  string
	}
	have := make(map[cell]model.SummaryRecord, len(summaries))
	for _, s := range summaries {
		have[cell{date: model.DateKey(s.ReportDate), kpi: s.PrimaryKPI}] = s
	}

	names := tax.Names()
	out := make([]model.SummaryRecord, 0, len(keys)*len(names))
	for _, dk := range keys {
		for _, name := range names {
			if s, ok := have[cell{date: dk, kpi: name}]; ok {
				out = append(out, s)
				continue
			}
			out = append(out, model.SummaryRecord{
				System:     defaultSystem,
				ReportDate: dateSet[dk],
				PrimaryKPI: name,
				Status:     model.StatusGreen,
				SourceFile: model.NoAlertSource,
			})
		}
	}
	return out
}
