// Package report writes and reads the two flat output tables. Column
// layouts are fixed: dashboards and accumulated history join on them.
package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/ewa-cli/internal/model"
)

var (
	detailHeader  = []string{"system", "report_date", "section", "kpi_text", "status_name", "status_symbol", "source_file"}
	summaryHeader = []string{"system", "report_date", "primary_kpi", "status_name", "status_symbol", "source_file"}
)

// WriteDetailCSV writes the detail table, one row per DetailRecord.
func WriteDetailCSV(path string, records []model.DetailRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.System,
			model.DateKey(r.ReportDate),
			r.Section,
			r.Label,
			r.Status.String(),
			r.Status.Symbol(),
			r.SourceFile,
		})
	}
	return writeCSV(path, detailHeader, rows)
}

// WriteSummaryCSV writes the summary table, one row per SummaryRecord,
// in the order the padder produced (date, then canonical KPI order).
func WriteSummaryCSV(path string, records []model.SummaryRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.System,
			model.DateKey(r.ReportDate),
			r.PrimaryKPI,
			r.Status.String(),
			r.Status.Symbol(),
			r.SourceFile,
		})
	}
	return writeCSV(path, summaryHeader, rows)
}

// ReadSummaryCSV loads a summary table written by WriteSummaryCSV.
func ReadSummaryCSV(path string) ([]model.SummaryRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "report: open %s", path)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = len(summaryHeader)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "report: read %s", path)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	records := make([]model.SummaryRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		date, err := parseDate(row[1])
		if err != nil {
			return nil, eris.Wrapf(err, "report: bad report_date %q", row[1])
		}
		status, err := model.ParseStatus(row[3])
		if err != nil {
			return nil, eris.Wrapf(err, "report: bad status %q", row[3])
		}
		records = append(records, model.SummaryRecord{
			System:     row[0],
			ReportDate: date,
			PrimaryKPI: row[2],
			Status:     status,
			SourceFile: row[5],
		})
	}
	return records, nil
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func writeCSV(path string, header []string, rows [][]string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "report: create directory %s", dir)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "report: create %s", path)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return eris.Wrapf(err, "report: write header %s", path)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			_ = f.Close()
			return eris.Wrapf(err, "report: write row %s", path)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return eris.Wrapf(err, "report: flush %s", path)
	}
	return eris.Wrapf(f.Close(), "report: close %s", path)
}
