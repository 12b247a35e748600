// Package legacy extracts traffic-light records from the older Word
// report format, where the KPI matrix lives in an Excel workbook embedded
// as an OLE object. Detection works on spreadsheet cell fill colors
// instead of markup, but the output conforms to the same DetailRecord
// shape and feeds the same reducer as the HTML path.
package legacy

import (
	"archive/zip"
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/richardlehane/mscfb"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/ewa-cli/internal/kpi"
	"github.com/sells-group/ewa-cli/internal/model"
)

// Report is the outcome of parsing one Word report.
type Report struct {
	System  string
	Records []model.DetailRecord

	// Overall is the front-page traffic light, sampled from the first
	// decodable inline image. StatusUnknown when no image can be read.
	Overall model.Status
}

// ExtractFile parses a single .docx report.
func ExtractFile(path string, tax *kpi.Taxonomy) (*Report, error) {
	system, date, err := model.ParseDocxFilename(path)
	if err != nil {
		return nil, err
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, eris.Wrapf(err, "legacy: open %s", path)
	}
	defer func() { _ = zr.Close() }()

	wb, err := embeddedWorkbook(&zr.Reader)
	if err != nil {
		return nil, err
	}

	report := &Report{
		System:  system,
		Overall: overallStatus(&zr.Reader),
	}

	source := filepath.Base(path)
	for _, rec := range gridRecords(wb, tax) {
		report.Records = append(report.Records, model.DetailRecord{
			System:     system,
			ReportDate: date,
			Section:    rec.kpi,
			Label:      rec.kpi,
			Status:     rec.status,
			SourceFile: source,
		})
	}

	return report, nil
}

// ExtractDir parses every .docx under dir. Per-file failures are logged
// and counted, never abort the batch.
func ExtractDir(dir string, tax *kpi.Taxonomy) ([]model.DetailRecord, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, eris.Wrapf(err, "legacy: read directory %s", dir)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".docx") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, 0, eris.Errorf("legacy: no Word reports found in %s", dir)
	}

	var records []model.DetailRecord
	skipped := 0
	for _, path := range files {
		report, err := ExtractFile(path, tax)
		if err != nil {
			skipped++
			zap.L().Warn("legacy: skipping report",
				zap.String("file", filepath.Base(path)),
				zap.Error(err),
			)
			continue
		}
		records = append(records, report.Records...)
		zap.L().Debug("legacy: extracted report",
			zap.String("file", filepath.Base(path)),
			zap.Int("records", len(report.Records)),
			zap.String("overall", report.Overall.String()),
		)
	}

	if skipped == len(files) {
		return nil, skipped, eris.Errorf("legacy: all %d reports were skipped", len(files))
	}
	return records, skipped, nil
}

// embeddedWorkbook pulls the first OLE embedding out of the docx package
// and opens the OPC "Package" stream inside it as an xlsx workbook.
func embeddedWorkbook(zr *zip.Reader) (*xlsx.File, error) {
	var names []string
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "word/embeddings/") && strings.HasSuffix(strings.ToLower(f.Name), ".bin") {
			names = append(names, f.Name)
		}
	}
	if len(names) == 0 {
		return nil, eris.New("legacy: no embedded spreadsheet found")
	}
	sort.Strings(names)

	bin, err := readZipEntry(zr, names[0])
	if err != nil {
		return nil, err
	}

	ole, err := mscfb.New(bytes.NewReader(bin))
	if err != nil {
		return nil, eris.Wrap(err, "legacy: open OLE container")
	}

	var pkg []byte
	for entry, err := ole.Next(); err == nil; entry, err = ole.Next() {
		// "Package" holds the OPC payload; "Workbook" is the pre-OPC
		// fallback some generators still emit.
		if entry.Name != "Package" && entry.Name != "Workbook" {
			continue
		}
		data, readErr := io.ReadAll(entry)
		if readErr != nil {
			return nil, eris.Wrapf(readErr, "legacy: read OLE stream %s", entry.Name)
		}
		pkg = data
		if entry.Name == "Package" {
			break
		}
	}
	if pkg == nil {
		return nil, eris.New("legacy: no Package or Workbook stream in embedded object")
	}

	wb, err := xlsx.OpenBinary(pkg)
	if err != nil {
		return nil, eris.Wrap(err, "legacy: open embedded workbook")
	}
	return wb, nil
}

type gridRecord struct {
	kpi    string
	status model.Status
}

// gridRecords reads the KPI matrix from the first sheet: the first column
// carries KPI labels classified through the taxonomy, later columns carry
// weekly values as colored fills. The rightmost colored cell per row
// wins. The first row matching a KPI decides it.
func gridRecords(wb *xlsx.File, tax *kpi.Taxonomy) []gridRecord {
	if len(wb.Sheets) == 0 {
		return nil
	}
	sheet := wb.Sheets[0]

	seen := make(map[string]bool)
	var out []gridRecord
	for _, row := range sheet.Rows {
		if len(row.Cells) < 2 {
			continue
		}
		name := strings.TrimSpace(row.Cells[0].String())
		if name == "" {
			continue
		}
		canonical, ok := tax.Classify("", name)
		if !ok || seen[canonical] {
			continue
		}

		status := model.StatusUnknown
		for i := len(row.Cells) - 1; i >= 1; i-- {
			if s := cellStatus(row.Cells[i]); s != model.StatusUnknown {
				status = s
				break
			}
		}
		if status == model.StatusUnknown {
			continue
		}

		seen[canonical] = true
		out = append(out, gridRecord{kpi: canonical, status: status})
	}
	return out
}

func cellStatus(cell *xlsx.Cell) model.Status {
	style := cell.GetStyle()
	if style == nil {
		return model.StatusUnknown
	}
	return statusFromARGB(style.Fill.FgColor)
}

// overallStatus samples the center pixel of the first decodable inline
// image (the front-page traffic light).
func overallStatus(zr *zip.Reader) model.Status {
	var names []string
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "word/media/") {
			names = append(names, f.Name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		data, err := readZipEntry(zr, name)
		if err != nil {
			continue
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			continue
		}
		b := img.Bounds()
		r, g, bl, _ := img.At((b.Min.X+b.Max.X)/2, (b.Min.Y+b.Max.Y)/2).RGBA()
		if s := statusFromRGB(uint8(r>>8), uint8(g>>8), uint8(bl>>8)); s != model.StatusUnknown {
			return s
		}
	}
	return model.StatusUnknown
}

func readZipEntry(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, eris.Wrapf(err, "legacy: open zip entry %s", name)
		}
		defer func() { _ = rc.Close() }()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, eris.Wrapf(err, "legacy: read zip entry %s", name)
		}
		return data, nil
	}
	return nil, eris.Errorf("legacy: zip entry %s not found", name)
}
