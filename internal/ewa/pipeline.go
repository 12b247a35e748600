package ewa

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/ewa-cli/internal/kpi"
	"github.com/sells-group/ewa-cli/internal/model"
)

// Pipeline runs the full extraction pass over a directory of EWA HTML
// exports: per-document extraction (parallel, one document per worker),
// then classification, worst-wins reduction, and padding over the merged
// record set. The reduce/pad stages need global visibility across all
// documents, so they run after the workers join.
type Pipeline struct {
	extractor *Extractor
	tax       *kpi.Taxonomy
	system    string
	workers   int
}

// Result is the outcome of one extraction run.
type Result struct {
	Detail  []model.DetailRecord
	Summary []model.SummaryRecord
	Files   int
	Skipped int
}

// NewPipeline creates a Pipeline. workers < 1 falls back to serial
// processing.
func NewPipeline(tax *kpi.Taxonomy, defaultSystem string, workers int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		extractor: NewExtractor(tax),
		tax:       tax,
		system:    defaultSystem,
		workers:   workers,
	}
}

// Run extracts every .htm/.html file under dir and builds the detail and
// summary tables. Per-file failures are logged and counted, never abort
// the batch. A run with no input files, or one where no record classifies
// to any canonical KPI, fails outright: emitting an all-default summary
// would look complete while meaning nothing.
func (p *Pipeline) Run(ctx context.Context, dir string) (*Result, error) {
	files, err := listHTMLFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, eris.Errorf("ewa: no HTML documents found in %s", dir)
	}

	perFile := make([][]model.DetailRecord, len(files))
	failed := make([]bool, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, path := range files {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			records, err := p.extractor.ExtractFile(path, p.system)
			if err != nil {
				failed[i] = true
				zap.L().Warn("ewa: skipping file",
					zap.String("file", filepath.Base(path)),
					zap.Error(err),
				)
				return nil
			}

			perFile[i] = records
			zap.L().Debug("ewa: extracted file",
				zap.String("file", filepath.Base(path)),
				zap.Int("records", len(records)),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "ewa: extraction cancelled")
	}

	result := &Result{Files: len(files)}
	for i := range files {
		if failed[i] {
			result.Skipped++
			continue
		}
		// Merge in file order so reruns over the same inputs produce the
		// same tables.
		result.Detail = append(result.Detail, perFile[i]...)
	}

	if result.Skipped == len(files) {
		return nil, eris.Errorf("ewa: all %d documents were skipped", len(files))
	}

	reduced := Reduce(result.Detail, p.tax)
	if len(reduced) == 0 {
		return nil, eris.New("ewa: no records classified to any canonical KPI")
	}

	// Pad only over dates that produced classified findings, matching the
	// accumulated summary table's shape.
	var classifiedDates []time.Time
	seenDates := make(map[string]bool)
	for _, s := range reduced {
		if !seenDates[model.DateKey(s.ReportDate)] {
			seenDates[model.DateKey(s.ReportDate)] = true
			classifiedDates = append(classifiedDates, s.ReportDate)
		}
	}
	result.Summary = Pad(reduced, classifiedDates, p.tax, p.system)

	zap.L().Info("ewa: extraction run complete",
		zap.Int("files", result.Files),
		zap.Int("skipped", result.Skipped),
		zap.Int("detail_records", len(result.Detail)),
		zap.Int("summary_records", len(result.Summary)),
	)

	return result, nil
}

func listHTMLFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "ewa: read directory %s", dir)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".htm", ".html":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
