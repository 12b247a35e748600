package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/ewa-cli/internal/ewa"
	"github.com/sells-group/ewa-cli/internal/kpi"
	"github.com/sells-group/ewa-cli/internal/legacy"
	"github.com/sells-group/ewa-cli/internal/model"
	"github.com/sells-group/ewa-cli/internal/report"
)

var (
	docxDir     string
	docxDetail  string
	docxSummary string
	docxSave    bool
)

var docxCmd = &cobra.Command{
	Use:   "docx",
	Short: "Extract traffic lights from legacy Word reports",
	Long:  "Scans a directory of Word reports with embedded spreadsheets, reads the KPI matrix from cell fill colors, and writes the same detail and summary CSVs as extract.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		tax, err := loadTaxonomy()
		if err != nil {
			return err
		}

		dir := docxDir
		if dir == "" {
			dir = cfg.Docx.Dir
		}
		detailPath := docxDetail
		if detailPath == "" {
			detailPath = cfg.Extract.DetailCSV
		}
		summaryPath := docxSummary
		if summaryPath == "" {
			summaryPath = cfg.Extract.SummaryCSV
		}

		records, skipped, err := legacy.ExtractDir(dir, tax)
		if err != nil {
			return err
		}

		padded, err := buildDocxSummary(records, tax, cfg.Extract.System)
		if err != nil {
			return err
		}

		if err := report.WriteDetailCSV(detailPath, records); err != nil {
			return err
		}
		if err := report.WriteSummaryCSV(summaryPath, padded); err != nil {
			return err
		}

		if docxSave {
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.SaveDetail(ctx, records); err != nil {
				return err
			}
			if err := st.SaveSummary(ctx, padded); err != nil {
				return err
			}
		}

		zap.L().Info("docx extract complete",
			zap.String("detail_csv", detailPath),
			zap.String("summary_csv", summaryPath),
			zap.Int("detail_rows", len(records)),
			zap.Int("summary_rows", len(padded)),
			zap.Int("skipped", skipped),
		)
		return nil
	},
}

// buildDocxSummary reduces and pads the extracted records. A run where
// nothing classifies to any canonical KPI is fatal, matching the HTML
// pipeline: a header-only summary would look complete while meaning
// nothing.
func buildDocxSummary(records []model.DetailRecord, tax *kpi.Taxonomy, system string) ([]model.SummaryRecord, error) {
	reduced := ewa.Reduce(records, tax)
	if len(reduced) == 0 {
		return nil, eris.New("docx: no records classified to any canonical KPI")
	}
	return ewa.Pad(reduced, nil, tax, system), nil
}

func init() {
	docxCmd.Flags().StringVar(&docxDir, "dir", "", "Word report directory (default from config)")
	docxCmd.Flags().StringVar(&docxDetail, "detail", "", "detail CSV output path (default from config)")
	docxCmd.Flags().StringVar(&docxSummary, "summary", "", "summary CSV output path (default from config)")
	docxCmd.Flags().BoolVar(&docxSave, "save", false, "also save records to the database")
	rootCmd.AddCommand(docxCmd)
}
