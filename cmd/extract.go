package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/ewa-cli/internal/ewa"
	"github.com/sells-group/ewa-cli/internal/report"
)

var (
	extractDir     string
	extractDetail  string
	extractSummary string
	extractSave    bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract traffic lights from HTML reports",
	Long:  "Scans a directory of EarlyWatch Alert HTML exports, extracts per-section traffic-light rows, reduces them to the canonical KPI summary, and writes both CSVs.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		tax, err := loadTaxonomy()
		if err != nil {
			return err
		}

		dir := extractDir
		if dir == "" {
			dir = cfg.Extract.HTMLDir
		}
		detailPath := extractDetail
		if detailPath == "" {
			detailPath = cfg.Extract.DetailCSV
		}
		summaryPath := extractSummary
		if summaryPath == "" {
			summaryPath = cfg.Extract.SummaryCSV
		}

		pipeline := ewa.NewPipeline(tax, cfg.Extract.System, cfg.Extract.Workers)
		result, err := pipeline.Run(ctx, dir)
		if err != nil {
			return err
		}

		if err := report.WriteDetailCSV(detailPath, result.Detail); err != nil {
			return err
		}
		if err := report.WriteSummaryCSV(summaryPath, result.Summary); err != nil {
			return err
		}

		if extractSave {
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.SaveDetail(ctx, result.Detail); err != nil {
				return err
			}
			if err := st.SaveSummary(ctx, result.Summary); err != nil {
				return err
			}
		}

		zap.L().Info("extract complete",
			zap.String("detail_csv", detailPath),
			zap.String("summary_csv", summaryPath),
			zap.Int("detail_rows", len(result.Detail)),
			zap.Int("summary_rows", len(result.Summary)),
			zap.Int("files", result.Files),
			zap.Int("skipped", result.Skipped),
		)
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractDir, "dir", "", "HTML report directory (default from config)")
	extractCmd.Flags().StringVar(&extractDetail, "detail", "", "detail CSV output path (default from config)")
	extractCmd.Flags().StringVar(&extractSummary, "summary", "", "summary CSV output path (default from config)")
	extractCmd.Flags().BoolVar(&extractSave, "save", false, "also save records to the database")
	rootCmd.AddCommand(extractCmd)
}
