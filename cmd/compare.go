package main

import (
	"fmt"
	"os/signal"
	"sort"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/ewa-cli/internal/compare"
	"github.com/sells-group/ewa-cli/internal/model"
	"github.com/sells-group/ewa-cli/internal/report"
	"github.com/sells-group/ewa-cli/internal/store"
)

var (
	compareFrom    string
	compareTo      string
	compareSummary string
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare two summary snapshots week over week",
	Long:  "Diffs two report dates from the database or a summary CSV, prints per-KPI movement, and scores the aggregate risk. Without --from/--to the two most recent dates are used.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var records []model.SummaryRecord
		var err error
		if compareSummary != "" {
			records, err = report.ReadSummaryCSV(compareSummary)
			if err != nil {
				return err
			}
		} else {
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			records, err = st.ListSummary(ctx, store.Filter{})
			if err != nil {
				return err
			}
		}

		byDate := make(map[string][]model.SummaryRecord)
		for _, r := range records {
			k := model.DateKey(r.ReportDate)
			byDate[k] = append(byDate[k], r)
		}
		dates := make([]string, 0, len(byDate))
		for k := range byDate {
			dates = append(dates, k)
		}
		sort.Strings(dates)

		from, to, err := resolveCompareDates(compareFrom, compareTo, dates)
		if err != nil {
			return err
		}
		if len(byDate[from]) == 0 {
			return eris.Errorf("compare: no summary rows for %s", from)
		}
		if len(byDate[to]) == 0 {
			return eris.Errorf("compare: no summary rows for %s", to)
		}

		deltas := compare.Diff(byDate[from], byDate[to])
		score, level := compare.RiskScore(deltas)

		fmt.Printf("Comparing %s -> %s\n\n", from, to)
		for _, d := range deltas {
			fromStatus := d.From.String()
			if d.Change == compare.ChangeNew {
				fromStatus = "-"
			}
			fmt.Printf("%-55s %-6s -> %-6s %s\n", d.PrimaryKPI, fromStatus, d.To.String(), d.Change)
		}
		fmt.Printf("\nRisk score: %.1f (%s)\n", score, level)
		return nil
	},
}

// resolveCompareDates picks the snapshot pair: both flags, or the two
// most recent dates when neither is given. A single flag is rejected
// rather than silently overridden.
func resolveCompareDates(from, to string, dates []string) (string, string, error) {
	switch {
	case from != "" && to != "":
		return from, to, nil
	case from == "" && to == "":
		if len(dates) < 2 {
			return "", "", eris.Errorf("compare: need two report dates, have %d", len(dates))
		}
		return dates[len(dates)-2], dates[len(dates)-1], nil
	default:
		return "", "", eris.New("compare: --from and --to must be given together")
	}
}

func init() {
	compareCmd.Flags().StringVar(&compareFrom, "from", "", "baseline report date (YYYY-MM-DD)")
	compareCmd.Flags().StringVar(&compareTo, "to", "", "current report date (YYYY-MM-DD)")
	compareCmd.Flags().StringVar(&compareSummary, "summary", "", "read snapshots from a summary CSV instead of the database")
	rootCmd.AddCommand(compareCmd)
}
