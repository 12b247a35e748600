package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/ewa-cli/internal/model"
	"github.com/sells-group/ewa-cli/internal/store"
	"github.com/sells-group/ewa-cli/pkg/anthropic"
)

var adviseQuestion string

const advisePrompt = `You are an SAP Basis consultant reviewing EarlyWatch Alert traffic lights.
Given the KPI statuses below, summarize the health of the system, call out
every RED and YELLOW item, and recommend concrete next actions. Be brief.`

var adviseCmd = &cobra.Command{
	Use:   "advise",
	Short: "Ask Claude to interpret the latest summary snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.Anthropic.Key == "" {
			return eris.New("advise: anthropic.key is not configured")
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		dates, err := st.Dates(ctx)
		if err != nil {
			return err
		}
		if len(dates) == 0 {
			return eris.New("advise: no summary snapshots in the database")
		}
		latest := model.DateKey(dates[len(dates)-1])

		records, err := st.ListSummary(ctx, store.Filter{Date: latest})
		if err != nil {
			return err
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Report date: %s\n\n", latest)
		for _, r := range records {
			fmt.Fprintf(&sb, "%s | %s | %s\n", r.System, r.PrimaryKPI, r.Status.String())
		}
		if adviseQuestion != "" {
			fmt.Fprintf(&sb, "\nQuestion: %s\n", adviseQuestion)
		}

		client := anthropic.NewClient(cfg.Anthropic.Key)
		resp, err := client.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     cfg.Anthropic.Model,
			MaxTokens: cfg.Anthropic.MaxTokens,
			System:    advisePrompt,
			Messages: []anthropic.Message{
				{Role: "user", Content: sb.String()},
			},
		})
		if err != nil {
			return err
		}
		resp.Usage.LogCost(cfg.Anthropic.Model, "advise")

		fmt.Println(resp.Text())
		return nil
	},
}

func init() {
	adviseCmd.Flags().StringVar(&adviseQuestion, "question", "", "extra question to append to the snapshot")
	rootCmd.AddCommand(adviseCmd)
}
