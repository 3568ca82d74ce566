package main

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/crimemap/internal/crime"
	"github.com/sells-group/crimemap/internal/monitoring"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show how many incidents survive each filter stage",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("summary"); err != nil {
			return err
		}

		log := zap.L().With(zap.String("command", "summary"))
		res, err := loadFiltered(ctx, log)
		if err != nil {
			return err
		}

		formatStageCounts(cmd.OutOrStdout(), res)
		return nil
	},
}

// formatStageCounts writes the row count after each filter stage to out.
func formatStageCounts(out io.Writer, res crime.Result) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "STAGE\tROWS\tDROPPED")
	_, _ = fmt.Fprintln(w, "-----\t----\t-------")
	_, _ = fmt.Fprintf(w, "%s\t%d\t-\n", monitoring.StageInput, res.Input)

	prev := res.Input
	for _, s := range res.Stages {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\n", s.Stage, s.Rows, prev-s.Rows)
		prev = s.Rows
	}
	_ = w.Flush()

	_, _ = fmt.Fprintf(out, "\n%d crimes in year %d\n", len(res.Records), res.Year)
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}
