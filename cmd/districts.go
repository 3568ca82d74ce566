package main

import (
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/crimemap/internal/boundary"
	"github.com/sells-group/crimemap/internal/crime"
)

var districtsCmd = &cobra.Command{
	Use:   "districts",
	Short: "List filtered incident counts per police district",
	Long:  "Counts the filtered incidents per district and joins them with the district boundaries, reporting any district present on only one side.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("districts"); err != nil {
			return err
		}

		log := zap.L().With(zap.String("command", "districts"))
		res, err := loadFiltered(ctx, log)
		if err != nil {
			return err
		}

		_, joined, err := joinDistricts(res.Records)
		if err != nil {
			var mm *crime.MismatchError
			if errors.As(err, &mm) {
				formatMismatch(cmd.ErrOrStderr(), mm)
			}
			return err
		}

		formatDistricts(cmd.OutOrStdout(), joined)
		return nil
	},
}

// formatDistricts writes the joined district table to out.
func formatDistricts(out io.Writer, joined []crime.Joined[boundary.Boundary]) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DISTRICT\tNAME\tINCIDENTS")
	_, _ = fmt.Fprintln(w, "--------\t----\t---------")

	total := 0
	for _, j := range joined {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\n", j.Boundary.ID, j.Boundary.Name, j.Count)
		total += j.Count
	}
	_, _ = fmt.Fprintf(w, "\t\t%d\n", total)
	_ = w.Flush()
}

// formatMismatch lists the district codes found on only one side of the join.
func formatMismatch(out io.Writer, mm *crime.MismatchError) {
	if len(mm.MissingBoundaries) > 0 {
		_, _ = fmt.Fprintf(out, "districts without a boundary: %s\n", strings.Join(mm.MissingBoundaries, ", "))
	}
	if len(mm.MissingRecords) > 0 {
		_, _ = fmt.Fprintf(out, "boundaries without incidents: %s\n", strings.Join(mm.MissingRecords, ", "))
	}
}

func init() {
	rootCmd.AddCommand(districtsCmd)
}
