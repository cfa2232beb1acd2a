package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shawqlabs/fxn_backend/internal/core/domain"
	"github.com/shawqlabs/fxn_backend/internal/utils/dateutil"
)

var (
	applyStart string
	applyEnd   string
	applyDate  string
	applyStore string
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Convert stored ad metrics using stored rates",
	RunE: func(cmd *cobra.Command, args []string) error {
		var start, end string
		switch {
		case applyDate != "" && (applyStart != "" || applyEnd != ""):
			return fmt.Errorf("provide either --date or --start/--end, not both")
		case applyDate != "":
			start, end = applyDate, applyDate
		case applyStart == "" || applyEnd == "":
			return fmt.Errorf("--start and --end must both be provided")
		default:
			start, end = applyStart, applyEnd
		}

		startDay, err := dateutil.Parse(start)
		if err != nil {
			return fmt.Errorf("invalid start value: %w", err)
		}
		endDay, err := dateutil.Parse(end)
		if err != nil {
			return fmt.Errorf("invalid end value: %w", err)
		}

		store := applyStore
		if store == "" {
			store = deps.cfg.DefaultStore
		}

		result, err := deps.services.Apply.Apply(cmd.Context(), store, startDay, endDay)
		if err != nil {
			return err
		}
		printApplyResult(cmd.OutOrStdout(), result)
		return nil
	},
}

func printApplyResult(out io.Writer, result *domain.ApplyResult) {
	fmt.Fprintf(out, "store: %s\nwindow: %s .. %s\n",
		result.Store, dateutil.Format(result.StartDate), dateutil.Format(result.EndDate))
	for _, t := range result.Tables {
		fmt.Fprintf(out, "%s: %d candidates, %d convertible, %d updated\n",
			t.Table, t.Candidates, t.Convertible, t.Updated)
	}
	fmt.Fprintf(out, "total updated: %d\n", result.Totals.Updated)
	if len(result.MissingRateDates) > 0 {
		fmt.Fprintf(out, "missing rate dates: %s\n", strings.Join(result.MissingRateDates, ", "))
	}
}

func init() {
	applyCmd.Flags().StringVar(&applyDate, "date", "", "Single day (YYYY-MM-DD)")
	applyCmd.Flags().StringVar(&applyStart, "start", "", "First day (YYYY-MM-DD, inclusive)")
	applyCmd.Flags().StringVar(&applyEnd, "end", "", "Last day (YYYY-MM-DD, inclusive)")
	applyCmd.Flags().StringVar(&applyStore, "store", "", "Store to convert (defaults to DEFAULT_STORE)")
}
