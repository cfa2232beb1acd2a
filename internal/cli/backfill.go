package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shawqlabs/fxn_backend/internal/core/domain"
	"github.com/shawqlabs/fxn_backend/internal/utils/dateutil"
)

var (
	backfillStart    string
	backfillEnd      string
	backfillTier     string
	backfillMaxCalls int
	backfillApply    bool
	backfillStore    string
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Fetch and store rates for the missing days of a date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		if backfillStart == "" || backfillEnd == "" {
			return fmt.Errorf("--start and --end must be provided")
		}
		start, err := dateutil.Parse(backfillStart)
		if err != nil {
			return fmt.Errorf("invalid --start value: %w", err)
		}
		end, err := dateutil.Parse(backfillEnd)
		if err != nil {
			return fmt.Errorf("invalid --end value: %w", err)
		}
		tier, ok := domain.ParseTier(backfillTier)
		if !ok {
			return fmt.Errorf("invalid --tier value %q", backfillTier)
		}
		maxCalls := backfillMaxCalls
		if maxCalls <= 0 {
			maxCalls = deps.cfg.BackfillMaxCalls
		}

		result, err := deps.services.Rate.BackfillRange(cmd.Context(), start, end, tier, maxCalls)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "requested: %d days\nalready stored: %d\nfetched: %d\nfailed: %d\ncalls used: %d\n",
			result.Requested, result.AlreadyStored, result.Fetched, result.Failed, result.CallsUsed)
		if result.StoppedEarly {
			fmt.Fprintln(out, "stopped early: call budget or provider quota exhausted")
		}
		if len(result.FailedDates) > 0 {
			fmt.Fprintf(out, "failed dates: %s\n", strings.Join(result.FailedDates, ", "))
		}

		if !backfillApply {
			return nil
		}
		store := backfillStore
		if store == "" {
			store = deps.cfg.DefaultStore
		}
		applyResult, err := deps.services.Apply.Apply(cmd.Context(), store, start, end)
		if err != nil {
			return err
		}
		printApplyResult(out, applyResult)
		return nil
	},
}

func init() {
	backfillCmd.Flags().StringVar(&backfillStart, "start", "", "First day (YYYY-MM-DD, inclusive)")
	backfillCmd.Flags().StringVar(&backfillEnd, "end", "", "Last day (YYYY-MM-DD, inclusive)")
	backfillCmd.Flags().StringVar(&backfillTier, "tier", string(domain.TierPrimaryBackfill), "Provider tier (primary_backfill or secondary_backfill)")
	backfillCmd.Flags().IntVar(&backfillMaxCalls, "max-calls", 0, "Provider call budget (0 uses EXCHANGE_RATE_BACKFILL_MAX_CALLS)")
	backfillCmd.Flags().BoolVar(&backfillApply, "apply", false, "Convert the ad metrics of the range after fetching")
	backfillCmd.Flags().StringVar(&backfillStore, "store", "", "Store to convert (defaults to DEFAULT_STORE)")
}
