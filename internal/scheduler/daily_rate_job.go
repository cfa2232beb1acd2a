package scheduler

import (
	"context"
	"log/slog"
	"time"

	portssvc "github.com/shawqlabs/fxn_backend/internal/core/ports/services"
	"github.com/shawqlabs/fxn_backend/internal/utils/dateutil"
)

const dailyRateJobTimeout = 2 * time.Minute

// NewDailyRateJob returns the job that keeps the store current without
// operator action: it resolves yesterday's rate (fetching it if absent) and
// converts yesterday's ad metrics with it.
func NewDailyRateJob(rateService portssvc.RateSvcFacade, applyService portssvc.ApplySvcFacade, store string, logger *slog.Logger) func() {
	if logger == nil {
		logger = slog.Default()
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), dailyRateJobTimeout)
		defer cancel()

		yesterday := dateutil.Yesterday()
		record, err := rateService.Resolve(ctx, yesterday)
		if err != nil {
			logger.Error("Daily rate job: store lookup failed", slog.String("error", err.Error()))
			return
		}
		if record == nil {
			logger.Warn("Daily rate job: no provider could serve yesterday's rate",
				slog.String("date", dateutil.Format(yesterday)))
			return
		}

		result, err := applyService.Apply(ctx, store, yesterday, yesterday)
		if err != nil {
			logger.Error("Daily rate job: conversion failed", slog.String("error", err.Error()))
			return
		}
		logger.Info("Daily rate job completed",
			slog.String("date", dateutil.Format(yesterday)),
			slog.String("source", string(record.Source)),
			slog.String("rate", record.Rate.String()),
			slog.Int64("rows_updated", result.Totals.Updated),
		)
	}
}
