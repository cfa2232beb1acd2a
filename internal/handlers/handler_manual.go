package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/shawqlabs/fxn_backend/internal/apperrors"
	portssvc "github.com/shawqlabs/fxn_backend/internal/core/ports/services"
	"github.com/shawqlabs/fxn_backend/internal/dto"
	"github.com/shawqlabs/fxn_backend/internal/middleware"
	"github.com/shawqlabs/fxn_backend/internal/utils/dateutil"
)

// manualHandler stores operator-entered rates and converts the covered days.
type manualHandler struct {
	rateService  portssvc.RateSvcFacade
	applyService portssvc.ApplySvcFacade
	defaultStore string
}

func newManualHandler(rs portssvc.RateSvcFacade, as portssvc.ApplySvcFacade, defaultStore string) *manualHandler {
	return &manualHandler{
		rateService:  rs,
		applyService: as,
		defaultStore: defaultStore,
	}
}

// registerManualRoutes registers the manual rate entry route.
func registerManualRoutes(rg *gin.RouterGroup, rs portssvc.RateSvcFacade, as portssvc.ApplySvcFacade, defaultStore string) {
	h := newManualHandler(rs, as, defaultStore)
	rg.POST("/manual", h.setManualRate)
}

// setManualRate writes an operator-supplied rate for the given days and then
// converts them. Without overwrite, any day that already has a stored record
// rejects the whole request and returns the conflicting records.
func (h *manualHandler) setManualRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ManualRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	dates, err := manualDates(req)
	if err != nil {
		respondError(c, err, "")
		return
	}
	rate, err := canonicalRate(req)
	if err != nil {
		respondError(c, err, "")
		return
	}

	written, conflicts, err := h.rateService.SetManual(c.Request.Context(), dates, rate, req.Overwrite)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Manual rate rejected, days already stored", slog.Int("conflicts", len(conflicts)))
			c.JSON(http.StatusConflict, dto.ErrorResponse{
				Success:  false,
				Error:    err.Error(),
				Code:     codeConflict,
				Existing: dto.ToListRateResponse(conflicts),
			})
			return
		}
		respondError(c, err, "")
		return
	}

	store := req.Store
	if store == "" {
		store = h.defaultStore
	}
	result, err := h.applyService.Apply(c.Request.Context(), store, dates[0], dates[len(dates)-1])
	if err != nil {
		respondError(c, err, "")
		return
	}

	logger.Info("Stored manual rate",
		slog.String("rate", rate.String()),
		slog.Int("days", len(written)),
		slog.Int64("rows_updated", result.Totals.Updated),
	)
	c.JSON(http.StatusOK, dto.ManualRateResponse{
		Success: true,
		Written: dto.ToListRateResponse(written),
		Apply:   dto.ToApplyResponse(result),
	})
}

// manualDates resolves the request's day selection to a sorted list: either
// an explicit list or an inclusive startDate/endDate range, never both.
func manualDates(req dto.ManualRateRequest) ([]time.Time, error) {
	hasList := len(req.Dates) > 0
	hasRange := req.StartDate != "" || req.EndDate != ""

	switch {
	case hasList && hasRange:
		return nil, apperrors.NewValidationError("provide either dates or startDate/endDate, not both")
	case !hasList && !hasRange:
		return nil, apperrors.NewValidationError("dates or startDate/endDate is required")
	case hasList:
		seen := make(map[string]struct{}, len(req.Dates))
		dates := make([]time.Time, 0, len(req.Dates))
		for _, s := range req.Dates {
			d, err := dateutil.Parse(s)
			if err != nil {
				return nil, apperrors.NewValidationError(err.Error())
			}
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			dates = append(dates, d)
		}
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
		return dates, nil
	case req.StartDate == "" || req.EndDate == "":
		return nil, apperrors.NewValidationError("startDate and endDate are both required for a range")
	}

	start, err := dateutil.Parse(req.StartDate)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	end, err := dateutil.Parse(req.EndDate)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if end.Before(start) {
		return nil, apperrors.NewValidationError("startDate must not be after endDate")
	}
	return dateutil.EachDay(start, end), nil
}

// canonicalRate derives the stored TRY→USD rate from the request. Exactly one
// of tryToUsd and usdToTry must be set; usdToTry is inverted.
func canonicalRate(req dto.ManualRateRequest) (decimal.Decimal, error) {
	switch {
	case req.TryToUsd != nil && req.UsdToTry != nil:
		return decimal.Zero, apperrors.NewValidationError("provide either tryToUsd or usdToTry, not both")
	case req.TryToUsd == nil && req.UsdToTry == nil:
		return decimal.Zero, apperrors.NewValidationError("tryToUsd or usdToTry is required")
	case req.TryToUsd != nil:
		if !req.TryToUsd.IsPositive() {
			return decimal.Zero, apperrors.NewValidationError("tryToUsd must be positive")
		}
		return *req.TryToUsd, nil
	}
	if !req.UsdToTry.IsPositive() {
		return decimal.Zero, apperrors.NewValidationError("usdToTry must be positive")
	}
	return decimal.NewFromInt(1).Div(*req.UsdToTry), nil
}
