package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shawqlabs/fxn_backend/internal/apperrors"
	portssvc "github.com/shawqlabs/fxn_backend/internal/core/ports/services"
	"github.com/shawqlabs/fxn_backend/internal/dto"
	"github.com/shawqlabs/fxn_backend/internal/middleware"
	"github.com/shawqlabs/fxn_backend/internal/utils/dateutil"
)

// applyHandler runs the conversion engine over stored rates.
type applyHandler struct {
	applyService portssvc.ApplySvcFacade
	defaultStore string
}

func newApplyHandler(as portssvc.ApplySvcFacade, defaultStore string) *applyHandler {
	return &applyHandler{
		applyService: as,
		defaultStore: defaultStore,
	}
}

// registerApplyRoutes registers the conversion routes.
func registerApplyRoutes(rg *gin.RouterGroup, as portssvc.ApplySvcFacade, defaultStore string) {
	h := newApplyHandler(as, defaultStore)
	rg.POST("/apply", h.applyRates)
}

// applyRates rewrites the ad-metric USD columns for a day or a date window
// using stored rates only. Days without a stored rate are skipped and
// reported.
func (h *applyHandler) applyRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	start, end, err := applyWindow(req)
	if err != nil {
		respondError(c, err, "")
		return
	}

	store := req.Store
	if store == "" {
		store = h.defaultStore
	}
	result, err := h.applyService.Apply(c.Request.Context(), store, start, end)
	if err != nil {
		respondError(c, err, "")
		return
	}

	logger.Info("Applied stored rates",
		slog.String("store", store),
		slog.String("start_date", dateutil.Format(start)),
		slog.String("end_date", dateutil.Format(end)),
		slog.Int64("rows_updated", result.Totals.Updated),
		slog.Int("missing_rate_dates", len(result.MissingRateDates)),
	)
	c.JSON(http.StatusOK, dto.ToApplyResponse(result))
}

// applyWindow resolves the request's day selection: either a single date or
// an inclusive startDate/endDate pair, never both.
func applyWindow(req dto.ApplyRequest) (time.Time, time.Time, error) {
	hasSingle := req.Date != ""
	hasRange := req.StartDate != "" || req.EndDate != ""

	switch {
	case hasSingle && hasRange:
		return time.Time{}, time.Time{}, apperrors.NewValidationError("provide either date or startDate/endDate, not both")
	case hasSingle:
		d, err := dateutil.Parse(req.Date)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.NewValidationError(err.Error())
		}
		return d, d, nil
	case req.StartDate == "" || req.EndDate == "":
		return time.Time{}, time.Time{}, apperrors.NewValidationError("startDate and endDate are both required for a range")
	}

	start, err := dateutil.Parse(req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.NewValidationError(err.Error())
	}
	end, err := dateutil.Parse(req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.NewValidationError(err.Error())
	}
	return start, end, nil
}
