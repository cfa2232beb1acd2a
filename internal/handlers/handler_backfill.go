package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shawqlabs/fxn_backend/internal/apperrors"
	"github.com/shawqlabs/fxn_backend/internal/core/domain"
	portssvc "github.com/shawqlabs/fxn_backend/internal/core/ports/services"
	"github.com/shawqlabs/fxn_backend/internal/dto"
	"github.com/shawqlabs/fxn_backend/internal/middleware"
	"github.com/shawqlabs/fxn_backend/internal/utils/dateutil"
)

// backfillHandler fetches and stores a single day's rate, then converts the
// day's ad metrics with it.
type backfillHandler struct {
	rateService  portssvc.RateSvcFacade
	applyService portssvc.ApplySvcFacade
	defaultStore string
}

func newBackfillHandler(rs portssvc.RateSvcFacade, as portssvc.ApplySvcFacade, defaultStore string) *backfillHandler {
	return &backfillHandler{
		rateService:  rs,
		applyService: as,
		defaultStore: defaultStore,
	}
}

// registerBackfillRoutes registers the single-day backfill route.
func registerBackfillRoutes(rg *gin.RouterGroup, rs portssvc.RateSvcFacade, as portssvc.ApplySvcFacade, defaultStore string) {
	h := newBackfillHandler(rs, as, defaultStore)
	rg.POST("/backfill-single", h.backfillSingle)
}

// backfillSingle resolves the rate for one day and applies it. A day that is
// already stored skips the provider call entirely; otherwise the rate is
// fetched through the requested tier's provider.
func (h *backfillHandler) backfillSingle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.BackfillSingleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	parsed, err := dateutil.Parse(req.Date)
	if err != nil {
		respondError(c, apperrors.NewValidationError(err.Error()), "")
		return
	}
	// A request for today means yesterday: today's close is not yet
	// published, and stored rates only exist up to yesterday.
	date := dateutil.EffectiveLookupDate(parsed)

	tier := domain.TierPrimaryBackfill
	if req.Tier != "" {
		// Binding already restricted the value to the known tiers.
		tier, _ = domain.ParseTier(req.Tier)
	}

	cached := false
	record, err := h.rateService.Stored(c.Request.Context(), date)
	switch {
	case err == nil:
		cached = true
	case errors.Is(err, apperrors.ErrNotFound):
		record, err = h.rateService.FetchForTier(c.Request.Context(), date, tier)
		if err != nil {
			respondError(c, err, tier)
			return
		}
	default:
		respondError(c, err, tier)
		return
	}

	store := req.Store
	if store == "" {
		store = h.defaultStore
	}
	result, err := h.applyService.Apply(c.Request.Context(), store, date, date)
	if err != nil {
		respondError(c, err, tier)
		return
	}

	logger.Info("Backfilled single day",
		slog.String("date", req.Date),
		slog.String("source", string(record.Source)),
		slog.Bool("cached", cached),
		slog.Int64("rows_updated", result.Totals.Updated),
	)
	c.JSON(http.StatusOK, dto.BackfillSingleResponse{
		Success: true,
		Cached:  cached,
		Rate:    dto.ToRateResponse(record),
		Apply:   dto.ToApplyResponse(result),
	})
}
