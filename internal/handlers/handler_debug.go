package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/shawqlabs/fxn_backend/internal/core/ports/services"
	"github.com/shawqlabs/fxn_backend/internal/dto"
)

// debugHandler serves the operational snapshot endpoint.
type debugHandler struct {
	debugService portssvc.DebugSvcFacade
}

func newDebugHandler(ds portssvc.DebugSvcFacade) *debugHandler {
	return &debugHandler{debugService: ds}
}

// registerDebugRoutes registers the diagnostic routes.
func registerDebugRoutes(rg *gin.RouterGroup, ds portssvc.DebugSvcFacade) {
	h := newDebugHandler(ds)
	rg.GET("/debug", h.getDebugSnapshot)
}

// getDebugSnapshot returns recent rates, monthly usage per provider, the
// quota estimate, recent missing dates and the resolved strategy.
func (h *debugHandler) getDebugSnapshot(c *gin.Context) {
	snapshot, err := h.debugService.Snapshot(c.Request.Context())
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, dto.ToDebugResponse(snapshot))
}
