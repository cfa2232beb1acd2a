package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/shawqlabs/fxn_backend/internal/core/domain"
	portsprov "github.com/shawqlabs/fxn_backend/internal/core/ports/providers"
	portssvc "github.com/shawqlabs/fxn_backend/internal/core/ports/services"
	"github.com/shawqlabs/fxn_backend/internal/platform/config"
	"github.com/shawqlabs/fxn_backend/internal/utils/dateutil"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	fetchers map[domain.ProviderName]portsprov.RateFetcher,
) {
	registerValidators()

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	v1 := r.Group("/api/v1")
	fx := v1.Group("/fx")
	{
		registerProviderRoutes(fx, services.Strategy, fetchers)
		registerDebugRoutes(fx, services.Debug)
		registerBackfillRoutes(fx, services.Rate, services.Apply, cfg.DefaultStore)
		registerApplyRoutes(fx, services.Apply, cfg.DefaultStore)
		registerManualRoutes(fx, services.Rate, services.Apply, cfg.DefaultStore)
	}
}

// registerValidators installs the custom binding validators used by the FX
// request DTOs.
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("dateymd", func(fl validator.FieldLevel) bool {
		_, err := dateutil.Parse(fl.Field().String())
		return err == nil
	})
}
