package handlers

import (
	"flex_report/internal/config"
	"flex_report/internal/logger"
	"flex_report/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	limiter  *ipRateLimiter
}

// NewHandler constructs a new HTTP handler. A non-positive rl.RPS disables
// rate limiting.
func NewHandler(services *service.Service, log *logger.Logger, rl config.RateLimitConfig) *Handler {
	h := &Handler{services: services, log: log}
	if rl.RPS > 0 {
		burst := rl.Burst
		if burst < 1 {
			burst = 1
		}
		h.limiter = newIPRateLimiter(rate.Limit(rl.RPS), burst)
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// browsers cannot set headers on the upgrade; the token may come as ?access_token=
	router.GET("/ws/estimate", h.rateLimitMiddleware, h.userIdMiddleware, h.wsEstimate)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth", h.rateLimitMiddleware)
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.rateLimitMiddleware, h.userIdMiddleware)
	{
		h.registerCatalogRoutes(api)
		h.registerEstimateRoutes(api)
	}
}

func (h *Handler) registerCatalogRoutes(api *gin.RouterGroup) {
	fluids := api.Group("/fluids")
	{
		fluids.GET("", h.listFluids)
		fluids.GET("/:name", h.getFluid)
		// ?application=...&manufacturer=...&category=...&model=...&severity=...&horizon_hours=...&points=...
		fluids.GET("/:name/curve", h.getCurve)
	}
	api.GET("/equipment", h.listEquipment)
	api.GET("/applications", h.listApplications)
}

func (h *Handler) registerEstimateRoutes(api *gin.RouterGroup) {
	estimates := api.Group("/estimates")
	{
		estimates.POST("", h.createEstimate)
		estimates.POST("/batch", h.createBatch)
		// multipart form, field "file" holds the .xlsx workbook
		estimates.POST("/import", h.importWorkbook)
		estimates.POST("/report", h.createReport)
	}
}
