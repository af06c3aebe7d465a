package handlers

import (
	"pastillero-service/database"
	"pastillero-service/metrics"
	"pastillero-service/middleware"
	"pastillero-service/services"
	"pastillero-service/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterOptions carries the dependencies shared by every route.
type RouterOptions struct {
	Store   database.Store
	Logger  *zap.Logger
	Metrics *metrics.Manager // nil disables /metrics
	BaseURL string
}

// NewRouter wires services, handlers and middleware onto a gin engine.
func NewRouter(opts RouterOptions) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	pills := NewPillHandler(services.NewPillService(opts.Store, logger, opts.Metrics))
	stats := NewStatisticsHandler(services.NewStatisticsService(opts.Store, logger, opts.Metrics), logger)
	system := NewSystemHandler(services.NewDiagnosticsService(opts.Store, logger), opts.BaseURL)

	router := gin.New()
	router.Use(
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			logger.Error("Panic recovered",
				zap.String("request_id", middleware.GetRequestID(c)),
				zap.Any("panic", recovered),
			)
			utils.InternalErrorResponse(c, "Error interno del servidor")
			c.Abort()
		}),
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.Metrics(opts.Metrics),
		middleware.CORS(),
	)

	router.GET("/", system.Root)
	router.GET("/health", system.Health)
	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	router.NoRoute(func(c *gin.Context) {
		utils.NotFoundResponse(c, "Ruta no encontrada: "+c.Request.Method+" "+c.Request.URL.Path)
	})

	api := router.Group("/api")
	{
		// Pill definitions
		api.POST("/agregar-todas", pills.SeedPills)
		api.GET("/pastillas", pills.ListPills)
		api.GET("/pastilla/:nombre", pills.GetPill)

		// Dispense statistics
		api.POST("/publicarDatos", stats.PublishData)
		api.GET("/estadisticas", stats.ListStatistics)
		api.GET("/estadisticas/export", stats.ExportStatistics)
		api.DELETE("/limpiar-estadisticas", stats.ClearStatistics)

		api.GET("/diagnostico", system.Diagnostics)
	}

	return router
}
