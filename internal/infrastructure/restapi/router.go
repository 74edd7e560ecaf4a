package restapi

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SetupRouter wires middleware and routes onto a new gin engine.
func SetupRouter(h *WalletHandler, corsOrigins []string, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	if len(corsOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = corsOrigins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))

	router.Use(ZapLoggerMiddleware(logger))
	router.Use(gin.Recovery())

	router.GET("/", h.IndexHandler)
	router.POST("/connect", h.ConnectHandler)
	router.POST("/disconnect", h.DisconnectHandler)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/state", h.GetStateHandler)
		v1.POST("/connect", h.ConnectAPIHandler)
		v1.GET("/accounts/:address", h.GetAccountHandler)
	}

	router.GET("/healthz", h.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
