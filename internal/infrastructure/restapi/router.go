package restapi

import (
	"time"

	"wrmb_dapp/internal/app"
	"wrmb_dapp/internal/infrastructure/configloader"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SetupRouter builds the gin engine serving the client API.
func SetupRouter(a *app.App, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	if a.Config.Server.EnableCORS {
		router.Use(cors.New(corsConfig(a.Config.Server)))
	}
	router.Use(requestLogger(logger.Named("http")))
	router.Use(gin.Recovery())

	h := NewHandler(a, logger)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/session", h.GetSession)
		v1.POST("/session/connect", h.Connect)
		v1.POST("/session/disconnect", h.Disconnect)
		v1.POST("/session/balance/refresh", h.RefreshBalance)
		v1.POST("/session/switch-network", h.SwitchNetwork)

		v1.GET("/networks", h.GetNetworks)
		v1.GET("/contracts", h.GetContracts)

		for name := range h.products {
			group := v1.Group("/" + name)
			group.GET("", h.GetProduct(name))
			group.POST("/refresh", h.RefreshProduct(name))
			group.GET("/preview", h.Preview(name))
			group.POST("/actions/:action", h.Action(name))
		}
		v1.GET("/swap/quote", h.SwapQuote)

		v1.GET("/notifications", h.ListNotifications)
		v1.DELETE("/notifications", h.ClearNotifications)
		v1.DELETE("/notifications/:id", h.RemoveNotification)

		v1.GET("/preferences", h.GetPreferences)
		v1.PUT("/preferences", h.PutPreferences)
	}

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.Metrics.Registry(), promhttp.HandlerOpts{})))
	return router
}

func corsConfig(c configloader.ServerConfig) cors.Config {
	cfg := cors.DefaultConfig()
	if len(c.AllowedOrigins) > 0 {
		cfg.AllowOrigins = c.AllowedOrigins
	} else {
		cfg.AllowAllOrigins = true
	}
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	return cfg
}

// requestLogger writes one zap line per request.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if c.Writer.Status() >= 500 {
			logger.Warn("Request failed", fields...)
			return
		}
		logger.Debug("Request served", fields...)
	}
}
