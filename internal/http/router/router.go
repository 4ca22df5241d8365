package router

import (
	"context"
	"net/http"
	"time"

	apphttp "repairshop_backend/internal/http"
	"repairshop_backend/platform/httpkit"
	"repairshop_backend/platform/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

const (
	healthTimeout = 2 * time.Second
	// 10 requests per second with bursts of 30 per client IP.
	globalRateLimit = rate.Limit(10)
	globalRateBurst = 30
)

// New builds the gin engine and mounts every module on the shared route groups.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(cors.New(corsConfig(app.Config)))
	engine.Use(metrics.GinMiddleware())
	engine.Use(httpkit.NewIPRateLimiter(globalRateLimit, globalRateBurst, app.Logger).RateLimit())

	engine.GET("/api/health", healthHandler(app.Health))
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authMiddleware := httpkit.AuthRequired(app.Config)
	v1 := engine.Group("/api/v1")
	protected := v1.Group("")
	protected.Use(authMiddleware)

	routerCtx := &apphttp.RouterContext{
		Engine:         engine,
		V1:             v1,
		Protected:      protected,
		Config:         app.Config,
		AuthMiddleware: authMiddleware,
	}

	for _, module := range app.Modules {
		module.RegisterRoutes(routerCtx)
		app.Logger.Info("registered module routes", "module", module.Name())
	}

	return engine
}

func corsConfig(cfg apphttp.RouterConfig) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: cfg.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}

	// Wildcard origins cannot be combined with credentials.
	if cfg.GetCORSAllowAll() && !cfg.GetCORSAllowCreds() {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.GetCORSOrigins()
		if len(corsCfg.AllowOrigins) == 0 {
			corsCfg.AllowOrigins = []string{"http://localhost:3000"}
		}
	}

	return corsCfg
}

func healthHandler(health apphttp.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
			defer cancel()
			if err := health.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
