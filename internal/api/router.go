// Package api assembles the gin router: middleware, probes, metrics,
// the query routes and the websocket session endpoint.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"moviehub/internal/app"
	"moviehub/internal/metrics"
	"moviehub/internal/middleware"
	"moviehub/internal/movies"
	"moviehub/internal/session"
	"moviehub/pkg/logging"
	"moviehub/pkg/utils"
)

// NewHTTPServer wraps h with the listener timeouts from cfg.
func NewHTTPServer(cfg utils.ServerConfig, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           h,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func NewRouter(cfg utils.ServerConfig, a *app.App, svc *movies.Service, hub *session.Hub) *gin.Engine {
	gin.SetMode(cfg.Mode)

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.AccessLog(), middleware.PrometheusMetrics(), gin.Recovery())
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logging.Warn().Err(err).Strs("proxies", cfg.TrustedProxies).Msg("invalid trusted proxies")
	}

	metrics.SetCatalogSize(a.Catalog.Len(), a.Recommend.Matrix.Len())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "source": a.Source})
	})

	// body is the bare status code, for probes that parse it
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, http.StatusOK)
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		body := gin.H{
			"status":      "ready",
			"movies":      a.Catalog.Len(),
			"matrix_rows": a.Recommend.Matrix.Len(),
			"loaded_at":   a.LoadedAt,
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		}
		if a.Catalog.Len() == 0 {
			body["status"] = "not_ready"
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		c.JSON(http.StatusOK, body)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ws", session.WSHandler(hub, svc))

	movies.NewHandler(svc).RegisterRoutes(router.Group(""))
	return router
}
