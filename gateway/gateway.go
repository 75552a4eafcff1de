// Package gateway serves the storefront over HTTP. Every request is routed
// to the session actor named by the X-Session-ID header.
package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	_ "github.com/example/brewbuddy/gateway/docs"
	"github.com/example/brewbuddy/pkg/actors"
	"github.com/example/brewbuddy/pkg/catalog"
	"github.com/example/brewbuddy/pkg/config"
	"github.com/example/brewbuddy/pkg/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// SessionHeader names the session a request belongs to. Requests without it
// use the default session.
const SessionHeader = "X-Session-ID"

type Gateway struct {
	registry *actors.Registry
	catalog  *catalog.Catalog
	metrics  *metrics.Metrics
	hub      *Hub
	logger   *zap.Logger
	router   *gin.Engine
	server   *http.Server
}

func NewGateway(cfg *config.GatewayConfig, registry *actors.Registry, cat *catalog.Catalog, m *metrics.Metrics, hub *Hub, logger *zap.Logger) *Gateway {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))
	if m != nil {
		router.Use(metricsMiddleware(m))
	}
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	if cat == nil {
		cat = catalog.Default()
	}

	g := &Gateway{
		registry: registry,
		catalog:  cat,
		metrics:  m,
		hub:      hub,
		logger:   logger,
		router:   router,
	}
	g.server = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.setupRoutes()
	return g
}

func corsConfig(origins []string) cors.Config {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", SessionHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
}

func (g *Gateway) setupRoutes() {
	g.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": g.registry.Sessions()})
	})
	if g.metrics != nil {
		g.router.GET("/metrics", gin.WrapH(g.metrics.Handler()))
	}
	if g.hub != nil {
		g.router.GET("/ws/orders", g.hub.ServeWS)
	}

	v1 := g.router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", g.listProducts)
			products.GET("/popular", g.popularProducts)
			products.GET("/:id", g.getProduct)
			products.GET("/:id/configure", g.configureProduct)
		}
		v1.GET("/categories", g.listCategories)
		v1.GET("/stores", g.listStores)

		cart := v1.Group("/cart")
		{
			cart.GET("", g.getCart)
			cart.DELETE("", g.clearCart)
			cart.POST("/lines", g.addCartLine)
			cart.PUT("/lines/:id", g.updateCartLine)
			cart.DELETE("/lines/:id", g.removeCartLine)
		}

		orders := v1.Group("/orders")
		{
			orders.POST("", g.createOrder)
			orders.GET("", g.listOrders)
			orders.GET("/export", g.exportOrders)
			orders.GET("/:id", g.getOrder)
			orders.PUT("/:id/status", g.updateOrderStatus)
		}

		favorites := v1.Group("/favorites")
		{
			favorites.GET("", g.listFavorites)
			favorites.POST("/:productId/toggle", g.toggleFavorite)
		}

		preferences := v1.Group("/preferences")
		{
			preferences.GET("", g.getPreferences)
			preferences.PATCH("", g.updatePreferences)
		}
	}

	g.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// Handler exposes the router, mainly for tests.
func (g *Gateway) Handler() http.Handler {
	return g.router
}

// Start serves until Shutdown is called.
func (g *Gateway) Start() error {
	g.logger.Info("Gateway starting", zap.String("address", g.server.Addr))
	if err := g.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown disconnects websocket clients and drains HTTP requests.
func (g *Gateway) Shutdown(ctx context.Context) error {
	if g.hub != nil {
		g.hub.Close()
	}
	return g.server.Shutdown(ctx)
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("session", c.GetHeader(SessionHeader)),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
