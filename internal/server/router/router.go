package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockroom/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.InventoryHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.POST("/items/add", handler.AddItem)
	r.POST("/items/remove", handler.RemoveItem)
	r.GET("/items/:item/quantity", handler.GetQuantity)
	r.GET("/stock/low", handler.LowStock)
	r.GET("/report", handler.Report)
	r.GET("/movements", handler.Movements)
	r.POST("/snapshot", handler.SaveSnapshot)
	r.POST("/commands", handler.Dispatch)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
