package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Routes registers the operator API on the router.
func (h *Handler) Routes(r *gin.Engine) {
	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.GET("/state", h.State)
	api.POST("/event/start", h.StartEvent)
	api.POST("/event/end", h.EndEvent)
	api.POST("/event/reopen", h.ReopenEvent)
	api.POST("/event/reset", h.ResetEvent)
	api.POST("/sales", h.RecordSale)
	api.POST("/sales/undo", h.UndoSale)
	api.GET("/summary", h.Summary)
	api.GET("/report", h.ExportReport)
}

// RequestLogger logs one line per request.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		logger.Info("request completed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
