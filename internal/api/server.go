package api

import (
	"interviewcoach/internal/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewServer builds the engine with the middleware chain and all routes
func NewServer(h *Handler, m *metrics.Metrics, origins []string, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(
		RequestID(),
		AccessLog(logger),
		Recovery(logger),
		CORS(origins),
		m.Build(),
	)
	h.RegisterRoutes(r)
	return r
}
