package api

import (
	"net/http"
	"path/filepath"

	"interviewcoach/internal/config"
	"interviewcoach/internal/evaluation"
	"interviewcoach/internal/questions"
	"interviewcoach/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler owns every HTTP route of the service
type Handler struct {
	svc           evaluation.Service
	questions     *questions.Repository
	staticDir     string
	maxAudioBytes int64
	metrics       http.Handler
	logger        *zap.Logger
}

// NewHandler wires the routes to their collaborators.
// metricsHandler may be nil, in which case /metrics is not exposed.
func NewHandler(svc evaluation.Service, repo *questions.Repository, cfg *config.Config,
	metricsHandler http.Handler, logger *zap.Logger) *Handler {
	return &Handler{
		svc:           svc,
		questions:     repo,
		staticDir:     cfg.StaticDir,
		maxAudioBytes: cfg.MaxAudioBytes,
		metrics:       metricsHandler,
		logger:        logger.Named("api"),
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	// Health check
	r.GET("/health", h.healthCheck)
	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics))
	}

	eval := r.Group("/evaluate-question")
	{
		eval.GET("/", h.evaluateLiveness)
		eval.POST("/", h.evaluateQuestion)
	}

	iq := r.Group("/interview_questions")
	{
		iq.GET("/interview-question-list", h.listQuestions)
		iq.GET("/InterviewQuestionList.json", h.listQuestions)
		iq.GET("/keywords", h.listKeywords)
		iq.StaticFile("/", filepath.Join(h.staticDir, "interview_questions", "index.html"))
	}

	// Paths the bundled UI fetches relative to the site root
	r.GET("/InterviewQuestionList.json", h.listQuestions)
	r.StaticFile("/", filepath.Join(h.staticDir, "index.html"))
	r.Static("/assets", filepath.Join(h.staticDir, "interview_questions", "assets"))
}

// healthCheck returns server health status
func (h *Handler) healthCheck(c *gin.Context) {
	utils.Success(c, gin.H{
		"status":  "ok",
		"service": "interviewcoach",
	})
}
