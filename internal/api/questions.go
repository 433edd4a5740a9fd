package api

import (
	"net/http"
	"strconv"

	"interviewcoach/internal/questions"
	"interviewcoach/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// listQuestions returns the question list as a bare JSON array, the shape the UI loads.
// Optional query: keyword, top=true, sort=top.
func (h *Handler) listQuestions(c *gin.Context) {
	top, _ := strconv.ParseBool(c.Query("top"))
	qs, err := h.questions.List(c.Request.Context(), questions.Filter{
		Keyword: c.Query("keyword"),
		TopOnly: top,
		Sorted:  c.Query("sort") == "top",
	})
	if err != nil {
		h.logger.Error("failed to load question list",
			zap.String("path", h.questions.Path()),
			zap.Error(err))
		utils.Error(c, http.StatusInternalServerError, "question list unavailable")
		return
	}
	c.JSON(http.StatusOK, qs)
}

func (h *Handler) listKeywords(c *gin.Context) {
	keywords, err := h.questions.Keywords(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to load question list", zap.Error(err))
		utils.Error(c, http.StatusInternalServerError, "question list unavailable")
		return
	}
	utils.Success(c, gin.H{"keywords": keywords})
}
