package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// envelope is the JSON wrapper shared by every non-domain response
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, envelope{
		Success: true,
		Data:    data,
	})
}

// Error writes the failure envelope and stops the handler chain
func Error(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, envelope{
		Success: false,
		Error:   msg,
	})
}
