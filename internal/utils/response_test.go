package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testCases := []struct {
		name     string
		handler  gin.HandlerFunc
		wantCode int
		wantBody string
	}{
		{
			name: "success",
			handler: func(c *gin.Context) {
				Success(c, gin.H{"status": "ok"})
			},
			wantCode: http.StatusOK,
			wantBody: `{"success":true,"data":{"status":"ok"}}`,
		},
		{
			name: "error",
			handler: func(c *gin.Context) {
				Error(c, http.StatusBadGateway, "transcription failed")
			},
			wantCode: http.StatusBadGateway,
			wantBody: `{"success":false,"error":"transcription failed"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := gin.New()
			server.GET("/", tc.handler)
			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tc.wantCode, recorder.Code)
			assert.JSONEq(t, tc.wantBody, recorder.Body.String())
		})
	}
}
