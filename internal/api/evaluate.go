package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"interviewcoach/internal/evaluation"
	"interviewcoach/internal/stt"
	"interviewcoach/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// multipartOverhead covers the text fields and part headers around the audio
const multipartOverhead = 1 << 20

type evaluateForm struct {
	// Token is the caller's provider key; optional when the server has one
	Token         string                `form:"token"`
	Question      string                `form:"question" binding:"required"`
	CorrectAnswer string                `form:"correctAnswer" binding:"required"`
	Audio         *multipart.FileHeader `form:"audio" binding:"required"`
}

// evaluateLiveness answers the probe the UI sends before recording
func (h *Handler) evaluateLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, "hello world")
}

// evaluateQuestion transcribes the uploaded answer and scores it
func (h *Handler) evaluateQuestion(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxAudioBytes+multipartOverhead)

	var form evaluateForm
	if err := c.ShouldBind(&form); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			utils.Error(c, http.StatusBadRequest, fmt.Sprintf("audio exceeds %d bytes", h.maxAudioBytes))
			return
		}
		utils.Error(c, http.StatusBadRequest, "invalid form: "+err.Error())
		return
	}

	if form.Audio.Size > h.maxAudioBytes {
		utils.Error(c, http.StatusBadRequest, fmt.Sprintf("audio exceeds %d bytes", h.maxAudioBytes))
		return
	}
	data, err := readUpload(form.Audio)
	if err != nil {
		h.logger.Error("failed to read upload", zap.Error(err))
		utils.Error(c, http.StatusBadRequest, "failed to read audio")
		return
	}

	res, err := h.svc.Evaluate(c.Request.Context(), evaluation.Request{
		Audio: stt.Audio{
			Data:        data,
			Filename:    form.Audio.Filename,
			ContentType: form.Audio.Header.Get("Content-Type"),
		},
		Question:        form.Question,
		ReferenceAnswer: form.CorrectAnswer,
		Credential:      form.Token,
	})
	if err != nil {
		status, msg := evaluationFailure(err)
		h.logger.Warn("evaluation failed",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Int("status", status),
			zap.Error(err))
		utils.Error(c, status, msg)
		return
	}

	c.JSON(http.StatusOK, res)
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// evaluationFailure maps a service error to the status and message sent back.
// Upstream bodies stay in the log only.
func evaluationFailure(err error) (int, string) {
	switch {
	case errors.Is(err, evaluation.ErrEmptyAudio), errors.Is(err, evaluation.ErrInvalidRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, evaluation.ErrMissingCredential):
		return http.StatusUnauthorized, evaluation.ErrMissingCredential.Error()
	}

	var stage string
	var te *evaluation.TranscriptionError
	var se *evaluation.ScoringError
	switch {
	case errors.As(err, &te):
		stage = "transcription"
	case errors.As(err, &se):
		stage = "scoring"
	default:
		return http.StatusInternalServerError, "internal error"
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, stage + " timed out"
	}
	if errors.Is(err, stt.ErrEmptyTranscript) {
		return http.StatusBadGateway, "no speech detected in audio"
	}
	if status, ok := evaluation.UpstreamStatus(err); ok {
		switch status {
		case http.StatusUnauthorized, http.StatusForbidden:
			return http.StatusUnauthorized, stage + " provider rejected the credential"
		case http.StatusTooManyRequests:
			return http.StatusTooManyRequests, stage + " provider is rate limiting, try again later"
		}
	}
	return http.StatusBadGateway, stage + " failed"
}
