package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aerovity/cloudflare-voice-translator/internal/services"
)

// Transcriber converts raw audio bytes to recognized text
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (*services.TranscriptionResult, error)
}

type SpeechHandler struct {
	transcriber Transcriber
}

func NewSpeechHandler(transcriber Transcriber) *SpeechHandler {
	return &SpeechHandler{transcriber: transcriber}
}

// Transcribe handles POST /api/transcribe.
// Expects a multipart form with a non-empty "audio" field.
func (h *SpeechHandler) Transcribe(c *gin.Context) {
	file, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio file is required"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read audio", "details": err.Error()})
		return
	}
	defer f.Close()

	audio, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read audio", "details": err.Error()})
		return
	}
	if len(audio) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio file is required"})
		return
	}

	result, err := h.transcriber.Transcribe(c.Request.Context(), audio, file.Filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transcription failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"text":     result.Text,
		"language": result.Language,
	})
}

type synthesizeRequest struct {
	Text string `json:"text"`
	Lang string `json:"lang"`
}

// Synthesize handles POST /api/synthesize.
// No model is called: synthesis happens in the browser via the Web Speech
// API, so this endpoint only validates and acknowledges.
func (h *SpeechHandler) Synthesize(c *gin.Context) {
	var req synthesizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body", "details": err.Error()})
		return
	}

	if req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	lang := req.Lang
	if lang == "" {
		lang = "en"
	}

	c.JSON(http.StatusOK, gin.H{
		"text":    req.Text,
		"lang":    lang,
		"message": "Speech synthesis is performed client-side via the Web Speech API",
	})
}
