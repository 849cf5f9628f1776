package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Aerovity/cloudflare-voice-translator/internal/metrics"
	"github.com/Aerovity/cloudflare-voice-translator/internal/models"
	"github.com/Aerovity/cloudflare-voice-translator/internal/services"
)

type TranslateHandler struct {
	translate *services.TranslateService
	history   *services.SessionHistoryService
}

func NewTranslateHandler(translate *services.TranslateService, history *services.SessionHistoryService) *TranslateHandler {
	return &TranslateHandler{
		translate: translate,
		history:   history,
	}
}

type translateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"sourceLang"`
	TargetLang string `json:"targetLang"`
	SessionID  string `json:"sessionId"`
}

// Translate handles POST /api/translate.
// Looks up the cache first, invokes the translation model on a miss, and
// records the result in the caller's session history when a sessionId is
// supplied. The history append is best-effort: its failure never fails the
// translate response, matching the cache being advisory.
func (h *TranslateHandler) Translate(c *gin.Context) {
	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body", "details": err.Error()})
		return
	}

	if req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	if req.TargetLang == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "targetLang is required"})
		return
	}

	sourceLang := req.SourceLang
	if sourceLang == "" {
		sourceLang = services.AutoDetectLang
	}

	translated, cached, err := h.translate.TranslateCached(c.Request.Context(), req.Text, sourceLang, req.TargetLang)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Translation failed", "details": err.Error()})
		return
	}

	if req.SessionID != "" {
		record := models.TranslationRecord{
			Original:   req.Text,
			Translated: translated,
			SourceLang: sourceLang,
			TargetLang: req.TargetLang,
			Timestamp:  time.Now().UnixMilli(),
		}
		if err := h.history.Append(req.SessionID, record); err != nil {
			// Best-effort: the translation already succeeded
			metrics.HistoryAppendErrorsTotal.Inc()
			log.Printf("Warning: history append failed for session %s: %v", req.SessionID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"translatedText": translated,
		"cached":         cached,
	})
}
