package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aerovity/cloudflare-voice-translator/internal/services"
)

type HistoryHandler struct {
	history *services.SessionHistoryService
}

func NewHistoryHandler(history *services.SessionHistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// GetHistory handles GET /api/history?sessionId=<id>.
// Returns the session's full record list, oldest first, with its count.
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	sessionID := c.Query("sessionId")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId is required"})
		return
	}

	records, err := h.history.GetAll(sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"translations": records,
		"count":        len(records),
	})
}

// ClearHistory handles DELETE /api/history?sessionId=<id>.
// Removes all records for the session; clearing an empty session succeeds.
func (h *HistoryHandler) ClearHistory(c *gin.Context) {
	sessionID := c.Query("sessionId")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId is required"})
		return
	}

	if err := h.history.Clear(sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear history", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "history cleared",
		"sessionId": sessionID,
	})
}
