package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aerovity/cloudflare-voice-translator/internal/services"
)

const (
	// APIName and APIVersion are reported by the API descriptor and health endpoints
	APIName    = "voice-translator-api"
	APIVersion = "1.0.0"
)

// Index is the catch-all handler for unmatched routes. It returns a
// descriptor of the available operations instead of a bare 404 so the demo
// frontend can discover the API.
func Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    APIName,
		"version": APIVersion,
		"endpoints": []string{
			"POST /api/transcribe",
			"POST /api/translate",
			"POST /api/synthesize",
			"GET /api/history?sessionId=<id>",
			"DELETE /api/history?sessionId=<id>",
			"GET /api/stats",
			"GET /api/health",
			"GET /metrics",
		},
	})
}

// Health handles GET /api/health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"name":    APIName,
		"version": APIVersion,
	})
}

type StatsHandler struct {
	cache   *services.TranslationCacheService
	history *services.SessionHistoryService
}

func NewStatsHandler(cache *services.TranslationCacheService, history *services.SessionHistoryService) *StatsHandler {
	return &StatsHandler{
		cache:   cache,
		history: history,
	}
}

// GetStats handles GET /api/stats
func (h *StatsHandler) GetStats(c *gin.Context) {
	entries, hits := h.cache.GetStats()
	c.JSON(http.StatusOK, gin.H{
		"cache_entries": entries,
		"cache_hits":    hits,
		"sessions":      h.history.SessionCount(),
	})
}
