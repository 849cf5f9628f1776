package metrics

import (
	"log"

	"gorm.io/gorm"

	"github.com/Aerovity/cloudflare-voice-translator/internal/models"
)

// UpdateStorageMetrics queries the database and updates storage-related
// Prometheus gauges. Call this after mutations or periodically.
func UpdateStorageMetrics(db *gorm.DB) {
	if db == nil {
		return
	}

	// Translation cache size
	var cacheEntries int64
	if err := db.Model(&models.TranslationCache{}).Count(&cacheEntries).Error; err != nil {
		log.Printf("Metrics: failed to count cache entries: %v", err)
	} else {
		CacheEntries.Set(float64(cacheEntries))
	}

	// Accumulated cache hits across all entries
	var result struct {
		TotalHits int64
	}
	if err := db.Model(&models.TranslationCache{}).
		Select("COALESCE(SUM(hit_count), 0) as total_hits").
		Scan(&result).Error; err != nil {
		log.Printf("Metrics: failed to sum cache hits: %v", err)
	} else {
		CacheHitCountTotal.Set(float64(result.TotalHits))
	}

	// Sessions with stored history
	var sessions int64
	if err := db.Model(&models.SessionHistory{}).Count(&sessions).Error; err != nil {
		log.Printf("Metrics: failed to count sessions: %v", err)
	} else {
		SessionsTotal.Set(float64(sessions))
	}
}
