package database

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/Aerovity/cloudflare-voice-translator/internal/models"
)

// RunMaintenance runs startup data maintenance after schema migration.
// Safe to run multiple times.
func RunMaintenance(db *gorm.DB) error {
	if err := purgeExpiredCacheEntries(db); err != nil {
		return err
	}
	backfillCacheExpiry(db)
	return nil
}

// purgeExpiredCacheEntries removes translation cache rows whose TTL has
// elapsed. Expired rows are also deleted lazily on read; this sweep keeps the
// table from accumulating entries for keys that are never requested again.
func purgeExpiredCacheEntries(db *gorm.DB) error {
	result := db.Where("expires_at <= ?", time.Now()).Delete(&models.TranslationCache{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("Purged %d expired translation cache entries", result.RowsAffected)
	}
	return nil
}

// backfillCacheExpiry fixes rows written before expiry was mandatory.
// Rows with a zero expires_at get the standard one hour TTL from creation.
func backfillCacheExpiry(db *gorm.DB) {
	result := db.Exec(`
		UPDATE translation_caches
		SET expires_at = datetime(created_at, '+1 hour')
		WHERE expires_at IS NULL OR expires_at = ''
	`)
	if result.Error != nil {
		log.Printf("Warning: failed to backfill cache expiry: %v", result.Error)
	} else if result.RowsAffected > 0 {
		log.Printf("Backfilled expiry on %d cache entries", result.RowsAffected)
	}
}
