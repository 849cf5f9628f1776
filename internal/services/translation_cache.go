package services

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Aerovity/cloudflare-voice-translator/internal/metrics"
	"github.com/Aerovity/cloudflare-voice-translator/internal/models"
)

const (
	// TranslationCacheTTL is the fixed TTL for cached translations.
	// Reads never renew it.
	TranslationCacheTTL = time.Hour

	// cacheKeyDelimiter joins the raw key parts. The parts are used exactly
	// as received: no trimming, no case folding, so "Hello" and "hello"
	// cache independently.
	cacheKeyDelimiter = "|"
)

// TranslationCacheService handles caching of translations in the database.
// Entries are advisory: a missing or expired entry only costs a redundant
// model call.
type TranslationCacheService struct {
	db *gorm.DB
}

// NewTranslationCacheService creates a new translation cache service
func NewTranslationCacheService(db *gorm.DB) *TranslationCacheService {
	return &TranslationCacheService{db: db}
}

// Get retrieves a cached translation for the exact (text, sourceLang,
// targetLang) triple. Returns the translated text and true if found, empty
// string and false if not. Expired entries are deleted on read and count as
// misses.
func (s *TranslationCacheService) Get(text, sourceLang, targetLang string) (string, bool) {
	if s.db == nil {
		return "", false
	}

	hash := hashCacheKey(text, sourceLang, targetLang)

	var cached models.TranslationCache
	err := s.db.Where("key_hash = ?", hash).First(&cached).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			debugLog("Cache read error for hash=%s: %v", hash[:16], err)
		}
		metrics.TranslationCacheMisses.Inc()
		return "", false
	}

	if cached.IsExpired() {
		s.db.Delete(&cached)
		metrics.TranslationCacheMisses.Inc()
		debugLog("Cache entry expired for hash=%s (source=%q)", hash[:16], cached.SourceText)
		return "", false
	}

	// Increment hit count inline (avoid goroutine-per-hit). Expiry is untouched.
	_ = s.db.Model(&models.TranslationCache{}).Where("id = ?", cached.ID).UpdateColumn("hit_count", gorm.Expr("hit_count + 1")).Error

	metrics.TranslationCacheHits.Inc()
	metrics.TranslationRequestsTotal.WithLabelValues("cache").Inc()
	debugLog("Cache hit for hash=%s (source=%q)", hash[:16], cached.SourceText)
	return cached.TranslatedText, true
}

// Set stores a translation under the exact key triple with the fixed TTL.
// Concurrent writers for the same key race benignly; last write wins.
func (s *TranslationCacheService) Set(text, sourceLang, targetLang, translatedText string) error {
	if s.db == nil {
		return nil
	}

	now := time.Now()
	cached := models.TranslationCache{
		KeyHash:        hashCacheKey(text, sourceLang, targetLang),
		SourceText:     text,
		SourceLanguage: sourceLang,
		TargetLanguage: targetLang,
		TranslatedText: translatedText,
		CreatedAt:      now,
		ExpiresAt:      now.Add(TranslationCacheTTL),
		HitCount:       0,
	}

	// Upsert: refresh the translation and expiry if the entry exists
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_hash"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"translated_text", "created_at", "expires_at",
		}),
	}).Create(&cached).Error
}

// GetStats returns cache statistics
func (s *TranslationCacheService) GetStats() (totalEntries int64, totalHits int64) {
	if s.db == nil {
		return 0, 0
	}

	s.db.Model(&models.TranslationCache{}).Count(&totalEntries)

	var result struct {
		TotalHits int64
	}
	s.db.Model(&models.TranslationCache{}).Select("COALESCE(SUM(hit_count), 0) as total_hits").Scan(&result)
	totalHits = result.TotalHits

	return totalEntries, totalHits
}

// hashCacheKey hashes the literal composite key for efficient indexed lookups
func hashCacheKey(text, sourceLang, targetLang string) string {
	key := strings.Join([]string{text, sourceLang, targetLang}, cacheKeyDelimiter)
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:])
}
