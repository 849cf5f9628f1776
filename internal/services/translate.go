package services

import (
	"context"

	"gorm.io/gorm"
)

// TextTranslator is the model-facing contract the cache-aside lookup
// delegates to on a miss.
type TextTranslator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
	IsEnabled() bool
}

// TranslateService is the cache-aside lookup: check the cache, fall through
// to the translation model on a miss, and populate the cache with the fixed
// TTL. The cache is purely advisory.
type TranslateService struct {
	cache *TranslationCacheService
	model TextTranslator
}

// NewTranslateService creates a translate service over the given database
// and translation model.
func NewTranslateService(db *gorm.DB, model TextTranslator) *TranslateService {
	svc := &TranslateService{
		cache: NewTranslationCacheService(db),
		model: model,
	}

	infoLog("Translate service initialized: model=%v, cache_ttl=%s", model.IsEnabled(), TranslationCacheTTL)

	return svc
}

// IsModelEnabled returns whether the translation model is available
func (s *TranslateService) IsModelEnabled() bool {
	return s.model.IsEnabled()
}

// Cache exposes the underlying cache, for stats reporting
func (s *TranslateService) Cache() *TranslationCacheService {
	return s.cache
}

// TranslateCached translates text into targetLang, serving from the cache
// when the exact (text, sourceLang, targetLang) triple was translated within
// the TTL. Returns the translated text and whether it came from the cache.
//
// Concurrent misses for the same key may both reach the model and both write
// the cache; the last write wins, which is harmless since entries are pure
// functions of their key.
func (s *TranslateService) TranslateCached(ctx context.Context, text, sourceLang, targetLang string) (string, bool, error) {
	if cached, ok := s.cache.Get(text, sourceLang, targetLang); ok {
		return cached, true, nil
	}

	translated, err := s.model.Translate(ctx, text, sourceLang, targetLang)
	if err != nil {
		return "", false, err
	}

	if err := s.cache.Set(text, sourceLang, targetLang, translated); err != nil {
		// Cache writes are best-effort; the translation already succeeded.
		debugLog("Cache write failed: %v", err)
	}

	return translated, false, nil
}
