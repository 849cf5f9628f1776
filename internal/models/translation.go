package models

import (
	"encoding/json"
	"time"
)

// MaxHistoryEntries is the per-session cap on stored translation records.
// When an append would exceed it, the oldest records are dropped first.
const MaxHistoryEntries = 50

// TranslationRecord is a single translation as stored in a session's history.
// Timestamp is milliseconds since epoch; insertion order, not timestamp, is
// authoritative for ordering within a session.
type TranslationRecord struct {
	Original   string `json:"original"`
	Translated string `json:"translated"`
	SourceLang string `json:"sourceLang"`
	TargetLang string `json:"targetLang"`
	Timestamp  int64  `json:"timestamp"`
}

// TranslationCache stores cached translations keyed by the exact
// (text, sourceLang, targetLang) triple. The raw key parts are kept alongside
// the hash for debugging; lookups go through the hash index.
//
// Entries always expire one hour after creation. Reads never extend expiry.
type TranslationCache struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	KeyHash        string    `gorm:"uniqueIndex;not null;size:64" json:"key_hash"` // SHA256 hex of the composite key
	SourceText     string    `gorm:"not null" json:"source_text"`
	SourceLanguage string    `gorm:"size:50" json:"source_language"`
	TargetLanguage string    `gorm:"not null;size:50" json:"target_language"`
	TranslatedText string    `gorm:"not null" json:"translated_text"`
	CreatedAt      time.Time `json:"created_at"`
	ExpiresAt      time.Time `gorm:"index;not null" json:"expires_at"`
	HitCount       int       `gorm:"default:0" json:"hit_count"`
}

func (TranslationCache) TableName() string {
	return "translation_caches"
}

// IsExpired returns true if the cache entry has expired
func (c *TranslationCache) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

// SessionHistory is one session's entire translation history, stored as a
// single row so every mutation replaces the list atomically. Records holds
// the JSON-encoded []TranslationRecord, oldest first.
type SessionHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID string    `gorm:"uniqueIndex;not null;size:128" json:"session_id"`
	Records   string    `gorm:"not null" json:"records"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SessionHistory) TableName() string {
	return "session_histories"
}

// DecodeRecords unmarshals the stored record list. An empty blob decodes to
// an empty list.
func (h *SessionHistory) DecodeRecords() ([]TranslationRecord, error) {
	if h.Records == "" {
		return []TranslationRecord{}, nil
	}
	var records []TranslationRecord
	if err := json.Unmarshal([]byte(h.Records), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// EncodeRecords marshals a record list for storage.
func EncodeRecords(records []TranslationRecord) (string, error) {
	data, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
