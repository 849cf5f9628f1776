package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Aerovity/cloudflare-voice-translator/internal/metrics"
	"github.com/Aerovity/cloudflare-voice-translator/internal/models"
)

// SessionHistoryService stores each session's translation history as a single
// row, so every mutation replaces the whole list atomically. Mutations for
// the same session are serialized through a per-session lock; different
// sessions proceed in parallel.
type SessionHistoryService struct {
	db    *gorm.DB
	locks sync.Map // sessionID -> *sync.Mutex
}

// NewSessionHistoryService creates a new session history service
func NewSessionHistoryService(db *gorm.DB) *SessionHistoryService {
	return &SessionHistoryService{db: db}
}

// sessionLock returns the mutex serializing mutations for a session
func (s *SessionHistoryService) sessionLock(sessionID string) *sync.Mutex {
	lock, _ := s.locks.LoadOrStore(sessionID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// Append adds a record to the session's history, creating the session on
// first append. When the list would exceed the cap, the oldest records are
// dropped so the most recent MaxHistoryEntries survive.
func (s *SessionHistoryService) Append(sessionID string, record models.TranslationRecord) error {
	if s.db == nil {
		return fmt.Errorf("history store not available")
	}

	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	records, err := s.load(sessionID)
	if err != nil {
		return err
	}

	records = append(records, record)
	if len(records) > models.MaxHistoryEntries {
		records = records[len(records)-models.MaxHistoryEntries:]
	}

	encoded, err := models.EncodeRecords(records)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	history := models.SessionHistory{
		SessionID: sessionID,
		Records:   encoded,
		UpdatedAt: time.Now(),
	}

	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"records", "updated_at"}),
	}).Create(&history).Error
	if err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}

	metrics.HistoryAppendsTotal.Inc()
	debugLog("History append: session=%s, length=%d", sessionID, len(records))
	return nil
}

// GetAll returns the session's full record list, oldest first, or an empty
// list when the session has no stored history.
func (s *SessionHistoryService) GetAll(sessionID string) ([]models.TranslationRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("history store not available")
	}
	return s.load(sessionID)
}

// Clear removes the session's history entirely. Clearing a session with no
// history is not an error.
func (s *SessionHistoryService) Clear(sessionID string) error {
	if s.db == nil {
		return fmt.Errorf("history store not available")
	}

	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	err := s.db.Where("session_id = ?", sessionID).Delete(&models.SessionHistory{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	debugLog("History cleared: session=%s", sessionID)
	return nil
}

// load reads and decodes the session's record list
func (s *SessionHistoryService) load(sessionID string) ([]models.TranslationRecord, error) {
	var history models.SessionHistory
	err := s.db.Where("session_id = ?", sessionID).First(&history).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []models.TranslationRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	records, err := history.DecodeRecords()
	if err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	return records, nil
}

// SessionCount returns the number of sessions with stored history
func (s *SessionHistoryService) SessionCount() int64 {
	if s.db == nil {
		return 0
	}
	var count int64
	s.db.Model(&models.SessionHistory{}).Count(&count)
	return count
}
