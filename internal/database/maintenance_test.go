package database

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Aerovity/cloudflare-voice-translator/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.TranslationCache{}, &models.SessionHistory{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func TestRunMaintenancePurgesExpiredEntries(t *testing.T) {
	db := newTestDB(t)

	now := time.Now()
	entries := []models.TranslationCache{
		{KeyHash: "live", SourceText: "Hello", TargetLanguage: "Spanish", TranslatedText: "Hola",
			CreatedAt: now, ExpiresAt: now.Add(time.Hour)},
		{KeyHash: "dead", SourceText: "Bye", TargetLanguage: "Spanish", TranslatedText: "Adiós",
			CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)},
	}
	if err := db.Create(&entries).Error; err != nil {
		t.Fatalf("Failed to seed cache: %v", err)
	}

	if err := RunMaintenance(db); err != nil {
		t.Fatalf("RunMaintenance failed: %v", err)
	}

	var remaining []models.TranslationCache
	if err := db.Find(&remaining).Error; err != nil {
		t.Fatalf("Failed to read cache: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("Expected 1 surviving entry, got %d", len(remaining))
	}
	if remaining[0].KeyHash != "live" {
		t.Errorf("Expected unexpired entry to survive, got %q", remaining[0].KeyHash)
	}
}

func TestRunMaintenanceOnEmptyDatabase(t *testing.T) {
	db := newTestDB(t)

	if err := RunMaintenance(db); err != nil {
		t.Errorf("RunMaintenance on empty database failed: %v", err)
	}
}
