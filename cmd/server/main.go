// server runs the voice translator backend.
//
// Usage: go run main.go [-port=<port>] [-db=<path>]
//
// Upstream credentials come from the environment:
//   - OPENAI_API_KEY enables speech-to-text (Whisper)
//   - GOOGLE_API_KEY enables translation (Gemini)
//   - ADMIN_KEY optionally guards /api/stats
package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Aerovity/cloudflare-voice-translator/internal/api/handlers"
	"github.com/Aerovity/cloudflare-voice-translator/internal/database"
	"github.com/Aerovity/cloudflare-voice-translator/internal/metrics"
	"github.com/Aerovity/cloudflare-voice-translator/internal/middleware"
	"github.com/Aerovity/cloudflare-voice-translator/internal/services"
)

const metricsUpdateInterval = time.Minute

func main() {
	port := flag.String("port", envOr("PORT", "8080"), "HTTP listen port")
	dbPath := flag.String("db", envOr("DB_PATH", "./data/translator.db"), "SQLite database path")
	flag.Parse()

	if err := database.Initialize(*dbPath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	db := database.GetDB()

	if err := database.RunMaintenance(db); err != nil {
		log.Printf("Warning: startup maintenance failed: %v", err)
	}

	// Services
	translator := services.NewGeminiTranslator()
	translateService := services.NewTranslateService(db, translator)
	historyService := services.NewSessionHistoryService(db)
	transcriber := services.NewWhisperTranscriber()

	// Handlers
	translateHandler := handlers.NewTranslateHandler(translateService, historyService)
	speechHandler := handlers.NewSpeechHandler(transcriber)
	historyHandler := handlers.NewHistoryHandler(historyService)
	statsHandler := handlers.NewStatsHandler(translateService.Cache(), historyService)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(metrics.HTTPMetrics())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:           true,
		AllowMethods:              []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:              []string{"Content-Type", "Authorization"},
		OptionsResponseStatusCode: http.StatusOK,
	}))

	api := router.Group("/api", middleware.RateLimit())
	{
		api.POST("/transcribe", speechHandler.Transcribe)
		api.POST("/translate", translateHandler.Translate)
		api.POST("/synthesize", speechHandler.Synthesize)
		api.GET("/history", historyHandler.GetHistory)
		api.DELETE("/history", historyHandler.ClearHistory)
		api.GET("/stats", middleware.AdminKeyAuth(), statsHandler.GetStats)
		api.GET("/health", handlers.Health)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Unmatched routes get the API descriptor, not a bare 404
	router.NoRoute(handlers.Index)

	// Keep storage gauges current
	go func() {
		metrics.UpdateStorageMetrics(db)
		for range time.Tick(metricsUpdateInterval) {
			metrics.UpdateStorageMetrics(db)
		}
	}()

	log.Printf("%s %s listening on :%s (db=%s)", handlers.APIName, handlers.APIVersion, *port, *dbPath)
	if err := router.Run(":" + *port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
