package services

import (
	"log"
	"os"
	"strings"
)

var translationDebugEnabled = false

func init() {
	// Enable debug logging if TRANSLATION_DEBUG=1 or TRANSLATION_DEBUG=true
	if v := os.Getenv("TRANSLATION_DEBUG"); v != "" {
		v = strings.ToLower(v)
		translationDebugEnabled = v == "1" || v == "true" || v == "yes"
		if translationDebugEnabled {
			log.Println("[TRANSLATOR] Debug logging: ENABLED")
		}
	}
}

// debugLog logs only when TRANSLATION_DEBUG is enabled.
// Use this for verbose per-request details, cache hits/misses, prompt sizes, etc.
func debugLog(format string, args ...interface{}) {
	if translationDebugEnabled {
		log.Printf("[TRANSLATOR DEBUG] "+format, args...)
	}
}

// infoLog always logs important service events.
// Use this for upstream availability, API errors, maintenance stats, etc.
func infoLog(format string, args ...interface{}) {
	log.Printf("[TRANSLATOR] "+format, args...)
}
