package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Aerovity/cloudflare-voice-translator/internal/metrics"
)

const (
	// Gemini flash - fast and cheap, good enough for literal translation
	geminiModel   = "gemini-2.0-flash"
	geminiAPIURL  = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"
	geminiTimeout = 15 * time.Second

	// AutoDetectLang is the sentinel used when the caller did not specify a
	// source language; the model is told to detect it.
	AutoDetectLang = "auto"
)

// GeminiTranslator translates text via the Gemini API
type GeminiTranslator struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
	enabled    bool
}

// geminiRequest is the request body for Gemini API
type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// geminiAPIResponse is the response from Gemini API
type geminiAPIResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const translatePromptAuto = `You are a translation engine. Detect the language of the text below and translate it into %s.
Respond with only the translated text. No explanations, no commentary, no quotation marks around the result.

TEXT:
%s`

const translatePromptKnown = `You are a translation engine. Translate the text below from %s into %s.
Respond with only the translated text. No explanations, no commentary, no quotation marks around the result.

TEXT:
%s`

// NewGeminiTranslator creates a new Gemini translator.
// It auto-enables if GOOGLE_API_KEY (or GOOGLE_API_KEY_FILE) is set.
func NewGeminiTranslator() *GeminiTranslator {
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		// Try reading from file as fallback (for local dev)
		if keyPath := os.Getenv("GOOGLE_API_KEY_FILE"); keyPath != "" {
			if data, err := os.ReadFile(keyPath); err == nil {
				apiKey = strings.TrimSpace(string(data))
			}
		}
	}

	svc := &GeminiTranslator{
		apiKey:     apiKey,
		apiURL:     fmt.Sprintf(geminiAPIURL, geminiModel),
		httpClient: &http.Client{Timeout: geminiTimeout},
		enabled:    apiKey != "",
	}

	if svc.enabled {
		// Only show first 10 chars of key for security
		keyPreview := apiKey
		if len(keyPreview) > 10 {
			keyPreview = keyPreview[:10] + "..."
		}
		infoLog("Gemini translator: enabled (model=%s, key=%s)", geminiModel, keyPreview)
	} else {
		infoLog("Gemini translator: disabled (no GOOGLE_API_KEY)")
	}

	return svc
}

// IsEnabled returns whether the translator is available
func (s *GeminiTranslator) IsEnabled() bool {
	return s.enabled
}

// Translate translates text into targetLang. sourceLang may be the
// auto-detect sentinel, in which case the model detects the source language.
// A single model failure propagates immediately; there is no retry. An empty
// model response is returned as an empty translation.
func (s *GeminiTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if !s.enabled {
		return "", fmt.Errorf("translation service not enabled")
	}

	startTime := time.Now()

	var prompt string
	if sourceLang == "" || sourceLang == AutoDetectLang {
		prompt = fmt.Sprintf(translatePromptAuto, targetLang, text)
	} else {
		prompt = fmt.Sprintf(translatePromptKnown, sourceLang, targetLang, text)
	}

	// Low temperature for a literal translation rather than a creative one,
	// bounded output so a runaway generation cannot blow up the response.
	req := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenConfig{
			Temperature:     0.1,
			MaxOutputTokens: 1024,
		},
	}

	reqJSON, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := s.apiURL + "?key=" + s.apiKey
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(reqJSON))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	debugLog("Gemini request: model=%s, source=%s, target=%s, input_len=%d", geminiModel, sourceLang, targetLang, len(text))

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		metrics.TranslationErrorsTotal.WithLabelValues("network").Inc()
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// Record latency
	metrics.TranslationModelLatency.Observe(time.Since(startTime).Seconds())

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.TranslationErrorsTotal.WithLabelValues("read").Inc()
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		metrics.TranslationErrorsTotal.WithLabelValues("api").Inc()
		debugLog("Gemini API error: status=%d body=%s", resp.StatusCode, string(body))
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp geminiAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		metrics.TranslationErrorsTotal.WithLabelValues("parse").Inc()
		return "", fmt.Errorf("failed to parse API response: %w", err)
	}

	if apiResp.Error != nil {
		metrics.TranslationErrorsTotal.WithLabelValues("api").Inc()
		return "", fmt.Errorf("API error %d: %s", apiResp.Error.Code, apiResp.Error.Message)
	}

	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		metrics.TranslationErrorsTotal.WithLabelValues("empty").Inc()
		return "", fmt.Errorf("no response from Gemini")
	}

	// An empty or whitespace-only completion is an unhelpful but valid
	// translation of "", so it is not treated as an error.
	translated := strings.TrimSpace(apiResp.Candidates[0].Content.Parts[0].Text)

	metrics.TranslationRequestsTotal.WithLabelValues("model").Inc()
	debugLog("Gemini translated %q -> %q (target=%s, latency=%v)",
		truncateText(text, 30), truncateText(translated, 30), targetLang, time.Since(startTime))

	return translated, nil
}

// truncateText shortens text to maxLen runes for log output
func truncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + "..."
}
