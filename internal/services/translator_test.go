package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

func TestGeminiTranslatorDisabledByDefault(t *testing.T) {
	// Avoid inheriting a developer's local env and making this test flaky.
	os.Unsetenv("GOOGLE_API_KEY")
	os.Unsetenv("GOOGLE_API_KEY_FILE")

	svc := NewGeminiTranslator()
	if svc.IsEnabled() {
		t.Error("Expected translator to be disabled without GOOGLE_API_KEY")
	}

	if _, err := svc.Translate(context.Background(), "Hello", "auto", "Spanish"); err == nil {
		t.Error("Expected error when translating with disabled service")
	}
}

// newTestTranslator points a translator at a fake Gemini endpoint
func newTestTranslator(url string) *GeminiTranslator {
	return &GeminiTranslator{
		apiKey:     "test-key",
		apiURL:     url,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		enabled:    true,
	}
}

func geminiReply(text string) string {
	return `{"candidates":[{"content":{"parts":[{"text":` + jsonString(text) + `}]}}]}`
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestGeminiTranslate(t *testing.T) {
	var gotReq geminiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(geminiReply("Hola\n")))
	}))
	defer server.Close()

	svc := newTestTranslator(server.URL)

	translated, err := svc.Translate(context.Background(), "Hello", "English", "Spanish")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if translated != "Hola" {
		t.Errorf("Expected trimmed %q, got %q", "Hola", translated)
	}

	if len(gotReq.Contents) != 1 || len(gotReq.Contents[0].Parts) != 1 {
		t.Fatal("Expected a single prompt part")
	}
	prompt := gotReq.Contents[0].Parts[0].Text
	if !strings.Contains(prompt, "English") || !strings.Contains(prompt, "Spanish") {
		t.Errorf("Prompt missing language pair: %q", prompt)
	}
	if !strings.Contains(prompt, "Hello") {
		t.Errorf("Prompt missing input text: %q", prompt)
	}
	if gotReq.GenerationConfig.Temperature > 0.3 {
		t.Errorf("Expected low temperature, got %v", gotReq.GenerationConfig.Temperature)
	}
	if gotReq.GenerationConfig.MaxOutputTokens <= 0 {
		t.Error("Expected bounded output length")
	}
}

func TestGeminiTranslateAutoDetect(t *testing.T) {
	var prompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req geminiRequest
		json.NewDecoder(r.Body).Decode(&req)
		prompt = req.Contents[0].Parts[0].Text
		w.Write([]byte(geminiReply("Hola")))
	}))
	defer server.Close()

	svc := newTestTranslator(server.URL)

	tests := []struct {
		name       string
		sourceLang string
	}{
		{"sentinel", AutoDetectLang},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Translate(context.Background(), "Hello", tt.sourceLang, "Spanish"); err != nil {
				t.Fatalf("Translate failed: %v", err)
			}
			if !strings.Contains(prompt, "Detect the language") {
				t.Errorf("Expected auto-detect directive in prompt: %q", prompt)
			}
		})
	}
}

func TestGeminiTranslateEmptyCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(geminiReply("   \n")))
	}))
	defer server.Close()

	svc := newTestTranslator(server.URL)

	translated, err := svc.Translate(context.Background(), "Hello", "auto", "Spanish")
	if err != nil {
		t.Fatalf("Empty completion should not be an error: %v", err)
	}
	if translated != "" {
		t.Errorf("Expected empty translation, got %q", translated)
	}
}

func TestGeminiTranslateErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http error status", http.StatusInternalServerError, `{"error":{"code":500,"message":"boom"}}`},
		{"api error payload", http.StatusOK, `{"error":{"code":429,"message":"quota exceeded"}}`},
		{"no candidates", http.StatusOK, `{"candidates":[]}`},
		{"malformed body", http.StatusOK, `{"candidates":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			svc := newTestTranslator(server.URL)
			if _, err := svc.Translate(context.Background(), "Hello", "auto", "Spanish"); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{"under limit", "hello", 10, "hello"},
		{"at limit", "hello", 5, "hello"},
		{"over limit", "hello world", 5, "hello..."},
		{"multibyte runes", "こんにちは世界", 5, "こんにちは..."},
		{"empty", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := truncateText(tt.input, tt.maxLen)
			if result != tt.expected {
				t.Errorf("truncateText(%q, %d) = %q, want %q", tt.input, tt.maxLen, result, tt.expected)
			}
		})
	}
}
