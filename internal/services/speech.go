package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/Aerovity/cloudflare-voice-translator/internal/metrics"
)

// WhisperTranscriber converts audio to text via the OpenAI Whisper API
type WhisperTranscriber struct {
	client  *openai.Client
	model   string
	enabled bool
}

// TranscriptionResult is the recognized text plus the language the model
// detected, "unknown" when the model did not report one.
type TranscriptionResult struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// NewWhisperTranscriber creates a new Whisper transcriber.
// It auto-enables if OPENAI_API_KEY is set.
func NewWhisperTranscriber() *WhisperTranscriber {
	apiKey := os.Getenv("OPENAI_API_KEY")

	svc := &WhisperTranscriber{
		model:   openai.Whisper1,
		enabled: apiKey != "",
	}

	if svc.enabled {
		config := openai.DefaultConfig(apiKey)
		if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
			config.BaseURL = baseURL
		}
		svc.client = openai.NewClientWithConfig(config)
		infoLog("Whisper transcriber: enabled (model=%s)", svc.model)
	} else {
		infoLog("Whisper transcriber: disabled (no OPENAI_API_KEY)")
	}

	return svc
}

// IsEnabled returns whether the transcriber is available
func (s *WhisperTranscriber) IsEnabled() bool {
	return s.enabled
}

// Transcribe submits raw audio bytes to the speech model and returns the
// recognized text with the detected language. The filename only carries the
// container format hint (e.g. "recording.webm"); the bytes are what matter.
func (s *WhisperTranscriber) Transcribe(ctx context.Context, audio []byte, filename string) (*TranscriptionResult, error) {
	if !s.enabled {
		return nil, fmt.Errorf("transcription service not enabled")
	}

	if len(audio) == 0 {
		return nil, fmt.Errorf("empty audio payload")
	}

	startTime := time.Now()

	// Verbose JSON is the only response format that carries the detected
	// language alongside the text.
	resp, err := s.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    s.model,
		FilePath: filename,
		Reader:   bytes.NewReader(audio),
		Format:   openai.AudioResponseFormatVerboseJSON,
	})

	metrics.TranscriptionLatency.Observe(time.Since(startTime).Seconds())

	if err != nil {
		metrics.TranscriptionErrorsTotal.WithLabelValues("api").Inc()
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	language := resp.Language
	if language == "" {
		language = "unknown"
	}

	metrics.TranscriptionRequestsTotal.Inc()
	debugLog("Transcribed %d bytes -> %q (language=%s, latency=%v)",
		len(audio), truncateText(resp.Text, 30), language, time.Since(startTime))

	return &TranscriptionResult{
		Text:     resp.Text,
		Language: language,
	}, nil
}
