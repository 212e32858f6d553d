// Package summarizer generates structured video summaries from
// transcripts by streaming chat completions from an OpenAI-compatible
// API.
package summarizer

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for summary generation.
var (
	summariesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agent_summaries_total",
		Help: "Total summary generations by outcome",
	}, []string{"status"})

	summaryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "agent_summary_duration_seconds",
		Help:    "Summary generation duration in seconds",
		Buckets: []float64{1, 5, 10, 20, 30, 60, 120},
	})
)

// Config holds the summarizer configuration.
type Config struct {
	// BaseURL is the chat completions endpoint.
	BaseURL string

	// APIKey is the bearer token for the completions API (REQUIRED).
	APIKey string

	// Model is the model identifier to request.
	Model string

	// Sampling parameters.
	MaxTokens   int
	Temperature float64
	TopP        float64

	// Timeout bounds the whole streaming request.
	Timeout time.Duration
}

// DefaultConfig returns the default configuration. The API key must
// still be supplied by the caller.
func DefaultConfig() Config {
	return Config{
		BaseURL:     "https://openrouter.ai/api/v1/chat/completions",
		Model:       "x-ai/grok-4-fast:free",
		MaxTokens:   2048,
		Temperature: 0.3,
		TopP:        0.9,
		Timeout:     60 * time.Second,
	}
}

// Service generates summaries of video transcripts.
type Service struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// New creates a new summarizer service.
func New(cfg Config) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = def.Temperature
	}
	if cfg.TopP == 0 {
		cfg.TopP = def.TopP
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}

	return &Service{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		logger: log.With().Str("component", "summarizer").Logger(),
	}, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (s *Service) SetHTTPClient(client *http.Client) {
	s.httpClient = client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
	Stream      bool          `json:"stream"`
}

type chatChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// SummarizeStream generates a summary of the transcript, invoking fn
// for each text chunk as it arrives. It returns the complete summary
// text. If fn returns an error, streaming stops and the error is
// returned.
func (s *Service) SummarizeStream(ctx context.Context, transcript string, fn func(chunk string) error) (string, error) {
	startTime := time.Now()
	defer func() {
		summaryDuration.Observe(time.Since(startTime).Seconds())
	}()

	payload := chatRequest{
		Model: s.config.Model,
		Messages: []chatMessage{
			{Role: "user", Content: buildPrompt(transcript)},
		},
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
		TopP:        s.config.TopP,
		Stream:      true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		summariesTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL, bytes.NewReader(body))
	if err != nil {
		summariesTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		summariesTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("completions request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		summariesTotal.WithLabelValues("error").Inc()
		s.logger.Warn().
			Int("status", resp.StatusCode).
			Msg("Completions API error")
		return "", fmt.Errorf("completions API returned status %d", resp.StatusCode)
	}

	var full strings.Builder

	scanner := bufio.NewScanner(resp.Body)
	// SSE lines carry whole JSON chunks, which can exceed the default
	// 64KB token limit on long sections.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := line[len("data: "):]
		if data == "[DONE]" {
			break
		}

		var chunk chatChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		content := chunk.Choices[0].Delta.Content
		if content == "" {
			continue
		}

		full.WriteString(content)
		if err := fn(content); err != nil {
			summariesTotal.WithLabelValues("error").Inc()
			return full.String(), fmt.Errorf("stream callback: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		summariesTotal.WithLabelValues("error").Inc()
		return full.String(), fmt.Errorf("read stream: %w", err)
	}

	summariesTotal.WithLabelValues("success").Inc()
	s.logger.Debug().
		Int("chars", full.Len()).
		Dur("duration", time.Since(startTime)).
		Msg("Summary generated")

	return full.String(), nil
}
