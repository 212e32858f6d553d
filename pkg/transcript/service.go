// Package transcript fetches YouTube video transcripts through a
// caption API, with retry logic, error classification, and optional
// rotating-proxy credentials.
package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for transcript operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agent_transcript_requests_total",
		Help: "Total transcript fetches by outcome",
	}, []string{"status"})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "agent_transcript_request_duration_seconds",
		Help:    "Transcript fetch duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	})
)

// Segment is a single caption segment.
type Segment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Result holds a fetched transcript in the forms the agent consumes.
type Result struct {
	// WithTimestamps is the transcript with one [MM:SS]-prefixed line
	// per segment.
	WithTimestamps string

	// PlainText is the transcript with segments joined by spaces.
	PlainText string

	// Segments is the raw segment data.
	Segments []Segment
}

// Config holds the service configuration.
type Config struct {
	// BaseURL is the caption API endpoint. The video ID and language
	// are appended as query parameters.
	BaseURL string

	// Language is the caption language code to request.
	Language string

	// Timeout bounds a single fetch attempt.
	Timeout time.Duration

	// ProxyUsername and ProxyPassword are rotating-proxy credentials
	// forwarded to the caption API. Both empty disables the proxy.
	ProxyUsername string
	ProxyPassword string

	// Retry configures the backoff behaviour for transient failures.
	Retry RetryConfig
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:  "https://transcript-api.internal/v1/transcripts",
		Language: "en",
		Timeout:  30 * time.Second,
		Retry:    DefaultRetryConfig(),
	}
}

// Service fetches transcripts for YouTube videos.
type Service struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// New creates a new transcript service.
func New(cfg Config) (*Service, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = DefaultRetryConfig()
	}

	return &Service{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		logger: log.With().Str("component", "transcript").Logger(),
	}, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (s *Service) SetHTTPClient(client *http.Client) {
	s.httpClient = client
}

// Fetch retrieves the transcript for a video and returns it formatted
// with and without timestamps. Transient failures are retried with
// exponential backoff; caption errors (missing, disabled, private) are
// returned immediately.
func (s *Service) Fetch(ctx context.Context, videoID string) (*Result, error) {
	startTime := time.Now()
	defer func() {
		requestDuration.Observe(time.Since(startTime).Seconds())
	}()

	var segments []Segment

	err := retryWithBackoff(ctx, s.config.Retry, func() error {
		var fetchErr error
		segments, fetchErr = s.fetchOnce(ctx, videoID)
		return fetchErr
	}, classifyError)

	if err != nil {
		requestsTotal.WithLabelValues("error").Inc()
		s.logger.Warn().
			Err(err).
			Str("video_id", videoID).
			Msg("Transcript fetch failed")
		return nil, err
	}

	requestsTotal.WithLabelValues("success").Inc()
	s.logger.Debug().
		Str("video_id", videoID).
		Int("segments", len(segments)).
		Dur("duration", time.Since(startTime)).
		Msg("Transcript fetched")

	return &Result{
		WithTimestamps: formatWithTimestamps(segments),
		PlainText:      joinPlainText(segments),
		Segments:       segments,
	}, nil
}

// fetchOnce performs a single request against the caption API.
func (s *Service) fetchOnce(ctx context.Context, videoID string) ([]Segment, error) {
	q := url.Values{}
	q.Set("video_id", videoID)
	q.Set("lang", s.config.Language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.config.ProxyUsername != "" || s.config.ProxyPassword != "" {
		req.Header.Set("X-Proxy-Username", s.config.ProxyUsername)
		req.Header.Set("X-Proxy-Password", s.config.ProxyPassword)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{
			ErrorClass: ErrorClassNetwork,
			Message:    "request failed",
			Err:        err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: ErrorClassNetwork,
			Message:    "read response body",
			Err:        err,
		}
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: classifyStatus(resp.StatusCode),
			Message:    apiErrorMessage(body, resp.Status),
		}
	}

	var segments []Segment
	if err := json.Unmarshal(body, &segments); err != nil {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: ErrorClassServer,
			Message:    "decode response",
			Err:        err,
		}
	}

	return segments, nil
}

// apiErrorMessage extracts the error detail from an API error body,
// falling back to the HTTP status line.
func apiErrorMessage(body []byte, status string) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return status
}

// classifyStatus categorizes an HTTP status code.
func classifyStatus(statusCode int) ErrorClass {
	switch {
	case statusCode >= 400 && statusCode < 500:
		return ErrorClassClient
	case statusCode >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

// classifyError categorizes an error for the retry decision.
func classifyError(err error) ErrorClass {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.ErrorClass
	}
	return ErrorClassNetwork
}

// formatWithTimestamps renders segments as one line each, prefixed with
// the [MM:SS] start time.
func formatWithTimestamps(segments []Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		start := int(seg.Start)
		fmt.Fprintf(&b, "[%02d:%02d] %s\n", start/60, start%60, seg.Text)
	}
	return b.String()
}

// joinPlainText joins segment texts with single spaces.
func joinPlainText(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		parts = append(parts, seg.Text)
	}
	return strings.Join(parts, " ")
}
