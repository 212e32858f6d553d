package transcript

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors returned by the service.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during retry.
	ErrContextCancelled = errors.New("context cancelled")
)

// ErrorClass represents a classification of transcript fetch errors.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors (missing captions, bad video ID).
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// APIError represents a transcript API error with additional context.
type APIError struct {
	StatusCode int
	ErrorClass ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transcript %s error (status %d): %s: %v",
			e.ErrorClass, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("transcript %s error (status %d): %s",
		e.ErrorClass, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// shouldRetry determines if an error should be retried based on its classification.
func shouldRetry(errorClass ErrorClass) bool {
	switch errorClass {
	case ErrorClassClient:
		// Missing captions or a bad video ID will not fix itself
		return false
	case ErrorClassServer:
		return true
	case ErrorClassNetwork:
		return true
	default:
		return false
	}
}

// ParseError translates a raw fetch error into a message suitable for
// end users. Unknown errors are reduced to their first line, truncated
// to 100 characters.
func ParseError(err error) string {
	if err == nil {
		return ""
	}
	raw := err.Error()

	switch {
	case strings.Contains(raw, "No transcripts were found for any of the requested language codes: ['en']"):
		return "No English captions available for this video"
	case strings.Contains(raw, "This video is unavailable"):
		return "Video is unavailable or private"
	case strings.Contains(raw, "Subtitles are disabled"):
		return "Captions are disabled for this video"
	case strings.Contains(strings.ToLower(raw), "timeout"):
		return "Connection timeout while fetching transcript"
	}

	if idx := strings.IndexByte(raw, '\n'); idx >= 0 {
		raw = raw[:idx]
	}
	if len(raw) > 100 {
		return raw[:100] + "..."
	}
	return raw
}
