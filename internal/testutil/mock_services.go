// Package testutil provides mock upstream servers for testing the
// summarizer agent end to end.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
)

// TranscriptSegment mirrors the caption API wire format.
type TranscriptSegment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// MockTranscriptAPI is a configurable mock caption API server.
type MockTranscriptAPI struct {
	server *httptest.Server
	mu     sync.RWMutex

	segments     map[string][]TranscriptSegment
	errors       map[string]mockError
	FailTimes    int // fail the next N requests with a 500
	RequestCount int
}

type mockError struct {
	status  int
	message string
}

// NewMockTranscriptAPI creates a new mock caption API server.
func NewMockTranscriptAPI() *MockTranscriptAPI {
	mock := &MockTranscriptAPI{
		segments: make(map[string][]TranscriptSegment),
		errors:   make(map[string]mockError),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		failing := mock.FailTimes > 0
		if failing {
			mock.FailTimes--
		}
		videoID := r.URL.Query().Get("video_id")
		segments, hasSegments := mock.segments[videoID]
		mockErr, hasError := mock.errors[videoID]
		mock.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")

		if failing {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"error": "temporary failure"}`)
			return
		}
		if hasError {
			w.WriteHeader(mockErr.status)
			json.NewEncoder(w).Encode(map[string]string{"error": mockErr.message})
			return
		}
		if !hasSegments {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error": "This video is unavailable"}`)
			return
		}

		json.NewEncoder(w).Encode(segments)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockTranscriptAPI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockTranscriptAPI) Close() {
	m.server.Close()
}

// SetTranscript configures the segments returned for a video ID.
func (m *MockTranscriptAPI) SetTranscript(videoID string, segments []TranscriptSegment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.segments[videoID] = segments
}

// SetError configures an error response for a video ID.
func (m *MockTranscriptAPI) SetError(videoID string, status int, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[videoID] = mockError{status: status, message: message}
}

// GetRequestCount returns the number of requests served.
func (m *MockTranscriptAPI) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// MockCompletionsAPI is a mock OpenAI-compatible chat completions
// server that streams a fixed set of chunks as SSE events.
type MockCompletionsAPI struct {
	server *httptest.Server
	mu     sync.RWMutex

	chunks       []string
	statusCode   int
	RequestCount int
	LastAuth     string
}

// NewMockCompletionsAPI creates a mock completions server streaming the
// given chunks.
func NewMockCompletionsAPI(chunks ...string) *MockCompletionsAPI {
	mock := &MockCompletionsAPI{
		chunks:     chunks,
		statusCode: http.StatusOK,
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastAuth = r.Header.Get("Authorization")
		status := mock.statusCode
		chunks := mock.chunks
		mock.mu.Unlock()

		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		flusher, _ := w.(http.Flusher)
		for _, chunk := range chunks {
			data, _ := json.Marshal(map[string]any{
				"choices": []map[string]any{
					{"delta": map[string]any{"content": chunk}},
				},
			})
			fmt.Fprintf(w, "data: %s\n\n", data)
			if flusher != nil {
				flusher.Flush()
			}
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockCompletionsAPI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockCompletionsAPI) Close() {
	m.server.Close()
}

// SetChunks replaces the streamed chunks.
func (m *MockCompletionsAPI) SetChunks(chunks ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks = chunks
}

// SetStatusCode makes the server respond with the given status instead
// of streaming.
func (m *MockCompletionsAPI) SetStatusCode(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusCode = status
}
