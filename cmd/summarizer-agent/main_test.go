package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Legendandy/youtube-summarizer-agent/internal/testutil"
	"github.com/Legendandy/youtube-summarizer-agent/pkg/agent"
	"github.com/Legendandy/youtube-summarizer-agent/pkg/cache"
	"github.com/Legendandy/youtube-summarizer-agent/pkg/logging"
	"github.com/Legendandy/youtube-summarizer-agent/pkg/ratelimit"
	"github.com/Legendandy/youtube-summarizer-agent/pkg/summarizer"
	"github.com/Legendandy/youtube-summarizer-agent/pkg/transcript"
)

// newTestAgent wires an agent against mock upstream services.
func newTestAgent(t *testing.T) *agent.Agent {
	t.Helper()

	transcriptAPI := testutil.NewMockTranscriptAPI()
	t.Cleanup(transcriptAPI.Close)
	transcriptAPI.SetTranscript("dQw4w9WgXcQ", []testutil.TranscriptSegment{
		{Text: "first segment", Start: 0, Duration: 3},
		{Text: "second segment", Start: 63, Duration: 4},
	})

	completionsAPI := testutil.NewMockCompletionsAPI("A structured ", "summary")
	t.Cleanup(completionsAPI.Close)

	transcriptCfg := transcript.DefaultConfig()
	transcriptCfg.BaseURL = transcriptAPI.URL()
	transcripts, err := transcript.New(transcriptCfg)
	if err != nil {
		t.Fatalf("transcript.New() failed: %v", err)
	}

	summarizerCfg := summarizer.DefaultConfig()
	summarizerCfg.BaseURL = completionsAPI.URL()
	summarizerCfg.APIKey = "test-key"
	summaries, err := summarizer.New(summarizerCfg)
	if err != nil {
		t.Fatalf("summarizer.New() failed: %v", err)
	}

	limiter := ratelimit.New(ratelimit.DefaultConfig(), logging.NewLogger("rate-limiter"))

	cacheCfg := cache.DefaultConfig()
	cacheCfg.Dir = t.TempDir()
	cacheManager := cache.New(cacheCfg, logging.NewLogger("cache"))

	return agent.New(limiter, cacheManager, transcripts, summaries)
}

func TestAssistHandler(t *testing.T) {
	handler := assistHandler(newTestAgent(t))

	body := strings.NewReader(`{"prompt": "summarize https://youtu.be/dQw4w9WgXcQ"}`)
	req := httptest.NewRequest(http.MethodPost, "/assist", body)
	req.Header.Set("X-Session-ID", "session-1")
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}

	out := rec.Body.String()
	if !strings.Contains(out, "A structured ") {
		t.Errorf("response missing summary chunks: %q", out)
	}
	if !strings.Contains(out, `"event":"done"`) {
		t.Errorf("response missing completion event: %q", out)
	}
	if !strings.Contains(out, "FINAL_RESPONSE") {
		t.Errorf("response missing final stream: %q", out)
	}
}

func TestAssistHandler_MethodNotAllowed(t *testing.T) {
	handler := assistHandler(newTestAgent(t))

	req := httptest.NewRequest(http.MethodGet, "/assist", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestAssistHandler_InvalidBody(t *testing.T) {
	handler := assistHandler(newTestAgent(t))

	req := httptest.NewRequest(http.MethodPost, "/assist", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	healthHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "OK" {
		t.Errorf("body = %q, want OK", rec.Body.String())
	}
}

func TestStatsHandler(t *testing.T) {
	limiter := ratelimit.New(ratelimit.DefaultConfig(), logging.NewLogger("rate-limiter"))

	cacheCfg := cache.DefaultConfig()
	cacheCfg.Dir = t.TempDir()
	cacheManager := cache.New(cacheCfg, logging.NewLogger("cache"))
	cacheManager.Set("dQw4w9WgXcQ", "a summary", nil)

	handler := statsHandler(limiter, cacheManager)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var payload struct {
		Platform ratelimit.PlatformStats `json:"platform"`
		Cache    cache.Stats             `json:"cache"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if payload.Cache.TotalEntries != 1 {
		t.Errorf("TotalEntries = %d, want 1", payload.Cache.TotalEntries)
	}
	if payload.Platform.ConcurrentQueries != 0 {
		t.Errorf("ConcurrentQueries = %d, want 0", payload.Platform.ConcurrentQueries)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.RateLimit.RequestsPerMinute != 10 {
		t.Errorf("RequestsPerMinute = %d, want 10", cfg.RateLimit.RequestsPerMinute)
	}
	if cfg.Cache.TTLHours != 168 {
		t.Errorf("TTLHours = %d, want 168", cfg.Cache.TTLHours)
	}
	if cfg.Summarizer.Model != "x-ai/grok-4-fast:free" {
		t.Errorf("Model = %q", cfg.Summarizer.Model)
	}
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  port: "9090"
rate_limit:
  requests_per_minute: 5
cache:
  ttl_hours: 24
transcript:
  timeout: 15s
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("PORT", "7070")
	t.Setenv("FIREWORKS_API_KEY", "env-key")

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() failed: %v", err)
	}

	// Env beats file, file beats defaults.
	if cfg.Server.Port != "7070" {
		t.Errorf("Port = %q, want 7070", cfg.Server.Port)
	}
	if cfg.RateLimit.RequestsPerMinute != 5 {
		t.Errorf("RequestsPerMinute = %d, want 5", cfg.RateLimit.RequestsPerMinute)
	}
	if cfg.Cache.TTLHours != 24 {
		t.Errorf("TTLHours = %d, want 24", cfg.Cache.TTLHours)
	}
	if cfg.Transcript.Timeout != 15*time.Second {
		t.Errorf("Timeout = %v, want 15s", cfg.Transcript.Timeout)
	}
	if cfg.Summarizer.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env-key", cfg.Summarizer.APIKey)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("loadConfig() with missing file should fail")
	}
}
