package integration

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Legendandy/youtube-summarizer-agent/internal/testutil"
	"github.com/Legendandy/youtube-summarizer-agent/pkg/agent"
	"github.com/Legendandy/youtube-summarizer-agent/pkg/cache"
	"github.com/Legendandy/youtube-summarizer-agent/pkg/ratelimit"
	"github.com/Legendandy/youtube-summarizer-agent/pkg/summarizer"
	"github.com/Legendandy/youtube-summarizer-agent/pkg/transcript"
)

// collector implements agent.ResponseHandler and records everything.
type collector struct {
	blocks  []string
	streams map[string]*collectedStream
}

type collectedStream struct {
	text      strings.Builder
	completed bool
}

func newCollector() *collector {
	return &collector{streams: make(map[string]*collectedStream)}
}

func (c *collector) EmitTextBlock(name, content string) error {
	c.blocks = append(c.blocks, name+": "+content)
	return nil
}

func (c *collector) CreateTextStream(name string) agent.TextStream {
	s := &collectedStream{}
	c.streams[name] = s
	return s
}

func (c *collector) Complete() error { return nil }

func (s *collectedStream) EmitChunk(chunk string) error {
	s.text.WriteString(chunk)
	return nil
}

func (s *collectedStream) Complete() error {
	s.completed = true
	return nil
}

// setupStack wires a complete agent against mock upstreams.
func setupStack(t *testing.T) (*agent.Agent, *testutil.MockTranscriptAPI, *testutil.MockCompletionsAPI) {
	t.Helper()

	transcriptAPI := testutil.NewMockTranscriptAPI()
	t.Cleanup(transcriptAPI.Close)

	completionsAPI := testutil.NewMockCompletionsAPI("## General Summary\n\n", "The video covers testing.")
	t.Cleanup(completionsAPI.Close)

	transcriptCfg := transcript.DefaultConfig()
	transcriptCfg.BaseURL = transcriptAPI.URL()
	transcripts, err := transcript.New(transcriptCfg)
	if err != nil {
		t.Fatalf("transcript.New() failed: %v", err)
	}

	summarizerCfg := summarizer.DefaultConfig()
	summarizerCfg.BaseURL = completionsAPI.URL()
	summarizerCfg.APIKey = "integration-test-key"
	summaries, err := summarizer.New(summarizerCfg)
	if err != nil {
		t.Fatalf("summarizer.New() failed: %v", err)
	}

	limiter := ratelimit.New(ratelimit.DefaultConfig(), zerolog.Nop())

	cacheCfg := cache.DefaultConfig()
	cacheCfg.Dir = t.TempDir()
	cacheManager := cache.New(cacheCfg, zerolog.Nop())

	return agent.New(limiter, cacheManager, transcripts, summaries), transcriptAPI, completionsAPI
}

func TestEndToEndSummarization(t *testing.T) {
	a, transcriptAPI, completionsAPI := setupStack(t)

	transcriptAPI.SetTranscript("dQw4w9WgXcQ", []testutil.TranscriptSegment{
		{Text: "welcome to the video", Start: 0, Duration: 4},
		{Text: "today we talk about testing", Start: 4.5, Duration: 5},
	})

	rh := newCollector()
	a.Assist(context.Background(), "session-1", "please summarize https://youtu.be/dQw4w9WgXcQ", rh)

	final, ok := rh.streams["FINAL_RESPONSE"]
	if !ok {
		t.Fatalf("no final response; blocks: %v", rh.blocks)
	}
	if !final.completed {
		t.Error("final stream not completed")
	}

	text := final.text.String()
	if !strings.Contains(text, "The video covers testing.") {
		t.Errorf("summary missing generated content: %q", text)
	}
	if !strings.Contains(text, "*Summarized from: https://youtu.be/dQw4w9WgXcQ*") {
		t.Errorf("summary missing footer: %q", text)
	}

	if completionsAPI.RequestCount != 1 {
		t.Errorf("completions API called %d times, want 1", completionsAPI.RequestCount)
	}
}

func TestEndToEndCacheReuse(t *testing.T) {
	a, transcriptAPI, completionsAPI := setupStack(t)

	transcriptAPI.SetTranscript("dQw4w9WgXcQ", []testutil.TranscriptSegment{
		{Text: "content", Start: 0, Duration: 3},
	})

	first := newCollector()
	a.Assist(context.Background(), "session-1", "https://youtu.be/dQw4w9WgXcQ", first)

	// A different user summarizing the same video hits the cache.
	second := newCollector()
	a.Assist(context.Background(), "session-2", "https://youtu.be/dQw4w9WgXcQ", second)

	if got := transcriptAPI.GetRequestCount(); got != 1 {
		t.Errorf("transcript API called %d times, want 1", got)
	}
	if completionsAPI.RequestCount != 1 {
		t.Errorf("completions API called %d times, want 1", completionsAPI.RequestCount)
	}

	firstText := first.streams["FINAL_RESPONSE"].text.String()
	secondText := second.streams["FINAL_RESPONSE"].text.String()
	if firstText != secondText {
		t.Errorf("cached response differs:\nfirst:  %q\nsecond: %q", firstText, secondText)
	}
}

func TestEndToEndTranscriptRetry(t *testing.T) {
	a, transcriptAPI, _ := setupStack(t)

	transcriptAPI.SetTranscript("dQw4w9WgXcQ", []testutil.TranscriptSegment{
		{Text: "recovered content", Start: 0, Duration: 3},
	})
	transcriptAPI.FailTimes = 2

	rh := newCollector()
	a.Assist(context.Background(), "session-1", "https://youtu.be/dQw4w9WgXcQ", rh)

	if _, ok := rh.streams["FINAL_RESPONSE"]; !ok {
		t.Fatalf("expected summary despite transient failures; blocks: %v", rh.blocks)
	}
	if got := transcriptAPI.GetRequestCount(); got != 3 {
		t.Errorf("transcript API called %d times, want 3 (2 failures + 1 success)", got)
	}
}

func TestEndToEndUnavailableVideo(t *testing.T) {
	a, _, _ := setupStack(t)

	rh := newCollector()
	a.Assist(context.Background(), "session-1", "https://youtu.be/aaaaaaaaaaa", rh)

	errStream, ok := rh.streams["ERROR_RESPONSE"]
	if !ok {
		t.Fatal("expected error response for unknown video")
	}
	if !strings.Contains(errStream.text.String(), "Failed to extract transcript") {
		t.Errorf("error text = %q", errStream.text.String())
	}
}
