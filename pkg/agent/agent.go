// Package agent orchestrates the full summarization flow: input
// validation, rate limiting, URL parsing, summary caching, transcript
// fetching, and streamed summary generation.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Legendandy/youtube-summarizer-agent/pkg/cache"
	"github.com/Legendandy/youtube-summarizer-agent/pkg/ratelimit"
	"github.com/Legendandy/youtube-summarizer-agent/pkg/transcript"
	"github.com/Legendandy/youtube-summarizer-agent/pkg/youtube"
)

// Stream block names emitted through the ResponseHandler.
const (
	blockStatus    = "STATUS"
	streamFinal    = "FINAL_RESPONSE"
	streamGreeting = "GREETING_RESPONSE"
	streamError    = "ERROR_RESPONSE"
)

// TextStream receives response text incrementally.
type TextStream interface {
	// EmitChunk appends a chunk to the stream.
	EmitChunk(chunk string) error

	// Complete marks the stream as finished.
	Complete() error
}

// ResponseHandler receives the agent's output for one query.
type ResponseHandler interface {
	// EmitTextBlock emits a complete named block (status updates).
	EmitTextBlock(name, content string) error

	// CreateTextStream opens a named incremental text stream.
	CreateTextStream(name string) TextStream

	// Complete marks the whole response as finished.
	Complete() error
}

// TranscriptFetcher fetches video transcripts.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string) (*transcript.Result, error)
}

// SummaryStreamer generates summaries as a chunk stream.
type SummaryStreamer interface {
	SummarizeStream(ctx context.Context, transcript string, fn func(chunk string) error) (string, error)
}

// Agent handles user queries end to end.
type Agent struct {
	limiter     *ratelimit.Limiter
	cache       *cache.Manager
	transcripts TranscriptFetcher
	summarizer  SummaryStreamer
	validator   *SecurityValidator
	logger      zerolog.Logger
}

// New creates an agent from its constituent services.
func New(limiter *ratelimit.Limiter, cacheManager *cache.Manager, transcripts TranscriptFetcher, summaryStreamer SummaryStreamer) *Agent {
	return &Agent{
		limiter:     limiter,
		cache:       cacheManager,
		transcripts: transcripts,
		summarizer:  summaryStreamer,
		validator:   NewSecurityValidator(),
		logger:      log.With().Str("component", "agent").Logger(),
	}
}

// classifyPrompt reports whether the prompt is a bare greeting or an
// identity question, neither of which consumes rate limit quota.
func classifyPrompt(prompt string) (bool, promptType) {
	lower := strings.ToLower(strings.TrimSpace(prompt))

	switch lower {
	case "who are you", "what do you do", "what are you",
		"who are you?", "what do you do?", "what are you?":
		return true, promptIdentity
	case "hi", "hello", "hey", "hi!", "hello!", "hey!":
		return true, promptGreeting
	}
	return false, ""
}

// Assist processes one user query and streams the response through the
// handler. userID identifies the caller for rate limiting purposes.
func (a *Agent) Assist(ctx context.Context, userID, prompt string, rh ResponseHandler) {
	defer rh.Complete()

	if safe, reason := a.validator.Validate(prompt); !safe {
		a.logger.Warn().
			Str("user_id", userID).
			Str("reason", reason).
			Str("prompt", SanitizeForLog(prompt, 100)).
			Msg("Prompt rejected by security validation")
		a.streamError(rh, "Security Alert: "+reason, securityErrorDetails)
		return
	}

	// Greetings and identity questions never consume quota.
	if isGreeting, pt := classifyPrompt(prompt); isGreeting {
		a.streamGreeting(rh, pt)
		return
	}

	url := youtube.FindURL(prompt)
	if url == "" {
		a.streamGreeting(rh, promptGeneral)
		return
	}

	// Rate limiting applies only to actual summarization work.
	allowed, denyReason := a.limiter.Acquire(userID)
	if !allowed {
		a.streamError(rh, "Rate Limit Exceeded",
			fmt.Sprintf("\n%s\n\nPlease wait before making another request.", denyReason))
		return
	}
	defer a.limiter.Release()

	videoID := youtube.ExtractVideoID(url)
	if videoID == "" {
		a.streamError(rh, "Invalid YouTube URL", invalidURLDetails)
		return
	}

	if entry := a.cache.Get(videoID); entry != nil {
		a.logger.Debug().
			Str("user_id", userID).
			Str("video_id", videoID).
			Msg("Serving cached summary")
		rh.EmitTextBlock(blockStatus, statusGenerating)

		stream := rh.CreateTextStream(streamFinal)
		stream.EmitChunk(entry.Summary)
		stream.Complete()
		return
	}

	rh.EmitTextBlock(blockStatus, statusThinking)

	result, err := a.transcripts.Fetch(ctx, videoID)
	if err != nil {
		a.logger.Warn().
			Str("user_id", userID).
			Str("video_id", videoID).
			Str("error", transcript.ParseError(err)).
			Msg("Transcript fetch failed")
		a.streamError(rh, "Failed to extract transcript from video", transcriptErrorDetails)
		return
	}

	rh.EmitTextBlock(blockStatus, statusGenerating)

	stream := rh.CreateTextStream(streamFinal)

	full, err := a.summarizer.SummarizeStream(ctx, result.WithTimestamps, func(chunk string) error {
		return stream.EmitChunk(chunk)
	})
	if err != nil {
		// The partial summary already reached the client; append the
		// error so the stored entry matches what was streamed.
		errMsg := fmt.Sprintf("\n\nError: %s", err)
		stream.EmitChunk(errMsg)
		full += errMsg
	}

	footer := fmt.Sprintf("\n\n---\n*Summarized from: %s*", url)
	stream.EmitChunk(footer)
	full += footer

	stream.Complete()

	a.cache.Set(videoID, full, map[string]any{"url": url})

	a.logger.Info().
		Str("user_id", userID).
		Str("video_id", videoID).
		Int("summary_chars", len(full)).
		Msg("Summary delivered")
}

func (a *Agent) streamGreeting(rh ResponseHandler, pt promptType) {
	rh.EmitTextBlock(blockStatus, statusThinking)

	stream := rh.CreateTextStream(streamGreeting)
	stream.EmitChunk(greetingResponse(pt))
	stream.Complete()
}

func (a *Agent) streamError(rh ResponseHandler, message, details string) {
	rh.EmitTextBlock(blockStatus, statusThinking)

	stream := rh.CreateTextStream(streamError)
	stream.EmitChunk(formatError(message, details))
	stream.Complete()
}
