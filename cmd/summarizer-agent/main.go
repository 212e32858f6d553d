// Command summarizer-agent runs the YouTube summarizer as an HTTP
// service. Clients POST a prompt to /assist and receive the response
// as a server-sent event stream.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Legendandy/youtube-summarizer-agent/pkg/agent"
	"github.com/Legendandy/youtube-summarizer-agent/pkg/cache"
	"github.com/Legendandy/youtube-summarizer-agent/pkg/logging"
	"github.com/Legendandy/youtube-summarizer-agent/pkg/ratelimit"
	"github.com/Legendandy/youtube-summarizer-agent/pkg/summarizer"
	"github.com/Legendandy/youtube-summarizer-agent/pkg/transcript"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.loggingConfig())

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

func run(cfg appConfig, logger zerolog.Logger) error {
	limiter := ratelimit.New(cfg.rateLimitConfig(), logging.NewLogger("rate-limiter"))
	cacheManager := cache.New(cfg.cacheConfig(), logging.NewLogger("cache"))

	transcripts, err := transcript.New(cfg.transcriptConfig())
	if err != nil {
		return fmt.Errorf("transcript service: %w", err)
	}

	summaries, err := summarizer.New(cfg.summarizerConfig())
	if err != nil {
		return fmt.Errorf("summarizer service: %w", err)
	}

	a := agent.New(limiter, cacheManager, transcripts, summaries)

	maintenance := agent.NewMaintenance(limiter, cacheManager)
	if err := maintenance.Start(); err != nil {
		return fmt.Errorf("maintenance scheduler: %w", err)
	}
	defer maintenance.Stop()

	mux := http.NewServeMux()
	mux.HandleFunc("/assist", assistHandler(a))
	mux.HandleFunc("/healthz", healthHandler)
	mux.HandleFunc("/stats", statsHandler(limiter, cacheManager))
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", server.Addr).
			Int("requests_per_minute", cfg.RateLimit.RequestsPerMinute).
			Int("requests_per_hour", cfg.RateLimit.RequestsPerHour).
			Int("max_concurrent_platform", cfg.RateLimit.MaxConcurrentPlatform).
			Str("cache_dir", cfg.Cache.Dir).
			Int("cache_ttl_hours", cfg.Cache.TTLHours).
			Str("model", cfg.Summarizer.Model).
			Msg("Starting summarizer agent server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(ctx)
}

// assistHandler serves POST /assist. The session is identified by the
// X-Session-ID header; absent that, a fresh ID is generated per
// request.
func assistHandler(a *agent.Agent) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req struct {
			Prompt string `json:"prompt"`
		}
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
		if err != nil {
			http.Error(w, "read request body", http.StatusBadRequest)
			return
		}
		if err := json.Unmarshal(body, &req); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}

		sessionID := r.Header.Get("X-Session-ID")
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		rh, err := newSSEResponseHandler(w)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		a.Assist(r.Context(), sessionID, req.Prompt, rh)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

// statsHandler exposes platform usage and cache statistics as JSON.
func statsHandler(limiter *ratelimit.Limiter, cacheManager *cache.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := struct {
			Platform ratelimit.PlatformStats `json:"platform"`
			Cache    cache.Stats             `json:"cache"`
		}{
			Platform: limiter.PlatformStats(),
			Cache:    cacheManager.Stats(),
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}
}
