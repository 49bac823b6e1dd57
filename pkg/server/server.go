// Package server exposes the SpeakUp HTTP API: tutoring analysis, session
// intros, hybrid speech delivery, and the daily word.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/speakup-ai/speakup/pkg/cache/audio"
	"github.com/speakup-ai/speakup/pkg/config"
	"github.com/speakup-ai/speakup/pkg/ratelimit"
	"github.com/speakup-ai/speakup/pkg/tracker"
	"github.com/speakup-ai/speakup/pkg/tts"
	"github.com/speakup-ai/speakup/pkg/tutor"
	"github.com/speakup-ai/speakup/pkg/word"
)

// Server is the SpeakUp API server.
type Server struct {
	cfg     *config.Config
	engine  *tutor.Engine
	words   *word.Store
	audio   *audio.Cache
	synth   tts.Synthesizer
	limiter *ratelimit.Limiter
	tracker tracker.Tracker
	log     *log.Logger
	mux     *http.ServeMux

	offlineSeq atomic.Uint64
}

// New creates a Server wired with all dependencies. tracker may be nil to
// disable usage recording.
func New(cfg *config.Config, engine *tutor.Engine, words *word.Store, audioCache *audio.Cache, synth tts.Synthesizer, limiter *ratelimit.Limiter, tr tracker.Tracker, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:     cfg,
		engine:  engine,
		words:   words,
		audio:   audioCache,
		synth:   synth,
		limiter: limiter,
		tracker: tr,
		log:     logger,
		mux:     http.NewServeMux(),
	}
	s.mux.HandleFunc("/api/start", s.handleStart)
	s.mux.HandleFunc("/api/analyze", s.handleAnalyze)
	s.mux.HandleFunc("/api/analyze_text", s.handleAnalyze)
	s.mux.HandleFunc("/api/speak", s.handleSpeak)
	s.mux.HandleFunc("/api/daily-word", s.handleDailyWord)
	return s
}

// ServeHTTP implements http.Handler with the middleware chain applied.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	withCORS(s.requestLog(s.mux)).ServeHTTP(w, r)
}

// ListenAndServe starts the API server with graceful shutdown support.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Listen,
		Handler: s,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("speakup listening", "addr", s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		return err
	}
}

// clientIdentifier picks the rate-limit identity: the session header when
// present, else the caller's network address.
func clientIdentifier(r *http.Request) string {
	if sid := r.Header.Get("X-Session-ID"); sid != "" {
		return sid
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	if rip := r.Header.Get("X-Real-IP"); rip != "" {
		return rip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	fmt.Fprintf(w, `{"error":%q}`, message)
}
