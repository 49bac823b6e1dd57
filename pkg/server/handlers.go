package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/speakup-ai/speakup/pkg/models"
	"github.com/speakup-ai/speakup/pkg/tutor"
)

// offlineReplies rotate when the server runs without a model backend.
var offlineReplies = []string{
	"That's interesting. Tell me more.",
	"Good point! How would you say that differently?",
	"I understand. What happened next?",
	"Great! Let's continue practicing.",
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req models.StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	nativeLang := req.NativeLang
	if nativeLang == "" {
		nativeLang = s.cfg.NativeLang
	}

	reply := tutor.Intro(tutor.ParseMode(req.Mode), nativeLang)
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	identifier := clientIdentifier(r)
	if !s.limiter.Allow(identifier) {
		windowSec := int(s.limiter.Window().Seconds())
		writeJSON(w, http.StatusTooManyRequests, models.RateLimitResponse{
			Error:      "Rate limit exceeded",
			RetryAfter: windowSec,
			Limit:      s.limiter.Limit(),
			Window:     windowSec,
			AnalyzeResponse: models.AnalyzeResponse{
				ConversationalReply: "You are speaking a bit too fast! Please wait a moment.",
				ImprovedVersion:     "Rate limit exceeded.",
				Score:               0,
				NativeExplanation:   "System Cooldown Active",
			},
		})
		return
	}

	var req models.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.NativeLang == "" {
		req.NativeLang = s.cfg.NativeLang
	}

	if s.cfg.Offline {
		writeJSON(w, http.StatusOK, s.offlineResponse(req.Text))
		return
	}

	start := time.Now()
	analysis, cached := s.engine.Analyze(r.Context(), req)

	if s.tracker != nil {
		ev := models.AnalyzeEvent{
			Identifier: identifier,
			Mode:       tutor.ParseMode(req.Mode).String(),
			Score:      analysis.Score,
			CacheHit:   cached,
			LatencyMs:  time.Since(start).Milliseconds(),
			CreatedAt:  time.Now().UTC(),
		}
		if err := s.tracker.Record(r.Context(), ev); err != nil {
			s.log.Warn("usage record failed", "err", err)
		}
	}

	writeJSON(w, http.StatusOK, models.AnalyzeResponse{
		ConversationalReply: analysis.Reply,
		ImprovedVersion:     analysis.Corrected,
		Score:               analysis.Score,
		NativeExplanation:   strings.Join(analysis.Corrections, " • "),
	})
}

// offlineResponse returns a rotating canned practice reply.
func (s *Server) offlineResponse(text string) models.AnalyzeResponse {
	n := s.offlineSeq.Add(1)
	return models.AnalyzeResponse{
		ConversationalReply: offlineReplies[int(n-1)%len(offlineReplies)],
		ImprovedVersion:     text,
		Score:               85,
		NativeExplanation:   "Practice mode active (Offline)",
	}
}

// handleSpeak implements hybrid audio delivery: disk-cache hit, full
// synthesis with caching for short phrases, incremental streaming for
// long passages or when caching fails.
func (s *Server) handleSpeak(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req models.SpeakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		writeJSONError(w, http.StatusBadRequest, "No text provided")
		return
	}

	if data, ok := s.audio.Get(req.Text); ok {
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Header().Set("X-Speakup-Audio", "hit")
		w.Write(data)
		return
	}

	if len(req.Text) < s.cfg.TTS.StreamThreshold {
		data, err := s.synth.Synthesize(r.Context(), req.Text)
		if err == nil {
			if err := s.audio.Put(req.Text, data); err != nil {
				s.log.Warn("audio cache write failed", "err", err)
			}
			w.Header().Set("Content-Type", "audio/mpeg")
			w.Header().Set("X-Speakup-Audio", "miss")
			w.Write(data)
			return
		}
		s.log.Warn("full synthesis failed, falling back to streaming", "err", err)
	}

	s.streamSpeech(w, r, req.Text)
}

// streamSpeech relays synthesized audio chunk by chunk, flushing at each
// chunk boundary. The request context cancels synthesis if the client
// disconnects mid-stream.
func (s *Server) streamSpeech(w http.ResponseWriter, r *http.Request, text string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSONError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("X-Speakup-Audio", "stream")

	err := s.synth.Stream(r.Context(), text, func(chunk []byte) error {
		if _, err := w.Write(chunk); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		// Headers are already on the wire; all we can do is log.
		s.log.Error("audio stream aborted", "err", err)
	}
}

func (s *Server) handleDailyWord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.words.Today(r.Context()))
}
