// Package tutor routes user text through mode-specific tutoring prompts
// and orchestrates the analysis pipeline: cache lookup, zero-cost short
// circuits, keyword guardrails, and finally the completion service.
package tutor

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/speakup-ai/speakup/pkg/cache/memory"
	"github.com/speakup-ai/speakup/pkg/completion"
	"github.com/speakup-ai/speakup/pkg/models"
)

// maxHistoryTurns bounds how much conversation history is forwarded to
// the model.
const maxHistoryTurns = 4

// Completer is the slice of the completion client the engine needs.
type Completer interface {
	Complete(ctx context.Context, messages []models.ChatMessage) (completion.Result, error)
}

// Engine analyzes user text. Results for identical (mode, text, recent
// history) are served from the injected cache within its TTL.
type Engine struct {
	client Completer
	cache  *memory.Cache
	log    *log.Logger
}

// NewEngine creates an Engine. The cache may be nil to disable caching.
func NewEngine(client Completer, cache *memory.Cache, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{client: client, cache: cache, log: logger}
}

// Analyze runs the full analysis pipeline for a request and reports
// whether the result came from the cache. It never fails: every error
// path degrades to a structured result.
func (e *Engine) Analyze(ctx context.Context, req models.AnalyzeRequest) (models.Analysis, bool) {
	mode := ParseMode(req.Mode)

	if normalizeText(req.Text) == "" {
		return models.Analysis{
			Corrected:   "I didn't hear anything.",
			Reply:       "I didn't catch that. Could you say it again?",
			Score:       0,
			Corrections: []string{},
		}, false
	}

	key := memory.Key(mode.String(), req.Text, req.History)
	if e.cache != nil {
		if cached, ok := e.cache.Lookup(key); ok {
			e.log.Debug("analysis cache hit", "mode", mode, "key", key)
			return cached, true
		}
	}

	if result, ok := e.shortCircuit(mode, req.Text, req.NativeLang); ok {
		return result, false
	}

	messages := e.BuildMessages(mode, req.NativeLang, req.History, req.Text)

	raw, err := e.client.Complete(ctx, messages)
	if err != nil {
		e.log.Error("completion failed", "mode", mode, "err", err)
		return completion.Fallback(req.Text), false
	}

	result := models.Analysis{
		Corrected:   raw.Corrected,
		Reply:       raw.Reply,
		Score:       raw.Score.Normalize(),
		Corrections: raw.Corrections,
	}
	if result.Corrections == nil {
		result.Corrections = []string{}
	}

	if e.cache != nil {
		e.cache.Store(key, result)
	}
	return result, false
}

// shortCircuit handles the zero-cost fast paths: exact greeting and
// closing phrases, and the off-topic keyword guardrail.
func (e *Engine) shortCircuit(mode Mode, text, nativeLang string) (models.Analysis, bool) {
	normalized := normalizeText(text)

	if greetings[normalized] && mode == ModeConversation {
		return models.Analysis{
			Corrected:   text,
			Reply:       fmt.Sprintf("Hello! I'm ready to help you practice %s to English translation or conversation.", nativeLang),
			Score:       100,
			Corrections: []string{},
		}, true
	}

	if closings[normalized] {
		return models.Analysis{
			Corrected:   text,
			Reply:       "Goodbye! Great practice session today.",
			Score:       100,
			Corrections: []string{},
		}, true
	}

	if mode != ModeTopicTalk && containsForbidden(normalized) {
		return models.Analysis{
			Corrected:   text,
			Reply:       "I am tuned to help you with English only. Let's get back to practice!",
			Score:       0,
			Corrections: []string{"Topic violation"},
		}, true
	}

	return models.Analysis{}, false
}

// BuildMessages assembles the ordered message list for the model: the
// mode's system template, up to the last four history turns (none for
// email drafting), then the user text. History roles are normalized to
// assistant/user whatever representation the caller used.
func (e *Engine) BuildMessages(mode Mode, nativeLang string, history []models.Turn, text string) []models.ChatMessage {
	messages := []models.ChatMessage{
		{Role: "system", Content: systemPrompt(mode, nativeLang)},
	}

	if mode != ModeEmailDrafter {
		recent := history
		if len(recent) > maxHistoryTurns {
			recent = recent[len(recent)-maxHistoryTurns:]
		}
		for _, turn := range recent {
			messages = append(messages, models.ChatMessage{
				Role:    normalizeRole(turn.Role),
				Content: turn.Content,
			})
		}
	}

	return append(messages, models.ChatMessage{Role: "user", Content: text})
}

// normalizeRole collapses caller role names onto the two the model knows.
func normalizeRole(role string) string {
	switch role {
	case "assistant", "model", "ai":
		return "assistant"
	default:
		return "user"
	}
}
