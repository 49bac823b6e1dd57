// Package word maintains the daily vocabulary word: a single on-disk JSON
// record regenerated through the completion service once per calendar day.
package word

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/speakup-ai/speakup/pkg/models"
)

// wordPrompt asks the model for one word in the persisted record's shape.
const wordPrompt = `Give me one sophisticated English word, its definition, and a short example. JSON format: {"word": "...", "meaning": "...", "example": "..."}`

// Completer is the slice of the completion client the store needs.
type Completer interface {
	CompleteObject(ctx context.Context, messages []models.ChatMessage, out any) error
}

// Store owns the daily word record. At most one record exists at a time;
// a regeneration overwrites the previous day's file.
type Store struct {
	path   string
	client Completer
	log    *log.Logger
	now    func() time.Time
}

// New creates a Store persisting at path.
func New(path string, client Completer, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{path: path, client: client, log: logger, now: time.Now}
}

// Today returns the word of the day. A fresh on-disk record is served as
// is; a missing, stale, or unreadable record triggers regeneration. Today
// never fails: if regeneration also fails it falls back to a static word.
func (s *Store) Today(ctx context.Context) models.DailyWord {
	today := s.now().Format("2006-01-02")

	if cached, ok := s.read(today); ok {
		return cached
	}

	var fresh models.DailyWord
	messages := []models.ChatMessage{{Role: "user", Content: wordPrompt}}
	if err := s.client.CompleteObject(ctx, messages, &fresh); err != nil {
		s.log.Error("daily word regeneration failed", "err", err)
		return fallbackWord(today)
	}
	fresh.Date = today

	if data, err := json.Marshal(fresh); err == nil {
		if err := os.WriteFile(s.path, data, 0o644); err != nil {
			s.log.Warn("daily word not persisted", "path", s.path, "err", err)
		}
	}
	return fresh
}

// read loads the persisted record if it is parseable and dated today.
// Corrupt or stale records count as a cache miss.
func (s *Store) read(today string) (models.DailyWord, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return models.DailyWord{}, false
	}
	var w models.DailyWord
	if err := json.Unmarshal(data, &w); err != nil {
		s.log.Warn("daily word cache unreadable, regenerating", "err", err)
		return models.DailyWord{}, false
	}
	if w.Date != today {
		return models.DailyWord{}, false
	}
	return w, true
}

func fallbackWord(today string) models.DailyWord {
	return models.DailyWord{
		Word:    "Resilience",
		Meaning: "The capacity to recover quickly from difficulties.",
		Example: "She showed great resilience.",
		Date:    today,
	}
}
