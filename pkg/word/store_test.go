package word

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/speakup-ai/speakup/pkg/models"
)

type fakeCompleter struct {
	calls int
	word  models.DailyWord
	err   error
}

func (f *fakeCompleter) CompleteObject(ctx context.Context, messages []models.ChatMessage, out any) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	*(out.(*models.DailyWord)) = f.word
	return nil
}

func newTestStore(t *testing.T, client Completer) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "daily_word_cache.json")
	s := New(path, client, nil)
	base := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	return s, path
}

func TestTodayServesFreshRecord(t *testing.T) {
	fake := &fakeCompleter{}
	s, path := newTestStore(t, fake)

	record := models.DailyWord{Word: "Ephemeral", Meaning: "Short-lived.", Example: "An ephemeral glow.", Date: "2026-08-31"}
	data, _ := json.Marshal(record)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	got := s.Today(context.Background())
	if got.Word != "Ephemeral" {
		t.Errorf("expected cached word, got %q", got.Word)
	}
	if fake.calls != 0 {
		t.Errorf("fresh record must not trigger regeneration, got %d calls", fake.calls)
	}
}

func TestTodayRegeneratesStaleRecord(t *testing.T) {
	fake := &fakeCompleter{word: models.DailyWord{Word: "Sagacious", Meaning: "Wise.", Example: "A sagacious mentor."}}
	s, path := newTestStore(t, fake)

	stale := models.DailyWord{Word: "Old", Date: "2026-08-30"}
	data, _ := json.Marshal(stale)
	_ = os.WriteFile(path, data, 0o644)

	got := s.Today(context.Background())
	if got.Word != "Sagacious" {
		t.Errorf("expected regenerated word, got %q", got.Word)
	}
	if got.Date != "2026-08-31" {
		t.Errorf("expected today's date stamped, got %q", got.Date)
	}
	if fake.calls != 1 {
		t.Errorf("expected one regeneration call, got %d", fake.calls)
	}

	// The new record overwrites the old one.
	persisted, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var onDisk models.DailyWord
	if err := json.Unmarshal(persisted, &onDisk); err != nil {
		t.Fatal(err)
	}
	if onDisk.Word != "Sagacious" || onDisk.Date != "2026-08-31" {
		t.Errorf("unexpected persisted record: %+v", onDisk)
	}
}

func TestTodayRegeneratesCorruptRecord(t *testing.T) {
	fake := &fakeCompleter{word: models.DailyWord{Word: "Lucid"}}
	s, path := newTestStore(t, fake)

	_ = os.WriteFile(path, []byte("{not json"), 0o644)

	got := s.Today(context.Background())
	if got.Word != "Lucid" {
		t.Errorf("corrupt cache must regenerate, got %q", got.Word)
	}
}

func TestTodayFallsBackWhenRegenerationFails(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("service down")}
	s, path := newTestStore(t, fake)

	got := s.Today(context.Background())
	if got.Word != "Resilience" {
		t.Errorf("expected static fallback word, got %q", got.Word)
	}
	// The fallback is not persisted; the next day retries regeneration.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("fallback must not be written to disk")
	}
}
