package memory

import (
	"testing"
	"time"

	"github.com/speakup-ai/speakup/pkg/models"
)

func TestKeyIgnoresOldHistory(t *testing.T) {
	recent := []models.Turn{
		{Role: "assistant", Content: "How was your day?"},
		{Role: "user", Content: "It was good"},
	}
	longer := append([]models.Turn{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi there"},
	}, recent...)

	k1 := Key("conversation", "I goes to school", recent)
	k2 := Key("conversation", "I goes to school", longer)
	if k1 != k2 {
		t.Error("history beyond the last two turns should not change the key")
	}
}

func TestKeyDistinguishesInputs(t *testing.T) {
	k1 := Key("conversation", "hello world", nil)
	if k2 := Key("job_interview", "hello world", nil); k1 == k2 {
		t.Error("different mode should produce different key")
	}
	if k2 := Key("conversation", "hello there", nil); k1 == k2 {
		t.Error("different text should produce different key")
	}
	turns := []models.Turn{{Role: "user", Content: "earlier"}}
	if k2 := Key("conversation", "hello world", turns); k1 == k2 {
		t.Error("different recent history should produce different key")
	}
}

func TestLookupAndStore(t *testing.T) {
	c := New(time.Minute)
	key := Key("conversation", "I goes to school", nil)

	if _, ok := c.Lookup(key); ok {
		t.Fatal("expected miss on empty cache")
	}

	want := models.Analysis{Corrected: "I go to school", Reply: "Nice!", Score: 80}
	c.Store(key, want)

	got, ok := c.Lookup(key)
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Corrected != want.Corrected || got.Score != want.Score {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestLookupExpiry(t *testing.T) {
	c := New(300 * time.Second)
	base := time.Now()
	c.now = func() time.Time { return base }

	key := Key("conversation", "hello", nil)
	c.Store(key, models.Analysis{Reply: "hi"})

	base = base.Add(299 * time.Second)
	if _, ok := c.Lookup(key); !ok {
		t.Error("entry inside TTL should hit")
	}

	base = base.Add(2 * time.Second)
	if _, ok := c.Lookup(key); ok {
		t.Error("entry past TTL should miss")
	}

	// Expired entry is purged, not just hidden.
	if stats := c.Stats(); stats.Entries != 0 {
		t.Errorf("expected expired entry to be purged, have %d entries", stats.Entries)
	}
}

func TestStats(t *testing.T) {
	c := New(time.Minute)
	key := Key("conversation", "hello", nil)

	c.Lookup(key) // miss
	c.Store(key, models.Analysis{})
	c.Lookup(key) // hit

	stats := c.Stats()
	if stats.Entries != 1 {
		t.Errorf("expected 1 entry, got %d", stats.Entries)
	}
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("expected 1 hit / 1 miss, got %d / %d", stats.Hits, stats.Misses)
	}
}

func TestClear(t *testing.T) {
	c := New(time.Minute)
	c.Store(Key("conversation", "a", nil), models.Analysis{})
	c.Store(Key("conversation", "b", nil), models.Analysis{})

	c.Clear()

	if stats := c.Stats(); stats.Entries != 0 {
		t.Errorf("expected 0 entries after clear, got %d", stats.Entries)
	}
}
