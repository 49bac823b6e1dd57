// Package audio implements the content-addressed on-disk audio cache.
//
// The cache path for a phrase is a pure function of its text, so two
// requests with identical text always resolve to the same file. Entries
// are immutable once written and never evicted.
package audio

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"github.com/speakup-ai/speakup/pkg/models"
)

// Cache stores synthesized audio on disk, keyed by a digest of the text.
type Cache struct {
	dir string
}

// New creates a Cache rooted at dir, creating the directory if needed.
func New(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create audio cache dir: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Path returns the cache file path for the given text.
func (c *Cache) Path(text string) string {
	sum := sha256.Sum256([]byte(text))
	return filepath.Join(c.dir, fmt.Sprintf("%x.mp3", sum))
}

// Get returns the cached audio for text, if present.
func (c *Cache) Get(text string) ([]byte, bool) {
	data, err := os.ReadFile(c.Path(text))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Put writes audio for text. The write is atomic: data lands in a temp
// file first and is renamed into place, so readers never observe a
// partially written entry.
func (c *Cache) Put(text string, data []byte) error {
	path := c.Path(text)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write audio cache file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("commit audio cache file: %w", err)
	}
	return nil
}

// Stats reports the number of cached files and their total size.
func (c *Cache) Stats() (models.AudioCacheStats, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return models.AudioCacheStats{}, fmt.Errorf("read audio cache dir: %w", err)
	}

	var stats models.AudioCacheStats
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".mp3" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		stats.Files++
		stats.Bytes += info.Size()
	}
	return stats, nil
}

// Clear removes all cached audio files.
func (c *Cache) Clear() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("read audio cache dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".mp3" {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			return fmt.Errorf("remove audio cache file: %w", err)
		}
	}
	return nil
}
