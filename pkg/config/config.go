package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds all SpeakUp configuration.
type Config struct {
	Listen        string           `yaml:"listen" env:"SPEAKUP_LISTEN"`
	DBPath        string           `yaml:"db_path" env:"SPEAKUP_DB_PATH"`
	DailyWordPath string           `yaml:"daily_word_path"`
	NativeLang    string           `yaml:"native_lang"`
	Offline       bool             `yaml:"offline" env:"SPEAKUP_OFFLINE"`
	Completion    CompletionConfig `yaml:"completion"`
	TTS           TTSConfig        `yaml:"tts"`
	Cache         CacheConfig      `yaml:"cache"`
	AudioCache    AudioCacheConfig `yaml:"audio_cache"`
	RateLimit     RateLimitConfig  `yaml:"rate_limit"`
	Tracker       TrackerConfig    `yaml:"tracker"`
}

// CompletionConfig defines the upstream text-generation service.
type CompletionConfig struct {
	URL         string  `yaml:"url" env:"SPEAKUP_COMPLETION_URL"`
	APIKey      string  `yaml:"api_key" env:"SPEAKUP_COMPLETION_API_KEY"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
}

// TTSConfig defines the speech-synthesis backend.
type TTSConfig struct {
	URL               string `yaml:"url" env:"SPEAKUP_TTS_URL"`
	Voice             string `yaml:"voice"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
	// StreamThreshold is the text length at or above which synthesis is
	// streamed to the client instead of cached to disk.
	StreamThreshold int `yaml:"stream_threshold"`
}

// CacheConfig controls the in-memory analysis cache.
type CacheConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

// AudioCacheConfig controls the content-addressed audio cache.
type AudioCacheConfig struct {
	Dir string `yaml:"dir"`
}

// RateLimitConfig controls the sliding-window rate limiter.
type RateLimitConfig struct {
	Limit  int           `yaml:"limit"`
	Window time.Duration `yaml:"window"`
}

// TrackerConfig controls usage tracking.
type TrackerConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Listen:        ":7860",
		DBPath:        "speakup.db",
		DailyWordPath: "daily_word_cache.json",
		NativeLang:    "Hindi",
		Completion: CompletionConfig{
			URL:         "https://api.groq.com/openai",
			Model:       "llama-3.1-8b-instant",
			Temperature: 0.7,
		},
		TTS: TTSConfig{
			Voice:             "en-US-AriaNeural",
			RequestsPerMinute: 50,
			StreamThreshold:   100,
		},
		Cache: CacheConfig{
			TTL: 5 * time.Minute,
		},
		AudioCache: AudioCacheConfig{
			Dir: "static/audio_cache",
		},
		RateLimit: RateLimitConfig{
			Limit:  20,
			Window: time.Minute,
		},
		Tracker: TrackerConfig{
			Enabled: true,
		},
	}
}

// Load reads a YAML config file, expands environment variables in its
// values, then applies SPEAKUP_* environment overrides on top.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("apply env overrides: %w", err)
	}

	return cfg, nil
}
