package models

import "time"

// AnalyzeEvent records a single analysis request for usage tracking.
type AnalyzeEvent struct {
	ID         int64     `json:"id"`
	Identifier string    `json:"identifier"`
	Mode       string    `json:"mode"`
	Score      int       `json:"score"`
	CacheHit   bool      `json:"cache_hit"`
	LatencyMs  int64     `json:"latency_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// ModeSummary aggregates analysis traffic per mode.
type ModeSummary struct {
	Mode      string  `json:"mode"`
	Requests  int64   `json:"requests"`
	AvgScore  float64 `json:"avg_score"`
	CacheHits int64   `json:"cache_hits"`
}
