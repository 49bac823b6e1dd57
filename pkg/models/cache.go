package models

// CacheStats reports fingerprint cache performance metrics.
type CacheStats struct {
	Entries int64 `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// AudioCacheStats reports the state of the on-disk audio cache.
type AudioCacheStats struct {
	Files int64 `json:"files"`
	Bytes int64 `json:"bytes"`
}
