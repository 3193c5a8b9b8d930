package models

import "time"

// SystemMetrics is a JSON-friendly snapshot of process instrumentation.
type SystemMetrics struct {
	RegistryHitRatio         float64   `json:"registry_hit_ratio"`
	RegistryHits             uint64    `json:"registry_hits"`
	RegistryMisses           uint64    `json:"registry_misses"`
	RegistryRefreshes        uint64    `json:"registry_refreshes"`
	SharedCacheHits          uint64    `json:"shared_cache_hits"`
	SharedCacheMisses        uint64    `json:"shared_cache_misses"`
	PlansAccepted            uint64    `json:"plans_accepted"`
	PlansRejected            uint64    `json:"plans_rejected"`
	PlansFailed              uint64    `json:"plans_failed"`
	SegmentsWritten          uint64    `json:"segments_written"`
	CurrentlyPresent         int       `json:"currently_present"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
