package outbound

import "time"

// EngineMetrics records engine-level observability signals. Implemented
// by the monitoring adapter; callers treat a nil implementation as a
// no-op.
type EngineMetrics interface {
	RecordTraining(duration time.Duration, users, items, ratings int)
	RecordRecommendation(status string, duration time.Duration)
	RecordRating()
	RecordCacheHit()
	RecordCacheMiss()
}
