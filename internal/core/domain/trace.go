package domain

import "time"

// TraceRecord is the mapping of metric names to typed values collected for a
// task run, round-trippable through the cache store per §3/§8 property 3.
type TraceRecord struct {
	TaskID   int64
	Process  string
	Exit     int
	Submit   time.Time
	Start    time.Time
	Complete time.Time
	Realtime time.Duration
	PercentCPU float64
	VMem     int64
	RSS      int64
	Folder   string
}

// CacheEntry is the persisted (TraceRecord, TaskContext?, refCount) 3-tuple
// keyed by task fingerprint, per §3/§4.8.
type CacheEntry struct {
	Trace    TraceRecord
	Context  *TaskContext // nil when the task declared no cacheable context
	RefCount int32
}
