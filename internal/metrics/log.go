package metrics

import (
	"sync/atomic"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

type Snapshot struct {
	DurationMs   int64
	Files        int64
	BytesHashed  int64
	Total        int64
	OK           int64
	Failed       int64
	Excluded     int64
	Malformed    int64
	AccessErrors int64
}

func (s *Stats) Snapshot() Snapshot {
	dur := s.Duration()

	return Snapshot{
		DurationMs:   dur.Milliseconds(),
		Files:        atomic.LoadInt64(&s.Files),
		BytesHashed:  atomic.LoadInt64(&s.BytesHashed),
		Total:        atomic.LoadInt64(&s.Total),
		OK:           atomic.LoadInt64(&s.OK),
		Failed:       atomic.LoadInt64(&s.Failed),
		Excluded:     atomic.LoadInt64(&s.Excluded),
		Malformed:    atomic.LoadInt64(&s.Malformed),
		AccessErrors: atomic.LoadInt64(&s.AccessErrors),
	}
}

// Log writes the run summary at info level.
func Log(logger log.Logger, s *Stats) {
	snap := s.Snapshot()

	kv := []any{
		"msg", "run finished",
		"duration_ms", snap.DurationMs,
		"files", snap.Files,
		"bytes_hashed", snap.BytesHashed,
		"total", snap.Total,
		"ok", snap.OK,
		"failed", snap.Failed,
		"excluded", snap.Excluded,
		"malformed", snap.Malformed,
		"access_errors", snap.AccessErrors,
	}
	if snap.DurationMs > 0 {
		secs := float64(snap.DurationMs) / 1000.0
		kv = append(kv, "throughput_mb_per_sec", float64(snap.BytesHashed)/secs/1_000_000.0)
	}
	level.Info(logger).Log(kv...)
}
