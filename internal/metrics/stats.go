package metrics

import "time"

// Stats counts what one gcidsum run did. Counters are read concurrently by
// the progress bar, so they are updated with sync/atomic.
type Stats struct {
	Files       int64
	BytesHashed int64

	Total        int64
	OK           int64
	Failed       int64
	Excluded     int64
	Malformed    int64
	AccessErrors int64

	Started  time.Time
	Finished time.Time
}

func (s *Stats) Start() { s.Started = time.Now() }
func (s *Stats) Stop()  { s.Finished = time.Now() }
func (s *Stats) Duration() time.Duration {
	if s.Finished.IsZero() {
		return time.Since(s.Started)
	}
	return s.Finished.Sub(s.Started)
}
