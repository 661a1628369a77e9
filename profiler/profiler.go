// Package profiler records per-stage timings (read, decode, apply, encode,
// write) across a batch run and reports them through zap.
package profiler

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TimeTracker holds timing statistics for one named stage.
type TimeTracker struct {
	Name      string
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration
	Count     int64
}

// Average returns the mean duration, or zero before the first sample.
func (t TimeTracker) Average() time.Duration {
	if t.Count == 0 {
		return 0
	}
	return t.TotalTime / time.Duration(t.Count)
}

// Tracker collects stage timings. It is safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	startTime time.Time
	stages    map[string]*TimeTracker
}

// NewTracker creates an empty tracker whose uptime starts now.
func NewTracker() *Tracker {
	return &Tracker{
		startTime: time.Now(),
		stages:    make(map[string]*TimeTracker),
	}
}

// StartOperation begins timing a stage.
//
// Arguments:
// - name: The name of the stage to track
//
// Returns:
// - A function to call when the stage completes
func (t *Tracker) StartOperation(name string) func() {
	start := time.Now()
	return func() {
		t.Record(name, time.Since(start))
	}
}

// Record adds one completed duration for name.
func (t *Tracker) Record(name string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tracker, ok := t.stages[name]
	if !ok {
		tracker = &TimeTracker{Name: name, MinTime: d, MaxTime: d}
		t.stages[name] = tracker
	}
	tracker.TotalTime += d
	tracker.Count++
	tracker.MinTime = min(tracker.MinTime, d)
	tracker.MaxTime = max(tracker.MaxTime, d)
}

// Stats returns a snapshot of every stage, sorted by name.
func (t *Tracker) Stats() []TimeTracker {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]TimeTracker, 0, len(t.stages))
	for _, tracker := range t.stages {
		out = append(out, *tracker)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Report logs one line per stage at debug level.
func (t *Tracker) Report(logger *zap.SugaredLogger) {
	logger.Debugw("timings", "uptime", time.Since(t.startTime).Truncate(time.Millisecond))
	for _, s := range t.Stats() {
		logger.Debugw("stage",
			"name", s.Name,
			"avg", s.Average().Truncate(time.Microsecond),
			"min", s.MinTime.Truncate(time.Microsecond),
			"max", s.MaxTime.Truncate(time.Microsecond),
			"count", s.Count,
		)
	}
}
