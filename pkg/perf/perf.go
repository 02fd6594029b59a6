// Package perf records call durations of the engine's exported functions.
//
// Usage, as the first statement of a function:
//
//	defer perf.Track(cfg, "merge.Merger.MergeConfiguration")()
//
// Tracking is off unless enabled globally or through the profiler section of the configuration.
package perf

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/cloudposse/tierconf/pkg/schema"
)

const (
	// Durations are recorded in microseconds, up to one hour.
	minTrackable = 1
	maxTrackable = int64(time.Hour / time.Microsecond)
	sigFigs      = 3
)

var (
	enabled atomic.Bool

	mu         sync.Mutex
	histograms = map[string]*hdrhistogram.Histogram{}
)

// Stat summarizes the recorded durations of one tracked function.
type Stat struct {
	Name  string
	Count int64
	Mean  time.Duration
	P50   time.Duration
	P95   time.Duration
	Max   time.Duration
	Total time.Duration
}

// Enable turns global tracking on or off.
func Enable(on bool) {
	enabled.Store(on)
}

// Enabled reports whether global tracking is on.
func Enabled() bool {
	return enabled.Load()
}

func active(cfg *schema.Configuration) bool {
	if enabled.Load() {
		return true
	}
	return cfg != nil && cfg.Profiler.Enabled
}

func noop() {}

// Track starts timing name and returns the function that stops it.
func Track(cfg *schema.Configuration, name string) func() {
	if !active(cfg) {
		return noop
	}
	start := time.Now()
	return func() {
		record(name, time.Since(start))
	}
}

func record(name string, d time.Duration) {
	us := d.Microseconds()
	if us < minTrackable {
		us = minTrackable
	}
	if us > maxTrackable {
		us = maxTrackable
	}

	mu.Lock()
	defer mu.Unlock()

	h, ok := histograms[name]
	if !ok {
		h = hdrhistogram.New(minTrackable, maxTrackable, sigFigs)
		histograms[name] = h
	}
	// The value is clamped to the trackable range, so RecordValue cannot fail.
	_ = h.RecordValue(us)
}

// Snapshot returns the stats of every tracked function, slowest total first.
func Snapshot() []Stat {
	mu.Lock()
	defer mu.Unlock()

	stats := make([]Stat, 0, len(histograms))
	for name, h := range histograms {
		count := h.TotalCount()
		mean := time.Duration(h.Mean() * float64(time.Microsecond))
		stats = append(stats, Stat{
			Name:  name,
			Count: count,
			Mean:  mean,
			P50:   time.Duration(h.ValueAtQuantile(50)) * time.Microsecond,
			P95:   time.Duration(h.ValueAtQuantile(95)) * time.Microsecond,
			Max:   time.Duration(h.Max()) * time.Microsecond,
			Total: mean * time.Duration(count),
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Total != stats[j].Total {
			return stats[i].Total > stats[j].Total
		}
		return stats[i].Name < stats[j].Name
	})
	return stats
}

// Reset discards all recorded durations.
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	histograms = map[string]*hdrhistogram.Histogram{}
}
