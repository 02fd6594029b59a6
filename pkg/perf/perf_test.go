package perf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudposse/tierconf/pkg/schema"
)

func TestTrack_DisabledRecordsNothing(t *testing.T) {
	Reset()
	Enable(false)

	Track(nil, "test.Disabled")()

	assert.Empty(t, Snapshot())
}

func TestTrack_EnabledGlobally(t *testing.T) {
	Reset()
	Enable(true)
	defer Enable(false)

	for i := 0; i < 3; i++ {
		done := Track(nil, "test.Enabled")
		time.Sleep(time.Millisecond)
		done()
	}

	stats := Snapshot()
	require.Len(t, stats, 1)
	assert.Equal(t, "test.Enabled", stats[0].Name)
	assert.Equal(t, int64(3), stats[0].Count)
	assert.GreaterOrEqual(t, stats[0].Max, time.Millisecond)
	assert.GreaterOrEqual(t, stats[0].Max, stats[0].P50)
}

func TestTrack_EnabledByConfiguration(t *testing.T) {
	Reset()
	Enable(false)

	cfg := &schema.Configuration{Profiler: schema.ProfilerConfig{Enabled: true}}
	Track(cfg, "test.Config")()

	stats := Snapshot()
	require.Len(t, stats, 1)
	assert.Equal(t, "test.Config", stats[0].Name)
}

func TestSnapshot_SortedByTotal(t *testing.T) {
	Reset()
	record("fast", time.Microsecond)
	record("slow", 10*time.Millisecond)

	stats := Snapshot()
	require.Len(t, stats, 2)
	assert.Equal(t, "slow", stats[0].Name)
	assert.Equal(t, "fast", stats[1].Name)
	Reset()
}
