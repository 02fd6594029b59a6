package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/cloudposse/tierconf/errors"
)

func TestWatcher_DebouncesDocumentChanges(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "teams"), 0o755))

	var calls atomic.Int32
	w, err := NewWatcher(dir, 50*time.Millisecond, func() { calls.Add(1) })
	require.NoError(t, err)
	w.Start()
	w.Start()
	defer func() { assert.NoError(t, w.Stop()) }()

	for _, name := range []string{"a.yaml", "b.yml", "teams/c.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("tier: team\n"), 0o644))
	}

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()

	var calls atomic.Int32
	w, err := NewWatcher(dir, 20*time.Millisecond, func() { calls.Add(1) })
	require.NoError(t, err)
	w.Start()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# docs\n"), 0o644))
	time.Sleep(200 * time.Millisecond)

	require.NoError(t, w.Stop())
	assert.Equal(t, int32(0), calls.Load())
}

func TestNewWatcher_MissingRoot(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing"), time.Second, func() {})
	assert.ErrorIs(t, err, errUtils.ErrWatcherStart)
}

func TestStopWithoutStart(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), time.Second, func() {})
	require.NoError(t, err)
	assert.NoError(t, w.Stop())
}

func TestParseDebounce(t *testing.T) {
	assert.Equal(t, DefaultDebounce, ParseDebounce(""))
	assert.Equal(t, DefaultDebounce, ParseDebounce("soon"))
	assert.Equal(t, DefaultDebounce, ParseDebounce("-1s"))
	assert.Equal(t, 2*time.Second, ParseDebounce("2s"))
}
