package rotator

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setClock pins the rotator's clock and returns a pointer tests can
// advance.
func setClock(t *testing.T, now time.Time) *time.Time {
	t.Helper()
	clock := now
	orig := currentTime
	currentTime = func() time.Time { return clock }
	t.Cleanup(func() { currentTime = orig })
	return &clock
}

func newTestWriter(t *testing.T, cfg Config) (*Writer, string) {
	t.Helper()
	dir := t.TempDir()
	cfg.Dir = dir
	if cfg.Policy.Base == "" {
		cfg.Policy.Base = "app"
	}
	w, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	return w, dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestNewRejectsInvalidMaxSize(t *testing.T) {
	_, err := New(Config{
		Dir:     t.TempDir(),
		Policy:  NamePolicy{Base: "app"},
		MaxSize: "12wombats",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid max size")
}

func TestNewRejectsEmptyBase(t *testing.T) {
	_, err := New(Config{Dir: t.TempDir()})
	require.Error(t, err)
}

func TestWriteCreatesCurrentFile(t *testing.T) {
	setClock(t, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC))
	w, dir := newTestWriter(t, Config{})

	n, err := w.Write([]byte("hello\n"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	assert.Equal(t, "hello\n", readFile(t, filepath.Join(dir, "app.log")))
}

func TestWriteAppendsToExistingFile(t *testing.T) {
	setClock(t, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC))
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.log"), []byte("old\n"), 0644))

	w, err := New(Config{Dir: dir, Policy: NamePolicy{Base: "app"}})
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Write([]byte("new\n"))
	require.NoError(t, err)

	assert.Equal(t, "old\nnew\n", readFile(t, filepath.Join(dir, "app.log")))
}

func TestWriteRejectsOversizedRecord(t *testing.T) {
	w, _ := newTestWriter(t, Config{MaxSize: "1K"})

	_, err := w.Write(bytes.Repeat([]byte("x"), 2048))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum file size")
}

func TestSizeTriggeredRotation(t *testing.T) {
	setClock(t, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC))
	w, dir := newTestWriter(t, Config{MaxSize: "1K"})

	first := bytes.Repeat([]byte("a"), 600)
	second := bytes.Repeat([]byte("b"), 600)

	_, err := w.Write(first)
	require.NoError(t, err)
	_, err = w.Write(second)
	require.NoError(t, err)

	assert.Equal(t, string(first), readFile(t, filepath.Join(dir, "app-2024-03-05.log")))
	assert.Equal(t, string(second), readFile(t, filepath.Join(dir, "app.log")))
}

func TestIntervalTriggeredRotation(t *testing.T) {
	clock := setClock(t, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC))
	w, dir := newTestWriter(t, Config{Interval: 24 * time.Hour})

	_, err := w.Write([]byte("first\n"))
	require.NoError(t, err)

	*clock = clock.Add(25 * time.Hour)
	_, err = w.Write([]byte("second\n"))
	require.NoError(t, err)

	// The archive is stamped with the date the rotation ran.
	assert.Equal(t, "first\n", readFile(t, filepath.Join(dir, "app-2024-03-06.log")))
	assert.Equal(t, "second\n", readFile(t, filepath.Join(dir, "app.log")))
}

func TestSameDayRotationsGainIndexes(t *testing.T) {
	setClock(t, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC))
	w, dir := newTestWriter(t, Config{})

	for _, payload := range []string{"one\n", "two\n", "three\n"} {
		_, err := w.Write([]byte(payload))
		require.NoError(t, err)
		require.NoError(t, w.Rotate())
	}
	_, err := w.Write([]byte("four\n"))
	require.NoError(t, err)

	assert.Equal(t, "one\n", readFile(t, filepath.Join(dir, "app-2024-03-05.log")))
	assert.Equal(t, "two\n", readFile(t, filepath.Join(dir, "app-2024-03-05.1.log")))
	assert.Equal(t, "three\n", readFile(t, filepath.Join(dir, "app-2024-03-05.2.log")))
	assert.Equal(t, "four\n", readFile(t, filepath.Join(dir, "app.log")))
}

func TestRotateOnEmptyFileIsNoOp(t *testing.T) {
	setClock(t, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC))
	w, _ := newTestWriter(t, Config{})

	require.NoError(t, w.Rotate())

	files, err := w.rotatedFiles()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestRotatedFilesAreCompressed(t *testing.T) {
	setClock(t, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC))
	w, dir := newTestWriter(t, Config{Policy: NamePolicy{Base: "app", Compress: true}})

	_, err := w.Write([]byte("payload\n"))
	require.NoError(t, err)
	require.NoError(t, w.Rotate())
	require.NoError(t, w.millRunOnce())

	archive := filepath.Join(dir, "app-2024-03-05.log.gz")
	f, err := os.Open(archive)
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	content, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Equal(t, "payload\n", string(content))

	// The uncompressed intermediate must be gone.
	_, err = os.Stat(filepath.Join(dir, "app-2024-03-05.log"))
	assert.True(t, os.IsNotExist(err))
}

func TestRetentionPrunesOldestFirst(t *testing.T) {
	setClock(t, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC))
	w, dir := newTestWriter(t, Config{MaxFiles: 2})

	for _, payload := range []string{"one\n", "two\n", "three\n", "four\n"} {
		_, err := w.Write([]byte(payload))
		require.NoError(t, err)
		require.NoError(t, w.Rotate())
	}
	require.NoError(t, w.millRunOnce())

	_, err := os.Stat(filepath.Join(dir, "app-2024-03-05.log"))
	assert.True(t, os.IsNotExist(err), "oldest file should be pruned")
	_, err = os.Stat(filepath.Join(dir, "app-2024-03-05.1.log"))
	assert.True(t, os.IsNotExist(err))

	assert.Equal(t, "three\n", readFile(t, filepath.Join(dir, "app-2024-03-05.2.log")))
	assert.Equal(t, "four\n", readFile(t, filepath.Join(dir, "app-2024-03-05.3.log")))
}

func TestPrunedIndexesAreNotReused(t *testing.T) {
	setClock(t, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC))
	w, dir := newTestWriter(t, Config{MaxFiles: 2})

	for _, payload := range []string{"one\n", "two\n", "three\n", "four\n"} {
		_, err := w.Write([]byte(payload))
		require.NoError(t, err)
		require.NoError(t, w.Rotate())
	}
	require.NoError(t, w.millRunOnce())

	// Indexes 0 and 1 are free again, but the next rotation must continue
	// past the highest surviving index to keep name order meaningful.
	_, err := w.Write([]byte("five\n"))
	require.NoError(t, err)
	require.NoError(t, w.Rotate())

	assert.Equal(t, "five\n", readFile(t, filepath.Join(dir, "app-2024-03-05.4.log")))
}

func TestRetentionIgnoresForeignFiles(t *testing.T) {
	setClock(t, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC))
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other-2024-03-01.log"), []byte("keep"), 0644))

	w, err := New(Config{Dir: dir, Policy: NamePolicy{Base: "app"}, MaxFiles: 1})
	require.NoError(t, err)
	defer w.Close()

	for _, payload := range []string{"one\n", "two\n"} {
		_, err := w.Write([]byte(payload))
		require.NoError(t, err)
		require.NoError(t, w.Rotate())
	}
	require.NoError(t, w.millRunOnce())

	assert.FileExists(t, filepath.Join(dir, "notes.txt"))
	assert.FileExists(t, filepath.Join(dir, "other-2024-03-01.log"))
	assert.FileExists(t, filepath.Join(dir, "app-2024-03-05.1.log"))
	_, err = os.Stat(filepath.Join(dir, "app-2024-03-05.log"))
	assert.True(t, os.IsNotExist(err))
}

func TestStatsReportsState(t *testing.T) {
	setClock(t, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC))
	w, dir := newTestWriter(t, Config{MaxSize: "10M", MaxFiles: 5})

	_, err := w.Write([]byte("first\n"))
	require.NoError(t, err)
	require.NoError(t, w.Rotate())
	_, err = w.Write([]byte("second\n"))
	require.NoError(t, err)

	stats, err := w.Stats()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "app.log"), stats.CurrentFile)
	assert.Equal(t, int64(len("second\n")), stats.CurrentSize)
	assert.Equal(t, int64(10*1024*1024), stats.MaxSize)
	assert.Equal(t, 5, stats.MaxFiles)
	assert.False(t, stats.Compress)
	assert.Equal(t, 1, stats.RotatedFiles)
}

func TestCloseStopsWriter(t *testing.T) {
	w, _ := newTestWriter(t, Config{})

	_, err := w.Write([]byte("line\n"))
	require.NoError(t, err)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close(), "closing twice is harmless")

	_, err = w.Write([]byte("after\n"))
	require.Error(t, err)
	require.Error(t, w.Rotate())
}
