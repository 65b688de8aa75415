// Package rotator implements a rolling file writer with date-stamped
// archive names, size- and age-triggered rotation, optional gzip
// compression, and count-based retention.
package rotator

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/docker/go-units"
)

const (
	defaultMaxSize = "100M"
	fileMode       = 0644
)

// currentTime is swapped out by tests for deterministic rotation.
var currentTime = time.Now

// Config carries the rotation policy for a Writer.
type Config struct {
	// Dir is the directory holding the log files.
	Dir string

	// Policy generates and recognizes file names.
	Policy NamePolicy

	// MaxSize is the size threshold triggering rotation, as a
	// human-readable string such as "10M" or "512K". Empty means 100M.
	MaxSize string

	// Interval rotates the current file once it has been accumulating for
	// this long. Zero disables age-based rotation.
	Interval time.Duration

	// MaxFiles caps the number of retained rotated files. Zero or negative
	// keeps all of them.
	MaxFiles int
}

// Writer is an io.WriteCloser that rotates the file it writes to.
//
// Writes always land in {Dir}/{Base}.log. Once that file would outgrow
// MaxSize, or Interval has elapsed since it started accumulating, it is
// renamed under the policy's dated scheme and a fresh file begins.
// Compression and retention run on a background goroutine so the write
// path never stalls on them.
type Writer struct {
	dir      string
	policy   NamePolicy
	maxSize  int64
	interval time.Duration
	maxFiles int

	mu      sync.Mutex
	file    *os.File
	size    int64
	started time.Time
	closed  bool

	millMu sync.Mutex
	millCh chan struct{}
	wg     sync.WaitGroup
}

// New validates cfg and returns a Writer. The size string is parsed here;
// a malformed value fails construction. The first file is not created
// until the first write.
func New(cfg Config) (*Writer, error) {
	if cfg.Policy.Base == "" {
		return nil, fmt.Errorf("rotator: empty base file name")
	}
	sizeStr := cfg.MaxSize
	if sizeStr == "" {
		sizeStr = defaultMaxSize
	}
	maxSize, err := units.RAMInBytes(sizeStr)
	if err != nil {
		return nil, fmt.Errorf("rotator: invalid max size %q: %w", cfg.MaxSize, err)
	}
	w := &Writer{
		dir:      cfg.Dir,
		policy:   cfg.Policy,
		maxSize:  maxSize,
		interval: cfg.Interval,
		maxFiles: cfg.MaxFiles,
		millCh:   make(chan struct{}, 1),
	}
	w.wg.Add(1)
	go w.millRun()
	// Pick up compression or pruning left unfinished by a previous run.
	w.mill()
	return w, nil
}

// Write implements io.Writer. A single write larger than the size
// threshold is refused outright, since a record never spans two files.
func (w *Writer) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return 0, fmt.Errorf("rotator: writer is closed")
	}
	if int64(len(p)) > w.maxSize {
		return 0, fmt.Errorf("rotator: write length %d exceeds maximum file size %d", len(p), w.maxSize)
	}
	if w.file == nil {
		if err := w.openExistingOrNew(); err != nil {
			return 0, err
		}
	}
	if w.rotationDue(int64(len(p))) {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}

	n, err = w.file.Write(p)
	w.size += int64(n)
	return n, err
}

// Rotate forces a rotation of the current file regardless of its size or
// age. An empty current file is left alone.
func (w *Writer) Rotate() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("rotator: writer is closed")
	}
	if w.file == nil {
		if err := w.openExistingOrNew(); err != nil {
			return err
		}
	}
	if w.size == 0 {
		return nil
	}
	return w.rotate()
}

// Close closes the current file and waits for the background goroutine to
// finish its compression and retention backlog. Further writes fail.
func (w *Writer) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	var err error
	if w.file != nil {
		err = w.file.Close()
		w.file = nil
	}
	w.mu.Unlock()

	close(w.millCh)
	w.wg.Wait()
	return err
}

// Stats describes the state of a Writer's files.
type Stats struct {
	CurrentFile  string    `json:"current_file"`
	CurrentSize  int64     `json:"current_size"`
	LastModified time.Time `json:"last_modified"`
	MaxSize      int64     `json:"max_size"`
	MaxFiles     int       `json:"max_files"`
	Compress     bool      `json:"compress"`
	RotatedFiles int       `json:"rotated_files"`
}

// Stats returns a snapshot of the current file and the rotated backlog.
func (w *Writer) Stats() (Stats, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := Stats{
		CurrentFile: w.currentPath(),
		MaxSize:     w.maxSize,
		MaxFiles:    w.maxFiles,
		Compress:    w.policy.Compress,
	}
	if info, err := os.Stat(s.CurrentFile); err == nil {
		s.CurrentSize = info.Size()
		s.LastModified = info.ModTime()
	}
	files, err := w.rotatedFiles()
	if err != nil {
		return s, err
	}
	s.RotatedFiles = len(files)
	return s, nil
}

func (w *Writer) currentPath() string {
	return filepath.Join(w.dir, w.policy.Filename(time.Time{}, 0))
}

// rotationDue reports whether appending add bytes calls for a rotation
// first. Age-based rotation waits until the file has content.
func (w *Writer) rotationDue(add int64) bool {
	if w.size+add > w.maxSize {
		return true
	}
	if w.interval > 0 && currentTime().Sub(w.started) >= w.interval {
		return w.size > 0
	}
	return false
}

// openExistingOrNew resumes the current file when one is present, so
// restarts keep appending instead of clobbering. The file's modification
// time stands in for its starting point.
func (w *Writer) openExistingOrNew() error {
	name := w.currentPath()
	info, err := os.Stat(name)
	if os.IsNotExist(err) {
		return w.openNew()
	}
	if err != nil {
		return fmt.Errorf("rotator: stat current log file: %w", err)
	}

	file, err := os.OpenFile(name, os.O_APPEND|os.O_WRONLY, fileMode)
	if err != nil {
		return w.openNew()
	}
	w.file = file
	w.size = info.Size()
	w.started = info.ModTime()
	return nil
}

func (w *Writer) openNew() error {
	file, err := os.OpenFile(w.currentPath(), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fileMode)
	if err != nil {
		return fmt.Errorf("rotator: create log file: %w", err)
	}
	w.file = file
	w.size = 0
	w.started = currentTime()
	return nil
}

// rotate closes the current file, renames it under the dated policy name,
// and opens a fresh one. Compression of the renamed file happens off the
// write path. Callers hold w.mu.
func (w *Writer) rotate() error {
	if w.file != nil {
		if err := w.file.Close(); err != nil {
			return fmt.Errorf("rotator: close current log file: %w", err)
		}
		w.file = nil
	}

	target := w.rotationTarget(currentTime())
	// Compressed targets are renamed to the bare .log name first; the
	// mill turns that into the final .gz.
	renameTo := strings.TrimSuffix(target, gzipExt)
	if err := os.Rename(w.currentPath(), renameTo); err != nil {
		return fmt.Errorf("rotator: rename rotated log file: %w", err)
	}
	if err := w.openNew(); err != nil {
		return err
	}
	w.mill()
	return nil
}

// rotationTarget picks the rotated path for time t. The first rotation of
// a day carries no index; later ones continue one past the highest index
// already used for that date, so indexes freed by retention are never
// reused out of order.
func (w *Writer) rotationTarget(t time.Time) string {
	dateStr := t.Format(dateLayout)
	next := 0
	if files, err := w.rotatedFiles(); err == nil {
		for _, f := range files {
			if f.time.Format(dateLayout) != dateStr {
				continue
			}
			if f.index >= next {
				next = f.index + 1
			}
		}
	}
	for {
		final := filepath.Join(w.dir, w.policy.Filename(t, next))
		intermediate := strings.TrimSuffix(final, gzipExt)
		if !exists(final) && (final == intermediate || !exists(intermediate)) {
			return final
		}
		next++
	}
}

// mill nudges the background goroutine; it never blocks.
func (w *Writer) mill() {
	select {
	case w.millCh <- struct{}{}:
	default:
	}
}

func (w *Writer) millRun() {
	defer w.wg.Done()
	for range w.millCh {
		// Errors have nowhere useful to go; the next pass retries.
		_ = w.millRunOnce()
	}
}

// millRunOnce compresses rotated files still lacking their gzip suffix and
// prunes the oldest rotated files beyond MaxFiles. Passes are mutually
// exclusive so an explicit call cannot interleave with the background one.
func (w *Writer) millRunOnce() error {
	w.millMu.Lock()
	defer w.millMu.Unlock()

	files, err := w.rotatedFiles()
	if err != nil {
		return err
	}
	var firstErr error

	if w.policy.Compress {
		recompressed := false
		for _, f := range files {
			if strings.HasSuffix(f.name, gzipExt) {
				continue
			}
			src := filepath.Join(w.dir, f.name)
			if err := compressFile(src, src+gzipExt); err != nil && firstErr == nil {
				firstErr = err
			}
			recompressed = true
		}
		if recompressed {
			if files, err = w.rotatedFiles(); err != nil {
				return err
			}
		}
	}

	if w.maxFiles > 0 && len(files) > w.maxFiles {
		for _, f := range files[:len(files)-w.maxFiles] {
			if err := os.Remove(filepath.Join(w.dir, f.name)); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

type rotatedFile struct {
	name  string
	time  time.Time
	index int
}

// rotatedFiles lists the policy-named rotated files in the directory,
// oldest first. Order comes from the date and index embedded in the name;
// modification times play no part. Foreign files are ignored.
func (w *Writer) rotatedFiles() ([]rotatedFile, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, fmt.Errorf("rotator: read log directory: %w", err)
	}
	var files []rotatedFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		t, index, ok := w.policy.Parse(e.Name())
		if !ok {
			continue
		}
		files = append(files, rotatedFile{name: e.Name(), time: t, index: index})
	}
	sort.Slice(files, func(i, j int) bool {
		if !files[i].time.Equal(files[j].time) {
			return files[i].time.Before(files[j].time)
		}
		if files[i].index != files[j].index {
			return files[i].index < files[j].index
		}
		return files[i].name < files[j].name
	})
	return files, nil
}

// compressFile gzips src into dst and removes src. A vanished src means an
// earlier pass already handled it.
func compressFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("rotator: open rotated file: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fileMode)
	if err != nil {
		return fmt.Errorf("rotator: create compressed file: %w", err)
	}
	defer func() {
		if err != nil {
			out.Close()
			os.Remove(dst)
		}
	}()

	gz := gzip.NewWriter(out)
	if _, err = io.Copy(gz, in); err != nil {
		return fmt.Errorf("rotator: compress rotated file: %w", err)
	}
	if err = gz.Close(); err != nil {
		return fmt.Errorf("rotator: finish compressed file: %w", err)
	}
	if err = out.Close(); err != nil {
		return fmt.Errorf("rotator: close compressed file: %w", err)
	}
	if err = os.Remove(src); err != nil {
		return fmt.Errorf("rotator: remove uncompressed file: %w", err)
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
