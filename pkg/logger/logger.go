// Package logger wires leveled structured logging to two destinations: a
// human-readable console stream and a rotating, size-bounded, optionally
// compressed JSON file.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
	"golang.org/x/time/rate"

	"github.com/arawlin/logkit/pkg/rotator"
)

// rotationInterval is the age at which the current file rolls over even
// when it has not reached its size threshold.
const rotationInterval = 24 * time.Hour

// Logger wraps logrus.Logger with dual-sink emission and rotation control.
type Logger struct {
	*logrus.Logger

	cfg  Config
	sink *rotator.Writer // nil for console-only loggers
}

// New builds a Logger from config. Defaults are resolved first, the log
// directory is created if needed, and the console and file sinks are wired
// behind a single fan-out. Directory and sink construction errors
// propagate to the caller.
func New(config Config) (*Logger, error) {
	config = config.withDefaults()
	level := resolveLevel(config)

	if err := os.MkdirAll(config.LogDir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	fileSink, err := rotator.New(rotator.Config{
		Dir:      config.LogDir,
		Policy:   rotator.NamePolicy{Base: config.FileName, Compress: config.compress()},
		MaxSize:  config.FileSize,
		Interval: rotationInterval,
		MaxFiles: config.MaxFiles,
	})
	if err != nil {
		return nil, err
	}

	l := newBase(config, level)
	l.sink = fileSink
	l.AddHook(&fanoutHook{
		sinks: []Sink{
			consoleSink(config, level),
			&writerSink{out: fileSink, formatter: &JSONFormatter{}, level: level},
		},
		limiter: newRateGuard(config.RateLimit),
	})
	return l, nil
}

// NewConsole builds a logger with only the console sink. The degraded
// default logger uses it when the file sink cannot be set up.
func NewConsole(config Config) *Logger {
	config = config.withDefaults()
	level := resolveLevel(config)

	l := newBase(config, level)
	l.AddHook(&fanoutHook{
		sinks:   []Sink{consoleSink(config, level)},
		limiter: newRateGuard(config.RateLimit),
	})
	return l
}

// resolveLevel parses the configured level; an unrecognized name falls
// back to the profile default, same as an unset one.
func resolveLevel(config Config) logrus.Level {
	level, err := ParseLevel(config.Level)
	if err != nil {
		fallback := Config{Environment: config.Environment}.withDefaults().Level
		level, _ = ParseLevel(fallback)
	}
	return level
}

// newBase builds the logrus core. Its own output is discarded; the sinks
// attached by the fan-out hook own all real output.
func newBase(config Config, level logrus.Level) *Logger {
	core := logrus.New()
	core.SetOutput(io.Discard)
	core.SetLevel(level)
	return &Logger{Logger: core, cfg: config}
}

// consoleSink builds the pretty stdout sink. Colors switch off when stdout
// is not a terminal, or on request.
func consoleSink(config Config, level logrus.Level) Sink {
	disable := config.NoColor || !term.IsTerminal(int(os.Stdout.Fd()))
	return &writerSink{
		out:       os.Stdout,
		formatter: &ConsoleFormatter{DisableColors: disable},
		level:     level,
	}
}

// newRateGuard builds the optional fan-out limiter. The burst mirrors the
// refill rate so a quiet second's allowance can be spent at once.
func newRateGuard(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// Rotate forces the file sink to roll over now.
func (l *Logger) Rotate() error {
	if l.sink == nil {
		return fmt.Errorf("file sink not configured")
	}
	return l.sink.Rotate()
}

// Stats reports the file sink's current file and rotation state.
func (l *Logger) Stats() (rotator.Stats, error) {
	if l.sink == nil {
		return rotator.Stats{}, fmt.Errorf("file sink not configured")
	}
	return l.sink.Stats()
}

// Close releases the file sink, waiting for pending compression and
// retention work. The logger must not be used afterwards.
func (l *Logger) Close() error {
	if l.sink == nil {
		return nil
	}
	return l.sink.Close()
}

var (
	defaultLogger *Logger
	defaultOnce   sync.Once
	defaultMu     sync.RWMutex
)

// Default returns the process-wide logger, building it on first use from
// DefaultConfig. When the file sink cannot be set up (an unwritable log
// directory, say) it degrades to console-only rather than failing, so the
// default logger is always usable.
func Default() *Logger {
	defaultOnce.Do(func() {
		l, err := New(DefaultConfig())
		if err != nil {
			l = NewConsole(DefaultConfig())
			l.WithError(err).Warn("file sink unavailable, logging to console only")
		}
		defaultMu.Lock()
		defaultLogger = l
		defaultMu.Unlock()
	})
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the process-wide logger. Tests use it to substitute
// configuration without touching the environment.
func SetDefault(l *Logger) {
	defaultOnce.Do(func() {})
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}
