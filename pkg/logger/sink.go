package logger

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Sink is one destination for emitted records.
type Sink interface {
	// Emit formats and delivers a single record.
	Emit(entry *logrus.Entry) error
	// Enabled reports whether the sink accepts records at the given level.
	Enabled(level logrus.Level) bool
}

// writerSink pairs a formatter with an output stream and a severity
// threshold. The console and file destinations are both writerSinks; they
// differ only in formatter and stream.
type writerSink struct {
	out       io.Writer
	formatter logrus.Formatter
	level     logrus.Level
}

func (s *writerSink) Enabled(level logrus.Level) bool {
	// logrus orders levels from PanicLevel (0) down to TraceLevel (6).
	return level <= s.level
}

func (s *writerSink) Emit(entry *logrus.Entry) error {
	line, err := s.formatter.Format(entry)
	if err != nil {
		return fmt.Errorf("format log record: %w", err)
	}
	if _, err := s.out.Write(line); err != nil {
		return fmt.Errorf("write log record: %w", err)
	}
	return nil
}

// fanoutHook distributes each record to every sink that accepts its level.
// Error-valued fields are expanded once here so all sinks see the same
// structured form. The optional limiter drops whole records before any
// sink sees them.
type fanoutHook struct {
	sinks   []Sink
	limiter *rate.Limiter
}

func (h *fanoutHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *fanoutHook) Fire(entry *logrus.Entry) error {
	if h.limiter != nil && !h.limiter.Allow() {
		return nil
	}
	record := serializeErrorFields(entry)

	var firstErr error
	for _, sink := range h.sinks {
		if !sink.Enabled(record.Level) {
			continue
		}
		if err := sink.Emit(record); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
