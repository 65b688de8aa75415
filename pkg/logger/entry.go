package logger

import "github.com/sirupsen/logrus"

// Fields carries structured context for a record or a derived logger.
type Fields map[string]interface{}

// Entry is a logger with context fields bound to it. Deriving further
// context keeps the same sinks and threshold; only the fields grow.
type Entry struct {
	*logrus.Entry
}

// WithFields binds fields to every record emitted through the result.
func (l *Logger) WithFields(fields Fields) *Entry {
	return &Entry{l.Logger.WithFields(logrus.Fields(fields))}
}

// WithField binds a single field.
func (l *Logger) WithField(key string, value interface{}) *Entry {
	return &Entry{l.Logger.WithField(key, value)}
}

// WithError binds err under the "err" key; sinks expand it into its
// structured form at emission time.
func (l *Logger) WithError(err error) *Entry {
	return &Entry{l.Logger.WithField(ErrorKey, err)}
}

// WithFields adds more context on top of the entry's existing fields.
// Later values win on key collisions.
func (e *Entry) WithFields(fields Fields) *Entry {
	return &Entry{e.Entry.WithFields(logrus.Fields(fields))}
}

// WithField adds a single field on top of the entry's existing context.
func (e *Entry) WithField(key string, value interface{}) *Entry {
	return &Entry{e.Entry.WithField(key, value)}
}

// WithError binds err under the "err" key.
func (e *Entry) WithError(err error) *Entry {
	return &Entry{e.Entry.WithField(ErrorKey, err)}
}
