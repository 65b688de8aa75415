package logger

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// serializeErrorFields returns an entry whose error-valued fields are
// replaced by their structured {message, kind, stack} form. The original
// entry is left untouched; when no field holds an error it is returned
// as-is.
func serializeErrorFields(entry *logrus.Entry) *logrus.Entry {
	hasError := false
	for _, v := range entry.Data {
		if _, ok := v.(error); ok {
			hasError = true
			break
		}
	}
	if !hasError {
		return entry
	}

	data := make(logrus.Fields, len(entry.Data))
	for k, v := range entry.Data {
		if err, ok := v.(error); ok {
			data[k] = errorFields(err)
			continue
		}
		data[k] = v
	}
	return &logrus.Entry{
		Logger:  entry.Logger,
		Data:    data,
		Time:    entry.Time,
		Level:   entry.Level,
		Caller:  entry.Caller,
		Message: entry.Message,
		Context: entry.Context,
	}
}

// errorFields extracts the loggable view of err: its message, its concrete
// type, and the messages of its wrapped causes, outermost first. It never
// panics, whatever the error type does.
func errorFields(err error) logrus.Fields {
	fields := logrus.Fields{
		"message": safeErrorMessage(err),
		"kind":    fmt.Sprintf("%T", err),
	}
	if chain := causeChain(err); len(chain) > 0 {
		fields["stack"] = chain
	}
	return fields
}

func safeErrorMessage(err error) (msg string) {
	defer func() {
		if recover() != nil {
			msg = fmt.Sprintf("(unprintable %T error)", err)
		}
	}()
	return err.Error()
}

func causeChain(err error) (chain []string) {
	defer func() {
		// A panicking Unwrap ends the walk with whatever was collected.
		_ = recover()
	}()
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		chain = append(chain, safeErrorMessage(cause))
	}
	return chain
}
