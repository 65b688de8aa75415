package logger

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrorKey is the conventional field name for attached error values.
const ErrorKey = "err"

// LevelNames lists the recognized severity names, highest priority first.
var LevelNames = []string{"fatal", "error", "warn", "info", "debug", "trace"}

// ParseLevel maps a severity name onto its logrus level. Matching is
// case-insensitive; anything outside the six names is an error.
func ParseLevel(s string) (logrus.Level, error) {
	switch strings.ToLower(s) {
	case "fatal":
		return logrus.FatalLevel, nil
	case "error":
		return logrus.ErrorLevel, nil
	case "warn":
		return logrus.WarnLevel, nil
	case "info":
		return logrus.InfoLevel, nil
	case "debug":
		return logrus.DebugLevel, nil
	case "trace":
		return logrus.TraceLevel, nil
	}
	return logrus.InfoLevel, fmt.Errorf("unrecognized log level %q", s)
}

// levelName renders a logrus level as its lowercase severity name. Unlike
// logrus's own String method it says "warn", not "warning".
func levelName(l logrus.Level) string {
	if l == logrus.WarnLevel {
		return "warn"
	}
	return l.String()
}
