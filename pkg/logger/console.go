package logger

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// timestampFormat is the ISO-8601 form every record carries on both sinks.
const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

// ConsoleFormatter renders records for humans: ISO-8601 timestamp, padded
// colored level tag, message, then key=value fields in stable order.
type ConsoleFormatter struct {
	DisableColors bool
}

var (
	levelTagsPlain   = map[logrus.Level]string{}
	levelTagsColored = map[logrus.Level]string{}
)

func init() {
	styles := map[logrus.Level]*color.Color{
		logrus.PanicLevel: color.New(color.FgRed, color.Bold),
		logrus.FatalLevel: color.New(color.FgRed, color.Bold),
		logrus.ErrorLevel: color.New(color.FgRed),
		logrus.WarnLevel:  color.New(color.FgYellow),
		logrus.InfoLevel:  color.New(color.FgGreen),
		logrus.DebugLevel: color.New(color.FgCyan),
		logrus.TraceLevel: color.New(color.Faint),
	}
	for level, style := range styles {
		tag := fmt.Sprintf("%-5s", levelName(level))
		levelTagsPlain[level] = tag
		// The factory decides up front whether colors are wanted, so the
		// escape codes are forced on here rather than re-detected per write.
		style.EnableColor()
		levelTagsColored[level] = style.Sprint(tag)
	}
}

// Format implements logrus.Formatter.
func (f *ConsoleFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	tags := levelTagsColored
	if f.DisableColors {
		tags = levelTagsPlain
	}

	var b bytes.Buffer
	b.WriteString(entry.Time.Format(timestampFormat))
	b.WriteByte(' ')
	b.WriteString(tags[entry.Level])
	b.WriteByte(' ')
	b.WriteString(entry.Message)
	for _, k := range sortedKeys(entry.Data) {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(consoleValue(entry.Data[k]))
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func sortedKeys(data logrus.Fields) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// consoleValue renders a field value, quoting anything that would blur the
// key=value boundaries.
func consoleValue(v interface{}) string {
	s := fmt.Sprint(v)
	if strings.ContainsAny(s, " \t\n") {
		return strconv.Quote(s)
	}
	return s
}
