package logger

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
)

// JSONFormatter writes one machine-parseable JSON object per record, using
// the timestamp/level/message envelope and lowercase severity names.
type JSONFormatter struct{}

// Format implements logrus.Formatter.
func (f *JSONFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	record := make(map[string]interface{}, len(entry.Data)+3)
	for k, v := range entry.Data {
		switch k {
		case "timestamp", "level", "message":
			// Keys reserved for the record envelope move aside.
			record["fields."+k] = v
		default:
			record[k] = v
		}
	}
	record["timestamp"] = entry.Time.Format(timestampFormat)
	record["level"] = levelName(entry.Level)
	record["message"] = entry.Message

	var b bytes.Buffer
	if err := json.NewEncoder(&b).Encode(record); err != nil {
		return nil, fmt.Errorf("marshal log record: %w", err)
	}
	return b.Bytes(), nil
}
