package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

const defaultTimestampFormat = time.RFC3339Nano

// TextFormatter renders entries as a single human-readable line:
//
//	2024-05-01T12:00:00.000000Z INFO  [component] message key=value
type TextFormatter struct {
	// TimestampFormat overrides the time layout. Defaults to RFC3339Nano.
	TimestampFormat string
	// DisableTimestamp omits the leading timestamp.
	DisableTimestamp bool
}

// Format renders the entry as a text line.
func (f *TextFormatter) Format(entry *Entry) ([]byte, error) {
	var b bytes.Buffer

	if !f.DisableTimestamp {
		layout := f.TimestampFormat
		if layout == "" {
			layout = defaultTimestampFormat
		}
		b.WriteString(entry.Timestamp.Format(layout))
		b.WriteByte(' ')
	}

	fmt.Fprintf(&b, "%-5s", entry.Level.String())

	if comp, ok := entry.Fields[ComponentKey]; ok {
		fmt.Fprintf(&b, " [%v]", comp)
	}

	b.WriteByte(' ')
	b.WriteString(entry.Message)

	// Deterministic field order for readability and tests.
	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		if k == ComponentKey {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteByte('=')
		writeTextValue(&b, entry.Fields[k])
	}

	if entry.Error != nil {
		b.WriteString(" error=")
		writeTextValue(&b, entry.Error.Error())
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

func writeTextValue(b *bytes.Buffer, v interface{}) {
	s := fmt.Sprintf("%v", v)
	if strings.ContainsAny(s, " \t\"=") {
		fmt.Fprintf(b, "%q", s)
		return
	}
	b.WriteString(s)
}

// JSONFormatter renders entries as single-line JSON objects.
type JSONFormatter struct {
	// TimestampFormat overrides the time layout. Defaults to RFC3339Nano.
	TimestampFormat string
	// PrettyPrint indents the output. Intended for debugging only.
	PrettyPrint bool
}

// Format renders the entry as JSON.
func (f *JSONFormatter) Format(entry *Entry) ([]byte, error) {
	layout := f.TimestampFormat
	if layout == "" {
		layout = defaultTimestampFormat
	}

	data := make(map[string]interface{}, len(entry.Fields)+4)
	for k, v := range entry.Fields {
		data[k] = v
	}
	data["timestamp"] = entry.Timestamp.Format(layout)
	data["level"] = entry.Level.String()
	data["message"] = entry.Message
	if entry.Error != nil {
		data["error"] = entry.Error.Error()
	}
	if entry.Caller != "" {
		data["caller"] = entry.Caller
	}

	var (
		out []byte
		err error
	)
	if f.PrettyPrint {
		out, err = json.MarshalIndent(data, "", "  ")
	} else {
		out, err = json.Marshal(data)
	}
	if err != nil {
		return nil, fmt.Errorf("marshal log entry: %w", err)
	}
	return append(out, '\n'), nil
}
