package logger

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// LogEntry represents a parsed log entry
type LogEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Caller    string                 `json:"caller,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// LogReader reads entries back from a log file written by New
type LogReader struct {
	path string
}

// NewLogReader creates a new log reader
func NewLogReader(path string) *LogReader {
	return &LogReader{path: path}
}

// Path returns the log file being read
func (lr *LogReader) Path() string {
	return lr.path
}

// ReadLogs returns the last limit entries of the log. limit <= 0 returns everything.
// A missing file yields no entries.
func (lr *LogReader) ReadLogs(limit int) ([]LogEntry, error) {
	file, err := os.Open(lr.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []LogEntry{}, nil
		}
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log %s: %w", lr.path, err)
	}

	if limit > 0 && len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}

	entries := make([]LogEntry, 0, len(lines))
	for _, line := range lines {
		entries = append(entries, parseLine(line))
	}
	return entries, nil
}

// SearchLogs returns entries whose message, level, or fields contain query (case-insensitive)
func (lr *LogReader) SearchLogs(query string, limit int) ([]LogEntry, error) {
	entries, err := lr.ReadLogs(0)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	var filtered []LogEntry
	for _, entry := range entries {
		if entry.matches(query) {
			filtered = append(filtered, entry)
		}
	}

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[len(filtered)-limit:]
	}
	return filtered, nil
}

// TailLogs sends every entry appended to the log after the call until ctx is done.
// A truncated log is read again from the start.
func (lr *LogReader) TailLogs(ctx context.Context, out chan<- LogEntry, interval time.Duration) error {
	offset, err := lr.poll(ctx, -1, out)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if offset, err = lr.poll(ctx, offset, out); err != nil {
			return err
		}
	}
}

// poll emits the complete lines written after offset and returns the new offset.
// A negative offset only records the current end of the file.
func (lr *LogReader) poll(ctx context.Context, offset int64, out chan<- LogEntry) (int64, error) {
	file, err := os.Open(lr.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return offset, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return offset, err
	}

	size := info.Size()
	if offset < 0 {
		return size, nil
	}
	if size < offset {
		offset = 0
	}
	if size == offset {
		return offset, nil
	}

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return offset, err
	}

	reader := bufio.NewReader(file)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			// an unterminated line is picked up on the next poll
			break
		}
		offset += int64(len(line))

		if trimmed := strings.TrimSpace(line); trimmed != "" {
			select {
			case out <- parseLine(trimmed):
			case <-ctx.Done():
				return offset, nil
			}
		}
	}

	return offset, nil
}

func (e LogEntry) matches(query string) bool {
	if strings.Contains(strings.ToLower(e.Message), query) ||
		strings.Contains(strings.ToLower(e.Level), query) {
		return true
	}
	for _, v := range e.Fields {
		if strings.Contains(strings.ToLower(fmt.Sprint(v)), query) {
			return true
		}
	}
	return false
}

// parseLine decodes a JSON log line; anything else becomes a plain info entry
func parseLine(line string) LogEntry {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return LogEntry{Level: "info", Message: line}
	}

	entry := LogEntry{
		Timestamp: stringField(raw, timeKey),
		Level:     stringField(raw, levelKey),
		Message:   stringField(raw, messageKey),
		Caller:    stringField(raw, callerKey),
	}
	for _, key := range []string{timeKey, levelKey, messageKey, callerKey, "stacktrace"} {
		delete(raw, key)
	}
	if len(raw) > 0 {
		entry.Fields = raw
	}
	return entry
}

func stringField(data map[string]interface{}, key string) string {
	if val, ok := data[key].(string); ok {
		return val
	}
	return ""
}
