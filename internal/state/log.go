package state

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	logFileName   = "activity.jsonl"
	logFileMode   = 0o600
	maxLogEntries = 10000 // oldest entries are dropped beyond this
)

// Activity log actions.
const (
	ActionGroupBy   = "group_by"
	ActionExpand    = "expand"
	ActionCollapse  = "collapse"
	ActionClearView = "clear_view"
)

// LogEntry is one line of the activity log.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	View      string    `json:"view"`
	Detail    string    `json:"detail,omitempty"`
}

// AppendLog appends entry to the activity log in dir and trims the log to
// the most recent maxLogEntries lines.
func AppendLog(dir string, entry LogEntry) error {
	path := filepath.Join(dir, logFileName)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFileMode) //nolint:gosec // log path from config dir
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling log entry: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing log entry: %w", err)
	}

	_ = trimLog(path) // best effort
	return nil
}

// ReadLog returns the logged entries in dir, oldest first. Lines that do
// not decode are skipped. A missing log yields no entries.
func ReadLog(dir string) ([]LogEntry, error) {
	f, err := os.Open(filepath.Join(dir, logFileName)) //nolint:gosec // log path from config dir
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	var entries []LogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e LogEntry
		if json.Unmarshal(scanner.Bytes(), &e) == nil {
			entries = append(entries, e)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading log file: %w", err)
	}
	return entries, nil
}

func trimLog(path string) error {
	f, err := os.Open(path) //nolint:gosec // trusted path
	if err != nil {
		return err
	}
	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	_ = f.Close()
	if err := scanner.Err(); err != nil {
		return err
	}
	if len(lines) <= maxLogEntries {
		return nil
	}

	var buf strings.Builder
	for _, line := range lines[len(lines)-maxLogEntries:] {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(buf.String()), logFileMode)
}
