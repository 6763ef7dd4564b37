// Package history persists past queries and answers to a JSON log in the
// config directory. The log is append-only and trimmed to the most recent
// entries on every write.
package history

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dacraezy/archlinux-ai-cli/pkg/config"
)

// Entry is one recorded exchange
type Entry struct {
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// pathOverride redirects the history file, used by tests
var pathOverride string

func path() string {
	if pathOverride != "" {
		return pathOverride
	}
	return config.HistoryPath()
}

// Load reads all recorded entries. A missing file yields an empty history.
func Load() ([]Entry, error) {
	data, err := os.ReadFile(path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse history: %w", err)
	}
	return entries, nil
}

// Append records an exchange, trimming the log to limit entries
func Append(query, response string, limit int) error {
	entries, err := Load()
	if err != nil {
		// A corrupt log should not block new entries
		entries = nil
	}

	entries = append(entries, Entry{
		Query:     query,
		Response:  response,
		Timestamp: time.Now(),
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path()), 0o755); err != nil {
		return fmt.Errorf("failed to create history dir: %w", err)
	}
	return os.WriteFile(path(), data, 0o644)
}

// Show writes the last n entries to w, oldest first
func Show(w io.Writer, n int) error {
	entries, err := Load()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No history found.")
		return nil
	}

	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}

	sep := strings.Repeat("=", 60)
	for _, e := range entries {
		fmt.Fprintf(w, "\n%s\n", sep)
		fmt.Fprintf(w, "Query: %s\n", e.Query)
		if !e.Timestamp.IsZero() {
			fmt.Fprintf(w, "Asked: %s\n", e.Timestamp.Format(time.RFC1123))
		}
		fmt.Fprintf(w, "%s\n", strings.Repeat("-", 60))
		fmt.Fprintln(w, e.Response)
	}
	return nil
}

// Clear removes the history file
func Clear() error {
	err := os.Remove(path())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// SetPathForTest redirects the history file (only use in tests)
func SetPathForTest(p string) {
	pathOverride = p
}
