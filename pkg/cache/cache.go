// Package cache stores fetched Arch Wiki context on disk so repeated
// queries don't hit the wiki again. Entries are content-addressed by a
// SHA-256 of the normalized query and expire after a TTL.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultTTL is how long a cached wiki lookup stays valid
const DefaultTTL = 24 * time.Hour

// dirOverride redirects the cache directory, used by tests
var dirOverride string

type entry struct {
	Query     string    `json:"query"`
	Context   string    `json:"context"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Key computes a deterministic hash of the normalized query
func Key(query string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	h := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(h[:])
}

// Path returns the cache file for a given key
func Path(key string) string {
	return filepath.Join(dir(), key+".json")
}

func dir() string {
	if dirOverride != "" {
		return dirOverride
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "archlinux-ai-cli", "wiki")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".cache", "archlinux-ai-cli", "wiki")
	}
	return filepath.Join(home, ".cache", "archlinux-ai-cli", "wiki")
}

// Read returns the cached context for a key, if present and fresh
func Read(key string, ttl time.Duration) (string, bool) {
	data, err := os.ReadFile(Path(key))
	if err != nil {
		return "", false // cache miss
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return "", false // corrupt entry, treat as miss
	}

	if time.Since(e.FetchedAt) > ttl {
		return "", false
	}
	return e.Context, true
}

// Write stores the context for a key
func Write(key, query, context string) error {
	if err := os.MkdirAll(dir(), 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}

	data, err := json.MarshalIndent(entry{
		Query:     query,
		Context:   context,
		FetchedAt: time.Now(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	return os.WriteFile(Path(key), data, 0o644)
}

// Exists checks if a cache entry exists for a key, fresh or not
func Exists(key string) bool {
	_, err := os.Stat(Path(key))
	return err == nil
}

// SetDirForTest redirects the cache directory (only use in tests)
func SetDirForTest(dir string) {
	dirOverride = dir
}
