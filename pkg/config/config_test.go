package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	SetDirForTest(t.TempDir())
	defer SetDirForTest("")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if c.Model != "gemini-2.5-flash" {
		t.Errorf("default model = %q, want gemini-2.5-flash", c.Model)
	}
	if !c.Wiki {
		t.Error("wiki should default to true")
	}
	if c.HistoryLimit != 50 {
		t.Errorf("default history_limit = %d, want 50", c.HistoryLimit)
	}
}

func TestSetAndGet(t *testing.T) {
	SetDirForTest(t.TempDir())
	defer SetDirForTest("")

	if err := Set("model", "claude-sonnet-4"); err != nil {
		t.Fatalf("Set model error: %v", err)
	}
	if err := Set("wiki", "false"); err != nil {
		t.Fatalf("Set wiki error: %v", err)
	}

	model, err := Get("model")
	if err != nil {
		t.Fatalf("Get model error: %v", err)
	}
	if model != "claude-sonnet-4" {
		t.Errorf("model = %q, want claude-sonnet-4", model)
	}

	wiki, err := Get("wiki")
	if err != nil {
		t.Fatalf("Get wiki error: %v", err)
	}
	if wiki != "false" {
		t.Errorf("wiki = %q, want false", wiki)
	}
}

func TestSetPersistsToFile(t *testing.T) {
	dir := t.TempDir()
	SetDirForTest(dir)
	defer SetDirForTest("")

	if err := Set("history_limit", "25"); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.HistoryLimit != 25 {
		t.Errorf("history_limit = %d, want 25", c.HistoryLimit)
	}
}

func TestSetRejectsUnknownKey(t *testing.T) {
	SetDirForTest(t.TempDir())
	defer SetDirForTest("")

	if err := Set("nope", "x"); err == nil {
		t.Error("Set should reject unknown keys")
	}
	if _, err := Get("nope"); err == nil {
		t.Error("Get should reject unknown keys")
	}
}

func TestSetValidatesValues(t *testing.T) {
	SetDirForTest(t.TempDir())
	defer SetDirForTest("")

	if err := Set("wiki", "maybe"); err == nil {
		t.Error("Set wiki should reject non-boolean values")
	}
	if err := Set("history_limit", "-3"); err == nil {
		t.Error("Set history_limit should reject negative values")
	}
}

func TestPathsShareConfigDir(t *testing.T) {
	dir := t.TempDir()
	SetDirForTest(dir)
	defer SetDirForTest("")

	for _, p := range []string{Path(), KeyFilePath(), HistoryPath()} {
		if filepath.Dir(p) != dir {
			t.Errorf("path %q not under config dir %q", p, dir)
		}
	}
}
