package cache

import (
	"os"
	"strings"
	"testing"
	"time"
)

func writeRaw(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func TestKeyDeterministic(t *testing.T) {
	k1 := Key("how do I update my system")
	k2 := Key("how do I update my system")
	if k1 != k2 {
		t.Errorf("Key not deterministic: %s vs %s", k1, k2)
	}
	if len(k1) != 64 {
		t.Errorf("Key wrong length: got %d, want 64", len(k1))
	}
}

func TestKeyNormalizesQuery(t *testing.T) {
	base := Key("pacman mirror list")
	variants := []string{
		"Pacman Mirror List",
		"  pacman   mirror list ",
		"PACMAN MIRROR\tLIST",
	}
	for _, v := range variants {
		if Key(v) != base {
			t.Errorf("Key(%q) should match normalized base", v)
		}
	}
}

func TestKeyDiffersByQuery(t *testing.T) {
	if Key("install nvidia drivers") == Key("install amd drivers") {
		t.Error("different queries should produce different keys")
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	SetDirForTest(t.TempDir())
	defer SetDirForTest("")

	key := Key("systemd boot")
	context := "Relevant Arch Wiki pages:\n- systemd-boot: https://wiki.archlinux.org/title/Systemd-boot"

	if _, ok := Read(key, DefaultTTL); ok {
		t.Fatal("Read should miss before Write")
	}

	if err := Write(key, "systemd boot", context); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	got, ok := Read(key, DefaultTTL)
	if !ok {
		t.Fatal("Read should hit after Write")
	}
	if got != context {
		t.Errorf("Read = %q, want %q", got, context)
	}

	if !Exists(key) {
		t.Error("Exists should report true after Write")
	}
}

func TestReadExpiredEntryMisses(t *testing.T) {
	SetDirForTest(t.TempDir())
	defer SetDirForTest("")

	key := Key("expired")
	if err := Write(key, "expired", "old context"); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	// Zero TTL makes every entry stale
	if _, ok := Read(key, -time.Second); ok {
		t.Error("Read should miss for an expired entry")
	}
}

func TestReadCorruptEntryMisses(t *testing.T) {
	dir := t.TempDir()
	SetDirForTest(dir)
	defer SetDirForTest("")

	key := Key("corrupt")
	if err := Write(key, "corrupt", "context"); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	// Truncate the entry to invalid JSON
	if err := writeRaw(Path(key), "{not json"); err != nil {
		t.Fatalf("writeRaw error: %v", err)
	}

	if _, ok := Read(key, DefaultTTL); ok {
		t.Error("Read should miss on a corrupt entry")
	}
}

func TestPathUnderCacheDir(t *testing.T) {
	dir := t.TempDir()
	SetDirForTest(dir)
	defer SetDirForTest("")

	if p := Path("abc"); !strings.HasPrefix(p, dir) {
		t.Errorf("Path %q not under cache dir %q", p, dir)
	}
}
