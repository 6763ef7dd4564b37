package ai

import (
	"strings"
	"testing"

	"github.com/dacraezy/archlinux-ai-cli/pkg/config"
)

func TestDefaultModel(t *testing.T) {
	if DefaultModel() != "gemini-2.5-flash" {
		t.Errorf("DefaultModel = %q, want gemini-2.5-flash", DefaultModel())
	}
}

func TestIsModelSupported(t *testing.T) {
	tests := []struct {
		model string
		want  bool
	}{
		{"gemini-2.5-flash", true},
		{"gemini-2.5-pro", true},
		{"claude-sonnet-4", true},
		{"claude-opus-4-5", true},
		{"gpt-4", false},
		{"gemini-99", false},
		{"claude-2", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsModelSupported(tt.model); got != tt.want {
			t.Errorf("IsModelSupported(%q) = %v, want %v", tt.model, got, tt.want)
		}
	}
}

func TestSupportedModelsCoversBothProviders(t *testing.T) {
	models := SupportedModels()

	hasGemini, hasClaude := false, false
	for _, m := range models {
		if strings.HasPrefix(m, "gemini-") {
			hasGemini = true
		}
		if strings.HasPrefix(m, "claude-") {
			hasClaude = true
		}
	}
	if !hasGemini || !hasClaude {
		t.Errorf("SupportedModels missing a provider: %v", models)
	}
}

func TestNewClientRejectsUnknownModel(t *testing.T) {
	if _, err := NewClient("gpt-4", ""); err == nil {
		t.Error("NewClient should reject unknown model prefixes")
	}
}

func TestNewClientClaudeRequiresEnvKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	if _, err := NewClient("claude-sonnet-4", "ignored-for-claude"); err == nil {
		t.Error("NewClient for claude should fail without ANTHROPIC_API_KEY")
	}
}

func TestNewClientGeminiRequiresKey(t *testing.T) {
	t.Setenv("GOOGLE_AI_API_KEY", "")
	config.SetDirForTest(t.TempDir())
	defer config.SetDirForTest("")

	if _, err := NewClient("gemini-2.5-flash", ""); err == nil {
		t.Error("NewClient for gemini should fail without a key")
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("Relevant Arch Wiki pages:\n- Pacman: url", "how do I update?")

	for _, want := range []string{"Wiki Context:", "Relevant Arch Wiki pages:", "User Question: how do I update?"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPromptEmptyContext(t *testing.T) {
	prompt := BuildPrompt("", "question")
	if !strings.Contains(prompt, "No wiki context available.") {
		t.Error("empty wiki context should be stated explicitly")
	}
}
