// Package ai selects an AI provider by model name. Gemini is the default
// backend; Claude models are routed to the Anthropic provider.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/dacraezy/archlinux-ai-cli/pkg/claude"
	"github.com/dacraezy/archlinux-ai-cli/pkg/gemini"
)

// Client is the common interface for AI providers
type Client interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	GenerateContentWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Close()
}

// SystemPrompt primes the model as an Arch Linux assistant. Kept stable so
// Claude's prompt caching gets hits across queries.
const SystemPrompt = `You are an expert Arch Linux assistant. Your role is to:
1. Help users troubleshoot Arch Linux issues
2. Provide accurate, safe advice based on official Arch Wiki documentation
3. Always warn about potentially dangerous operations (rm -rf, dd, filesystem modifications)
4. Recommend checking Arch Wiki pages for detailed information
5. Use pacman, systemd, and other Arch-specific tools correctly
6. Never suggest commands that could break the system without clear warnings

CRITICAL: Always prioritize system stability. For complex issues, direct users to official documentation.
When suggesting commands, explain what they do before the user runs them.`

// DefaultModel returns the model used when nothing is configured
func DefaultModel() string {
	return gemini.DefaultModel
}

// NewClient creates an AI client for the given model. The apiKey only
// applies to Gemini models; Claude reads ANTHROPIC_API_KEY itself.
func NewClient(model, apiKey string) (Client, error) {
	if model == "" {
		model = DefaultModel()
	}
	switch {
	case strings.HasPrefix(model, "gemini-"):
		return gemini.NewClient(model, apiKey)
	case strings.HasPrefix(model, "claude-"):
		return claude.NewClient(model)
	default:
		return nil, fmt.Errorf("unknown model: %s (supported: %s)", model, strings.Join(SupportedModels(), ", "))
	}
}

// IsModelSupported checks if a model is supported by any provider
func IsModelSupported(model string) bool {
	switch {
	case strings.HasPrefix(model, "gemini-"):
		return gemini.IsModelSupported(model)
	case strings.HasPrefix(model, "claude-"):
		return claude.IsModelSupported(model)
	default:
		return false
	}
}

// SupportedModels returns all supported models across providers
func SupportedModels() []string {
	models := []string{}
	models = append(models, gemini.SupportedModels...)
	models = append(models, claude.SupportedModels...)
	return models
}

// BuildPrompt combines the wiki context and the user question into the
// user-turn prompt sent alongside the system prompt.
func BuildPrompt(wikiContext, question string) string {
	if wikiContext == "" {
		wikiContext = "No wiki context available."
	}
	return fmt.Sprintf(`Wiki Context:
%s

User Question: %s

Provide a helpful, accurate response. Include relevant commands with explanations, and reference Arch Wiki pages when applicable.`, wikiContext, question)
}
