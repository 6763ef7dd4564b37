// Package gemini is the Google AI Studio provider. The API key is resolved
// from the --api-key flag, the GOOGLE_AI_API_KEY environment variable, or
// the api_key file in the config directory, in that order.
package gemini

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/dacraezy/archlinux-ai-cli/pkg/config"
	"github.com/dacraezy/archlinux-ai-cli/pkg/retry"
)

const DefaultModel = "gemini-2.5-flash"

var SupportedModels = []string{
	"gemini-2.5-flash",
	"gemini-2.5-pro",
	"gemini-2.0-flash",
	"gemini-1.5-pro",
	"gemini-1.5-flash",
}

func IsModelSupported(model string) bool {
	for _, m := range SupportedModels {
		if m == model {
			return true
		}
	}
	return false
}

// ResolveAPIKey returns the Google AI key: explicit flag value first, then
// GOOGLE_AI_API_KEY, then the api_key file.
func ResolveAPIKey(flagKey string) (string, error) {
	if flagKey != "" {
		return strings.TrimSpace(flagKey), nil
	}
	if key := os.Getenv("GOOGLE_AI_API_KEY"); key != "" {
		return strings.TrimSpace(key), nil
	}
	if data, err := os.ReadFile(config.KeyFilePath()); err == nil {
		if key := strings.TrimSpace(string(data)); key != "" {
			return key, nil
		}
	}
	return "", fmt.Errorf(`no Google AI API key found

Set your Google AI Studio API key using one of these methods:
  1. export GOOGLE_AI_API_KEY='your-key'
  2. Create %s
  3. Use the --api-key flag

Get a free API key at: https://makersuite.google.com/app/apikey`, config.KeyFilePath())
}

type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
}

func NewClient(model, apiKey string) (*Client, error) {
	key, err := ResolveAPIKey(apiKey)
	if err != nil {
		return nil, err
	}

	if model == "" {
		model = DefaultModel
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(key))
	if err != nil {
		return nil, err
	}

	return &Client{
		client: client,
		model:  client.GenerativeModel(model),
		name:   model,
	}, nil
}

func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return c.GenerateContentWithSystem(ctx, "", prompt)
}

// isRetryableError checks if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "UNAVAILABLE") ||
		strings.Contains(errStr, "timeout")
}

// formatAPIError converts API errors to user-friendly messages
func formatAPIError(err error, model string) error {
	if err == nil {
		return nil
	}
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "API_KEY_INVALID") || strings.Contains(errStr, "401"):
		return fmt.Errorf("gemini API error: invalid API key. Check GOOGLE_AI_API_KEY or %s", config.KeyFilePath())
	case strings.Contains(errStr, "404") || strings.Contains(errStr, "NOT_FOUND"):
		return fmt.Errorf("gemini API error: model %q not found. Verify the model name is correct", model)
	case strings.Contains(errStr, "429") || strings.Contains(errStr, "RESOURCE_EXHAUSTED"):
		return fmt.Errorf("gemini API error: rate limit exceeded for model %q. Please wait and try again", model)
	default:
		return fmt.Errorf("gemini API error: %w", err)
	}
}

// GenerateContentWithSystem sends a prompt with a system instruction
func (c *Client) GenerateContentWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if systemPrompt != "" {
		c.model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemPrompt)},
		}
	}

	cfg := retry.DefaultConfig()

	return retry.Do(ctx, cfg, func() (string, error) {
		resp, err := c.model.GenerateContent(ctx, genai.Text(userPrompt))
		if err != nil {
			if isRetryableError(err) {
				return "", retry.Retryable(formatAPIError(err, c.name))
			}
			return "", formatAPIError(err, c.name)
		}

		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			return "", fmt.Errorf("no content generated")
		}

		part := resp.Candidates[0].Content.Parts[0]
		if txt, ok := part.(genai.Text); ok {
			return string(txt), nil
		}

		return "", fmt.Errorf("unexpected response format")
	})
}

func (c *Client) Close() {
	_ = c.client.Close()
}
