package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dacraezy/archlinux-ai-cli/pkg/ai"
	"github.com/dacraezy/archlinux-ai-cli/pkg/config"
	"github.com/dacraezy/archlinux-ai-cli/pkg/style"
	"github.com/dacraezy/archlinux-ai-cli/pkg/utils"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Interactive setup wizard or direct config access.

Run without subcommand for interactive setup:
  archlinux-ai-cli config

Or use subcommands:
  archlinux-ai-cli config list
  archlinux-ai-cli config get <key>
  archlinux-ai-cli config set <key> <value>`,
	RunE: runConfigWizard,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Long: `Set a configuration value.

Keys:
  model          AI model (gemini-2.5-flash, claude-sonnet-4, ...)
  wiki           Enrich prompts with Arch Wiki content (true/false)
  history_limit  Maximum entries kept in the history log

Examples:
  archlinux-ai-cli config set model gemini-2.5-pro
  archlinux-ai-cli config set wiki false`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if key == "model" && !ai.IsModelSupported(value) {
			return fmt.Errorf("unsupported model: %s (supported: %s)", value, strings.Join(ai.SupportedModels(), ", "))
		}
		if err := config.Set(key, value); err != nil {
			return err
		}
		fmt.Printf("Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a config value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := config.Get(args[0])
		if err != nil {
			return err
		}
		if value == "" {
			fmt.Println("(not set)")
		} else {
			fmt.Println(value)
		}
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all config values",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("\n%s\n", style.B("archlinux-ai-cli config"))
		fmt.Printf("%s\n\n", style.C(style.Gray, config.Path()))

		for _, key := range []string{"model", "wiki", "history_limit"} {
			value, _ := config.Get(key)
			fmt.Printf("  %-14s %s\n", key, style.C(style.Green, value))
		}

		fmt.Println()
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigWizard(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("\n%s\n", style.B("archlinux-ai-cli setup"))
	fmt.Printf("%s\n\n", style.C(style.Gray, "Press Enter to accept defaults shown in brackets."))

	// Step 1: AI model
	models := ai.SupportedModels()
	currentIdx := 0
	for i, m := range models {
		if m == cfg.Model {
			currentIdx = i
			break
		}
	}

	fmt.Printf("%s AI Model\n", style.C(style.Green, "?"))
	for i, m := range models {
		marker := "   "
		if i == currentIdx {
			marker = fmt.Sprintf("  %s", style.C(style.Green, "→"))
		}
		note := ""
		if strings.HasPrefix(m, "claude-") {
			note = style.C(style.Gray, " (requires ANTHROPIC_API_KEY)")
		}
		fmt.Printf("%s%s %s%s\n", marker, style.C(style.Cyan, fmt.Sprintf("%d)", i+1)), m, note)
	}
	fmt.Printf("\n  Choice %s: ", style.C(style.Cyan, fmt.Sprintf("[%d]", currentIdx+1)))

	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	selected := cfg.Model
	if input != "" {
		if idx, err := strconv.Atoi(input); err == nil && idx >= 1 && idx <= len(models) {
			selected = models[idx-1]
		}
	}
	if err := config.Set("model", selected); err != nil {
		return err
	}
	fmt.Printf("  Using %s\n\n", style.C(style.Cyan, selected))

	// Step 2: Wiki enrichment
	wikiDefault := "Y/n"
	if !cfg.Wiki {
		wikiDefault = "y/N"
	}
	fmt.Printf("%s Enrich prompts with Arch Wiki content? %s: ", style.C(style.Green, "?"), style.C(style.Cyan, "["+wikiDefault+"]"))
	input, _ = reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	wiki := cfg.Wiki
	if input == "y" || input == "yes" {
		wiki = true
	} else if input == "n" || input == "no" {
		wiki = false
	}
	if err := config.Set("wiki", strconv.FormatBool(wiki)); err != nil {
		return err
	}
	fmt.Println()

	// Step 3: API key file
	if os.Getenv("GOOGLE_AI_API_KEY") == "" && !utils.FileExists(config.KeyFilePath()) {
		fmt.Printf("%s Google AI API key %s: ", style.C(style.Green, "?"), style.C(style.Gray, "(enter to skip, stored in "+config.KeyFilePath()+")"))
		input, _ = reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input != "" {
			if err := os.MkdirAll(config.Dir(), 0o755); err != nil {
				return err
			}
			// Key file is credentials, keep it private
			if err := os.WriteFile(config.KeyFilePath(), []byte(input+"\n"), 0o600); err != nil {
				return err
			}
			fmt.Printf("  %s Saved\n", style.C(style.Green, "✓"))
		}
		fmt.Println()
	} else {
		fmt.Printf("%s Google AI key configured\n\n", style.C(style.Green, "✓"))
	}

	fmt.Printf("%s Try: %s\n\n", style.B(style.C(style.Green, "Ready!")),
		style.C(style.Cyan, `archlinux-ai-cli ask "How do I update my system?"`))
	return nil
}
