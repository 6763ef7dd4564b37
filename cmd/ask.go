package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/dacraezy/archlinux-ai-cli/pkg/ai"
	"github.com/dacraezy/archlinux-ai-cli/pkg/config"
	"github.com/dacraezy/archlinux-ai-cli/pkg/history"
	clog "github.com/dacraezy/archlinux-ai-cli/pkg/log"
	"github.com/dacraezy/archlinux-ai-cli/pkg/style"
	"github.com/dacraezy/archlinux-ai-cli/pkg/wiki"
)

var (
	modelFlag     string
	apiKeyFlag    string
	noWikiFlag    bool
	rawFlag       bool
	noHistoryFlag bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a single question",
	Long: `Ask a question about Arch Linux and print the answer.

The question is enriched with matching Arch Wiki pages unless --no-wiki
is set. Answers are rendered as markdown on a TTY; use --raw for plain
text. Every exchange is appended to the local history log.

Examples:
  archlinux-ai-cli ask "How do I update my system?"
  archlinux-ai-cli ask --no-wiki "What does pacman -Syu do?"
  archlinux-ai-cli ask -m claude-sonnet-4 "Why won't my system boot?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&modelFlag, "model", "m", "", "AI model (gemini-* or claude-*)")
	askCmd.Flags().StringVar(&apiKeyFlag, "api-key", "", "Google AI Studio API key")
	askCmd.Flags().BoolVar(&noWikiFlag, "no-wiki", false, "Skip the Arch Wiki lookup")
	askCmd.Flags().BoolVar(&rawFlag, "raw", false, "Print the answer without markdown rendering")
	askCmd.Flags().BoolVar(&noHistoryFlag, "no-history", false, "Don't record this exchange")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("question is empty")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	model := resolveModel(cfg)
	client, err := ai.NewClient(model, apiKeyFlag)
	if err != nil {
		return err
	}
	defer client.Close()

	answer, err := answerQuestion(ctx, client, cfg, question, model)
	if err != nil {
		return err
	}

	fmt.Println(renderAnswer(answer))

	if !noHistoryFlag {
		if err := history.Append(question, answer, cfg.HistoryLimit); err != nil {
			clog.Warn("could not record history", "error", err)
		}
	}
	return nil
}

// resolveModel picks the model: flag > config > provider default
func resolveModel(cfg *config.Config) string {
	if modelFlag != "" {
		return modelFlag
	}
	if cfg.Model != "" {
		return cfg.Model
	}
	return ai.DefaultModel()
}

// answerQuestion runs the wiki lookup and the model call for one question.
// Shared by ask and chat.
func answerQuestion(ctx context.Context, client ai.Client, cfg *config.Config, question, model string) (string, error) {
	wikiContext := ""
	if cfg.Wiki && !noWikiFlag {
		status("%s Searching Arch Wiki...", style.C(style.Blue, "→"))
		wctx, err := wiki.NewClient().Context(ctx, question)
		if err != nil {
			// Wiki enrichment is best-effort
			clog.Warn("wiki lookup failed", "error", err)
		} else {
			wikiContext = wctx
		}
	}

	sp := spinner.New(spinner.CharSets[14], 80*time.Millisecond, spinner.WithWriter(os.Stderr))
	sp.Suffix = fmt.Sprintf(" Generating response with %s...", model)
	if !quiet && !style.NoColor {
		sp.Start()
	}
	answer, err := client.GenerateContentWithSystem(ctx, ai.SystemPrompt, ai.BuildPrompt(wikiContext, question))
	sp.Stop()

	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// renderAnswer styles the markdown answer for the terminal. Plain text is
// returned for --raw, pipes, or when rendering fails.
func renderAnswer(answer string) string {
	if rawFlag || style.NoColor {
		return answer
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return answer
	}

	rendered, err := renderer.Render(answer)
	if err != nil {
		return answer
	}
	return strings.TrimRight(rendered, "\n")
}
