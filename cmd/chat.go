package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dacraezy/archlinux-ai-cli/pkg/ai"
	"github.com/dacraezy/archlinux-ai-cli/pkg/config"
	"github.com/dacraezy/archlinux-ai-cli/pkg/history"
	clog "github.com/dacraezy/archlinux-ai-cli/pkg/log"
	"github.com/dacraezy/archlinux-ai-cli/pkg/style"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive session",
	Long: `Start an interactive question-and-answer session.

Type 'exit' or 'quit' to leave and 'history' to review past queries.
Every exchange is appended to the local history log.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&modelFlag, "model", "m", "", "AI model (gemini-* or claude-*)")
	chatCmd.Flags().StringVar(&apiKeyFlag, "api-key", "", "Google AI Studio API key")
	chatCmd.Flags().BoolVar(&noWikiFlag, "no-wiki", false, "Skip the Arch Wiki lookup")
	chatCmd.Flags().BoolVar(&rawFlag, "raw", false, "Print answers without markdown rendering")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

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

	sep := strings.Repeat("=", 60)
	fmt.Printf("%s\n", style.B("Arch Linux AI CLI - interactive mode"))
	fmt.Printf("Model: %s\n", style.C(style.Cyan, model))
	fmt.Println("Type 'exit' or 'quit' to leave, 'history' to see past queries")
	fmt.Println(sep)

	reader := bufio.NewReader(os.Stdin)

	for {
		// Bail out when the interrupt context fires between prompts
		select {
		case <-ctx.Done():
			fmt.Println("\nGoodbye! Stay rolling!")
			return nil
		default:
		}

		fmt.Printf("\n%s ", style.C(style.Green, "You:"))
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Println("\nGoodbye! Stay rolling!")
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		input := strings.TrimSpace(line)
		switch strings.ToLower(input) {
		case "":
			continue
		case "exit", "quit":
			fmt.Println("Goodbye! Stay rolling!")
			return nil
		case "history":
			if err := history.Show(os.Stdout, 10); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
			continue
		}

		answer, err := answerQuestion(ctx, client, cfg, input, model)
		if err != nil {
			if errors.Is(err, ctx.Err()) {
				fmt.Println("\nGoodbye! Stay rolling!")
				return nil
			}
			fmt.Printf("%s %v\n", style.C(style.Red, "Error:"), err)
			continue
		}

		fmt.Println(sep)
		fmt.Println(renderAnswer(answer))
		fmt.Println(sep)

		if err := history.Append(input, answer, cfg.HistoryLimit); err != nil {
			clog.Warn("could not record history", "error", err)
		}
	}
}
