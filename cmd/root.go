package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	clog "github.com/dacraezy/archlinux-ai-cli/pkg/log"
	"github.com/dacraezy/archlinux-ai-cli/pkg/signal"
	"github.com/dacraezy/archlinux-ai-cli/pkg/style"
)

var (
	quiet   bool
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "archlinux-ai-cli",
	Short: "An AI assistant for Arch Linux troubleshooting",
	Long: `archlinux-ai-cli answers Arch Linux questions using Google AI Studio,
grounded in content fetched from the Arch Wiki.

Ask one-shot questions, hold an interactive session, and review past
answers from the local history log.`,
	SilenceUsage: true,
}

func Execute() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext()
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", style.C(style.Red, "✗"), err)
		os.Exit(1)
	}
}

func init() {
	style.SetupHelp(rootCmd)

	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		clog.SetVerbose(verbose)
		clog.SetQuiet(quiet)
	}
}

// status prints progress lines unless --quiet is set
func status(format string, args ...any) {
	if !quiet {
		fmt.Printf(format+"\n", args...)
	}
}
