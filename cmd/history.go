package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dacraezy/archlinux-ai-cli/pkg/history"
	"github.com/dacraezy/archlinux-ai-cli/pkg/style"
)

var historyLimitFlag int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past queries and answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return history.Show(os.Stdout, historyLimitFlag)
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the history log",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := history.Clear(); err != nil {
			return err
		}
		fmt.Printf("%s History cleared\n", style.C(style.Green, "✓"))
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimitFlag, "number", "n", 10, "Number of entries to show")
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}
