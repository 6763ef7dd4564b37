package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var Version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print archlinux-ai-cli version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("archlinux-ai-cli %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
