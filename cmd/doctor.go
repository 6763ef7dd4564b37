package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/dacraezy/archlinux-ai-cli/pkg/config"
	"github.com/dacraezy/archlinux-ai-cli/pkg/style"
	"github.com/dacraezy/archlinux-ai-cli/pkg/utils"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system setup",
	Long:  `Verify the host environment and credentials needed by archlinux-ai-cli.`,
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	fmt.Printf("%s Checking archlinux-ai-cli setup\n\n", style.C(style.Blue, "→"))

	allGood := true

	// Check 1: Linux host
	if runtime.GOOS != "linux" {
		fmt.Printf("%s Not running on Linux (%s)\n", style.C(style.Red, "✗"), runtime.GOOS)
		allGood = false
	} else {
		fmt.Printf("%s Linux host\n", style.C(style.Green, "✓"))
	}

	// Check 2: pacman available
	if _, err := exec.LookPath("pacman"); err != nil {
		fmt.Printf("%s pacman not found\n", style.C(style.Red, "✗"))
		fmt.Printf("  archlinux-ai-cli targets Arch Linux and derivatives\n")
		allGood = false
	} else {
		fmt.Printf("%s pacman available\n", style.C(style.Green, "✓"))
	}

	// Check 3: sudo available (needed for system-wide install)
	if _, err := exec.LookPath("sudo"); err != nil {
		fmt.Printf("%s sudo not found (system-wide install unavailable)\n", style.C(style.Yellow, "⚠"))
	} else {
		fmt.Printf("%s sudo available\n", style.C(style.Green, "✓"))
	}

	fmt.Println()
	fmt.Printf("%s Checking API credentials\n\n", style.C(style.Blue, "→"))

	hasGoogleKey := os.Getenv("GOOGLE_AI_API_KEY") != ""
	hasKeyFile := utils.FileExists(config.KeyFilePath())
	hasAnthropicKey := os.Getenv("ANTHROPIC_API_KEY") != ""

	switch {
	case hasGoogleKey:
		fmt.Printf("%s GOOGLE_AI_API_KEY set\n", style.C(style.Green, "✓"))
	case hasKeyFile:
		fmt.Printf("%s API key file %s\n", style.C(style.Green, "✓"), config.KeyFilePath())
	default:
		fmt.Printf("%s No Google AI key (set GOOGLE_AI_API_KEY or create %s)\n",
			style.C(style.Yellow, "⚠"), config.KeyFilePath())
	}

	if hasAnthropicKey {
		fmt.Printf("%s ANTHROPIC_API_KEY set\n", style.C(style.Green, "✓"))
	} else {
		fmt.Printf("%s ANTHROPIC_API_KEY not set (optional, for claude-* models)\n", style.C(style.Yellow, "○"))
	}

	fmt.Println()

	// Config file is optional; report where it would live
	if utils.FileExists(config.Path()) {
		fmt.Printf("%s Config: %s\n", style.C(style.Green, "✓"), config.Path())
	} else {
		fmt.Printf("%s No config file yet (run: archlinux-ai-cli config)\n", style.C(style.Yellow, "○"))
	}

	fmt.Println()

	if allGood && (hasGoogleKey || hasKeyFile || hasAnthropicKey) {
		fmt.Printf("%s Setup OK\n", style.C(style.Green, "✓"))
		return nil
	}

	if !allGood {
		return fmt.Errorf("setup issues detected")
	}

	// Missing credentials are warnings, not failures
	return nil
}
