package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dacraezy/archlinux-ai-cli/pkg/installer"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Validate the host and install the binary",
	Long: `Check host prerequisites and copy archlinux-ai-cli onto the PATH.

The installer verifies the platform, the pacman version, and the
required tools, installs the system package dependencies, then prompts
for a destination:

  1) /usr/local/bin  (system-wide, requires sudo)
  2) ~/.local/bin    (current user)
  3) Skip installation

Any validation failure halts the procedure; declining the installation
is not a failure.`,
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	ins, err := installer.New(installer.Options{})
	if err != nil {
		return err
	}
	return ins.Run()
}
