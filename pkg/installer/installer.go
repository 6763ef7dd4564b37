// Package installer validates the host environment and places the
// archlinux-ai-cli binary at a user-chosen location. The procedure is a
// strict sequence: platform check, pacman version check, tool check,
// system package install, execute-bit grant, placement, guidance. The
// first failing step halts the run.
//
// External effects go through the Toolchain and Prompter interfaces so the
// sequencing logic is testable without a real package manager or terminal.
package installer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	goversion "github.com/hashicorp/go-version"

	"github.com/dacraezy/archlinux-ai-cli/pkg/style"
)

// UnsupportedPlatformError is returned when the host is not Linux
type UnsupportedPlatformError struct {
	OS string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("unsupported platform %q: archlinux-ai-cli targets Arch Linux (and derivatives)", e.OS)
}

// UnsupportedRuntimeError is returned when pacman is older than the floor
type UnsupportedRuntimeError struct {
	Tool    string
	Version string
	Floor   string
}

func (e *UnsupportedRuntimeError) Error() string {
	if e.Version == "" {
		return fmt.Sprintf("could not determine %s version (need >= %s)", e.Tool, e.Floor)
	}
	return fmt.Sprintf("%s %s is too old (need >= %s): upgrade with sudo pacman -Syu", e.Tool, e.Version, e.Floor)
}

// MissingDependencyError is returned when a required tool is not on PATH
type MissingDependencyError struct {
	Tool string
	Hint string
}

func (e *MissingDependencyError) Error() string {
	msg := fmt.Sprintf("required tool %q not found in PATH", e.Tool)
	if e.Hint != "" {
		msg += "\n  Install: " + e.Hint
	}
	return msg
}

// DependencyInstallError is returned when the package install step fails
type DependencyInstallError struct {
	Packages []string
	Err      error
}

func (e *DependencyInstallError) Error() string {
	return fmt.Sprintf("failed to install packages %s: %v", strings.Join(e.Packages, " "), e.Err)
}

func (e *DependencyInstallError) Unwrap() error { return e.Err }

// PermissionError is returned when the execute bit cannot be granted
type PermissionError struct {
	Path string
	Err  error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("cannot make %s executable: %v", e.Path, e.Err)
}

func (e *PermissionError) Unwrap() error { return e.Err }

// PrivilegeError is returned when the system-wide copy is denied
type PrivilegeError struct {
	Dest string
	Err  error
}

func (e *PrivilegeError) Error() string {
	return fmt.Sprintf("insufficient privileges to install to %s: %v\n  Retry with sudo available, or choose the user install", e.Dest, e.Err)
}

func (e *PrivilegeError) Unwrap() error { return e.Err }

// Toolchain abstracts the external tools the installer drives
type Toolchain interface {
	// LookTool reports whether a tool is on PATH, returning its location
	LookTool(name string) (string, error)
	// ToolVersion returns the first line of `name --version`
	ToolVersion(name string) (string, error)
	// InstallPackages installs system packages via the package manager
	InstallPackages(pkgs []string) error
	// RunPrivileged runs a command with elevated privileges
	RunPrivileged(args ...string) error
}

// Prompter abstracts the interactive placement prompt
type Prompter interface {
	// Choose presents options and returns the raw answer
	Choose(prompt string) (string, error)
}

// Options configures an installation run. Zero values select production
// defaults.
type Options struct {
	GOOS       string   // host OS; defaults to runtime.GOOS
	Source     string   // binary to install; defaults to the running executable
	BinaryName string   // installed name; defaults to archlinux-ai-cli
	SystemDir  string   // system-wide destination; defaults to /usr/local/bin
	UserDir    string   // per-user destination; defaults to ~/.local/bin
	Packages   []string // system package manifest; defaults to ca-certificates
	Floor      string   // minimum pacman version; defaults to 5.0.0
	PathEnv    string   // $PATH used for the user-dir advisory; defaults to os.Getenv

	Tools  Toolchain
	Prompt Prompter
	Out    io.Writer
}

type Installer struct {
	opts Options
}

func New(opts Options) (*Installer, error) {
	if opts.GOOS == "" {
		opts.GOOS = runtime.GOOS
	}
	if opts.Source == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("cannot locate running executable: %w", err)
		}
		opts.Source = exe
	}
	if opts.BinaryName == "" {
		opts.BinaryName = "archlinux-ai-cli"
	}
	if opts.SystemDir == "" {
		opts.SystemDir = "/usr/local/bin"
	}
	if opts.UserDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", err)
		}
		opts.UserDir = filepath.Join(home, ".local", "bin")
	}
	if opts.Packages == nil {
		opts.Packages = []string{"ca-certificates"}
	}
	if opts.Floor == "" {
		opts.Floor = "5.0.0"
	}
	if opts.PathEnv == "" {
		opts.PathEnv = os.Getenv("PATH")
	}
	if opts.Tools == nil {
		opts.Tools = ExecToolchain{}
	}
	if opts.Prompt == nil {
		opts.Prompt = StdinPrompter{Out: opts.Out}
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &Installer{opts: opts}, nil
}

// Run executes the installation sequence. Any error halts the run; a
// declined or skipped installation is not an error.
func (ins *Installer) Run() error {
	steps := []func() error{
		ins.checkPlatform,
		ins.checkRuntimeVersion,
		ins.checkTools,
		ins.installDependencies,
		ins.grantExecute,
		ins.place,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	ins.guidance()
	return nil
}

func (ins *Installer) printf(format string, args ...any) {
	fmt.Fprintf(ins.opts.Out, format+"\n", args...)
}

func (ins *Installer) ok(msg string) {
	ins.printf("%s %s", style.C(style.Green, "✓"), msg)
}

func (ins *Installer) warn(msg string) {
	ins.printf("%s %s", style.C(style.Yellow, "⚠"), msg)
}

func (ins *Installer) checkPlatform() error {
	if ins.opts.GOOS != "linux" {
		return &UnsupportedPlatformError{OS: ins.opts.GOOS}
	}
	ins.ok("Platform: linux")
	return nil
}

// versionPattern matches the release in output like
// "Pacman v6.1.0 - libalpm v14.0.0"
var versionPattern = regexp.MustCompile(`v?(\d+(?:\.\d+)+)`)

func (ins *Installer) checkRuntimeVersion() error {
	const tool = "pacman"

	if _, err := ins.opts.Tools.LookTool(tool); err != nil {
		return &MissingDependencyError{
			Tool: tool,
			Hint: "archlinux-ai-cli requires an Arch-based system with pacman",
		}
	}

	out, err := ins.opts.Tools.ToolVersion(tool)
	if err != nil {
		return &UnsupportedRuntimeError{Tool: tool, Floor: ins.opts.Floor}
	}

	m := versionPattern.FindStringSubmatch(out)
	if m == nil {
		return &UnsupportedRuntimeError{Tool: tool, Floor: ins.opts.Floor}
	}

	detected, err := goversion.NewVersion(m[1])
	if err != nil {
		return &UnsupportedRuntimeError{Tool: tool, Version: m[1], Floor: ins.opts.Floor}
	}
	floor, err := goversion.NewVersion(ins.opts.Floor)
	if err != nil {
		return fmt.Errorf("invalid version floor %q: %w", ins.opts.Floor, err)
	}

	if detected.LessThan(floor) {
		return &UnsupportedRuntimeError{Tool: tool, Version: m[1], Floor: ins.opts.Floor}
	}

	ins.ok(fmt.Sprintf("pacman %s (>= %s)", m[1], ins.opts.Floor))
	return nil
}

func (ins *Installer) checkTools() error {
	tools := []struct {
		name string
		hint string
	}{
		{"pacman", "archlinux-ai-cli requires an Arch-based system with pacman"},
		{"sudo", "sudo pacman -S sudo (as root), or ask your administrator"},
	}

	for _, t := range tools {
		if _, err := ins.opts.Tools.LookTool(t.name); err != nil {
			return &MissingDependencyError{Tool: t.name, Hint: t.hint}
		}
		ins.ok(t.name + " available")
	}
	return nil
}

func (ins *Installer) installDependencies() error {
	if len(ins.opts.Packages) == 0 {
		return nil
	}
	ins.printf("Installing system packages: %s", strings.Join(ins.opts.Packages, " "))
	if err := ins.opts.Tools.InstallPackages(ins.opts.Packages); err != nil {
		// No rollback: partial installs are left in place
		return &DependencyInstallError{Packages: ins.opts.Packages, Err: err}
	}
	ins.ok("System packages installed")
	return nil
}

func (ins *Installer) grantExecute() error {
	if err := os.Chmod(ins.opts.Source, 0o755); err != nil {
		return &PermissionError{Path: ins.opts.Source, Err: err}
	}
	ins.ok("Execute permission granted")
	return nil
}

func (ins *Installer) place() error {
	ins.printf("\nWhere should %s be installed?", ins.opts.BinaryName)
	ins.printf("  1) %s (system-wide, requires sudo)", ins.opts.SystemDir)
	ins.printf("  2) %s (current user)", ins.opts.UserDir)
	ins.printf("  3) Skip installation")

	answer, err := ins.opts.Prompt.Choose("Enter choice [1-3]: ")
	if err != nil {
		return fmt.Errorf("failed to read choice: %w", err)
	}

	switch strings.TrimSpace(answer) {
	case "1":
		return ins.installSystem()
	case "2":
		return ins.installUser()
	case "3":
		ins.warn("Skipping installation")
		return nil
	default:
		// Anything unrecognized is treated as a skip, not a failure
		ins.warn(fmt.Sprintf("Unrecognized choice %q, skipping installation", strings.TrimSpace(answer)))
		return nil
	}
}

func (ins *Installer) installSystem() error {
	dest := filepath.Join(ins.opts.SystemDir, ins.opts.BinaryName)
	if err := ins.opts.Tools.RunPrivileged("install", "-m755", ins.opts.Source, dest); err != nil {
		return &PrivilegeError{Dest: dest, Err: err}
	}
	ins.ok("Installed to " + dest)
	return nil
}

func (ins *Installer) installUser() error {
	if err := os.MkdirAll(ins.opts.UserDir, 0o755); err != nil {
		return &PermissionError{Path: ins.opts.UserDir, Err: err}
	}

	dest := filepath.Join(ins.opts.UserDir, ins.opts.BinaryName)
	data, err := os.ReadFile(ins.opts.Source)
	if err != nil {
		return &PermissionError{Path: ins.opts.Source, Err: err}
	}
	if err := os.WriteFile(dest, data, 0o755); err != nil {
		return &PermissionError{Path: dest, Err: err}
	}
	ins.ok("Installed to " + dest)

	if !ins.dirOnPath(ins.opts.UserDir) {
		ins.warn(fmt.Sprintf("%s is not on your PATH; add it to your shell profile:", ins.opts.UserDir))
		ins.printf("  export PATH=\"%s:$PATH\"", ins.opts.UserDir)
	}
	return nil
}

func (ins *Installer) dirOnPath(dir string) bool {
	clean := filepath.Clean(dir)
	for _, p := range filepath.SplitList(ins.opts.PathEnv) {
		if filepath.Clean(p) == clean {
			return true
		}
	}
	return false
}

func (ins *Installer) guidance() {
	ins.printf("\n%s", style.B("Next steps:"))
	ins.printf("  1. Set your Google AI Studio API key:")
	ins.printf("     export GOOGLE_AI_API_KEY='your-key'")
	ins.printf("  2. Ask your first question:")
	ins.printf("     %s ask \"How do I update my system?\"", ins.opts.BinaryName)
	ins.printf("  3. Or start an interactive session:")
	ins.printf("     %s chat", ins.opts.BinaryName)
}
