package main

import "github.com/dacraezy/archlinux-ai-cli/cmd"

func main() {
	cmd.Execute()
}
