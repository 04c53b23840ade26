package main

import (
	"os"

	"jetlint.dev/cli/cmd/jetlint/root"

	// Register commands with the root command.
	_ "jetlint.dev/cli/cmd/jetlint/check"
	_ "jetlint.dev/cli/cmd/jetlint/lsp"
)

func main() {
	os.Exit(root.Main())
}
