package lsp

import (
	"context"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"jetlint.dev/cli/cmd/jetlint/lsp/server"
	"jetlint.dev/cli/cmd/jetlint/root"
	"jetlint.dev/pkg/lint"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Starts the jetlint language server on stdin and stdout",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		linter := lint.New(root.Config().LintOptions())
		lspServer := server.NewLSPServer(linter)

		// Start blocks until the client closes the stream or the
		// context is cancelled by a signal.
		if err := lspServer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "lsp server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	lspCmd.AddCommand(startCmd)
	root.Cmd.AddCommand(lspCmd)
}

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "LSP (Language Server Protocol) server for editor integration",
}
