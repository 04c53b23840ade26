// Package root contains the root command of the jetlint CLI.
package root

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"jetlint.dev/cli/cmd/jetlint/cmdutil"
	"jetlint.dev/cli/internal/config"
	"jetlint.dev/pkg/version"
)

var (
	verbosity  int
	configPath string
)

var Cmd = &cobra.Command{
	Use:           "jetlint",
	Short:         "jetlint finds bugs in JavaScript code",
	Version:       version.Version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

func init() {
	Cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "verbose output, or -vv for even more")
	Cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default jetlint.toml if present)")
}

// Main runs the CLI and returns the process exit code.
func Main() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := Cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

var (
	configOnce sync.Once
	loadedCfg  *config.Config
	configErr  error
)

// Config returns the jetlint configuration, loading it on first use.
// A broken config file aborts the command.
func Config() *config.Config {
	configOnce.Do(func() {
		loadedCfg, configErr = config.Load(configPath)
	})
	if configErr != nil {
		cmdutil.Fatal(configErr)
	}
	return loadedCfg
}

// setupLogging routes the global logger through a console writer on stderr,
// keeping stdout free for command output and LSP traffic. Verbosity flags
// override the configured level.
func setupLogging() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(Config().Log.Level); err == nil && parsed != zerolog.NoLevel {
		level = parsed
	}
	switch {
	case verbosity == 1:
		level = zerolog.DebugLevel
	case verbosity >= 2:
		level = zerolog.TraceLevel
	}
	zerolog.SetGlobalLevel(level)
}
