// Package check implements the jetlint check command.
package check

import (
	"os"
	"runtime"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/jwalton/go-supportscolor"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"jetlint.dev/cli/cmd/jetlint/cmdutil"
	"jetlint.dev/cli/cmd/jetlint/root"
	"jetlint.dev/pkg/lint"
)

var watchMode bool

var checkCmd = &cobra.Command{
	Use:   "check FILE...",
	Short: "Checks JavaScript files for bugs",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if !supportscolor.Stdout().SupportsColor {
			color.NoColor = true
		}

		linter := lint.New(root.Config().LintOptions())

		// Watch mode reruns the whole lint pass on every change event,
		// so serialize runs in case events arrive faster than we lint.
		var mu sync.Mutex
		runLint := func() int {
			mu.Lock()
			defer mu.Unlock()
			results, err := lintFiles(linter, args)
			if err != nil {
				cmdutil.Fatal(err)
			}
			numErrors := 0
			for _, res := range results {
				printDiagnostics(os.Stdout, res)
				for _, d := range res.Diags {
					if d.Severity == lint.SeverityError {
						numErrors++
					}
				}
			}
			return numErrors
		}

		if watchMode {
			runLint()
			if err := watchAndRun(cmd.Context(), args, func() { runLint() }); err != nil {
				cmdutil.Fatal(err)
			}
			return
		}
		if runLint() > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	checkCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "re-check files whenever they change")
	root.Cmd.AddCommand(checkCmd)
}

// fileResult is the lint outcome for a single file.
type fileResult struct {
	Path   string
	Source string
	Diags  []lint.Diagnostic
}

// lintFiles lints the given paths in parallel and returns the results
// in input order.
func lintFiles(linter *lint.Linter, paths []string) ([]fileResult, error) {
	results := make([]fileResult, len(paths))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, "read %s", path)
			}
			src := string(data)
			results[i] = fileResult{Path: path, Source: src, Diags: linter.Lint(src)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
