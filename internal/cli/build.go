package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkoller/domainmap/pkg/graph"
	"github.com/mkoller/domainmap/pkg/tabular"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	hierarchy string // hierarchy sheet CSV path
	deps      string // dependency sheet CSV path
	output    string // output file path (stdout if empty)
	noCache   bool
	refresh   bool
}

// buildCommand creates the build command. It reads a workbook (a single JSON
// file, or a pair of CSV sheets) and writes the assembled node table as JSON.
func (c *CLI) buildCommand() *cobra.Command {
	opts := buildOpts{}

	cmd := &cobra.Command{
		Use:   "build [workbook.json]",
		Short: "Assemble a hierarchy workbook into a node table",
		Long: `Assemble a hierarchy workbook into a node table.

The workbook is either a single JSON file holding both sheets, or a pair of
CSV files passed with --hierarchy and --deps.

Examples:
  domainmap build workbook.json -o table.json
  domainmap build --hierarchy hierarchy.csv --deps dependencies.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := loadWorkbook(args, opts.hierarchy, opts.deps)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context(), opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(c.Logger)
			tree, hit, err := runner.AssembleWithCacheInfo(cmd.Context(), wb, pipelineOpts(c.Config, opts.refresh))
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Assembled %d nodes", tree.Len()))

			if err := writeTable(graph.FromTree(tree), opts.output); err != nil {
				return err
			}
			if opts.output != "" {
				printSuccess("Wrote node table")
				printFile(opts.output)
			}
			printStats(tree.Len(), 0, hit)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.hierarchy, "hierarchy", "", "hierarchy sheet CSV file")
	cmd.Flags().StringVar(&opts.deps, "deps", "", "dependency sheet CSV file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")

	return cmd
}

// loadWorkbook reads the workbook from a JSON positional argument or the CSV
// flag pair. Exactly one of the two forms must be used.
func loadWorkbook(args []string, hierCSV, depsCSV string) (tabular.Workbook, error) {
	switch {
	case len(args) == 1 && hierCSV == "":
		return tabular.ReadJSONFile(args[0])
	case len(args) == 0 && hierCSV != "":
		return tabular.ReadCSVFiles(hierCSV, depsCSV)
	case len(args) == 1 && hierCSV != "":
		return tabular.Workbook{}, fmt.Errorf("pass either a JSON workbook or --hierarchy, not both")
	default:
		return tabular.Workbook{}, fmt.Errorf("workbook required: pass a JSON file or --hierarchy <csv>")
	}
}

// writeTable serializes the node table as JSON to path, or stdout if empty.
func writeTable(tbl graph.Table, path string) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return graph.WriteTable(tbl, out)
}

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

// parseFormat normalizes a --format value.
func parseFormat(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
