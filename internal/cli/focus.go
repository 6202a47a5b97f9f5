package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkoller/domainmap/pkg/graph"
	"github.com/mkoller/domainmap/pkg/pipeline"
	"github.com/mkoller/domainmap/pkg/render"
)

// Output formats for the focus command.
const (
	formatJSON = "json"
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatPNG  = "png"
	formatText = "text"
)

// focusOpts holds the command-line flags for the focus command.
type focusOpts struct {
	buildOpts

	id       string // focus node ID
	search   string // label substring to focus via search
	leafDeps bool   // restrict dependency matching to leaves
	format   string // output format
	depEdges bool   // draw dashed dependency edges in DOT output
}

// focusCommand creates the focus command. It runs the full pipeline and
// renders the highlighted view in the requested format.
func (c *CLI) focusCommand() *cobra.Command {
	opts := focusOpts{format: formatText}

	cmd := &cobra.Command{
		Use:   "focus [workbook.json]",
		Short: "Resolve and render a focused view of the hierarchy",
		Long: `Resolve the visible, highlighted subset of the hierarchy for a focus node.

The focus is selected by exact node ID (--id) or by case-insensitive label
search (--search). Without either, the full tree is rendered unhighlighted.

Examples:
  domainmap focus workbook.json --search refund
  domainmap focus workbook.json --id "Sales > Order > Refund" --format svg -o view.svg
  domainmap focus --hierarchy h.csv --deps d.csv --search billing --format dot`,
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

			popts := pipelineOpts(c.Config, opts.refresh)
			popts.Focus = opts.id
			popts.Search = opts.search
			if opts.leafDeps {
				popts.LeafDeps = true
			}

			prog := newProgress(c.Logger)
			result, err := runner.Execute(cmd.Context(), wb, popts)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Resolved %d of %d nodes", result.Stats.VisibleCount, result.Stats.NodeCount))

			if err := c.writeView(cmd, result, opts); err != nil {
				return err
			}
			printStats(result.Stats.NodeCount, result.Stats.VisibleCount, result.CacheInfo.ViewHit)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.hierarchy, "hierarchy", "", "hierarchy sheet CSV file")
	cmd.Flags().StringVar(&opts.deps, "deps", "", "dependency sheet CSV file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&opts.id, "id", "", "focus node ID")
	cmd.Flags().StringVar(&opts.search, "search", "", "focus the first node whose label contains this text")
	cmd.Flags().BoolVar(&opts.leafDeps, "leaf-deps", false, "match dependency labels against leaf nodes only")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format (text, json, dot, svg, png)")
	cmd.Flags().BoolVar(&opts.depEdges, "dep-edges", true, "draw dashed dependency edges in graph output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")

	return cmd
}

// writeView renders the pipeline result in the requested format.
func (c *CLI) writeView(cmd *cobra.Command, result *pipeline.Result, opts focusOpts) error {
	tbl := graph.FromView(result.View)
	dotOpts := render.DOTOptions{ShowDependencyEdges: opts.depEdges}

	switch parseFormat(opts.format) {
	case formatText:
		out, err := openOutput(opts.output)
		if err != nil {
			return err
		}
		defer out.Close()
		return render.WriteText(out, result.View, render.TextOptions{
			ShowDependencies: true,
			NoColor:          opts.output != "",
		})

	case formatJSON:
		return writeTable(tbl, opts.output)

	case formatDOT:
		out, err := openOutput(opts.output)
		if err != nil {
			return err
		}
		defer out.Close()
		_, err = out.Write([]byte(render.ToDOT(tbl, dotOpts)))
		return err

	case formatSVG:
		svg, err := render.RenderSVG(cmd.Context(), render.ToDOT(tbl, dotOpts))
		if err != nil {
			return err
		}
		return writeBytes(svg, opts.output)

	case formatPNG:
		png, err := render.RenderPNG(cmd.Context(), render.ToDOT(tbl, dotOpts))
		if err != nil {
			return err
		}
		return writeBytes(png, opts.output)

	default:
		return fmt.Errorf("invalid format: %q (must be one of: text, json, dot, svg, png)", opts.format)
	}
}

func writeBytes(data []byte, path string) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = out.Write(data)
	return err
}
