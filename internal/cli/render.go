package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/aostar/pkg/pipeline"
)

type renderOpts struct {
	search     searchFlags
	formats    string // comma-separated output formats
	output     string // output file (single format) or base path
	detailed   bool   // show type, cost and metadata in node labels
	noSolution bool   // draw the plain graph without searching
}

// renderCommand draws a graph with its solution highlighted.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [graph]",
		Short: "Render an AND/OR graph with its solution highlighted",
		Long: `Render an AND/OR graph as a node-link diagram.

OR nodes are drawn as ellipses and AND nodes as boxes. Unless --no-solution
is given the graph is searched first and the chosen nodes and edges are
highlighted. DOT and SVG are produced in-process; PNG and PDF need
rsvg-convert (librsvg).`,
		Example: `  aostar render plan.toml
  aostar render plan.json -f svg,png -o out/plan
  aostar render plan.yaml --detailed --no-solution -f dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			popts, err := c.pipelineOptions(cmd, args[0], opts.search)
			if err != nil {
				return err
			}
			popts.Formats = parseFormats(opts.formats, c.cfg.Render.Formats)
			if err := pipeline.ValidateFormats(popts.Formats); err != nil {
				return err
			}
			popts.Detailed = opts.detailed
			if !cmd.Flags().Changed("detailed") {
				popts.Detailed = c.cfg.Render.Detailed
			}
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), popts, opts)
		},
	}

	opts.search.register(cmd)
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), dot, png, pdf, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node type, cost and metadata in labels")
	cmd.Flags().BoolVar(&opts.noSolution, "no-solution", false, "draw the graph without searching it")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, w, status io.Writer, popts pipeline.Options, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	runner := pipeline.NewRunner(logger)

	spinner := newSpinner(ctx, status, fmt.Sprintf("Rendering %s...", strings.Join(popts.Formats, ", ")))
	spinner.Start()

	artifacts, err := c.renderArtifacts(ctx, runner, popts, opts.noSolution)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render %s: %w", popts.Path, err)
	}
	spinner.Stop()

	paths, err := writeArtifacts(artifacts, popts.Formats, popts.Path, opts.output)
	if err != nil {
		return err
	}
	printSuccess(w, "Rendered %s", popts.Path)
	for _, p := range paths {
		printFile(w, p)
	}
	return nil
}

func (c *CLI) renderArtifacts(ctx context.Context, runner *pipeline.Runner, popts pipeline.Options, noSolution bool) (map[string][]byte, error) {
	if !noSolution {
		result, err := runner.Execute(ctx, popts)
		if err != nil {
			return nil, err
		}
		return result.Artifacts, nil
	}

	g, err := runner.Load(ctx, popts)
	if err != nil {
		return nil, err
	}
	return runner.Render(ctx, g, nil, popts)
}

// writeArtifacts writes each format to disk and returns the paths written.
// A single format goes to output when it is set; otherwise files are named
// after the base path (output or the input without its extension) plus the
// format extension.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	single := len(formats) == 1 && output != ""
	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	} else if !single {
		base = strings.TrimSuffix(output, filepath.Ext(output))
	}

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := base + "." + format
		if single {
			path = output
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return paths, fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
