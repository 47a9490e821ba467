package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/aostar/pkg/andor"
	aoio "github.com/matzehuels/aostar/pkg/io"
	"github.com/matzehuels/aostar/pkg/pipeline"
)

type solveOpts struct {
	search    searchFlags
	jsonOut   bool   // print the result as JSON
	showCosts bool   // list every evaluated node's cost
	output    string // write the (annotated) graph here
}

// solveCommand creates the solve command that searches a graph file.
func (c *CLI) solveCommand() *cobra.Command {
	var opts solveOpts

	cmd := &cobra.Command{
		Use:   "solve [graph]",
		Short: "Find the minimum-cost solution of an AND/OR graph",
		Long: `Find the minimum-cost solution of an AND/OR graph.

The graph is read from a JSON, TOML or YAML document. The search starts at
--start, or at the document's "start" field when the flag is omitted, and
prints the best cost followed by the nodes of the solution in depth-first
order.

With --output the graph is written back with each evaluated node's cost
stored in its metadata under --cost-key ("cost" by default).`,
		Example: `  aostar solve plan.toml
  aostar solve plan.json --start build --costs
  aostar solve plan.yaml --json
  aostar solve plan.json -o annotated.yaml --cost-key h`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			popts, err := c.pipelineOptions(cmd, args[0], opts.search)
			if err != nil {
				return err
			}
			if opts.output != "" && popts.CostKey == "" {
				popts.CostKey = andor.DefaultCostKey
			}
			return c.runSolve(cmd.Context(), cmd.OutOrStdout(), popts, opts)
		},
	}

	opts.search.register(cmd)
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&opts.showCosts, "costs", false, "list the cost of every evaluated node")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the graph with cost annotations to this file")

	return cmd
}

func (c *CLI) runSolve(ctx context.Context, w io.Writer, popts pipeline.Options, opts solveOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	runner := pipeline.NewRunner(logger)
	result, err := runner.Execute(ctx, popts)
	if err != nil {
		return fmt.Errorf("solve %s: %w", popts.Path, err)
	}
	prog.done("searched graph", "nodes", result.Stats.NodeCount, "evaluated", result.Stats.Evaluated)

	if opts.output != "" {
		if err := aoio.Export(result.Graph, opts.output); err != nil {
			return fmt.Errorf("write %s: %w", opts.output, err)
		}
		logger.Debug("wrote annotated graph", "path", opts.output, "cost_key", popts.CostKey)
	}

	if opts.jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(pipeline.NewReport(result.Search))
	}

	printResult(w, result.Search)
	if opts.showCosts {
		printCosts(w, result.Search)
	}
	printStats(w, result.Stats.NodeCount, result.Stats.EdgeCount, result.Stats.Evaluated)
	if opts.output != "" {
		printFile(w, opts.output)
	}
	return nil
}
