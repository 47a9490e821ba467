package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/aostar/pkg/andor"
	"github.com/matzehuels/aostar/pkg/errors"
	aoio "github.com/matzehuels/aostar/pkg/io"
)

// validateCommand checks graph documents without searching them.
func (c *CLI) validateCommand() *cobra.Command {
	var inputFormat string

	cmd := &cobra.Command{
		Use:   "validate [graph...]",
		Short: "Check graph documents for structural errors",
		Long: `Check graph documents for structural errors.

Each document is parsed and the whole graph is checked for cycles, including
parts that are not reachable from the start node. A search only fails on
cycles it actually reaches.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			logger := loggerFromContext(cmd.Context())

			var failed []string
			for _, path := range args {
				g, err := loadGraph(path, inputFormat)
				if err == nil {
					err = g.Validate()
				}
				if err != nil {
					coded := errors.FromSearch(err)
					logger.Debug("invalid graph", "path", path, "code", coded.Code, "error", err)
					printError(w, "%s: %s [%s]", path, coded.Message, coded.Code)
					failed = append(failed, path)
					continue
				}
				printGraphSummary(w, path, g)
			}

			if len(failed) > 0 {
				return fmt.Errorf("%d of %d graphs invalid: %s", len(failed), len(args), strings.Join(failed, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&inputFormat, "input-format", "", "graph format: json, toml, yaml (default: from extension)")
	return cmd
}

func printGraphSummary(w io.Writer, path string, g *andor.Graph) {
	printSuccess(w, "%s: %d nodes, %d edges", path, g.NodeCount(), g.EdgeCount())
	if start := aoio.Start(g); start != "" {
		printDetail(w, "start: %s", start)
	} else {
		printWarning(w, "%s: no start node; pass --start to solve", path)
	}
	printDetail(w, "sources: %s", strings.Join(ids(g.Sources()), ", "))
	printDetail(w, "sinks: %s", strings.Join(ids(g.Sinks()), ", "))
}

func ids(nodes []*andor.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}
