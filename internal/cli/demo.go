package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/aostar/pkg/andor"
)

// demoGraph builds the example graph A(OR) -> {B(AND) -> D(AND), C(OR)}.
func demoGraph() *andor.Graph {
	g := andor.New(andor.Metadata{"start": "A"})
	for _, n := range []andor.Node{
		{ID: "A", Type: andor.OR},
		{ID: "B", Type: andor.AND},
		{ID: "C", Type: andor.OR},
		{ID: "D", Type: andor.AND},
	} {
		_ = g.AddNode(n)
	}
	for _, e := range []andor.Edge{
		{From: "A", To: "B"},
		{From: "A", To: "C"},
		{From: "B", To: "D"},
	} {
		_ = g.AddEdge(e)
	}
	return g
}

// demoCommand runs a search over a small built-in graph.
func (c *CLI) demoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Search a small built-in AND/OR graph",
		Long: `Search a small built-in AND/OR graph and print the result.

The graph has an OR root A with children B (AND) and C (OR); B has a single
child D (AND). Every leaf costs nothing, so both branches tie at cost 0 and
the first child, B, is chosen.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := andor.Search(demoGraph(), "A")
			if err != nil {
				return fmt.Errorf("demo: %w", err)
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
}
