package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	aoio "github.com/matzehuels/aostar/pkg/io"
)

// convertCommand rewrites a graph document in another format.
func (c *CLI) convertCommand() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "convert [input] [output]",
		Short: "Convert a graph document between JSON, TOML and YAML",
		Long: `Convert a graph document between JSON, TOML and YAML.

Formats are taken from the file extensions unless --from or --to is given.
Use "-" as the output to write to standard output. Node types are always
written explicitly, so nodes that defaulted to OR come out as "OR".`,
		Example: `  aostar convert plan.json plan.toml
  aostar convert plan.yaml - --to json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := args[0], args[1]

			g, err := loadGraph(in, from)
			if err != nil {
				return fmt.Errorf("read %s: %w", in, err)
			}

			if out == "-" {
				if to == "" {
					to = string(aoio.FormatJSON)
				}
				format, err := aoio.ParseFormat(to)
				if err != nil {
					return err
				}
				return aoio.Write(g, cmd.OutOrStdout(), format)
			}

			if to == "" {
				if err := aoio.Export(g, out); err != nil {
					return err
				}
			} else {
				format, err := aoio.ParseFormat(to)
				if err != nil {
					return err
				}
				if err := aoio.ExportFormat(g, out, format); err != nil {
					return err
				}
			}
			loggerFromContext(cmd.Context()).Debug("converted graph", "from", in, "to", out, "nodes", g.NodeCount())
			printSuccess(cmd.OutOrStdout(), "Converted %s", in)
			printFile(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "input format: json, toml, yaml (default: from extension)")
	cmd.Flags().StringVar(&to, "to", "", "output format: json, toml, yaml (default: from extension)")
	return cmd
}
