// Package cli implements the aostar command-line interface.
package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/aostar/pkg/andor"
	aoio "github.com/matzehuels/aostar/pkg/io"
	"github.com/matzehuels/aostar/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "aostar"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string // --config flag
	cfg        Config // loaded before any command runs
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "aostar finds minimum-cost solutions in AND/OR graphs",
		Long: `aostar computes the minimum cost of solving a node in an AND/OR graph and
extracts the solution that achieves it.

An AND node is solved by solving all of its children, an OR node by solving
any one of them. Leaves cost nothing. Graphs are read from JSON, TOML or
YAML documents.`,
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			if path != "" {
				c.Logger.Debug("loaded config", "path", path)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(versionTemplate())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/aostar/config.toml)")

	// Register all subcommands
	root.AddCommand(c.solveCommand())
	root.AddCommand(c.demoCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Options Helpers
// =============================================================================

// searchFlags holds the flags shared by commands that run a search.
type searchFlags struct {
	start       string
	inputFormat string
	noMemo      bool
	maxDepth    int
	maxVisits   int
	costKey     string
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.start, "start", "s", "", "start node (default: the document's start)")
	cmd.Flags().StringVar(&f.inputFormat, "input-format", "", "graph format: json, toml, yaml (default: from extension)")
	cmd.Flags().BoolVar(&f.noMemo, "no-memo", false, "re-evaluate shared subgraphs instead of reusing their cost")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", 0, "fail when the search goes deeper than this (0 = unbounded)")
	cmd.Flags().IntVar(&f.maxVisits, "max-visits", 0, "fail when the search takes more steps than this (0 = unbounded)")
	cmd.Flags().StringVar(&f.costKey, "cost-key", "", "write computed costs into node metadata under this key")
}

// pipelineOptions merges flags with the config file. Flags the user set win.
func (c *CLI) pipelineOptions(cmd *cobra.Command, path string, f searchFlags) (pipeline.Options, error) {
	opts := pipeline.Options{
		Path:      path,
		Start:     f.start,
		NoMemo:    f.noMemo,
		MaxDepth:  f.maxDepth,
		MaxVisits: f.maxVisits,
		CostKey:   f.costKey,
		Logger:    loggerFromContext(cmd.Context()),
	}
	if f.inputFormat != "" {
		format, err := aoio.ParseFormat(f.inputFormat)
		if err != nil {
			return opts, err
		}
		opts.InputFormat = format
	}

	flags := cmd.Flags()
	if !flags.Changed("no-memo") {
		opts.NoMemo = !c.cfg.memoize()
	}
	if !flags.Changed("max-depth") {
		opts.MaxDepth = c.cfg.MaxDepth
	}
	if !flags.Changed("max-visits") {
		opts.MaxVisits = c.cfg.MaxVisits
	}
	if !flags.Changed("cost-key") {
		opts.CostKey = c.cfg.CostKey
	}
	return opts, nil
}

// loadGraph reads a graph document, honouring --input-format.
func loadGraph(path, format string) (*andor.Graph, error) {
	if format == "" {
		return aoio.Import(path)
	}
	f, err := aoio.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return aoio.ImportFormat(path, f)
}

// parseFormats parses a comma-separated format string into a slice.
// An empty string yields def.
func parseFormats(s string, def []string) []string {
	if s == "" {
		if len(def) == 0 {
			return []string{pipeline.FormatSVG}
		}
		return def
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
