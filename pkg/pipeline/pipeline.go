// Package pipeline provides the load → search → render pipeline for aostar.
//
// This package wires graph loading, the AND/OR search and diagram rendering
// together so that the CLI and the HTTP server behave the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read a graph document (JSON, TOML or YAML) or take a graph
//     that is already in memory
//  2. Search: Compute minimum costs and extract the solution from the start
//     node
//  3. Render: Generate output in various formats (DOT, SVG, PNG, PDF, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Path:    "graph.toml",
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Search.BestCost, result.Search.Solution)
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/aostar/pkg/andor"
	"github.com/matzehuels/aostar/pkg/errors"
	aoio "github.com/matzehuels/aostar/pkg/io"
)

// Format constants for output formats.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// DefaultPNGScale is the resolution multiplier used for PNG output.
const DefaultPNGScale = 2.0

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Path        string       `json:"path,omitempty"`   // Graph document to read
	InputFormat aoio.Format  `json:"format,omitempty"` // Overrides the format inferred from Path
	Graph       *andor.Graph `json:"-"`                // Preloaded graph; takes precedence over Path

	// Search options
	Start    string `json:"start,omitempty"` // Defaults to the document's start node
	NoMemo   bool   `json:"no_memo,omitempty"`
	MaxDepth  int    `json:"max_depth,omitempty"`
	MaxVisits int    `json:"max_visits,omitempty"` // Work budget shared by both search passes
	CostKey   string `json:"cost_key,omitempty"`   // Write costs into node metadata under this key

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the loaded AND/OR graph.
	Graph *andor.Graph

	// Search holds the best cost, solution and cost table.
	Search andor.Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Evaluated  int // Nodes with a computed cost
	LoadTime   time.Duration
	SearchTime time.Duration
	RenderTime time.Duration
}

// Report is the JSON form of a search result shared by the CLI and the API.
type Report struct {
	Start    string             `json:"start"`
	BestCost float64            `json:"best_cost"`
	Solution []string           `json:"solution"`
	Costs    map[string]float64 `json:"costs,omitempty"`
}

// NewReport builds a Report from a search result.
func NewReport(res andor.Result) Report {
	r := Report{
		Start:    res.Start,
		BestCost: res.BestCost,
		Solution: res.Solution,
	}
	if res.Costs != nil {
		r.Costs = res.Costs.Map()
	}
	return r
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: dot, svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateForLoad checks that a graph source was given.
func (o *Options) ValidateForLoad() error {
	if o.Graph == nil && o.Path == "" {
		return errors.New(errors.ErrCodeInvalidInput, "graph or path is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateForSearch checks search settings.
func (o *Options) ValidateForSearch() error {
	if o.MaxDepth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_depth must not be negative")
	}
	if o.MaxVisits < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_visits must not be negative")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateForRender validates formats. No formats means nothing is rendered.
func (o *Options) ValidateForRender() error {
	return ValidateFormats(o.Formats)
}

// ValidateAll runs every stage's validation.
func (o *Options) ValidateAll() error {
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForSearch(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// SearchOptions converts the options to andor search options.
func (o *Options) SearchOptions() []andor.Option {
	opts := []andor.Option{andor.WithMemo(!o.NoMemo)}
	if o.MaxDepth > 0 {
		opts = append(opts, andor.WithMaxDepth(o.MaxDepth))
	}
	if o.MaxVisits > 0 {
		opts = append(opts, andor.WithMaxVisits(o.MaxVisits))
	}
	if o.CostKey != "" {
		opts = append(opts, andor.WithCostKey(o.CostKey))
	}
	return opts
}
