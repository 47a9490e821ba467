package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/aostar/pkg/andor"
	"github.com/matzehuels/aostar/pkg/errors"
	aoio "github.com/matzehuels/aostar/pkg/io"
	"github.com/matzehuels/aostar/pkg/observability"
)

// Runner executes pipeline stages and reports them to the registered
// observability hooks. Both CLI and API use it.
//
// The Runner is stateless except for its logger. Multiple goroutines can
// safely use the same Runner with different options, as long as searches
// that annotate node metadata do not share a graph.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger uses log.Default().
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete load → search → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAll(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	g, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Graph = g
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	r.Logger.Info("loaded graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Search
	searchStart := time.Now()
	res, err := r.Search(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	result.Search = res
	result.Stats.SearchTime = time.Since(searchStart)
	result.Stats.Evaluated = res.Costs.Len()

	r.Logger.Info("found solution",
		"start", res.Start,
		"cost", res.BestCost,
		"nodes", len(res.Solution),
		"duration", result.Stats.SearchTime)

	// Stage 3: Render
	if len(opts.Formats) == 0 {
		return result, nil
	}
	renderStart := time.Now()
	artifacts, err := r.Render(ctx, g, &res, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load returns opts.Graph when set, otherwise reads the document at
// opts.Path. The format comes from opts.InputFormat or the file extension.
func (r *Runner) Load(ctx context.Context, opts Options) (*andor.Graph, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	if opts.Graph != nil {
		return opts.Graph, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hooks := observability.Search()
	hooks.OnLoadStart(ctx, opts.Path)
	start := time.Now()

	g, err := load(opts)
	nodes := 0
	if g != nil {
		nodes = g.NodeCount()
	}
	hooks.OnLoadComplete(ctx, opts.Path, nodes, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	opts.Logger.Debug("read graph document", "path", opts.Path, "start", aoio.Start(g))
	return g, nil
}

func load(opts Options) (*andor.Graph, error) {
	if opts.InputFormat == "" {
		return aoio.Import(opts.Path)
	}
	return aoio.ImportFormat(opts.Path, opts.InputFormat)
}

// Search runs the two-pass search from opts.Start, falling back to the
// graph's recorded start node.
func (r *Runner) Search(ctx context.Context, g *andor.Graph, opts Options) (andor.Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForSearch(); err != nil {
		return andor.Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return andor.Result{}, err
	}

	start := opts.Start
	if start == "" {
		start = aoio.Start(g)
	}
	if start == "" {
		return andor.Result{}, errors.New(errors.ErrCodeInvalidInput, "start node is required")
	}

	hooks := observability.Search()
	hooks.OnSearchStart(ctx, start, g.NodeCount())
	t0 := time.Now()

	res, err := andor.SearchContext(ctx, g, start, opts.SearchOptions()...)
	hooks.OnSearchComplete(ctx, start, g.NodeCount(), time.Since(t0), err)
	if err != nil {
		opts.Logger.Debug("search failed", "start", start, "error", err)
		return andor.Result{}, err
	}
	return res, nil
}

// Render draws the graph with res highlighted. res may be nil.
func (r *Runner) Render(ctx context.Context, g *andor.Graph, res *andor.Result, opts Options) (map[string][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hooks := observability.Search()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := Render(g, res, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
