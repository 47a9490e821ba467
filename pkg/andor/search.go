package andor

import "context"

// Result is the outcome of a successful [Search].
type Result struct {
	Start    string   // Node the search started from
	BestCost float64  // Minimum cost of solving Start
	Solution []string // Preorder listing of one optimal solution
	Edges    []Edge   // Parent -> child edges followed by the solution, in preorder
	Costs    *Costs   // Cost table populated by the run
}

// Search computes the minimum cost of solving start and extracts one optimal
// solution. Each call allocates its own cost table, so re-running on an
// unmodified graph yields the same result and concurrent searches over the
// same graph do not interfere (unless WithCostKey asks for annotation).
//
// On error the zero Result is returned; no partial results are produced.
func Search(g *Graph, start string, opts ...Option) (Result, error) {
	return SearchContext(context.Background(), g, start, opts...)
}

// SearchContext is like [Search] but gives up with the context's error once
// ctx is done. Both passes poll ctx while they run. The work budget of
// [WithMaxVisits] is shared by the two passes.
func SearchContext(ctx context.Context, g *Graph, start string, opts ...Option) (Result, error) {
	p := NewPropagator(g, opts...)
	best, err := p.ComputeCostContext(ctx, start)
	if err != nil {
		return Result{}, err
	}
	e, err := extract(ctx, g, p.Costs(), start, p.visits, p.opts.maxVisits)
	if err != nil {
		return Result{}, err
	}
	if p.opts.costKey != "" {
		p.Costs().Annotate(p.opts.costKey)
	}
	return Result{
		Start:    start,
		BestCost: best,
		Solution: e.out,
		Edges:    e.edges,
		Costs:    p.Costs(),
	}, nil
}
