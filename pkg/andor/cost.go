package andor

import (
	"context"
	"errors"
	"fmt"
)

// DefaultCostKey is the metadata key used by [Costs.Annotate] when no key is
// given.
const DefaultCostKey = "cost"

// ErrDepthExceeded is returned when cost propagation descends deeper than
// the bound configured with [WithMaxDepth].
var ErrDepthExceeded = errors.New("maximum depth exceeded")

// ErrLimitExceeded is returned when a search does more work than the budget
// configured with [WithMaxVisits].
var ErrLimitExceeded = errors.New("work limit exceeded")

// cancelCheckInterval is the number of work steps between context checks.
const cancelCheckInterval = 1024

type slotState uint8

const (
	slotUnset slotState = iota
	slotVisiting
	slotDone
)

// Costs is the per-run cost table. Each slot belongs to one node of the
// graph the table was created for and goes from unset to a value exactly
// once per run.
//
// Keeping the table outside the graph lets several runs over the same graph
// proceed independently.
type Costs struct {
	g      *Graph
	values []float64
	state  []slotState
}

// NewCosts returns a table with every slot unset.
func NewCosts(g *Graph) *Costs {
	return &Costs{
		g:      g,
		values: make([]float64, g.NodeCount()),
		state:  make([]slotState, g.NodeCount()),
	}
}

// Get returns the computed cost of a node, or false if the node is unknown
// or its slot has not been populated.
func (c *Costs) Get(id string) (float64, bool) {
	i, ok := c.g.index[id]
	if !ok || i >= len(c.state) || c.state[i] != slotDone {
		return 0, false
	}
	return c.values[i], true
}

// Len returns the number of populated slots.
func (c *Costs) Len() int {
	n := 0
	for _, s := range c.state {
		if s == slotDone {
			n++
		}
	}
	return n
}

// Map returns the populated slots keyed by node ID.
func (c *Costs) Map() map[string]float64 {
	out := make(map[string]float64, c.Len())
	for i, s := range c.state {
		if s == slotDone {
			out[c.g.nodes[i].ID] = c.values[i]
		}
	}
	return out
}

// Annotate writes every populated cost into the owning node's metadata under
// key (DefaultCostKey if key is empty). Unpopulated nodes get their key
// removed. Annotate mutates the graph and must not run concurrently with
// other users of it.
func (c *Costs) Annotate(key string) {
	if key == "" {
		key = DefaultCostKey
	}
	for i, n := range c.g.nodes {
		if i < len(c.state) && c.state[i] == slotDone {
			n.Meta[key] = c.values[i]
		} else {
			delete(n.Meta, key)
		}
	}
}

func (c *Costs) reset() {
	clear(c.values)
	clear(c.state)
}

// Option configures cost propagation.
type Option func(*options)

type options struct {
	memo      bool
	maxDepth  int
	maxVisits int
	costKey   string
}

func defaultOptions() options {
	return options{memo: true}
}

// WithMemo enables or disables reuse of already computed slots within a run.
// It is enabled by default. Disabling it recomputes shared nodes on every
// visit, which gives the same results and can be exponentially slower.
func WithMemo(enabled bool) Option {
	return func(o *options) { o.memo = enabled }
}

// WithMaxDepth bounds the recursion depth measured in edges from the start
// node. Zero or a negative value means unbounded.
func WithMaxDepth(depth int) Option {
	return func(o *options) { o.maxDepth = depth }
}

// WithMaxVisits bounds the work of a run. Every node evaluation by the
// propagator and every node appended to a solution by [Search] counts as one
// step; the run fails with ErrLimitExceeded once it takes more than n steps.
// Shared subgraphs can make both grow exponentially in the graph size
// (evaluations without memoisation, solutions under AND nodes). Zero or a
// negative value means unbounded.
func WithMaxVisits(n int) Option {
	return func(o *options) { o.maxVisits = n }
}

// WithCostKey makes [Search] publish the computed costs onto node metadata
// under key once the run succeeds. See [Costs.Annotate].
func WithCostKey(key string) Option {
	return func(o *options) { o.costKey = key }
}

// Propagator computes minimum solution costs bottom-up and records them in
// its cost table.
//
// A Propagator is not safe for concurrent use. Use one per goroutine; they
// may share the same read-only Graph.
type Propagator struct {
	g      *Graph
	costs  *Costs
	opts   options
	visits int
	ctx    context.Context
}

// NewPropagator creates a propagator with a fresh cost table for g.
func NewPropagator(g *Graph, opts ...Option) *Propagator {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Propagator{g: g, costs: NewCosts(g), opts: o, ctx: context.Background()}
}

// Costs returns the propagator's cost table.
func (p *Propagator) Costs() *Costs { return p.costs }

// Visits returns how many node evaluations have been performed, counting
// repeated evaluations of shared nodes when memoisation is off.
func (p *Propagator) Visits() int { return p.visits }

// Reset clears every cost slot and the visit counter.
func (p *Propagator) Reset() {
	p.costs.reset()
	p.visits = 0
}

// ComputeCost returns the minimum cost of solving the node with the given
// ID. A leaf costs 0, an AND node costs the sum of its children and an OR
// node the minimum over its children. Every evaluated node's slot is
// populated as a side effect.
//
// Errors wrap ErrNodeNotFound, ErrCycleDetected, ErrDepthExceeded or
// ErrLimitExceeded. On error the whole cost table is cleared so no partial
// result survives.
func (p *Propagator) ComputeCost(id string) (float64, error) {
	return p.ComputeCostContext(context.Background(), id)
}

// ComputeCostContext is like [Propagator.ComputeCost] but stops with the
// context's error once ctx is done. The context is polled every few thousand
// evaluations, not on each one.
func (p *Propagator) ComputeCostContext(ctx context.Context, id string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	p.ctx = ctx
	defer func() { p.ctx = context.Background() }()

	i, ok := p.g.index[id]
	if !ok || i >= len(p.costs.state) {
		return 0, fmt.Errorf("node %q: %w", id, ErrNodeNotFound)
	}
	cost, err := p.compute(i, 0)
	if err != nil {
		p.costs.reset()
		return 0, err
	}
	return cost, nil
}

func (p *Propagator) compute(i, depth int) (float64, error) {
	// nodes added after the table was allocated have no slot
	if i >= len(p.costs.state) {
		return 0, fmt.Errorf("node %q: %w", p.g.nodes[i].ID, ErrNodeNotFound)
	}
	if p.opts.maxDepth > 0 && depth > p.opts.maxDepth {
		return 0, fmt.Errorf("node %q: %w (%d)", p.g.nodes[i].ID, ErrDepthExceeded, p.opts.maxDepth)
	}
	switch p.costs.state[i] {
	case slotVisiting:
		return 0, fmt.Errorf("node %q: %w", p.g.nodes[i].ID, ErrCycleDetected)
	case slotDone:
		if p.opts.memo {
			return p.costs.values[i], nil
		}
	}
	if err := p.step(i); err != nil {
		return 0, err
	}

	children := p.g.outgoing[i]
	if len(children) == 0 {
		p.costs.values[i] = 0
		p.costs.state[i] = slotDone
		return 0, nil
	}

	p.costs.state[i] = slotVisiting
	and := p.g.nodes[i].Type == AND
	var sum, best float64
	found := false
	for _, c := range children {
		v, err := p.compute(c, depth+1)
		if err != nil {
			return 0, err
		}
		if and {
			sum += v
		} else if !found || v < best {
			best, found = v, true
		}
	}

	cost := best
	if and {
		cost = sum
	}
	p.costs.values[i] = cost
	p.costs.state[i] = slotDone
	return cost, nil
}

// step counts one evaluation of node i against the work budget.
func (p *Propagator) step(i int) error {
	p.visits++
	if p.opts.maxVisits > 0 && p.visits > p.opts.maxVisits {
		return fmt.Errorf("node %q: %w (%d)", p.g.nodes[i].ID, ErrLimitExceeded, p.opts.maxVisits)
	}
	if p.visits%cancelCheckInterval == 0 {
		if err := p.ctx.Err(); err != nil {
			return fmt.Errorf("node %q: %w", p.g.nodes[i].ID, err)
		}
	}
	return nil
}

// ComputeCost is a convenience wrapper that runs a fresh Propagator from id
// and returns the cost together with the populated table.
func ComputeCost(g *Graph, id string, opts ...Option) (float64, *Costs, error) {
	p := NewPropagator(g, opts...)
	cost, err := p.ComputeCost(id)
	if err != nil {
		return 0, nil, err
	}
	return cost, p.Costs(), nil
}
