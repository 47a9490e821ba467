package andor

import (
	"context"
	"errors"
	"fmt"
)

// ErrCostNotComputed is returned by [ExtractSolution] when it reaches a node
// whose cost slot was never populated by a propagation run.
var ErrCostNotComputed = errors.New("cost not computed")

// ExtractSolution walks from start and returns, in preorder, the nodes of
// one minimum-cost solution: the node itself, then every child subtree of an
// AND node in child order, or the single cheapest child subtree of an OR
// node. Among OR children with equal cost the first in child order wins.
//
// costs must come from a propagation run over g that covered start.
// Nodes shared by several chosen AND branches are listed once per branch.
func ExtractSolution(g *Graph, costs *Costs, start string) ([]string, error) {
	e, err := extract(context.Background(), g, costs, start, 0, 0)
	if err != nil {
		return nil, err
	}
	return e.out, nil
}

// extract walks the solution from start. Each appended node is one work
// step; used steps are already spent and limit bounds the total (0 means
// unbounded).
func extract(ctx context.Context, g *Graph, costs *Costs, start string, used, limit int) (*extractor, error) {
	i, ok := g.index[start]
	if !ok {
		return nil, fmt.Errorf("node %q: %w", start, ErrNodeNotFound)
	}
	if costs == nil || costs.g != g {
		return nil, fmt.Errorf("node %q: %w", start, ErrCostNotComputed)
	}

	e := extractor{
		ctx:    ctx,
		g:      g,
		costs:  costs,
		onPath: make([]bool, g.NodeCount()),
		steps:  used,
		limit:  limit,
	}
	if err := e.walk(i); err != nil {
		return nil, err
	}
	return &e, nil
}

type extractor struct {
	ctx    context.Context
	steps  int
	limit  int
	g      *Graph
	costs  *Costs
	onPath []bool
	out    []string
	edges  []Edge
}

func (e *extractor) cost(i int) (float64, error) {
	if i >= len(e.costs.state) || e.costs.state[i] != slotDone {
		return 0, fmt.Errorf("node %q: %w", e.g.nodes[i].ID, ErrCostNotComputed)
	}
	return e.costs.values[i], nil
}

func (e *extractor) step(i int) error {
	e.steps++
	if e.limit > 0 && e.steps > e.limit {
		return fmt.Errorf("node %q: %w (%d)", e.g.nodes[i].ID, ErrLimitExceeded, e.limit)
	}
	if e.steps%cancelCheckInterval == 0 {
		if err := e.ctx.Err(); err != nil {
			return fmt.Errorf("node %q: %w", e.g.nodes[i].ID, err)
		}
	}
	return nil
}

func (e *extractor) walk(i int) error {
	if _, err := e.cost(i); err != nil {
		return err
	}
	// edges added after propagation can close a cycle
	if e.onPath[i] {
		return fmt.Errorf("node %q: %w", e.g.nodes[i].ID, ErrCycleDetected)
	}
	if err := e.step(i); err != nil {
		return err
	}
	e.out = append(e.out, e.g.nodes[i].ID)

	children := e.g.outgoing[i]
	if len(children) == 0 {
		return nil
	}

	e.onPath[i] = true
	defer func() { e.onPath[i] = false }()

	if e.g.nodes[i].Type == AND {
		for _, c := range children {
			e.edges = append(e.edges, Edge{From: e.g.nodes[i].ID, To: e.g.nodes[c].ID})
			if err := e.walk(c); err != nil {
				return err
			}
		}
		return nil
	}

	best := -1
	var bestCost float64
	for _, c := range children {
		v, err := e.cost(c)
		if err != nil {
			return err
		}
		if best < 0 || v < bestCost {
			best, bestCost = c, v
		}
	}
	e.edges = append(e.edges, Edge{From: e.g.nodes[i].ID, To: e.g.nodes[best].ID})
	return e.walk(best)
}
