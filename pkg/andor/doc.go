// Package andor computes minimum-cost solutions over explicit AND/OR graphs.
//
// # Overview
//
// An AND/OR graph is a rooted, acyclic decomposition graph. An OR node is
// solved by solving any one of its children; an AND node requires all of
// them. A node without children is a leaf and costs 0. The cost of an AND
// node is the sum of its children's costs, the cost of an OR node is the
// minimum over its children.
//
// # Basic Usage
//
// Build a graph with [New], [Graph.AddNode] and [Graph.AddEdge], then call
// [Search]:
//
//	g := andor.New(nil)
//	_ = g.AddNode(andor.Node{ID: "A", Type: andor.OR})
//	_ = g.AddNode(andor.Node{ID: "B", Type: andor.AND})
//	_ = g.AddNode(andor.Node{ID: "C", Type: andor.OR})
//	_ = g.AddNode(andor.Node{ID: "D", Type: andor.AND})
//	_ = g.AddEdge(andor.Edge{From: "A", To: "B"})
//	_ = g.AddEdge(andor.Edge{From: "A", To: "C"})
//	_ = g.AddEdge(andor.Edge{From: "B", To: "D"})
//
//	res, err := andor.Search(g, "A")
//	// res.BestCost == 0, res.Solution == [A B D]
//
// # Two Passes
//
// [Propagator.ComputeCost] runs a depth-first, post-order pass and records
// each node's cost in a [Costs] table. [ExtractSolution] then walks the same
// graph top-down: all children of an AND node are part of the solution, and
// an OR node keeps the first child (in child order) with the smallest cost.
//
// Children are kept in the order their edges were added, which makes the
// tie-break deterministic.
//
// # Errors
//
// Cycles reachable from the start node are reported as [ErrCycleDetected]
// instead of recursing forever. Unknown nodes give [ErrNodeNotFound], and
// extracting from a table that does not cover a node gives
// [ErrCostNotComputed]. All errors name the offending node and can be tested
// with errors.Is.
//
// Nodes shared below AND nodes are listed once per branch, so a solution can
// grow exponentially in the size of the graph. [WithMaxVisits] bounds the
// work of a search ([ErrLimitExceeded]) and [SearchContext] stops it when
// its context is done.
//
// # Concurrency
//
// Cost state lives in per-run [Costs] tables, not in the graph. Concurrent
// searches over the same unmodified Graph are safe. [Costs.Annotate] and
// [WithCostKey] write into node metadata and are not.
package andor
