package andor

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
)

func TestSearchDemo(t *testing.T) {
	g := demoGraph(t)
	res, err := Search(g, "A")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if res.BestCost != 0 {
		t.Errorf("BestCost = %v, want 0", res.BestCost)
	}
	if !slices.Equal(res.Solution, []string{"A", "B", "D"}) {
		t.Errorf("Solution = %v, want [A B D]", res.Solution)
	}
	if !slices.Equal(res.Edges, []Edge{{"A", "B"}, {"B", "D"}}) {
		t.Errorf("Edges = %v, want [{A B} {B D}]", res.Edges)
	}
	if res.Start != "A" {
		t.Errorf("Start = %q, want A", res.Start)
	}
	if c, ok := res.Costs.Get("A"); !ok || c != res.BestCost {
		t.Errorf("Costs.Get(A) = %v, %v; want BestCost", c, ok)
	}
}

func TestSearchSingleNode(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: "only", Type: AND})

	res, err := Search(g, "only")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if res.BestCost != 0 || !slices.Equal(res.Solution, []string{"only"}) {
		t.Errorf("Search() = (%v, %v), want (0, [only])", res.BestCost, res.Solution)
	}
}

func TestSearchIdempotent(t *testing.T) {
	g := diamondChain(4, OR)
	first, err := Search(g, "n0")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Search(g, "n0")
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if again.BestCost != first.BestCost || !slices.Equal(again.Solution, first.Solution) {
			t.Errorf("run %d = (%v, %v), want (%v, %v)", i, again.BestCost, again.Solution, first.BestCost, first.Solution)
		}
	}
}

func TestSearchSolutionProperties(t *testing.T) {
	g := diamondChain(3, AND)
	_ = g.AddNode(Node{ID: "top", Type: OR})
	_ = g.AddNode(Node{ID: "alt", Type: OR})
	_ = g.AddEdge(Edge{From: "top", To: "n0"})
	_ = g.AddEdge(Edge{From: "top", To: "alt"})

	res, err := Search(g, "top")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if res.BestCost < 0 {
		t.Errorf("BestCost = %v, want >= 0", res.BestCost)
	}
	if res.Solution[0] != "top" {
		t.Errorf("Solution starts with %q, want top", res.Solution[0])
	}

	in := make(map[string]bool)
	for _, id := range res.Solution {
		in[id] = true
	}
	for _, id := range res.Solution {
		children := g.Children(id)
		if len(children) == 0 {
			continue
		}
		nodeCost, _ := res.Costs.Get(id)
		if g.Type(id) == AND {
			var sum float64
			for _, c := range children {
				if !in[c] {
					t.Errorf("AND child %s of %s missing from solution", c, id)
				}
				v, _ := res.Costs.Get(c)
				sum += v
			}
			if sum != nodeCost {
				t.Errorf("cost(%s) = %v, want sum %v", id, nodeCost, sum)
			}
			continue
		}
		chosen := 0
		for _, c := range children {
			if in[c] {
				chosen++
				if v, _ := res.Costs.Get(c); v != nodeCost {
					t.Errorf("chosen child %s cost %v != cost(%s) %v", c, v, id, nodeCost)
				}
			}
		}
		if chosen != 1 {
			t.Errorf("OR node %s has %d chosen children, want 1", id, chosen)
		}
	}
}

func TestSearchErrors(t *testing.T) {
	g := demoGraph(t)
	if _, err := Search(g, "missing"); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("Search(missing) error = %v, want %v", err, ErrNodeNotFound)
	}

	_ = g.AddEdge(Edge{From: "D", To: "B"})
	res, err := Search(g, "A")
	if !errors.Is(err, ErrCycleDetected) {
		t.Errorf("Search() error = %v, want %v", err, ErrCycleDetected)
	}
	if res.Solution != nil || res.Costs != nil {
		t.Error("Search() should not return partial results")
	}
}

func TestSearchWithCostKey(t *testing.T) {
	g := demoGraph(t)
	if _, err := Search(g, "B", WithCostKey("h")); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	for id, want := range map[string]bool{"B": true, "D": true, "A": false, "C": false} {
		n, _ := g.Node(id)
		if _, ok := n.Meta["h"]; ok != want {
			t.Errorf("%s annotated = %v, want %v", id, ok, want)
		}
	}

	// plain searches leave metadata untouched
	g2 := demoGraph(t)
	_, _ = Search(g2, "A")
	for _, n := range g2.Nodes() {
		if len(n.Meta) != 0 {
			t.Errorf("%s Meta = %v, want empty", n.ID, n.Meta)
		}
	}
}

func TestSearchConcurrent(t *testing.T) {
	g := diamondChain(6, OR)
	want, err := Search(g, "n0")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := Search(g, "n0")
			if err != nil {
				errs <- err
				return
			}
			if !slices.Equal(res.Solution, want.Solution) {
				errs <- errors.New("solution mismatch")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestSearchMaxVisits(t *testing.T) {
	// every layer doubles the AND solution: 2^(k+2)-3 nodes
	g := diamondChain(20, AND)

	res, err := Search(g, "n0", WithMaxVisits(10_000))
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("Search() error = %v, want %v", err, ErrLimitExceeded)
	}
	if res.Solution != nil || res.Costs != nil {
		t.Error("Search() should not return partial results")
	}

	// without memoisation the propagator hits the bound first
	p := NewPropagator(g, WithMemo(false), WithMaxVisits(500))
	if _, err := p.ComputeCost("n0"); !errors.Is(err, ErrLimitExceeded) {
		t.Errorf("ComputeCost() error = %v, want %v", err, ErrLimitExceeded)
	}
	if p.Costs().Len() != 0 {
		t.Error("ComputeCost() should clear the table on error")
	}

	// the budget covers both passes: 10 evaluations + 29 solution nodes
	small := diamondChain(3, AND)
	if _, err := Search(small, "n0", WithMaxVisits(39)); err != nil {
		t.Errorf("Search() within budget error = %v", err)
	}
	if _, err := Search(small, "n0", WithMaxVisits(38)); !errors.Is(err, ErrLimitExceeded) {
		t.Errorf("Search() over budget error = %v, want %v", err, ErrLimitExceeded)
	}
	if _, err := Search(small, "n0", WithMaxVisits(0)); err != nil {
		t.Errorf("Search() unbounded error = %v", err)
	}
}

func TestSearchContextCancel(t *testing.T) {
	g := diamondChain(20, AND)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := SearchContext(ctx, g, "n0"); !errors.Is(err, context.Canceled) {
		t.Errorf("SearchContext() error = %v, want %v", err, context.Canceled)
	}

	// cancellation is noticed while the extractor is running
	ctx, cancel = context.WithCancel(context.Background())
	p := NewPropagator(g)
	if _, err := p.ComputeCost("n0"); err != nil {
		t.Fatal(err)
	}
	cancel()
	if _, err := extract(ctx, g, p.Costs(), "n0", 0, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("extract() error = %v, want %v", err, context.Canceled)
	}
}
