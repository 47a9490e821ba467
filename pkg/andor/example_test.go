package andor_test

import (
	"errors"
	"fmt"

	"github.com/matzehuels/aostar/pkg/andor"
)

func ExampleSearch() {
	// A(OR) chooses between B(AND) -> D and the leaf C.
	g := andor.New(nil)
	_ = g.AddNode(andor.Node{ID: "A", Type: andor.OR})
	_ = g.AddNode(andor.Node{ID: "B", Type: andor.AND})
	_ = g.AddNode(andor.Node{ID: "C", Type: andor.OR})
	_ = g.AddNode(andor.Node{ID: "D", Type: andor.AND})
	_ = g.AddEdge(andor.Edge{From: "A", To: "B"})
	_ = g.AddEdge(andor.Edge{From: "A", To: "C"})
	_ = g.AddEdge(andor.Edge{From: "B", To: "D"})

	res, err := andor.Search(g, "A")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("Best cost:", res.BestCost)
	fmt.Println("Solution path:", res.Solution)
	// Output:
	// Best cost: 0
	// Solution path: [A B D]
}

func ExamplePropagator_ComputeCost() {
	g := andor.New(nil)
	_ = g.AddNode(andor.Node{ID: "build", Type: andor.AND})
	_ = g.AddNode(andor.Node{ID: "compile", Type: andor.OR})
	_ = g.AddNode(andor.Node{ID: "link", Type: andor.OR})
	_ = g.AddEdge(andor.Edge{From: "build", To: "compile"})
	_ = g.AddEdge(andor.Edge{From: "build", To: "link"})

	p := andor.NewPropagator(g)
	cost, _ := p.ComputeCost("build")
	fmt.Println("build:", cost)
	fmt.Println("populated:", p.Costs().Len())
	// Output:
	// build: 0
	// populated: 3
}

func ExampleSearch_cycle() {
	g := andor.New(nil)
	_ = g.AddNode(andor.Node{ID: "a", Type: andor.OR})
	_ = g.AddNode(andor.Node{ID: "b", Type: andor.AND})
	_ = g.AddEdge(andor.Edge{From: "a", To: "b"})
	_ = g.AddEdge(andor.Edge{From: "b", To: "a"})

	_, err := andor.Search(g, "a")
	fmt.Println(err)
	fmt.Println(errors.Is(err, andor.ErrCycleDetected))
	// Output:
	// node "a": cycle detected
	// true
}
