package andor

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrInvalidNodeType is returned by [Graph.AddNode] and [ParseNodeType]
	// when a node type is neither AND nor OR.
	ErrInvalidNodeType = errors.New("node type must be AND or OR")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrNodeNotFound is returned when a start node or a referenced node is
	// not part of the graph.
	ErrNodeNotFound = errors.New("node not found")

	// ErrCycleDetected is returned when a node is reached again while its own
	// cost is still being computed, or by [Graph.Validate] when the graph is
	// not acyclic. The wrapping error names the node that closes the cycle.
	ErrCycleDetected = errors.New("cycle detected")
)

// Metadata stores arbitrary key-value pairs attached to nodes or the graph.
// Metadata maps are never nil after a node has been added.
type Metadata map[string]any

// NodeType tells how a node combines the costs of its children.
// The zero value is invalid so that every node must declare its type.
type NodeType int

const (
	// AND nodes are solved only when all children are solved.
	AND NodeType = iota + 1
	// OR nodes are solved when any one child is solved.
	OR
)

// String returns "AND" or "OR".
func (t NodeType) String() string {
	switch t {
	case AND:
		return "AND"
	case OR:
		return "OR"
	}
	return fmt.Sprintf("NodeType(%d)", int(t))
}

// Valid reports whether t is AND or OR.
func (t NodeType) Valid() bool { return t == AND || t == OR }

// ParseNodeType converts "AND" or "OR" (case-insensitive, surrounding
// whitespace ignored) to a NodeType. Anything else returns ErrInvalidNodeType.
func ParseNodeType(s string) (NodeType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AND":
		return AND, nil
	case "OR":
		return OR, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidNodeType, s)
}

// MarshalText implements encoding.TextMarshaler.
func (t NodeType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, ErrInvalidNodeType
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *NodeType) UnmarshalText(b []byte) error {
	v, err := ParseNodeType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Node is a vertex of an AND/OR graph.
//
// The zero value is not usable: ID and Type must be set before adding the
// node to a Graph.
type Node struct {
	ID   string   // Unique identifier
	Type NodeType // AND or OR
	Meta Metadata // Arbitrary key-value metadata (never nil after AddNode)
}

// IsAND reports whether the node is an AND node.
func (n Node) IsAND() bool { return n.Type == AND }

// Edge is a directed parent -> child connection. Edges carry no cost.
type Edge struct {
	From string
	To   string
}

// Graph is an explicit AND/OR graph stored as an index-addressed arena.
//
// Nodes keep their insertion order and each node's children keep the order
// in which their edges were added. That order is the stable child order used
// by cost propagation and solution extraction.
//
// The zero value is not usable - use New. Graph is not safe for concurrent
// mutation, but concurrent read-only use (for example several Search calls)
// is safe because searches keep their cost state outside the graph.
type Graph struct {
	nodes    []*Node
	index    map[string]int
	edges    []Edge
	outgoing [][]int
	incoming [][]int
	meta     Metadata
}

// New creates an empty graph with optional graph-level metadata.
func New(meta Metadata) *Graph {
	if meta == nil {
		meta = Metadata{}
	}
	return &Graph{
		index: make(map[string]int),
		meta:  meta,
	}
}

// Meta returns the graph-level metadata map.
func (g *Graph) Meta() Metadata { return g.meta }

// AddNode adds a node to the graph. It returns ErrInvalidNodeID for an empty
// ID, ErrInvalidNodeType if the type is not AND or OR, and
// ErrDuplicateNodeID if the ID is already in use.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if !n.Type.Valid() {
		return ErrInvalidNodeType
	}
	if _, exists := g.index[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	node := &n
	g.index[node.ID] = len(g.nodes)
	g.nodes = append(g.nodes, node)
	g.outgoing = append(g.outgoing, nil)
	g.incoming = append(g.incoming, nil)
	return nil
}

// AddEdge adds a directed edge between two existing nodes.
// AddEdge does not check for cycles; use Validate, or rely on Search which
// fails with ErrCycleDetected when it runs into one.
func (g *Graph) AddEdge(e Edge) error {
	from, ok := g.index[e.From]
	if !ok {
		return ErrUnknownSourceNode
	}
	to, ok := g.index[e.To]
	if !ok {
		return ErrUnknownTargetNode
	}
	g.edges = append(g.edges, e)
	g.outgoing[from] = append(g.outgoing[from], to)
	g.incoming[to] = append(g.incoming[to], from)
	return nil
}

// Node returns the node with the given ID and true, or nil and false.
// The returned pointer refers to the node stored in the graph.
func (g *Graph) Node(id string) (*Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return g.nodes[i], true
}

// Has reports whether a node with the given ID exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Type returns the node's declared type, or 0 if the node does not exist.
func (g *Graph) Type(id string) NodeType {
	if n, ok := g.Node(id); ok {
		return n.Type
	}
	return 0
}

// Children returns the IDs of the node's children in their stable order.
// Returns nil if the node has no children or doesn't exist.
func (g *Graph) Children(id string) []string {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	return g.ids(g.outgoing[i])
}

// Parents returns the IDs of nodes that have edges to this node.
func (g *Graph) Parents(id string) []string {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	return g.ids(g.incoming[i])
}

func (g *Graph) ids(idx []int) []string {
	if len(idx) == 0 {
		return nil
	}
	out := make([]string, len(idx))
	for k, i := range idx {
		out[k] = g.nodes[i].ID
	}
	return out
}

// IsLeaf reports whether the node has no children.
func (g *Graph) IsLeaf(id string) bool {
	i, ok := g.index[id]
	return ok && len(g.outgoing[i]) == 0
}

// Nodes returns all nodes in insertion order. The pointers refer to the
// nodes stored in the graph.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodes) }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Sources returns nodes with no incoming edges, in insertion order.
func (g *Graph) Sources() []*Node {
	var out []*Node
	for i, n := range g.nodes {
		if len(g.incoming[i]) == 0 {
			out = append(out, n)
		}
	}
	return out
}

// Sinks returns nodes with no outgoing edges (leaves), in insertion order.
func (g *Graph) Sinks() []*Node {
	var out []*Node
	for i, n := range g.nodes {
		if len(g.outgoing[i]) == 0 {
			out = append(out, n)
		}
	}
	return out
}

// Clone returns a deep copy of the graph structure. Metadata maps are copied
// one level deep.
func (g *Graph) Clone() *Graph {
	c := New(cloneMeta(g.meta))
	for _, n := range g.nodes {
		_ = c.AddNode(Node{ID: n.ID, Type: n.Type, Meta: cloneMeta(n.Meta)})
	}
	for _, e := range g.edges {
		_ = c.AddEdge(e)
	}
	return c
}

func cloneMeta(m Metadata) Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Validate checks that the whole graph is acyclic. It returns an error
// wrapping ErrCycleDetected that names the node where a cycle closes.
//
// Cycle detection runs in O(N+E) using depth-first search with
// white/gray/black coloring.
func (g *Graph) Validate() error {
	const (
		white = iota
		gray
		black
	)

	color := make([]int, len(g.nodes))
	var cycleAt = -1

	var dfs func(i int)
	dfs = func(i int) {
		color[i] = gray
		for _, c := range g.outgoing[i] {
			switch color[c] {
			case white:
				dfs(c)
				if cycleAt >= 0 {
					return
				}
			case gray:
				cycleAt = c
				return
			}
		}
		color[i] = black
	}

	for i := range g.nodes {
		if color[i] == white {
			dfs(i)
			if cycleAt >= 0 {
				return fmt.Errorf("node %q: %w", g.nodes[cycleAt].ID, ErrCycleDetected)
			}
		}
	}
	return nil
}
