// Package io reads and writes AND/OR graphs as JSON, TOML or YAML documents.
//
// # Format
//
// All three encodings share one shape: an optional start node, a list of
// nodes and a list of edges. In JSON:
//
//	{
//	  "start": "A",
//	  "nodes": [
//	    {"id": "A", "type": "OR"},
//	    {"id": "B", "type": "AND"},
//	    {"id": "C"},
//	    {"id": "D", "type": "AND"}
//	  ],
//	  "edges": [
//	    {"from": "A", "to": "B"},
//	    {"from": "A", "to": "C"},
//	    {"from": "B", "to": "D"}
//	  ]
//	}
//
// The same graph in TOML uses arrays of tables:
//
//	start = "A"
//
//	[[nodes]]
//	id = "A"
//	type = "OR"
//
//	[[edges]]
//	from = "A"
//	to = "B"
//
// # Node Fields
//
//   - id: unique, non-empty identifier (required)
//   - type: "AND" or "OR", case-insensitive. A node without a type is an OR
//     node; any other value is rejected with [andor.ErrInvalidNodeType].
//   - meta: freeform object copied into the node's metadata
//
// Edge order matters: a node's children keep the order in which their edges
// appear, and that order decides ties between equally cheap OR children.
//
// # Start Node
//
// The optional start field is stored in the graph metadata under [StartKey]
// and can be read back with [Start].
package io
