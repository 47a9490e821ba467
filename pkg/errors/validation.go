package errors

import (
	"unicode"

	"github.com/matzehuels/aostar/pkg/andor"
)

// MaxNodeIDLength bounds node identifiers accepted from untrusted input.
const MaxNodeIDLength = 256

// ValidateNodeID validates a node identifier received from a request or
// command line. It rejects empty IDs, overly long IDs and IDs containing
// control characters.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}

	if len(id) > MaxNodeIDLength {
		return New(ErrCodeInvalidInput, "node id too long (max %d characters)", MaxNodeIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node id contains invalid control characters")
		}
	}

	return nil
}

// ValidateGraphSize rejects graphs with more than maxNodes nodes or more than
// maxEdges edges. A limit of zero or less disables that check.
func ValidateGraphSize(g *andor.Graph, maxNodes, maxEdges int) error {
	if maxNodes > 0 && g.NodeCount() > maxNodes {
		return New(ErrCodeInvalidGraph, "graph has %d nodes (max %d)", g.NodeCount(), maxNodes)
	}
	if maxEdges > 0 && g.EdgeCount() > maxEdges {
		return New(ErrCodeInvalidGraph, "graph has %d edges (max %d)", g.EdgeCount(), maxEdges)
	}
	return nil
}
