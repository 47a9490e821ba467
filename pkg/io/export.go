package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/aostar/pkg/andor"
)

func fromGraph(g *andor.Graph) graph {
	out := graph{
		Start: Start(g),
		Nodes: make([]node, 0, g.NodeCount()),
		Edges: make([]edge, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		nd := node{ID: n.ID, Type: n.Type.String()}
		if len(n.Meta) > 0 {
			nd.Meta = n.Meta
		}
		out.Nodes = append(out.Nodes, nd)
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, edge{From: e.From, To: e.To})
	}
	return out
}

// Write encodes g in the given format. Every node is written with an
// explicit type, so the output reads back identically with [Read].
func Write(g *andor.Graph, w io.Writer, format Format) error {
	out := fromGraph(g)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(out); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return nil
}

// WriteJSON encodes g as indented JSON.
func WriteJSON(g *andor.Graph, w io.Writer) error { return Write(g, w, FormatJSON) }

// Export writes g to path, choosing the encoder from the file extension.
func Export(g *andor.Graph, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	return ExportFormat(g, path, format)
}

// ExportFormat writes g to path in the given format.
func ExportFormat(g *andor.Graph, path string, format Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(g, f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
