package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/aostar/pkg/andor"
)

// Format identifies a graph document encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// StartKey is the graph metadata key holding the document's start node.
const StartKey = "start"

// ErrUnknownFormat is returned when a format name or file extension is not
// one of json, toml, yaml or yml.
var ErrUnknownFormat = errors.New("unknown graph format")

type graph struct {
	Start string `json:"start,omitempty" toml:"start,omitempty" yaml:"start,omitempty"`
	Nodes []node `json:"nodes" toml:"nodes" yaml:"nodes"`
	Edges []edge `json:"edges" toml:"edges" yaml:"edges"`
}

type node struct {
	ID   string         `json:"id" toml:"id" yaml:"id"`
	Type string         `json:"type,omitempty" toml:"type,omitempty" yaml:"type,omitempty"`
	Meta andor.Metadata `json:"meta,omitempty" toml:"meta,omitempty" yaml:"meta,omitempty"`
}

type edge struct {
	From string `json:"from" toml:"from" yaml:"from"`
	To   string `json:"to" toml:"to" yaml:"to"`
}

// ParseFormat converts a format name ("json", "toml", "yaml" or "yml") to a
// Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatFromPath infers the format from the file extension of path.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Read decodes a graph document in the given format from r.
//
// Read returns an error if the document is malformed, if a node has an
// empty or duplicate ID or an unrecognised type, or if an edge references an
// unknown node. Errors name the node or edge at fault and wrap the andor
// sentinel errors. Read does not check for cycles; searches report those.
func Read(r io.Reader, format Format) (*andor.Graph, error) {
	var data graph
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&data); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&data); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&data); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return data.build()
}

func (data graph) build() (*andor.Graph, error) {
	meta := andor.Metadata{}
	if data.Start != "" {
		meta[StartKey] = data.Start
	}
	g := andor.New(meta)
	for _, n := range data.Nodes {
		typ := andor.OR
		if n.Type != "" {
			t, err := andor.ParseNodeType(n.Type)
			if err != nil {
				return nil, fmt.Errorf("node %s: %w", n.ID, err)
			}
			typ = t
		}
		if err := g.AddNode(andor.Node{ID: n.ID, Type: typ, Meta: n.Meta}); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range data.Edges {
		if err := g.AddEdge(andor.Edge{From: e.From, To: e.To}); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}
	if data.Start != "" && !g.Has(data.Start) {
		return nil, fmt.Errorf("start %s: %w", data.Start, andor.ErrNodeNotFound)
	}
	return g, nil
}

// ReadJSON decodes a JSON graph document from r.
func ReadJSON(r io.Reader) (*andor.Graph, error) { return Read(r, FormatJSON) }

// Import reads the graph file at path, choosing the decoder from the file
// extension.
func Import(path string) (*andor.Graph, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	return ImportFormat(path, format)
}

// ImportFormat reads the graph file at path using the given format,
// regardless of its extension.
func ImportFormat(path string, format Format) (*andor.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, format)
}

// Start returns the start node recorded in the graph metadata, or "".
func Start(g *andor.Graph) string {
	s, _ := g.Meta()[StartKey].(string)
	return s
}
