package io

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/aostar/pkg/andor"
)

const demoJSON = `{
  "start": "A",
  "nodes": [
    {"id": "A", "type": "OR"},
    {"id": "B", "type": "AND"},
    {"id": "C"},
    {"id": "D", "type": "and", "meta": {"label": "leaf"}}
  ],
  "edges": [
    {"from": "A", "to": "B"},
    {"from": "A", "to": "C"},
    {"from": "B", "to": "D"}
  ]
}`

const demoTOML = `start = "A"

[[nodes]]
id = "A"
type = "OR"

[[nodes]]
id = "B"
type = "AND"

[[nodes]]
id = "C"

[[nodes]]
id = "D"
type = "AND"

[nodes.meta]
label = "leaf"

[[edges]]
from = "A"
to = "B"

[[edges]]
from = "A"
to = "C"

[[edges]]
from = "B"
to = "D"
`

const demoYAML = `start: A
nodes:
  - id: A
    type: OR
  - id: B
    type: AND
  - id: C
  - id: D
    type: AND
    meta:
      label: leaf
edges:
  - {from: A, to: B}
  - {from: A, to: C}
  - {from: B, to: D}
`

func checkDemo(t *testing.T, g *andor.Graph) {
	t.Helper()
	if g.NodeCount() != 4 || g.EdgeCount() != 3 {
		t.Fatalf("got %d nodes, %d edges; want 4, 3", g.NodeCount(), g.EdgeCount())
	}
	if Start(g) != "A" {
		t.Errorf("Start() = %q, want A", Start(g))
	}
	want := map[string]andor.NodeType{"A": andor.OR, "B": andor.AND, "C": andor.OR, "D": andor.AND}
	for id, typ := range want {
		if g.Type(id) != typ {
			t.Errorf("Type(%s) = %v, want %v", id, g.Type(id), typ)
		}
	}
	if got := g.Children("A"); !slices.Equal(got, []string{"B", "C"}) {
		t.Errorf("Children(A) = %v, want [B C]", got)
	}
	if d, _ := g.Node("D"); d.Meta["label"] != "leaf" {
		t.Errorf("D meta label = %v, want leaf", d.Meta["label"])
	}
}

func TestRead(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{"json", FormatJSON, demoJSON},
		{"toml", FormatTOML, demoTOML},
		{"yaml", FormatYAML, demoYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Read(strings.NewReader(tt.input), tt.format)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			checkDemo(t, g)

			res, err := andor.Search(g, Start(g))
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if !slices.Equal(res.Solution, []string{"A", "B", "D"}) {
				t.Errorf("Solution = %v, want [A B D]", res.Solution)
			}
		})
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		wantMsg string
	}{
		{
			name:    "misspelled type",
			input:   `{"nodes":[{"id":"a","type":"ANDD"}],"edges":[]}`,
			wantErr: andor.ErrInvalidNodeType,
			wantMsg: "node a",
		},
		{
			name:    "duplicate node",
			input:   `{"nodes":[{"id":"a"},{"id":"a"}],"edges":[]}`,
			wantErr: andor.ErrDuplicateNodeID,
		},
		{
			name:    "empty id",
			input:   `{"nodes":[{"id":""}],"edges":[]}`,
			wantErr: andor.ErrInvalidNodeID,
		},
		{
			name:    "dangling edge",
			input:   `{"nodes":[{"id":"a"}],"edges":[{"from":"a","to":"b"}]}`,
			wantErr: andor.ErrUnknownTargetNode,
			wantMsg: "edge a->b",
		},
		{
			name:    "unknown start",
			input:   `{"start":"z","nodes":[{"id":"a"}],"edges":[]}`,
			wantErr: andor.ErrNodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ReadJSON() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err, tt.wantMsg)
			}
		})
	}

	if _, err := ReadJSON(strings.NewReader("{")); err == nil {
		t.Error("ReadJSON() should fail on malformed input")
	}
	if _, err := Read(strings.NewReader(demoJSON), Format("xml")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Read(xml) error = %v, want %v", err, ErrUnknownFormat)
	}
}

func TestReadCycleIsAccepted(t *testing.T) {
	input := `{"nodes":[{"id":"a"},{"id":"b"}],"edges":[{"from":"a","to":"b"},{"from":"b","to":"a"}]}`
	g, err := ReadJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if err := g.Validate(); !errors.Is(err, andor.ErrCycleDetected) {
		t.Errorf("Validate() error = %v, want %v", err, andor.ErrCycleDetected)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatTOML, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			src, err := ReadJSON(strings.NewReader(demoJSON))
			if err != nil {
				t.Fatalf("ReadJSON() error = %v", err)
			}

			var buf bytes.Buffer
			if err := Write(src, &buf, format); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			g, err := Read(&buf, format)
			if err != nil {
				t.Fatalf("Read() error = %v\n%s", err, buf.String())
			}
			checkDemo(t, g)
		})
	}
}

func TestWriteJSONExplicitTypes(t *testing.T) {
	g, _ := ReadJSON(strings.NewReader(demoJSON))
	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"id": "C",`+"\n"+`      "type": "OR"`) {
		t.Errorf("untyped node C should be written as OR:\n%s", buf.String())
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"g.json":      FormatJSON,
		"dir/g.TOML":  FormatTOML,
		"g.yaml":      FormatYAML,
		"g.yml":       FormatYAML,
		"noextension": "",
		"g.xml":       "",
	}
	for path, want := range tests {
		got, err := FormatFromPath(path)
		if want == "" {
			if !errors.Is(err, ErrUnknownFormat) {
				t.Errorf("FormatFromPath(%q) error = %v, want %v", path, err, ErrUnknownFormat)
			}
			continue
		}
		if err != nil || got != want {
			t.Errorf("FormatFromPath(%q) = %q, %v; want %q", path, got, err, want)
		}
	}
}

func TestImportExport(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "graph.toml")
	if err := os.WriteFile(in, []byte(demoTOML), 0o644); err != nil {
		t.Fatal(err)
	}

	g, err := Import(in)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	checkDemo(t, g)

	out := filepath.Join(dir, "graph.yaml")
	if err := Export(g, out); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	back, err := Import(out)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	checkDemo(t, back)

	if _, err := Import(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Import() of missing file should fail")
	}
}

func TestImportFormatIgnoresExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.txt")
	if err := os.WriteFile(path, []byte(demoYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Import(path); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Import() error = %v, want %v", err, ErrUnknownFormat)
	}
	g, err := ImportFormat(path, FormatYAML)
	if err != nil {
		t.Fatalf("ImportFormat() error = %v", err)
	}
	checkDemo(t, g)
}

func TestExportFormat(t *testing.T) {
	g, err := Read(strings.NewReader(demoJSON), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "graph.out")
	if err := ExportFormat(g, path, FormatTOML); err != nil {
		t.Fatalf("ExportFormat() error = %v", err)
	}
	back, err := ImportFormat(path, FormatTOML)
	if err != nil {
		t.Fatalf("ImportFormat() error = %v", err)
	}
	checkDemo(t, back)
}

func TestExampleGraphs(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "graphs", "*"))
	if err != nil || len(paths) == 0 {
		t.Fatalf("no example graphs: %v", err)
	}

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			g, err := Import(path)
			if err != nil {
				t.Fatalf("Import() error = %v", err)
			}
			start := Start(g)
			if start == "" {
				t.Fatal("example graph has no start node")
			}

			_, err = andor.Search(g, start)
			cyclic := strings.HasPrefix(filepath.Base(path), "cyclic")
			if cyclic != errors.Is(err, andor.ErrCycleDetected) {
				t.Errorf("Search() error = %v, cyclic = %v", err, cyclic)
			}
			if !cyclic && err != nil {
				t.Errorf("Search() error = %v", err)
			}
		})
	}
}
