package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/aostar/pkg/andor"
	aoerrors "github.com/matzehuels/aostar/pkg/errors"
	"github.com/matzehuels/aostar/pkg/observability"
)

const demoJSON = `{
  "start": "A",
  "nodes": [
    {"id": "A", "type": "OR"},
    {"id": "B", "type": "AND"},
    {"id": "C", "type": "OR"},
    {"id": "D", "type": "AND"}
  ],
  "edges": [
    {"from": "A", "to": "B"},
    {"from": "A", "to": "C"},
    {"from": "B", "to": "D"}
  ]
}`

func writeDemo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.json")
	if err := os.WriteFile(path, []byte(demoJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsValidate(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateForLoad(); err == nil {
		t.Error("Missing graph and path should fail")
	}

	opts = Options{Path: "g.json"}
	if err := opts.ValidateForLoad(); err != nil {
		t.Errorf("Path only should pass: %v", err)
	}
	if opts.Logger == nil {
		t.Error("ValidateForLoad should set a default logger")
	}

	opts = Options{Path: "g.json", MaxDepth: -1}
	if err := opts.ValidateAll(); err == nil {
		t.Error("Negative max depth should fail")
	}

	opts = Options{Path: "g.json", MaxVisits: -1}
	if err := opts.ValidateAll(); !aoerrors.Is(err, aoerrors.ErrCodeInvalidInput) {
		t.Errorf("Negative max visits error = %v, want %s", err, aoerrors.ErrCodeInvalidInput)
	}

	opts = Options{Path: "g.json", Formats: []string{"gif"}}
	if err := opts.ValidateAll(); !aoerrors.Is(err, aoerrors.ErrCodeInvalidFormat) {
		t.Errorf("Unknown format error = %v, want %s", err, aoerrors.ErrCodeInvalidFormat)
	}
}

func TestSearchOptions(t *testing.T) {
	// Memoization on/off changes visit counts but never results.
	g := andor.New(nil)
	_ = g.AddNode(andor.Node{ID: "a", Type: andor.OR})
	_ = g.AddNode(andor.Node{ID: "b", Type: andor.AND})
	_ = g.AddEdge(andor.Edge{From: "a", To: "b"})

	opts := Options{NoMemo: true, MaxDepth: 5, MaxVisits: 100, CostKey: "h"}
	if n := len(opts.SearchOptions()); n != 4 {
		t.Errorf("SearchOptions() len = %d, want 4", n)
	}
	if _, err := andor.Search(g, "a", opts.SearchOptions()...); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	n, _ := g.Node("a")
	if _, ok := n.Meta["h"]; !ok {
		t.Error("CostKey should annotate node metadata")
	}

	if n := len((&Options{}).SearchOptions()); n != 1 {
		t.Errorf("default SearchOptions() len = %d, want 1", n)
	}
}

func TestExecute(t *testing.T) {
	runner := NewRunner(nil)
	result, err := runner.Execute(context.Background(), Options{
		Path:    writeDemo(t),
		Formats: []string{FormatDOT, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.Search.BestCost != 0 {
		t.Errorf("BestCost = %v, want 0", result.Search.BestCost)
	}
	if !slices.Equal(result.Search.Solution, []string{"A", "B", "D"}) {
		t.Errorf("Solution = %v, want [A B D]", result.Search.Solution)
	}
	if result.Stats.NodeCount != 4 || result.Stats.EdgeCount != 3 {
		t.Errorf("Stats = %+v, want 4 nodes and 3 edges", result.Stats)
	}
	if result.Stats.Evaluated != 4 {
		t.Errorf("Evaluated = %d, want 4", result.Stats.Evaluated)
	}

	if !strings.Contains(string(result.Artifacts[FormatDOT]), `"A" -> "B" [color=steelblue`) {
		t.Error("dot artifact should highlight the solution")
	}

	var report Report
	if err := json.Unmarshal(result.Artifacts[FormatJSON], &report); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if report.Start != "A" || !slices.Equal(report.Solution, []string{"A", "B", "D"}) {
		t.Errorf("report = %+v", report)
	}
	if len(report.Costs) != 4 {
		t.Errorf("report costs = %v, want 4 entries", report.Costs)
	}
}

func TestExecuteStartOverride(t *testing.T) {
	result, err := NewRunner(nil).Execute(context.Background(), Options{
		Path:  writeDemo(t),
		Start: "B",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !slices.Equal(result.Search.Solution, []string{"B", "D"}) {
		t.Errorf("Solution = %v, want [B D]", result.Search.Solution)
	}
	if result.Artifacts != nil {
		t.Error("no formats should render no artifacts")
	}
}

func TestExecuteErrors(t *testing.T) {
	runner := NewRunner(nil)

	_, err := runner.Execute(context.Background(), Options{Path: writeDemo(t), Start: "Z"})
	if !errors.Is(err, andor.ErrNodeNotFound) {
		t.Errorf("unknown start error = %v, want %v", err, andor.ErrNodeNotFound)
	}

	g := andor.New(nil)
	_ = g.AddNode(andor.Node{ID: "a", Type: andor.OR})
	_ = g.AddEdge(andor.Edge{From: "a", To: "a"})
	_, err = runner.Execute(context.Background(), Options{Graph: g, Start: "a"})
	if !errors.Is(err, andor.ErrCycleDetected) {
		t.Errorf("cycle error = %v, want %v", err, andor.ErrCycleDetected)
	}

	_, err = runner.Execute(context.Background(), Options{Graph: andor.New(nil)})
	if err == nil || !strings.Contains(err.Error(), "start node is required") {
		t.Errorf("missing start error = %v", err)
	}
	if code := aoerrors.FromSearch(err).Code; code != aoerrors.ErrCodeInvalidInput {
		t.Errorf("missing start code = %s, want %s", code, aoerrors.ErrCodeInvalidInput)
	}

	_, err = runner.Execute(context.Background(), Options{Path: writeDemo(t), MaxVisits: 2})
	if !errors.Is(err, andor.ErrLimitExceeded) {
		t.Errorf("work limit error = %v, want %v", err, andor.ErrLimitExceeded)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := runner.Execute(ctx, Options{Path: writeDemo(t)}); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled error = %v, want %v", err, context.Canceled)
	}
}

func TestRenderWithoutResult(t *testing.T) {
	g := andor.New(nil)
	_ = g.AddNode(andor.Node{ID: "a", Type: andor.OR})

	artifacts, err := Render(g, nil, Options{Formats: []string{FormatDOT}})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(string(artifacts[FormatDOT]), `"a" [label="a", shape=ellipse]`) {
		t.Errorf("dot = %s", artifacts[FormatDOT])
	}

	if _, err := Render(g, nil, Options{Formats: []string{FormatJSON}}); err == nil {
		t.Error("json without a result should fail")
	}
}

type recordingHooks struct {
	observability.NoopSearchHooks
	events []string
}

func (h *recordingHooks) OnLoadStart(context.Context, string) { h.events = append(h.events, "load") }
func (h *recordingHooks) OnSearchComplete(_ context.Context, start string, _ int, _ time.Duration, err error) {
	h.events = append(h.events, "search:"+start)
}
func (h *recordingHooks) OnRenderStart(context.Context, []string) {
	h.events = append(h.events, "render")
}

func TestRunnerEmitsHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetSearchHooks(hooks)
	defer observability.Reset()

	_, err := NewRunner(nil).Execute(context.Background(), Options{
		Path:    writeDemo(t),
		Formats: []string{FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := []string{"load", "search:A", "render"}
	if !slices.Equal(hooks.events, want) {
		t.Errorf("events = %v, want %v", hooks.events, want)
	}
}
