// Package pkg provides the core libraries for aostar, a minimum-cost solver
// for AND/OR graphs.
//
// # Overview
//
// An AND/OR graph describes how a problem decomposes: an AND node is solved
// by solving all of its children, an OR node by solving any one of them. A
// leaf costs nothing, an AND node costs the sum of its children and an OR
// node the cheapest child. aostar computes that cost for a start node and
// extracts the solution that achieves it.
//
// # Architecture
//
// The typical data flow through aostar:
//
//	Graph document (JSON, TOML, YAML)
//	         ↓
//	    [io] package (decode into a graph)
//	         ↓
//	    [andor] package (propagate costs, extract the solution)
//	         ↓
//	    [render/nodelink] package (draw the graph and its solution)
//	         ↓
//	    DOT/SVG/PDF/PNG/JSON output
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/aostar/pkg/andor"
//	    aoio "github.com/matzehuels/aostar/pkg/io"
//	)
//
//	g, _ := aoio.Import("plan.toml")
//	res, err := andor.Search(g, aoio.Start(g))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.BestCost, res.Solution)
//
// # Main Packages
//
// [andor] - The graph model, the cost propagator and the solution extractor.
// Costs live in a per-search table, so one graph can be searched
// concurrently.
//
// [io] - Reading and writing graph documents.
//
// [render/nodelink] - Graphviz node-link diagrams with the solution
// highlighted. [render] converts SVG to PDF and PNG.
//
// [pipeline] - The load → search → render pipeline shared by the CLI and
// the HTTP server.
//
// [errors] - Coded errors with HTTP status mapping and input validation.
//
// [observability] - Hooks for logging and metrics around each pipeline
// stage and HTTP request.
//
// [buildinfo] - Version information injected at build time.
//
// [andor]: https://pkg.go.dev/github.com/matzehuels/aostar/pkg/andor
// [io]: https://pkg.go.dev/github.com/matzehuels/aostar/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/aostar/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/aostar/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/aostar/pkg/pipeline
// [errors]: https://pkg.go.dev/github.com/matzehuels/aostar/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/aostar/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/aostar/pkg/buildinfo
package pkg
