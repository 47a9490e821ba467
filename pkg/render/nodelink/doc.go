// Package nodelink renders AND/OR graphs as node-link diagrams.
//
// # Overview
//
// OR nodes are drawn as ellipses and AND nodes as boxes. When a search
// result is supplied, the nodes and edges of the chosen solution are drawn
// bold and filled, and every node can carry its computed cost.
//
// # Usage
//
//	res, _ := andor.Search(g, "A")
//	dot := nodelink.ToDOT(g, nodelink.Options{Result: &res, Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
