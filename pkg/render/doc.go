// Package render converts rendered AND/OR graph diagrams between output
// formats.
//
// The [nodelink] subpackage produces Graphviz DOT and SVG for a graph and,
// optionally, the solution a search picked. [ToPDF] and [ToPNG] turn that SVG
// into other formats using the external rsvg-convert tool (from librsvg):
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Result: &res})
//	svg, err := nodelink.RenderSVG(dot)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [nodelink]: github.com/matzehuels/aostar/pkg/render/nodelink
package render
