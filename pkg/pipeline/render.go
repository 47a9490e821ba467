package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/aostar/pkg/andor"
	"github.com/matzehuels/aostar/pkg/render/nodelink"
)

// Render generates output artifacts in the requested formats.
// res may be nil to draw the graph without a highlighted solution; the json
// format requires a result.
func Render(g *andor.Graph, res *andor.Result, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed, Result: res})
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(dot, DefaultPNGScale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(dot)
		case FormatJSON:
			if res == nil {
				return nil, fmt.Errorf("render json: no search result")
			}
			data, err = json.MarshalIndent(NewReport(*res), "", "  ")
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
