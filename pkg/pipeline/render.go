package pipeline

import (
	"fmt"

	"github.com/matzehuels/railyard/pkg/ast"
	"github.com/matzehuels/railyard/pkg/diagram"
	"github.com/matzehuels/railyard/pkg/errors"
	"github.com/matzehuels/railyard/pkg/render/nodelink"
	"github.com/matzehuels/railyard/pkg/render/sink"
	"github.com/matzehuels/railyard/pkg/render/styles"
	"github.com/matzehuels/railyard/pkg/render/styles/handdrawn"
)

// Render generates output artifacts in the requested formats. tree is only
// needed for the dot format and may be nil otherwise.
func Render(doc diagram.Document, tree ast.Node, opts Options) (map[string][]byte, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(doc, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(doc, buildPNGOptions(opts)...)
		case FormatPDF:
			data, err = sink.RenderPDF(doc, sink.WithPDFSVGOptions(svgOpts...))
		case FormatJSON:
			data, err = sink.RenderJSON(doc)
		case FormatMsgpack:
			data, err = sink.RenderMsgpack(doc)
		case FormatDOT:
			if tree == nil {
				return nil, errors.New(errors.ErrCodeUnsupported, "the dot format needs the expression tree")
			}
			data, err = nodelink.RenderSVG(nodelink.ToDOT(tree, nodelink.Options{Detailed: opts.ShowLabels}))
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

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption

	switch opts.Style {
	case StyleHanddrawn:
		seed := opts.Seed
		if seed == 0 {
			seed = DefaultSeed
		}
		svgOpts = append(svgOpts, sink.WithStyle(handdrawn.New(seed)))
	default:
		svgOpts = append(svgOpts, sink.WithStyle(styles.Simple{}))
	}

	if opts.ShowLabels {
		svgOpts = append(svgOpts, sink.WithIDs())
	}
	return svgOpts
}

func buildPNGOptions(opts Options) []sink.PNGOption {
	pngOpts := []sink.PNGOption{sink.WithScale(opts.Scale)}
	if opts.ShowLabels {
		pngOpts = append(pngOpts, sink.WithPNGIDs())
	}
	return pngOpts
}
