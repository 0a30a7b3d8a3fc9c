package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineplanner/pkg/netmap"
)

const (
	formatDOT = "dot" // graphviz source
	formatSVG = "svg" // rendered vector image
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file path; derived from input when empty
	format   string // output format: "dot" or "svg"
	detailed bool   // include coordinates in stop labels
}

// newRenderCmd creates the render command for drawing network diagrams.
// The network is laid out with graphviz; SVG output runs the layout
// engine, DOT output just emits the source for external tooling.
func newRenderCmd() *cobra.Command {
	opts := renderOpts{format: formatSVG}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a snapshot as a network diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != formatDOT && opts.format != formatSVG {
				return fmt.Errorf("unknown format %q (want %s or %s)", opts.format, formatDOT, formatSVG)
			}
			return runRender(args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input name with new extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label stops with coordinates")

	return cmd
}

func runRender(path string, opts *renderOpts) error {
	net, err := loadNetwork(path)
	if err != nil {
		return err
	}

	dot := netmap.ToDOT(net, netmap.Options{Detailed: opts.detailed})

	out := opts.output
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + "." + opts.format
	}

	var data []byte
	switch opts.format {
	case formatDOT:
		data = []byte(dot)
	case formatSVG:
		sp := newSpinner("Rendering layout...")
		sp.Start()
		data, err = netmap.RenderSVG(dot)
		sp.Stop()
		if err != nil {
			return fmt.Errorf("render svg: %w", err)
		}
	}

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	printSuccess("Rendered %d lines", net.LineCount())
	printFile(out)
	return nil
}
