package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineplanner/pkg/geojson"
	"github.com/matzehuels/lineplanner/pkg/network"
)

// geojsonOpts holds the command-line flags for the geojson command.
type geojsonOpts struct {
	output string         // output file path; empty means stdout
	lineID network.LineID // export a single line instead of the full network
}

// newGeoJSONCmd creates the geojson command for exporting snapshots.
func newGeoJSONCmd() *cobra.Command {
	var lineID int
	opts := geojsonOpts{}

	cmd := &cobra.Command{
		Use:   "geojson [file]",
		Short: "Export a snapshot as GeoJSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.lineID = network.LineID(lineID)
			return runGeoJSON(args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().IntVarP(&lineID, "line", "l", 0, "export only the line with this id")

	return cmd
}

func runGeoJSON(path string, opts *geojsonOpts) error {
	net, err := loadNetwork(path)
	if err != nil {
		return err
	}

	var data []byte
	if opts.lineID != 0 {
		feature, err := geojson.LineFeature(net, opts.lineID)
		if err != nil {
			return err
		}
		data, err = geojson.Marshal(geojson.FeatureCollection{
			Type:     geojson.TypeFeatureCollection,
			Features: []geojson.Feature{feature},
		})
		if err != nil {
			return err
		}
	} else {
		fc, err := geojson.Collection(net)
		if err != nil {
			return err
		}
		data, err = geojson.Marshal(fc)
		if err != nil {
			return err
		}
	}

	if opts.output == "" {
		fmt.Println(strings.TrimRight(string(data), "\n"))
		return nil
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Exported GeoJSON")
	printFile(opts.output)
	return nil
}
