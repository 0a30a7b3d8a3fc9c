package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineplanner/pkg/network"
	"github.com/matzehuels/lineplanner/pkg/palette"
	"github.com/matzehuels/lineplanner/pkg/snapshot"
)

// newShowCmd creates the show command for inspecting snapshot files.
func newShowCmd() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "show [file]",
		Short: "Inspect a saved network snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(args[0], interactive)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse lines interactively")

	return cmd
}

func runShow(path string, interactive bool) error {
	net, err := loadNetwork(path)
	if err != nil {
		return err
	}

	if interactive {
		return browseLines(net)
	}

	fmt.Println(StyleTitle.Render(path))
	printStats(net.LineCount(), net.PointCount(), transferCount(net))
	fmt.Println()

	for _, l := range net.Lines() {
		printKeyValue(fmt.Sprintf("Line %d", l.ID()), fmt.Sprintf("%s  %s  %d stops", l.Name(), StyleDim.Render(l.Color()), l.Len()))
		for _, pid := range l.PointIDs() {
			p, ok := net.Point(pid)
			if !ok {
				printWarning("stop %d missing", pid)
				continue
			}
			marker := ""
			if p.IsTransfer() {
				marker = "  " + StyleHighlight.Render("transfer")
			}
			printDetail("%d  %.5f, %.5f%s", p.ID(), p.Lat(), p.Lng(), marker)
		}
	}

	printNextStep("Export as GeoJSON", fmt.Sprintf("%s geojson %s", appName, path))
	return nil
}

// loadNetwork reads a snapshot file and rebuilds the network from it.
func loadNetwork(path string) (*network.Store, error) {
	snap, err := snapshot.ReadFile(path)
	if err != nil {
		return nil, err
	}
	gen := palette.New()
	return snapshot.ToStore(snap, gen.Next)
}

// transferCount counts stops shared by more than one line.
func transferCount(net *network.Store) int {
	n := 0
	for _, p := range net.Points() {
		if p.IsTransfer() {
			n++
		}
	}
	return n
}

// browseLines runs the interactive line browser and prints the stops of
// the selected line.
func browseLines(net *network.Store) error {
	model := NewLineListModel(net)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return fmt.Errorf("interactive browser: %w", err)
	}

	m, ok := final.(LineListModel)
	if !ok || m.Selected == nil {
		return nil
	}

	l := m.Selected
	printSuccess("%s (%d stops)", l.Name(), l.Len())
	for _, pid := range l.PointIDs() {
		if p, ok := net.Point(pid); ok {
			printDetail("%d  %.5f, %.5f", p.ID(), p.Lat(), p.Lng())
		}
	}
	return nil
}
