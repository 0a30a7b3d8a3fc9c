// Package cli implements the lineplanner command-line interface.
//
// This package provides commands for running the planning API server,
// inspecting saved network snapshots, and exporting networks as GeoJSON
// or rendered map diagrams. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - serve: Run the HTTP API backing the planning frontend
//   - show: Inspect a snapshot file (with an interactive line browser)
//   - geojson: Export a snapshot as a GeoJSON feature collection
//   - render: Render a snapshot as a network diagram (DOT or SVG)
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/matzehuels/lineplanner/internal/cli"
//
//	func main() {
//	    if err := cli.Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"os"
	"path/filepath"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "lineplanner"

	// defaultConfigFile is the config file looked up when --config is not set.
	defaultConfigFile = "Config.toml"
)

// defaultConfigPath returns the config file path checked when the flag
// is empty: ./Config.toml first, then ~/.config/lineplanner/Config.toml.
func defaultConfigPath() string {
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultConfigFile
	}
	return filepath.Join(home, ".config", appName, defaultConfigFile)
}
