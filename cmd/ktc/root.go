package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// options holds the resolved command-line flags the run command acts
// on, kept separate from cobra's flag-parsing plumbing.
type options struct {
	configPath string
	vsync      string // "auto", "on" or "off"
	device     string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "ktc",
		Short: "ktc is a tiling Wayland compositor",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.vsync != "auto" && opts.vsync != "on" && opts.vsync != "off" {
				return fmt.Errorf("--vsync must be one of auto, on, off (got %q)", opts.vsync)
			}
			return runCompositor(opts)
		},
	}

	flags := root.Flags()
	flags.StringVar(&opts.configPath, "config", "", "path to config.toml (default: $XDG_CONFIG_HOME/ktc/config.toml)")
	flags.StringVar(&opts.vsync, "vsync", "auto", "vsync mode: auto, on, off")
	flags.StringVar(&opts.device, "device", "auto", "DRM render device to bind, or auto to probe")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "also log trace-level records (debug and above always reach stderr)")

	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the ktc CLI, exiting the process with status 1 on any
// top-level error (cobra has already printed it to stderr).
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
