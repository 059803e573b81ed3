package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// ktcVersion resolves the build's VCS revision from the embedded build
// info, falling back to "<unknown>" for a binary built without module
// information (e.g. `go build` outside a module).
func ktcVersion() string {
	v := "<unknown>"
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return v
	}
	for _, kv := range info.Settings {
		if kv.Key == "vcs.revision" && kv.Value != "" {
			v = kv.Value
		}
	}
	return v
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the ktc build version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), ktcVersion())
			return nil
		},
	}
}
