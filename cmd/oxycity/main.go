// Command oxycity opens the smart-city view and provides headless tools over the same
// generated scene: PNG snapshots, JSON dumps, layout validation and scene statistics.
package main

import (
	"io"
	"log"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/unixpickle/essentials"
)

func init() {
	// GLFW and the WebGPU surface must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if err := newRootCmd().Execute(); err != nil {
		essentials.Die(err)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "oxycity",
		Short:         "Procedural smart-city view with animated traffic",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if opts.quiet {
				log.SetOutput(io.Discard)
			} else {
				log.SetOutput(os.Stderr)
			}
		},
	}
	opts.bind(rootCmd)

	rootCmd.AddCommand(viewCmd(opts))
	rootCmd.AddCommand(snapshotCmd(opts))
	rootCmd.AddCommand(exportCmd(opts))
	rootCmd.AddCommand(validateCmd(opts))
	rootCmd.AddCommand(statsCmd(opts))
	return rootCmd
}
