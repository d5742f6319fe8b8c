// Package cmd implements circuitlift's command line tool: a single cobra
// command reading one circuit (by lifting a binary or by deserializing a
// circuitfile) and writing it out through zero or more sinks.
package cmd

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/circuitlift/circuitlift/pkg/diag"
)

// Version is filled in at build time via -ldflags; left empty, Execute
// falls back to the Go module's build info.
var Version string

// Execute runs the circuitlift command line tool against os.Args. On
// success it returns normally (exit code 0); on failure it calls os.Exit
// with the documented exit code (1 missing/contradictory input flags, 2
// lift/deserialize/rewrite/output failure).
func Execute() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "circuitlift",
		Short: "Equality-saturation based decoder and constraint synthesizer for circuit IR.",
		RunE:  runSynthesize,
	}

	root.Flags().String("arch", "", "architecture tag for the lifter (mutually exclusive with --ir-in)")
	root.Flags().String("os", "", "OS ABI tag for the lifter")
	root.Flags().String("binary-in", "", "path to the binary to lift")
	root.Flags().String("ir-in", "", "path to a circuitfile to deserialize (mutually exclusive with --arch/--os/--binary-in)")

	root.Flags().String("dot", "", "write a Graphviz DOT rendering to this path (- for stdout)")
	root.Flags().String("smt", "", "write an SMT-LIB v2 rendering to this path (- for stdout)")
	root.Flags().String("json", "", "write a structured JSON rendering to this path (- for stdout)")
	root.Flags().String("decoder", "", "write a synthesized Go decoder to this path (- for stdout)")
	root.Flags().String("decoder-package", "decoded", "package name for the emitted decoder")
	root.Flags().String("rules", "", "path to a rewrite rule DSL file to saturate the circuit with before emitting")
	root.Flags().Int("max-rounds", 64, "saturation round budget")
	root.Flags().Bool("verbose", false, "enable debug-level diagnostics")

	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the circuitlift version.",
		Run: func(cmd *cobra.Command, args []string) {
			if Version != "" {
				fmt.Println(Version)
				return
			}
			if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
				fmt.Println(info.Main.Version)
				return
			}
			fmt.Println("(unknown version)")
		},
	}
}

func newSink(cmd *cobra.Command, verbose bool) diag.Sink {
	level := logrus.InfoLevel
	if verbose {
		level = logrus.DebugLevel
	}
	return diag.NewLogrusSink(cmd.ErrOrStderr(), level)
}
