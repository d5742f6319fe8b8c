package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/circuitlift/circuitlift/internal/unionfind"
	"github.com/circuitlift/circuitlift/pkg/circuitfile"
	"github.com/circuitlift/circuitlift/pkg/decoder"
	"github.com/circuitlift/circuitlift/pkg/egraph"
	"github.com/circuitlift/circuitlift/pkg/ir"
	"github.com/circuitlift/circuitlift/pkg/ir/liftstub"
	"github.com/circuitlift/circuitlift/pkg/printer"
	"github.com/circuitlift/circuitlift/pkg/rewrite"
)

func runSynthesize(cmd *cobra.Command, args []string) error {
	arch := getString(cmd, "arch")
	osTag := getString(cmd, "os")
	binaryIn := getString(cmd, "binary-in")
	irIn := getString(cmd, "ir-in")

	usingLifter := arch != "" || osTag != "" || binaryIn != ""
	usingIRIn := irIn != ""
	if usingLifter == usingIRIn {
		return fmt.Errorf("exactly one of --ir-in or --arch/--os/--binary-in must be given")
	}

	verbose := getBool(cmd, "verbose")
	sink := newSink(cmd, verbose)

	var (
		circuit *ir.Circuit
		root    *ir.Operation
		err     error
	)
	if usingIRIn {
		circuit, root, err = loadCircuitFile(irIn)
	} else {
		circuit, root, err = liftCircuit(arch, osTag, binaryIn)
	}
	if err != nil {
		sink.Error("failed to load circuit", map[string]any{"error": err.Error()})
		os.Exit(2)
	}

	if rulesPath := getString(cmd, "rules"); rulesPath != "" {
		if err := saturate(circuit, root, rulesPath, getInt(cmd, "max-rounds"), sink); err != nil {
			sink.Error("saturation failed", map[string]any{"error": err.Error()})
			os.Exit(2)
		}
	}

	if err := runSinks(cmd, circuit, root); err != nil {
		sink.Error("failed to write output", map[string]any{"error": err.Error()})
		os.Exit(2)
	}

	return nil
}

func loadCircuitFile(path string) (*ir.Circuit, *ir.Operation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return circuitfile.Read(f)
}

func liftCircuit(arch, osTag, binaryPath string) (*ir.Circuit, *ir.Operation, error) {
	var lifter ir.Lifter = liftstub.Lifter{}
	circuit, err := lifter.Lift(arch, osTag, binaryPath)
	if err != nil {
		return nil, nil, err
	}
	return circuit, circuit.Root(), nil
}

// saturate reports, via sink, whatever equalities the rules discover among
// root's subterms. It deliberately does not extract a rewritten circuit
// back out of the e-graph and swap it in for root: that requires a cost
// model for "simplest representative," which circuitlift does not yet
// choose one for. Running it today verifies a rule set is well-formed and
// converges within maxRounds; wiring extraction back into the IR is the
// natural next step once that cost model exists.
func saturate(c *ir.Circuit, root *ir.Operation, rulesPath string, maxRounds int, sink diagWarner) error {
	data, err := os.ReadFile(rulesPath)
	if err != nil {
		return err
	}
	rules, err := rewrite.ParseRules(string(data))
	if err != nil {
		return err
	}

	g := egraph.New()
	rootID := g.AddCircuit(root)

	err = rewrite.Saturate(rules, g, []unionfind.ID{rootID}, maxRounds)
	if budgetErr, ok := err.(*rewrite.SaturationBudgetExceeded); ok {
		sink.Warn("saturation budget exceeded", map[string]any{"rounds": budgetErr.Rounds})
		return nil
	}
	return err
}

type diagWarner interface {
	Warn(msg string, fields map[string]any)
}

func runSinks(cmd *cobra.Command, c *ir.Circuit, root *ir.Operation) error {
	if err := runSink(cmd, "dot", func(w io.Writer) error { return printer.WriteDot(w, c, root) }); err != nil {
		return err
	}
	if err := runSink(cmd, "smt", func(w io.Writer) error { return printer.WriteSMT(w, c, root) }); err != nil {
		return err
	}
	if err := runSink(cmd, "json", func(w io.Writer) error { return printer.WriteJSON(w, c, root) }); err != nil {
		return err
	}
	return runSink(cmd, "decoder", func(w io.Writer) error {
		contexts, err := decoder.ExtractContexts(c)
		if err != nil {
			return err
		}
		tree, err := decoder.BuildSelectionTree(contexts)
		if err != nil {
			return err
		}
		return decoder.EmitGo(w, getString(cmd, "decoder-package"), tree)
	})
}

func runSink(cmd *cobra.Command, flag string, write func(io.Writer) error) error {
	path := getString(cmd, flag)
	if path == "" {
		return nil
	}
	if path == "-" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return write(f)
}

func getString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func getBool(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}

func getInt(cmd *cobra.Command, name string) int {
	v, _ := cmd.Flags().GetInt(name)
	return v
}
