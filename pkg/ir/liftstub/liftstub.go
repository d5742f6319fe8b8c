// Package liftstub provides a placeholder ir.Lifter that always fails. It
// exists so cmd/circuitlift has a default to wire in when no real lifter
// has been linked into the binary.
package liftstub

import "github.com/circuitlift/circuitlift/pkg/ir"

// Lifter always returns ir.ErrNoLifterRegistered.
type Lifter struct{}

// Lift implements ir.Lifter.
func (Lifter) Lift(archTag, osTag, binaryPath string) (*ir.Circuit, error) {
	return nil, ir.ErrNoLifterRegistered
}
