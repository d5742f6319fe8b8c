// Command circuitlift synthesizes instruction decoders and other circuit
// artifacts from a lifted or deserialized circuit IR.
package main

import "github.com/circuitlift/circuitlift/pkg/cmd"

func main() {
	cmd.Execute()
}
