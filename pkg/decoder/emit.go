package decoder

import (
	"fmt"
	"io"
	"text/template"
)

// EncodingWidth (120) bits are packed into two uint64 halves: lo holds bits
// [0,64) and hi holds bits [64,120). bitAt in the generated preamble below
// is the only place that packing is interpreted.
var preamble = template.Must(template.New("preamble").Parse(`// Code generated by circuitlift's decoder synthesizer. DO NOT EDIT.

package {{.Package}}

func bitAt(lo, hi uint64, bit uint) uint64 {
	if bit < 64 {
		return (lo >> bit) & 1
	}
	return (hi >> (bit - 64)) & 1
}

// Decode returns the name of the instruction context the raw 120 bit
// encoding in (lo, hi) belongs to, and false if no context matches.
func Decode(lo, hi uint64) (string, bool) {
	return {{.EntryFunc}}(lo, hi)
}
`))

var branchTmpl = template.Must(template.New("branch").Parse(`
func {{.FuncName}}(lo, hi uint64) (string, bool) {
	if bitAt(lo, hi, {{.BitIndex}}) == 0 {
		return {{.ZeroFunc}}(lo, hi)
	}
	return {{.OneFunc}}(lo, hi)
}
`))

var leafTmpl = template.Must(template.New("leaf").Parse(`
func {{.FuncName}}(lo, hi uint64) (string, bool) {
	{{range .Checks}}if bitAt(lo, hi, {{.BitIndex}}) != {{.Value}} {
		return "", false
	}
	{{end}}return {{printf "%q" .Name}}, true
}
`))

// EmitGo renders tree as Go source into w, declared under packageName. Each
// internal DecisionNode becomes a function testing one bit and dispatching
// to its Zero/One child function; each Leaf becomes a function that checks
// every bit its context pins (not just the bits the tree tested to choose
// between siblings) and only then returns the context's name. An encoding
// that reaches a leaf without satisfying every pinned bit matches no
// context, so the leaf reports ("", false). Decode is the package's sole
// entry point.
func EmitGo(w io.Writer, packageName string, tree *DecisionNode) error {
	counter := 0
	nextName := func() string {
		counter++
		return fmt.Sprintf("decodeNode%d", counter)
	}

	entry := nextName()
	if err := preamble.Execute(w, struct{ Package, EntryFunc string }{packageName, entry}); err != nil {
		return err
	}
	return emitNode(w, tree, entry, nextName)
}

type bitCheck struct {
	BitIndex uint
	Value    uint
}

func emitNode(w io.Writer, node *DecisionNode, funcName string, nextName func() string) error {
	if node.Leaf != nil {
		var checks []bitCheck
		for _, bit := range node.Leaf.State.PinnedBits() {
			value, _ := node.Leaf.State.Value(bit)
			checks = append(checks, bitCheck{BitIndex: bit, Value: value})
		}
		return leafTmpl.Execute(w, struct {
			FuncName, Name string
			Checks         []bitCheck
		}{funcName, node.Leaf.Name, checks})
	}

	zeroFunc, oneFunc := nextName(), nextName()
	if err := branchTmpl.Execute(w, struct {
		FuncName, ZeroFunc, OneFunc string
		BitIndex                    uint
	}{funcName, zeroFunc, oneFunc, node.BitIndex}); err != nil {
		return err
	}
	if err := emitNode(w, node.Zero, zeroFunc, nextName); err != nil {
		return err
	}
	return emitNode(w, node.One, oneFunc, nextName)
}
