package circuitfile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math/big"

	"github.com/circuitlift/circuitlift/pkg/ir"
)

// Read deserializes a circuitfile stream into a fresh Circuit, returning
// the circuit and its root operation.
func Read(r io.Reader) (*ir.Circuit, *ir.Operation, error) {
	br := bufio.NewReader(r)

	var magic [4]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, nil, err
	}
	if magic != Magic {
		return nil, nil, &SerializationError{Reason: "bad magic"}
	}

	version, err := readU32(br)
	if err != nil {
		return nil, nil, err
	}
	if version != Version {
		return nil, nil, &SerializationError{Reason: fmt.Sprintf("unsupported version %d", version)}
	}

	count, err := readU32(br)
	if err != nil {
		return nil, nil, err
	}

	c := ir.NewCircuit()
	nodes := make([]*ir.Operation, count)
	for i := uint32(0); i < count; i++ {
		op, err := readNode(br, c, nodes[:i])
		if err != nil {
			return nil, nil, err
		}
		nodes[i] = op
	}

	rootIndex, err := readU32(br)
	if err != nil {
		return nil, nil, err
	}
	if rootIndex >= count {
		return nil, nil, &SerializationError{Reason: "root index out of range"}
	}
	return c, nodes[rootIndex], nil
}

func readNode(r *bufio.Reader, c *ir.Circuit, prior []*ir.Operation) (*ir.Operation, error) {
	kindByte, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	kind := ir.Kind(kindByte)

	width, err := readU32(r)
	if err != nil {
		return nil, err
	}

	operandCount, err := readU32(r)
	if err != nil {
		return nil, err
	}
	operands := make([]*ir.Operation, operandCount)
	for i := range operands {
		idx, err := readU32(r)
		if err != nil {
			return nil, err
		}
		if int(idx) >= len(prior) {
			return nil, &SerializationError{Reason: "operand references a node not yet seen"}
		}
		operands[i] = prior[idx]
	}

	op, err := buildNode(c, kind, uint(width), operands, r)
	if err != nil {
		return nil, err
	}

	metaCount, err := readU32(r)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < metaCount; i++ {
		key, err := readString(r)
		if err != nil {
			return nil, err
		}
		value, err := readString(r)
		if err != nil {
			return nil, err
		}
		op.SetMeta(key, value)
	}

	return op, nil
}

func buildNode(c *ir.Circuit, kind ir.Kind, width uint, operands []*ir.Operation, r *bufio.Reader) (*ir.Operation, error) {
	switch kind {
	case ir.KindInputRegister:
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		return c.NewInputRegister(name, width), nil
	case ir.KindOutputRegister:
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		return c.NewOutputRegister(name, width), nil
	case ir.KindConstant:
		hex, err := readString(r)
		if err != nil {
			return nil, err
		}
		value := new(big.Int)
		if _, ok := value.SetString(hex, 16); !ok {
			return nil, &SerializationError{Reason: fmt.Sprintf("bad constant payload %q", hex)}
		}
		return c.NewConstant(ir.NewBitVectorFromBigInt(value, width)), nil
	case ir.KindAdvice:
		return c.NewAdvice(width), nil
	case ir.KindUndefined:
		return c.NewUndefined(width), nil
	case ir.KindInputInstructionBits:
		return c.NewInputInstructionBits(width), nil
	case ir.KindExtract:
		low, err := readU32(r)
		if err != nil {
			return nil, err
		}
		high, err := readU32(r)
		if err != nil {
			return nil, err
		}
		return c.NewExtract(operands[0], uint(low), uint(high))
	default:
		return c.Create(kind, width, operands...)
	}
}

func readU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

func readString(r *bufio.Reader) (string, error) {
	n, err := readU32(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
