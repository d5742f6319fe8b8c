package ir

import "fmt"

// TypingError reports that an operand's width, arity, or kind violates the
// typing rule of the operation being constructed. Raised at node creation
// and always returned, never panicked: a lifter can legitimately probe
// candidate shapes and recover.
type TypingError struct {
	Kind   Kind
	Reason string
}

func (e *TypingError) Error() string {
	return fmt.Sprintf("typing error constructing %s: %s", e.Kind, e.Reason)
}

// IRInvariantViolation reports that the operand/user back-edge invariant, or
// the single-root/single-owner invariant, has been broken. This always
// indicates a bug in a rewrite pass rather than malformed user input, so
// callers that hit it are expected to treat it as fatal.
type IRInvariantViolation struct {
	NodeID ID
	Reason string
}

func (e *IRInvariantViolation) Error() string {
	return fmt.Sprintf("IR invariant violated at node %d: %s", e.NodeID, e.Reason)
}
