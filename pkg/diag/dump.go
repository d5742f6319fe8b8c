package diag

import (
	"github.com/davecgh/go-spew/spew"
)

// Dump renders v as a deeply-expanded, pointer-following string, the same
// representation test failures print when a go-cmp diff isn't granular
// enough to see why two structures differ. Intended for Sink.Debug payloads
// and for ad hoc use while debugging a saturation pass gone wrong.
func Dump(v any) string {
	return spew.Sdump(v)
}
