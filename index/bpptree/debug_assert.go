//go:build bpptreedebug

package bpptree

import "kvindex/bpptree/index"

// debugAssert panics with an *index.InvariantViolation when cond is false.
// The failure is always fatal to the operation in progress; the caller
// should consider the tree poisoned. Only compiled in under the
// bpptreedebug build tag.
func debugAssert(cond bool, format string, args ...any) {
	if !cond {
		panic(index.NewInvariantViolation(format, args...))
	}
}
