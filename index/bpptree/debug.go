//go:build !bpptreedebug

package bpptree

// debugAssert is a no-op in release builds. Build with -tags bpptreedebug
// to enable invariant checks.
func debugAssert(cond bool, format string, args ...any) {}
