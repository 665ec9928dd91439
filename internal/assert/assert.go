// Package assert guards internal consistency invariants that must never
// fire in a correct build: lock-order monotonicity in
// junction.Storage.LockStripes, and in pathobj a pushed edge meeting the
// path end it extends and every pop matching an earlier push. Per-vertex
// occurrence vectors are ordered by the sort in junction.Build and are not
// re-checked here; a path body's vertex uniqueness is kept by rejecting
// the push, not by an assertion. Spec §7 calls these
// "internal consistency violations", unreachable in release, loud in test.
package assert

import "fmt"

// Invariant panics with a uniform prefix when cond is false. Call sites
// name the invariant being checked, not the surrounding function, so a
// panic message is self-explanatory without a stack trace.
func Invariant(cond bool, format string, args ...interface{}) {
	if !cond {
		panic("internal consistency violation: " + fmt.Sprintf(format, args...))
	}
}
