// Package dispatch adapts typed Go functions into the uniform calling
// convention the foreign runtime invokes members through.
//
// The adapter set is closed: Adapt0 to Adapt3 for members with a result
// and Action0 to Action3 for members without one. Each is parameterized
// over the receiver and the codecs of its arguments and result, so a
// mismatched declaration fails to compile rather than at call time.
//
// A call resolves the receiver, loads every argument from its slot, runs
// the function and stores the result when the result slot is non-null.
// Errors from any of these steps are returned unchanged. A null argument
// vector or argument slot is a bug in the caller and panics.
package dispatch
