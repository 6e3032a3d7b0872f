// Package class declares classes from typed Go members, compiles their
// metadata once and registers them with a foreign runtime.
//
// A class is built from Method and Property members. Metadata compiles the
// declaration into a revision 5 table on first use and caches the result
// for every later caller. Register hands the table and the uniform member
// functions to a Registrar exactly once; a rejection is recorded and
// returned from then on without retrying.
//
// Instances is the handle table most receivers resolve through. It never
// owns the values it binds.
package class
