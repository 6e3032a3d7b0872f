// Package strtab implements the deduplicating string pool referenced by
// metadata tables.
package strtab

// Table accumulates NUL-terminated strings and hands out their byte
// offsets. The pool is append-only and offsets never change once assigned.
type Table struct {
	offsets map[string]uint32
	pool    []byte
}

// New creates an empty table.
func New() *Table {
	return &Table{offsets: make(map[string]uint32)}
}

// Intern returns the offset of s, appending s and a NUL terminator the
// first time s is seen.
func (t *Table) Intern(s string) uint32 {
	if off, ok := t.offsets[s]; ok {
		return off
	}
	off := uint32(len(t.pool))
	t.pool = append(t.pool, s...)
	t.pool = append(t.pool, 0)
	t.offsets[s] = off
	return off
}

// Lookup returns the offset of s without interning it.
func (t *Table) Lookup(s string) (uint32, bool) {
	off, ok := t.offsets[s]
	return off, ok
}

// Len returns the pool length in bytes.
func (t *Table) Len() int {
	return len(t.pool)
}

// Count returns the number of distinct strings.
func (t *Table) Count() int {
	return len(t.offsets)
}

// Bytes returns the pool. The caller must not modify it while the table
// is still in use.
func (t *Table) Bytes() []byte {
	return t.pool
}
