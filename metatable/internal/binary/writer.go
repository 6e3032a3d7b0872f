// Package binary provides the sequential integer writer used to lay out
// metadata tables.
package binary

// Interner hands out string pool offsets.
type Interner interface {
	Intern(s string) uint32
}

// Writer appends 32-bit words. Len is the cursor: the index the next
// word will occupy.
type Writer struct {
	buf []uint32
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// NewWriterSize creates a Writer with room for n words.
func NewWriterSize(n int) *Writer {
	return &Writer{buf: make([]uint32, 0, n)}
}

// Ints returns the written words.
func (w *Writer) Ints() []uint32 {
	return w.buf
}

// Len returns the number of words written.
func (w *Writer) Len() int {
	return len(w.buf)
}

// WriteU32 writes a single word.
func (w *Writer) WriteU32(v uint32) {
	w.buf = append(w.buf, v)
}

// WriteZeros writes n zero words.
func (w *Writer) WriteZeros(n int) {
	for i := 0; i < n; i++ {
		w.buf = append(w.buf, 0)
	}
}

// WriteString interns s and writes its pool offset.
func (w *Writer) WriteString(tab Interner, s string) {
	w.WriteU32(tab.Intern(s))
}

// Append writes every word of other after the current cursor.
func (w *Writer) Append(other *Writer) {
	w.buf = append(w.buf, other.buf...)
}
