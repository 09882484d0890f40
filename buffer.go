package bchgo

// Buffer is a borrowed view of caller-owned bytes with an explicit write
// capability. The codec never retains a Buffer beyond the call it is
// passed to.
type Buffer struct {
	b        []byte
	readOnly bool
}

// NewBuffer wraps b as a writable buffer view.
func NewBuffer(b []byte) *Buffer {
	return &Buffer{b: b}
}

// NewReadOnlyBuffer wraps b as a read-only buffer view. Correct refuses to
// flip bits in a read-only view.
func NewReadOnlyBuffer(b []byte) *Buffer {
	return &Buffer{b: b, readOnly: true}
}

// Bytes returns the underlying byte slice.
func (b *Buffer) Bytes() []byte { return b.b }

// Len returns the length of the view in bytes.
func (b *Buffer) Len() int { return len(b.b) }

// IsReadOnly reports whether the view may be written through.
func (b *Buffer) IsReadOnly() bool { return b.readOnly }
