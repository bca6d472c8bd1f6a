package gatt

import (
	"bytes"
	"encoding/binary"
)

// respWriter assembles a response PDU that must not exceed the MTU.
//
// Entries that must appear whole (a handle/value pair, say) are
// written between Chunk and Commit; Commit drops the chunk if it
// does not fit. Writes outside a chunk are applied immediately if
// they fit.
type respWriter struct {
	mtu       int
	b         bytes.Buffer
	chunk     []byte
	chunked   bool
	committed int // number of chunks committed
}

func newRespWriter(mtu uint16) *respWriter {
	return &respWriter{mtu: int(mtu), chunk: make([]byte, 0, int(mtu))}
}

// Chunk starts writing a new chunk. The chunk is not
// committed until Commit is called.
// Chunk panics if another chunk has already been
// started and not committed.
func (w *respWriter) Chunk() {
	if w.chunked {
		panic("respWriter: chunk called twice without committing")
	}
	w.chunked = true
}

// Commit writes the current chunk and reports whether the
// write succeeded. The write succeeds iff there is enough room.
// Commit panics if no chunk has been started.
func (w *respWriter) Commit() bool {
	if !w.chunked {
		panic("respWriter: commit without starting a chunk")
	}
	ok := w.b.Len()+len(w.chunk) <= w.mtu
	if ok {
		w.b.Write(w.chunk)
		w.committed++
	}
	w.chunk = w.chunk[:0]
	w.chunked = false
	return ok
}

// Committed returns the number of chunks committed so far.
func (w *respWriter) Committed() int { return w.committed }

// Avail returns the number of bytes that still fit, counting
// the bytes of an open chunk as written.
func (w *respWriter) Avail() int {
	return w.mtu - w.b.Len() - len(w.chunk)
}

// WriteFit writes b if it fits and reports whether it did.
// Inside a chunk, b is always buffered; Commit decides
// whether the chunk as a whole fits.
func (w *respWriter) WriteFit(b []byte) bool {
	if w.chunked {
		w.chunk = append(w.chunk, b...)
		return true
	}
	if len(b) > w.Avail() {
		return false
	}
	w.b.Write(b)
	return true
}

// WriteByteFit writes c if it fits.
func (w *respWriter) WriteByteFit(c byte) bool {
	return w.WriteFit([]byte{c})
}

// WriteUint16Fit writes the little-endian encoding of n if it fits.
func (w *respWriter) WriteUint16Fit(n uint16) bool {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], n)
	return w.WriteFit(b[:])
}

// WriteUUIDFit writes the wire encoding of u if it fits.
func (w *respWriter) WriteUUIDFit(u UUID) bool {
	return w.WriteFit(u.Bytes())
}

// Bytes returns the committed bytes.
func (w *respWriter) Bytes() []byte {
	return w.b.Bytes()
}
