package bitmap

import (
	"encoding/binary"
	"io"
)

// order is the wire byte order of every multi-byte field. It is resolved once
// and handed to the readers and writers below rather than consulted directly.
var order binary.ByteOrder = binary.LittleEndian

type fieldReader struct {
	b     []byte
	order binary.ByteOrder
}

func newFieldReader(b []byte, order binary.ByteOrder) *fieldReader {
	return &fieldReader{b: b, order: order}
}

func (r *fieldReader) field(off, n int) ([]byte, error) {
	if off < 0 || off+n > len(r.b) {
		return nil, Truncated
	}
	return r.b[off : off+n], nil
}

func (r *fieldReader) uint16(off int) (uint16, error) {
	b, err := r.field(off, 2)
	if err != nil {
		return 0, err
	}
	return r.order.Uint16(b), nil
}

func (r *fieldReader) uint32(off int) (uint32, error) {
	b, err := r.field(off, 4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(b), nil
}

func (r *fieldReader) int32(off int) (int32, error) {
	v, err := r.uint32(off)
	return int32(v), err
}

// fieldWriter accumulates fixed-width fields, remembering the first error so
// callers can check once after a run of writes.
type fieldWriter struct {
	w     io.Writer
	order binary.ByteOrder
	tmp   [4]byte
	err   error
}

func newFieldWriter(w io.Writer, order binary.ByteOrder) *fieldWriter {
	return &fieldWriter{w: w, order: order}
}

func (w *fieldWriter) write(b []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(b)
}

func (w *fieldWriter) uint16(v uint16) {
	w.order.PutUint16(w.tmp[:2], v)
	w.write(w.tmp[:2])
}

func (w *fieldWriter) uint32(v uint32) {
	w.order.PutUint32(w.tmp[:], v)
	w.write(w.tmp[:])
}

func (w *fieldWriter) int32(v int32) {
	w.uint32(uint32(v))
}

func (w *fieldWriter) zero(n int) {
	w.write(make([]byte, n))
}
