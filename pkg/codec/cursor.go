package codec

import "fmt"

// Reader is a forward-only read cursor over one row buffer. Each column
// decode consumes exactly its own bytes; the cursor never rewinds.
type Reader struct {
	buf []byte
	off int
}

// NewReader returns a read cursor positioned at the start of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// next consumes exactly n bytes and returns them. A short buffer is a
// structural failure for the whole row.
func (r *Reader) next(n int) ([]byte, error) {
	if n < 0 || len(r.buf)-r.off < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			ErrShortBuffer, n, r.off, len(r.buf)-r.off)
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int {
	return r.off
}

// Remaining returns the number of bytes not yet consumed.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

// Writer is a forward-only write cursor over a caller-owned output buffer.
// It tracks the running encoded length of the current row, which the
// caller uses to finalize the row's framing.
type Writer struct {
	buf []byte
	off int
	n   int
}

// NewWriter returns a write cursor positioned at the start of buf.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

// next reserves exactly n bytes of output and advances the running length
// counter. The reservation happens after the value has been validated, so
// a rejected value never leaves partial bytes behind.
func (w *Writer) next(n int) ([]byte, error) {
	if len(w.buf)-w.off < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			ErrShortWrite, n, w.off, len(w.buf)-w.off)
	}
	b := w.buf[w.off : w.off+n]
	w.off += n
	w.n += n
	return b, nil
}

// Offset returns the number of bytes written so far.
func (w *Writer) Offset() int {
	return w.off
}

// Len returns the running encoded length of the current row.
func (w *Writer) Len() int {
	return w.n
}

// Bytes returns the encoded prefix of the output buffer.
func (w *Writer) Bytes() []byte {
	return w.buf[:w.off]
}
