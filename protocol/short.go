package protocol

import (
	"encoding/binary"
	"math"

	"github.com/rotisserie/eris"

	"pongsync/vmath"
)

// ShortToBytes encodes v as a little-endian two's-complement int16
func ShortToBytes(v int) ([2]byte, error) {
	var out [2]byte
	if v < math.MinInt16 || v > math.MaxInt16 {
		return out, eris.Wrapf(ErrEncodeRange, "%d", v)
	}
	binary.LittleEndian.PutUint16(out[:], uint16(int16(v)))
	return out, nil
}

// BytesToShort decodes the little-endian int16 at b[i:i+2]
func BytesToShort(b []byte, i int) (int16, error) {
	if i < 0 || i+1 >= len(b) {
		return 0, eris.Wrapf(ErrShortBuffer, "short at %d of %d bytes", i, len(b))
	}
	return int16(binary.LittleEndian.Uint16(b[i:])), nil
}

// floatToShort truncates f toward zero before encoding
func floatToShort(f float64) (int, error) {
	if math.IsNaN(f) {
		return 0, eris.Wrap(ErrEncodeRange, "NaN")
	}
	t := math.Trunc(f)
	if t < math.MinInt16 || t > math.MaxInt16 {
		return 0, eris.Wrapf(ErrEncodeRange, "%g", f)
	}
	return int(t), nil
}

// writer appends int16 fields to a message, keeping the first error
type writer struct {
	buf []byte
	err error
}

func newWriter(code byte, size int) *writer {
	buf := make([]byte, 1, size)
	buf[0] = code
	return &writer{buf: buf}
}

func (w *writer) short(v int) {
	if w.err != nil {
		return
	}
	b, err := ShortToBytes(v)
	if err != nil {
		w.err = err
		return
	}
	w.buf = append(w.buf, b[0], b[1])
}

func (w *writer) float(f float64) {
	if w.err != nil {
		return
	}
	v, err := floatToShort(f)
	if err != nil {
		w.err = err
		return
	}
	w.short(v)
}

func (w *writer) vec(v vmath.Vec2) {
	w.float(v.X)
	w.float(v.Y)
}

func (w *writer) byte(b byte) {
	if w.err == nil {
		w.buf = append(w.buf, b)
	}
}

func (w *writer) bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.buf, nil
}

// reader pulls int16 fields from a message, keeping the first error
type reader struct {
	buf []byte
	off int
	err error
}

func newReader(msg []byte) *reader {
	return &reader{buf: msg, off: 1}
}

func (r *reader) short() int16 {
	if r.err != nil {
		return 0
	}
	v, err := BytesToShort(r.buf, r.off)
	if err != nil {
		r.err = err
		return 0
	}
	r.off += 2
	return v
}

func (r *reader) vec() vmath.Vec2 {
	x := r.short()
	y := r.short()
	return vmath.V2(float64(x), float64(y))
}

func (r *reader) byte() byte {
	if r.err != nil {
		return 0
	}
	if r.off >= len(r.buf) {
		r.err = eris.Wrapf(ErrShortBuffer, "byte at %d of %d bytes", r.off, len(r.buf))
		return 0
	}
	b := r.buf[r.off]
	r.off++
	return b
}
