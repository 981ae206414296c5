package custody

import (
	"github.com/crypto-guardian/custody/errors"
	"github.com/gogo/protobuf/proto"
)

// maxFieldNumber is the greatest field number protobuf allows.
const maxFieldNumber = 1<<29 - 1

// Encoder writes fields in the protobuf wire format. Models and messages
// use it to implement Marshal according to the codec.proto file of their
// package.
//
// Scalar fields with a zero value are omitted, as proto3 does. The first
// error returned by a nested message is kept and reported by Finish.
type Encoder struct {
	buf []byte
	err error
}

func (e *Encoder) key(field int, wire int) {
	e.buf = append(e.buf, proto.EncodeVarint(uint64(field)<<3|uint64(wire))...)
}

func (e *Encoder) raw(field int, b []byte) {
	e.key(field, proto.WireBytes)
	e.buf = append(e.buf, proto.EncodeVarint(uint64(len(b)))...)
	e.buf = append(e.buf, b...)
}

// Uint writes a varint field.
func (e *Encoder) Uint(field int, v uint64) {
	if v == 0 {
		return
	}
	e.key(field, proto.WireVarint)
	e.buf = append(e.buf, proto.EncodeVarint(v)...)
}

// Int writes an int64 or int32 field. Negative values take ten bytes.
func (e *Encoder) Int(field int, v int64) {
	e.Uint(field, uint64(v))
}

// Bool writes a bool field.
func (e *Encoder) Bool(field int, v bool) {
	if v {
		e.Uint(field, 1)
	}
}

// Bytes writes a bytes field.
func (e *Encoder) Bytes(field int, b []byte) {
	if len(b) == 0 {
		return
	}
	e.raw(field, b)
}

// String writes a string field.
func (e *Encoder) String(field int, s string) {
	if s == "" {
		return
	}
	e.raw(field, []byte(s))
}

// RepeatedBytes writes every element, including empty ones.
func (e *Encoder) RepeatedBytes(field int, bs [][]byte) {
	for _, b := range bs {
		e.raw(field, b)
	}
}

// RepeatedString writes every element, including empty ones.
func (e *Encoder) RepeatedString(field int, ss []string) {
	for _, s := range ss {
		e.raw(field, []byte(s))
	}
}

// Message writes an embedded message. Callers skip nil pointers, a
// present message is always written even if it serializes to no bytes.
func (e *Encoder) Message(field int, m Marshaller) {
	if e.err != nil {
		return
	}
	raw, err := m.Marshal()
	if err != nil {
		e.err = errors.Wrapf(err, "field %d", field)
		return
	}
	e.raw(field, raw)
}

// Finish returns the serialized fields.
func (e *Encoder) Finish() ([]byte, error) {
	return e.buf, e.err
}

// Decoder reads fields in the protobuf wire format. A decoding loop calls
// Next until it returns false, then checks Err:
//
//	d := custody.NewDecoder(raw)
//	for d.Next() {
//		switch d.Field() {
//		case 1:
//			m.Name = d.String()
//		default:
//			d.Skip()
//		}
//	}
//	return d.Err()
//
// Unknown fields must be skipped, so that older nodes can read data written
// by newer ones.
type Decoder struct {
	buf   []byte
	field int
	wire  int
	err   error
}

// NewDecoder returns a decoder reading raw.
func NewDecoder(raw []byte) *Decoder {
	return &Decoder{buf: raw}
}

func (d *Decoder) fail(format string, args ...interface{}) {
	if d.err == nil {
		d.err = errors.Wrapf(errors.ErrInput, format, args...)
	}
}

// Next reads the key of the next field. It returns false when the input is
// consumed or malformed.
func (d *Decoder) Next() bool {
	if d.err != nil || len(d.buf) == 0 {
		return false
	}
	key, n := proto.DecodeVarint(d.buf)
	if n == 0 {
		d.fail("malformed field key")
		return false
	}
	d.buf = d.buf[n:]
	if key>>3 == 0 || key>>3 > maxFieldNumber {
		d.fail("invalid field number %d", key>>3)
		return false
	}
	d.field, d.wire = int(key>>3), int(key&7)
	return true
}

// Field returns the number of the current field.
func (d *Decoder) Field() int {
	return d.field
}

// Err returns the first decoding failure.
func (d *Decoder) Err() error {
	return d.err
}

func (d *Decoder) expect(wire int) bool {
	if d.err != nil {
		return false
	}
	if d.wire != wire {
		d.fail("field %d: unexpected wire type %d", d.field, d.wire)
		return false
	}
	return true
}

func (d *Decoder) varint() uint64 {
	if !d.expect(proto.WireVarint) {
		return 0
	}
	v, n := proto.DecodeVarint(d.buf)
	if n == 0 {
		d.fail("field %d: malformed varint", d.field)
		return 0
	}
	d.buf = d.buf[n:]
	return v
}

func (d *Decoder) raw() []byte {
	if !d.expect(proto.WireBytes) {
		return nil
	}
	l, n := proto.DecodeVarint(d.buf)
	if n == 0 || l > uint64(len(d.buf)-n) {
		d.fail("field %d: truncated", d.field)
		return nil
	}
	end := n + int(l)
	b := d.buf[n:end]
	d.buf = d.buf[end:]
	return b
}

// Uint reads a varint field.
func (d *Decoder) Uint() uint64 {
	return d.varint()
}

// Int reads an int64 field.
func (d *Decoder) Int() int64 {
	return int64(d.varint())
}

// Bool reads a bool field.
func (d *Decoder) Bool() bool {
	return d.varint() != 0
}

// Bytes reads a bytes field. The result does not share memory with the
// input.
func (d *Decoder) Bytes() []byte {
	b := d.raw()
	if len(b) == 0 {
		return nil
	}
	return append([]byte(nil), b...)
}

// String reads a string field.
func (d *Decoder) String() string {
	return string(d.raw())
}

// Message reads an embedded message into m.
func (d *Decoder) Message(m Persistent) {
	b := d.raw()
	if d.err != nil {
		return
	}
	if err := m.Unmarshal(b); err != nil {
		d.err = errors.Wrapf(err, "field %d", d.field)
	}
}

// Skip discards the value of the current field.
func (d *Decoder) Skip() {
	switch d.wire {
	case proto.WireVarint:
		d.varint()
	case proto.WireBytes:
		d.raw()
	case proto.WireFixed64:
		d.fixed(8)
	case proto.WireFixed32:
		d.fixed(4)
	default:
		d.fail("field %d: unsupported wire type %d", d.field, d.wire)
	}
}

func (d *Decoder) fixed(size int) {
	if len(d.buf) < size {
		d.fail("field %d: truncated", d.field)
		return
	}
	d.buf = d.buf[size:]
}
