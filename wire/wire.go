// Package wire is the binary codec for importer artifacts. Every artifact is a
// protobuf-encoded message prefixed by a short magic string naming its kind, so
// a shapes file is never mistaken for a map.
package wire

import (
	"github.com/favyen/mapimport/lib"
	"github.com/mitroadmaps/gomapinfer/common"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"

	"bytes"
	"math"
	"os"
)

// Encoder appends fields to a message buffer.
type Encoder struct {
	buf []byte
}

func (e *Encoder) Bytes() []byte {
	return e.buf
}

func (e *Encoder) Uint(num protowire.Number, v uint64) {
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, v)
}

func (e *Encoder) Bool(num protowire.Number, v bool) {
	e.Uint(num, protowire.EncodeBool(v))
}

func (e *Encoder) Float(num protowire.Number, v float64) {
	e.buf = protowire.AppendTag(e.buf, num, protowire.Fixed64Type)
	e.buf = protowire.AppendFixed64(e.buf, math.Float64bits(v))
}

func (e *Encoder) String(num protowire.Number, s string) {
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendString(e.buf, s)
}

// Message appends a nested message built by fn.
func (e *Encoder) Message(num protowire.Number, fn func(*Encoder)) {
	var inner Encoder
	fn(&inner)
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, inner.buf)
}

func (e *Encoder) Point(num protowire.Number, p common.Point) {
	e.Message(num, func(m *Encoder) {
		m.Float(1, p.X)
		m.Float(2, p.Y)
	})
}

func (e *Encoder) Rectangle(num protowire.Number, r common.Rectangle) {
	e.Message(num, func(m *Encoder) {
		m.Point(1, r.Min)
		m.Point(2, r.Max)
	})
}

// Field is one decoded field. Varint and fixed64 payloads land in Uint; length
// delimited payloads in Bytes.
type Field struct {
	Num   protowire.Number
	Type  protowire.Type
	Uint  uint64
	Bytes []byte
}

func (f Field) Float() float64 {
	return math.Float64frombits(f.Uint)
}

func (f Field) Bool() bool {
	return protowire.DecodeBool(f.Uint)
}

func (f Field) String() string {
	return string(f.Bytes)
}

func (f Field) Point() (common.Point, error) {
	var p common.Point
	err := Walk(f.Bytes, func(f Field) error {
		switch f.Num {
		case 1:
			p.X = f.Float()
		case 2:
			p.Y = f.Float()
		}
		return nil
	})
	return p, err
}

func (f Field) Rectangle() (common.Rectangle, error) {
	var r common.Rectangle
	err := Walk(f.Bytes, func(f Field) error {
		var err error
		switch f.Num {
		case 1:
			r.Min, err = f.Point()
		case 2:
			r.Max, err = f.Point()
		}
		return err
	})
	return r, err
}

// Walk calls fn for every field of the message in b, in order. Unknown wire
// types are skipped.
func Walk(b []byte, fn func(Field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		f := Field{Num: num, Type: typ}
		switch typ {
		case protowire.VarintType:
			f.Uint, n = protowire.ConsumeVarint(b)
		case protowire.Fixed64Type:
			f.Uint, n = protowire.ConsumeFixed64(b)
		case protowire.BytesType:
			f.Bytes, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		if typ != protowire.VarintType && typ != protowire.Fixed64Type && typ != protowire.BytesType {
			continue
		}
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile stores a message under the given kind.
func WriteFile(fname string, kind string, msg []byte) error {
	buf := make([]byte, 0, len(kind)+1+len(msg))
	buf = append(buf, kind...)
	buf = append(buf, '\n')
	buf = append(buf, msg...)
	return lib.WriteFileAtomic(fname, buf)
}

// ReadFile loads a message written by WriteFile, checking its kind.
func ReadFile(fname string, kind string) ([]byte, error) {
	buf, err := os.ReadFile(fname)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", fname)
	}
	prefix := []byte(kind + "\n")
	if !bytes.HasPrefix(buf, prefix) {
		return nil, errors.Errorf("%s is not a %s file", fname, kind)
	}
	return buf[len(prefix):], nil
}
