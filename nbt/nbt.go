// Package nbt is a big-endian tagged-tree writer for Minecraft's Named
// Binary Tag format, ported from the original source's nbt.hpp: a flat
// byte buffer grown by appending tag headers and payloads, rather than
// an in-memory tree, since the caller (the Anvil chunk builder) always
// writes tags in a fixed, known order.
package nbt

import (
	"encoding/binary"
	"math"
)

type Tag byte

const (
	TagEnd Tag = iota
	TagByte
	TagShort
	TagInt
	TagLong
	TagFloat
	TagDouble
	TagByteArray
	TagString
	TagList
	TagCompound
	TagIntArray
	TagLongArray
)

// Writer appends NBT-encoded bytes to a growable buffer. Every
// OpenCompound must be balanced by an End; every OpenList of
// TagCompound must contain exactly the declared count of compounds,
// each terminated by End. The zero Writer is ready to use.
type Writer struct {
	buf []byte
}

func NewWriter() *Writer { return &Writer{} }

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) header(tag Tag, name string) {
	w.buf = append(w.buf, byte(tag))
	w.putU16(uint16(len(name)))
	w.buf = append(w.buf, name...)
}

func (w *Writer) putU16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) putU32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) putI64(v int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	w.buf = append(w.buf, b[:]...)
}

// OpenCompound writes a TAG_Compound header. Must be matched by End.
func (w *Writer) OpenCompound(name string) {
	w.header(TagCompound, name)
}

// End closes the innermost open compound or list-of-compounds element.
func (w *Writer) End() {
	w.buf = append(w.buf, byte(TagEnd))
}

func (w *Writer) Byte(name string, v int8) {
	w.header(TagByte, name)
	w.buf = append(w.buf, byte(v))
}

func (w *Writer) Short(name string, v int16) {
	w.header(TagShort, name)
	w.putU16(uint16(v))
}

func (w *Writer) Int(name string, v int32) {
	w.header(TagInt, name)
	w.putU32(uint32(v))
}

func (w *Writer) Long(name string, v int64) {
	w.header(TagLong, name)
	w.putI64(v)
}

func (w *Writer) Float(name string, v float32) {
	w.header(TagFloat, name)
	w.putU32(math.Float32bits(v))
}

func (w *Writer) Double(name string, v float64) {
	w.header(TagDouble, name)
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(v))
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) String(name, v string) {
	w.header(TagString, name)
	w.putU16(uint16(len(v)))
	w.buf = append(w.buf, v...)
}

func (w *Writer) ByteArray(name string, v []byte) {
	w.header(TagByteArray, name)
	w.putU32(uint32(len(v)))
	w.buf = append(w.buf, v...)
}

func (w *Writer) IntArray(name string, v []int32) {
	w.header(TagIntArray, name)
	w.putU32(uint32(len(v)))
	for _, x := range v {
		w.putU32(uint32(x))
	}
}

func (w *Writer) LongArray(name string, v []int64) {
	w.header(TagLongArray, name)
	w.putU32(uint32(len(v)))
	for _, x := range v {
		w.putI64(x)
	}
}

// OpenList writes a TAG_List header. Elements are written with the
// nameless variants below, exactly n of them, and (for TagCompound
// elements) each terminated with End.
func (w *Writer) OpenList(name string, elem Tag, n int) {
	w.buf = append(w.buf, byte(TagList))
	w.putU16(uint16(len(name)))
	w.buf = append(w.buf, name...)
	w.buf = append(w.buf, byte(elem))
	w.putU32(uint32(n))
}

// Nameless element writers, for use inside a list: no tag byte, no name
// prefix, just the raw payload.

func (w *Writer) ElemByte(v int8)  { w.buf = append(w.buf, byte(v)) }
func (w *Writer) ElemShort(v int16) { w.putU16(uint16(v)) }
func (w *Writer) ElemInt(v int32)   { w.putU32(uint32(v)) }
func (w *Writer) ElemLong(v int64)  { w.putI64(v) }
func (w *Writer) ElemString(v string) {
	w.putU16(uint16(len(v)))
	w.buf = append(w.buf, v...)
}

// OpenElemCompound opens a compound inside a list: same wire form as a
// top-level compound has no header at all inside a list (TAG_Compound
// elements carry no per-element tag/name), so this is just a marker for
// readability at call sites — it writes nothing.
func (w *Writer) OpenElemCompound() {}

// ElemListHeader writes a TAG_List element inside an outer list (a
// list-of-lists, as "Lights"/"PostProcessing" use): no tag byte or name
// of its own, just the nested list's own elem-type byte and count, the
// same header shape OpenList writes minus the name prefix.
func (w *Writer) ElemListHeader(elem Tag, n int) {
	w.buf = append(w.buf, byte(elem))
	w.putU32(uint32(n))
}
