// Package jsonval implements the value model behind metadata field editing:
// parsing stored field text into a typed tree, resolving edit paths into
// that tree, and serializing the result back to text.
package jsonval

import (
	"bytes"
	"encoding/json"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindArray
	KindObject
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is the in-memory form of a stored metadata field: a scalar, an
// array, or an object. Implementations are Scalar, Array, and *Object.
type Value interface {
	Kind() Kind
	// Clone returns a deep copy. Edits always operate on a clone so the
	// original tree survives a failed path resolution untouched.
	Clone() Value
}

// ── Scalar ──────────────────────────────────────────────────────────────────

// Scalar is a leaf value: string, number, bool, or null. Numbers keep their
// source text (json.Number) so serialization round-trips without float drift.
type Scalar struct {
	kind Kind
	str  string
	num  json.Number
	b    bool
}

// NullScalar returns the null scalar.
func NullScalar() Scalar { return Scalar{kind: KindNull} }

// StringScalar returns a string scalar.
func StringScalar(s string) Scalar { return Scalar{kind: KindString, str: s} }

// NumberScalar returns a number scalar.
func NumberScalar(n json.Number) Scalar { return Scalar{kind: KindNumber, num: n} }

// BoolScalar returns a bool scalar.
func BoolScalar(b bool) Scalar { return Scalar{kind: KindBool, b: b} }

func (s Scalar) Kind() Kind   { return s.kind }
func (s Scalar) Clone() Value { return s }

// Text returns the display form of the scalar: the raw string for strings,
// the JSON form for everything else.
func (s Scalar) Text() string {
	switch s.kind {
	case KindString:
		return s.str
	case KindNumber:
		return s.num.String()
	case KindBool:
		if s.b {
			return "true"
		}
		return "false"
	default:
		return "null"
	}
}

// MarshalJSON implements json.Marshaler.
func (s Scalar) MarshalJSON() ([]byte, error) {
	switch s.kind {
	case KindString:
		return json.Marshal(s.str)
	case KindNumber:
		return []byte(s.num.String()), nil
	case KindBool:
		return json.Marshal(s.b)
	default:
		return []byte("null"), nil
	}
}

// ── Array ───────────────────────────────────────────────────────────────────

// Array is an ordered sequence of values.
type Array []Value

func (a Array) Kind() Kind { return KindArray }

func (a Array) Clone() Value {
	out := make(Array, len(a))
	for i, v := range a {
		out[i] = v.Clone()
	}
	return out
}

// MarshalJSON implements json.Marshaler.
func (a Array) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// ── Object ──────────────────────────────────────────────────────────────────

// Object is a string-keyed mapping with insertion order preserved.
type Object struct {
	keys  []string
	items map[string]Value
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{items: make(map[string]Value)}
}

func (o *Object) Kind() Kind { return KindObject }

func (o *Object) Clone() Value {
	out := NewObject()
	for _, k := range o.keys {
		out.Set(k, o.items[k].Clone())
	}
	return out
}

// Len returns the number of members.
func (o *Object) Len() int { return len(o.keys) }

// Keys returns member names in insertion order. The slice is shared; callers
// must not modify it.
func (o *Object) Keys() []string { return o.keys }

// Get returns the member value for key.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.items[key]
	return v, ok
}

// Set stores a member, appending the key if it is new.
func (o *Object) Set(key string, v Value) {
	if _, ok := o.items[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.items[key] = v
}

// Replace overwrites an existing member. Returns false if the key is absent;
// unlike Set it never grows the object.
func (o *Object) Replace(key string, v Value) bool {
	if _, ok := o.items[key]; !ok {
		return false
	}
	o.items[key] = v
	return true
}

// MarshalJSON implements json.Marshaler, emitting members in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(o.items[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
