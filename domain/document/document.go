// Package document defines the recursive document value model shared by
// every stage of the pipeline: null, boolean, integer, floating point,
// string, the vendor scalar types (object id, timestamp, decimal, binary),
// ordered arrays, and string-keyed objects.
package document

import (
	"encoding/hex"
	"fmt"

	"docsynth/domain/core"
)

// Kind tags the variant held by a Value.
type Kind string

const (
	KindNull      Kind = "null"
	KindBool      Kind = "boolean"
	KindInt       Kind = "integer"
	KindFloat     Kind = "number"
	KindString    Kind = "string"
	KindObjectID  Kind = "objectid"
	KindTimestamp Kind = "timestamp"
	KindDecimal   Kind = "decimal"
	KindBinary    Kind = "binary"
	KindArray     Kind = "array"
	KindObject    Kind = "object"
)

// ObjectID is the 12-byte opaque identifier (MongoDB-style ObjectId), the
// wire representation spec §6 tags as {kind:"oid", bytes:[12]}.
type ObjectID [12]byte

// Hex renders the ObjectID as the canonical 24-character lowercase hex string.
func (o ObjectID) Hex() string {
	return hex.EncodeToString(o[:])
}

// ObjectIDFromHex parses a 24-character hex string into an ObjectID.
func ObjectIDFromHex(s string) (ObjectID, error) {
	var oid ObjectID
	b, err := hex.DecodeString(s)
	if err != nil {
		return oid, fmt.Errorf("objectid: %w", err)
	}
	if len(b) != 12 {
		return oid, fmt.Errorf("objectid: expected 12 bytes, got %d", len(b))
	}
	copy(oid[:], b)
	return oid, nil
}

// Value is a single node of a Document: exactly one of the fields below is
// meaningful, selected by Kind. Implementations should treat this as a
// tagged variant rather than a class hierarchy (design note, §9).
type Value struct {
	Kind Kind

	Bool      bool
	Int       int64
	Float     float64
	Str       string
	OID       ObjectID
	Timestamp core.Timestamp
	Decimal   string // arbitrary-precision decimal kept as its canonical text
	Binary    []byte

	Array  []Value
	Object map[string]Value
}

// Document is the recursive value described in spec §3. At the root it is
// always an Object (callers decode a stream of objects).
type Document = Value

func Null() Value                  { return Value{Kind: KindNull} }
func Bool(b bool) Value            { return Value{Kind: KindBool, Bool: b} }
func Int(n int64) Value            { return Value{Kind: KindInt, Int: n} }
func Float(f float64) Value        { return Value{Kind: KindFloat, Float: f} }
func String(s string) Value        { return Value{Kind: KindString, Str: s} }
func Oid(o ObjectID) Value         { return Value{Kind: KindObjectID, OID: o} }
func Time(t core.Timestamp) Value  { return Value{Kind: KindTimestamp, Timestamp: t} }
func Decimal(text string) Value    { return Value{Kind: KindDecimal, Decimal: text} }
func Binary(b []byte) Value        { return Value{Kind: KindBinary, Binary: append([]byte(nil), b...)} }
func Array(items ...Value) Value   { return Value{Kind: KindArray, Array: items} }
func Object(m map[string]Value) Value {
	return Value{Kind: KindObject, Object: m}
}

// IsScalar reports whether v is a leaf value (everything but array/object).
func (v Value) IsScalar() bool {
	switch v.Kind {
	case KindArray, KindObject:
		return false
	default:
		return true
	}
}

// TypeName returns the lowercase type tag used throughout inferred/generation
// schemas ("null", "boolean", "integer", "number", "string", ...).
func (v Value) TypeName() string {
	return string(v.Kind)
}
