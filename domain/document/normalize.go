package document

import (
	"encoding/base64"
	"fmt"
	"math"

	"docsynth/domain/core"
)

// vendor tag keys, as decoded from JSON: {"kind":"oid","bytes":[...]},
// {"kind":"timestamp","epochMs":...}, {"kind":"decimal","text":...},
// {"kind":"binary","base64":...} (spec §6).
const (
	tagKind    = "kind"
	tagOID     = "oid"
	tagTime    = "timestamp"
	tagDecimal = "decimal"
	tagBinary  = "binary"
)

// Normalize converts a raw decoded value (as produced by encoding/json,
// i.e. map[string]interface{}, []interface{}, float64, string, bool, nil)
// into the canonical Value. Malformed or unrecognized shapes are coerced to
// a fallback rather than aborting (traversal warning, spec §4.4/§7); the
// caller-supplied warn func, if non-nil, receives a human-readable note.
func Normalize(raw interface{}, warn func(string)) Value {
	switch x := raw.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(x)
	case string:
		return String(x)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			if warn != nil {
				warn(fmt.Sprintf("non-finite number %v coerced to null", x))
			}
			return Null()
		}
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return Int(int64(x))
		}
		return Float(x)
	case int:
		return Int(int64(x))
	case int64:
		return Int(x)
	case []interface{}:
		items := make([]Value, 0, len(x))
		for _, item := range x {
			items = append(items, Normalize(item, warn))
		}
		return Value{Kind: KindArray, Array: items}
	case map[string]interface{}:
		if v, ok := normalizeVendorTag(x, warn); ok {
			return v
		}
		obj := make(map[string]Value, len(x))
		for k, val := range x {
			obj[k] = Normalize(val, warn)
		}
		return Object(obj)
	default:
		if warn != nil {
			warn(fmt.Sprintf("unsupported scalar type %T coerced to string", raw))
		}
		return String(fmt.Sprintf("%v", raw))
	}
}

// normalizeVendorTag recognizes the four tagged vendor shapes from spec §6.
func normalizeVendorTag(m map[string]interface{}, warn func(string)) (Value, bool) {
	kind, ok := m[tagKind].(string)
	if !ok {
		return Value{}, false
	}
	switch kind {
	case tagOID:
		bytesRaw, ok := m["bytes"].([]interface{})
		if !ok || len(bytesRaw) != 12 {
			if warn != nil {
				warn("malformed oid tag, falling back to null")
			}
			return Null(), true
		}
		var oid ObjectID
		for i, b := range bytesRaw {
			n, _ := b.(float64)
			oid[i] = byte(int(n))
		}
		return Oid(oid), true
	case tagTime:
		ms, ok := m["epochMs"].(float64)
		if !ok {
			if warn != nil {
				warn("malformed timestamp tag, falling back to null")
			}
			return Null(), true
		}
		return Time(core.FromEpochMillis(int64(ms))), true
	case tagDecimal:
		text, ok := m["text"].(string)
		if !ok {
			if warn != nil {
				warn("malformed decimal tag, falling back to string")
			}
			return String(""), true
		}
		return Decimal(text), true
	case tagBinary:
		b64, ok := m["base64"].(string)
		if !ok {
			if warn != nil {
				warn("malformed binary tag, falling back to string")
			}
			return String(""), true
		}
		raw, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			if warn != nil {
				warn(fmt.Sprintf("invalid base64 in binary tag: %v", err))
			}
			return String(b64), true
		}
		return Binary(raw), true
	default:
		return Value{}, false
	}
}

// Denormalize converts a Value back into the plain interface{} shape
// Normalize accepts, restoring the vendor tags for non-JSON-native types.
// Normalize ∘ Denormalize is the identity required by spec invariant 6 for
// every vendor scalar.
func Denormalize(v Value) interface{} {
	switch v.Kind {
	case KindNull:
		return nil
	case KindBool:
		return v.Bool
	case KindInt:
		return float64(v.Int)
	case KindFloat:
		return v.Float
	case KindString:
		return v.Str
	case KindObjectID:
		bytes := make([]interface{}, 12)
		for i, b := range v.OID {
			bytes[i] = float64(b)
		}
		return map[string]interface{}{tagKind: tagOID, "bytes": bytes}
	case KindTimestamp:
		return map[string]interface{}{tagKind: tagTime, "epochMs": float64(v.Timestamp.EpochMillis())}
	case KindDecimal:
		return map[string]interface{}{tagKind: tagDecimal, "text": v.Decimal}
	case KindBinary:
		return map[string]interface{}{tagKind: tagBinary, "base64": base64.StdEncoding.EncodeToString(v.Binary)}
	case KindArray:
		out := make([]interface{}, len(v.Array))
		for i, item := range v.Array {
			out[i] = Denormalize(item)
		}
		return out
	case KindObject:
		out := make(map[string]interface{}, len(v.Object))
		for k, item := range v.Object {
			out[k] = Denormalize(item)
		}
		return out
	default:
		return nil
	}
}
