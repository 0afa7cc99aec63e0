package document

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// MarshalJSON renders v as spec §6's wire format: scalars marshal plainly,
// arrays/objects recurse, and the four vendor scalar types surface as
// tagged values ({kind:"oid",bytes:[12]}, {kind:"timestamp",epochMs},
// {kind:"decimal",text}, {kind:"binary",base64}).
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.Bool)
	case KindInt:
		return json.Marshal(v.Int)
	case KindFloat:
		return json.Marshal(v.Float)
	case KindString:
		return json.Marshal(v.Str)
	case KindObjectID:
		bytes := make([]int, len(v.OID))
		for i, b := range v.OID {
			bytes[i] = int(b)
		}
		return json.Marshal(struct {
			Kind  string `json:"kind"`
			Bytes []int  `json:"bytes"`
		}{tagOID, bytes})
	case KindTimestamp:
		return json.Marshal(struct {
			Kind    string `json:"kind"`
			EpochMs int64  `json:"epochMs"`
		}{tagTime, v.Timestamp.EpochMillis()})
	case KindDecimal:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			Text string `json:"text"`
		}{tagDecimal, v.Decimal})
	case KindBinary:
		return json.Marshal(struct {
			Kind   string `json:"kind"`
			Base64 string `json:"base64"`
		}{tagBinary, base64.StdEncoding.EncodeToString(v.Binary)})
	case KindArray:
		items := make([]Value, len(v.Array))
		copy(items, v.Array)
		return json.Marshal(items)
	case KindObject:
		return json.Marshal(v.Object)
	default:
		return nil, fmt.Errorf("document: unknown kind %q", v.Kind)
	}
}

// UnmarshalJSON parses the wire format MarshalJSON produces, deferring to
// Normalize for the shared decode-and-vendor-tag logic every other raw-JSON
// entry point (adapters/source NDJSON readers, fixtures) goes through.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var warnErr error
	parsed := Normalize(raw, func(msg string) {
		if warnErr == nil {
			warnErr = fmt.Errorf("document: %s", msg)
		}
	})
	if warnErr != nil {
		return warnErr
	}
	*v = parsed
	return nil
}
