package value

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"math"
)

// MarshalJSON implements the canonical projection of spec.md §6: Bool →
// JSON bool; Integer → JSON number if it fits i128/u128, else a JSON
// string of decimal digits; Float → JSON number, or null if non-finite;
// Bytes → lowercase hex, two characters per byte, no separator; Struct →
// object preserving field order; Array → array.
func (v *Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case Bool:
		return json.Marshal(v.Bool)
	case Integer:
		if v.Int.FitsI128() || v.Int.FitsBits(128, false) {
			// Embed the decimal digits directly as a JSON number token:
			// arbitrary-precision integers have no size limit in the JSON
			// grammar, only in what a given decoder chooses to support.
			return []byte(v.Int.String()), nil
		}
		return json.Marshal(v.Int.String())
	case Float:
		if math.IsNaN(v.Float64) || math.IsInf(v.Float64, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.Float64)
	case Bytes:
		return json.Marshal(hex.EncodeToString(v.Bytes))
	case Struct:
		return marshalStruct(v.Fields)
	case Array:
		return json.Marshal(v.Items)
	}
	return []byte("null"), nil
}

// marshalStruct builds a JSON object by hand rather than through a Go map,
// which would not preserve field order (spec.md's "Struct → JSON object
// preserving field order").
func marshalStruct(fields []Field) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name.String())
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
