// Package value is the evaluator's output model (spec.md §3, §6): an
// immutable tagged union of Bool/Integer/Float/Bytes/Struct/Array, each
// carrying the provenance (sourceinfo.RangeSet) of the input bytes that
// produced it, plus the stable JSON projection spec.md §6 mandates for the
// CLI.
package value

import (
	"fmt"

	"github.com/binspec/bfdl/internal/bignum"
	"github.com/binspec/bfdl/ir"
	"github.com/binspec/bfdl/sourceinfo"
)

// Kind tags which variant a Value holds.
type Kind int

const (
	Bool Kind = iota
	Integer
	Float
	Bytes
	Struct
	Array
)

func (k Kind) String() string {
	switch k {
	case Bool:
		return "Bool"
	case Integer:
		return "Integer"
	case Float:
		return "Float"
	case Bytes:
		return "Bytes"
	case Struct:
		return "Struct"
	case Array:
		return "Array"
	}
	return "?"
}

// Field is one (name, value) pair of a Struct value, kept in declaration
// order (spec.md's "Struct{fields: ordered (symbol, Value)}").
type Field struct {
	Name  ir.Symbol
	Value *Value
}

// Value is the immutable result of evaluating one IR node. Only the
// fields matching Kind are meaningful; the rest are zero.
type Value struct {
	Kind Kind

	Bool    bool
	Int     bignum.Int
	Float64 float64
	Bytes   []byte
	Fields  []Field
	Items   []*Value

	Provenance *sourceinfo.RangeSet
}

// NewBool builds a synthetic or provenanced Bool value.
func NewBool(b bool, prov *sourceinfo.RangeSet) *Value {
	return &Value{Kind: Bool, Bool: b, Provenance: prov}
}

// NewInteger builds an Integer value.
func NewInteger(n bignum.Int, prov *sourceinfo.RangeSet) *Value {
	return &Value{Kind: Integer, Int: n, Provenance: prov}
}

// NewFloat builds a Float value.
func NewFloat(f float64, prov *sourceinfo.RangeSet) *Value {
	return &Value{Kind: Float, Float64: f, Provenance: prov}
}

// NewBytes builds a Bytes value. b is retained, not copied.
func NewBytes(b []byte, prov *sourceinfo.RangeSet) *Value {
	return &Value{Kind: Bytes, Bytes: b, Provenance: prov}
}

// NewStruct builds a Struct value whose provenance is the union of its
// fields' provenance unless prov is explicitly supplied.
func NewStruct(fields []Field, prov *sourceinfo.RangeSet) *Value {
	if prov == nil {
		sets := make([]*sourceinfo.RangeSet, len(fields))
		for i, f := range fields {
			sets[i] = f.Value.Provenance
		}
		prov = sourceinfo.UnionAll(sets...)
	}
	return &Value{Kind: Struct, Fields: fields, Provenance: prov}
}

// NewArray builds an Array value whose provenance is the union of its
// items' provenance unless prov is explicitly supplied.
func NewArray(items []*Value, prov *sourceinfo.RangeSet) *Value {
	if prov == nil {
		sets := make([]*sourceinfo.RangeSet, len(items))
		for i, v := range items {
			sets[i] = v.Provenance
		}
		prov = sourceinfo.UnionAll(sets...)
	}
	return &Value{Kind: Array, Items: items, Provenance: prov}
}

// Field looks up a Struct value's field by name, in declaration order.
func (v *Value) Field(name ir.Symbol) (*Value, bool) {
	for _, f := range v.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

func (v *Value) String() string {
	switch v.Kind {
	case Bool:
		return fmt.Sprintf("%t", v.Bool)
	case Integer:
		return v.Int.String()
	case Float:
		return fmt.Sprintf("%v", v.Float64)
	case Bytes:
		return fmt.Sprintf("bytes[%d]", len(v.Bytes))
	case Struct:
		return fmt.Sprintf("struct{%d fields}", len(v.Fields))
	case Array:
		return fmt.Sprintf("array[%d]", len(v.Items))
	}
	return "?"
}
