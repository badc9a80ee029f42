package value_test

import (
	"encoding/json"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/binspec/bfdl/internal/bignum"
	"github.com/binspec/bfdl/ir"
	"github.com/binspec/bfdl/value"
)

func TestMarshalPrimitives(t *testing.T) {
	cases := []struct {
		name string
		v    *value.Value
		want string
	}{
		{"bool true", value.NewBool(true, nil), "true"},
		{"small integer", value.NewInteger(bignum.FromInt64(42), nil), "42"},
		{"negative integer", value.NewInteger(bignum.FromInt64(-7), nil), "-7"},
		{"float", value.NewFloat(1.5, nil), "1.5"},
		{"nan becomes null", value.NewFloat(math.NaN(), nil), "null"},
		{"bytes become lowercase hex", value.NewBytes([]byte{0xDE, 0xAD, 0xBE, 0xEF}, nil), `"deadbeef"`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := json.Marshal(c.v)
			require.NoError(t, err)
			require.JSONEq(t, c.want, string(got))
		})
	}
}

func TestMarshalIntegerBeyondI128FallsBackToString(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 200)
	v := value.NewInteger(bignum.FromBigInt(huge), nil)
	got, err := json.Marshal(v)
	require.NoError(t, err)
	require.Equal(t, `"`+huge.String()+`"`, string(got))
}

func TestMarshalStructPreservesFieldOrder(t *testing.T) {
	v := value.NewStruct([]value.Field{
		{Name: ir.Intern("z"), Value: value.NewInteger(bignum.FromInt64(1), nil)},
		{Name: ir.Intern("a"), Value: value.NewInteger(bignum.FromInt64(2), nil)},
	}, nil)
	got, err := json.Marshal(v)
	require.NoError(t, err)
	require.Equal(t, `{"z":1,"a":2}`, string(got))
}

func TestMarshalArray(t *testing.T) {
	v := value.NewArray([]*value.Value{
		value.NewInteger(bignum.FromInt64(1), nil),
		value.NewInteger(bignum.FromInt64(2), nil),
	}, nil)
	got, err := json.Marshal(v)
	require.NoError(t, err)
	require.JSONEq(t, `[1,2]`, string(got))
}
