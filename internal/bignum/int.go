// Package bignum provides the arbitrary-precision integer type used by the
// IR, the evaluator, and the value model. BFDL permits integer literals and
// arithmetic wider than 64 bits (spec.md's "Arbitrary-precision integers"
// design note), so every Int in this package is backed by math/big.
package bignum

import (
	"fmt"
	"math/big"
	"strings"
)

// Int is an arbitrary-precision signed integer. The zero value is 0.
type Int struct {
	v *big.Int
}

// FromInt64 wraps a machine integer.
func FromInt64(n int64) Int {
	return Int{v: big.NewInt(n)}
}

// FromUint64 wraps an unsigned machine integer.
func FromUint64(n uint64) Int {
	return Int{v: new(big.Int).SetUint64(n)}
}

// FromBigInt adopts an existing *big.Int without copying.
func FromBigInt(v *big.Int) Int {
	return Int{v: v}
}

// Parse parses an integer literal body as lexed by the parser: optional
// "0x"/"0o"/"0b" base prefix (case-insensitive), digits of the matching
// base, with '_' permitted as a digit separator anywhere except as the
// leading character. Returns false if the text is not a well-formed
// literal body.
func Parse(text string) (Int, bool) {
	if strings.HasPrefix(text, "_") {
		return Int{}, false
	}
	s := strings.ReplaceAll(text, "_", "")
	if s == "" {
		return Int{}, false
	}
	base := 10
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		base, s = 16, s[2:]
	case strings.HasPrefix(s, "0o") || strings.HasPrefix(s, "0O"):
		base, s = 8, s[2:]
	case strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B"):
		base, s = 2, s[2:]
	}
	if s == "" {
		return Int{}, false
	}
	v, ok := new(big.Int).SetString(s, base)
	if !ok {
		return Int{}, false
	}
	return Int{v: v}, true
}

func (i Int) big() *big.Int {
	if i.v == nil {
		return new(big.Int)
	}
	return i.v
}

func (i Int) Add(o Int) Int { return Int{v: new(big.Int).Add(i.big(), o.big())} }
func (i Int) Sub(o Int) Int { return Int{v: new(big.Int).Sub(i.big(), o.big())} }
func (i Int) Mul(o Int) Int { return Int{v: new(big.Int).Mul(i.big(), o.big())} }

// Div performs truncated integer division. The caller must check the
// divisor with IsZero first.
func (i Int) Div(o Int) Int { return Int{v: new(big.Int).Quo(i.big(), o.big())} }

func (i Int) IsZero() bool { return i.big().Sign() == 0 }
func (i Int) Sign() int    { return i.big().Sign() }
func (i Int) Neg() Int     { return Int{v: new(big.Int).Neg(i.big())} }

func (i Int) And(o Int) Int    { return Int{v: new(big.Int).And(i.big(), o.big())} }
func (i Int) Or(o Int) Int     { return Int{v: new(big.Int).Or(i.big(), o.big())} }
func (i Int) Xor(o Int) Int    { return Int{v: new(big.Int).Xor(i.big(), o.big())} }
func (i Int) Not(bits int) Int { return Int{v: new(big.Int).Not(i.big())} }

func (i Int) Shl(n uint) Int { return Int{v: new(big.Int).Lsh(i.big(), n)} }
func (i Int) Shr(n uint) Int { return Int{v: new(big.Int).Rsh(i.big(), n)} }

func (i Int) Cmp(o Int) int { return i.big().Cmp(o.big()) }

// Int64 reports whether the value fits in an int64, returning it if so.
func (i Int) Int64() (int64, bool) {
	if i.big().IsInt64() {
		return i.big().Int64(), true
	}
	return 0, false
}

// Uint64 reports whether the value fits in a uint64, returning it if so.
func (i Int) Uint64() (uint64, bool) {
	if i.big().IsUint64() {
		return i.big().Uint64(), true
	}
	return 0, false
}

// FitsI128 reports whether the value fits in a signed 128-bit range. The
// JSON projection (spec.md §6) emits a JSON number for values in this range
// or in the unsigned 128-bit range, and a decimal string otherwise.
func (i Int) FitsI128() bool {
	return i.FitsBits(128, true)
}

// FitsBits reports whether the value fits in the given bit width, honoring
// signedness.
func (i Int) FitsBits(bits int, signed bool) bool {
	if bits <= 0 {
		return false
	}
	if !signed {
		if i.Sign() < 0 {
			return false
		}
		return i.big().BitLen() <= bits
	}
	min := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
	min.Neg(min)
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bits-1)), big.NewInt(1))
	return i.big().Cmp(min) >= 0 && i.big().Cmp(max) <= 0
}

func (i Int) String() string { return i.big().String() }

func (i Int) Float64() float64 {
	f := new(big.Float).SetInt(i.big())
	v, _ := f.Float64()
	return v
}

func (i Int) GoString() string { return fmt.Sprintf("bignum.Int(%s)", i.String()) }
