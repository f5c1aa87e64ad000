// Package modmul implements 64-bit modular arithmetic over an odd modulus
// M, the innermost primitive the rest of the search is built on (spec
// component [MODMUL]). It is specialized to a single native uint64
// modulus so every subset-product step costs one multiplication instead
// of an arbitrary-precision one.
package modmul

import (
	"math/big"
	"math/bits"
)

// Mul returns a*b mod m for a, b < m and odd m. It is total, deterministic,
// and allocation-free: a 128-bit intermediate product from bits.Mul64 is
// reduced with a single hardware division via bits.Div64. Since a, b < m,
// the product's high word is always strictly less than m, so the division
// never overflows.
func Mul(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	_, rem := bits.Div64(hi, lo, m)
	return rem
}

// Inverse returns a^-1 mod m via big.Int's extended Euclidean algorithm. a
// must be coprime to m; if it is not, ok is false and the returned value is
// meaningless. Routing through math/big (rather than int64 accumulators,
// which overflow for any m >= 2^63) keeps this total over the full unsigned
// 64-bit odd-M domain the search operates in.
func Inverse(a, m uint64) (inv uint64, ok bool) {
	bigInv := new(big.Int).ModInverse(new(big.Int).SetUint64(a), new(big.Int).SetUint64(m))
	if bigInv == nil {
		return 0, false
	}
	return bigInv.Uint64(), true
}

// Pow returns base^exp mod m via square-and-multiply.
func Pow(base, exp, m uint64) uint64 {
	result := uint64(1) % m
	base %= m
	for exp > 0 {
		if exp&1 == 1 {
			result = Mul(result, base, m)
		}
		base = Mul(base, base, m)
		exp >>= 1
	}
	return result
}

// InverseTable precomputes r^-1 mod m for every element of rs. It panics if
// any element is not invertible mod m, since the search's residue set is
// required to live entirely in (Z/mZ)*.
func InverseTable(rs []uint64, m uint64) []uint64 {
	out := make([]uint64, len(rs))
	for i, r := range rs {
		inv, ok := Inverse(r, m)
		if !ok {
			panic("modmul: element not invertible mod m")
		}
		out[i] = inv
	}
	return out
}
