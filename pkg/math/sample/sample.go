package sample

import (
	"fmt"
	"io"

	"github.com/cronokirby/saferith"

	"github.com/brave-experiments/boomerang/pkg/math/curve"
)

const maxIterations = 255

var ErrMaxIterations = fmt.Errorf("sample: failed to generate after %d iterations", maxIterations)

func mustReadBits(rand io.Reader, buf []byte) {
	for i := 0; i < maxIterations; i++ {
		if _, err := io.ReadFull(rand, buf); err == nil {
			return
		}
	}
	panic(ErrMaxIterations)
}

// ModN samples an element of ℤₙ.
func ModN(rand io.Reader, n *saferith.Modulus) *saferith.Nat {
	out := new(saferith.Nat)
	buf := make([]byte, (n.BitLen()+7)/8)
	for i := 0; i < maxIterations; i++ {
		mustReadBits(rand, buf)
		out.SetBytes(buf)
		_, _, lt := out.CmpMod(n)
		if lt == 1 {
			return out
		}
	}
	panic(ErrMaxIterations)
}

// Scalar returns a new Scalar over the given group, sampled uniformly.
func Scalar(rand io.Reader, group curve.Curve) curve.Scalar {
	return group.NewScalar().SetNat(ModN(rand, group.Order()))
}

// ScalarUnit returns a new non zero Scalar over the given group.
func ScalarUnit(rand io.Reader, group curve.Curve) curve.Scalar {
	for i := 0; i < maxIterations; i++ {
		s := Scalar(rand, group)
		if !s.IsZero() {
			return s
		}
	}
	panic(ErrMaxIterations)
}

// ScalarPointPair returns a new Scalar, and the result of acting on the base
// point with it.
func ScalarPointPair(rand io.Reader, group curve.Curve) (curve.Scalar, curve.Point) {
	s := Scalar(rand, group)
	return s, s.ActOnBase()
}
