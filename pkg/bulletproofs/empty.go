package bulletproofs

import (
	"math/bits"

	"github.com/brave-experiments/boomerang/pkg/math/curve"
)

// EmptyInnerProductProof returns a proof for n-element vectors with all
// group elements initialized, ready to be unmarshalled. n must be a power
// of two.
func EmptyInnerProductProof(group curve.Curve, n int) *InnerProductProof {
	rounds := bits.Len(uint(n)) - 1
	p := &InnerProductProof{
		L: make([]curve.Point, rounds),
		R: make([]curve.Point, rounds),
		A: group.NewScalar(),
		B: group.NewScalar(),
	}
	for i := 0; i < rounds; i++ {
		p.L[i] = group.NewPoint()
		p.R[i] = group.NewPoint()
	}
	return p
}

// EmptyRangeProof returns a proof for m values of n bits each, ready to be
// unmarshalled.
func EmptyRangeProof(group curve.Curve, n, m int) *RangeProof {
	return &RangeProof{
		A:          group.NewPoint(),
		S:          group.NewPoint(),
		T1:         group.NewPoint(),
		T2:         group.NewPoint(),
		TX:         group.NewScalar(),
		TXBlinding: group.NewScalar(),
		EBlinding:  group.NewScalar(),
		IPP:        EmptyInnerProductProof(group, n*m),
	}
}

// EmptyLinearProof returns a proof for n-element vectors, ready to be
// unmarshalled. n must be a power of two.
func EmptyLinearProof(group curve.Curve, n int) *LinearProof {
	rounds := bits.Len(uint(n)) - 1
	p := &LinearProof{
		L:   make([]curve.Point, rounds),
		R:   make([]curve.Point, rounds),
		S:   group.NewPoint(),
		A:   group.NewScalar(),
		Rho: group.NewScalar(),
	}
	for i := 0; i < rounds; i++ {
		p.L[i] = group.NewPoint()
		p.R[i] = group.NewPoint()
	}
	return p
}
