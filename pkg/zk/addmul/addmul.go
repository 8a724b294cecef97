// Package zkaddmul proves that a Pedersen commitment opens to x⋅y + z, given
// commitments to x, y, z and to the intermediate product w = x⋅y.
package zkaddmul

import (
	"crypto/rand"
	"io"

	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
)

const domain = "add-mul-proof"

type Public struct {
	// CX = x⋅g + r₁⋅h
	CX curve.Point
	// CY = y⋅g + r₂⋅h
	CY curve.Point
	// CZ = z⋅g + r₃⋅h
	CZ curve.Point
	// CW commits to w = x⋅y
	CW curve.Point
	// CT commits to t = x⋅y + z
	CT curve.Point
}

type Private struct {
	X, Y, Z curve.Scalar

	// RX, RY, RZ, RW, RT are the randomness of the five commitments.
	RX, RY, RZ, RW, RT curve.Scalar
}

type Commitment struct {
	// T1 = b₁⋅g + b₂⋅h
	T1 curve.Point
	// T2 = b₃⋅g + b₄⋅h
	T2 curve.Point
	// T3 = b₅⋅g + b₆⋅h
	T3 curve.Point
	// T4 = b₃⋅CX + b₇⋅h
	T4 curve.Point
	// T5 = b₈⋅g
	T5 curve.Point
	// T6 = b₉⋅h
	T6 curve.Point
}

type Intermediate struct {
	Commitment

	b [9]curve.Scalar
}

type Proof struct {
	group curve.Curve
	*Commitment

	Z1, Z2, Z3, Z4, Z5, Z6, Z7, Z8, Z9 curve.Scalar
}

func (p *Proof) IsValid(public Public) bool {
	if p == nil || p.Commitment == nil {
		return false
	}
	for _, pt := range []curve.Point{p.T1, p.T2, p.T3, p.T4, p.T5, p.T6} {
		if pt.IsIdentity() {
			return false
		}
	}
	return true
}

func Commit(rand io.Reader, group curve.Curve, public Public) *Intermediate {
	var b [9]curve.Scalar
	for i := range b {
		b[i] = sample.Scalar(rand, group)
	}
	h := group.NewSecondBasePoint()
	return &Intermediate{
		Commitment: Commitment{
			T1: b[0].ActOnBase().Add(b[1].Act(h)),
			T2: b[2].ActOnBase().Add(b[3].Act(h)),
			T3: b[4].ActOnBase().Add(b[5].Act(h)),
			T4: b[2].Act(public.CX).Add(b[6].Act(h)),
			T5: b[7].ActOnBase(),
			T6: b[8].Act(h),
		},
		b: b,
	}
}

func (i *Intermediate) FinalizeWithChallenge(group curve.Curve, e curve.Scalar, private Private) *Proof {
	// r₄ - r₁⋅y ties the product commitment's randomness to CX's.
	r7 := group.NewScalar().Set(private.RX).Mul(private.Y)
	r7 = group.NewScalar().Set(private.RW).Sub(r7)
	// x⋅y + z is the value inside CT.
	t := group.NewScalar().Set(private.X).Mul(private.Y).Add(private.Z)
	return &Proof{
		group:      group,
		Commitment: &i.Commitment,
		Z1:         group.NewScalar().Set(e).Mul(private.X).Add(i.b[0]),
		Z2:         group.NewScalar().Set(e).Mul(private.RX).Add(i.b[1]),
		Z3:         group.NewScalar().Set(e).Mul(private.Y).Add(i.b[2]),
		Z4:         group.NewScalar().Set(e).Mul(private.RY).Add(i.b[3]),
		Z5:         group.NewScalar().Set(e).Mul(private.Z).Add(i.b[4]),
		Z6:         group.NewScalar().Set(e).Mul(private.RZ).Add(i.b[5]),
		Z7:         group.NewScalar().Set(e).Mul(r7).Add(i.b[6]),
		Z8:         group.NewScalar().Set(e).Mul(t).Add(i.b[7]),
		Z9:         group.NewScalar().Set(e).Mul(private.RT).Add(i.b[8]),
	}
}

func NewProof(group curve.Curve, h *hash.Hash, public Public, private Private) *Proof {
	i := Commit(rand.Reader, group, public)
	e := challenge(h, group, public, &i.Commitment)
	return i.FinalizeWithChallenge(group, e, private)
}

func (p *Proof) Verify(h *hash.Hash, public Public) bool {
	if !p.IsValid(public) {
		return false
	}
	e := challenge(h, p.group, public, p.Commitment)
	return p.VerifyWithChallenge(public, e)
}

func (p *Proof) VerifyWithChallenge(public Public, e curve.Scalar) bool {
	if !p.IsValid(public) {
		return false
	}
	group := p.group
	h := group.NewSecondBasePoint()

	lhs := p.T1.Add(group.NewScalar().Set(e).Act(public.CX))
	rhs := p.Z1.ActOnBase().Add(p.Z2.Act(h))
	if !lhs.Equal(rhs) {
		return false
	}

	lhs = p.T2.Add(group.NewScalar().Set(e).Act(public.CY))
	rhs = p.Z3.ActOnBase().Add(p.Z4.Act(h))
	if !lhs.Equal(rhs) {
		return false
	}

	lhs = p.T3.Add(group.NewScalar().Set(e).Act(public.CZ))
	rhs = p.Z5.ActOnBase().Add(p.Z6.Act(h))
	if !lhs.Equal(rhs) {
		return false
	}

	lhs = p.T4.Add(group.NewScalar().Set(e).Act(public.CW))
	rhs = p.Z3.Act(public.CX).Add(p.Z7.Act(h))
	if !lhs.Equal(rhs) {
		return false
	}

	lhs = p.T6.Add(p.T5).Add(group.NewScalar().Set(e).Act(public.CT))
	rhs = p.Z8.ActOnBase().Add(p.Z9.Act(h))
	return lhs.Equal(rhs)
}

func challenge(h *hash.Hash, group curve.Curve, public Public, commitment *Commitment) curve.Scalar {
	_ = h.WriteAny([]byte(domain), public.CX, public.CY, public.CZ, public.CW, public.CT,
		commitment.T1, commitment.T2, commitment.T3, commitment.T4, commitment.T5, commitment.T6)
	return sample.Scalar(h.Digest(), group)
}

func Empty(group curve.Curve) *Proof {
	return &Proof{
		group: group,
		Commitment: &Commitment{
			T1: group.NewPoint(), T2: group.NewPoint(), T3: group.NewPoint(),
			T4: group.NewPoint(), T5: group.NewPoint(), T6: group.NewPoint(),
		},
		Z1: group.NewScalar(), Z2: group.NewScalar(), Z3: group.NewScalar(),
		Z4: group.NewScalar(), Z5: group.NewScalar(), Z6: group.NewScalar(),
		Z7: group.NewScalar(), Z8: group.NewScalar(), Z9: group.NewScalar(),
	}
}
