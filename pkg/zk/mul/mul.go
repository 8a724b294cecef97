// Package zkmul proves that a Pedersen commitment opens to the product of the
// values inside two other commitments.
package zkmul

import (
	"crypto/rand"
	"io"

	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
)

const domain = "mul-proof"

type Public struct {
	// CX = x⋅g + r₁⋅h
	CX curve.Point

	// CY = y⋅g + r₂⋅h
	CY curve.Point

	// CXY = x⋅y⋅g + r₃⋅h
	CXY curve.Point
}

type Private struct {
	// X = x
	X curve.Scalar

	// Y = y
	Y curve.Scalar

	// RX = r₁
	RX curve.Scalar

	// RY = r₂
	RY curve.Scalar

	// RXY = r₃
	RXY curve.Scalar
}

type Commitment struct {
	// Alpha = b₁⋅g + b₂⋅h
	Alpha curve.Point

	// Beta = b₃⋅g + b₄⋅h
	Beta curve.Point

	// Delta = b₃⋅CX + b₅⋅h
	Delta curve.Point
}

type Intermediate struct {
	Commitment

	b1, b2, b3, b4, b5 curve.Scalar
}

type Proof struct {
	group curve.Curve
	*Commitment

	// Z1 = b₁ + e⋅x (mod q)
	Z1 curve.Scalar
	// Z2 = b₂ + e⋅r₁ (mod q)
	Z2 curve.Scalar
	// Z3 = b₃ + e⋅y (mod q)
	Z3 curve.Scalar
	// Z4 = b₄ + e⋅r₂ (mod q)
	Z4 curve.Scalar
	// Z5 = b₅ + e⋅(r₃ - r₁⋅y) (mod q)
	Z5 curve.Scalar
}

func (p *Proof) IsValid(public Public) bool {
	if p == nil || p.Commitment == nil {
		return false
	}
	if p.Alpha.IsIdentity() || p.Beta.IsIdentity() || p.Delta.IsIdentity() {
		return false
	}
	return true
}

func Commit(rand io.Reader, group curve.Curve, public Public) *Intermediate {
	b1 := sample.Scalar(rand, group)
	b2 := sample.Scalar(rand, group)
	b3 := sample.Scalar(rand, group)
	b4 := sample.Scalar(rand, group)
	b5 := sample.Scalar(rand, group)
	h := group.NewSecondBasePoint()
	return &Intermediate{
		Commitment: Commitment{
			Alpha: b1.ActOnBase().Add(b2.Act(h)),
			Beta:  b3.ActOnBase().Add(b4.Act(h)),
			Delta: b3.Act(public.CX).Add(b5.Act(h)),
		},
		b1: b1, b2: b2, b3: b3, b4: b4, b5: b5,
	}
}

func (i *Intermediate) FinalizeWithChallenge(group curve.Curve, e curve.Scalar, private Private) *Proof {
	// r₃ - r₁⋅y binds the randomness of CXY to the randomness of CX.
	r5 := group.NewScalar().Set(private.RX).Mul(private.Y)
	r5 = group.NewScalar().Set(private.RXY).Sub(r5)
	return &Proof{
		group:      group,
		Commitment: &i.Commitment,
		Z1:         group.NewScalar().Set(e).Mul(private.X).Add(i.b1),
		Z2:         group.NewScalar().Set(e).Mul(private.RX).Add(i.b2),
		Z3:         group.NewScalar().Set(e).Mul(private.Y).Add(i.b3),
		Z4:         group.NewScalar().Set(e).Mul(private.RY).Add(i.b4),
		Z5:         group.NewScalar().Set(e).Mul(r5).Add(i.b5),
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

// VerifyWithChallenge checks the three product equations:
//
//	α + e⋅CX  = z₁⋅g + z₂⋅h
//	β + e⋅CY  = z₃⋅g + z₄⋅h
//	δ + e⋅CXY = z₃⋅CX + z₅⋅h
func (p *Proof) VerifyWithChallenge(public Public, e curve.Scalar) bool {
	if !p.IsValid(public) {
		return false
	}
	group := p.group
	h := group.NewSecondBasePoint()

	lhs := p.Alpha.Add(group.NewScalar().Set(e).Act(public.CX))
	rhs := p.Z1.ActOnBase().Add(p.Z2.Act(h))
	if !lhs.Equal(rhs) {
		return false
	}

	lhs = p.Beta.Add(group.NewScalar().Set(e).Act(public.CY))
	rhs = p.Z3.ActOnBase().Add(p.Z4.Act(h))
	if !lhs.Equal(rhs) {
		return false
	}

	lhs = p.Delta.Add(group.NewScalar().Set(e).Act(public.CXY))
	rhs = p.Z3.Act(public.CX).Add(p.Z5.Act(h))
	return lhs.Equal(rhs)
}

func challenge(h *hash.Hash, group curve.Curve, public Public, commitment *Commitment) curve.Scalar {
	_ = h.WriteAny([]byte(domain), public.CX, public.CY, public.CXY,
		commitment.Alpha, commitment.Beta, commitment.Delta)
	return sample.Scalar(h.Digest(), group)
}

func Empty(group curve.Curve) *Proof {
	return &Proof{
		group: group,
		Commitment: &Commitment{
			Alpha: group.NewPoint(),
			Beta:  group.NewPoint(),
			Delta: group.NewPoint(),
		},
		Z1: group.NewScalar(),
		Z2: group.NewScalar(),
		Z3: group.NewScalar(),
		Z4: group.NewScalar(),
		Z5: group.NewScalar(),
	}
}
