// Package zkequality proves that two Pedersen commitments open to the same value.
package zkequality

import (
	"crypto/rand"
	"io"

	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
)

const domain = "equality-proof"

type Public struct {
	// C1 = m⋅g + r₁⋅h
	C1 curve.Point

	// C2 = m⋅g + r₂⋅h
	C2 curve.Point
}

type Private struct {
	// R1 = r₁
	R1 curve.Scalar

	// R2 = r₂
	R2 curve.Scalar
}

type Commitment struct {
	// Alpha = t⋅h
	Alpha curve.Point
}

type Intermediate struct {
	Commitment

	t curve.Scalar
}

type Proof struct {
	group curve.Curve
	*Commitment

	// Z = (r₁-r₂)⋅e + t (mod q)
	Z curve.Scalar
}

func (p *Proof) IsValid(public Public) bool {
	if p == nil || p.Commitment == nil {
		return false
	}
	if p.Alpha.IsIdentity() {
		return false
	}
	return true
}

func Commit(rand io.Reader, group curve.Curve) *Intermediate {
	t := sample.Scalar(rand, group)
	return &Intermediate{
		Commitment: Commitment{Alpha: t.Act(group.NewSecondBasePoint())},
		t:          t,
	}
}

func (i *Intermediate) FinalizeWithChallenge(group curve.Curve, e curve.Scalar, private Private) *Proof {
	diff := group.NewScalar().Set(private.R1).Sub(private.R2)
	return &Proof{
		group:      group,
		Commitment: &i.Commitment,
		Z:          diff.Mul(e).Add(i.t),
	}
}

func NewProof(group curve.Curve, h *hash.Hash, public Public, private Private) *Proof {
	i := Commit(rand.Reader, group)
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

// VerifyWithChallenge checks h⋅z = e⋅(C₁-C₂) + α.
func (p *Proof) VerifyWithChallenge(public Public, e curve.Scalar) bool {
	if !p.IsValid(public) {
		return false
	}
	group := p.group
	lhs := p.Z.Act(group.NewSecondBasePoint())
	rhs := group.NewScalar().Set(e).Act(public.C1.Sub(public.C2)).Add(p.Alpha)
	return lhs.Equal(rhs)
}

func challenge(h *hash.Hash, group curve.Curve, public Public, commitment *Commitment) curve.Scalar {
	_ = h.WriteAny([]byte(domain), public.C1, public.C2, commitment.Alpha)
	return sample.Scalar(h.Digest(), group)
}

func Empty(group curve.Curve) *Proof {
	return &Proof{
		group:      group,
		Commitment: &Commitment{Alpha: group.NewPoint()},
		Z:          group.NewScalar(),
	}
}
