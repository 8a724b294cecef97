// Package zkopening proves knowledge of an opening (m, r) of a Pedersen
// commitment C = m⋅g + r⋅h.
package zkopening

import (
	"crypto/rand"
	"io"

	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
)

const domain = "open-proof"

type Public struct {
	// C = m⋅g + r⋅h
	C curve.Point
}

type Private struct {
	// M = m
	M curve.Scalar

	// R = r
	R curve.Scalar
}

type Commitment struct {
	// Alpha = t₁⋅g + t₂⋅h
	Alpha curve.Point
}

// Intermediate carries the first move of the protocol together with the
// blinding values needed to finish it. It exists so that a caller can absorb
// Alpha into a parent transcript and finalize with an external challenge.
type Intermediate struct {
	Commitment

	t1, t2 curve.Scalar
}

type Proof struct {
	group curve.Curve
	*Commitment

	// Z1 = m⋅e + t₁ (mod q)
	Z1 curve.Scalar

	// Z2 = r⋅e + t₂ (mod q)
	Z2 curve.Scalar
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

// Commit produces the prover's first move with fresh blinding.
func Commit(rand io.Reader, group curve.Curve) *Intermediate {
	t1 := sample.Scalar(rand, group)
	t2 := sample.Scalar(rand, group)
	return &Intermediate{
		Commitment: Commitment{
			Alpha: t1.ActOnBase().Add(t2.Act(group.NewSecondBasePoint())),
		},
		t1: t1,
		t2: t2,
	}
}

// FinalizeWithChallenge completes the proof under an externally fixed challenge.
func (i *Intermediate) FinalizeWithChallenge(group curve.Curve, e curve.Scalar, private Private) *Proof {
	return &Proof{
		group:      group,
		Commitment: &i.Commitment,
		Z1:         group.NewScalar().Set(e).Mul(private.M).Add(i.t1),
		Z2:         group.NewScalar().Set(e).Mul(private.R).Add(i.t2),
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

// VerifyWithChallenge checks g⋅z₁ + h⋅z₂ = e⋅C + α.
func (p *Proof) VerifyWithChallenge(public Public, e curve.Scalar) bool {
	if !p.IsValid(public) {
		return false
	}
	group := p.group
	lhs := p.Z1.ActOnBase().Add(group.NewScalar().Set(p.Z2).Act(group.NewSecondBasePoint()))
	rhs := group.NewScalar().Set(e).Act(public.C).Add(p.Alpha)
	return lhs.Equal(rhs)
}

func challenge(h *hash.Hash, group curve.Curve, public Public, commitment *Commitment) curve.Scalar {
	_ = h.WriteAny([]byte(domain), public.C, commitment.Alpha)
	return sample.Scalar(h.Digest(), group)
}

func Empty(group curve.Curve) *Proof {
	return &Proof{
		group:      group,
		Commitment: &Commitment{Alpha: group.NewPoint()},
		Z1:         group.NewScalar(),
		Z2:         group.NewScalar(),
	}
}
