// Package zkopeningmulti proves knowledge of an opening (m₁…mₗ, r) of a
// Pedersen vector commitment C = Σ mᵢ⋅gᵢ + r⋅h.
package zkopeningmulti

import (
	"crypto/rand"
	"io"

	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
)

const domain = "open-multi-proof"

type Public struct {
	// C = Σ mᵢ⋅gᵢ + r⋅h
	C curve.Point

	// Gens are the vector commitment generators g₁…gₗ.
	Gens []curve.Point
}

type Private struct {
	// Ms = m₁…mₗ
	Ms []curve.Scalar

	// R = r
	R curve.Scalar
}

type Commitment struct {
	// Alpha = Σ tᵢ⋅gᵢ + t_r⋅h
	Alpha curve.Point
}

type Intermediate struct {
	Commitment

	ts []curve.Scalar
	tr curve.Scalar
}

type Proof struct {
	group curve.Curve
	*Commitment

	// Zs[i] = mᵢ⋅e + tᵢ (mod q)
	Zs []curve.Scalar

	// ZR = r⋅e + t_r (mod q)
	ZR curve.Scalar
}

func (p *Proof) IsValid(public Public) bool {
	if p == nil || p.Commitment == nil {
		return false
	}
	if p.Alpha.IsIdentity() {
		return false
	}
	if len(p.Zs) != len(public.Gens) {
		return false
	}
	return true
}

func Commit(rand io.Reader, group curve.Curve, public Public) *Intermediate {
	ts := make([]curve.Scalar, len(public.Gens))
	alpha := group.NewPoint()
	for i := range ts {
		ts[i] = sample.Scalar(rand, group)
		alpha = alpha.Add(ts[i].Act(public.Gens[i]))
	}
	tr := sample.Scalar(rand, group)
	alpha = alpha.Add(tr.Act(group.NewSecondBasePoint()))
	return &Intermediate{
		Commitment: Commitment{Alpha: alpha},
		ts:         ts,
		tr:         tr,
	}
}

func (i *Intermediate) FinalizeWithChallenge(group curve.Curve, e curve.Scalar, private Private) *Proof {
	zs := make([]curve.Scalar, len(private.Ms))
	for j, m := range private.Ms {
		zs[j] = group.NewScalar().Set(e).Mul(m).Add(i.ts[j])
	}
	return &Proof{
		group:      group,
		Commitment: &i.Commitment,
		Zs:         zs,
		ZR:         group.NewScalar().Set(e).Mul(private.R).Add(i.tr),
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

// VerifyWithChallenge checks Σ zᵢ⋅gᵢ + z_r⋅h = e⋅C + α.
func (p *Proof) VerifyWithChallenge(public Public, e curve.Scalar) bool {
	if !p.IsValid(public) {
		return false
	}
	group := p.group
	lhs := group.NewPoint()
	for i, z := range p.Zs {
		lhs = lhs.Add(z.Act(public.Gens[i]))
	}
	lhs = lhs.Add(p.ZR.Act(group.NewSecondBasePoint()))
	rhs := group.NewScalar().Set(e).Act(public.C).Add(p.Alpha)
	return lhs.Equal(rhs)
}

func challenge(h *hash.Hash, group curve.Curve, public Public, commitment *Commitment) curve.Scalar {
	_ = h.WriteAny([]byte(domain), public.C)
	for _, g := range public.Gens {
		_ = h.WriteAny(g)
	}
	_ = h.WriteAny(commitment.Alpha)
	return sample.Scalar(h.Digest(), group)
}

func Empty(group curve.Curve, l int) *Proof {
	zs := make([]curve.Scalar, l)
	for i := range zs {
		zs[i] = group.NewScalar()
	}
	return &Proof{
		group:      group,
		Commitment: &Commitment{Alpha: group.NewPoint()},
		Zs:         zs,
		ZR:         group.NewScalar(),
	}
}
