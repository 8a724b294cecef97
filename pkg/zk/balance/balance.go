// Package zkbalance proves that a Pedersen vector commitment
// C = Σ mᵢ⋅gᵢ + r⋅h and a scalar commitment V = m₂⋅f + b⋅f̃ hide the same
// value in the second slot. It links a token's balance to the commitment a
// range proof is run against.
package zkbalance

import (
	"crypto/rand"
	"io"

	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
)

const domain = "balance-proof"

// valueSlot is the slot holding the balance.
const valueSlot = 1

type Public struct {
	// C = Σ mᵢ⋅gᵢ + r⋅h
	C curve.Point

	// V = m₂⋅F + b⋅FBlinding
	V curve.Point

	// Gens are the vector commitment generators.
	Gens []curve.Point

	// F and FBlinding are the bases of the scalar commitment.
	F         curve.Point
	FBlinding curve.Point
}

type Private struct {
	// Ms is the committed vector.
	Ms []curve.Scalar

	// R is the vector commitment randomness.
	R curve.Scalar

	// B is the scalar commitment blinding.
	B curve.Scalar
}

type Commitment struct {
	// Alpha = Σ tᵢ⋅gᵢ + t_r⋅h
	Alpha curve.Point

	// Beta = t₂⋅F + t_b⋅FBlinding
	Beta curve.Point
}

type Intermediate struct {
	Commitment

	ts []curve.Scalar
	tr curve.Scalar
	tb curve.Scalar
}

type Proof struct {
	group curve.Curve
	*Commitment

	// Zs[i] = mᵢ⋅e + tᵢ (mod q)
	Zs []curve.Scalar

	// ZR = r⋅e + t_r (mod q)
	ZR curve.Scalar

	// ZB = b⋅e + t_b (mod q)
	ZB curve.Scalar
}

func (p *Proof) IsValid(public Public) bool {
	if p == nil || p.Commitment == nil || p.Beta == nil {
		return false
	}
	if p.Alpha.IsIdentity() || p.Beta.IsIdentity() {
		return false
	}
	if len(p.Zs) != len(public.Gens) || len(p.Zs) <= valueSlot {
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
	tb := sample.Scalar(rand, group)
	beta := group.NewScalar().Set(ts[valueSlot]).Act(public.F).
		Add(tb.Act(public.FBlinding))
	return &Intermediate{
		Commitment: Commitment{Alpha: alpha, Beta: beta},
		ts:         ts,
		tr:         tr,
		tb:         tb,
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
		ZB:         group.NewScalar().Set(e).Mul(private.B).Add(i.tb),
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

// VerifyWithChallenge checks
//
//	Σ zᵢ⋅gᵢ + z_r⋅h      = e⋅C + α
//	z₂⋅F + z_b⋅FBlinding = e⋅V + β
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
	if !lhs.Equal(rhs) {
		return false
	}

	lhs = p.Zs[valueSlot].Act(public.F).Add(p.ZB.Act(public.FBlinding))
	rhs = group.NewScalar().Set(e).Act(public.V).Add(p.Beta)
	return lhs.Equal(rhs)
}

func challenge(h *hash.Hash, group curve.Curve, public Public, commitment *Commitment) curve.Scalar {
	_ = h.WriteAny([]byte(domain), public.C, public.V)
	for _, g := range public.Gens {
		_ = h.WriteAny(g)
	}
	_ = h.WriteAny(public.F, public.FBlinding, commitment.Alpha, commitment.Beta)
	return sample.Scalar(h.Digest(), group)
}

// Empty returns a proof ready to be unmarshalled, for a commitment over l
// generators.
func Empty(group curve.Curve, l int) *Proof {
	zs := make([]curve.Scalar, l)
	for i := range zs {
		zs[i] = group.NewScalar()
	}
	return &Proof{
		group: group,
		Commitment: &Commitment{
			Alpha: group.NewPoint(),
			Beta:  group.NewPoint(),
		},
		Zs: zs,
		ZR: group.NewScalar(),
		ZB: group.NewScalar(),
	}
}
