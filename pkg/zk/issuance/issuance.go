// Package zkissuance proves knowledge of the opening of a vector commitment
// whose second slot is zero and whose third slot is the discrete log of a
// public key. It is the proof accompanying the first move of token issuance.
package zkissuance

import (
	"crypto/rand"
	"io"

	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
)

const domain = "issuance-proof"

// zeroSlot is the reserved slot of the committed vector: its value must be
// zero, which the proof enforces by fixing the corresponding response to zero.
const zeroSlot = 1

// keySlot is the slot holding the user's signing scalar.
const keySlot = 2

type Public struct {
	// C = Σ mᵢ⋅gᵢ + r⋅h
	C curve.Point

	// PK = m₂⋅g, the user's public key.
	PK curve.Point

	// Gens are the vector commitment generators.
	Gens []curve.Point
}

type Private struct {
	// Ms is the committed vector; Ms[1] must be zero and Ms[2] the secret key.
	Ms []curve.Scalar

	// R is the commitment randomness.
	R curve.Scalar
}

type Commitment struct {
	// Alpha = Σ tᵢ⋅gᵢ + t_r⋅h, with t₁ fixed to zero.
	Alpha curve.Point

	// Alpha2 = t₂⋅g binds the key slot to PK.
	Alpha2 curve.Point
}

type Intermediate struct {
	Commitment

	ts []curve.Scalar
	tr curve.Scalar
}

type Proof struct {
	group curve.Curve
	*Commitment

	// Zs[i] = mᵢ⋅e + tᵢ (mod q), except Zs[1] = 0.
	Zs []curve.Scalar

	// ZR = r⋅e + t_r (mod q)
	ZR curve.Scalar
}

func (p *Proof) IsValid(public Public) bool {
	if p == nil || p.Commitment == nil {
		return false
	}
	if p.Alpha.IsIdentity() || p.Alpha2.IsIdentity() {
		return false
	}
	if len(p.Zs) != len(public.Gens) || len(p.Zs) <= keySlot {
		return false
	}
	// A nonzero response in the reserved slot would prove a different statement.
	if !p.Zs[zeroSlot].IsZero() {
		return false
	}
	return true
}

func Commit(rand io.Reader, group curve.Curve, public Public) *Intermediate {
	ts := make([]curve.Scalar, len(public.Gens))
	alpha := group.NewPoint()
	for i := range ts {
		if i == zeroSlot {
			ts[i] = group.NewScalar()
			continue
		}
		ts[i] = sample.Scalar(rand, group)
		alpha = alpha.Add(ts[i].Act(public.Gens[i]))
	}
	tr := sample.Scalar(rand, group)
	alpha = alpha.Add(tr.Act(group.NewSecondBasePoint()))
	return &Intermediate{
		Commitment: Commitment{
			Alpha:  alpha,
			Alpha2: ts[keySlot].ActOnBase(),
		},
		ts: ts,
		tr: tr,
	}
}

func (i *Intermediate) FinalizeWithChallenge(group curve.Curve, e curve.Scalar, private Private) *Proof {
	zs := make([]curve.Scalar, len(private.Ms))
	for j, m := range private.Ms {
		if j == zeroSlot {
			zs[j] = group.NewScalar()
			continue
		}
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

// VerifyWithChallenge checks
//
//	z₂⋅g                 = e⋅PK + α₂
//	Σ zᵢ⋅gᵢ + z_r⋅h      = e⋅C + α
func (p *Proof) VerifyWithChallenge(public Public, e curve.Scalar) bool {
	if !p.IsValid(public) {
		return false
	}
	group := p.group

	lhs := p.Zs[keySlot].ActOnBase()
	rhs := group.NewScalar().Set(e).Act(public.PK).Add(p.Alpha2)
	if !lhs.Equal(rhs) {
		return false
	}

	lhs = group.NewPoint()
	for i, z := range p.Zs {
		if i == zeroSlot {
			continue
		}
		lhs = lhs.Add(z.Act(public.Gens[i]))
	}
	lhs = lhs.Add(p.ZR.Act(group.NewSecondBasePoint()))
	rhs = group.NewScalar().Set(e).Act(public.C).Add(p.Alpha)
	return lhs.Equal(rhs)
}

func challenge(h *hash.Hash, group curve.Curve, public Public, commitment *Commitment) curve.Scalar {
	_ = h.WriteAny([]byte(domain), public.C, public.PK, commitment.Alpha, commitment.Alpha2)
	return sample.Scalar(h.Digest(), group)
}

func Empty(group curve.Curve, l int) *Proof {
	zs := make([]curve.Scalar, l)
	for i := range zs {
		zs[i] = group.NewScalar()
	}
	return &Proof{
		group:      group,
		Commitment: &Commitment{Alpha: group.NewPoint(), Alpha2: group.NewPoint()},
		Zs:         zs,
		ZR:         group.NewScalar(),
	}
}
