// Package zkzeroone proves that a Pedersen commitment opens to a bit, using
// the Groth-Kohlweiss identity m(m-1) = 0.
package zkzeroone

import (
	"crypto/rand"
	"io"

	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
)

const domain = "zero-one-proof"

type Public struct {
	// C = m⋅g + r⋅h with m ∈ {0, 1}
	C curve.Point
}

type Private struct {
	// M = m
	M curve.Scalar

	// R = r
	R curve.Scalar
}

type Commitment struct {
	// CA = a⋅g + s⋅h
	CA curve.Point

	// CB = a⋅m⋅g + t⋅h
	CB curve.Point
}

type Intermediate struct {
	Commitment

	a, s, t curve.Scalar
}

type Proof struct {
	group curve.Curve
	*Commitment

	// F = m⋅e + a (mod q)
	F curve.Scalar

	// ZA = r⋅e + s (mod q)
	ZA curve.Scalar

	// ZB = r⋅(e-f) + t (mod q)
	ZB curve.Scalar
}

func (p *Proof) IsValid(public Public) bool {
	if p == nil || p.Commitment == nil {
		return false
	}
	if p.CA.IsIdentity() || p.CB.IsIdentity() {
		return false
	}
	return true
}

func Commit(rand io.Reader, group curve.Curve, private Private) *Intermediate {
	a := sample.Scalar(rand, group)
	s := sample.Scalar(rand, group)
	t := sample.Scalar(rand, group)
	h := group.NewSecondBasePoint()
	am := group.NewScalar().Set(a).Mul(private.M)
	return &Intermediate{
		Commitment: Commitment{
			CA: a.ActOnBase().Add(s.Act(h)),
			CB: am.ActOnBase().Add(t.Act(h)),
		},
		a: a, s: s, t: t,
	}
}

func (i *Intermediate) FinalizeWithChallenge(group curve.Curve, e curve.Scalar, private Private) *Proof {
	f := group.NewScalar().Set(e).Mul(private.M).Add(i.a)
	emf := group.NewScalar().Set(e).Sub(f)
	return &Proof{
		group:      group,
		Commitment: &i.Commitment,
		F:          f,
		ZA:         group.NewScalar().Set(e).Mul(private.R).Add(i.s),
		ZB:         emf.Mul(private.R).Add(i.t),
	}
}

func NewProof(group curve.Curve, h *hash.Hash, public Public, private Private) *Proof {
	i := Commit(rand.Reader, group, private)
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
//	ca + e⋅C     = f⋅g + z_a⋅h
//	cb + (e-f)⋅C = z_b⋅h
func (p *Proof) VerifyWithChallenge(public Public, e curve.Scalar) bool {
	if !p.IsValid(public) {
		return false
	}
	group := p.group
	h := group.NewSecondBasePoint()

	lhs := p.CA.Add(group.NewScalar().Set(e).Act(public.C))
	rhs := p.F.ActOnBase().Add(p.ZA.Act(h))
	if !lhs.Equal(rhs) {
		return false
	}

	emf := group.NewScalar().Set(e).Sub(p.F)
	lhs = p.CB.Add(emf.Act(public.C))
	rhs = p.ZB.Act(h)
	return lhs.Equal(rhs)
}

func challenge(h *hash.Hash, group curve.Curve, public Public, commitment *Commitment) curve.Scalar {
	_ = h.WriteAny([]byte(domain), public.C, commitment.CA, commitment.CB)
	return sample.Scalar(h.Digest(), group)
}

func Empty(group curve.Curve) *Proof {
	return &Proof{
		group:      group,
		Commitment: &Commitment{CA: group.NewPoint(), CB: group.NewPoint()},
		F:          group.NewScalar(),
		ZA:         group.NewScalar(),
		ZB:         group.NewScalar(),
	}
}
