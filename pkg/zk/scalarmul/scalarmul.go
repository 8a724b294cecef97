// Package zkscalarmul proves S = λ⋅P for public tock points P and committed
// S, λ, following CDLS construction 4.1.
//
// The prover commits to λ and a masking scalar α on the tock curve, to the
// coordinates of S, αP and (α-λ)P on the tick curve, and shows
// αP = λP + (α-λ)P with an embedded point addition proof. A single binary
// challenge picks which side is opened: -1 reveals α and the αP commitments,
// +1 reveals α-λ and the (α-λ)P commitments together with the offset into
// the λ commitment. One run has soundness one half; callers needing full
// soundness use the Fiat-Shamir batched form in this package.
package zkscalarmul

import (
	"crypto/rand"
	"errors"
	"io"

	"github.com/brave-experiments/boomerang/internal/params"
	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
	"github.com/brave-experiments/boomerang/pkg/pedersen"
	zkpointadd "github.com/brave-experiments/boomerang/pkg/zk/pointadd"
)

const domain = "scalar-mul-proof"

var (
	ErrZeroScalar  = errors.New("zkscalarmul: multiplier must be nonzero")
	ErrNotMultiple = errors.New("zkscalarmul: claimed point is not λ⋅P")
)

type Public struct {
	// P is the public base of the multiplication, on the tock curve.
	P curve.Point
}

type Private struct {
	// Lambda is the secret multiplier, a tock scalar.
	Lambda curve.Scalar

	// S = λ⋅P.
	S curve.Point
}

type Commitment struct {
	// C1 commits to λ and C4 to α, both on the tock curve.
	C1, C4 curve.Point

	// C2, C3 commit to the coordinates of S, C5, C6 to those of αP, and
	// C7, C8 to those of (α-λ)P, all on the tick curve.
	C2, C3, C5, C6, C7, C8 curve.Point

	// EAP is the first move of the embedded addition proof for
	// αP = λP + (α-λ)P.
	EAP zkpointadd.Commitment
}

type Intermediate struct {
	Commitment

	alpha  curve.Scalar
	r1, r4 curve.Scalar
	// Tick randomness behind the coordinate commitments of αP and (α-λ)P.
	r5, r6, r7, r8 curve.Scalar

	eap *zkpointadd.Intermediate
}

type Proof struct {
	pair curve.Pair

	C1, C4                 curve.Point
	C2, C3, C5, C6, C7, C8 curve.Point

	// Z1, Z2 are tock scalars: the opened scalar and its commitment
	// randomness for whichever branch the challenge selected.
	Z1, Z2 curve.Scalar

	// Z3, Z4 are tick scalars opening the selected coordinate commitments.
	Z3, Z4 curve.Scalar

	// EAP proves αP = λP + (α-λ)P under the same challenge.
	EAP *zkpointadd.Proof
}

func (p *Proof) IsValid(public Public) bool {
	if p == nil || p.EAP == nil {
		return false
	}
	if p.C1 == nil || p.C4 == nil || p.C1.IsIdentity() || p.C4.IsIdentity() {
		return false
	}
	for _, c := range []curve.Point{p.C2, p.C3, p.C5, p.C6, p.C7, p.C8} {
		if c == nil || c.IsIdentity() {
			return false
		}
	}
	return true
}

// sampleAlpha draws the masking scalar, rejecting the three values that
// would collapse the statement: 0, λ and 2λ.
func sampleAlpha(rand io.Reader, tock curve.Curve, lambda curve.Scalar) curve.Scalar {
	twoLambda := tock.NewScalar().Set(lambda).Add(lambda)
	for {
		alpha := sample.Scalar(rand, tock)
		if !alpha.IsZero() && !alpha.Equal(lambda) && !alpha.Equal(twoLambda) {
			return alpha
		}
	}
}

func Commit(rand io.Reader, pair curve.Pair, public Public, private Private) (*Intermediate, error) {
	tock := pair.Tock
	if private.Lambda.IsZero() {
		return nil, ErrZeroScalar
	}
	if !tock.NewScalar().Set(private.Lambda).Act(public.P).Equal(private.S) {
		return nil, ErrNotMultiple
	}

	c1 := pedersen.New(rand, tock, private.Lambda)
	alpha := sampleAlpha(rand, tock, private.Lambda)

	ap := tock.NewScalar().Set(alpha).Act(public.P)
	amlp := tock.NewScalar().Set(alpha).Sub(private.Lambda).Act(public.P)

	c2, c3 := zkpointadd.CommitCoords(rand, pair, private.S)
	c4 := pedersen.New(rand, tock, alpha)
	c5, c6 := zkpointadd.CommitCoords(rand, pair, ap)
	c7, c8 := zkpointadd.CommitCoords(rand, pair, amlp)

	eapPublic := zkpointadd.Public{
		C1: c2.C, C2: c3.C,
		C3: c7.C, C4: c8.C,
		C5: c5.C, C6: c6.C,
	}
	eapPrivate := zkpointadd.Private{
		A: private.S, B: amlp, T: ap,
		R: [6]curve.Scalar{c2.R, c3.R, c7.R, c8.R, c5.R, c6.R},
	}
	eap, err := zkpointadd.Commit(rand, pair, eapPublic, eapPrivate)
	if err != nil {
		return nil, err
	}

	return &Intermediate{
		Commitment: Commitment{
			C1: c1.C, C4: c4.C,
			C2: c2.C, C3: c3.C,
			C5: c5.C, C6: c6.C,
			C7: c7.C, C8: c8.C,
			EAP: eap.Commitment,
		},
		alpha: alpha,
		r1:    c1.R, r4: c4.R,
		r5: c5.R, r6: c6.R, r7: c7.R, r8: c8.R,
		eap: eap,
	}, nil
}

// FinalizeWithChallenge completes the proof for a binary challenge e ∈ {-1, +1}.
func (i *Intermediate) FinalizeWithChallenge(pair curve.Pair, e curve.Scalar, private Private) *Proof {
	tock := pair.Tock
	es := [4]curve.Scalar{e, e, e, e}

	var z1, z2, z3, z4 curve.Scalar
	if e.Equal(pair.SingleBitChallenge(1)) {
		z1 = tock.NewScalar().Set(i.alpha).Sub(private.Lambda)
		z2 = tock.NewScalar().Set(i.r4).Sub(i.r1)
		z3 = i.r7
		z4 = i.r8
	} else {
		z1 = tock.NewScalar().Set(i.alpha)
		z2 = i.r4
		z3 = i.r5
		z4 = i.r6
	}

	return &Proof{
		pair: pair,
		C1:   i.C1, C4: i.C4,
		C2: i.C2, C3: i.C3,
		C5: i.C5, C6: i.C6,
		C7: i.C7, C8: i.C8,
		Z1: z1, Z2: z2, Z3: z3, Z4: z4,
		EAP: i.eap.FinalizeWithChallenges(pair.Tick, es),
	}
}

func NewProof(pair curve.Pair, h *hash.Hash, public Public, private Private) (*Proof, error) {
	i, err := Commit(rand.Reader, pair, public, private)
	if err != nil {
		return nil, err
	}
	e := challenge(h, pair, public, &i.Commitment)
	return i.FinalizeWithChallenge(pair, e, private), nil
}

func (p *Proof) Verify(h *hash.Hash, public Public) bool {
	if !p.IsValid(public) {
		return false
	}
	e := challenge(h, p.pair, public, p.Commitment())
	return p.VerifyWithChallenge(public, e)
}

// VerifyWithChallenge checks the branch selected by e: the revealed scalar
// times P must match the opened coordinate commitments, the tock commitment
// relation must hold, and the embedded addition proof must verify under the
// same challenge.
func (p *Proof) VerifyWithChallenge(public Public, e curve.Scalar) bool {
	if !p.IsValid(public) {
		return false
	}
	pair := p.pair
	tock := pair.Tock

	z1p := tock.NewScalar().Set(p.Z1).Act(public.P)
	if z1p.IsIdentity() {
		return false
	}
	zx := pair.FromOtherBase(z1p.XBytes())
	zy := pair.FromOtherBase(z1p.YBytes())

	var ok bool
	if e.Equal(pair.SingleBitChallenge(1)) {
		ok = p.C4.Sub(p.C1).Equal(pedersen.NewWith(tock, p.Z1, p.Z2).C) &&
			p.C7.Equal(pedersen.NewWith(pair.Tick, zx, p.Z3).C) &&
			p.C8.Equal(pedersen.NewWith(pair.Tick, zy, p.Z4).C)
	} else {
		ok = p.C4.Equal(pedersen.NewWith(tock, p.Z1, p.Z2).C) &&
			p.C5.Equal(pedersen.NewWith(pair.Tick, zx, p.Z3).C) &&
			p.C6.Equal(pedersen.NewWith(pair.Tick, zy, p.Z4).C)
	}

	es := [4]curve.Scalar{e, e, e, e}
	return ok && p.EAP.VerifyWithChallenges(p.eapPublic(), es)
}

func (p *Proof) eapPublic() zkpointadd.Public {
	return zkpointadd.Public{
		C1: p.C2, C2: p.C3,
		C3: p.C7, C4: p.C8,
		C5: p.C5, C6: p.C6,
	}
}

func (c *Commitment) eapPublic() zkpointadd.Public {
	return zkpointadd.Public{
		C1: c.C2, C2: c.C3,
		C3: c.C7, C4: c.C8,
		C5: c.C5, C6: c.C6,
	}
}

// Absorb writes the statement and the full first move, including the
// embedded addition proof's first move, into a transcript.
func (c *Commitment) Absorb(h *hash.Hash, public Public) {
	_ = h.WriteAny([]byte(domain), public.P,
		c.C1, c.C2, c.C3, c.C4, c.C5, c.C6, c.C7, c.C8)
	c.EAP.Absorb(h, c.eapPublic())
}

// Commitment rebuilds the first move carried inside a finished proof.
func (p *Proof) Commitment() *Commitment {
	return &Commitment{
		C1: p.C1, C4: p.C4,
		C2: p.C2, C3: p.C3,
		C5: p.C5, C6: p.C6,
		C7: p.C7, C8: p.C8,
		EAP: *p.EAP.Commitment(),
	}
}

func challenge(h *hash.Hash, pair curve.Pair, public Public, commitment *Commitment) curve.Scalar {
	commitment.Absorb(h, public)
	buf := make([]byte, params.ChallengeBytes)
	if _, err := io.ReadFull(h.Digest(), buf); err != nil {
		panic(err)
	}
	return pair.SingleBitChallenge(buf[len(buf)-1])
}

func Empty(pair curve.Pair) *Proof {
	tick, tock := pair.Tick, pair.Tock
	return &Proof{
		pair: pair,
		C1:   tock.NewPoint(), C4: tock.NewPoint(),
		C2: tick.NewPoint(), C3: tick.NewPoint(),
		C5: tick.NewPoint(), C6: tick.NewPoint(),
		C7: tick.NewPoint(), C8: tick.NewPoint(),
		Z1: tock.NewScalar(), Z2: tock.NewScalar(),
		Z3: tick.NewScalar(), Z4: tick.NewScalar(),
		EAP: zkpointadd.Empty(tick),
	}
}
