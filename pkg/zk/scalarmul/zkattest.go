package zkscalarmul

import (
	"crypto/rand"
	"io"

	"github.com/brave-experiments/boomerang/internal/params"
	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/pedersen"
	zkpointadd "github.com/brave-experiments/boomerang/pkg/zk/pointadd"
)

// The ZKAttest formulation of the scalar multiplication proof. The statement
// and masking are the same as the CDLS form, but two challenge bits are
// drawn: the first selects the opened branch, and the embedded point
// addition proof is only finished, under the second bit, when the hidden
// branch is selected. When the addition proof is not finished its first move
// still travels with the proof so the verifier can replay the transcript.

const attestDomain = "zk-attest-scalar-mul-proof"

type AttestProof struct {
	pair curve.Pair

	// C1 commits to λ and A1 to α, both on the tock curve.
	C1, A1 curve.Point

	// C2, C3 commit to the coordinates of S, C4, C5 to those of (α-λ)P,
	// and A2, A3 to those of αP, all on the tick curve.
	C2, C3, C4, C5, A2, A3 curve.Point

	Z1, Z2 curve.Scalar
	Z3, Z4 curve.Scalar

	// PA proves (α-λ)P + S = αP. Exactly one of PA and PACommit is set:
	// the finished proof when the first challenge bit was one, the bare
	// first move otherwise.
	PA       *zkpointadd.AttestProof
	PACommit *zkpointadd.AttestCommitment
}

func (p *AttestProof) IsValid(public Public) bool {
	if p == nil || p.C1 == nil || p.A1 == nil {
		return false
	}
	if (p.PA == nil) == (p.PACommit == nil) {
		return false
	}
	for _, c := range []curve.Point{p.C1, p.A1, p.C2, p.C3, p.C4, p.C5, p.A2, p.A3} {
		if c == nil || c.IsIdentity() {
			return false
		}
	}
	return true
}

func NewAttestProof(pair curve.Pair, h *hash.Hash, public Public, private Private) (*AttestProof, error) {
	tock := pair.Tock
	if private.Lambda.IsZero() {
		return nil, ErrZeroScalar
	}
	if !tock.NewScalar().Set(private.Lambda).Act(public.P).Equal(private.S) {
		return nil, ErrNotMultiple
	}

	c1 := pedersen.New(rand.Reader, tock, private.Lambda)
	c2, c3 := zkpointadd.CommitCoords(rand.Reader, pair, private.S)

	alpha := sampleAlpha(rand.Reader, tock, private.Lambda)
	gamma := tock.NewScalar().Set(alpha).Act(public.P)
	amlp := tock.NewScalar().Set(alpha).Sub(private.Lambda).Act(public.P)

	a1 := pedersen.New(rand.Reader, tock, alpha)
	a2, a3 := zkpointadd.CommitCoords(rand.Reader, pair, gamma)
	c4, c5 := zkpointadd.CommitCoords(rand.Reader, pair, amlp)

	attestAbsorb(h, public, c1.C, c2.C, c3.C, c4.C, c5.C, a1.C, a2.C, a3.C)

	paPublic := zkpointadd.Public{
		C1: c4.C, C2: c5.C,
		C3: c2.C, C4: c3.C,
		C5: a2.C, C6: a3.C,
	}
	paPrivate := zkpointadd.Private{
		A: amlp, B: private.S, T: gamma,
		R: [6]curve.Scalar{c4.R, c5.R, c2.R, c3.R, a2.R, a3.R},
	}
	pa, err := zkpointadd.AttestCommit(rand.Reader, pair, paPublic, paPrivate)
	if err != nil {
		return nil, err
	}
	pa.AttestCommitment.Absorb(h, paPublic)

	b0, b1 := attestChallengeBits(h)

	proof := &AttestProof{
		pair: pair,
		C1:   c1.C, A1: a1.C,
		C2: c2.C, C3: c3.C,
		C4: c4.C, C5: c5.C,
		A2: a2.C, A3: a3.C,
	}
	if b0 == 1 {
		proof.Z1 = tock.NewScalar().Set(alpha).Sub(private.Lambda)
		proof.Z2 = tock.NewScalar().Set(a1.R).Sub(c1.R)
		proof.Z3 = c4.R
		proof.Z4 = c5.R
		proof.PA = pa.FinalizeWithChallenge(pair.Tick, pair.SingleBitChallenge(b1))
	} else {
		proof.Z1 = alpha
		proof.Z2 = a1.R
		proof.Z3 = a2.R
		proof.Z4 = a3.R
		proof.PACommit = &pa.AttestCommitment
	}
	return proof, nil
}

func (p *AttestProof) Verify(h *hash.Hash, public Public) bool {
	if !p.IsValid(public) {
		return false
	}
	pair := p.pair
	tock := pair.Tock

	attestAbsorb(h, public, p.C1, p.C2, p.C3, p.C4, p.C5, p.A1, p.A2, p.A3)

	paPublic := zkpointadd.Public{
		C1: p.C4, C2: p.C5,
		C3: p.C2, C4: p.C3,
		C5: p.A2, C6: p.A3,
	}
	paCommit := p.PACommit
	if p.PA != nil {
		paCommit = p.PA.Commitment()
	}
	paCommit.Absorb(h, paPublic)

	b0, b1 := attestChallengeBits(h)

	z1p := tock.NewScalar().Set(p.Z1).Act(public.P)
	if z1p.IsIdentity() {
		return false
	}
	zx := pair.FromOtherBase(z1p.XBytes())
	zy := pair.FromOtherBase(z1p.YBytes())

	opened := pedersen.NewWith(tock, p.Z1, p.Z2).C
	if b0 == 1 {
		if p.PA == nil {
			return false
		}
		return p.A1.Equal(opened.Add(p.C1)) &&
			p.C4.Equal(pedersen.NewWith(pair.Tick, zx, p.Z3).C) &&
			p.C5.Equal(pedersen.NewWith(pair.Tick, zy, p.Z4).C) &&
			p.PA.VerifyWithChallenge(paPublic, pair.SingleBitChallenge(b1))
	}
	if p.PACommit == nil {
		return false
	}
	return p.A1.Equal(opened) &&
		p.A2.Equal(pedersen.NewWith(pair.Tick, zx, p.Z3).C) &&
		p.A3.Equal(pedersen.NewWith(pair.Tick, zy, p.Z4).C)
}

func attestAbsorb(h *hash.Hash, public Public, c1, c2, c3, c4, c5, a1, a2, a3 curve.Point) {
	_ = h.WriteAny([]byte(attestDomain), public.P, c1, c2, c3, c4, c5, a1, a2, a3)
}

func attestChallengeBits(h *hash.Hash) (byte, byte) {
	buf := make([]byte, params.ChallengeBytes)
	if _, err := io.ReadFull(h.Digest(), buf); err != nil {
		panic(err)
	}
	last := buf[len(buf)-1]
	return last & 1, (last >> 1) & 1
}
