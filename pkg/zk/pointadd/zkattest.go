package zkpointadd

import (
	"crypto/rand"
	"io"

	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/pedersen"
	zkequality "github.com/brave-experiments/boomerang/pkg/zk/equality"
	zkmul "github.com/brave-experiments/boomerang/pkg/zk/mul"
)

// The ZKAttest formulation of the same statement. Instead of opening the
// gradient division directly it commits to the inverse of b.x - a.x, shows
// the product with the difference is one, and rebuilds the addition formulas
// from there with four multiplication proofs and two equality proofs.
//
// In the one-shot form every sub-proof draws its own challenge from the
// shared evolving transcript. In the challenge form all six sub-proofs share
// one external challenge.

const attestDomain = "zk-attest-point-add-proof"

type AttestCommitment struct {
	// C8 commits to (b.x - a.x)⁻¹, C10 to the gradient τ, C11 to τ², and
	// C13 to τ⋅(a.x - t.x).
	C8, C10, C11, C13 curve.Point

	MP1, MP2, MP3, MP4 zkmul.Commitment
	Eq1, Eq2           zkequality.Commitment
}

type AttestIntermediate struct {
	AttestCommitment

	mp1, mp2, mp3, mp4 *zkmul.Intermediate
	eq1, eq2           *zkequality.Intermediate

	mp1Priv, mp2Priv, mp3Priv, mp4Priv zkmul.Private
	eq1Priv, eq2Priv                   zkequality.Private
}

type AttestProof struct {
	group curve.Curve

	C8, C10, C11, C13 curve.Point

	// MP1 proves (b.x - a.x)⋅(b.x - a.x)⁻¹ = 1.
	MP1 *zkmul.Proof
	// MP2 proves (b.y - a.y)⋅(b.x - a.x)⁻¹ = τ.
	MP2 *zkmul.Proof
	// MP3 proves τ⋅τ opens C11.
	MP3 *zkmul.Proof
	// MP4 proves τ⋅(a.x - t.x) opens C13.
	MP4 *zkmul.Proof
	// Eq1 proves C11 and C5+C1+C3 hide the same value.
	Eq1 *zkequality.Proof
	// Eq2 proves C13 and C6+C2 hide the same value.
	Eq2 *zkequality.Proof
}

func (p *AttestProof) IsValid(public Public) bool {
	if p == nil || p.C8 == nil || p.C10 == nil || p.C11 == nil || p.C13 == nil {
		return false
	}
	if p.C8.IsIdentity() || p.C10.IsIdentity() || p.C11.IsIdentity() || p.C13.IsIdentity() {
		return false
	}
	if p.MP1 == nil || p.MP2 == nil || p.MP3 == nil || p.MP4 == nil {
		return false
	}
	if p.Eq1 == nil || p.Eq2 == nil {
		return false
	}
	return true
}

// AttestCommit produces the prover's first move of the ZKAttest proof.
func AttestCommit(rand io.Reader, pair curve.Pair, public Public, private Private) (*AttestIntermediate, error) {
	group := pair.Tick
	if private.A.IsIdentity() || private.B.IsIdentity() || private.T.IsIdentity() {
		return nil, ErrIdentity
	}
	if !private.A.Add(private.B).Equal(private.T) {
		return nil, ErrSumMismatch
	}

	ax := pair.FromOtherBase(private.A.XBytes())
	ay := pair.FromOtherBase(private.A.YBytes())
	bx := pair.FromOtherBase(private.B.XBytes())
	by := pair.FromOtherBase(private.B.YBytes())
	tx := pair.FromOtherBase(private.T.XBytes())

	dx := group.NewScalar().Set(bx).Sub(ax)
	if dx.IsZero() {
		return nil, ErrSharedX
	}
	inv := group.NewScalar().Set(dx).Invert()
	dy := group.NewScalar().Set(by).Sub(ay)
	tau := group.NewScalar().Set(dy).Mul(inv)
	xDiff := group.NewScalar().Set(ax).Sub(tx)
	tauXDiff := group.NewScalar().Set(tau).Mul(xDiff)

	c8 := pedersen.New(rand, group, inv)
	c10 := pedersen.New(rand, group, tau)
	c11 := pedersen.New(rand, group, group.NewScalar().Set(tau).Mul(tau))
	c13 := pedersen.New(rand, group, tauXDiff)

	r1, r2, r3 := private.R[0], private.R[1], private.R[2]
	r4, r5, r6 := private.R[3], private.R[4], private.R[5]
	zero := group.NewScalar()

	mp1Priv := zkmul.Private{
		X:   dx,
		Y:   inv,
		RX:  group.NewScalar().Set(r3).Sub(r1),
		RY:  c8.R,
		RXY: zero,
	}
	mp2Priv := zkmul.Private{
		X:   dy,
		Y:   inv,
		RX:  group.NewScalar().Set(r4).Sub(r2),
		RY:  c8.R,
		RXY: c10.R,
	}
	mp3Priv := zkmul.Private{
		X:   tau,
		Y:   tau,
		RX:  c10.R,
		RY:  c10.R,
		RXY: c11.R,
	}
	mp4Priv := zkmul.Private{
		X:   tau,
		Y:   xDiff,
		RX:  c10.R,
		RY:  group.NewScalar().Set(r1).Sub(r5),
		RXY: c13.R,
	}
	eq1Priv := zkequality.Private{
		R1: group.NewScalar().Set(r5).Add(r1).Add(r3),
		R2: c11.R,
	}
	eq2Priv := zkequality.Private{
		R1: c13.R,
		R2: group.NewScalar().Set(r6).Add(r2),
	}

	mp1 := zkmul.Commit(rand, group, attestMP1Public(public, c8.C))
	mp2 := zkmul.Commit(rand, group, attestMP2Public(public, c8.C, c10.C))
	mp3 := zkmul.Commit(rand, group, attestMP3Public(c10.C, c11.C))
	mp4 := zkmul.Commit(rand, group, attestMP4Public(public, c10.C, c13.C))
	eq1 := zkequality.Commit(rand, group)
	eq2 := zkequality.Commit(rand, group)

	return &AttestIntermediate{
		AttestCommitment: AttestCommitment{
			C8: c8.C, C10: c10.C, C11: c11.C, C13: c13.C,
			MP1: mp1.Commitment, MP2: mp2.Commitment,
			MP3: mp3.Commitment, MP4: mp4.Commitment,
			Eq1: eq1.Commitment, Eq2: eq2.Commitment,
		},
		mp1: mp1, mp2: mp2, mp3: mp3, mp4: mp4,
		eq1: eq1, eq2: eq2,
		mp1Priv: mp1Priv, mp2Priv: mp2Priv, mp3Priv: mp3Priv, mp4Priv: mp4Priv,
		eq1Priv: eq1Priv, eq2Priv: eq2Priv,
	}, nil
}

// FinalizeWithChallenge completes the proof with one challenge shared by all
// six sub-proofs.
func (i *AttestIntermediate) FinalizeWithChallenge(group curve.Curve, e curve.Scalar) *AttestProof {
	return &AttestProof{
		group: group,
		C8:    i.C8, C10: i.C10, C11: i.C11, C13: i.C13,
		MP1: i.mp1.FinalizeWithChallenge(group, e, i.mp1Priv),
		MP2: i.mp2.FinalizeWithChallenge(group, e, i.mp2Priv),
		MP3: i.mp3.FinalizeWithChallenge(group, e, i.mp3Priv),
		MP4: i.mp4.FinalizeWithChallenge(group, e, i.mp4Priv),
		Eq1: i.eq1.FinalizeWithChallenge(group, e, i.eq1Priv),
		Eq2: i.eq2.FinalizeWithChallenge(group, e, i.eq2Priv),
	}
}

// NewAttestProof builds the one-shot proof. The sub-proofs run in a fixed
// order over the shared transcript, each drawing its own challenge.
func NewAttestProof(pair curve.Pair, h *hash.Hash, public Public, private Private) (*AttestProof, error) {
	group := pair.Tick
	if private.A.IsIdentity() || private.B.IsIdentity() || private.T.IsIdentity() {
		return nil, ErrIdentity
	}
	if !private.A.Add(private.B).Equal(private.T) {
		return nil, ErrSumMismatch
	}

	ax := pair.FromOtherBase(private.A.XBytes())
	ay := pair.FromOtherBase(private.A.YBytes())
	bx := pair.FromOtherBase(private.B.XBytes())
	by := pair.FromOtherBase(private.B.YBytes())
	tx := pair.FromOtherBase(private.T.XBytes())

	dx := group.NewScalar().Set(bx).Sub(ax)
	if dx.IsZero() {
		return nil, ErrSharedX
	}
	inv := group.NewScalar().Set(dx).Invert()
	dy := group.NewScalar().Set(by).Sub(ay)
	tau := group.NewScalar().Set(dy).Mul(inv)
	xDiff := group.NewScalar().Set(ax).Sub(tx)
	tauXDiff := group.NewScalar().Set(tau).Mul(xDiff)

	c8 := pedersen.New(rand.Reader, group, inv)
	c10 := pedersen.New(rand.Reader, group, tau)
	c11 := pedersen.New(rand.Reader, group, group.NewScalar().Set(tau).Mul(tau))
	c13 := pedersen.New(rand.Reader, group, tauXDiff)

	r1, r2, r3 := private.R[0], private.R[1], private.R[2]
	r4, r5, r6 := private.R[3], private.R[4], private.R[5]
	zero := group.NewScalar()

	attestTranscript(h, public, c8.C, c10.C, c11.C, c13.C)

	mp1 := zkmul.NewProof(group, h, attestMP1Public(public, c8.C), zkmul.Private{
		X: dx, Y: inv,
		RX:  group.NewScalar().Set(r3).Sub(r1),
		RY:  c8.R,
		RXY: zero,
	})
	mp2 := zkmul.NewProof(group, h, attestMP2Public(public, c8.C, c10.C), zkmul.Private{
		X: dy, Y: inv,
		RX:  group.NewScalar().Set(r4).Sub(r2),
		RY:  c8.R,
		RXY: c10.R,
	})
	mp3 := zkmul.NewProof(group, h, attestMP3Public(c10.C, c11.C), zkmul.Private{
		X: tau, Y: tau,
		RX: c10.R, RY: c10.R, RXY: c11.R,
	})
	mp4 := zkmul.NewProof(group, h, attestMP4Public(public, c10.C, c13.C), zkmul.Private{
		X: tau, Y: xDiff,
		RX:  c10.R,
		RY:  group.NewScalar().Set(r1).Sub(r5),
		RXY: c13.R,
	})
	eq1 := zkequality.NewProof(group, h, attestEq1Public(public, c11.C), zkequality.Private{
		R1: group.NewScalar().Set(r5).Add(r1).Add(r3),
		R2: c11.R,
	})
	eq2 := zkequality.NewProof(group, h, attestEq2Public(public, c13.C), zkequality.Private{
		R1: c13.R,
		R2: group.NewScalar().Set(r6).Add(r2),
	})

	return &AttestProof{
		group: group,
		C8:    c8.C, C10: c10.C, C11: c11.C, C13: c13.C,
		MP1: mp1, MP2: mp2, MP3: mp3, MP4: mp4,
		Eq1: eq1, Eq2: eq2,
	}, nil
}

func (p *AttestProof) Verify(h *hash.Hash, public Public) bool {
	if !p.IsValid(public) {
		return false
	}
	attestTranscript(h, public, p.C8, p.C10, p.C11, p.C13)
	if !p.MP1.Verify(h, attestMP1Public(public, p.C8)) {
		return false
	}
	if !p.MP2.Verify(h, attestMP2Public(public, p.C8, p.C10)) {
		return false
	}
	if !p.MP3.Verify(h, attestMP3Public(p.C10, p.C11)) {
		return false
	}
	if !p.MP4.Verify(h, attestMP4Public(public, p.C10, p.C13)) {
		return false
	}
	if !p.Eq1.Verify(h, attestEq1Public(public, p.C11)) {
		return false
	}
	return p.Eq2.Verify(h, attestEq2Public(public, p.C13))
}

// VerifyWithChallenge checks all six sub-proofs under one shared challenge.
func (p *AttestProof) VerifyWithChallenge(public Public, e curve.Scalar) bool {
	if !p.IsValid(public) {
		return false
	}
	if !p.MP1.VerifyWithChallenge(attestMP1Public(public, p.C8), e) {
		return false
	}
	if !p.MP2.VerifyWithChallenge(attestMP2Public(public, p.C8, p.C10), e) {
		return false
	}
	if !p.MP3.VerifyWithChallenge(attestMP3Public(p.C10, p.C11), e) {
		return false
	}
	if !p.MP4.VerifyWithChallenge(attestMP4Public(public, p.C10, p.C13), e) {
		return false
	}
	if !p.Eq1.VerifyWithChallenge(attestEq1Public(public, p.C11), e) {
		return false
	}
	return p.Eq2.VerifyWithChallenge(attestEq2Public(public, p.C13), e)
}

// Absorb writes the statement and every first move into a transcript, for
// parent proofs that embed this one under an external challenge.
func (c *AttestCommitment) Absorb(h *hash.Hash, public Public) {
	attestTranscript(h, public, c.C8, c.C10, c.C11, c.C13)
	_ = h.WriteAny(
		c.MP1.Alpha, c.MP1.Beta, c.MP1.Delta,
		c.MP2.Alpha, c.MP2.Beta, c.MP2.Delta,
		c.MP3.Alpha, c.MP3.Beta, c.MP3.Delta,
		c.MP4.Alpha, c.MP4.Beta, c.MP4.Delta,
		c.Eq1.Alpha, c.Eq2.Alpha)
}

// Commitment reassembles the first move carried inside a finished proof.
func (p *AttestProof) Commitment() *AttestCommitment {
	return &AttestCommitment{
		C8: p.C8, C10: p.C10, C11: p.C11, C13: p.C13,
		MP1: *p.MP1.Commitment, MP2: *p.MP2.Commitment,
		MP3: *p.MP3.Commitment, MP4: *p.MP4.Commitment,
		Eq1: *p.Eq1.Commitment, Eq2: *p.Eq2.Commitment,
	}
}

func attestTranscript(h *hash.Hash, public Public, c8, c10, c11, c13 curve.Point) {
	_ = h.WriteAny([]byte(attestDomain),
		public.C1, public.C2, public.C3, public.C4, public.C5, public.C6,
		c8, c10, c11, c13)
}

// The product with the inverse is checked against a fixed commitment to one
// with zero randomness, which is just the base point.
func attestMP1Public(public Public, c8 curve.Point) zkmul.Public {
	return zkmul.Public{
		CX:  public.C3.Sub(public.C1),
		CY:  c8,
		CXY: c8.Curve().NewBasePoint(),
	}
}

func attestMP2Public(public Public, c8, c10 curve.Point) zkmul.Public {
	return zkmul.Public{
		CX:  public.C4.Sub(public.C2),
		CY:  c8,
		CXY: c10,
	}
}

func attestMP3Public(c10, c11 curve.Point) zkmul.Public {
	return zkmul.Public{CX: c10, CY: c10, CXY: c11}
}

func attestMP4Public(public Public, c10, c13 curve.Point) zkmul.Public {
	return zkmul.Public{
		CX:  c10,
		CY:  public.C1.Sub(public.C5),
		CXY: c13,
	}
}

func attestEq1Public(public Public, c11 curve.Point) zkequality.Public {
	return zkequality.Public{
		C1: public.C5.Add(public.C1).Add(public.C3),
		C2: c11,
	}
}

func attestEq2Public(public Public, c13 curve.Point) zkequality.Public {
	return zkequality.Public{
		C1: c13,
		C2: public.C6.Add(public.C2),
	}
}

func EmptyAttest(group curve.Curve) *AttestProof {
	return &AttestProof{
		group: group,
		C8:    group.NewPoint(),
		C10:   group.NewPoint(),
		C11:   group.NewPoint(),
		C13:   group.NewPoint(),
		MP1:   zkmul.Empty(group),
		MP2:   zkmul.Empty(group),
		MP3:   zkmul.Empty(group),
		MP4:   zkmul.Empty(group),
		Eq1:   zkequality.Empty(group),
		Eq2:   zkequality.Empty(group),
	}
}
