// Package zkpointadd proves, in commitments on the tick curve, that three
// points on the linked tock curve satisfy t = a + b.
//
// The statement is six Pedersen commitments to the affine coordinates of a,
// b and t. The prover additionally commits to the gradient τ of the chord
// through a and b, and shows with three multiplication proofs and one opening
// proof that the committed coordinates satisfy the chord-and-tangent addition
// formulas:
//
//	τ⋅(b.x - a.x) = b.y - a.y
//	τ⋅τ           = a.x + b.x + t.x
//	τ⋅(a.x - t.x) = a.y + t.y
//
// Each sub-proof consumes its own slice of a single combined challenge
// buffer. When the proof is embedded inside a scalar multiplication proof the
// four slots instead all carry the same external binary challenge.
package zkpointadd

import (
	"crypto/rand"
	"errors"
	"io"

	"github.com/cronokirby/saferith"

	"github.com/brave-experiments/boomerang/internal/params"
	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/pedersen"
	zkmul "github.com/brave-experiments/boomerang/pkg/zk/mul"
	zkopening "github.com/brave-experiments/boomerang/pkg/zk/opening"
)

const domain = "point-add-proof"

var (
	ErrIdentity    = errors.New("zkpointadd: point at infinity has no affine coordinates")
	ErrSharedX     = errors.New("zkpointadd: summands share an x coordinate")
	ErrSumMismatch = errors.New("zkpointadd: claimed sum does not equal a + b")
)

type Public struct {
	// C1, C2 commit to the affine coordinates of a.
	C1, C2 curve.Point

	// C3, C4 commit to the affine coordinates of b.
	C3, C4 curve.Point

	// C5, C6 commit to the affine coordinates of t = a + b.
	C5, C6 curve.Point
}

type Private struct {
	// A, B are the summands on the tock curve, and T their sum.
	A, B, T curve.Point

	// R holds the commitment randomness behind C1 through C6, in order.
	R [6]curve.Scalar
}

type Commitment struct {
	// C7 commits to the chord gradient τ.
	C7 curve.Point

	MP1, MP2, MP3 zkmul.Commitment
	Op            zkopening.Commitment
}

type Intermediate struct {
	Commitment

	mp1, mp2, mp3 *zkmul.Intermediate
	op            *zkopening.Intermediate

	mp1Priv, mp2Priv, mp3Priv zkmul.Private
	opPriv                    zkopening.Private
}

type Proof struct {
	group curve.Curve

	// C7 commits to the chord gradient τ.
	C7 curve.Point

	// MP1 proves τ⋅(b.x - a.x) = b.y - a.y.
	MP1 *zkmul.Proof
	// MP2 proves τ⋅τ = a.x + b.x + t.x.
	MP2 *zkmul.Proof
	// MP3 proves τ⋅(a.x - t.x) = a.y + t.y.
	MP3 *zkmul.Proof
	// Op proves knowledge of an opening of C2.
	Op *zkopening.Proof
}

func (p *Proof) IsValid(public Public) bool {
	if p == nil || p.C7 == nil || p.C7.IsIdentity() {
		return false
	}
	if p.MP1 == nil || p.MP2 == nil || p.MP3 == nil || p.Op == nil {
		return false
	}
	return true
}

// CommitCoords commits to both affine coordinates of a tock point on the
// tick curve.
func CommitCoords(rand io.Reader, pair curve.Pair, p curve.Point) (cx, cy pedersen.Commitment) {
	cx = pedersen.New(rand, pair.Tick, pair.FromOtherBase(p.XBytes()))
	cy = pedersen.New(rand, pair.Tick, pair.FromOtherBase(p.YBytes()))
	return cx, cy
}

// chordGradient computes (b.y - a.y) / (b.x - a.x) in the tock base field and
// carries the result over to a tick scalar.
func chordGradient(pair curve.Pair, a, b curve.Point) (curve.Scalar, error) {
	field := pair.Tock.Field()
	ax := new(saferith.Nat).SetBytes(a.XBytes())
	ay := new(saferith.Nat).SetBytes(a.YBytes())
	bx := new(saferith.Nat).SetBytes(b.XBytes())
	by := new(saferith.Nat).SetBytes(b.YBytes())

	dx := new(saferith.Nat).ModSub(bx, ax, field)
	if dx.EqZero() == 1 {
		return nil, ErrSharedX
	}
	dy := new(saferith.Nat).ModSub(by, ay, field)
	tau := new(saferith.Nat).ModMul(dy, new(saferith.Nat).ModInverse(dx, field), field)

	buf := make([]byte, (field.BitLen()+7)/8)
	tau.FillBytes(buf)
	return pair.FromOtherBase(buf), nil
}

// Commit produces the prover's first move: the gradient commitment C7 and
// the first moves of the four sub-proofs.
func Commit(rand io.Reader, pair curve.Pair, public Public, private Private) (*Intermediate, error) {
	group := pair.Tick
	if private.A.IsIdentity() || private.B.IsIdentity() || private.T.IsIdentity() {
		return nil, ErrIdentity
	}
	if !private.A.Add(private.B).Equal(private.T) {
		return nil, ErrSumMismatch
	}
	tau, err := chordGradient(pair, private.A, private.B)
	if err != nil {
		return nil, err
	}
	c7 := pedersen.New(rand, group, tau)

	ax := pair.FromOtherBase(private.A.XBytes())
	ay := pair.FromOtherBase(private.A.YBytes())
	bx := pair.FromOtherBase(private.B.XBytes())
	tx := pair.FromOtherBase(private.T.XBytes())

	r1, r2, r3 := private.R[0], private.R[1], private.R[2]
	r4, r5, r6 := private.R[3], private.R[4], private.R[5]

	mp1Priv := zkmul.Private{
		X:   group.NewScalar().Set(bx).Sub(ax),
		Y:   tau,
		RX:  group.NewScalar().Set(r3).Sub(r1),
		RY:  c7.R,
		RXY: group.NewScalar().Set(r4).Sub(r2),
	}
	mp2Priv := zkmul.Private{
		X:   tau,
		Y:   tau,
		RX:  c7.R,
		RY:  c7.R,
		RXY: group.NewScalar().Set(r1).Add(r3).Add(r5),
	}
	mp3Priv := zkmul.Private{
		X:   tau,
		Y:   group.NewScalar().Set(ax).Sub(tx),
		RX:  c7.R,
		RY:  group.NewScalar().Set(r1).Sub(r5),
		RXY: group.NewScalar().Set(r2).Add(r6),
	}
	opPriv := zkopening.Private{M: ay, R: r2}

	mp1 := zkmul.Commit(rand, group, mp1Public(public, c7.C))
	mp2 := zkmul.Commit(rand, group, mp2Public(public, c7.C))
	mp3 := zkmul.Commit(rand, group, mp3Public(public, c7.C))
	op := zkopening.Commit(rand, group)

	return &Intermediate{
		Commitment: Commitment{
			C7:  c7.C,
			MP1: mp1.Commitment,
			MP2: mp2.Commitment,
			MP3: mp3.Commitment,
			Op:  op.Commitment,
		},
		mp1: mp1, mp2: mp2, mp3: mp3, op: op,
		mp1Priv: mp1Priv, mp2Priv: mp2Priv, mp3Priv: mp3Priv,
		opPriv: opPriv,
	}, nil
}

// FinalizeWithChallenges completes the proof, handing each sub-proof its own
// challenge slot.
func (i *Intermediate) FinalizeWithChallenges(group curve.Curve, es [4]curve.Scalar) *Proof {
	return &Proof{
		group: group,
		C7:    i.C7,
		MP1:   i.mp1.FinalizeWithChallenge(group, es[0], i.mp1Priv),
		MP2:   i.mp2.FinalizeWithChallenge(group, es[1], i.mp2Priv),
		MP3:   i.mp3.FinalizeWithChallenge(group, es[2], i.mp3Priv),
		Op:    i.op.FinalizeWithChallenge(group, es[3], i.opPriv),
	}
}

func NewProof(pair curve.Pair, h *hash.Hash, public Public, private Private) (*Proof, error) {
	i, err := Commit(rand.Reader, pair, public, private)
	if err != nil {
		return nil, err
	}
	es := challenge(h, pair.Tick, public, &i.Commitment)
	return i.FinalizeWithChallenges(pair.Tick, es), nil
}

func (p *Proof) Verify(h *hash.Hash, public Public) bool {
	if !p.IsValid(public) {
		return false
	}
	es := challenge(h, p.group, public, p.Commitment())
	return p.VerifyWithChallenges(public, es)
}

// VerifyWithChallenges checks the sub-proofs against the derived commitment
// combinations under externally fixed challenges.
func (p *Proof) VerifyWithChallenges(public Public, es [4]curve.Scalar) bool {
	if !p.IsValid(public) {
		return false
	}
	if !p.MP1.VerifyWithChallenge(mp1Public(public, p.C7), es[0]) {
		return false
	}
	if !p.MP2.VerifyWithChallenge(mp2Public(public, p.C7), es[1]) {
		return false
	}
	if !p.MP3.VerifyWithChallenge(mp3Public(public, p.C7), es[2]) {
		return false
	}
	return p.Op.VerifyWithChallenge(zkopening.Public{C: public.C2}, es[3])
}

func mp1Public(public Public, c7 curve.Point) zkmul.Public {
	return zkmul.Public{
		CX:  public.C3.Sub(public.C1),
		CY:  c7,
		CXY: public.C4.Sub(public.C2),
	}
}

func mp2Public(public Public, c7 curve.Point) zkmul.Public {
	return zkmul.Public{
		CX:  c7,
		CY:  c7,
		CXY: public.C1.Add(public.C3).Add(public.C5),
	}
}

func mp3Public(public Public, c7 curve.Point) zkmul.Public {
	return zkmul.Public{
		CX:  c7,
		CY:  public.C1.Sub(public.C5),
		CXY: public.C2.Add(public.C6),
	}
}

// Absorb writes the statement and the first move into a transcript. Parent
// proofs embedding this one call it before drawing their own challenge.
func (c *Commitment) Absorb(h *hash.Hash, public Public) {
	_ = h.WriteAny([]byte(domain),
		public.C1, public.C2, public.C3, public.C4, public.C5, public.C6,
		c.C7,
		c.MP1.Alpha, c.MP1.Beta, c.MP1.Delta,
		c.MP2.Alpha, c.MP2.Beta, c.MP2.Delta,
		c.MP3.Alpha, c.MP3.Beta, c.MP3.Delta,
		c.Op.Alpha)
}

// Commitment reassembles the first move carried inside a finished proof.
func (p *Proof) Commitment() *Commitment {
	return &Commitment{
		C7:  p.C7,
		MP1: *p.MP1.Commitment,
		MP2: *p.MP2.Commitment,
		MP3: *p.MP3.Commitment,
		Op:  *p.Op.Commitment,
	}
}

func challenge(h *hash.Hash, group curve.Curve, public Public, commitment *Commitment) [4]curve.Scalar {
	commitment.Absorb(h, public)
	digest := h.Digest()
	buf := make([]byte, params.ChallengeBytes)
	var out [4]curve.Scalar
	for i := range out {
		if _, err := io.ReadFull(digest, buf); err != nil {
			panic(err)
		}
		out[i] = curve.ScalarFromChallenge(group, buf)
	}
	return out
}

func Empty(group curve.Curve) *Proof {
	return &Proof{
		group: group,
		C7:    group.NewPoint(),
		MP1:   zkmul.Empty(group),
		MP2:   zkmul.Empty(group),
		MP3:   zkmul.Empty(group),
		Op:    zkopening.Empty(group),
	}
}
