package bulletproofs

import (
	"io"

	"github.com/brave-experiments/boomerang/internal/zero"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
)

// The party side of the aggregated range proof. Each protocol state is a
// distinct type, so the steps cannot be run out of order, and each transition
// zeroizes whatever secrets the next state no longer needs.

// BitCommitment is a party's first message: its value commitment together
// with commitments to the value's bits and their blindings.
type BitCommitment struct {
	V curve.Point
	A curve.Point
	S curve.Point
}

// BitChallenge carries the challenges derived from all bit commitments.
type BitChallenge struct {
	Y curve.Scalar
	Z curve.Scalar
}

// PolyCommitment is a party's second message: commitments to the nonzero
// coefficients of its t(x) polynomial.
type PolyCommitment struct {
	T1 curve.Point
	T2 curve.Point
}

// PolyChallenge carries the evaluation point derived from all polynomial
// commitments.
type PolyChallenge struct {
	X curve.Scalar
}

// ProofShare is a party's final message, ready for aggregation.
type ProofShare struct {
	TX         curve.Scalar
	TXBlinding curve.Scalar
	EBlinding  curve.Scalar
	LVec       []curve.Scalar
	RVec       []curve.Scalar
}

func (ps ProofShare) checkSize(expectedN int, bpGens *BulletproofGens, j int) bool {
	if len(ps.LVec) != expectedN || len(ps.RVec) != expectedN {
		return false
	}
	if expectedN > bpGens.GensCapacity {
		return false
	}
	return j < bpGens.PartyCapacity
}

// auditShare checks a single party's share against its commitments, so that
// the dealer can attribute a failed aggregation to specific parties.
func (ps ProofShare) auditShare(
	bpGens *BulletproofGens,
	pcGens PedersenGens,
	j int,
	bitCommitment BitCommitment,
	bitChallenge BitChallenge,
	polyCommitment PolyCommitment,
	polyChallenge PolyChallenge,
) bool {
	n := len(ps.LVec)
	if !ps.checkSize(n, bpGens, j) {
		return false
	}
	group := ps.TX.Curve()

	y, z := bitChallenge.Y, bitChallenge.Z
	x := polyChallenge.X

	zz := group.NewScalar().Set(z).Mul(z)
	minusZ := group.NewScalar().Set(z).Negate()
	zJ := scalarExp(z, uint64(j))
	yJN := scalarExp(y, uint64(j*n))
	yJNInv := group.NewScalar().Set(yJN).Invert()
	yInv := group.NewScalar().Set(y).Invert()

	if !ps.TX.Equal(innerProduct(ps.LVec, ps.RVec)) {
		return false
	}

	// P = A + x·S - e_blinding·B~ + Σ g_i·G_i + Σ h_i·H_i must be zero.
	yInvPowers := powers(yInv, n)
	powersOf2 := powers(group.NewScalar().SetUInt64(2), n)

	points := make([]curve.Point, 0, 3+2*n)
	scalars := make([]curve.Scalar, 0, 3+2*n)
	points = append(points, bitCommitment.A, bitCommitment.S, pcGens.BBlinding)
	scalars = append(scalars,
		group.NewScalar().SetUInt64(1),
		group.NewScalar().Set(x),
		group.NewScalar().Set(ps.EBlinding).Negate(),
	)
	share := bpGens.Share(j)
	for i, gi := range share.G(n) {
		points = append(points, gi)
		scalars = append(scalars, group.NewScalar().Set(minusZ).Sub(ps.LVec[i]))
	}
	for i, hi := range share.H(n) {
		points = append(points, hi)
		adj := group.NewScalar().Set(zz).Mul(zJ).Mul(powersOf2[i]).Sub(ps.RVec[i])
		scalars = append(scalars, group.NewScalar().Set(z).Add(adj.Mul(yInvPowers[i]).Mul(yJNInv)))
	}
	if !msm(points, scalars).Equal(group.NewPoint()) {
		return false
	}

	// zz·z^j·V + x·T1 + x²·T2 + (delta_j - t_x)·B - t_x_blinding·B~ must be zero.
	sumY := sumOfPowers(y, n)
	sum2 := sumOfPowers(group.NewScalar().SetUInt64(2), n)
	deltaJ := group.NewScalar().Set(z).Sub(zz).Mul(sumY).Mul(yJN)
	deltaJ.Sub(group.NewScalar().Set(z).Mul(zz).Mul(sum2).Mul(zJ))

	tPoints := []curve.Point{
		bitCommitment.V, polyCommitment.T1, polyCommitment.T2, pcGens.B, pcGens.BBlinding,
	}
	tScalars := []curve.Scalar{
		group.NewScalar().Set(zz).Mul(zJ),
		group.NewScalar().Set(x),
		group.NewScalar().Set(x).Mul(x),
		group.NewScalar().Set(deltaJ).Sub(ps.TX),
		group.NewScalar().Set(ps.TXBlinding).Negate(),
	}
	return msm(tPoints, tScalars).Equal(group.NewPoint())
}

// PartyAwaitingPosition holds a party's witness before the dealer has told
// it where it sits in the aggregation.
type PartyAwaitingPosition struct {
	bpGens    *BulletproofGens
	pcGens    PedersenGens
	n         int
	v         uint64
	vBlinding curve.Scalar
	vCommit   curve.Point
}

// NewParty validates the proof parameters and commits to the value.
func NewParty(
	bpGens *BulletproofGens,
	pcGens PedersenGens,
	v uint64,
	vBlinding curve.Scalar,
	n int,
) (*PartyAwaitingPosition, error) {
	if n != 8 && n != 16 && n != 32 && n != 64 {
		return nil, ErrInvalidBitsize
	}
	if bpGens.GensCapacity < n {
		return nil, ErrInvalidGeneratorsLength
	}
	group := vBlinding.Curve()
	vCommit := pcGens.Commit(group.NewScalar().SetUInt64(v), vBlinding)
	return &PartyAwaitingPosition{
		bpGens:    bpGens,
		pcGens:    pcGens,
		n:         n,
		v:         v,
		vBlinding: group.NewScalar().Set(vBlinding),
		vCommit:   vCommit,
	}, nil
}

// AssignPosition commits to the bits of the value using the generators of
// slot j.
func (p *PartyAwaitingPosition) AssignPosition(
	rand io.Reader,
	j int,
) (*PartyAwaitingBitChallenge, BitCommitment, error) {
	if p.bpGens.PartyCapacity <= j {
		return nil, BitCommitment{}, ErrInvalidGeneratorsLength
	}
	group := p.vBlinding.Curve()
	share := p.bpGens.Share(j)

	// A = <a_L, G> + <a_R, H> + a_blinding·B~. Since every a_L bit is 0 or 1
	// and a_R = a_L - 1, each term is either G_i or -H_i.
	aBlinding := sample.Scalar(rand, group)
	a := group.NewScalar().Set(aBlinding).Act(p.pcGens.BBlinding)
	gs, hs := share.G(p.n), share.H(p.n)
	for i := 0; i < p.n; i++ {
		if (p.v>>uint(i))&1 == 1 {
			a = a.Add(gs[i])
		} else {
			a = a.Add(hs[i].Negate())
		}
	}

	sBlinding := sample.Scalar(rand, group)
	sL := make([]curve.Scalar, p.n)
	sR := make([]curve.Scalar, p.n)
	for i := 0; i < p.n; i++ {
		sL[i] = sample.Scalar(rand, group)
		sR[i] = sample.Scalar(rand, group)
	}

	// S = <s_L, G> + <s_R, H> + s_blinding·B~.
	s := group.NewScalar().Set(sBlinding).Act(p.pcGens.BBlinding)
	s = s.Add(msm(gs, sL)).Add(msm(hs, sR))

	commitment := BitCommitment{V: p.vCommit, A: a, S: s}
	next := &PartyAwaitingBitChallenge{
		n:         p.n,
		v:         p.v,
		vBlinding: p.vBlinding,
		pcGens:    p.pcGens,
		j:         j,
		aBlinding: aBlinding,
		sBlinding: sBlinding,
		sL:        sL,
		sR:        sR,
	}
	p.v = 0
	p.vBlinding = nil
	return next, commitment, nil
}

type PartyAwaitingBitChallenge struct {
	n         int
	v         uint64
	vBlinding curve.Scalar
	j         int
	pcGens    PedersenGens
	aBlinding curve.Scalar
	sBlinding curve.Scalar
	sL        []curve.Scalar
	sR        []curve.Scalar
}

// ApplyBitChallenge builds the party's l(x), r(x) polynomials and commits to
// the coefficients of t(x) = <l(x), r(x)>.
func (p *PartyAwaitingBitChallenge) ApplyBitChallenge(
	rand io.Reader,
	vc BitChallenge,
) (*PartyAwaitingPolyChallenge, PolyCommitment, error) {
	// A zero challenge would let the dealer cancel the blinding terms.
	if vc.Y.IsZero() || vc.Z.IsZero() {
		return nil, PolyCommitment{}, ErrMaliciousDealer
	}
	group := p.vBlinding.Curve()
	n := p.n

	offsetY := scalarExp(vc.Y, uint64(p.j*n))
	offsetZ := scalarExp(vc.Z, uint64(p.j))
	offsetZZ := group.NewScalar().Set(vc.Z).Mul(vc.Z).Mul(offsetZ)

	lPoly := newVecPoly1(group, n)
	rPoly := newVecPoly1(group, n)

	expY := group.NewScalar().Set(offsetY)
	exp2 := group.NewScalar().SetUInt64(1)
	one := group.NewScalar().SetUInt64(1)
	for i := 0; i < n; i++ {
		aL := group.NewScalar().SetUInt64((p.v >> uint(i)) & 1)
		aR := group.NewScalar().Set(aL).Sub(one)

		lPoly.A[i] = group.NewScalar().Set(aL).Sub(vc.Z)
		lPoly.B[i] = group.NewScalar().Set(p.sL[i])
		rPoly.A[i] = group.NewScalar().Set(aR).Add(vc.Z).Mul(expY).
			Add(group.NewScalar().Set(offsetZZ).Mul(exp2))
		rPoly.B[i] = group.NewScalar().Set(expY).Mul(p.sR[i])

		expY.Mul(vc.Y)
		exp2.Add(exp2)
	}

	tPoly := lPoly.InnerProduct(rPoly)

	t1Blinding := sample.Scalar(rand, group)
	t2Blinding := sample.Scalar(rand, group)
	commitment := PolyCommitment{
		T1: p.pcGens.Commit(tPoly.T1, t1Blinding),
		T2: p.pcGens.Commit(tPoly.T2, t2Blinding),
	}

	next := &PartyAwaitingPolyChallenge{
		vBlinding:  p.vBlinding,
		aBlinding:  p.aBlinding,
		sBlinding:  p.sBlinding,
		offsetZZ:   offsetZZ,
		lPoly:      lPoly,
		rPoly:      rPoly,
		tPoly:      tPoly,
		t1Blinding: t1Blinding,
		t2Blinding: t2Blinding,
	}
	zero.Vec(p.sL)
	zero.Vec(p.sR)
	p.v = 0
	return next, commitment, nil
}

type PartyAwaitingPolyChallenge struct {
	offsetZZ   curve.Scalar
	lPoly      vecPoly1
	rPoly      vecPoly1
	tPoly      poly2
	vBlinding  curve.Scalar
	aBlinding  curve.Scalar
	sBlinding  curve.Scalar
	t1Blinding curve.Scalar
	t2Blinding curve.Scalar
}

// ApplyPolyChallenge evaluates the party's polynomials at the challenge
// point and returns its share of the aggregated proof.
func (p *PartyAwaitingPolyChallenge) ApplyPolyChallenge(pc PolyChallenge) (ProofShare, error) {
	if pc.X.IsZero() {
		return ProofShare{}, ErrMaliciousDealer
	}
	group := p.vBlinding.Curve()

	tBlindingPoly := poly2{
		T0: group.NewScalar().Set(p.offsetZZ).Mul(p.vBlinding),
		T1: p.t1Blinding,
		T2: p.t2Blinding,
	}

	share := ProofShare{
		TX:         p.tPoly.Eval(pc.X),
		TXBlinding: tBlindingPoly.Eval(pc.X),
		EBlinding:  group.NewScalar().Set(p.sBlinding).Mul(pc.X).Add(p.aBlinding),
		LVec:       p.lPoly.Eval(pc.X),
		RVec:       p.rPoly.Eval(pc.X),
	}

	p.lPoly.Zeroize()
	p.rPoly.Zeroize()
	p.tPoly.Zeroize()
	zero.Scalars(p.vBlinding, p.aBlinding, p.sBlinding, p.t1Blinding, p.t2Blinding)
	return share, nil
}
