package bulletproofs

import (
	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
)

// The dealer side of the aggregated range proof. The dealer owns the
// Fiat-Shamir transcript: it absorbs the parties' messages, derives the
// challenges, and assembles the shares into the final proof.

// DealerAwaitingBitCommitments is the dealer before the first round.
type DealerAwaitingBitCommitments struct {
	bpGens *BulletproofGens
	pcGens PedersenGens
	h      *hash.Hash
	// initial is a snapshot of the transcript before the domain
	// separator, kept so the dealer can verify its own assembled proof.
	initial *hash.Hash
	n       int
	m       int
}

// NewDealer validates the proof shape and starts the transcript.
func NewDealer(
	bpGens *BulletproofGens,
	pcGens PedersenGens,
	h *hash.Hash,
	n, m int,
) (*DealerAwaitingBitCommitments, error) {
	if n != 8 && n != 16 && n != 32 && n != 64 {
		return nil, ErrInvalidBitsize
	}
	if m <= 0 || m&(m-1) != 0 {
		return nil, ErrInvalidAggregation
	}
	if bpGens.GensCapacity < n || bpGens.PartyCapacity < m {
		return nil, ErrInvalidGeneratorsLength
	}

	initial := h.Clone()
	rangeproofDomain(h, uint64(n), uint64(m))

	return &DealerAwaitingBitCommitments{
		bpGens:  bpGens,
		pcGens:  pcGens,
		h:       h,
		initial: initial,
		n:       n,
		m:       m,
	}, nil
}

// ReceiveBitCommitments absorbs all first round messages and derives the
// y and z challenges.
func (d *DealerAwaitingBitCommitments) ReceiveBitCommitments(
	bitCommitments []BitCommitment,
) (*DealerAwaitingPolyCommitments, BitChallenge, error) {
	if len(bitCommitments) != d.m {
		return nil, BitChallenge{}, ErrInvalidInputLength
	}
	group := bitCommitments[0].V.Curve()

	for _, vc := range bitCommitments {
		appendPoint(d.h, "V", vc.V)
	}

	a := group.NewPoint()
	s := group.NewPoint()
	for _, vc := range bitCommitments {
		a = a.Add(vc.A)
		s = s.Add(vc.S)
	}
	appendPoint(d.h, "A", a)
	appendPoint(d.h, "S", s)

	challenge := BitChallenge{
		Y: challengeScalar(d.h, group, "y"),
		Z: challengeScalar(d.h, group, "z"),
	}
	next := &DealerAwaitingPolyCommitments{
		n:              d.n,
		m:              d.m,
		h:              d.h,
		initial:        d.initial,
		bpGens:         d.bpGens,
		pcGens:         d.pcGens,
		bitChallenge:   challenge,
		bitCommitments: bitCommitments,
		a:              a,
		s:              s,
	}
	return next, challenge, nil
}

// DealerAwaitingPolyCommitments is the dealer between the two rounds.
type DealerAwaitingPolyCommitments struct {
	n              int
	m              int
	h              *hash.Hash
	initial        *hash.Hash
	bpGens         *BulletproofGens
	pcGens         PedersenGens
	bitChallenge   BitChallenge
	bitCommitments []BitCommitment
	a              curve.Point
	s              curve.Point
}

// ReceivePolyCommitments absorbs the aggregated polynomial commitments and
// derives the evaluation point.
func (d *DealerAwaitingPolyCommitments) ReceivePolyCommitments(
	polyCommitments []PolyCommitment,
) (*DealerAwaitingProofShares, PolyChallenge, error) {
	if len(polyCommitments) != d.m {
		return nil, PolyChallenge{}, ErrInvalidInputLength
	}
	group := d.bitChallenge.Y.Curve()

	t1 := group.NewPoint()
	t2 := group.NewPoint()
	for _, pc := range polyCommitments {
		t1 = t1.Add(pc.T1)
		t2 = t2.Add(pc.T2)
	}
	appendPoint(d.h, "T1", t1)
	appendPoint(d.h, "T2", t2)

	challenge := PolyChallenge{X: challengeScalar(d.h, group, "x")}
	next := &DealerAwaitingProofShares{
		n:               d.n,
		m:               d.m,
		h:               d.h,
		initial:         d.initial,
		bpGens:          d.bpGens,
		pcGens:          d.pcGens,
		bitChallenge:    d.bitChallenge,
		bitCommitments:  d.bitCommitments,
		polyChallenge:   challenge,
		polyCommitments: polyCommitments,
		a:               d.a,
		s:               d.s,
		t1:              t1,
		t2:              t2,
	}
	return next, challenge, nil
}

// DealerAwaitingProofShares is the dealer after the final challenge.
type DealerAwaitingProofShares struct {
	n               int
	m               int
	h               *hash.Hash
	initial         *hash.Hash
	bpGens          *BulletproofGens
	pcGens          PedersenGens
	bitChallenge    BitChallenge
	bitCommitments  []BitCommitment
	polyChallenge   PolyChallenge
	polyCommitments []PolyCommitment
	a               curve.Point
	s               curve.Point
	t1              curve.Point
	t2              curve.Point
}

func (d *DealerAwaitingProofShares) assembleShares(shares []ProofShare) (*RangeProof, error) {
	if len(shares) != d.m {
		return nil, ErrInvalidInputLength
	}
	group := d.bitChallenge.Y.Curve()

	var badShares []int
	for j, share := range shares {
		if !share.checkSize(d.n, d.bpGens, j) {
			badShares = append(badShares, j)
		}
	}
	if len(badShares) > 0 {
		return nil, ErrMalformedProofShares{BadShares: badShares}
	}

	tX := group.NewScalar()
	tXBlinding := group.NewScalar()
	eBlinding := group.NewScalar()
	for _, share := range shares {
		tX.Add(share.TX)
		tXBlinding.Add(share.TXBlinding)
		eBlinding.Add(share.EBlinding)
	}

	appendScalar(d.h, "t_x", tX)
	appendScalar(d.h, "t_x_blinding", tXBlinding)
	appendScalar(d.h, "e_blinding", eBlinding)

	// Challenge to fold the inner product statement into a commitment to
	// t(x) on a per-transcript base Q = w·B.
	w := challengeScalar(d.h, group, "w")
	q := group.NewScalar().Set(w).Act(d.pcGens.B)

	nm := d.n * d.m
	gFactors := make([]curve.Scalar, nm)
	hFactors := powers(group.NewScalar().Set(d.bitChallenge.Y).Invert(), nm)
	for i := range gFactors {
		gFactors[i] = group.NewScalar().SetUInt64(1)
	}

	lVec := make([]curve.Scalar, 0, nm)
	rVec := make([]curve.Scalar, 0, nm)
	for _, share := range shares {
		lVec = append(lVec, share.LVec...)
		rVec = append(rVec, share.RVec...)
	}

	ipp := NewInnerProductProof(
		d.h, q,
		gFactors, hFactors,
		d.bpGens.G(d.n, d.m), d.bpGens.H(d.n, d.m),
		lVec, rVec,
	)

	return &RangeProof{
		A:          d.a,
		S:          d.s,
		T1:         d.t1,
		T2:         d.t2,
		TX:         tX,
		TXBlinding: tXBlinding,
		EBlinding:  eBlinding,
		IPP:        ipp,
	}, nil
}

// ReceiveShares assembles the shares into a proof and verifies it. If the
// aggregated proof does not verify, the shares are audited one by one and
// the offending parties are reported.
func (d *DealerAwaitingProofShares) ReceiveShares(shares []ProofShare) (*RangeProof, error) {
	proof, err := d.assembleShares(shares)
	if err != nil {
		return nil, err
	}

	vs := make([]curve.Point, d.m)
	for j, bc := range d.bitCommitments {
		vs[j] = bc.V
	}

	if proof.VerifyMultiple(d.bpGens, d.pcGens, d.initial, vs, d.n) == nil {
		return proof, nil
	}

	badShares := make([]int, 0, d.m)
	for j, share := range shares {
		ok := share.auditShare(
			d.bpGens, d.pcGens, j,
			d.bitCommitments[j], d.bitChallenge,
			d.polyCommitments[j], d.polyChallenge,
		)
		if !ok {
			badShares = append(badShares, j)
		}
	}
	return nil, ErrMalformedProofShares{BadShares: badShares}
}

// ReceiveTrustedShares assembles the shares without validating them. Only
// safe when one process plays every party, as in local proving.
func (d *DealerAwaitingProofShares) ReceiveTrustedShares(shares []ProofShare) (*RangeProof, error) {
	return d.assembleShares(shares)
}
