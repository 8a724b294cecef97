// Package bulletproofs implements aggregated range proofs, the inner-product
// argument underlying them, a constraint system prover, and the lightweight
// linear proof used for reward statements.
//
// The aggregated range proof follows the dealer/party decomposition: each
// party commits to the bits of its own value, and the dealer aggregates the
// commitments, derives the Fiat-Shamir challenges, and assembles the shares
// into a single proof. Proving many values locally just runs all the parties
// in one process.
package bulletproofs

import (
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
)

// RangeProof proves that each of m committed values lies in [0, 2ⁿ).
//
// The commitments themselves and the bitsize n are not part of the proof and
// must be supplied to the verifier.
type RangeProof struct {
	// A commits to the bits of the values.
	A curve.Point
	// S commits to the per-bit blinding terms.
	S curve.Point
	// T1 and T2 commit to the coefficients of t(x).
	T1 curve.Point
	T2 curve.Point
	// TX is t(x) evaluated at the challenge point.
	TX curve.Scalar
	// TXBlinding opens the synthetic commitment to TX.
	TXBlinding curve.Scalar
	// EBlinding opens the synthetic commitment to the inner-product inputs.
	EBlinding curve.Scalar
	// IPP argues that TX is the inner product of the folded vectors.
	IPP *InnerProductProof
}

// ProveSingle creates a range proof for a single value, returning the proof
// together with the commitment to v.
func ProveSingle(
	rand io.Reader,
	bpGens *BulletproofGens,
	pcGens PedersenGens,
	h *hash.Hash,
	v uint64,
	vBlinding curve.Scalar,
	n int,
) (*RangeProof, curve.Point, error) {
	proof, vs, err := ProveMultiple(rand, bpGens, pcGens, h, []uint64{v}, []curve.Scalar{vBlinding}, n)
	if err != nil {
		return nil, nil, err
	}
	return proof, vs[0], nil
}

// ProveMultiple creates an aggregated range proof for a set of values by
// running the dealer and all parties locally.
func ProveMultiple(
	rand io.Reader,
	bpGens *BulletproofGens,
	pcGens PedersenGens,
	h *hash.Hash,
	values []uint64,
	blindings []curve.Scalar,
	n int,
) (*RangeProof, []curve.Point, error) {
	if len(values) != len(blindings) {
		return nil, nil, ErrInvalidInputLength
	}
	m := len(values)

	dealer, err := NewDealer(bpGens, pcGens, h, n, m)
	if err != nil {
		return nil, nil, err
	}

	positioned := make([]*PartyAwaitingBitChallenge, m)
	bitCommitments := make([]BitCommitment, m)
	valueCommitments := make([]curve.Point, m)
	for j := 0; j < m; j++ {
		party, err := NewParty(bpGens, pcGens, values[j], blindings[j], n)
		if err != nil {
			return nil, nil, err
		}
		positioned[j], bitCommitments[j], err = party.AssignPosition(rand, j)
		if err != nil {
			return nil, nil, err
		}
		valueCommitments[j] = bitCommitments[j].V
	}

	dealer2, bitChallenge, err := dealer.ReceiveBitCommitments(bitCommitments)
	if err != nil {
		return nil, nil, err
	}

	polyParties := make([]*PartyAwaitingPolyChallenge, m)
	polyCommitments := make([]PolyCommitment, m)
	for j := 0; j < m; j++ {
		polyParties[j], polyCommitments[j], err = positioned[j].ApplyBitChallenge(rand, bitChallenge)
		if err != nil {
			return nil, nil, err
		}
	}

	dealer3, polyChallenge, err := dealer2.ReceivePolyCommitments(polyCommitments)
	if err != nil {
		return nil, nil, err
	}

	shares := make([]ProofShare, m)
	for j := 0; j < m; j++ {
		shares[j], err = polyParties[j].ApplyPolyChallenge(polyChallenge)
		if err != nil {
			return nil, nil, err
		}
	}

	proof, err := dealer3.ReceiveTrustedShares(shares)
	if err != nil {
		return nil, nil, err
	}
	return proof, valueCommitments, nil
}

// VerifySingle verifies a range proof for a single value commitment.
func (p *RangeProof) VerifySingle(
	bpGens *BulletproofGens,
	pcGens PedersenGens,
	h *hash.Hash,
	v curve.Point,
	n int,
) error {
	return p.VerifyMultiple(bpGens, pcGens, h, []curve.Point{v}, n)
}

// VerifyMultiple verifies an aggregated range proof with one
// multiexponentiation over all the proof data.
func (p *RangeProof) VerifyMultiple(
	bpGens *BulletproofGens,
	pcGens PedersenGens,
	h *hash.Hash,
	valueCommitments []curve.Point,
	n int,
) error {
	m := len(valueCommitments)
	group := p.TX.Curve()

	scalars, err := p.verificationScalars(bpGens, h, valueCommitments, n)
	if err != nil {
		return err
	}

	points := p.verificationPoints(bpGens, pcGens, valueCommitments, n, m)
	if !msm(points, scalars).Equal(group.NewPoint()) {
		return ErrVerificationFailed
	}
	return nil
}

func (p *RangeProof) verificationPoints(
	bpGens *BulletproofGens,
	pcGens PedersenGens,
	valueCommitments []curve.Point,
	n, m int,
) []curve.Point {
	points := make([]curve.Point, 0, 6+2*len(p.IPP.L)+m+2*n*m)
	points = append(points, p.A, p.S, p.T1, p.T2)
	points = append(points, p.IPP.L...)
	points = append(points, p.IPP.R...)
	points = append(points, valueCommitments...)
	points = append(points, pcGens.BBlinding, pcGens.B)
	points = append(points, bpGens.G(n, m)...)
	points = append(points, bpGens.H(n, m)...)
	return points
}

// verificationScalars replays the transcript and expands the proof into the
// scalar side of the verification multiexponentiation. The scalar order
// matches verificationPoints.
func (p *RangeProof) verificationScalars(
	bpGens *BulletproofGens,
	h *hash.Hash,
	valueCommitments []curve.Point,
	n int,
) ([]curve.Scalar, error) {
	m := len(valueCommitments)
	group := p.TX.Curve()

	if n != 8 && n != 16 && n != 32 && n != 64 {
		return nil, ErrInvalidBitsize
	}
	if bpGens.GensCapacity < n || bpGens.PartyCapacity < m {
		return nil, ErrInvalidGeneratorsLength
	}

	rangeproofDomain(h, uint64(n), uint64(m))

	// Value commitments may be the identity (zero value, zero blinding).
	for _, v := range valueCommitments {
		appendPoint(h, "V", v)
	}
	if err := validateAndAppendPoint(h, "A", p.A); err != nil {
		return nil, err
	}
	if err := validateAndAppendPoint(h, "S", p.S); err != nil {
		return nil, err
	}

	y := challengeScalar(h, group, "y")
	z := challengeScalar(h, group, "z")
	if y.IsZero() || z.IsZero() {
		return nil, ErrVerificationFailed
	}
	zz := group.NewScalar().Set(z).Mul(z)
	minusZ := group.NewScalar().Set(z).Negate()

	if err := validateAndAppendPoint(h, "T1", p.T1); err != nil {
		return nil, err
	}
	if err := validateAndAppendPoint(h, "T2", p.T2); err != nil {
		return nil, err
	}

	x := challengeScalar(h, group, "x")

	appendScalar(h, "t_x", p.TX)
	appendScalar(h, "t_x_blinding", p.TXBlinding)
	appendScalar(h, "e_blinding", p.EBlinding)

	w := challengeScalar(h, group, "w")

	// Batching scalar for combining the two verification equations.
	c := challengeScalar(h, group, "c")

	uSq, uInvSq, s, err := p.IPP.VerificationScalars(n*m, h, group)
	if err != nil {
		return nil, err
	}

	a := p.IPP.A
	b := p.IPP.B

	// z^0·2^n || z^1·2^n || ... || z^(m-1)·2^n
	powersOf2 := powers(group.NewScalar().SetUInt64(2), n)
	powersOfZ := powers(z, m)
	concatZAnd2 := make([]curve.Scalar, 0, n*m)
	for _, expZ := range powersOfZ {
		for _, exp2 := range powersOf2 {
			concatZAnd2 = append(concatZAnd2, group.NewScalar().Set(exp2).Mul(expZ))
		}
	}

	yInv := group.NewScalar().Set(y).Invert()
	yInvPowers := powers(yInv, n*m)

	gScalars := make([]curve.Scalar, n*m)
	hScalars := make([]curve.Scalar, n*m)
	for i := 0; i < n*m; i++ {
		gScalars[i] = group.NewScalar().Set(minusZ).Sub(group.NewScalar().Set(a).Mul(s[i]))
		sInv := s[n*m-1-i]
		inner := group.NewScalar().Set(zz).Mul(concatZAnd2[i]).Sub(group.NewScalar().Set(b).Mul(sInv))
		hScalars[i] = group.NewScalar().Set(z).Add(inner.Mul(yInvPowers[i]))
	}

	vScalars := make([]curve.Scalar, m)
	for j := 0; j < m; j++ {
		vScalars[j] = group.NewScalar().Set(c).Mul(zz).Mul(powersOfZ[j])
	}

	d := delta(n, m, y, z)
	basepointScalar := group.NewScalar().Set(p.TX).Sub(group.NewScalar().Set(a).Mul(b)).Mul(w)
	basepointScalar.Add(group.NewScalar().Set(d).Sub(p.TX).Mul(c))

	scalars := make([]curve.Scalar, 0, 6+2*len(uSq)+m+2*n*m)
	scalars = append(scalars,
		group.NewScalar().SetUInt64(1),            // A
		group.NewScalar().Set(x),                  // S
		group.NewScalar().Set(c).Mul(x),           // T1
		group.NewScalar().Set(c).Mul(x).Mul(x),    // T2
	)
	scalars = append(scalars, uSq...)    // L
	scalars = append(scalars, uInvSq...) // R
	scalars = append(scalars, vScalars...)
	scalars = append(scalars,
		group.NewScalar().Set(p.EBlinding).Negate().Sub(group.NewScalar().Set(c).Mul(p.TXBlinding)), // BBlinding
		basepointScalar, // B
	)
	scalars = append(scalars, gScalars...)
	scalars = append(scalars, hScalars...)
	return scalars, nil
}

// BatchVerify verifies several range proofs of the same bitsize with a
// single multiexponentiation. Each proof gets its own transcript, positioned
// exactly as a standalone verification would position it.
func BatchVerify(
	proofs []*RangeProof,
	transcripts []*hash.Hash,
	valueCommitments [][]curve.Point,
	bpGens *BulletproofGens,
	pcGens PedersenGens,
	n int,
) error {
	if len(proofs) == 0 || len(transcripts) != len(proofs) || len(valueCommitments) != len(proofs) {
		return ErrInvalidInputLength
	}
	group := proofs[0].TX.Curve()

	type instance struct {
		scalars []curve.Scalar
		rho     curve.Scalar
		m       int
	}
	instances := make([]instance, len(proofs))

	var g errgroup.Group
	for i := range proofs {
		i := i
		g.Go(func() error {
			scalars, err := proofs[i].verificationScalars(bpGens, transcripts[i], valueCommitments[i], n)
			if err != nil {
				return err
			}
			// Scale each instance by a transcript-derived factor, so a
			// forged instance cannot cancel against an honest one.
			rho := challengeScalar(transcripts[i], group, "batch")
			instances[i] = instance{scalars: scalars, rho: rho, m: len(valueCommitments[i])}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	maxM := 0
	for _, inst := range instances {
		if inst.m > maxM {
			maxM = inst.m
		}
	}

	// Scalars unique to an instance keep their position; the shared bases
	// B, BBlinding, G and H accumulate across instances.
	var scalars []curve.Scalar
	var points []curve.Point
	bScalar := group.NewScalar()
	bBlindingScalar := group.NewScalar()
	gScalars := make([]curve.Scalar, n*maxM)
	hScalars := make([]curve.Scalar, n*maxM)
	for i := range gScalars {
		gScalars[i] = group.NewScalar()
		hScalars[i] = group.NewScalar()
	}

	for idx, inst := range instances {
		p := proofs[idx]
		ni := n * inst.m
		lgN := len(p.IPP.L)
		// A, S, T1, T2, L..., R..., V...
		k := 4 + 2*lgN + inst.m
		for j := 0; j < k; j++ {
			scalars = append(scalars, group.NewScalar().Set(inst.scalars[j]).Mul(inst.rho))
		}
		points = append(points, p.verificationPoints(bpGens, pcGens, valueCommitments[idx], n, inst.m)[:k]...)

		bBlindingScalar.Add(group.NewScalar().Set(inst.scalars[k]).Mul(inst.rho))
		bScalar.Add(group.NewScalar().Set(inst.scalars[k+1]).Mul(inst.rho))
		for i := 0; i < ni; i++ {
			gScalars[i].Add(group.NewScalar().Set(inst.scalars[k+2+i]).Mul(inst.rho))
			hScalars[i].Add(group.NewScalar().Set(inst.scalars[k+2+ni+i]).Mul(inst.rho))
		}
	}

	scalars = append(scalars, bBlindingScalar, bScalar)
	points = append(points, pcGens.BBlinding, pcGens.B)
	scalars = append(scalars, gScalars...)
	points = append(points, bpGens.G(n, maxM)...)
	scalars = append(scalars, hScalars...)
	points = append(points, bpGens.H(n, maxM)...)

	if !msm(points, scalars).Equal(group.NewPoint()) {
		return ErrVerificationFailed
	}
	return nil
}
