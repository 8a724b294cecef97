package bulletproofs

import (
	"math/bits"

	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
)

// InnerProductProof proves that <a, b> is the scalar committed to in P,
// where P = <a, G'> + <b, H'> + <a, b>·Q for rescaled generator vectors
// G', H'. The proof has log₂ n rounds, each folding the vectors in half.
type InnerProductProof struct {
	L []curve.Point
	R []curve.Point
	A curve.Scalar
	B curve.Scalar
}

// NewInnerProductProof creates a proof for the statement above.
//
// The gFactors and hFactors rescale the generator vectors before the
// argument starts. Callers pass the y-inverse powers here, so the argument
// itself never sees the aggregation structure.
//
// The vectors a and b are consumed as scratch space.
func NewInnerProductProof(
	h *hash.Hash,
	q curve.Point,
	gFactors, hFactors []curve.Scalar,
	gVec, hVec []curve.Point,
	a, b []curve.Scalar,
) *InnerProductProof {
	n := len(gVec)
	if n == 0 || n&(n-1) != 0 {
		panic("bulletproofs: inner product size must be a power of two")
	}
	if len(hVec) != n || len(a) != n || len(b) != n || len(gFactors) != n || len(hFactors) != n {
		panic("bulletproofs: inner product vector lengths disagree")
	}
	group := a[0].Curve()

	innerproductDomain(h, uint64(n))

	// Folding with factors on the first round is the same as rescaling the
	// generators up front and folding uniformly.
	G := make([]curve.Point, n)
	H := make([]curve.Point, n)
	tmp := group.NewScalar()
	for i := 0; i < n; i++ {
		G[i] = tmp.Set(gFactors[i]).Act(gVec[i])
		H[i] = tmp.Set(hFactors[i]).Act(hVec[i])
	}

	lgN := bits.TrailingZeros(uint(n))
	proof := &InnerProductProof{
		L: make([]curve.Point, 0, lgN),
		R: make([]curve.Point, 0, lgN),
	}

	for n != 1 {
		n = n / 2
		aL, aR := a[:n], a[n:2*n]
		bL, bR := b[:n], b[n:2*n]
		gL, gR := G[:n], G[n:2*n]
		hL, hR := H[:n], H[n:2*n]

		cL := innerProduct(aL, bR)
		cR := innerProduct(aR, bL)

		l := msm(gR, aL).Add(msm(hL, bR)).Add(tmp.Set(cL).Act(q))
		r := msm(gL, aR).Add(msm(hR, bL)).Add(tmp.Set(cR).Act(q))

		proof.L = append(proof.L, l)
		proof.R = append(proof.R, r)

		appendPoint(h, "L", l)
		appendPoint(h, "R", r)

		u := challengeScalar(h, group, "u")
		uInv := group.NewScalar().Set(u).Invert()

		for i := 0; i < n; i++ {
			aL[i] = group.NewScalar().Set(aL[i]).Mul(u).Add(tmp.Set(uInv).Mul(aR[i]))
			bL[i] = group.NewScalar().Set(bL[i]).Mul(uInv).Add(tmp.Set(u).Mul(bR[i]))
			gL[i] = tmp.Set(uInv).Act(gL[i]).Add(group.NewScalar().Set(u).Act(gR[i]))
			hL[i] = tmp.Set(u).Act(hL[i]).Add(group.NewScalar().Set(uInv).Act(hR[i]))
		}
		a, b, G, H = aL, bL, gL, hL
	}

	proof.A = group.NewScalar().Set(a[0])
	proof.B = group.NewScalar().Set(b[0])
	return proof
}

// VerificationScalars replays the folding challenges and expands them into
// the squares, inverse squares, and the s vector needed to verify the proof
// inside a single multiexponentiation.
func (p *InnerProductProof) VerificationScalars(
	n int,
	h *hash.Hash,
	group curve.Curve,
) (uSq, uInvSq, s []curve.Scalar, err error) {
	lgN := len(p.L)
	if lgN >= 32 || len(p.R) != lgN {
		return nil, nil, nil, ErrVerificationFailed
	}
	if n != 1<<lgN {
		return nil, nil, nil, ErrVerificationFailed
	}

	innerproductDomain(h, uint64(n))

	challenges := make([]curve.Scalar, lgN)
	for i := 0; i < lgN; i++ {
		if err := validateAndAppendPoint(h, "L", p.L[i]); err != nil {
			return nil, nil, nil, err
		}
		if err := validateAndAppendPoint(h, "R", p.R[i]); err != nil {
			return nil, nil, nil, err
		}
		challenges[i] = challengeScalar(h, group, "u")
		if challenges[i].IsZero() {
			return nil, nil, nil, ErrVerificationFailed
		}
	}

	inv := make([]curve.Scalar, lgN)
	allInv := group.NewScalar().SetUInt64(1)
	for i, u := range challenges {
		inv[i] = group.NewScalar().Set(u).Invert()
		allInv.Mul(inv[i])
	}

	uSq = make([]curve.Scalar, lgN)
	uInvSq = make([]curve.Scalar, lgN)
	for i := 0; i < lgN; i++ {
		uSq[i] = group.NewScalar().Set(challenges[i]).Mul(challenges[i])
		uInvSq[i] = group.NewScalar().Set(inv[i]).Mul(inv[i])
	}

	s = make([]curve.Scalar, n)
	s[0] = allInv
	for i := 1; i < n; i++ {
		lgI := bits.Len(uint(i)) - 1
		k := 1 << lgI
		// Challenges are stored in creation order, so u_{lg(i)+1} lives
		// at index (lgN-1) - lgI.
		uLgISq := uSq[(lgN-1)-lgI]
		s[i] = group.NewScalar().Set(s[i-k]).Mul(uLgISq)
	}
	return uSq, uInvSq, s, nil
}

// Verify checks the proof against a caller supplied commitment
// P = <a, G ∘ gFactors> + <b, H ∘ hFactors> + <a, b>·Q.
//
// Aggregated range proofs fold this check into their own
// multiexponentiation instead of calling it.
func (p *InnerProductProof) Verify(
	h *hash.Hash,
	n int,
	gFactors, hFactors []curve.Scalar,
	bigP, q curve.Point,
	gVec, hVec []curve.Point,
) error {
	group := p.A.Curve()
	uSq, uInvSq, s, err := p.VerificationScalars(n, h, group)
	if err != nil {
		return err
	}

	points := make([]curve.Point, 0, 1+2*n+2*len(p.L))
	scalars := make([]curve.Scalar, 0, 1+2*n+2*len(p.L))

	points = append(points, q)
	scalars = append(scalars, group.NewScalar().Set(p.A).Mul(p.B))

	for i := 0; i < n; i++ {
		points = append(points, gVec[i])
		scalars = append(scalars, group.NewScalar().Set(p.A).Mul(s[i]).Mul(gFactors[i]))
	}
	for i := 0; i < n; i++ {
		points = append(points, hVec[i])
		scalars = append(scalars, group.NewScalar().Set(p.B).Mul(s[n-1-i]).Mul(hFactors[i]))
	}
	for i := range p.L {
		points = append(points, p.L[i])
		scalars = append(scalars, group.NewScalar().Set(uSq[i]).Negate())
	}
	for i := range p.R {
		points = append(points, p.R[i])
		scalars = append(scalars, group.NewScalar().Set(uInvSq[i]).Negate())
	}

	if !msm(points, scalars).Equal(bigP) {
		return ErrVerificationFailed
	}
	return nil
}
