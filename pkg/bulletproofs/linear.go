package bulletproofs

import (
	"io"
	"math/bits"

	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
)

// LinearProof is a lightweight variant of the inner-product argument,
// proving <a, b> = c for a secret vector a and a public vector b, following
// section E.3 of GHL'21. Because b is public, it is folded in the open and
// only the a side needs commitments.
type LinearProof struct {
	L []curve.Point
	R []curve.Point
	// S commits to the base case elements.
	S curve.Point
	// A is a*, the blinded base case of the secret vector.
	A curve.Scalar
	// Rho is r*, the blinded base case of the commitment randomness.
	Rho curve.Scalar
}

// NewLinearProof proves that the commitment c opens to
// <a, G> + r·bBase + <a, b>·f.
//
// The vectors a, b and gVec are consumed as scratch space.
func NewLinearProof(
	rand io.Reader,
	h *hash.Hash,
	c curve.Point,
	r curve.Scalar,
	a, b []curve.Scalar,
	gVec []curve.Point,
	f, bBase curve.Point,
) (*LinearProof, error) {
	n := len(b)
	if len(gVec) != n {
		return nil, ErrInvalidGeneratorsLength
	}
	if len(a) != n || n == 0 || n&(n-1) != 0 {
		return nil, ErrInvalidInputLength
	}
	group := r.Curve()

	innerproductDomain(h, uint64(n))
	appendPoint(h, "C", c)
	for _, bi := range b {
		appendScalar(h, "b_i", bi)
	}
	for _, gi := range gVec {
		appendPoint(h, "G_i", gi)
	}
	appendPoint(h, "F", f)
	appendPoint(h, "B", bBase)

	rAcc := group.NewScalar().Set(r)
	lgN := bits.TrailingZeros(uint(n))
	proof := &LinearProof{
		L: make([]curve.Point, 0, lgN),
		R: make([]curve.Point, 0, lgN),
	}
	tmp := group.NewScalar()

	for n != 1 {
		n = n / 2
		aL, aR := a[:n], a[n:2*n]
		bL, bR := b[:n], b[n:2*n]
		gL, gR := gVec[:n], gVec[n:2*n]

		cL := innerProduct(aL, bR)
		cR := innerProduct(aR, bL)

		sj := sample.Scalar(rand, group)
		tj := sample.Scalar(rand, group)

		// L = <a_L, G_R> + s_j·B + c_L·F
		l := msm(gR, aL).Add(tmp.Set(sj).Act(bBase)).Add(tmp.Set(cL).Act(f))
		// R = <a_R, G_L> + t_j·B + c_R·F
		rr := msm(gL, aR).Add(tmp.Set(tj).Act(bBase)).Add(tmp.Set(cR).Act(f))

		proof.L = append(proof.L, l)
		proof.R = append(proof.R, rr)
		appendPoint(h, "L", l)
		appendPoint(h, "R", rr)

		xj := challengeScalar(h, group, "x_j")
		xjInv := group.NewScalar().Set(xj).Invert()

		for i := 0; i < n; i++ {
			aL[i] = group.NewScalar().Set(aL[i]).Add(tmp.Set(xjInv).Mul(aR[i]))
			bL[i] = group.NewScalar().Set(bL[i]).Add(tmp.Set(xj).Mul(bR[i]))
			gL[i] = gL[i].Add(tmp.Set(xj).Act(gR[i]))
		}
		a, b, gVec = aL, bL, gL
		rAcc.Add(tmp.Set(xj).Mul(sj)).Add(group.NewScalar().Set(xjInv).Mul(tj))
	}

	sStar := sample.Scalar(rand, group)
	tStar := sample.Scalar(rand, group)
	s := tmp.Set(tStar).Act(bBase).
		Add(group.NewScalar().Set(sStar).Mul(b[0]).Act(f)).
		Add(group.NewScalar().Set(sStar).Act(gVec[0]))
	proof.S = s
	appendPoint(h, "S", s)

	xStar := challengeScalar(h, group, "x_star")
	proof.A = group.NewScalar().Set(xStar).Mul(a[0]).Add(sStar)
	proof.Rho = group.NewScalar().Set(xStar).Mul(rAcc).Add(tStar)
	return proof, nil
}

// Verify checks the proof against the commitment c and public vector b.
func (p *LinearProof) Verify(
	h *hash.Hash,
	c curve.Point,
	gVec []curve.Point,
	f, bBase curve.Point,
	b []curve.Scalar,
) error {
	n := len(b)
	if len(gVec) != n {
		return ErrInvalidGeneratorsLength
	}
	group := p.A.Curve()

	innerproductDomain(h, uint64(n))
	appendPoint(h, "C", c)
	for _, bi := range b {
		appendScalar(h, "b_i", bi)
	}
	for _, gi := range gVec {
		appendPoint(h, "G_i", gi)
	}
	appendPoint(h, "F", f)
	appendPoint(h, "B", bBase)

	xs, xInvs, b0, err := p.verificationScalars(n, h, b)
	if err != nil {
		return err
	}
	appendPoint(h, "S", p.S)
	xStar := challengeScalar(h, group, "x_star")

	// Σ x_j·L_j + x_j^{-1}·R_j
	lrFactors := msm(p.L, xs).Add(msm(p.R, xInvs))

	// The base case generator, expanded from the challenge subset products.
	s := p.subsetProduct(n, xs)
	g0 := msm(gVec, s)

	// S == r*·B + a*·b_0·F - x*·(C + Σ x_j·L_j + x_j^{-1}·R_j) + a*·G_0
	tmp := group.NewScalar()
	expected := tmp.Set(p.Rho).Act(bBase).
		Add(group.NewScalar().Set(p.A).Mul(b0).Act(f)).
		Sub(group.NewScalar().Set(xStar).Act(c.Add(lrFactors))).
		Add(group.NewScalar().Set(p.A).Act(g0))

	if !expected.Equal(p.S) {
		return ErrVerificationFailed
	}
	return nil
}

// verificationScalars replays the folding challenges and folds the public
// vector b down to its base case.
func (p *LinearProof) verificationScalars(
	n int,
	h *hash.Hash,
	b []curve.Scalar,
) (xs, xInvs []curve.Scalar, b0 curve.Scalar, err error) {
	lgN := len(p.L)
	if lgN >= 32 || len(p.R) != lgN {
		return nil, nil, nil, ErrVerificationFailed
	}
	if n != 1<<lgN {
		return nil, nil, nil, ErrVerificationFailed
	}
	group := p.A.Curve()

	folded := make([]curve.Scalar, n)
	for i := range b {
		folded[i] = group.NewScalar().Set(b[i])
	}

	xs = make([]curve.Scalar, 0, lgN)
	xInvs = make([]curve.Scalar, 0, lgN)
	tmp := group.NewScalar()
	for i := 0; i < lgN; i++ {
		if err := validateAndAppendPoint(h, "L", p.L[i]); err != nil {
			return nil, nil, nil, err
		}
		if err := validateAndAppendPoint(h, "R", p.R[i]); err != nil {
			return nil, nil, nil, err
		}
		xj := challengeScalar(h, group, "x_j")
		if xj.IsZero() {
			return nil, nil, nil, ErrVerificationFailed
		}
		xs = append(xs, xj)
		xInvs = append(xInvs, group.NewScalar().Set(xj).Invert())

		n = n / 2
		for k := 0; k < n; k++ {
			folded[k] = folded[k].Add(tmp.Set(xj).Mul(folded[n+k]))
		}
		folded = folded[:n]
	}
	return xs, xInvs, folded[0], nil
}

// subsetProduct expands the challenges into the coefficients of the base
// case generator: s_i is the product of the challenges selected by the bits
// of i. Unlike the inner-product argument, unselected challenges contribute
// 1 rather than an inverse.
func (p *LinearProof) subsetProduct(n int, challenges []curve.Scalar) []curve.Scalar {
	group := p.A.Curve()
	lgN := len(p.L)

	s := make([]curve.Scalar, 0, n)
	s = append(s, group.NewScalar().SetUInt64(1))
	for i := 1; i < n; i++ {
		lgI := bits.Len(uint(i)) - 1
		k := 1 << lgI
		// Challenges are in creation order, so x_{lg(i)+1} sits at
		// index (lgN-1) - lgI.
		xLgI := challenges[(lgN-1)-lgI]
		s = append(s, group.NewScalar().Set(s[i-k]).Mul(xLgI))
	}
	return s
}
