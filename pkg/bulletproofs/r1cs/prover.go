package r1cs

import (
	"io"

	"github.com/brave-experiments/boomerang/internal/zero"
	"github.com/brave-experiments/boomerang/pkg/bulletproofs"
	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
)

// Prover accumulates a constraint system together with the secret wire
// assignments, then proves it satisfiable.
type Prover struct {
	group      curve.Curve
	pcGens     bulletproofs.PedersenGens
	transcript *hash.Hash

	constraints []LinearCombination
	aL, aR, aO  []curve.Scalar
	v           []curve.Scalar
	vBlinding   []curve.Scalar

	deferred          []RandomizationFn
	pendingMultiplier int
	phase1Constraints int
}

// NewProver starts a proof over the given transcript. The transcript
// separates this proof from anything written to it before.
func NewProver(group curve.Curve, pcGens bulletproofs.PedersenGens, h *hash.Hash) *Prover {
	r1csDomain(h)
	return &Prover{
		group:             group,
		pcGens:            pcGens,
		transcript:        h,
		pendingMultiplier: -1,
		phase1Constraints: -1,
	}
}

// Commit adds a committed input to the system. The commitment is bound into
// the transcript, so the order of Commit calls must match the verifier's.
func (p *Prover) Commit(value, blinding curve.Scalar) (curve.Point, Variable) {
	i := len(p.v)
	p.v = append(p.v, p.group.NewScalar().Set(value))
	p.vBlinding = append(p.vBlinding, p.group.NewScalar().Set(blinding))
	V := p.pcGens.Commit(value, blinding)
	appendPoint(p.transcript, "V", V)
	return V, Variable{kind: committed, index: i}
}

// eval computes the assignment of a linear combination.
func (p *Prover) eval(lc LinearCombination) curve.Scalar {
	out := p.group.NewScalar()
	tmp := p.group.NewScalar()
	for _, t := range lc.terms {
		switch t.Variable.kind {
		case multiplierLeft:
			out.Add(tmp.Set(t.Coeff).Mul(p.aL[t.Variable.index]))
		case multiplierRight:
			out.Add(tmp.Set(t.Coeff).Mul(p.aR[t.Variable.index]))
		case multiplierOutput:
			out.Add(tmp.Set(t.Coeff).Mul(p.aO[t.Variable.index]))
		case committed:
			out.Add(tmp.Set(t.Coeff).Mul(p.v[t.Variable.index]))
		case constantOne:
			out.Add(t.Coeff)
		}
	}
	return out
}

func (p *Prover) Multiply(left, right LinearCombination) (Variable, Variable, Variable) {
	l := p.eval(left)
	r := p.eval(right)
	o := p.group.NewScalar().Set(l).Mul(r)

	i := len(p.aL)
	p.aL = append(p.aL, l)
	p.aR = append(p.aR, r)
	p.aO = append(p.aO, o)
	lVar := Variable{kind: multiplierLeft, index: i}
	rVar := Variable{kind: multiplierRight, index: i}
	oVar := Variable{kind: multiplierOutput, index: i}

	minusOne := p.group.NewScalar().SetUInt64(1).Negate()
	p.Constrain(left.AddTerm(lVar, minusOne))
	p.Constrain(right.AddTerm(rVar, minusOne))

	return lVar, rVar, oVar
}

func (p *Prover) Allocate(assignment curve.Scalar) (Variable, error) {
	if assignment == nil {
		return Variable{}, bulletproofs.ErrMissingAssignment
	}
	if p.pendingMultiplier < 0 {
		i := len(p.aL)
		p.pendingMultiplier = i
		p.aL = append(p.aL, p.group.NewScalar().Set(assignment))
		p.aR = append(p.aR, p.group.NewScalar())
		p.aO = append(p.aO, p.group.NewScalar())
		return Variable{kind: multiplierLeft, index: i}, nil
	}
	i := p.pendingMultiplier
	p.pendingMultiplier = -1
	p.aR[i].Set(assignment)
	p.aO[i].Set(p.aL[i]).Mul(p.aR[i])
	return Variable{kind: multiplierRight, index: i}, nil
}

func (p *Prover) AllocateMultiplier(left, right curve.Scalar) (Variable, Variable, Variable, error) {
	if left == nil || right == nil {
		return Variable{}, Variable{}, Variable{}, bulletproofs.ErrMissingAssignment
	}
	i := len(p.aL)
	p.aL = append(p.aL, p.group.NewScalar().Set(left))
	p.aR = append(p.aR, p.group.NewScalar().Set(right))
	p.aO = append(p.aO, p.group.NewScalar().Set(left).Mul(right))
	return Variable{kind: multiplierLeft, index: i},
		Variable{kind: multiplierRight, index: i},
		Variable{kind: multiplierOutput, index: i},
		nil
}

func (p *Prover) Constrain(lc LinearCombination) {
	p.constraints = append(p.constraints, lc)
}

func (p *Prover) SpecifyRandomizedConstraints(fn RandomizationFn) error {
	p.deferred = append(p.deferred, fn)
	return nil
}

func (p *Prover) Metrics() Metrics {
	m := Metrics{
		Multipliers: len(p.aL),
		Constraints: len(p.constraints) + len(p.deferred),
	}
	if p.phase1Constraints < 0 {
		m.PhaseOneConstraints = len(p.constraints)
		m.PhaseTwoConstraints = len(p.deferred)
	} else {
		m.Constraints = len(p.constraints)
		m.PhaseOneConstraints = p.phase1Constraints
		m.PhaseTwoConstraints = len(p.constraints) - p.phase1Constraints
	}
	return m
}

// randomizedProver is the second-phase view of the prover. Constraints
// specified inside the second phase run immediately.
type randomizedProver struct {
	*Prover
}

func (r randomizedProver) ChallengeScalar(label string) curve.Scalar {
	return challengeScalar(r.transcript, r.group, label)
}

func (r randomizedProver) SpecifyRandomizedConstraints(fn RandomizationFn) error {
	return fn(r)
}

func (p *Prover) runDeferred() error {
	p.pendingMultiplier = -1
	p.phase1Constraints = len(p.constraints)
	if len(p.deferred) == 0 {
		onePhaseDomain(p.transcript)
		return nil
	}
	twoPhaseDomain(p.transcript)
	deferred := p.deferred
	p.deferred = nil
	rp := randomizedProver{p}
	for _, fn := range deferred {
		if err := fn(rp); err != nil {
			return err
		}
	}
	return nil
}

// flattenedConstraints folds all constraints into one weight per wire, with
// the j-th constraint scaled by z^(j+1). Constant terms only matter to the
// verifier and are skipped here.
func (p *Prover) flattenedConstraints(z curve.Scalar) (wL, wR, wO, wV []curve.Scalar) {
	group := p.group
	wL = zeroVec(group, len(p.aL))
	wR = zeroVec(group, len(p.aL))
	wO = zeroVec(group, len(p.aL))
	wV = zeroVec(group, len(p.v))

	expZ := group.NewScalar().Set(z)
	tmp := group.NewScalar()
	for _, lc := range p.constraints {
		for _, t := range lc.terms {
			switch t.Variable.kind {
			case multiplierLeft:
				wL[t.Variable.index].Add(tmp.Set(expZ).Mul(t.Coeff))
			case multiplierRight:
				wR[t.Variable.index].Add(tmp.Set(expZ).Mul(t.Coeff))
			case multiplierOutput:
				wO[t.Variable.index].Add(tmp.Set(expZ).Mul(t.Coeff))
			case committed:
				wV[t.Variable.index].Sub(tmp.Set(expZ).Mul(t.Coeff))
			case constantOne:
			}
		}
		expZ.Mul(z)
	}
	return wL, wR, wO, wV
}

func sampleVec(rand io.Reader, group curve.Curve, n int) []curve.Scalar {
	out := make([]curve.Scalar, n)
	for i := range out {
		out[i] = sample.Scalar(rand, group)
	}
	return out
}

// Prove finishes the system and produces a proof. The second-phase
// constraints run between the two rounds of wire commitments, so their
// challenges are bound to the first-phase wires.
func (p *Prover) Prove(rand io.Reader, bpGens *bulletproofs.BulletproofGens) (*Proof, error) {
	group := p.group
	h := p.transcript

	appendUint64(h, "m", uint64(len(p.v)))

	gens := bpGens.Share(0)
	n1 := len(p.aL)
	if bpGens.GensCapacity < n1 {
		return nil, bulletproofs.ErrInvalidGeneratorsLength
	}

	iB1 := sample.Scalar(rand, group)
	oB1 := sample.Scalar(rand, group)
	sB1 := sample.Scalar(rand, group)
	sL1 := sampleVec(rand, group, n1)
	sR1 := sampleVec(rand, group, n1)

	g1 := gens.G(n1)
	h1 := gens.H(n1)

	tmp := group.NewScalar()
	AI1 := tmp.Set(iB1).Act(p.pcGens.BBlinding).
		Add(msm(group, g1, p.aL)).
		Add(msm(group, h1, p.aR))
	AO1 := tmp.Set(oB1).Act(p.pcGens.BBlinding).
		Add(msm(group, g1, p.aO))
	S1 := tmp.Set(sB1).Act(p.pcGens.BBlinding).
		Add(msm(group, g1, sL1)).
		Add(msm(group, h1, sR1))

	appendPoint(h, "A_I1", AI1)
	appendPoint(h, "A_O1", AO1)
	appendPoint(h, "S_1", S1)

	if err := p.runDeferred(); err != nil {
		return nil, err
	}

	n := len(p.aL)
	n2 := n - n1
	paddedN := nextPowerOfTwo(n)
	if bpGens.GensCapacity < paddedN {
		return nil, bulletproofs.ErrInvalidGeneratorsLength
	}

	gVec := gens.G(paddedN)
	hVec := gens.H(paddedN)

	iB2 := group.NewScalar()
	oB2 := group.NewScalar()
	sB2 := group.NewScalar()
	var sL2, sR2 []curve.Scalar
	AI2 := group.NewPoint()
	AO2 := group.NewPoint()
	S2 := group.NewPoint()
	if n2 > 0 {
		iB2 = sample.Scalar(rand, group)
		oB2 = sample.Scalar(rand, group)
		sB2 = sample.Scalar(rand, group)
		sL2 = sampleVec(rand, group, n2)
		sR2 = sampleVec(rand, group, n2)

		g2 := gVec[n1:n]
		h2 := hVec[n1:n]
		AI2 = tmp.Set(iB2).Act(p.pcGens.BBlinding).
			Add(msm(group, g2, p.aL[n1:])).
			Add(msm(group, h2, p.aR[n1:]))
		AO2 = tmp.Set(oB2).Act(p.pcGens.BBlinding).
			Add(msm(group, g2, p.aO[n1:]))
		S2 = tmp.Set(sB2).Act(p.pcGens.BBlinding).
			Add(msm(group, g2, sL2)).
			Add(msm(group, h2, sR2))
	}

	// The second-phase points may legitimately be the identity, so they are
	// appended without validation.
	appendPoint(h, "A_I2", AI2)
	appendPoint(h, "A_O2", AO2)
	appendPoint(h, "S_2", S2)

	y := challengeScalar(h, group, "y")
	z := challengeScalar(h, group, "z")

	wL, wR, wO, wV := p.flattenedConstraints(z)

	yInv := group.NewScalar().Set(y).Invert()
	expYInv := powers(group, yInv, paddedN)
	expY := powers(group, y, paddedN)

	sL := append(sL1, sL2...)
	sR := append(sR1, sR2...)

	lPoly := newVecPoly3(group, n)
	rPoly := newVecPoly3(group, n)
	for i := 0; i < n; i++ {
		lPoly.B[i].Set(expYInv[i]).Mul(wR[i]).Add(p.aL[i])
		lPoly.C[i].Set(p.aO[i])
		lPoly.D[i].Set(sL[i])
		rPoly.A[i].Set(wO[i]).Sub(expY[i])
		rPoly.B[i].Set(expY[i]).Mul(p.aR[i]).Add(wL[i])
		rPoly.D[i].Set(expY[i]).Mul(sR[i])
	}

	tPoly := specialInnerProduct(group, lPoly, rPoly)

	t1B := sample.Scalar(rand, group)
	t3B := sample.Scalar(rand, group)
	t4B := sample.Scalar(rand, group)
	t5B := sample.Scalar(rand, group)
	t6B := sample.Scalar(rand, group)
	// The x² coefficient of t(x) is determined by the committed values, so
	// its blinding comes from their openings rather than fresh randomness.
	t2B := innerProduct(group, wV, p.vBlinding)

	T1 := p.pcGens.Commit(tPoly.T1, t1B)
	T3 := p.pcGens.Commit(tPoly.T3, t3B)
	T4 := p.pcGens.Commit(tPoly.T4, t4B)
	T5 := p.pcGens.Commit(tPoly.T5, t5B)
	T6 := p.pcGens.Commit(tPoly.T6, t6B)

	appendPoint(h, "T_1", T1)
	appendPoint(h, "T_3", T3)
	appendPoint(h, "T_4", T4)
	appendPoint(h, "T_5", T5)
	appendPoint(h, "T_6", T6)

	u := challengeScalar(h, group, "u")
	x := challengeScalar(h, group, "x")

	tBlindingPoly := poly6{T1: t1B, T2: t2B, T3: t3B, T4: t4B, T5: t5B, T6: t6B}
	tx := tPoly.Eval(x)
	txBlinding := tBlindingPoly.Eval(x)

	iB := group.NewScalar().Set(u).Mul(iB2).Add(iB1)
	oB := group.NewScalar().Set(u).Mul(oB2).Add(oB1)
	sB := group.NewScalar().Set(u).Mul(sB2).Add(sB1)
	eBlinding := group.NewScalar().Set(sB).Mul(x).Add(oB).Mul(x).Add(iB).Mul(x)

	appendScalar(h, "t_x", tx)
	appendScalar(h, "t_x_blinding", txBlinding)
	appendScalar(h, "e_blinding", eBlinding)

	w := challengeScalar(h, group, "w")
	q := group.NewScalar().Set(w).Act(p.pcGens.B)

	lVec := lPoly.Eval(x)
	rVec := rPoly.Eval(x)
	for i := n; i < paddedN; i++ {
		lVec = append(lVec, group.NewScalar())
		rVec = append(rVec, group.NewScalar().Set(expY[i]).Negate())
	}

	gFactors := make([]curve.Scalar, paddedN)
	hFactors := make([]curve.Scalar, paddedN)
	for i := 0; i < paddedN; i++ {
		if i < n1 {
			gFactors[i] = group.NewScalar().SetUInt64(1)
		} else {
			gFactors[i] = group.NewScalar().Set(u)
		}
		hFactors[i] = group.NewScalar().Set(gFactors[i]).Mul(expYInv[i])
	}

	ipp := bulletproofs.NewInnerProductProof(h, q, gFactors, hFactors, gVec, hVec, lVec, rVec)

	lPoly.Zeroize()
	rPoly.Zeroize()
	tPoly.Zeroize()
	zero.Vec(sL)
	zero.Vec(sR)
	zero.Scalars(iB1, oB1, sB1, iB2, oB2, sB2, iB, oB, sB)
	zero.Scalars(t1B, t2B, t3B, t4B, t5B, t6B)

	return &Proof{
		AI1: AI1, AO1: AO1, S1: S1,
		AI2: AI2, AO2: AO2, S2: S2,
		T1: T1, T3: T3, T4: T4, T5: T5, T6: T6,
		TX:         tx,
		TXBlinding: txBlinding,
		EBlinding:  eBlinding,
		IPP:        ipp,
	}, nil
}
