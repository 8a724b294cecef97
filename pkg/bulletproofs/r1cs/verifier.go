package r1cs

import (
	"golang.org/x/sync/errgroup"

	"github.com/brave-experiments/boomerang/pkg/bulletproofs"
	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
)

// Verifier rebuilds a constraint system against its own transcript and
// checks a proof for it. The gates and constraints must be added in the same
// order the prover added them.
type Verifier struct {
	group      curve.Curve
	transcript *hash.Hash

	constraints []LinearCombination
	numVars     int
	v           []curve.Point

	deferred          []RandomizationFn
	pendingMultiplier int
	phase1Constraints int
}

// NewVerifier starts verification over the given transcript.
func NewVerifier(group curve.Curve, h *hash.Hash) *Verifier {
	r1csDomain(h)
	return &Verifier{
		group:             group,
		transcript:        h,
		pendingMultiplier: -1,
		phase1Constraints: -1,
	}
}

// Commit binds a committed input into the transcript and returns its
// variable.
func (v *Verifier) Commit(V curve.Point) Variable {
	i := len(v.v)
	v.v = append(v.v, V)
	appendPoint(v.transcript, "V", V)
	return Variable{kind: committed, index: i}
}

func (v *Verifier) Multiply(left, right LinearCombination) (Variable, Variable, Variable) {
	i := v.numVars
	v.numVars++
	lVar := Variable{kind: multiplierLeft, index: i}
	rVar := Variable{kind: multiplierRight, index: i}
	oVar := Variable{kind: multiplierOutput, index: i}

	minusOne := v.group.NewScalar().SetUInt64(1).Negate()
	v.Constrain(left.AddTerm(lVar, minusOne))
	v.Constrain(right.AddTerm(rVar, minusOne))

	return lVar, rVar, oVar
}

// Allocate reserves a wire. The assignment is the prover's business and is
// ignored here.
func (v *Verifier) Allocate(_ curve.Scalar) (Variable, error) {
	if v.pendingMultiplier < 0 {
		i := v.numVars
		v.numVars++
		v.pendingMultiplier = i
		return Variable{kind: multiplierLeft, index: i}, nil
	}
	i := v.pendingMultiplier
	v.pendingMultiplier = -1
	return Variable{kind: multiplierRight, index: i}, nil
}

func (v *Verifier) AllocateMultiplier(_, _ curve.Scalar) (Variable, Variable, Variable, error) {
	i := v.numVars
	v.numVars++
	return Variable{kind: multiplierLeft, index: i},
		Variable{kind: multiplierRight, index: i},
		Variable{kind: multiplierOutput, index: i},
		nil
}

func (v *Verifier) Constrain(lc LinearCombination) {
	v.constraints = append(v.constraints, lc)
}

func (v *Verifier) SpecifyRandomizedConstraints(fn RandomizationFn) error {
	v.deferred = append(v.deferred, fn)
	return nil
}

func (v *Verifier) Metrics() Metrics {
	m := Metrics{
		Multipliers: v.numVars,
		Constraints: len(v.constraints) + len(v.deferred),
	}
	if v.phase1Constraints < 0 {
		m.PhaseOneConstraints = len(v.constraints)
		m.PhaseTwoConstraints = len(v.deferred)
	} else {
		m.Constraints = len(v.constraints)
		m.PhaseOneConstraints = v.phase1Constraints
		m.PhaseTwoConstraints = len(v.constraints) - v.phase1Constraints
	}
	return m
}

type randomizedVerifier struct {
	*Verifier
}

func (r randomizedVerifier) ChallengeScalar(label string) curve.Scalar {
	return challengeScalar(r.transcript, r.group, label)
}

func (r randomizedVerifier) SpecifyRandomizedConstraints(fn RandomizationFn) error {
	return fn(r)
}

func (v *Verifier) runDeferred() error {
	v.pendingMultiplier = -1
	v.phase1Constraints = len(v.constraints)
	if len(v.deferred) == 0 {
		onePhaseDomain(v.transcript)
		return nil
	}
	twoPhaseDomain(v.transcript)
	deferred := v.deferred
	v.deferred = nil
	rv := randomizedVerifier{v}
	for _, fn := range deferred {
		if err := fn(rv); err != nil {
			return err
		}
	}
	return nil
}

// flattenedConstraints folds all constraints into one weight per wire. The
// verifier also folds the constant terms, which the prover never sees in its
// check equation.
func (v *Verifier) flattenedConstraints(z curve.Scalar) (wL, wR, wO, wV []curve.Scalar, wc curve.Scalar) {
	group := v.group
	wL = zeroVec(group, v.numVars)
	wR = zeroVec(group, v.numVars)
	wO = zeroVec(group, v.numVars)
	wV = zeroVec(group, len(v.v))
	wc = group.NewScalar()

	expZ := group.NewScalar().Set(z)
	tmp := group.NewScalar()
	for _, lc := range v.constraints {
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
				wc.Sub(tmp.Set(expZ).Mul(t.Coeff))
			}
		}
		expZ.Mul(z)
	}
	return wL, wR, wO, wV, wc
}

// verificationState holds one instance's scalars, grouped the way the final
// multiexponentiation consumes them.
type verificationState struct {
	paddedN int

	basepoint curve.Scalar
	bBlinding curve.Scalar
	gScalars  []curve.Scalar
	hScalars  []curve.Scalar
	// xVec scales AI1, AO1, S1, AI2, AO2 and S2 in that order.
	xVec     []curve.Scalar
	vScalars []curve.Scalar
	// tScalars scales T1, T3, T4, T5 and T6.
	tScalars []curve.Scalar
	uSq      []curve.Scalar
	uInvSq   []curve.Scalar
}

// verificationScalars replays the transcript and expands the proof into the
// scalars of the final multiexponentiation. It consumes the verifier.
func (v *Verifier) verificationScalars(proof *Proof, bpGens *bulletproofs.BulletproofGens) (*verificationState, error) {
	group := v.group
	h := v.transcript

	appendUint64(h, "m", uint64(len(v.v)))

	n1 := v.numVars
	if err := validateAndAppendPoint(h, "A_I1", proof.AI1); err != nil {
		return nil, err
	}
	if err := validateAndAppendPoint(h, "A_O1", proof.AO1); err != nil {
		return nil, err
	}
	if err := validateAndAppendPoint(h, "S_1", proof.S1); err != nil {
		return nil, err
	}

	if err := v.runDeferred(); err != nil {
		return nil, err
	}

	n := v.numVars
	paddedN := nextPowerOfTwo(n)
	if bpGens.GensCapacity < paddedN {
		return nil, bulletproofs.ErrInvalidGeneratorsLength
	}

	appendPoint(h, "A_I2", proof.AI2)
	appendPoint(h, "A_O2", proof.AO2)
	appendPoint(h, "S_2", proof.S2)

	y := challengeScalar(h, group, "y")
	z := challengeScalar(h, group, "z")
	if y.IsZero() || z.IsZero() {
		return nil, bulletproofs.ErrVerificationFailed
	}

	if err := validateAndAppendPoint(h, "T_1", proof.T1); err != nil {
		return nil, err
	}
	if err := validateAndAppendPoint(h, "T_3", proof.T3); err != nil {
		return nil, err
	}
	if err := validateAndAppendPoint(h, "T_4", proof.T4); err != nil {
		return nil, err
	}
	if err := validateAndAppendPoint(h, "T_5", proof.T5); err != nil {
		return nil, err
	}
	if err := validateAndAppendPoint(h, "T_6", proof.T6); err != nil {
		return nil, err
	}

	u := challengeScalar(h, group, "u")
	x := challengeScalar(h, group, "x")

	appendScalar(h, "t_x", proof.TX)
	appendScalar(h, "t_x_blinding", proof.TXBlinding)
	appendScalar(h, "e_blinding", proof.EBlinding)

	w := challengeScalar(h, group, "w")

	wL, wR, wO, wV, wc := v.flattenedConstraints(z)

	uSq, uInvSq, s, err := proof.IPP.VerificationScalars(paddedN, h, group)
	if err != nil {
		return nil, err
	}
	a := proof.IPP.A
	b := proof.IPP.B

	yInv := group.NewScalar().Set(y).Invert()
	expYInv := powers(group, yInv, paddedN)

	// Scale the right weights by the y-inverse powers once, so that both
	// the g scalars and the statement offset delta reuse them.
	ynegWR := zeroVec(group, paddedN)
	for i := 0; i < n; i++ {
		ynegWR[i].Set(expYInv[i]).Mul(wR[i])
	}
	delta := innerProduct(group, ynegWR[:n], wL)

	// The scaling factor for this instance's unique terms. Drawing it from
	// the transcript keeps verification deterministic and batchable.
	r := challengeScalar(h, group, "r")

	xSq := group.NewScalar().Set(x).Mul(x)
	xCu := group.NewScalar().Set(xSq).Mul(x)

	tmp := group.NewScalar()
	gScalars := make([]curve.Scalar, paddedN)
	hScalars := make([]curve.Scalar, paddedN)
	for i := 0; i < paddedN; i++ {
		uOr1 := group.NewScalar().SetUInt64(1)
		if i >= n1 {
			uOr1.Set(u)
		}

		g := group.NewScalar().Set(x).Mul(ynegWR[i]).Sub(tmp.Set(a).Mul(s[i]))
		gScalars[i] = g.Mul(uOr1)

		hh := group.NewScalar()
		if i < n {
			hh.Set(x).Mul(wL[i]).Add(wO[i])
		}
		hh.Sub(tmp.Set(b).Mul(s[paddedN-1-i]))
		hh.Mul(expYInv[i]).Sub(group.NewScalar().SetUInt64(1))
		hScalars[i] = hh.Mul(uOr1)
	}

	basepoint := group.NewScalar().Set(wc).Add(delta).Mul(xSq).Sub(proof.TX).Mul(r).
		Add(tmp.Set(proof.TX).Sub(group.NewScalar().Set(a).Mul(b)).Mul(w))
	bBlinding := group.NewScalar().Set(r).Mul(proof.TXBlinding).Add(proof.EBlinding).Negate()

	xVec := []curve.Scalar{
		group.NewScalar().Set(x),
		group.NewScalar().Set(xSq),
		group.NewScalar().Set(xCu),
		group.NewScalar().Set(u).Mul(x),
		group.NewScalar().Set(u).Mul(xSq),
		group.NewScalar().Set(u).Mul(xCu),
	}

	rxSq := group.NewScalar().Set(r).Mul(xSq)
	vScalars := make([]curve.Scalar, len(wV))
	for j := range wV {
		vScalars[j] = group.NewScalar().Set(rxSq).Mul(wV[j])
	}

	rx := group.NewScalar().Set(r).Mul(x)
	tScalars := []curve.Scalar{
		group.NewScalar().Set(rx),
		group.NewScalar().Set(rx).Mul(xSq),
		group.NewScalar().Set(rx).Mul(xCu),
		group.NewScalar().Set(rx).Mul(xSq).Mul(xSq),
		group.NewScalar().Set(rx).Mul(xSq).Mul(xCu),
	}

	return &verificationState{
		paddedN:   paddedN,
		basepoint: basepoint,
		bBlinding: bBlinding,
		gScalars:  gScalars,
		hScalars:  hScalars,
		xVec:      xVec,
		vScalars:  vScalars,
		tScalars:  tScalars,
		uSq:       uSq,
		uInvSq:    uInvSq,
	}, nil
}

// uniquePoints lists the points scaled by this instance's unique scalars, in
// the order verificationState stores them after the shared bases.
func (v *Verifier) uniquePoints(proof *Proof) []curve.Point {
	points := make([]curve.Point, 0, 11+len(v.v)+2*len(proof.IPP.L))
	points = append(points, proof.AI1, proof.AO1, proof.S1, proof.AI2, proof.AO2, proof.S2)
	points = append(points, v.v...)
	points = append(points, proof.T1, proof.T3, proof.T4, proof.T5, proof.T6)
	points = append(points, proof.IPP.L...)
	points = append(points, proof.IPP.R...)
	return points
}

func (s *verificationState) uniqueScalars() []curve.Scalar {
	scalars := make([]curve.Scalar, 0, 11+len(s.vScalars)+len(s.uSq)+len(s.uInvSq))
	scalars = append(scalars, s.xVec...)
	scalars = append(scalars, s.vScalars...)
	scalars = append(scalars, s.tScalars...)
	scalars = append(scalars, s.uSq...)
	scalars = append(scalars, s.uInvSq...)
	return scalars
}

// Verify checks the proof against the system built so far, consuming the
// verifier.
func (v *Verifier) Verify(proof *Proof, pcGens bulletproofs.PedersenGens, bpGens *bulletproofs.BulletproofGens) error {
	state, err := v.verificationScalars(proof, bpGens)
	if err != nil {
		return err
	}

	gens := bpGens.Share(0)
	points := make([]curve.Point, 0, 2+2*state.paddedN+11+len(v.v)+2*len(proof.IPP.L))
	points = append(points, pcGens.B, pcGens.BBlinding)
	points = append(points, gens.G(state.paddedN)...)
	points = append(points, gens.H(state.paddedN)...)
	points = append(points, v.uniquePoints(proof)...)

	scalars := make([]curve.Scalar, 0, cap(points))
	scalars = append(scalars, state.basepoint, state.bBlinding)
	scalars = append(scalars, state.gScalars...)
	scalars = append(scalars, state.hScalars...)
	scalars = append(scalars, state.uniqueScalars()...)

	if !msm(v.group, points, scalars).IsIdentity() {
		return bulletproofs.ErrVerificationFailed
	}
	return nil
}

// BatchVerify checks many proofs with one multiexponentiation. Each verifier
// carries its own constraint system and transcript; the shared bases are
// accumulated across instances under per-instance scaling drawn from each
// transcript. Any failure reports only that the batch is invalid.
func BatchVerify(verifiers []*Verifier, proofs []*Proof, pcGens bulletproofs.PedersenGens, bpGens *bulletproofs.BulletproofGens) error {
	if len(verifiers) == 0 || len(verifiers) != len(proofs) {
		return bulletproofs.ErrInvalidInputLength
	}
	group := verifiers[0].group

	states := make([]*verificationState, len(proofs))
	var g errgroup.Group
	for i := range proofs {
		i := i
		g.Go(func() error {
			state, err := verifiers[i].verificationScalars(proofs[i], bpGens)
			if err != nil {
				return err
			}
			states[i] = state
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	maxN := 0
	for _, state := range states {
		if state.paddedN > maxN {
			maxN = state.paddedN
		}
	}

	baseScalar := group.NewScalar()
	blindingScalar := group.NewScalar()
	gAcc := zeroVec(group, maxN)
	hAcc := zeroVec(group, maxN)

	var points []curve.Point
	var scalars []curve.Scalar
	tmp := group.NewScalar()
	for i, state := range states {
		alpha := challengeScalar(verifiers[i].transcript, group, "batch")

		baseScalar.Add(tmp.Set(alpha).Mul(state.basepoint))
		blindingScalar.Add(tmp.Set(alpha).Mul(state.bBlinding))
		for j := 0; j < state.paddedN; j++ {
			gAcc[j].Add(tmp.Set(alpha).Mul(state.gScalars[j]))
			hAcc[j].Add(tmp.Set(alpha).Mul(state.hScalars[j]))
		}

		unique := state.uniqueScalars()
		for _, s := range unique {
			scalars = append(scalars, s.Mul(alpha))
		}
		points = append(points, verifiers[i].uniquePoints(proofs[i])...)
	}

	gens := bpGens.Share(0)
	allPoints := make([]curve.Point, 0, 2+2*maxN+len(points))
	allPoints = append(allPoints, pcGens.B, pcGens.BBlinding)
	allPoints = append(allPoints, gens.G(maxN)...)
	allPoints = append(allPoints, gens.H(maxN)...)
	allPoints = append(allPoints, points...)

	allScalars := make([]curve.Scalar, 0, cap(allPoints))
	allScalars = append(allScalars, baseScalar, blindingScalar)
	allScalars = append(allScalars, gAcc...)
	allScalars = append(allScalars, hAcc...)
	allScalars = append(allScalars, scalars...)

	if !msm(group, allPoints, allScalars).IsIdentity() {
		return bulletproofs.ErrVerificationFailed
	}
	return nil
}
