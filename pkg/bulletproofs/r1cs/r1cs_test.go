package r1cs

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brave-experiments/boomerang/pkg/bulletproofs"
	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
)

// shuffleGadget constrains y to be a permutation of x, by comparing the two
// product polynomials at a challenge point drawn after x and y are fixed.
func shuffleGadget(cs ConstraintSystem, group curve.Curve, x, y []Variable) error {
	if len(x) != len(y) {
		return bulletproofs.ErrInvalidInputLength
	}
	return cs.SpecifyRandomizedConstraints(func(rcs RandomizedConstraintSystem) error {
		z := rcs.ChallengeScalar("shuffle")
		if len(x) == 1 {
			rcs.Constrain(NewLC(group).AddVariable(y[0]).Sub(NewLC(group).AddVariable(x[0])))
			return nil
		}
		product := func(vars []Variable) Variable {
			sub := func(v Variable) LinearCombination {
				return NewLC(group).AddVariable(v).AddConstant(group.NewScalar().Set(z).Negate())
			}
			k := len(vars)
			_, _, last := rcs.Multiply(sub(vars[k-2]), sub(vars[k-1]))
			for i := k - 3; i >= 0; i-- {
				_, _, last = rcs.Multiply(sub(vars[i]), NewLC(group).AddVariable(last))
			}
			return last
		}
		px := product(x)
		py := product(y)
		rcs.Constrain(NewLC(group).AddVariable(px).Sub(NewLC(group).AddVariable(py)))
		return nil
	})
}

func proveShuffle(
	t *testing.T,
	group curve.Curve,
	pcGens bulletproofs.PedersenGens,
	bpGens *bulletproofs.BulletproofGens,
	inputs, outputs []curve.Scalar,
) (*Proof, []curve.Point, []curve.Point, *Prover) {
	t.Helper()

	prover := NewProver(group, pcGens, hash.New())
	xPoints := make([]curve.Point, len(inputs))
	xVars := make([]Variable, len(inputs))
	for i, v := range inputs {
		xPoints[i], xVars[i] = prover.Commit(v, sample.Scalar(rand.Reader, group))
	}
	yPoints := make([]curve.Point, len(outputs))
	yVars := make([]Variable, len(outputs))
	for i, v := range outputs {
		yPoints[i], yVars[i] = prover.Commit(v, sample.Scalar(rand.Reader, group))
	}
	require.NoError(t, shuffleGadget(prover, group, xVars, yVars))

	proof, err := prover.Prove(rand.Reader, bpGens)
	require.NoError(t, err)
	return proof, xPoints, yPoints, prover
}

func verifyShuffle(
	group curve.Curve,
	pcGens bulletproofs.PedersenGens,
	bpGens *bulletproofs.BulletproofGens,
	proof *Proof,
	xPoints, yPoints []curve.Point,
) error {
	verifier := newShuffleVerifier(group, xPoints, yPoints)
	return verifier.Verify(proof, pcGens, bpGens)
}

func newShuffleVerifier(group curve.Curve, xPoints, yPoints []curve.Point) *Verifier {
	verifier := NewVerifier(group, hash.New())
	xVars := make([]Variable, len(xPoints))
	for i, p := range xPoints {
		xVars[i] = verifier.Commit(p)
	}
	yVars := make([]Variable, len(yPoints))
	for i, p := range yPoints {
		yVars[i] = verifier.Commit(p)
	}
	_ = shuffleGadget(verifier, group, xVars, yVars)
	return verifier
}

func TestShuffleProof(t *testing.T) {
	group := curve.T256()
	pcGens := bulletproofs.NewPedersenGens(group)
	bpGens := bulletproofs.NewBulletproofGens(group, 2048, 1)

	for _, k := range []int{1, 2, 8, 64, 1024} {
		inputs := make([]curve.Scalar, k)
		outputs := make([]curve.Scalar, k)
		for i := range inputs {
			inputs[i] = sample.Scalar(rand.Reader, group)
			outputs[k-1-i] = inputs[i]
		}

		proof, xPoints, yPoints, _ := proveShuffle(t, group, pcGens, bpGens, inputs, outputs)
		assert.NoError(t, verifyShuffle(group, pcGens, bpGens, proof, xPoints, yPoints), "shuffle of %d values should verify", k)
	}
}

func TestShuffleProofRejectsNonPermutation(t *testing.T) {
	group := curve.T256()
	pcGens := bulletproofs.NewPedersenGens(group)
	bpGens := bulletproofs.NewBulletproofGens(group, 64, 1)

	k := 8
	inputs := make([]curve.Scalar, k)
	outputs := make([]curve.Scalar, k)
	for i := range inputs {
		inputs[i] = sample.Scalar(rand.Reader, group)
		outputs[i] = sample.Scalar(rand.Reader, group)
	}

	proof, xPoints, yPoints, _ := proveShuffle(t, group, pcGens, bpGens, inputs, outputs)
	assert.ErrorIs(t, verifyShuffle(group, pcGens, bpGens, proof, xPoints, yPoints), bulletproofs.ErrVerificationFailed)
}

func TestShuffleProofRejectsTampering(t *testing.T) {
	group := curve.T256()
	pcGens := bulletproofs.NewPedersenGens(group)
	bpGens := bulletproofs.NewBulletproofGens(group, 64, 1)

	k := 4
	inputs := make([]curve.Scalar, k)
	outputs := make([]curve.Scalar, k)
	for i := range inputs {
		inputs[i] = sample.Scalar(rand.Reader, group)
		outputs[k-1-i] = inputs[i]
	}

	proof, xPoints, yPoints, _ := proveShuffle(t, group, pcGens, bpGens, inputs, outputs)
	proof.TX = group.NewScalar().Set(proof.TX).Add(group.NewScalar().SetUInt64(1))
	assert.ErrorIs(t, verifyShuffle(group, pcGens, bpGens, proof, xPoints, yPoints), bulletproofs.ErrVerificationFailed)
}

func TestProductGadget(t *testing.T) {
	group := curve.T256()
	pcGens := bulletproofs.NewPedersenGens(group)
	bpGens := bulletproofs.NewBulletproofGens(group, 8, 1)

	a := sample.Scalar(rand.Reader, group)
	b := sample.Scalar(rand.Reader, group)
	c := group.NewScalar().Set(a).Mul(b)

	prover := NewProver(group, pcGens, hash.New())
	aPoint, aVar := prover.Commit(a, sample.Scalar(rand.Reader, group))
	bPoint, bVar := prover.Commit(b, sample.Scalar(rand.Reader, group))
	cPoint, cVar := prover.Commit(c, sample.Scalar(rand.Reader, group))
	_, _, oVar := prover.Multiply(NewLC(group).AddVariable(aVar), NewLC(group).AddVariable(bVar))
	prover.Constrain(NewLC(group).AddVariable(oVar).Sub(NewLC(group).AddVariable(cVar)))

	proof, err := prover.Prove(rand.Reader, bpGens)
	require.NoError(t, err)

	verifier := NewVerifier(group, hash.New())
	aV := verifier.Commit(aPoint)
	bV := verifier.Commit(bPoint)
	cV := verifier.Commit(cPoint)
	_, _, oV := verifier.Multiply(NewLC(group).AddVariable(aV), NewLC(group).AddVariable(bV))
	verifier.Constrain(NewLC(group).AddVariable(oV).Sub(NewLC(group).AddVariable(cV)))
	assert.NoError(t, verifier.Verify(proof, pcGens, bpGens))

	// The same system against a commitment to a different value.
	bad := NewVerifier(group, hash.New())
	aV = bad.Commit(aPoint)
	bV = bad.Commit(bPoint)
	cV = bad.Commit(aPoint)
	_, _, oV = bad.Multiply(NewLC(group).AddVariable(aV), NewLC(group).AddVariable(bV))
	bad.Constrain(NewLC(group).AddVariable(oV).Sub(NewLC(group).AddVariable(cV)))
	assert.ErrorIs(t, bad.Verify(proof, pcGens, bpGens), bulletproofs.ErrVerificationFailed)
}

func TestAllocateRequiresAssignment(t *testing.T) {
	group := curve.T256()
	pcGens := bulletproofs.NewPedersenGens(group)

	prover := NewProver(group, pcGens, hash.New())
	_, err := prover.Allocate(nil)
	assert.ErrorIs(t, err, bulletproofs.ErrMissingAssignment)
	_, _, _, err = prover.AllocateMultiplier(sample.Scalar(rand.Reader, group), nil)
	assert.ErrorIs(t, err, bulletproofs.ErrMissingAssignment)

	verifier := NewVerifier(group, hash.New())
	_, err = verifier.Allocate(nil)
	assert.NoError(t, err, "the verifier has no assignments to miss")
}

func TestMetrics(t *testing.T) {
	group := curve.T256()
	pcGens := bulletproofs.NewPedersenGens(group)
	bpGens := bulletproofs.NewBulletproofGens(group, 8, 1)

	k := 4
	inputs := make([]curve.Scalar, k)
	outputs := make([]curve.Scalar, k)
	for i := range inputs {
		inputs[i] = sample.Scalar(rand.Reader, group)
		outputs[k-1-i] = inputs[i]
	}

	_, _, _, prover := proveShuffle(t, group, pcGens, bpGens, inputs, outputs)
	metrics := prover.Metrics()
	assert.Equal(t, 6, metrics.Multipliers)
	assert.Equal(t, 13, metrics.Constraints)
	assert.Equal(t, 0, metrics.PhaseOneConstraints)
	assert.Equal(t, 13, metrics.PhaseTwoConstraints)
}

func TestBatchVerify(t *testing.T) {
	group := curve.T256()
	pcGens := bulletproofs.NewPedersenGens(group)
	bpGens := bulletproofs.NewBulletproofGens(group, 64, 1)

	var proofs []*Proof
	var verifiers []*Verifier
	for _, k := range []int{2, 4, 8} {
		inputs := make([]curve.Scalar, k)
		outputs := make([]curve.Scalar, k)
		for i := range inputs {
			inputs[i] = sample.Scalar(rand.Reader, group)
			outputs[k-1-i] = inputs[i]
		}
		proof, xPoints, yPoints, _ := proveShuffle(t, group, pcGens, bpGens, inputs, outputs)
		proofs = append(proofs, proof)
		verifiers = append(verifiers, newShuffleVerifier(group, xPoints, yPoints))
	}

	assert.NoError(t, BatchVerify(verifiers, proofs, pcGens, bpGens))
}

func TestBatchVerifyRejectsOneBadProof(t *testing.T) {
	group := curve.T256()
	pcGens := bulletproofs.NewPedersenGens(group)
	bpGens := bulletproofs.NewBulletproofGens(group, 64, 1)

	var proofs []*Proof
	var verifiers []*Verifier
	for _, k := range []int{2, 4, 8} {
		inputs := make([]curve.Scalar, k)
		outputs := make([]curve.Scalar, k)
		for i := range inputs {
			inputs[i] = sample.Scalar(rand.Reader, group)
			outputs[k-1-i] = inputs[i]
		}
		proof, xPoints, yPoints, _ := proveShuffle(t, group, pcGens, bpGens, inputs, outputs)
		proofs = append(proofs, proof)
		verifiers = append(verifiers, newShuffleVerifier(group, xPoints, yPoints))
	}
	proofs[1].EBlinding = group.NewScalar().Set(proofs[1].EBlinding).Add(group.NewScalar().SetUInt64(1))

	assert.ErrorIs(t, BatchVerify(verifiers, proofs, pcGens, bpGens), bulletproofs.ErrVerificationFailed)
}
