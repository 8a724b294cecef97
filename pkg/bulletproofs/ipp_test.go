package bulletproofs

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
)

func randomScalars(group curve.Curve, n int) []curve.Scalar {
	out := make([]curve.Scalar, n)
	for i := range out {
		out[i] = sample.Scalar(rand.Reader, group)
	}
	return out
}

func cloneScalars(group curve.Curve, in []curve.Scalar) []curve.Scalar {
	out := make([]curve.Scalar, len(in))
	for i := range in {
		out[i] = group.NewScalar().Set(in[i])
	}
	return out
}

func TestInnerProductProof(t *testing.T) {
	group := curve.T256()

	for _, n := range []int{1, 16, 32, 64} {
		gens := NewBulletproofGens(group, n, 1).Share(0)
		gVec := gens.G(n)
		hVec := gens.H(n)
		q := sample.Scalar(rand.Reader, group).ActOnBase()

		a := randomScalars(group, n)
		b := randomScalars(group, n)
		c := innerProduct(a, b)

		// Rescale the H side the way the range proof does.
		y := sample.Scalar(rand.Reader, group)
		yInv := group.NewScalar().Set(y).Invert()
		gFactors := powers(group.NewScalar().SetUInt64(1), n)
		hFactors := powers(yInv, n)

		// P = <a, G> + <b, y^-i H> + <a, b> Q
		tmp := group.NewScalar()
		bigP := tmp.Set(c).Act(q)
		for i := 0; i < n; i++ {
			bigP = bigP.Add(tmp.Set(a[i]).Act(gVec[i]))
			bigP = bigP.Add(tmp.Set(b[i]).Mul(hFactors[i]).Act(hVec[i]))
		}

		proof := NewInnerProductProof(
			hash.New(), q, gFactors, hFactors, gVec, hVec,
			cloneScalars(group, a), cloneScalars(group, b),
		)
		assert.NoError(t, proof.Verify(hash.New(), n, gFactors, hFactors, bigP, q, gVec, hVec),
			"inner product proof of size %d should verify", n)

		bad := bigP.Add(q)
		assert.ErrorIs(t, proof.Verify(hash.New(), n, gFactors, hFactors, bad, q, gVec, hVec), ErrVerificationFailed)
	}
}

func TestInnerProductProofRejectsWrongSize(t *testing.T) {
	group := curve.T256()
	n := 16
	gens := NewBulletproofGens(group, 2*n, 1).Share(0)
	gVec := gens.G(n)
	hVec := gens.H(n)
	q := sample.Scalar(rand.Reader, group).ActOnBase()

	a := randomScalars(group, n)
	b := randomScalars(group, n)
	c := innerProduct(a, b)
	ones := powers(group.NewScalar().SetUInt64(1), n)

	tmp := group.NewScalar()
	bigP := tmp.Set(c).Act(q)
	for i := 0; i < n; i++ {
		bigP = bigP.Add(tmp.Set(a[i]).Act(gVec[i]))
		bigP = bigP.Add(tmp.Set(b[i]).Act(hVec[i]))
	}

	proof := NewInnerProductProof(
		hash.New(), q, ones, ones, gVec, hVec,
		cloneScalars(group, a), cloneScalars(group, b),
	)

	ones32 := powers(group.NewScalar().SetUInt64(1), 2*n)
	assert.ErrorIs(t,
		proof.Verify(hash.New(), 2*n, ones32, ones32, bigP, q, gens.G(2*n), gens.H(2*n)),
		ErrVerificationFailed)
}
