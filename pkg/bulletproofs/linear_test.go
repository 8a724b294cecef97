package bulletproofs

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
)

func linearCommit(
	group curve.Curve,
	a, b []curve.Scalar,
	gVec []curve.Point,
	f, bBase curve.Point,
	r curve.Scalar,
) curve.Point {
	tmp := group.NewScalar()
	c := tmp.Set(r).Act(bBase)
	c = c.Add(tmp.Set(innerProduct(a, b)).Act(f))
	for i := range a {
		c = c.Add(tmp.Set(a[i]).Act(gVec[i]))
	}
	return c
}

func TestLinearProof(t *testing.T) {
	group := curve.T256()
	pcGens := NewPedersenGens(group)

	for _, n := range []int{1, 16, 32, 64} {
		gens := NewBulletproofGens(group, n, 1).Share(0)
		gVec := gens.G(n)

		a := randomScalars(group, n)
		b := randomScalars(group, n)
		r := sample.Scalar(rand.Reader, group)
		c := linearCommit(group, a, b, gVec, pcGens.B, pcGens.BBlinding, r)

		proof, err := NewLinearProof(
			rand.Reader, hash.New(), c, r,
			cloneScalars(group, a), cloneScalars(group, b),
			append([]curve.Point{}, gVec...),
			pcGens.B, pcGens.BBlinding,
		)
		require.NoError(t, err)
		assert.NoError(t, proof.Verify(hash.New(), c, gVec, pcGens.B, pcGens.BBlinding, b),
			"linear proof of size %d should verify", n)
	}
}

func TestLinearProofRejectsWrongVector(t *testing.T) {
	group := curve.T256()
	pcGens := NewPedersenGens(group)
	n := 16
	gens := NewBulletproofGens(group, n, 1).Share(0)
	gVec := gens.G(n)

	a := randomScalars(group, n)
	b := randomScalars(group, n)
	r := sample.Scalar(rand.Reader, group)
	c := linearCommit(group, a, b, gVec, pcGens.B, pcGens.BBlinding, r)

	proof, err := NewLinearProof(
		rand.Reader, hash.New(), c, r,
		cloneScalars(group, a), cloneScalars(group, b),
		append([]curve.Point{}, gVec...),
		pcGens.B, pcGens.BBlinding,
	)
	require.NoError(t, err)

	other := cloneScalars(group, b)
	other[3] = group.NewScalar().Set(other[3]).Add(group.NewScalar().SetUInt64(1))
	assert.ErrorIs(t, proof.Verify(hash.New(), c, gVec, pcGens.B, pcGens.BBlinding, other), ErrVerificationFailed)
}

func TestLinearProofRejectsBadShapes(t *testing.T) {
	group := curve.T256()
	pcGens := NewPedersenGens(group)
	gens := NewBulletproofGens(group, 4, 1).Share(0)

	a := randomScalars(group, 3)
	b := randomScalars(group, 3)
	r := sample.Scalar(rand.Reader, group)

	_, err := NewLinearProof(
		rand.Reader, hash.New(), group.NewPoint(), r,
		a, b, gens.G(3), pcGens.B, pcGens.BBlinding,
	)
	assert.ErrorIs(t, err, ErrInvalidInputLength, "3 is not a power of two")

	_, err = NewLinearProof(
		rand.Reader, hash.New(), group.NewPoint(), r,
		randomScalars(group, 4), randomScalars(group, 4), gens.G(2), pcGens.B, pcGens.BBlinding,
	)
	assert.ErrorIs(t, err, ErrInvalidGeneratorsLength)
}
