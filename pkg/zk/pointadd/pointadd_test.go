package zkpointadd

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
)

func testPairs() map[string]curve.Pair {
	return map[string]curve.Pair{
		"t256-p256":      curve.T256P256(),
		"secp256k1-self": curve.Secp256k1Self(),
	}
}

func commitAddition(t *testing.T, pair curve.Pair, a, b, sum curve.Point) (Public, Private) {
	t.Helper()
	c1, c2 := CommitCoords(rand.Reader, pair, a)
	c3, c4 := CommitCoords(rand.Reader, pair, b)
	c5, c6 := CommitCoords(rand.Reader, pair, sum)
	public := Public{C1: c1.C, C2: c2.C, C3: c3.C, C4: c4.C, C5: c5.C, C6: c6.C}
	private := Private{
		A: a, B: b, T: sum,
		R: [6]curve.Scalar{c1.R, c2.R, c3.R, c4.R, c5.R, c6.R},
	}
	return public, private
}

func TestPointAdd(t *testing.T) {
	for name, pair := range testPairs() {
		t.Run(name, func(t *testing.T) {
			a := sample.Scalar(rand.Reader, pair.Tock).ActOnBase()
			b := sample.Scalar(rand.Reader, pair.Tock).ActOnBase()
			sum := a.Add(b)

			public, private := commitAddition(t, pair, a, b, sum)
			proof, err := NewProof(pair, hash.New(), public, private)
			require.NoError(t, err)
			assert.True(t, proof.Verify(hash.New(), public))
		})
	}
}

func TestPointAddSmallMultiples(t *testing.T) {
	pair := curve.T256P256()
	h := pair.Tock.NewSecondBasePoint()
	two := pair.Tock.NewScalar().SetUInt64(2)
	three := pair.Tock.NewScalar().SetUInt64(3)
	four := pair.Tock.NewScalar().SetUInt64(4)

	a := h
	b := two.Act(h)
	good := three.Act(h)
	bad := four.Act(h)

	public, private := commitAddition(t, pair, a, b, good)
	proof, err := NewProof(pair, hash.New(), public, private)
	require.NoError(t, err)
	assert.True(t, proof.Verify(hash.New(), public))

	// Same proof against commitments to 4h instead of 3h.
	badPublic, _ := commitAddition(t, pair, a, b, bad)
	assert.False(t, proof.Verify(hash.New(), badPublic))
}

func TestPointAddFailsOnWrongSum(t *testing.T) {
	pair := curve.T256P256()
	a := sample.Scalar(rand.Reader, pair.Tock).ActOnBase()
	b := sample.Scalar(rand.Reader, pair.Tock).ActOnBase()
	wrong := a.Add(b).Add(pair.Tock.NewBasePoint())

	public, private := commitAddition(t, pair, a, b, wrong)
	_, err := NewProof(pair, hash.New(), public, private)
	assert.ErrorIs(t, err, ErrSumMismatch)
}

func TestPointAddRejectsDoubling(t *testing.T) {
	pair := curve.T256P256()
	a := sample.Scalar(rand.Reader, pair.Tock).ActOnBase()
	double := a.Add(a)

	public, private := commitAddition(t, pair, a, a, double)
	_, err := NewProof(pair, hash.New(), public, private)
	assert.ErrorIs(t, err, ErrSharedX)
}

func TestPointAddWithChallenges(t *testing.T) {
	for name, pair := range testPairs() {
		t.Run(name, func(t *testing.T) {
			a := sample.Scalar(rand.Reader, pair.Tock).ActOnBase()
			b := sample.Scalar(rand.Reader, pair.Tock).ActOnBase()
			sum := a.Add(b)

			public, private := commitAddition(t, pair, a, b, sum)
			i, err := Commit(rand.Reader, pair, public, private)
			require.NoError(t, err)

			// The embedded form hands the same binary challenge to all
			// four sub-proofs.
			e := pair.SingleBitChallenge(1)
			es := [4]curve.Scalar{e, e, e, e}
			proof := i.FinalizeWithChallenges(pair.Tick, es)
			assert.True(t, proof.VerifyWithChallenges(public, es))

			other := pair.SingleBitChallenge(0)
			assert.False(t, proof.VerifyWithChallenges(public, [4]curve.Scalar{other, other, other, other}))
		})
	}
}

func TestAttestPointAdd(t *testing.T) {
	for name, pair := range testPairs() {
		t.Run(name, func(t *testing.T) {
			a := sample.Scalar(rand.Reader, pair.Tock).ActOnBase()
			b := sample.Scalar(rand.Reader, pair.Tock).ActOnBase()
			sum := a.Add(b)

			public, private := commitAddition(t, pair, a, b, sum)
			proof, err := NewAttestProof(pair, hash.New(), public, private)
			require.NoError(t, err)
			assert.True(t, proof.Verify(hash.New(), public))

			bad := sum.Add(pair.Tock.NewBasePoint())
			badPublic, _ := commitAddition(t, pair, a, b, bad)
			assert.False(t, proof.Verify(hash.New(), badPublic))
		})
	}
}

func TestAttestPointAddWithChallenge(t *testing.T) {
	pair := curve.T256P256()
	a := sample.Scalar(rand.Reader, pair.Tock).ActOnBase()
	b := sample.Scalar(rand.Reader, pair.Tock).ActOnBase()
	sum := a.Add(b)

	public, private := commitAddition(t, pair, a, b, sum)
	i, err := AttestCommit(rand.Reader, pair, public, private)
	require.NoError(t, err)

	e := pair.SingleBitChallenge(0)
	proof := i.FinalizeWithChallenge(pair.Tick, e)
	assert.True(t, proof.VerifyWithChallenge(public, e))
	assert.False(t, proof.VerifyWithChallenge(public, pair.SingleBitChallenge(1)))
}

func TestPointAddEmptyFails(t *testing.T) {
	pair := curve.T256P256()
	a := sample.Scalar(rand.Reader, pair.Tock).ActOnBase()
	b := sample.Scalar(rand.Reader, pair.Tock).ActOnBase()
	public, _ := commitAddition(t, pair, a, b, a.Add(b))

	assert.False(t, Empty(pair.Tick).Verify(hash.New(), public))
	assert.False(t, EmptyAttest(pair.Tick).Verify(hash.New(), public))
}
