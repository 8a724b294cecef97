package zkscalarmul

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

func testStatement(pair curve.Pair) (Public, Private) {
	tock := pair.Tock
	p := tock.NewBasePoint()
	lambda := sample.ScalarUnit(rand.Reader, tock)
	return Public{P: p}, Private{Lambda: lambda, S: lambda.Act(p)}
}

func TestScalarMul(t *testing.T) {
	for name, pair := range testPairs() {
		t.Run(name, func(t *testing.T) {
			public, private := testStatement(pair)
			proof, err := NewProof(pair, hash.New(), public, private)
			require.NoError(t, err)
			assert.True(t, proof.Verify(hash.New(), public))
		})
	}
}

func TestScalarMulFailsOnWrongBase(t *testing.T) {
	pair := curve.T256P256()
	public, private := testStatement(pair)
	proof, err := NewProof(pair, hash.New(), public, private)
	require.NoError(t, err)

	two := pair.Tock.NewScalar().SetUInt64(2)
	other := Public{P: two.Act(public.P)}
	assert.False(t, proof.Verify(hash.New(), other))
}

func TestScalarMulGuards(t *testing.T) {
	pair := curve.T256P256()
	tock := pair.Tock
	p := tock.NewBasePoint()

	_, err := NewProof(pair, hash.New(), Public{P: p}, Private{
		Lambda: tock.NewScalar(),
		S:      p,
	})
	assert.ErrorIs(t, err, ErrZeroScalar)

	lambda := sample.ScalarUnit(rand.Reader, tock)
	_, err = NewProof(pair, hash.New(), Public{P: p}, Private{
		Lambda: lambda,
		S:      p,
	})
	assert.ErrorIs(t, err, ErrNotMultiple)
}

// A single run convinces only for the one challenge its responses were built
// for. Flipping the bit must break every run.
func TestScalarMulBranchMismatch(t *testing.T) {
	pair := curve.T256P256()
	public, private := testStatement(pair)

	for i := 0; i < 10; i++ {
		inter, err := Commit(rand.Reader, pair, public, private)
		require.NoError(t, err)

		bit := byte(i & 1)
		e := pair.SingleBitChallenge(bit)
		proof := inter.FinalizeWithChallenge(pair, e, private)
		assert.True(t, proof.VerifyWithChallenge(public, e))
		assert.False(t, proof.VerifyWithChallenge(public, pair.SingleBitChallenge(bit^1)))
	}
}

func TestFSScalarMul(t *testing.T) {
	pair := curve.T256P256()
	public, private := testStatement(pair)

	proof, err := NewFSProof(pair, hash.New(), public, private)
	require.NoError(t, err)
	require.Len(t, proof.Proofs, Iterations)
	assert.True(t, proof.Verify(hash.New(), public))

	one := pair.Tock.NewScalar().SetUInt64(1)
	proof.Proofs[0].Z1.Add(one)
	assert.False(t, proof.Verify(hash.New(), public))
}

func TestAttestScalarMul(t *testing.T) {
	for name, pair := range testPairs() {
		t.Run(name, func(t *testing.T) {
			public, private := testStatement(pair)
			proof, err := NewAttestProof(pair, hash.New(), public, private)
			require.NoError(t, err)
			assert.True(t, proof.Verify(hash.New(), public))

			two := pair.Tock.NewScalar().SetUInt64(2)
			other := Public{P: two.Act(public.P)}
			assert.False(t, proof.Verify(hash.New(), other))
		})
	}
}
