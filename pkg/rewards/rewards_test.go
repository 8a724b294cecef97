package rewards

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brave-experiments/boomerang/pkg/bulletproofs"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
)

func scalarVec(group curve.Curve, vs ...uint64) []curve.Scalar {
	out := make([]curve.Scalar, len(vs))
	for i, v := range vs {
		out[i] = group.NewScalar().SetUInt64(v)
	}
	return out
}

func TestInnerProductUint64(t *testing.T) {
	for _, group := range []curve.Curve{curve.T256(), curve.Secp256k1{}} {
		t.Run(group.Name(), func(t *testing.T) {
			reward, res, err := InnerProductUint64(group, scalarVec(group, 3), scalarVec(group, 5))
			require.NoError(t, err)
			assert.Equal(t, uint64(15), reward)
			assert.True(t, res.Equal(group.NewScalar().SetUInt64(15)))

			a := scalarVec(group, 3, 5)
			b := scalarVec(group, 2, 7)
			reward, res, err = InnerProductUint64(group, a, b)
			require.NoError(t, err)
			assert.Equal(t, uint64(41), reward)
			assert.True(t, res.Equal(group.NewScalar().SetUInt64(41)))

			// The truncation reads the low limb of the little-endian encoding.
			big := uint64(1)<<40 + 12345
			reward, _, err = InnerProductUint64(group, scalarVec(group, big), scalarVec(group, 1))
			require.NoError(t, err)
			assert.Equal(t, big, reward)

			_, _, err = InnerProductUint64(group, a, scalarVec(group, 1))
			assert.ErrorIs(t, err, ErrInvalidVectorLength)
		})
	}
}

func TestSetupRejectsBadCatalogSize(t *testing.T) {
	group := curve.T256()
	for _, size := range []int{0, -1, 3, 12} {
		_, err := Setup(group, size)
		assert.ErrorIs(t, err, ErrInvalidCatalogSize, "size %d", size)
	}
}

func TestRewardsProofRoundTrip(t *testing.T) {
	group := curve.T256()
	gens, err := Setup(group, 8)
	require.NoError(t, err)

	spend := scalarVec(group, 1, 0, 2, 0, 0, 1, 0, 0)
	policy := scalarVec(group, 5, 3, 10, 0, 0, 7, 1, 2)

	rewardU64, reward, err := InnerProductUint64(group, policy, spend)
	require.NoError(t, err)
	assert.Equal(t, uint64(5+20+7), rewardU64)

	proof, err := Prove(rand.Reader, gens, rewardU64, reward, policy, spend)
	require.NoError(t, err)
	assert.NoError(t, proof.Verify(gens, spend))
}

func TestRewardsProofRejectsWrongSpend(t *testing.T) {
	group := curve.T256()
	gens, err := Setup(group, 4)
	require.NoError(t, err)

	spend := scalarVec(group, 1, 0, 0, 0)
	policy := scalarVec(group, 5, 1, 1, 1)
	rewardU64, reward, err := InnerProductUint64(group, policy, spend)
	require.NoError(t, err)

	proof, err := Prove(rand.Reader, gens, rewardU64, reward, policy, spend)
	require.NoError(t, err)

	other := scalarVec(group, 0, 1, 0, 0)
	assert.ErrorIs(t, proof.Verify(gens, other), bulletproofs.ErrVerificationFailed)
}

func TestRewardsProofRejectsTampering(t *testing.T) {
	group := curve.T256()
	gens, err := Setup(group, 4)
	require.NoError(t, err)

	spend := scalarVec(group, 1, 1, 0, 0)
	policy := scalarVec(group, 2, 3, 0, 0)
	rewardU64, reward, err := InnerProductUint64(group, policy, spend)
	require.NoError(t, err)

	proof, err := Prove(rand.Reader, gens, rewardU64, reward, policy, spend)
	require.NoError(t, err)

	proof.LinearComm = proof.LinearComm.Add(group.NewBasePoint())
	assert.ErrorIs(t, proof.Verify(gens, spend), bulletproofs.ErrVerificationFailed)
}

func TestRewardsProofVectorLengths(t *testing.T) {
	group := curve.T256()
	gens, err := Setup(group, 4)
	require.NoError(t, err)

	short := scalarVec(group, 1, 2)
	_, err = Prove(rand.Reader, gens, 0, group.NewScalar(), short, short)
	assert.ErrorIs(t, err, ErrInvalidVectorLength)
}

func TestVerifyBatch(t *testing.T) {
	group := curve.T256()
	gens, err := Setup(group, 4)
	require.NoError(t, err)

	spend := scalarVec(group, 1, 0, 1, 0)
	proofs := make([]*Proof, 3)
	for i := range proofs {
		policy := scalarVec(group, uint64(i+1), 2, uint64(2*i), 9)
		rewardU64, reward, err := InnerProductUint64(group, policy, spend)
		require.NoError(t, err)
		proofs[i], err = Prove(rand.Reader, gens, rewardU64, reward, policy, spend)
		require.NoError(t, err)
	}
	assert.NoError(t, VerifyBatch(gens, proofs, spend))

	proofs[1].RangeComm = proofs[1].RangeComm.Add(group.NewBasePoint())
	assert.Error(t, VerifyBatch(gens, proofs, spend))
}
