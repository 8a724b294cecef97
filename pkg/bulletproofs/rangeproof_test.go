package bulletproofs

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
)

func randomValue(t *testing.T, n int) uint64 {
	t.Helper()
	var buf [8]byte
	_, err := rand.Read(buf[:])
	require.NoError(t, err)
	v := binary.LittleEndian.Uint64(buf[:])
	if n < 64 {
		v &= (1 << uint(n)) - 1
	}
	return v
}

func TestRangeProofRoundTrip(t *testing.T) {
	group := curve.T256()
	pcGens := NewPedersenGens(group)
	bpGens := NewBulletproofGens(group, 64, 8)

	for _, n := range []int{8, 16, 32, 64} {
		for _, m := range []int{1, 2, 4, 8} {
			t.Run(fmt.Sprintf("n=%d,m=%d", n, m), func(t *testing.T) {
				values := make([]uint64, m)
				blindings := make([]curve.Scalar, m)
				for j := range values {
					values[j] = randomValue(t, n)
					blindings[j] = sample.Scalar(rand.Reader, group)
				}

				proof, commitments, err := ProveMultiple(rand.Reader, bpGens, pcGens, hash.New(), values, blindings, n)
				require.NoError(t, err)
				assert.NoError(t, proof.VerifyMultiple(bpGens, pcGens, hash.New(), commitments, n))
			})
		}
	}
}

func TestRangeProofRejectsOutOfRange(t *testing.T) {
	group := curve.T256()
	pcGens := NewPedersenGens(group)
	bpGens := NewBulletproofGens(group, 64, 1)

	// 2^8 does not fit 8 bits; the bit decomposition drops the high bit,
	// so the proof no longer matches the value commitment.
	proof, commitment, err := ProveSingle(rand.Reader, bpGens, pcGens, hash.New(), 1<<8, sample.Scalar(rand.Reader, group), 8)
	require.NoError(t, err)
	assert.ErrorIs(t, proof.VerifySingle(bpGens, pcGens, hash.New(), commitment, 8), ErrVerificationFailed)
}

func TestRangeProofRejectsWrongCommitment(t *testing.T) {
	group := curve.T256()
	pcGens := NewPedersenGens(group)
	bpGens := NewBulletproofGens(group, 64, 1)

	proof, _, err := ProveSingle(rand.Reader, bpGens, pcGens, hash.New(), 42, sample.Scalar(rand.Reader, group), 32)
	require.NoError(t, err)

	other := pcGens.Commit(group.NewScalar().SetUInt64(43), sample.Scalar(rand.Reader, group))
	assert.ErrorIs(t, proof.VerifySingle(bpGens, pcGens, hash.New(), other, 32), ErrVerificationFailed)
}

func TestRangeProofInvalidParameters(t *testing.T) {
	group := curve.T256()
	pcGens := NewPedersenGens(group)
	bpGens := NewBulletproofGens(group, 64, 4)

	_, err := NewDealer(bpGens, pcGens, hash.New(), 10, 1)
	assert.ErrorIs(t, err, ErrInvalidBitsize)

	_, err = NewDealer(bpGens, pcGens, hash.New(), 32, 3)
	assert.ErrorIs(t, err, ErrInvalidAggregation)
}

// runDealerWithCorruptedShares plays the full aggregated protocol but lets
// the caller tamper with the shares before the dealer assembles them.
func runDealerWithCorruptedShares(
	t *testing.T,
	group curve.Curve,
	n, m int,
	corrupt func(shares []ProofShare),
) error {
	t.Helper()
	pcGens := NewPedersenGens(group)
	bpGens := NewBulletproofGens(group, n, m)

	dealer, err := NewDealer(bpGens, pcGens, hash.New(), n, m)
	require.NoError(t, err)

	positioned := make([]*PartyAwaitingBitChallenge, m)
	bitCommitments := make([]BitCommitment, m)
	for j := 0; j < m; j++ {
		party, err := NewParty(bpGens, pcGens, randomValue(t, n), sample.Scalar(rand.Reader, group), n)
		require.NoError(t, err)
		positioned[j], bitCommitments[j], err = party.AssignPosition(rand.Reader, j)
		require.NoError(t, err)
	}

	dealer2, bitChallenge, err := dealer.ReceiveBitCommitments(bitCommitments)
	require.NoError(t, err)

	polyParties := make([]*PartyAwaitingPolyChallenge, m)
	polyCommitments := make([]PolyCommitment, m)
	for j := 0; j < m; j++ {
		polyParties[j], polyCommitments[j], err = positioned[j].ApplyBitChallenge(rand.Reader, bitChallenge)
		require.NoError(t, err)
	}

	dealer3, polyChallenge, err := dealer2.ReceivePolyCommitments(polyCommitments)
	require.NoError(t, err)

	shares := make([]ProofShare, m)
	for j := 0; j < m; j++ {
		shares[j], err = polyParties[j].ApplyPolyChallenge(polyChallenge)
		require.NoError(t, err)
	}

	corrupt(shares)

	_, err = dealer3.ReceiveShares(shares)
	return err
}

func TestRangeProofDetectsDishonestParties(t *testing.T) {
	group := curve.T256()

	err := runDealerWithCorruptedShares(t, group, 32, 4, func(shares []ProofShare) {
		one := group.NewScalar().SetUInt64(1)
		shares[1].EBlinding = group.NewScalar().Set(shares[1].EBlinding).Add(one)
		shares[3].LVec[0] = group.NewScalar().Set(shares[3].LVec[0]).Add(one)
	})

	var malformed ErrMalformedProofShares
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, []int{1, 3}, malformed.BadShares)
}

func TestRangeProofHonestSharesPassAudit(t *testing.T) {
	group := curve.T256()
	err := runDealerWithCorruptedShares(t, group, 32, 4, func([]ProofShare) {})
	assert.NoError(t, err)
}

func TestPartyRejectsMaliciousDealer(t *testing.T) {
	group := curve.T256()
	pcGens := NewPedersenGens(group)
	bpGens := NewBulletproofGens(group, 32, 1)

	party, err := NewParty(bpGens, pcGens, 99, sample.Scalar(rand.Reader, group), 32)
	require.NoError(t, err)
	positioned, _, err := party.AssignPosition(rand.Reader, 0)
	require.NoError(t, err)

	// A dealer sending zero challenges could strip the blinding.
	_, _, err = positioned.ApplyBitChallenge(rand.Reader, BitChallenge{Y: group.NewScalar(), Z: group.NewScalar()})
	assert.ErrorIs(t, err, ErrMaliciousDealer)

	party2, err := NewParty(bpGens, pcGens, 99, sample.Scalar(rand.Reader, group), 32)
	require.NoError(t, err)
	positioned2, _, err := party2.AssignPosition(rand.Reader, 0)
	require.NoError(t, err)
	polyParty, _, err := positioned2.ApplyBitChallenge(rand.Reader, BitChallenge{
		Y: sample.Scalar(rand.Reader, group),
		Z: sample.Scalar(rand.Reader, group),
	})
	require.NoError(t, err)
	_, err = polyParty.ApplyPolyChallenge(PolyChallenge{X: group.NewScalar()})
	assert.ErrorIs(t, err, ErrMaliciousDealer)
}

func TestRangeProofBatchVerify(t *testing.T) {
	group := curve.T256()
	pcGens := NewPedersenGens(group)
	bpGens := NewBulletproofGens(group, 16, 4)
	n := 16

	var proofs []*RangeProof
	var commitments [][]curve.Point
	for _, m := range []int{1, 2, 4} {
		values := make([]uint64, m)
		blindings := make([]curve.Scalar, m)
		for j := range values {
			values[j] = randomValue(t, n)
			blindings[j] = sample.Scalar(rand.Reader, group)
		}
		proof, vs, err := ProveMultiple(rand.Reader, bpGens, pcGens, hash.New(), values, blindings, n)
		require.NoError(t, err)
		proofs = append(proofs, proof)
		commitments = append(commitments, vs)
	}

	transcripts := []*hash.Hash{hash.New(), hash.New(), hash.New()}
	assert.NoError(t, BatchVerify(proofs, transcripts, commitments, bpGens, pcGens, n))
}

func TestRangeProofBatchVerifyRejectsOneBadProof(t *testing.T) {
	group := curve.T256()
	pcGens := NewPedersenGens(group)
	bpGens := NewBulletproofGens(group, 16, 4)
	n := 16

	var proofs []*RangeProof
	var commitments [][]curve.Point
	for _, m := range []int{1, 2, 4} {
		values := make([]uint64, m)
		blindings := make([]curve.Scalar, m)
		for j := range values {
			values[j] = randomValue(t, n)
			blindings[j] = sample.Scalar(rand.Reader, group)
		}
		proof, vs, err := ProveMultiple(rand.Reader, bpGens, pcGens, hash.New(), values, blindings, n)
		require.NoError(t, err)
		proofs = append(proofs, proof)
		commitments = append(commitments, vs)
	}
	proofs[2].TX = group.NewScalar().Set(proofs[2].TX).Add(group.NewScalar().SetUInt64(1))

	transcripts := []*hash.Hash{hash.New(), hash.New(), hash.New()}
	err := BatchVerify(proofs, transcripts, commitments, bpGens, pcGens, n)
	assert.True(t, errors.Is(err, ErrVerificationFailed), "batch with a tampered proof should fail")
}
