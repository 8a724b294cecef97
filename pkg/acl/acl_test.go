package acl

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
	"github.com/brave-experiments/boomerang/pkg/pedersen"
)

func randomValues(t *testing.T, group curve.Curve, n int) []curve.Scalar {
	t.Helper()
	vs := make([]curve.Scalar, n)
	for i := range vs {
		vs[i] = sample.Scalar(rand.Reader, group)
	}
	return vs
}

func runSigningSession(t *testing.T, group curve.Curve, keys *KeyPair, comm curve.Point, message []byte) (*Signature, Opening) {
	t.Helper()
	state := Commit(rand.Reader, keys, comm)
	chall, err := NewChallenge(rand.Reader, group, keys.VerifyingKey, keys.TagKey, state.SigCommit, comm, message)
	require.NoError(t, err)
	resp := state.Respond(keys, chall.E)
	sig, opening, err := chall.Sign(resp)
	require.NoError(t, err)
	return sig, opening
}

func TestTagKey(t *testing.T) {
	group := curve.T256()
	tk, err := TagKey(group)
	require.NoError(t, err)
	tk2, err := TagKey(group)
	require.NoError(t, err)
	assert.True(t, tk.Equal(tk2))
	assert.False(t, tk.IsIdentity())
	assert.False(t, tk.Equal(group.NewBasePoint()))
	assert.False(t, tk.Equal(group.NewSecondBasePoint()))
}

func TestSignatureRoundTrip(t *testing.T) {
	group := curve.T256()
	keys, err := NewKeyPair(rand.Reader, group)
	require.NoError(t, err)

	gens := pedersen.Generators(group, 4)
	values := randomValues(t, group, 4)
	comm := pedersen.NewMulti(rand.Reader, group, values, gens)
	message := []byte("issuance")

	sig, _ := runSigningSession(t, group, keys, comm.C, message)
	assert.NoError(t, Verify(keys.VerifyingKey, keys.TagKey, sig, message))
	assert.ErrorIs(t, Verify(keys.VerifyingKey, keys.TagKey, sig, []byte("other")), ErrVerificationFailed)
}

func TestSignaturesUnlinkable(t *testing.T) {
	group := curve.T256()
	keys, err := NewKeyPair(rand.Reader, group)
	require.NoError(t, err)

	gens := pedersen.Generators(group, 2)
	values := randomValues(t, group, 2)
	comm := pedersen.NewMulti(rand.Reader, group, values, gens)
	message := []byte("session")

	sig1, _ := runSigningSession(t, group, keys, comm.C, message)
	sig2, _ := runSigningSession(t, group, keys, comm.C, message)
	// The same commitment signs to different rerandomized views.
	assert.False(t, sig1.Zeta.Equal(sig2.Zeta))
	assert.False(t, sig1.Zeta1.Equal(sig2.Zeta1))
}

func TestChallengeRejectsBadCommitment(t *testing.T) {
	group := curve.T256()
	keys, err := NewKeyPair(rand.Reader, group)
	require.NoError(t, err)
	comm := sample.Scalar(rand.Reader, group).ActOnBase()

	good := Commit(rand.Reader, keys, comm).SigCommit

	zeroRand := good
	zeroRand.Rand = group.NewScalar()
	_, err = NewChallenge(rand.Reader, group, keys.VerifyingKey, keys.TagKey, zeroRand, comm, nil)
	assert.ErrorIs(t, err, ErrInvalidCommitment)

	identityA := good
	identityA.A = group.NewPoint()
	_, err = NewChallenge(rand.Reader, group, keys.VerifyingKey, keys.TagKey, identityA, comm, nil)
	assert.ErrorIs(t, err, ErrInvalidCommitment)
}

func TestSignRejectsTamperedResponse(t *testing.T) {
	group := curve.T256()
	keys, err := NewKeyPair(rand.Reader, group)
	require.NoError(t, err)
	comm := pedersen.New(rand.Reader, group, sample.Scalar(rand.Reader, group))

	state := Commit(rand.Reader, keys, comm.C)
	chall, err := NewChallenge(rand.Reader, group, keys.VerifyingKey, keys.TagKey, state.SigCommit, comm.C, []byte("m"))
	require.NoError(t, err)

	resp := state.Respond(keys, chall.E)
	resp.R.Add(group.NewScalar().SetUInt64(1))
	_, _, err = chall.Sign(resp)
	assert.ErrorIs(t, err, ErrChallengeMismatch)
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	group := curve.T256()
	keys, err := NewKeyPair(rand.Reader, group)
	require.NoError(t, err)
	comm := pedersen.New(rand.Reader, group, sample.Scalar(rand.Reader, group))
	message := []byte("m")

	sig, _ := runSigningSession(t, group, keys, comm.C, message)
	sig.Omega.Add(group.NewScalar().SetUInt64(1))
	assert.ErrorIs(t, Verify(keys.VerifyingKey, keys.TagKey, sig, message), ErrVerificationFailed)
}

func TestPossessionProof(t *testing.T) {
	group := curve.T256()
	keys, err := NewKeyPair(rand.Reader, group)
	require.NoError(t, err)

	gens := pedersen.Generators(group, 4)
	values := randomValues(t, group, 4)
	comm := pedersen.NewMulti(rand.Reader, group, values, gens)
	message := []byte("show")

	sig, opening := runSigningSession(t, group, keys, comm.C, message)

	proof, err := ProvePossession(rand.Reader, group, keys.TagKey, gens, sig, opening, values, comm.R)
	require.NoError(t, err)
	assert.NoError(t, proof.Verify(group, keys.TagKey, gens, sig))
}

func TestPossessionProofRejectsWrongValues(t *testing.T) {
	group := curve.T256()
	keys, err := NewKeyPair(rand.Reader, group)
	require.NoError(t, err)

	gens := pedersen.Generators(group, 2)
	values := randomValues(t, group, 2)
	comm := pedersen.NewMulti(rand.Reader, group, values, gens)

	sig, opening := runSigningSession(t, group, keys, comm.C, []byte("show"))

	wrong := randomValues(t, group, 2)
	proof, err := ProvePossession(rand.Reader, group, keys.TagKey, gens, sig, opening, wrong, comm.R)
	require.NoError(t, err)
	assert.ErrorIs(t, proof.Verify(group, keys.TagKey, gens, sig), ErrVerificationFailed)
}

func TestPossessionProofRejectsTampering(t *testing.T) {
	group := curve.T256()
	keys, err := NewKeyPair(rand.Reader, group)
	require.NoError(t, err)

	gens := pedersen.Generators(group, 2)
	values := randomValues(t, group, 2)
	comm := pedersen.NewMulti(rand.Reader, group, values, gens)

	sig, opening := runSigningSession(t, group, keys, comm.C, []byte("show"))
	proof, err := ProvePossession(rand.Reader, group, keys.TagKey, gens, sig, opening, values, comm.R)
	require.NoError(t, err)

	proof.LinkZ.Add(group.NewScalar().SetUInt64(1))
	assert.ErrorIs(t, proof.Verify(group, keys.TagKey, gens, sig), ErrVerificationFailed)
}
