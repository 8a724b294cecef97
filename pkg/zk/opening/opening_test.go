package zkopening

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
	"github.com/brave-experiments/boomerang/pkg/pedersen"
)

func TestOpening(t *testing.T) {
	group := curve.T256()
	m := sample.Scalar(rand.Reader, group)
	com := pedersen.New(rand.Reader, group, m)

	public := Public{C: com.C}
	proof := NewProof(group, hash.New(), public, Private{M: m, R: com.R})
	assert.True(t, proof.Verify(hash.New(), public), "proof should verify")
}

func TestOpeningFailsOnWrongValue(t *testing.T) {
	group := curve.T256()
	m := sample.Scalar(rand.Reader, group)
	com := pedersen.New(rand.Reader, group, m)

	wrong := group.NewScalar().Set(m).Add(group.NewScalar().SetUInt64(1))
	public := Public{C: com.C}
	proof := NewProof(group, hash.New(), public, Private{M: wrong, R: com.R})
	assert.False(t, proof.Verify(hash.New(), public), "wrong value should not verify")

	proof = NewProof(group, hash.New(), public, Private{M: m, R: sample.Scalar(rand.Reader, group)})
	assert.False(t, proof.Verify(hash.New(), public), "wrong randomness should not verify")
}

func TestOpeningSharedChallenge(t *testing.T) {
	group := curve.T256()
	m := sample.Scalar(rand.Reader, group)
	com := pedersen.New(rand.Reader, group, m)
	public := Public{C: com.C}

	i := Commit(rand.Reader, group)
	e := sample.Scalar(rand.Reader, group)
	proof := i.FinalizeWithChallenge(group, e, Private{M: m, R: com.R})
	assert.True(t, proof.VerifyWithChallenge(public, e))

	other := sample.Scalar(rand.Reader, group)
	assert.False(t, proof.VerifyWithChallenge(public, other), "different challenge should not verify")
}

func TestOpeningEmptyFails(t *testing.T) {
	group := curve.T256()
	m := sample.Scalar(rand.Reader, group)
	com := pedersen.New(rand.Reader, group, m)
	public := Public{C: com.C}
	assert.False(t, Empty(group).Verify(hash.New(), public))
}
