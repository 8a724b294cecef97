package zktag

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
	"github.com/brave-experiments/boomerang/pkg/pedersen"
)

func tagStatement(t *testing.T) (curve.Curve, Public, Private) {
	t.Helper()
	group := curve.T256()
	gens := pedersen.Generators(group, 4)
	ms := make([]curve.Scalar, 4)
	for i := range ms {
		ms[i] = sample.Scalar(rand.Reader, group)
	}
	com := pedersen.NewMulti(rand.Reader, group, ms, gens)

	nonce := sample.Scalar(rand.Reader, group)
	tag := group.NewScalar().Set(nonce).Mul(ms[idSlot]).Add(ms[keySlot])

	public := Public{C: com.C, Tag: tag, Nonce: nonce, Gens: gens}
	return group, public, Private{Ms: ms, R: com.R}
}

func TestTagProof(t *testing.T) {
	group, public, private := tagStatement(t)
	proof := NewProof(group, hash.New(), public, private)
	assert.True(t, proof.Verify(hash.New(), public))
}

func TestTagProofFailsOnWrongTag(t *testing.T) {
	group, public, private := tagStatement(t)
	public.Tag = group.NewScalar().Set(public.Tag).Add(group.NewScalar().SetUInt64(1))
	proof := NewProof(group, hash.New(), public, private)
	assert.False(t, proof.Verify(hash.New(), public))
}

func TestTagProofFailsOnWrongSerial(t *testing.T) {
	group, public, private := tagStatement(t)
	private.Ms[idSlot] = sample.Scalar(rand.Reader, group)
	proof := NewProof(group, hash.New(), public, private)
	assert.False(t, proof.Verify(hash.New(), public))
}

func TestTagProofLengthMismatch(t *testing.T) {
	group, public, _ := tagStatement(t)
	proof := Empty(group, 3)
	assert.False(t, proof.Verify(hash.New(), public))
}
