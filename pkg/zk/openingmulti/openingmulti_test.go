package zkopeningmulti

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
	"github.com/brave-experiments/boomerang/pkg/pedersen"
)

func TestOpeningMulti(t *testing.T) {
	group := curve.T256()
	gens := pedersen.Generators(group, 4)
	ms := make([]curve.Scalar, 4)
	for i := range ms {
		ms[i] = sample.Scalar(rand.Reader, group)
	}
	com := pedersen.NewMulti(rand.Reader, group, ms, gens)

	public := Public{C: com.C, Gens: gens}
	proof := NewProof(group, hash.New(), public, Private{Ms: ms, R: com.R})
	assert.True(t, proof.Verify(hash.New(), public))
}

func TestOpeningMultiFailsOnWrongVector(t *testing.T) {
	group := curve.T256()
	gens := pedersen.Generators(group, 4)
	ms := make([]curve.Scalar, 4)
	for i := range ms {
		ms[i] = sample.Scalar(rand.Reader, group)
	}
	com := pedersen.NewMulti(rand.Reader, group, ms, gens)

	ms[2] = group.NewScalar().Set(ms[2]).Add(group.NewScalar().SetUInt64(1))
	public := Public{C: com.C, Gens: gens}
	proof := NewProof(group, hash.New(), public, Private{Ms: ms, R: com.R})
	assert.False(t, proof.Verify(hash.New(), public))
}

func TestOpeningMultiLengthMismatch(t *testing.T) {
	group := curve.T256()
	gens := pedersen.Generators(group, 4)
	ms := make([]curve.Scalar, 4)
	for i := range ms {
		ms[i] = sample.Scalar(rand.Reader, group)
	}
	com := pedersen.NewMulti(rand.Reader, group, ms, gens)

	public := Public{C: com.C, Gens: gens[:3]}
	proof := Empty(group, 4)
	assert.False(t, proof.Verify(hash.New(), public))
}
