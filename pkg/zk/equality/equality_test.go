package zkequality

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
	"github.com/brave-experiments/boomerang/pkg/pedersen"
)

func TestEquality(t *testing.T) {
	group := curve.T256()
	m := sample.Scalar(rand.Reader, group)
	c1 := pedersen.New(rand.Reader, group, m)
	c2 := pedersen.New(rand.Reader, group, m)

	public := Public{C1: c1.C, C2: c2.C}
	proof := NewProof(group, hash.New(), public, Private{R1: c1.R, R2: c2.R})
	assert.True(t, proof.Verify(hash.New(), public))
}

func TestEqualityFailsOnDifferentValues(t *testing.T) {
	group := curve.T256()
	m := sample.Scalar(rand.Reader, group)
	n := group.NewScalar().Set(m).Add(group.NewScalar().SetUInt64(1))
	c1 := pedersen.New(rand.Reader, group, m)
	c2 := pedersen.New(rand.Reader, group, n)

	public := Public{C1: c1.C, C2: c2.C}
	proof := NewProof(group, hash.New(), public, Private{R1: c1.R, R2: c2.R})
	assert.False(t, proof.Verify(hash.New(), public), "different values should not verify")
}
