package zkzeroone

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
	"github.com/brave-experiments/boomerang/pkg/pedersen"
)

func TestZeroOne(t *testing.T) {
	group := curve.T256()
	for _, bit := range []uint64{0, 1} {
		m := group.NewScalar().SetUInt64(bit)
		com := pedersen.New(rand.Reader, group, m)
		public := Public{C: com.C}
		proof := NewProof(group, hash.New(), public, Private{M: m, R: com.R})
		assert.True(t, proof.Verify(hash.New(), public), "bit %d should verify", bit)
	}
}

func TestZeroOneFailsOnNonBit(t *testing.T) {
	group := curve.T256()
	for _, v := range []uint64{2, 3, 17} {
		m := group.NewScalar().SetUInt64(v)
		com := pedersen.New(rand.Reader, group, m)
		public := Public{C: com.C}
		proof := NewProof(group, hash.New(), public, Private{M: m, R: com.R})
		assert.False(t, proof.Verify(hash.New(), public), "%d is not a bit", v)
	}

	m := sample.Scalar(rand.Reader, group)
	com := pedersen.New(rand.Reader, group, m)
	public := Public{C: com.C}
	proof := NewProof(group, hash.New(), public, Private{M: m, R: com.R})
	assert.False(t, proof.Verify(hash.New(), public))
}
