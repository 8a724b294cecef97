package zknonzero

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
	"github.com/brave-experiments/boomerang/pkg/pedersen"
)

func TestNonZero(t *testing.T) {
	group := curve.T256()
	x := sample.ScalarUnit(rand.Reader, group)
	com := pedersen.New(rand.Reader, group, x)

	public := Public{C: com.C}
	proof := NewProof(group, hash.New(), public, Private{X: x, R: com.R})
	assert.True(t, proof.Verify(hash.New(), public))
}

func TestNonZeroRejectsZeroWitness(t *testing.T) {
	group := curve.T256()
	com := pedersen.New(rand.Reader, group, group.NewScalar())
	assert.Panics(t, func() {
		NewProof(group, hash.New(), Public{C: com.C}, Private{X: group.NewScalar(), R: com.R})
	})
}

func TestNonZeroFailsOnSwappedCommitment(t *testing.T) {
	group := curve.T256()
	x := sample.ScalarUnit(rand.Reader, group)
	com := pedersen.New(rand.Reader, group, x)
	other := pedersen.New(rand.Reader, group, sample.ScalarUnit(rand.Reader, group))

	proof := NewProof(group, hash.New(), Public{C: com.C}, Private{X: x, R: com.R})
	assert.False(t, proof.Verify(hash.New(), Public{C: other.C}))
}
