package zkbalance

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
	"github.com/brave-experiments/boomerang/pkg/pedersen"
)

func balanceStatement(t *testing.T) (curve.Curve, Public, Private) {
	t.Helper()
	group := curve.T256()
	gens := pedersen.Generators(group, 4)
	ms := make([]curve.Scalar, 4)
	for i := range ms {
		ms[i] = sample.Scalar(rand.Reader, group)
	}
	com := pedersen.NewMulti(rand.Reader, group, ms, gens)

	f := group.NewBasePoint()
	fBlinding := group.NewSecondBasePoint()
	b := sample.Scalar(rand.Reader, group)
	v := group.NewScalar().Set(ms[valueSlot]).ActOnBase().
		Add(group.NewScalar().Set(b).Act(fBlinding))

	public := Public{C: com.C, V: v, Gens: gens, F: f, FBlinding: fBlinding}
	return group, public, Private{Ms: ms, R: com.R, B: b}
}

func TestBalanceProof(t *testing.T) {
	group, public, private := balanceStatement(t)
	proof := NewProof(group, hash.New(), public, private)
	assert.True(t, proof.Verify(hash.New(), public))
}

func TestBalanceProofFailsOnWrongValue(t *testing.T) {
	group, public, private := balanceStatement(t)
	public.V = public.V.Add(group.NewBasePoint())
	proof := NewProof(group, hash.New(), public, private)
	assert.False(t, proof.Verify(hash.New(), public))
}

func TestBalanceProofFailsOnTampering(t *testing.T) {
	group, public, private := balanceStatement(t)
	proof := NewProof(group, hash.New(), public, private)
	proof.ZB = proof.ZB.Add(group.NewScalar().SetUInt64(1))
	assert.False(t, proof.Verify(hash.New(), public))
}

func TestBalanceProofLengthMismatch(t *testing.T) {
	group, public, _ := balanceStatement(t)
	proof := Empty(group, 3)
	assert.False(t, proof.Verify(hash.New(), public))
}
