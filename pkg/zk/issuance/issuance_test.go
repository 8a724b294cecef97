package zkissuance

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
	"github.com/brave-experiments/boomerang/pkg/pedersen"
)

func issuanceVector(group curve.Curve) ([]curve.Scalar, curve.Point) {
	sk := sample.Scalar(rand.Reader, group)
	ms := []curve.Scalar{
		sample.Scalar(rand.Reader, group), // serial number
		group.NewScalar(),                 // reserved, must be zero
		sk,
		sample.Scalar(rand.Reader, group),
	}
	return ms, sk.ActOnBase()
}

func TestIssuance(t *testing.T) {
	group := curve.T256()
	gens := pedersen.Generators(group, 4)
	ms, pk := issuanceVector(group)
	com := pedersen.NewMulti(rand.Reader, group, ms, gens)

	public := Public{C: com.C, PK: pk, Gens: gens}
	proof := NewProof(group, hash.New(), public, Private{Ms: ms, R: com.R})
	assert.True(t, proof.Verify(hash.New(), public))
}

func TestIssuanceFailsOnForeignKey(t *testing.T) {
	group := curve.T256()
	gens := pedersen.Generators(group, 4)
	ms, _ := issuanceVector(group)
	com := pedersen.NewMulti(rand.Reader, group, ms, gens)

	otherPK := sample.Scalar(rand.Reader, group).ActOnBase()
	public := Public{C: com.C, PK: otherPK, Gens: gens}
	proof := NewProof(group, hash.New(), public, Private{Ms: ms, R: com.R})
	assert.False(t, proof.Verify(hash.New(), public), "key slot must match the public key")
}

func TestIssuanceFailsOnNonZeroReservedSlot(t *testing.T) {
	group := curve.T256()
	gens := pedersen.Generators(group, 4)
	ms, pk := issuanceVector(group)
	ms[1] = group.NewScalar().SetUInt64(1)
	com := pedersen.NewMulti(rand.Reader, group, ms, gens)

	public := Public{C: com.C, PK: pk, Gens: gens}
	proof := NewProof(group, hash.New(), public, Private{Ms: ms, R: com.R})
	assert.False(t, proof.Verify(hash.New(), public), "reserved slot must be zero")
}
