package zkaddmul

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
	"github.com/brave-experiments/boomerang/pkg/pedersen"
)

func setup(t *testing.T, group curve.Curve) (Public, Private) {
	t.Helper()
	x := sample.Scalar(rand.Reader, group)
	y := sample.Scalar(rand.Reader, group)
	z := sample.Scalar(rand.Reader, group)
	w := group.NewScalar().Set(x).Mul(y)
	total := group.NewScalar().Set(w).Add(z)

	cx := pedersen.New(rand.Reader, group, x)
	cy := pedersen.New(rand.Reader, group, y)
	cz := pedersen.New(rand.Reader, group, z)
	cw := pedersen.New(rand.Reader, group, w)
	ct := pedersen.New(rand.Reader, group, total)

	public := Public{CX: cx.C, CY: cy.C, CZ: cz.C, CW: cw.C, CT: ct.C}
	private := Private{
		X: x, Y: y, Z: z,
		RX: cx.R, RY: cy.R, RZ: cz.R, RW: cw.R, RT: ct.R,
	}
	return public, private
}

func TestAddMul(t *testing.T) {
	group := curve.T256()
	public, private := setup(t, group)
	proof := NewProof(group, hash.New(), public, private)
	assert.True(t, proof.Verify(hash.New(), public))
}

func TestAddMulFailsOnWrongTotal(t *testing.T) {
	group := curve.T256()
	public, private := setup(t, group)

	bad := pedersen.New(rand.Reader, group, sample.Scalar(rand.Reader, group))
	public.CT = bad.C
	private.RT = bad.R
	proof := NewProof(group, hash.New(), public, private)
	assert.False(t, proof.Verify(hash.New(), public), "wrong total should not verify")
}
