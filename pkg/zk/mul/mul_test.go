package zkmul

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
	"github.com/brave-experiments/boomerang/pkg/pedersen"
)

func TestMul(t *testing.T) {
	group := curve.T256()
	x := sample.Scalar(rand.Reader, group)
	y := sample.Scalar(rand.Reader, group)
	xy := group.NewScalar().Set(x).Mul(y)

	cx := pedersen.New(rand.Reader, group, x)
	cy := pedersen.New(rand.Reader, group, y)
	cxy := pedersen.New(rand.Reader, group, xy)

	public := Public{CX: cx.C, CY: cy.C, CXY: cxy.C}
	private := Private{X: x, Y: y, RX: cx.R, RY: cy.R, RXY: cxy.R}
	proof := NewProof(group, hash.New(), public, private)
	assert.True(t, proof.Verify(hash.New(), public))
}

func TestMulFailsOnWrongProduct(t *testing.T) {
	group := curve.T256()
	x := sample.Scalar(rand.Reader, group)
	y := sample.Scalar(rand.Reader, group)
	bad := group.NewScalar().Set(x).Mul(y).Add(group.NewScalar().SetUInt64(1))

	cx := pedersen.New(rand.Reader, group, x)
	cy := pedersen.New(rand.Reader, group, y)
	cbad := pedersen.New(rand.Reader, group, bad)

	public := Public{CX: cx.C, CY: cy.C, CXY: cbad.C}
	private := Private{X: x, Y: y, RX: cx.R, RY: cy.R, RXY: cbad.R}
	proof := NewProof(group, hash.New(), public, private)
	assert.False(t, proof.Verify(hash.New(), public), "xy+1 should not verify as a product")
}

func TestMulSharedChallenge(t *testing.T) {
	group := curve.T256()
	x := sample.Scalar(rand.Reader, group)
	y := sample.Scalar(rand.Reader, group)
	xy := group.NewScalar().Set(x).Mul(y)

	cx := pedersen.New(rand.Reader, group, x)
	cy := pedersen.New(rand.Reader, group, y)
	cxy := pedersen.New(rand.Reader, group, xy)

	public := Public{CX: cx.C, CY: cy.C, CXY: cxy.C}
	private := Private{X: x, Y: y, RX: cx.R, RY: cy.R, RXY: cxy.R}

	i := Commit(rand.Reader, group, public)
	e := sample.Scalar(rand.Reader, group)
	proof := i.FinalizeWithChallenge(group, e, private)
	assert.True(t, proof.VerifyWithChallenge(public, e))
	assert.False(t, proof.VerifyWithChallenge(public, sample.Scalar(rand.Reader, group)))
}
