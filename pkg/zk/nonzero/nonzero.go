// Package zknonzero proves that a Pedersen commitment opens to a nonzero
// value, by committing to the inverse and running a product proof against a
// public commitment to one.
package zknonzero

import (
	"crypto/rand"

	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
	zkmul "github.com/brave-experiments/boomerang/pkg/zk/mul"
)

const domain = "non-zero-proof"

type Public struct {
	// C commits to the claimed nonzero value.
	C curve.Point
}

type Private struct {
	// X is the committed value, x ≠ 0.
	X curve.Scalar

	// R is the commitment randomness.
	R curve.Scalar
}

type Proof struct {
	group curve.Curve

	// CInv commits to x⁻¹.
	CInv curve.Point

	// Mul proves CInv ⋅ C opens to 1.
	Mul *zkmul.Proof
}

func (p *Proof) IsValid(public Public) bool {
	if p == nil || p.Mul == nil {
		return false
	}
	if p.CInv.IsIdentity() {
		return false
	}
	return true
}

// one is the public commitment 1⋅g + 0⋅h, i.e. the base point itself.
func one(group curve.Curve) curve.Point {
	return group.NewBasePoint()
}

func NewProof(group curve.Curve, h *hash.Hash, public Public, private Private) *Proof {
	if private.X.IsZero() {
		panic("zknonzero: committed value is zero")
	}
	inv := group.NewScalar().Set(private.X).Invert()
	rInv := sample.Scalar(rand.Reader, group)
	cInv := inv.ActOnBase().Add(rInv.Act(group.NewSecondBasePoint()))

	_ = h.WriteAny([]byte(domain), public.C, cInv)

	mulPublic := zkmul.Public{CX: public.C, CY: cInv, CXY: one(group)}
	mulPrivate := zkmul.Private{
		X:   private.X,
		Y:   inv,
		RX:  private.R,
		RY:  rInv,
		RXY: group.NewScalar(),
	}
	return &Proof{
		group: group,
		CInv:  cInv,
		Mul:   zkmul.NewProof(group, h, mulPublic, mulPrivate),
	}
}

func (p *Proof) Verify(h *hash.Hash, public Public) bool {
	if !p.IsValid(public) {
		return false
	}
	_ = h.WriteAny([]byte(domain), public.C, p.CInv)
	mulPublic := zkmul.Public{CX: public.C, CY: p.CInv, CXY: one(p.group)}
	return p.Mul.Verify(h, mulPublic)
}

func Empty(group curve.Curve) *Proof {
	return &Proof{
		group: group,
		CInv:  group.NewPoint(),
		Mul:   zkmul.Empty(group),
	}
}
