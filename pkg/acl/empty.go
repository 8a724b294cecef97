package acl

import (
	"github.com/brave-experiments/boomerang/pkg/math/curve"
)

// EmptySigCommit returns a SigCommit with all group elements initialized,
// ready to be unmarshalled.
func EmptySigCommit(group curve.Curve) SigCommit {
	return SigCommit{
		Rand: group.NewScalar(),
		A:    group.NewPoint(),
		A1:   group.NewPoint(),
		A2:   group.NewPoint(),
	}
}

// EmptySigResp returns a SigResp ready to be unmarshalled.
func EmptySigResp(group curve.Curve) SigResp {
	return SigResp{
		C:  group.NewScalar(),
		C1: group.NewScalar(),
		R:  group.NewScalar(),
		R1: group.NewScalar(),
		R2: group.NewScalar(),
	}
}

// EmptySignature returns a Signature ready to be unmarshalled.
func EmptySignature(group curve.Curve) *Signature {
	return &Signature{
		Zeta:   group.NewPoint(),
		Zeta1:  group.NewPoint(),
		Rho:    group.NewScalar(),
		Omega:  group.NewScalar(),
		Rho1:   group.NewScalar(),
		Rho2:   group.NewScalar(),
		Omega1: group.NewScalar(),
		V:      group.NewScalar(),
	}
}

// EmptyPossessionProof returns a PossessionProof for l attribute slots,
// ready to be unmarshalled.
func EmptyPossessionProof(group curve.Curve, l int) *PossessionProof {
	p := &PossessionProof{
		BGamma: group.NewPoint(),
		H:      make([]curve.Point, l),
		GammaH: group.NewPoint(),
		LinkT:  make([]curve.Point, l+3),
		LinkZ:  group.NewScalar(),
		OpenT:  group.NewPoint(),
		OpenZ:  make([]curve.Scalar, l+2),
	}
	for i := range p.H {
		p.H[i] = group.NewPoint()
	}
	for i := range p.LinkT {
		p.LinkT[i] = group.NewPoint()
	}
	for i := range p.OpenZ {
		p.OpenZ[i] = group.NewScalar()
	}
	return p
}
