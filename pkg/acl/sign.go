package acl

import (
	"io"

	"github.com/brave-experiments/boomerang/internal/zero"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
)

// SigCommit is the signer's first move.
type SigCommit struct {
	// Rand offsets the user's commitment inside z₁ = rand·g + C.
	Rand curve.Scalar
	A    curve.Point
	A1   curve.Point
	A2   curve.Point
}

// SignerState carries the signer's secrets between its two moves.
type SignerState struct {
	SigCommit

	c  curve.Scalar
	u  curve.Scalar
	r1 curve.Scalar
	r2 curve.Scalar
}

// Commit runs the signer's first move against the user's registered
// commitment.
func Commit(rand io.Reader, keys *KeyPair, comm curve.Point) *SignerState {
	group := keys.group
	h := group.NewSecondBasePoint()

	randS := sample.Scalar(rand, group)
	u := sample.Scalar(rand, group)
	r1 := sample.Scalar(rand, group)
	r2 := sample.Scalar(rand, group)
	c := sample.Scalar(rand, group)

	z1 := randS.ActOnBase().Add(comm)
	z2 := keys.TagKey.Sub(z1)

	tmp := group.NewScalar()
	a := u.ActOnBase()
	a1 := r1.ActOnBase().Add(tmp.Set(c).Act(z1))
	a2 := tmp.Set(r2).Act(h).Add(group.NewScalar().Set(c).Act(z2))

	return &SignerState{
		SigCommit: SigCommit{Rand: randS, A: a, A1: a1, A2: a2},
		c:         c,
		u:         u,
		r1:        r1,
		r2:        r2,
	}
}

// SigResp is the signer's second move.
type SigResp struct {
	C  curve.Scalar
	C1 curve.Scalar
	R  curve.Scalar
	R1 curve.Scalar
	R2 curve.Scalar
}

// Respond answers the user's challenge and wipes the signer state.
func (s *SignerState) Respond(keys *KeyPair, e curve.Scalar) SigResp {
	group := keys.group
	c := group.NewScalar().Set(e).Sub(s.c)
	r := group.NewScalar().Set(s.u).Sub(group.NewScalar().Set(c).Mul(keys.sk))

	resp := SigResp{
		C:  c,
		C1: group.NewScalar().Set(s.c),
		R:  r,
		R1: group.NewScalar().Set(s.r1),
		R2: group.NewScalar().Set(s.r2),
	}
	zero.Scalars(s.c, s.u, s.r1, s.r2)
	return resp
}
