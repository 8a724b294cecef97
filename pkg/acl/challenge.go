package acl

import (
	"io"

	"github.com/brave-experiments/boomerang/internal/zero"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
)

// SigChall carries the user's state between its two moves. Only E is sent to
// the signer.
type SigChall struct {
	// E is the blinded challenge.
	E curve.Scalar

	group   curve.Curve
	vk      curve.Point
	tk      curve.Point
	zeta    curve.Point
	zeta1   curve.Point
	gamma   curve.Scalar
	tau     curve.Scalar
	t1      curve.Scalar
	t2      curve.Scalar
	t3      curve.Scalar
	t4      curve.Scalar
	t5      curve.Scalar
	rand    curve.Scalar
	message []byte
}

// NewChallenge runs the user's move: blind the signer's commitment, derive
// the challenge over the blinded view, and unblind it for the signer.
//
// The signer's move is validated first; a zero rand or a degenerate point
// would let the signer cancel the blinding, so the session aborts.
func NewChallenge(
	rand io.Reader,
	group curve.Curve,
	vk, tk curve.Point,
	commit SigCommit,
	comm curve.Point,
	message []byte,
) (*SigChall, error) {
	if commit.Rand == nil || commit.Rand.IsZero() {
		return nil, ErrInvalidCommitment
	}
	if commit.A == nil || commit.A1 == nil || commit.A2 == nil {
		return nil, ErrInvalidCommitment
	}
	if commit.A.IsIdentity() || commit.A1.IsIdentity() || commit.A2.IsIdentity() {
		return nil, ErrInvalidCommitment
	}

	h := group.NewSecondBasePoint()

	gamma := sample.ScalarUnit(rand, group)
	tau := sample.Scalar(rand, group)
	t1 := sample.Scalar(rand, group)
	t2 := sample.Scalar(rand, group)
	t3 := sample.Scalar(rand, group)
	t4 := sample.Scalar(rand, group)
	t5 := sample.Scalar(rand, group)

	z1 := commit.Rand.ActOnBase().Add(comm)
	zeta := group.NewScalar().Set(gamma).Act(tk)
	zeta1 := group.NewScalar().Set(gamma).Act(z1)
	zeta2 := zeta.Sub(zeta1)

	tmp := group.NewScalar()
	alpha := commit.A.Add(t1.ActOnBase()).Add(tmp.Set(t2).Act(vk))
	alpha1 := tmp.Set(gamma).Act(commit.A1).
		Add(t3.ActOnBase()).
		Add(group.NewScalar().Set(t4).Act(zeta1))
	alpha2 := tmp.Set(gamma).Act(commit.A2).
		Add(group.NewScalar().Set(t5).Act(h)).
		Add(group.NewScalar().Set(t4).Act(zeta2))
	eta := tmp.Set(tau).Act(tk)

	epsilon := signChallenge(group, zeta, zeta1, alpha, alpha1, alpha2, eta, message)
	e := group.NewScalar().Set(epsilon).Sub(t2).Sub(t4)

	return &SigChall{
		E:       e,
		group:   group,
		vk:      vk,
		tk:      tk,
		zeta:    zeta,
		zeta1:   zeta1,
		gamma:   gamma,
		tau:     tau,
		t1:      t1,
		t2:      t2,
		t3:      t3,
		t4:      t4,
		t5:      t5,
		rand:    group.NewScalar().Set(commit.Rand),
		message: message,
	}, nil
}

// Signature is the unblinded ACL signature over the rerandomized commitment
// Zeta1.
type Signature struct {
	Zeta   curve.Point
	Zeta1  curve.Point
	Rho    curve.Scalar
	Omega  curve.Scalar
	Rho1   curve.Scalar
	Rho2   curve.Scalar
	Omega1 curve.Scalar
	V      curve.Scalar
}

// Opening lets the user open Zeta1 later: Zeta1 = gamma·(rand·g + C).
type Opening struct {
	Gamma curve.Scalar
	Rand  curve.Scalar
}

// Sign finishes the session with the signer's response. The assembled
// signature is checked against the user's own challenge; on mismatch the
// signer misbehaved and the session aborts with everything wiped.
func (ch *SigChall) Sign(resp SigResp) (*Signature, Opening, error) {
	group := ch.group

	sig := &Signature{
		Zeta:   ch.zeta,
		Zeta1:  ch.zeta1,
		Rho:    group.NewScalar().Set(resp.R).Add(ch.t1),
		Omega:  group.NewScalar().Set(resp.C).Add(ch.t2),
		Rho1:   group.NewScalar().Set(ch.gamma).Mul(resp.R1).Add(ch.t3),
		Rho2:   group.NewScalar().Set(ch.gamma).Mul(resp.R2).Add(ch.t5),
		Omega1: group.NewScalar().Set(resp.C1).Add(ch.t4),
		V:      group.NewScalar().Set(ch.tau).Sub(group.NewScalar().Set(resp.C1).Add(ch.t4).Mul(ch.gamma)),
	}

	if err := Verify(ch.vk, ch.tk, sig, ch.message); err != nil {
		zero.Scalars(sig.Rho, sig.Omega, sig.Rho1, sig.Rho2, sig.Omega1, sig.V)
		zero.Scalars(ch.gamma, ch.tau, ch.t1, ch.t2, ch.t3, ch.t4, ch.t5, ch.rand)
		return nil, Opening{}, ErrChallengeMismatch
	}

	opening := Opening{
		Gamma: group.NewScalar().Set(ch.gamma),
		Rand:  group.NewScalar().Set(ch.rand),
	}
	zero.Scalars(ch.tau, ch.t1, ch.t2, ch.t3, ch.t4, ch.t5)
	return sig, opening, nil
}
