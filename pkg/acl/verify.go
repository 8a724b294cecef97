package acl

import (
	"github.com/brave-experiments/boomerang/pkg/math/curve"
)

// Verify checks an ACL signature on a message.
func Verify(vk, tk curve.Point, sig *Signature, message []byte) error {
	if sig == nil || sig.Zeta == nil || sig.Zeta1 == nil {
		return ErrVerificationFailed
	}
	group := sig.Rho.Curve()
	h := group.NewSecondBasePoint()

	z2 := sig.Zeta.Sub(sig.Zeta1)

	tmp := group.NewScalar()
	tmp1 := sig.Rho.ActOnBase().Add(tmp.Set(sig.Omega).Act(vk))
	tmp2 := sig.Rho1.ActOnBase().Add(tmp.Set(sig.Omega1).Act(sig.Zeta1))
	tmp3 := tmp.Set(sig.Rho2).Act(h).Add(group.NewScalar().Set(sig.Omega1).Act(z2))
	tmp4 := tmp.Set(sig.V).Act(tk).Add(group.NewScalar().Set(sig.Omega1).Act(sig.Zeta))

	epsilon := signChallenge(group, sig.Zeta, sig.Zeta1, tmp1, tmp2, tmp3, tmp4, message)
	if !group.NewScalar().Set(sig.Omega).Add(sig.Omega1).Equal(epsilon) {
		return ErrVerificationFailed
	}
	return nil
}
