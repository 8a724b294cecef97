package r1cs

import (
	"io"

	"github.com/brave-experiments/boomerang/internal/params"
	"github.com/brave-experiments/boomerang/pkg/bulletproofs"
	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
)

// Transcript helpers, mirroring the discipline of the range proof: every
// challenge draw is preceded by a labelled write.

func r1csDomain(h *hash.Hash) {
	_ = h.WriteAny([]byte("dom-sep-r1cs"))
}

func onePhaseDomain(h *hash.Hash) {
	_ = h.WriteAny([]byte("dom-sep-r1cs-1phase"))
}

func twoPhaseDomain(h *hash.Hash) {
	_ = h.WriteAny([]byte("dom-sep-r1cs-2phase"))
}

func appendPoint(h *hash.Hash, label string, p curve.Point) {
	_ = h.WriteAny([]byte(label), p)
}

func validateAndAppendPoint(h *hash.Hash, label string, p curve.Point) error {
	if p.IsIdentity() {
		return bulletproofs.ErrVerificationFailed
	}
	appendPoint(h, label, p)
	return nil
}

func appendScalar(h *hash.Hash, label string, s curve.Scalar) {
	_ = h.WriteAny([]byte(label), s)
}

func appendUint64(h *hash.Hash, label string, v uint64) {
	_ = h.WriteAny([]byte(label), v)
}

func challengeScalar(h *hash.Hash, group curve.Curve, label string) curve.Scalar {
	_ = h.WriteAny([]byte("chal-" + label))
	buf := make([]byte, params.ChallengeBytes)
	if _, err := io.ReadFull(h.Digest(), buf); err != nil {
		panic(err)
	}
	return curve.ScalarFromChallenge(group, buf)
}
