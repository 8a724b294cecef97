package bulletproofs

import (
	"io"

	"github.com/brave-experiments/boomerang/internal/params"
	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
)

// Transcript helpers. Every challenge draw is preceded by a labelled write,
// so that consecutive draws from the same transcript never repeat.

func rangeproofDomain(h *hash.Hash, n, m uint64) {
	_ = h.WriteAny([]byte("dom-sep-rangeproof"), n, m)
}

func innerproductDomain(h *hash.Hash, n uint64) {
	_ = h.WriteAny([]byte("dom-sep-ipp"), n)
}

func appendPoint(h *hash.Hash, label string, p curve.Point) {
	_ = h.WriteAny([]byte(label), p)
}

// validateAndAppendPoint rejects the identity, which an adversary could use
// to cancel terms in the final check.
func validateAndAppendPoint(h *hash.Hash, label string, p curve.Point) error {
	if p.IsIdentity() {
		return ErrVerificationFailed
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
