// Package acl implements the ACL blind signature scheme on committed
// attributes.
//
// The signer holds a commitment to the user's attributes but never sees the
// attributes themselves, and the user walks away with a signature on a
// rerandomized form of the commitment that the signer cannot link back to
// the signing session. The scheme is the three-move protocol of
// Baldimtsi-Lysyanskaya, with a fixed tag public key shared by all signers
// of a deployment.
package acl

import (
	"errors"
	"io"

	"golang.org/x/crypto/sha3"

	"github.com/brave-experiments/boomerang/internal/params"
	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
	"github.com/brave-experiments/boomerang/pkg/pedersen"
)

var (
	// ErrInvalidCommitment is returned when the signer's first move fails
	// validation. The session must be abandoned.
	ErrInvalidCommitment = errors.New("acl: invalid signer commitment")
	// ErrChallengeMismatch is returned when the assembled signature fails
	// the user's own check of the signer's response. The session must be
	// abandoned.
	ErrChallengeMismatch = errors.New("acl: signer response does not match challenge")
	// ErrVerificationFailed is returned for signatures and possession
	// proofs that do not verify.
	ErrVerificationFailed = errors.New("acl: verification failed")
)

const tagKeyDomain = "Tag Public Key"

// TagKey derives the deployment-wide tag public key Z for the group. Nobody
// knows its discrete logarithm.
func TagKey(group curve.Curve) (curve.Point, error) {
	shake := sha3.NewShake256()
	_, _ = shake.Write([]byte(tagKeyDomain))
	_, _ = shake.Write([]byte{'G', 0, 0, 0, 0})
	buf := make([]byte, 64)
	if _, err := io.ReadFull(shake, buf); err != nil {
		return nil, err
	}
	return pedersen.MapToPoint(group, buf)
}

// KeyPair is a signer's key pair together with the tag public key.
type KeyPair struct {
	group curve.Curve
	sk    curve.Scalar

	// VerifyingKey is sk·g.
	VerifyingKey curve.Point
	// TagKey is the tag public key Z.
	TagKey curve.Point
}

// NewKeyPair generates a signing key and derives the tag key.
func NewKeyPair(rand io.Reader, group curve.Curve) (*KeyPair, error) {
	tk, err := TagKey(group)
	if err != nil {
		return nil, err
	}
	sk := sample.Scalar(rand, group)
	return &KeyPair{
		group:        group,
		sk:           sk,
		VerifyingKey: sk.ActOnBase(),
		TagKey:       tk,
	}, nil
}

// SecretKey returns the signing scalar.
func (k *KeyPair) SecretKey() curve.Scalar {
	return k.sk
}

// KeyPairFromSecret rebuilds a signer key pair from a stored secret scalar.
func KeyPairFromSecret(group curve.Curve, sk curve.Scalar) (*KeyPair, error) {
	tk, err := TagKey(group)
	if err != nil {
		return nil, err
	}
	return &KeyPair{
		group:        group,
		sk:           sk,
		VerifyingKey: sk.ActOnBase(),
		TagKey:       tk,
	}, nil
}

// UserKeyPair is the user's long-term key, mixed into spending tags.
type UserKeyPair struct {
	sk curve.Scalar

	// PublicKey is sk·g.
	PublicKey curve.Point
}

// NewUserKeyPair generates a user key.
func NewUserKeyPair(rand io.Reader, group curve.Curve) *UserKeyPair {
	sk := sample.Scalar(rand, group)
	return &UserKeyPair{sk: sk, PublicKey: sk.ActOnBase()}
}

// UserKeyPairFromSecret rebuilds a user key from a stored secret scalar.
func UserKeyPairFromSecret(sk curve.Scalar) *UserKeyPair {
	return &UserKeyPair{sk: sk, PublicKey: sk.ActOnBase()}
}

// SecretKey returns the user's secret scalar.
func (u *UserKeyPair) SecretKey() curve.Scalar {
	return u.sk
}

// signChallenge computes the signature challenge over a fresh transcript, so
// that signing and verification agree bit for bit.
func signChallenge(group curve.Curve, zeta, zeta1, a, a1, a2, eta curve.Point, message []byte) curve.Scalar {
	h := hash.New()
	_ = h.WriteAny([]byte("acl-challenge"), zeta, zeta1, a, a1, a2, eta, message)
	buf := make([]byte, params.ChallengeBytes)
	if _, err := io.ReadFull(h.Digest(), buf); err != nil {
		panic(err)
	}
	return curve.ScalarFromChallenge(group, buf)
}
