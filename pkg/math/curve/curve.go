package curve

import (
	"encoding"

	"github.com/cronokirby/saferith"
)

// Curve represents the starting point for working with an elliptic curve group.
//
// The expectation is that this interface will be implemented by a small struct,
// and that the methods on this struct will return new values of the group's
// scalars and points, which can be manipulated further.
type Curve interface {
	// NewPoint returns the identity point of this group.
	NewPoint() Point
	// NewBasePoint returns the first canonical generator of this group.
	NewBasePoint() Point
	// NewSecondBasePoint returns the second canonical generator of this group.
	//
	// The discrete logarithm between the two generators is not known to anyone,
	// which is what makes commitments over this group binding.
	NewSecondBasePoint() Point
	// NewScalar returns the scalar 0 over this group's scalar field.
	NewScalar() Scalar
	// Name returns the name of this group, for domain separation.
	Name() string
	// ScalarBytes returns the number of bytes in the canonical encoding of a scalar.
	ScalarBytes() int
	// PointBytes returns the number of bytes in the compressed encoding of a point.
	PointBytes() int
	// Order returns a modulus holding the order of this group.
	Order() *saferith.Modulus
	// Field returns a modulus holding the prime of the base field.
	Field() *saferith.Modulus
	// LiftX attempts to find a point on the curve whose x coordinate is data
	// interpreted as a big-endian integer, reduced modulo the base field.
	//
	// Of the two candidates, the point with even y is returned. An error
	// indicates that no point with this x coordinate exists; callers doing
	// try-and-increment hashing are expected to retry with new data.
	LiftX(data []byte) (Point, error)
}

// Scalar represents an element of the scalar field associated with a Curve.
//
// Arithmetic methods mutate the receiver, and return it as well, for chaining.
type Scalar interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Curve() Curve
	Add(Scalar) Scalar
	Sub(Scalar) Scalar
	Negate() Scalar
	Mul(Scalar) Scalar
	Invert() Scalar
	Equal(Scalar) bool
	IsZero() bool
	Set(Scalar) Scalar
	SetNat(*saferith.Nat) Scalar
	SetUInt64(uint64) Scalar
	Act(Point) Point
	ActOnBase() Point
}

// Point represents an element of the group associated with a Curve.
//
// Unlike Scalar, methods on a Point do not mutate the receiver.
type Point interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Curve() Curve
	Add(Point) Point
	Sub(Point) Point
	Negate() Point
	Equal(Point) bool
	IsIdentity() bool
	// XBytes returns the canonical big-endian encoding of the affine x coordinate.
	//
	// Calling this on the identity point panics.
	XBytes() []byte
	// YBytes returns the canonical big-endian encoding of the affine y coordinate.
	//
	// Calling this on the identity point panics.
	YBytes() []byte
}

// FromHash converts a hash value to a Scalar.
//
// There is some disagreement about how this should be done.
// [NSA] suggests that this is done in the obvious
// manner, but [SECG] truncates the hash to the bit-length of the curve order
// first. We follow [SECG] because that's what OpenSSL does. Additionally,
// OpenSSL right shifts excess bits from the number if the hash is too large
// and we mirror that too.
//
// Taken from crypto/ecdsa.
func FromHash(group Curve, h []byte) Scalar {
	order := group.Order()
	orderBits := order.BitLen()
	orderBytes := (orderBits + 7) / 8
	if len(h) > orderBytes {
		h = h[:orderBytes]
	}
	s := new(saferith.Nat).SetBytes(h)
	excess := len(h)*8 - orderBits
	if excess > 0 {
		s.Rsh(s, uint(excess), -1)
	}
	return group.NewScalar().SetNat(s)
}

// ScalarFromChallenge maps a challenge buffer produced by a transcript to a
// scalar, by interpreting a little-endian prefix of the buffer as an integer
// and reducing it modulo the group order.
func ScalarFromChallenge(group Curve, chal []byte) Scalar {
	n := group.ScalarBytes()
	if len(chal) > n {
		chal = chal[:n]
	}
	be := make([]byte, len(chal))
	for i, b := range chal {
		be[len(chal)-1-i] = b
	}
	return group.NewScalar().SetNat(new(saferith.Nat).SetBytes(be))
}
