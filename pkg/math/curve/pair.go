package curve

import "github.com/cronokirby/saferith"

// Pair links a commitment curve with the credential curve it shadows.
//
// Tick is the curve commitments and sigma protocols run over. Tock is the
// curve holding the actual credential keys. The tick scalar field is chosen
// to match the tock base field, so that a commitment over Tick can hold an
// affine coordinate of a Tock point exactly.
type Pair struct {
	Tick Curve
	Tock Curve
}

// T256P256 returns the pair linking T256 with NIST P-256.
func T256P256() Pair {
	return Pair{Tick: T256(), Tock: P256()}
}

// Secp256k1Self returns the pair using secp256k1 on both sides.
//
// Here the scalar field is slightly smaller than the base field, so base
// field conversions reduce modulo the group order. The gap is around 2^128,
// making a non trivial reduction vanishingly unlikely.
func Secp256k1Self() Pair {
	return Pair{Tick: Secp256k1{}, Tock: Secp256k1{}}
}

// FromOtherBase converts a big-endian tock base field element, typically an
// affine coordinate obtained from Point.XBytes or Point.YBytes, to a tick scalar.
func (p Pair) FromOtherBase(data []byte) Scalar {
	return p.Tick.NewScalar().SetNat(new(saferith.Nat).SetBytes(data))
}

// FromOtherScalar converts a tock scalar to a tick scalar.
func (p Pair) FromOtherScalar(s Scalar) Scalar {
	data, err := s.MarshalBinary()
	if err != nil {
		panic(err)
	}
	reverse(data)
	return p.Tick.NewScalar().SetNat(new(saferith.Nat).SetBytes(data))
}

// ToOtherScalar converts a tick scalar to a tock scalar.
func (p Pair) ToOtherScalar(s Scalar) Scalar {
	data, err := s.MarshalBinary()
	if err != nil {
		panic(err)
	}
	reverse(data)
	return p.Tock.NewScalar().SetNat(new(saferith.Nat).SetBytes(data))
}

// FromBase converts a big-endian tick base field element to a tick scalar.
func (p Pair) FromBase(data []byte) Scalar {
	return p.Tick.NewScalar().SetNat(new(saferith.Nat).SetBytes(data))
}

// SingleBitChallenge maps the low bit of b to a tick scalar, +1 for a set
// bit and -1 otherwise.
//
// All protocols with binary challenges derive them through this single
// function, so that provers and verifiers cannot disagree on the mapping.
func (p Pair) SingleBitChallenge(b byte) Scalar {
	one := p.Tick.NewScalar().SetUInt64(1)
	if b&1 == 1 {
		return one
	}
	return one.Negate()
}
