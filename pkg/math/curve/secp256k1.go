package curve

import (
	"encoding/hex"
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// The second generator, h, with unknown discrete log relative to the base point.
const (
	secp256k1HX = "90c74af33f31d922a23931f358a0354b7bcd5c765cc1fceacc3b3d197e1076f1"
	secp256k1HY = "a1c1011c097a6b3ffb4757c5683861ee6bd989645f04cc968ff697b6cf3d0a49"

	secp256k1N = "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141"
	secp256k1P = "fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f"
)

var (
	secp256k1Order  *saferith.Modulus
	secp256k1Field  *saferith.Modulus
	secp256k1Second secp256k1.JacobianPoint
)

func init() {
	nBytes, err := hex.DecodeString(secp256k1N)
	if err != nil {
		panic(err)
	}
	secp256k1Order = saferith.ModulusFromBytes(nBytes)
	pBytes, err := hex.DecodeString(secp256k1P)
	if err != nil {
		panic(err)
	}
	secp256k1Field = saferith.ModulusFromBytes(pBytes)

	hxBytes, _ := hex.DecodeString(secp256k1HX)
	hyBytes, _ := hex.DecodeString(secp256k1HY)
	if secp256k1Second.X.SetByteSlice(hxBytes) || secp256k1Second.Y.SetByteSlice(hyBytes) {
		panic("secp256k1: invalid second generator")
	}
	secp256k1Second.Z.SetInt(1)
}

// Secp256k1 is the secp256k1 group, backed by the decred implementation.
//
// Unlike the generic curves, secp256k1 serves as its own linked commitment
// curve. Conversions from its base field to its scalar field reduce modulo
// the group order.
type Secp256k1 struct{}

func (Secp256k1) NewPoint() Point {
	return new(secp256k1Point)
}

func (Secp256k1) NewBasePoint() Point {
	out := new(secp256k1Point)
	one := new(secp256k1.ModNScalar).SetInt(1)
	secp256k1.ScalarBaseMultNonConst(one, &out.value)
	return out
}

func (Secp256k1) NewSecondBasePoint() Point {
	out := new(secp256k1Point)
	out.value.Set(&secp256k1Second)
	return out
}

func (Secp256k1) NewScalar() Scalar {
	return new(secp256k1Scalar)
}

func (Secp256k1) Name() string {
	return "secp256k1"
}

func (Secp256k1) ScalarBytes() int {
	return 32
}

func (Secp256k1) PointBytes() int {
	return 33
}

func (Secp256k1) Order() *saferith.Modulus {
	return secp256k1Order
}

func (Secp256k1) Field() *saferith.Modulus {
	return secp256k1Field
}

func (Secp256k1) LiftX(data []byte) (Point, error) {
	out := new(secp256k1Point)
	var x secp256k1.FieldVal
	if x.SetByteSlice(data) {
		return nil, fmt.Errorf("secp256k1: x coordinate out of range")
	}
	if !secp256k1.DecompressY(&x, false, &out.value.Y) {
		return nil, fmt.Errorf("secp256k1: no point with given x coordinate")
	}
	out.value.X.Set(&x)
	out.value.Z.SetInt(1)
	if out.value.Y.Normalize().IsOdd() {
		out.value.Y.Negate(1).Normalize()
	}
	return out, nil
}

type secp256k1Scalar struct {
	value secp256k1.ModNScalar
}

func secp256k1CastScalar(generic Scalar) *secp256k1Scalar {
	out, ok := generic.(*secp256k1Scalar)
	if !ok {
		panic(fmt.Sprintf("failed to convert to secp256k1Scalar: %v", generic))
	}
	return out
}

func (*secp256k1Scalar) Curve() Curve {
	return Secp256k1{}
}

// MarshalBinary returns the canonical little-endian encoding of the scalar.
func (s *secp256k1Scalar) MarshalBinary() ([]byte, error) {
	data := s.value.Bytes()
	reverse(data[:])
	return data[:], nil
}

func (s *secp256k1Scalar) UnmarshalBinary(data []byte) error {
	if len(data) != 32 {
		return fmt.Errorf("invalid length for secp256k1 scalar: %d", len(data))
	}
	var exactData [32]byte
	copy(exactData[:], data)
	reverse(exactData[:])
	if s.value.SetBytes(&exactData) != 0 {
		return fmt.Errorf("non canonical secp256k1 scalar")
	}
	return nil
}

func (s *secp256k1Scalar) Add(that Scalar) Scalar {
	other := secp256k1CastScalar(that)
	s.value.Add(&other.value)
	return s
}

func (s *secp256k1Scalar) Sub(that Scalar) Scalar {
	other := secp256k1CastScalar(that)
	negated := new(secp256k1.ModNScalar).Set(&other.value)
	negated.Negate()
	s.value.Add(negated)
	return s
}

func (s *secp256k1Scalar) Negate() Scalar {
	s.value.Negate()
	return s
}

func (s *secp256k1Scalar) Mul(that Scalar) Scalar {
	other := secp256k1CastScalar(that)
	s.value.Mul(&other.value)
	return s
}

func (s *secp256k1Scalar) Invert() Scalar {
	s.value.InverseNonConst()
	return s
}

func (s *secp256k1Scalar) Equal(that Scalar) bool {
	other := secp256k1CastScalar(that)
	return s.value.Equals(&other.value)
}

func (s *secp256k1Scalar) IsZero() bool {
	return s.value.IsZero()
}

func (s *secp256k1Scalar) Set(that Scalar) Scalar {
	other := secp256k1CastScalar(that)
	s.value.Set(&other.value)
	return s
}

func (s *secp256k1Scalar) SetNat(x *saferith.Nat) Scalar {
	reduced := new(saferith.Nat).Mod(x, secp256k1Order)
	var data [32]byte
	reduced.FillBytes(data[:])
	s.value.SetBytes(&data)
	return s
}

func (s *secp256k1Scalar) SetUInt64(x uint64) Scalar {
	var data [32]byte
	for i := 0; i < 8; i++ {
		data[31-i] = byte(x >> uint(8*i))
	}
	s.value.SetBytes(&data)
	return s
}

func (s *secp256k1Scalar) Act(that Point) Point {
	other := secp256k1CastPoint(that)
	out := new(secp256k1Point)
	secp256k1.ScalarMultNonConst(&s.value, &other.value, &out.value)
	return out
}

func (s *secp256k1Scalar) ActOnBase() Point {
	out := new(secp256k1Point)
	secp256k1.ScalarBaseMultNonConst(&s.value, &out.value)
	return out
}

type secp256k1Point struct {
	value secp256k1.JacobianPoint
}

func secp256k1CastPoint(generic Point) *secp256k1Point {
	out, ok := generic.(*secp256k1Point)
	if !ok {
		panic(fmt.Sprintf("failed to convert to secp256k1Point: %v", generic))
	}
	return out
}

func (*secp256k1Point) Curve() Curve {
	return Secp256k1{}
}

func (p *secp256k1Point) MarshalBinary() ([]byte, error) {
	out := make([]byte, 33)
	if p.IsIdentity() {
		return out, nil
	}
	// This will modify p, but still return an equivalent value
	p.value.ToAffine()
	// Doing it this way is compatible with Bitcoin
	out[0] = byte(p.value.Y.IsOddBit()) + 2
	data := p.value.X.Bytes()
	copy(out[1:], data[:])
	return out, nil
}

func (p *secp256k1Point) UnmarshalBinary(data []byte) error {
	if len(data) != 33 {
		return fmt.Errorf("invalid length for secp256k1Point: %d", len(data))
	}
	if allZero(data) {
		p.value.X.SetInt(0)
		p.value.Y.SetInt(0)
		p.value.Z.SetInt(0)
		return nil
	}
	if data[0] != 2 && data[0] != 3 {
		return fmt.Errorf("invalid tag for secp256k1Point: %d", data[0])
	}
	p.value.Z.SetInt(1)
	if p.value.X.SetByteSlice(data[1:]) {
		return fmt.Errorf("secp256k1Point.UnmarshalBinary: x coordinate out of range")
	}
	if !secp256k1.DecompressY(&p.value.X, data[0] == 3, &p.value.Y) {
		return fmt.Errorf("secp256k1Point.UnmarshalBinary: x coordinate not on curve")
	}
	return nil
}

func (p *secp256k1Point) Add(that Point) Point {
	other := secp256k1CastPoint(that)
	out := new(secp256k1Point)
	secp256k1.AddNonConst(&p.value, &other.value, &out.value)
	return out
}

func (p *secp256k1Point) Sub(that Point) Point {
	return p.Add(that.Negate())
}

func (p *secp256k1Point) Negate() Point {
	out := new(secp256k1Point)
	out.value.Set(&p.value)
	out.value.Y.Negate(1)
	out.value.Y.Normalize()
	return out
}

func (p *secp256k1Point) Equal(that Point) bool {
	other := secp256k1CastPoint(that)
	p.value.ToAffine()
	other.value.ToAffine()
	return p.value.X.Equals(&other.value.X) && p.value.Y.Equals(&other.value.Y) && p.value.Z.Equals(&other.value.Z)
}

func (p *secp256k1Point) IsIdentity() bool {
	return (p.value.X.IsZero() && p.value.Y.IsZero()) || p.value.Z.IsZero()
}

func (p *secp256k1Point) XBytes() []byte {
	if p.IsIdentity() {
		panic("curve: x coordinate of identity point")
	}
	p.value.ToAffine()
	data := p.value.X.Bytes()
	return data[:]
}

func (p *secp256k1Point) YBytes() []byte {
	if p.IsIdentity() {
		panic("curve: y coordinate of identity point")
	}
	p.value.ToAffine()
	data := p.value.Y.Bytes()
	return data[:]
}
