package curve

import (
	"fmt"
	"math/big"

	"github.com/cronokirby/saferith"
)

// wConfig holds the parameters of a short Weierstrass curve y² = x³ + ax + b
// over a prime field, together with two fixed generators.
//
// The implementation works on affine coordinates with math/big, trading speed
// for the ability to instantiate curves with arbitrary parameters. Operations
// over this representation are not constant time.
type wConfig struct {
	name       string
	p          *big.Int
	a, b       *big.Int
	gx, gy     *big.Int
	hx, hy     *big.Int
	order      *saferith.Modulus
	field      *saferith.Modulus
	fieldBytes int
}

func newWConfig(name string, p, a, b, gx, gy, hx, hy, order string) *wConfig {
	c := &wConfig{
		name: name,
		p:    mustInt(p),
		a:    mustInt(a),
		b:    mustInt(b),
		gx:   mustInt(gx),
		gy:   mustInt(gy),
		hx:   mustInt(hx),
		hy:   mustInt(hy),
	}
	c.order = saferith.ModulusFromBytes(mustInt(order).Bytes())
	c.field = saferith.ModulusFromBytes(c.p.Bytes())
	c.fieldBytes = (c.p.BitLen() + 7) / 8
	return c
}

func mustInt(s string) *big.Int {
	out, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("curve: invalid integer constant")
	}
	return out
}

func (c *wConfig) NewPoint() Point {
	return &wPoint{c: c}
}

func (c *wConfig) NewBasePoint() Point {
	return &wPoint{c: c, x: new(big.Int).Set(c.gx), y: new(big.Int).Set(c.gy)}
}

func (c *wConfig) NewSecondBasePoint() Point {
	return &wPoint{c: c, x: new(big.Int).Set(c.hx), y: new(big.Int).Set(c.hy)}
}

func (c *wConfig) NewScalar() Scalar {
	return &wScalar{c: c}
}

func (c *wConfig) Name() string {
	return c.name
}

func (c *wConfig) ScalarBytes() int {
	return (c.order.BitLen() + 7) / 8
}

func (c *wConfig) PointBytes() int {
	return 1 + c.fieldBytes
}

func (c *wConfig) Order() *saferith.Modulus {
	return c.order
}

func (c *wConfig) Field() *saferith.Modulus {
	return c.field
}

func (c *wConfig) LiftX(data []byte) (Point, error) {
	x := new(big.Int).SetBytes(data)
	x.Mod(x, c.p)
	y, err := c.solveY(x)
	if err != nil {
		return nil, err
	}
	if y.Bit(0) == 1 {
		y.Sub(c.p, y)
	}
	return &wPoint{c: c, x: x, y: y}, nil
}

// solveY returns some y with y² = x³ + ax + b, or an error if x is not on the curve.
func (c *wConfig) solveY(x *big.Int) (*big.Int, error) {
	rhs := new(big.Int).Mul(x, x)
	rhs.Mod(rhs, c.p)
	rhs.Mul(rhs, x)
	rhs.Add(rhs, new(big.Int).Mul(c.a, x))
	rhs.Add(rhs, c.b)
	rhs.Mod(rhs, c.p)
	y := new(big.Int).ModSqrt(rhs, c.p)
	if y == nil {
		return nil, fmt.Errorf("curve %s: no point with given x coordinate", c.name)
	}
	return y, nil
}

type wScalar struct {
	c *wConfig
	n saferith.Nat
}

func wCastScalar(c *wConfig, generic Scalar) *wScalar {
	out, ok := generic.(*wScalar)
	if !ok || out.c != c {
		panic(fmt.Sprintf("failed to convert to %s scalar: %v", c.name, generic))
	}
	return out
}

func (s *wScalar) Curve() Curve {
	return s.c
}

// MarshalBinary returns the canonical little-endian encoding of s.
func (s *wScalar) MarshalBinary() ([]byte, error) {
	buf := make([]byte, s.c.ScalarBytes())
	s.n.FillBytes(buf)
	reverse(buf)
	return buf, nil
}

func (s *wScalar) UnmarshalBinary(data []byte) error {
	if len(data) != s.c.ScalarBytes() {
		return fmt.Errorf("invalid length for %s scalar: %d", s.c.name, len(data))
	}
	be := make([]byte, len(data))
	copy(be, data)
	reverse(be)
	v := new(saferith.Nat).SetBytes(be)
	reduced := new(saferith.Nat).Mod(v, s.c.order)
	if reduced.Eq(v) != 1 {
		return fmt.Errorf("non canonical %s scalar", s.c.name)
	}
	s.n.SetNat(v)
	return nil
}

func (s *wScalar) Add(that Scalar) Scalar {
	other := wCastScalar(s.c, that)
	s.n.ModAdd(&s.n, &other.n, s.c.order)
	return s
}

func (s *wScalar) Sub(that Scalar) Scalar {
	other := wCastScalar(s.c, that)
	s.n.ModSub(&s.n, &other.n, s.c.order)
	return s
}

func (s *wScalar) Negate() Scalar {
	s.n.ModNeg(&s.n, s.c.order)
	return s
}

func (s *wScalar) Mul(that Scalar) Scalar {
	other := wCastScalar(s.c, that)
	s.n.ModMul(&s.n, &other.n, s.c.order)
	return s
}

func (s *wScalar) Invert() Scalar {
	s.n.ModInverse(&s.n, s.c.order)
	return s
}

func (s *wScalar) Equal(that Scalar) bool {
	other := wCastScalar(s.c, that)
	return s.n.Eq(&other.n) == 1
}

func (s *wScalar) IsZero() bool {
	return s.n.EqZero() == 1
}

func (s *wScalar) Set(that Scalar) Scalar {
	other := wCastScalar(s.c, that)
	s.n.SetNat(&other.n)
	return s
}

func (s *wScalar) SetNat(x *saferith.Nat) Scalar {
	s.n.Mod(x, s.c.order)
	return s
}

func (s *wScalar) SetUInt64(x uint64) Scalar {
	s.n.SetUint64(x)
	s.n.Mod(&s.n, s.c.order)
	return s
}

func (s *wScalar) Act(that Point) Point {
	p := wCastPoint(s.c, that)
	buf := make([]byte, s.c.ScalarBytes())
	s.n.FillBytes(buf)
	acc := &wPoint{c: s.c}
	for _, by := range buf {
		for bit := 7; bit >= 0; bit-- {
			acc = acc.double()
			if by>>uint(bit)&1 == 1 {
				acc = acc.add(p)
			}
		}
	}
	return acc
}

func (s *wScalar) ActOnBase() Point {
	return s.Act(s.c.NewBasePoint())
}

// wPoint is an affine point. A nil x signals the identity.
type wPoint struct {
	c    *wConfig
	x, y *big.Int
}

func wCastPoint(c *wConfig, generic Point) *wPoint {
	out, ok := generic.(*wPoint)
	if !ok || out.c != c {
		panic(fmt.Sprintf("failed to convert to %s point: %v", c.name, generic))
	}
	return out
}

func (p *wPoint) Curve() Curve {
	return p.c
}

// MarshalBinary returns the compressed encoding: a parity tag followed by the
// big-endian x coordinate. The identity encodes as all zero bytes.
func (p *wPoint) MarshalBinary() ([]byte, error) {
	out := make([]byte, p.c.PointBytes())
	if p.x == nil {
		return out, nil
	}
	out[0] = 2 + byte(p.y.Bit(0))
	p.x.FillBytes(out[1:])
	return out, nil
}

func (p *wPoint) UnmarshalBinary(data []byte) error {
	if len(data) != p.c.PointBytes() {
		return fmt.Errorf("invalid length for %s point: %d", p.c.name, len(data))
	}
	if allZero(data) {
		p.x, p.y = nil, nil
		return nil
	}
	if data[0] != 2 && data[0] != 3 {
		return fmt.Errorf("invalid tag for %s point: %d", p.c.name, data[0])
	}
	x := new(big.Int).SetBytes(data[1:])
	if x.Cmp(p.c.p) >= 0 {
		return fmt.Errorf("%s point: x coordinate out of range", p.c.name)
	}
	y, err := p.c.solveY(x)
	if err != nil {
		return err
	}
	if y.Bit(0) != uint(data[0]&1) {
		y.Sub(p.c.p, y)
	}
	p.x, p.y = x, y
	return nil
}

func (p *wPoint) add(q *wPoint) *wPoint {
	if p.x == nil {
		return q.clone()
	}
	if q.x == nil {
		return p.clone()
	}
	c := p.c
	if p.x.Cmp(q.x) == 0 {
		if p.y.Cmp(q.y) != 0 {
			return &wPoint{c: c}
		}
		return p.double()
	}
	num := new(big.Int).Sub(q.y, p.y)
	den := new(big.Int).Sub(q.x, p.x)
	den.Mod(den, c.p)
	den.ModInverse(den, c.p)
	lambda := num.Mul(num, den)
	lambda.Mod(lambda, c.p)
	return p.chord(q, lambda)
}

func (p *wPoint) double() *wPoint {
	if p.x == nil || p.y.Sign() == 0 {
		return &wPoint{c: p.c}
	}
	c := p.c
	num := new(big.Int).Mul(p.x, p.x)
	num.Mul(num, big.NewInt(3))
	num.Add(num, c.a)
	num.Mod(num, c.p)
	den := new(big.Int).Lsh(p.y, 1)
	den.Mod(den, c.p)
	den.ModInverse(den, c.p)
	lambda := num.Mul(num, den)
	lambda.Mod(lambda, c.p)
	return p.chord(p, lambda)
}

// chord completes an addition p + q given the slope of the line through them.
func (p *wPoint) chord(q *wPoint, lambda *big.Int) *wPoint {
	c := p.c
	x3 := new(big.Int).Mul(lambda, lambda)
	x3.Sub(x3, p.x)
	x3.Sub(x3, q.x)
	x3.Mod(x3, c.p)
	y3 := new(big.Int).Sub(p.x, x3)
	y3.Mul(y3, lambda)
	y3.Sub(y3, p.y)
	y3.Mod(y3, c.p)
	return &wPoint{c: c, x: x3, y: y3}
}

func (p *wPoint) clone() *wPoint {
	if p.x == nil {
		return &wPoint{c: p.c}
	}
	return &wPoint{c: p.c, x: new(big.Int).Set(p.x), y: new(big.Int).Set(p.y)}
}

func (p *wPoint) Add(that Point) Point {
	other := wCastPoint(p.c, that)
	return p.add(other)
}

func (p *wPoint) Sub(that Point) Point {
	other := wCastPoint(p.c, that)
	return p.add(other.negate())
}

func (p *wPoint) negate() *wPoint {
	if p.x == nil {
		return &wPoint{c: p.c}
	}
	return &wPoint{c: p.c, x: new(big.Int).Set(p.x), y: new(big.Int).Sub(p.c.p, p.y)}
}

func (p *wPoint) Negate() Point {
	return p.negate()
}

func (p *wPoint) Equal(that Point) bool {
	other := wCastPoint(p.c, that)
	if p.x == nil || other.x == nil {
		return p.x == nil && other.x == nil
	}
	return p.x.Cmp(other.x) == 0 && p.y.Cmp(other.y) == 0
}

func (p *wPoint) IsIdentity() bool {
	return p.x == nil
}

func (p *wPoint) XBytes() []byte {
	if p.x == nil {
		panic("curve: x coordinate of identity point")
	}
	out := make([]byte, p.c.fieldBytes)
	p.x.FillBytes(out)
	return out
}

func (p *wPoint) YBytes() []byte {
	if p.y == nil {
		panic("curve: y coordinate of identity point")
	}
	out := make([]byte, p.c.fieldBytes)
	p.y.FillBytes(out)
	return out
}

func reverse(buf []byte) {
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
}

func allZero(buf []byte) bool {
	acc := byte(0)
	for _, b := range buf {
		acc |= b
	}
	return acc == 0
}
