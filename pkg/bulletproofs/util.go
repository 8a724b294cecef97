package bulletproofs

import (
	"fmt"

	"github.com/brave-experiments/boomerang/internal/zero"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
)

func innerProduct(a, b []curve.Scalar) curve.Scalar {
	if len(a) != len(b) {
		panic(fmt.Sprintf("bulletproofs: inner product of lengths %d and %d", len(a), len(b)))
	}
	group := a[0].Curve()
	out := group.NewScalar()
	tmp := group.NewScalar()
	for i := range a {
		out.Add(tmp.Set(a[i]).Mul(b[i]))
	}
	return out
}

func addVec(a, b []curve.Scalar) []curve.Scalar {
	if len(a) != len(b) {
		panic(fmt.Sprintf("bulletproofs: adding vectors of lengths %d and %d", len(a), len(b)))
	}
	group := a[0].Curve()
	out := make([]curve.Scalar, len(a))
	for i := range a {
		out[i] = group.NewScalar().Set(a[i]).Add(b[i])
	}
	return out
}

// powers returns [1, x, x², ..., x^(n-1)].
func powers(x curve.Scalar, n int) []curve.Scalar {
	group := x.Curve()
	out := make([]curve.Scalar, n)
	acc := group.NewScalar().SetUInt64(1)
	for i := 0; i < n; i++ {
		out[i] = group.NewScalar().Set(acc)
		acc.Mul(x)
	}
	return out
}

// scalarExp raises x to the power n by binary exponentiation.
func scalarExp(x curve.Scalar, n uint64) curve.Scalar {
	group := x.Curve()
	result := group.NewScalar().SetUInt64(1)
	aux := group.NewScalar().Set(x)
	for n > 0 {
		if n&1 == 1 {
			result.Mul(aux)
		}
		n >>= 1
		aux.Mul(aux)
	}
	return result
}

// sumOfPowers returns 1 + x + x² + ... + x^(n-1).
func sumOfPowers(x curve.Scalar, n int) curve.Scalar {
	group := x.Curve()
	out := group.NewScalar()
	acc := group.NewScalar().SetUInt64(1)
	for i := 0; i < n; i++ {
		out.Add(acc)
		acc.Mul(x)
	}
	return out
}

// msm computes Σ scalars[i] * points[i] without mutating either input.
func msm(points []curve.Point, scalars []curve.Scalar) curve.Point {
	if len(points) != len(scalars) {
		panic(fmt.Sprintf("bulletproofs: msm over %d points and %d scalars", len(points), len(scalars)))
	}
	group := scalars[0].Curve()
	acc := group.NewPoint()
	tmp := group.NewScalar()
	for i := range points {
		acc = acc.Add(tmp.Set(scalars[i]).Act(points[i]))
	}
	return acc
}

// delta computes (z - z²)·<1, y^(n·m)> - Σ_{j=0}^{m-1} z^(j+3)·<1, 2^n>.
func delta(n, m int, y, z curve.Scalar) curve.Scalar {
	group := y.Curve()
	two := group.NewScalar().SetUInt64(2)

	sumY := sumOfPowers(y, n*m)
	sum2 := sumOfPowers(two, n)
	sumZ := sumOfPowers(z, m)

	zz := group.NewScalar().Set(z).Mul(z)
	left := group.NewScalar().Set(z).Sub(zz).Mul(sumY)
	right := group.NewScalar().Set(zz).Mul(z).Mul(sum2).Mul(sumZ)
	return left.Sub(right)
}

// vecPoly1 is the degree-1 vector polynomial A + B·x.
type vecPoly1 struct {
	A []curve.Scalar
	B []curve.Scalar
}

func newVecPoly1(group curve.Curve, n int) vecPoly1 {
	p := vecPoly1{A: make([]curve.Scalar, n), B: make([]curve.Scalar, n)}
	for i := 0; i < n; i++ {
		p.A[i] = group.NewScalar()
		p.B[i] = group.NewScalar()
	}
	return p
}

// InnerProduct multiplies two degree-1 vector polynomials with Karatsuba's
// trick, saving one of the four inner products.
func (p vecPoly1) InnerProduct(q vecPoly1) poly2 {
	t0 := innerProduct(p.A, q.A)
	t2 := innerProduct(p.B, q.B)

	l0l1 := addVec(p.A, p.B)
	r0r1 := addVec(q.A, q.B)

	t1 := innerProduct(l0l1, r0r1).Sub(t0).Sub(t2)
	return poly2{T0: t0, T1: t1, T2: t2}
}

func (p vecPoly1) Eval(x curve.Scalar) []curve.Scalar {
	group := x.Curve()
	out := make([]curve.Scalar, len(p.A))
	for i := range p.A {
		out[i] = group.NewScalar().Set(p.B[i]).Mul(x).Add(p.A[i])
	}
	return out
}

func (p vecPoly1) Zeroize() {
	zero.Vec(p.A)
	zero.Vec(p.B)
}

// poly2 is the degree-2 scalar polynomial T0 + T1·x + T2·x².
type poly2 struct {
	T0, T1, T2 curve.Scalar
}

func (p poly2) Eval(x curve.Scalar) curve.Scalar {
	group := x.Curve()
	out := group.NewScalar().Set(p.T2).Mul(x).Add(p.T1).Mul(x).Add(p.T0)
	return out
}

func (p poly2) Zeroize() {
	zero.Scalars(p.T0, p.T1, p.T2)
}

// vecPoly3 is the degree-3 vector polynomial A + B·x + C·x² + D·x³.
type vecPoly3 struct {
	A, B, C, D []curve.Scalar
}

func newVecPoly3(group curve.Curve, n int) vecPoly3 {
	p := vecPoly3{
		A: make([]curve.Scalar, n),
		B: make([]curve.Scalar, n),
		C: make([]curve.Scalar, n),
		D: make([]curve.Scalar, n),
	}
	for i := 0; i < n; i++ {
		p.A[i] = group.NewScalar()
		p.B[i] = group.NewScalar()
		p.C[i] = group.NewScalar()
		p.D[i] = group.NewScalar()
	}
	return p
}

// specialInnerProduct multiplies two degree-3 vector polynomials under the
// constraint system structure, where l.A and r.C are zero.
func specialInnerProduct(l, r vecPoly3) poly6 {
	t1 := innerProduct(l.B, r.A)
	t2 := innerProduct(l.B, r.B).Add(innerProduct(l.C, r.A))
	t3 := innerProduct(l.C, r.B).Add(innerProduct(l.D, r.A))
	t4 := innerProduct(l.B, r.D).Add(innerProduct(l.D, r.B))
	t5 := innerProduct(l.C, r.D)
	t6 := innerProduct(l.D, r.D)
	return poly6{T1: t1, T2: t2, T3: t3, T4: t4, T5: t5, T6: t6}
}

func (p vecPoly3) Eval(x curve.Scalar) []curve.Scalar {
	group := x.Curve()
	out := make([]curve.Scalar, len(p.A))
	for i := range p.A {
		out[i] = group.NewScalar().Set(p.D[i]).Mul(x).Add(p.C[i]).Mul(x).Add(p.B[i]).Mul(x).Add(p.A[i])
	}
	return out
}

func (p vecPoly3) Zeroize() {
	zero.Vec(p.A)
	zero.Vec(p.B)
	zero.Vec(p.C)
	zero.Vec(p.D)
}

// poly6 is a degree-6 scalar polynomial with no constant term.
type poly6 struct {
	T1, T2, T3, T4, T5, T6 curve.Scalar
}

func (p poly6) Eval(x curve.Scalar) curve.Scalar {
	group := x.Curve()
	out := group.NewScalar().Set(p.T6).
		Mul(x).Add(p.T5).
		Mul(x).Add(p.T4).
		Mul(x).Add(p.T3).
		Mul(x).Add(p.T2).
		Mul(x).Add(p.T1).
		Mul(x)
	return out
}

func (p poly6) Zeroize() {
	zero.Scalars(p.T1, p.T2, p.T3, p.T4, p.T5, p.T6)
}
