package r1cs

import (
	"fmt"

	"github.com/brave-experiments/boomerang/internal/zero"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
)

// The vector helpers here take the group explicitly so that the empty
// vectors a system without committed values or multipliers produces are
// handled uniformly.

func innerProduct(group curve.Curve, a, b []curve.Scalar) curve.Scalar {
	if len(a) != len(b) {
		panic(fmt.Sprintf("r1cs: inner product of lengths %d and %d", len(a), len(b)))
	}
	out := group.NewScalar()
	tmp := group.NewScalar()
	for i := range a {
		out.Add(tmp.Set(a[i]).Mul(b[i]))
	}
	return out
}

func msm(group curve.Curve, points []curve.Point, scalars []curve.Scalar) curve.Point {
	if len(points) != len(scalars) {
		panic(fmt.Sprintf("r1cs: msm over %d points and %d scalars", len(points), len(scalars)))
	}
	acc := group.NewPoint()
	tmp := group.NewScalar()
	for i := range points {
		acc = acc.Add(tmp.Set(scalars[i]).Act(points[i]))
	}
	return acc
}

// powers returns [1, x, x², ..., x^(n-1)].
func powers(group curve.Curve, x curve.Scalar, n int) []curve.Scalar {
	out := make([]curve.Scalar, n)
	acc := group.NewScalar().SetUInt64(1)
	for i := 0; i < n; i++ {
		out[i] = group.NewScalar().Set(acc)
		acc.Mul(x)
	}
	return out
}

func zeroVec(group curve.Curve, n int) []curve.Scalar {
	out := make([]curve.Scalar, n)
	for i := range out {
		out[i] = group.NewScalar()
	}
	return out
}

func nextPowerOfTwo(n int) int {
	k := 1
	for k < n {
		k <<= 1
	}
	return k
}

// vecPoly3 is the degree-3 vector polynomial A + B·x + C·x² + D·x³.
type vecPoly3 struct {
	A, B, C, D []curve.Scalar
}

func newVecPoly3(group curve.Curve, n int) vecPoly3 {
	p := vecPoly3{
		A: zeroVec(group, n),
		B: zeroVec(group, n),
		C: zeroVec(group, n),
		D: zeroVec(group, n),
	}
	return p
}

// specialInnerProduct multiplies two degree-3 vector polynomials under the
// constraint system structure, where l.A and r.C are zero.
func specialInnerProduct(group curve.Curve, l, r vecPoly3) poly6 {
	t1 := innerProduct(group, l.B, r.A)
	t2 := innerProduct(group, l.B, r.B).Add(innerProduct(group, l.C, r.A))
	t3 := innerProduct(group, l.C, r.B).Add(innerProduct(group, l.D, r.A))
	t4 := innerProduct(group, l.B, r.D).Add(innerProduct(group, l.D, r.B))
	t5 := innerProduct(group, l.C, r.D)
	t6 := innerProduct(group, l.D, r.D)
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
