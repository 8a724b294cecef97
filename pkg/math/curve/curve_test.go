package curve_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
)

func allGroups() []curve.Curve {
	return []curve.Curve{curve.T256(), curve.P256(), curve.Secp256k1{}}
}

func TestScalarArithmetic(t *testing.T) {
	for _, group := range allGroups() {
		t.Run(group.Name(), func(t *testing.T) {
			a := sample.Scalar(rand.Reader, group)
			b := sample.Scalar(rand.Reader, group)

			sum := group.NewScalar().Set(a).Add(b)
			back := group.NewScalar().Set(sum).Sub(b)
			assert.True(t, back.Equal(a), "a + b - b should equal a")

			prod := group.NewScalar().Set(a).Mul(b)
			quot := group.NewScalar().Set(prod).Mul(group.NewScalar().Set(b).Invert())
			assert.True(t, quot.Equal(a), "a * b / b should equal a")

			neg := group.NewScalar().Set(a).Negate()
			assert.True(t, group.NewScalar().Set(a).Add(neg).IsZero(), "a - a should be zero")
		})
	}
}

func TestScalarMarshalRoundTrip(t *testing.T) {
	for _, group := range allGroups() {
		t.Run(group.Name(), func(t *testing.T) {
			s := sample.Scalar(rand.Reader, group)
			data, err := s.MarshalBinary()
			require.NoError(t, err)
			require.Len(t, data, group.ScalarBytes())

			out := group.NewScalar()
			require.NoError(t, out.UnmarshalBinary(data))
			assert.True(t, out.Equal(s))
		})
	}
}

func TestScalarUnmarshalRejectsNonCanonical(t *testing.T) {
	for _, group := range allGroups() {
		t.Run(group.Name(), func(t *testing.T) {
			data := make([]byte, group.ScalarBytes())
			for i := range data {
				data[i] = 0xFF
			}
			err := group.NewScalar().UnmarshalBinary(data)
			assert.Error(t, err, "values above the group order should be rejected")
		})
	}
}

func TestPointMarshalRoundTrip(t *testing.T) {
	for _, group := range allGroups() {
		t.Run(group.Name(), func(t *testing.T) {
			_, p := sample.ScalarPointPair(rand.Reader, group)
			data, err := p.MarshalBinary()
			require.NoError(t, err)
			require.Len(t, data, group.PointBytes())

			out := group.NewPoint()
			require.NoError(t, out.UnmarshalBinary(data))
			assert.True(t, out.Equal(p))
		})
	}
}

func TestIdentityMarshal(t *testing.T) {
	for _, group := range allGroups() {
		t.Run(group.Name(), func(t *testing.T) {
			id := group.NewPoint()
			require.True(t, id.IsIdentity())
			data, err := id.MarshalBinary()
			require.NoError(t, err)
			for _, b := range data {
				require.Zero(t, b)
			}
			out := group.NewBasePoint()
			require.NoError(t, out.UnmarshalBinary(data))
			assert.True(t, out.IsIdentity())
		})
	}
}

func TestPointGroupLaws(t *testing.T) {
	for _, group := range allGroups() {
		t.Run(group.Name(), func(t *testing.T) {
			g := group.NewBasePoint()
			two := group.NewScalar().SetUInt64(2)

			doubled := g.Add(g)
			assert.True(t, two.Act(g).Equal(doubled), "2 * g should equal g + g")

			assert.True(t, g.Sub(g).IsIdentity(), "g - g should be the identity")
			assert.True(t, g.Add(group.NewPoint()).Equal(g), "g + 0 should equal g")
		})
	}
}

func TestActDistributes(t *testing.T) {
	for _, group := range allGroups() {
		t.Run(group.Name(), func(t *testing.T) {
			a := sample.Scalar(rand.Reader, group)
			b := sample.Scalar(rand.Reader, group)
			sum := group.NewScalar().Set(a).Add(b)
			lhs := sum.ActOnBase()
			rhs := a.ActOnBase().Add(b.ActOnBase())
			assert.True(t, lhs.Equal(rhs), "(a + b) * g should equal a * g + b * g")
		})
	}
}

func TestSecondBasePoint(t *testing.T) {
	for _, group := range allGroups() {
		t.Run(group.Name(), func(t *testing.T) {
			h := group.NewSecondBasePoint()
			require.False(t, h.IsIdentity())
			require.False(t, h.Equal(group.NewBasePoint()))

			// h must be a valid encoding of a curve point.
			data, err := h.MarshalBinary()
			require.NoError(t, err)
			out := group.NewPoint()
			require.NoError(t, out.UnmarshalBinary(data))
			assert.True(t, out.Equal(h))
		})
	}
}

func TestLiftXEvenY(t *testing.T) {
	for _, group := range allGroups() {
		t.Run(group.Name(), func(t *testing.T) {
			var p curve.Point
			var err error
			seed := []byte{1}
			for i := byte(0); i < 255; i++ {
				seed[0] = i
				p, err = group.LiftX(seed)
				if err == nil {
					break
				}
			}
			require.NoError(t, err)
			assert.Zero(t, p.YBytes()[len(p.YBytes())-1]&1, "lifted point should have even y")
		})
	}
}

func TestPairCoordinateConversionExact(t *testing.T) {
	pair := curve.T256P256()
	_, p := sample.ScalarPointPair(rand.Reader, pair.Tock)

	x := pair.FromOtherBase(p.XBytes())
	data, err := x.MarshalBinary()
	require.NoError(t, err)

	// The tick scalar field equals the tock base field, so the coordinate
	// must survive the conversion without reduction.
	be := make([]byte, len(data))
	for i := range data {
		be[len(data)-1-i] = data[i]
	}
	assert.Equal(t, p.XBytes(), be)
}

func TestPairSingleBitChallenge(t *testing.T) {
	for _, pair := range []curve.Pair{curve.T256P256(), curve.Secp256k1Self()} {
		t.Run(pair.Tick.Name(), func(t *testing.T) {
			plus := pair.SingleBitChallenge(1)
			minus := pair.SingleBitChallenge(0)
			one := pair.Tick.NewScalar().SetUInt64(1)

			assert.True(t, plus.Equal(one))
			assert.True(t, pair.Tick.NewScalar().Set(plus).Add(minus).IsZero())
		})
	}
}

func TestPairScalarRoundTrip(t *testing.T) {
	pair := curve.T256P256()
	s := sample.Scalar(rand.Reader, pair.Tock)
	converted := pair.FromOtherScalar(s)
	back := pair.ToOtherScalar(converted)
	assert.True(t, back.Equal(s))
}
