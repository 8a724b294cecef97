package pedersen_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
	"github.com/brave-experiments/boomerang/pkg/pedersen"
)

func testGroups() []curve.Curve {
	return []curve.Curve{curve.T256(), curve.Secp256k1{}}
}

func TestCommitDeterministic(t *testing.T) {
	for _, group := range testGroups() {
		t.Run(group.Name(), func(t *testing.T) {
			m := sample.Scalar(rand.Reader, group)
			r := sample.Scalar(rand.Reader, group)
			c1 := pedersen.NewWith(group, m, r)
			c2 := pedersen.NewWith(group, m, r)
			assert.True(t, c1.C.Equal(c2.C))

			other := pedersen.NewWith(group, m, sample.Scalar(rand.Reader, group))
			assert.False(t, c1.C.Equal(other.C), "fresh randomness should move the point")
		})
	}
}

func TestCommitHomomorphic(t *testing.T) {
	for _, group := range testGroups() {
		t.Run(group.Name(), func(t *testing.T) {
			a := sample.Scalar(rand.Reader, group)
			b := sample.Scalar(rand.Reader, group)
			ca := pedersen.New(rand.Reader, group, a)
			cb := pedersen.New(rand.Reader, group, b)

			sum := ca.Add(cb)
			ab := group.NewScalar().Set(a).Add(b)
			expected := pedersen.NewWith(group, ab, sum.R)
			assert.True(t, sum.C.Equal(expected.C), "commit(a) + commit(b) should open to a+b")

			diff := ca.Sub(cb)
			amb := group.NewScalar().Set(a).Sub(b)
			expected = pedersen.NewWith(group, amb, diff.R)
			assert.True(t, diff.C.Equal(expected.C), "commit(a) - commit(b) should open to a-b")
		})
	}
}

func TestMultiCommitOpens(t *testing.T) {
	for _, group := range testGroups() {
		t.Run(group.Name(), func(t *testing.T) {
			gens := pedersen.Generators(group, 4)
			values := make([]curve.Scalar, 4)
			for i := range values {
				values[i] = sample.Scalar(rand.Reader, group)
			}
			com := pedersen.NewMulti(rand.Reader, group, values, gens)

			// Recompute by hand.
			expected := group.NewScalar().Set(com.R).Act(group.NewSecondBasePoint())
			for i, v := range values {
				expected = expected.Add(group.NewScalar().Set(v).Act(gens[i]))
			}
			assert.True(t, com.C.Equal(expected))
		})
	}
}

func TestGeneratorsDeterministic(t *testing.T) {
	for _, group := range testGroups() {
		t.Run(group.Name(), func(t *testing.T) {
			a := pedersen.Generators(group, 8)
			b := pedersen.Generators(group, 8)
			require.Len(t, a, 8)
			for i := range a {
				assert.True(t, a[i].Equal(b[i]), "generator %d should be stable", i)
			}
			assert.True(t, a[0].Equal(group.NewBasePoint()))
			for i := 1; i < len(a); i++ {
				for j := 0; j < i; j++ {
					assert.False(t, a[i].Equal(a[j]), "generators %d and %d collide", i, j)
				}
			}
		})
	}
}

func TestMapToPoint(t *testing.T) {
	for _, group := range testGroups() {
		t.Run(group.Name(), func(t *testing.T) {
			p, err := pedersen.MapToPoint(group, []byte("boomerang test input"))
			require.NoError(t, err)
			require.False(t, p.IsIdentity())

			q, err := pedersen.MapToPoint(group, []byte("boomerang test input"))
			require.NoError(t, err)
			assert.True(t, p.Equal(q))
		})
	}
}
