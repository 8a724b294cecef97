// Package pedersen implements Pedersen commitments over an abstract curve,
// with deterministically derived auxiliary generators for vector commitments.
package pedersen

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/sha3"

	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
)

// generatorDomain seeds the extendable output function deriving auxiliary
// generators. Changing it invalidates every existing commitment and proof.
const generatorDomain = "boomerang-pedersen-generators"

// maxLiftAttempts bounds the try-and-increment loop when mapping hash output
// to a curve point. Running out of attempts is a fatal initialization error.
const maxLiftAttempts = 255

var ErrGeneratorDerivation = errors.New("pedersen: failed to derive generator")

// Commitment is a prover side commitment: the public point C together with
// the randomness R that opened it. Only C is ever transmitted; R stays with
// whoever created the commitment.
type Commitment struct {
	C curve.Point
	R curve.Scalar
}

// New commits to value with fresh randomness: C = value*g + r*h.
func New(rand io.Reader, group curve.Curve, value curve.Scalar) Commitment {
	r := sample.Scalar(rand, group)
	return Commitment{C: commitWith(group, value, r), R: r}
}

// NewWith commits to value with caller supplied randomness.
func NewWith(group curve.Curve, value, r curve.Scalar) Commitment {
	return Commitment{C: commitWith(group, value, r), R: group.NewScalar().Set(r)}
}

// NewMulti commits to a vector of values over the derived generators:
// C = Σ values[i]*gens[i] + r*h.
//
// The generator slice must come from Generators with at least len(values)
// entries.
func NewMulti(rand io.Reader, group curve.Curve, values []curve.Scalar, gens []curve.Point) Commitment {
	r := sample.Scalar(rand, group)
	return NewMultiWith(group, values, r, gens)
}

// NewMultiWith is NewMulti with caller supplied randomness.
func NewMultiWith(group curve.Curve, values []curve.Scalar, r curve.Scalar, gens []curve.Point) Commitment {
	if len(values) > len(gens) {
		panic(fmt.Sprintf("pedersen: %d values for %d generators", len(values), len(gens)))
	}
	acc := group.NewScalar().Set(r).Act(group.NewSecondBasePoint())
	for i, v := range values {
		acc = acc.Add(group.NewScalar().Set(v).Act(gens[i]))
	}
	return Commitment{C: acc, R: group.NewScalar().Set(r)}
}

func commitWith(group curve.Curve, value, r curve.Scalar) curve.Point {
	vg := group.NewScalar().Set(value).ActOnBase()
	rh := group.NewScalar().Set(r).Act(group.NewSecondBasePoint())
	return vg.Add(rh)
}

// Add combines two commitments componentwise, on both the point and the
// randomness. This is the only algebraic identity proof composition relies on.
func (c Commitment) Add(other Commitment) Commitment {
	group := c.R.Curve()
	return Commitment{
		C: c.C.Add(other.C),
		R: group.NewScalar().Set(c.R).Add(other.R),
	}
}

// Sub subtracts other from c componentwise.
func (c Commitment) Sub(other Commitment) Commitment {
	group := c.R.Curve()
	return Commitment{
		C: c.C.Sub(other.C),
		R: group.NewScalar().Set(c.R).Sub(other.R),
	}
}

// Generators returns the first n vector commitment generators for the group.
//
// The first generator is the group's base point. Generator i is derived from
// a SHAKE-256 instance seeded with a fixed domain tag, the group name, and
// the index, with a 64 byte read mapped onto the curve with MapToPoint. The
// sponge cannot absorb once squeezed, so every index gets its own instance.
// The derivation is fixed for all time; prover and verifier must agree on it
// exactly.
func Generators(group curve.Curve, n int) []curve.Point {
	out := make([]curve.Point, n)
	if n == 0 {
		return out
	}
	out[0] = group.NewBasePoint()
	buf := make([]byte, 64)
	for i := 1; i < n; i++ {
		shake := sha3.NewShake256()
		_, _ = shake.Write([]byte(generatorDomain))
		_, _ = shake.Write([]byte(group.Name()))
		_, _ = shake.Write([]byte{byte(i)})
		if _, err := io.ReadFull(shake, buf); err != nil {
			panic(err)
		}
		p, err := MapToPoint(group, buf)
		if err != nil {
			panic(err)
		}
		out[i] = p
	}
	return out
}

// MapToPoint hashes arbitrary bytes onto the curve by try-and-increment:
// the candidate x coordinate is SHA3-256 over the input plus a counter byte,
// retried until it decodes to a point.
func MapToPoint(group curve.Curve, data []byte) (curve.Point, error) {
	for ctr := 0; ctr < maxLiftAttempts; ctr++ {
		digest := sha3.Sum256(append(data[:len(data):len(data)], byte(ctr)))
		p, err := group.LiftX(digest[:])
		if err == nil {
			return p, nil
		}
	}
	return nil, ErrGeneratorDerivation
}
