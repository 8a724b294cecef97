// Package r1cs proves satisfiability of rank-1 constraint systems with the
// inner-product argument.
//
// A prover and a verifier build the same constraint system against a shared
// transcript, one multiplication gate and linear constraint at a time.
// Gadgets may defer part of the system to a second phase, keyed on
// challenges derived from the first phase's commitments, which is what makes
// permutation and lookup style arguments cheap to express.
package r1cs

import (
	"github.com/brave-experiments/boomerang/pkg/math/curve"
)

type variableKind uint8

const (
	multiplierLeft variableKind = iota
	multiplierRight
	multiplierOutput
	committed
	constantOne
)

// Variable is a handle into the constraint system: one wire of a
// multiplication gate, a committed input, or the constant 1.
type Variable struct {
	kind  variableKind
	index int
}

// One returns the variable representing the constant 1.
func One() Variable {
	return Variable{kind: constantOne}
}

// Term is a variable scaled by a coefficient.
type Term struct {
	Variable Variable
	Coeff    curve.Scalar
}

// LinearCombination is a sum of terms. Constraining one asserts that the sum
// evaluates to zero.
type LinearCombination struct {
	group curve.Curve
	terms []Term
}

// NewLC returns the empty linear combination over the given group.
func NewLC(group curve.Curve) LinearCombination {
	return LinearCombination{group: group}
}

func (lc LinearCombination) extend(v Variable, coeff curve.Scalar) LinearCombination {
	terms := make([]Term, len(lc.terms), len(lc.terms)+1)
	copy(terms, lc.terms)
	terms = append(terms, Term{Variable: v, Coeff: coeff})
	return LinearCombination{group: lc.group, terms: terms}
}

// AddTerm returns lc + coeff·v.
func (lc LinearCombination) AddTerm(v Variable, coeff curve.Scalar) LinearCombination {
	return lc.extend(v, lc.group.NewScalar().Set(coeff))
}

// AddVariable returns lc + v.
func (lc LinearCombination) AddVariable(v Variable) LinearCombination {
	return lc.extend(v, lc.group.NewScalar().SetUInt64(1))
}

// AddConstant returns lc + c.
func (lc LinearCombination) AddConstant(c curve.Scalar) LinearCombination {
	return lc.extend(One(), lc.group.NewScalar().Set(c))
}

// Add returns lc + other.
func (lc LinearCombination) Add(other LinearCombination) LinearCombination {
	terms := make([]Term, 0, len(lc.terms)+len(other.terms))
	terms = append(terms, lc.terms...)
	for _, t := range other.terms {
		terms = append(terms, Term{Variable: t.Variable, Coeff: lc.group.NewScalar().Set(t.Coeff)})
	}
	return LinearCombination{group: lc.group, terms: terms}
}

// Sub returns lc - other.
func (lc LinearCombination) Sub(other LinearCombination) LinearCombination {
	terms := make([]Term, 0, len(lc.terms)+len(other.terms))
	terms = append(terms, lc.terms...)
	for _, t := range other.terms {
		terms = append(terms, Term{Variable: t.Variable, Coeff: lc.group.NewScalar().Set(t.Coeff).Negate()})
	}
	return LinearCombination{group: lc.group, terms: terms}
}

// Scale returns x·lc.
func (lc LinearCombination) Scale(x curve.Scalar) LinearCombination {
	terms := make([]Term, len(lc.terms))
	for i, t := range lc.terms {
		terms[i] = Term{Variable: t.Variable, Coeff: lc.group.NewScalar().Set(t.Coeff).Mul(x)}
	}
	return LinearCombination{group: lc.group, terms: terms}
}

// ConstraintSystem is the interface gadgets are written against, implemented
// by both Prover and Verifier so that a single gadget definition drives both
// sides of the protocol.
type ConstraintSystem interface {
	// Multiply adds a multiplication gate constraining left·right = out and
	// returns the three wires.
	Multiply(left, right LinearCombination) (Variable, Variable, Variable)

	// Allocate reserves one low-level wire. Consecutive calls share a
	// multiplication gate, first as its left wire and then as its right.
	// The prover requires an assignment; the verifier ignores it and
	// accepts nil.
	Allocate(assignment curve.Scalar) (Variable, error)

	// AllocateMultiplier reserves a whole gate with both input wires
	// assigned.
	AllocateMultiplier(left, right curve.Scalar) (Variable, Variable, Variable, error)

	// Constrain asserts lc = 0.
	Constrain(lc LinearCombination)

	// SpecifyRandomizedConstraints defers fn until after the first-phase
	// wires are committed, at which point fn may draw challenges bound to
	// those commitments.
	SpecifyRandomizedConstraints(fn RandomizationFn) error

	// Metrics reports the size of the system built so far.
	Metrics() Metrics
}

// RandomizedConstraintSystem is the view fn receives inside the second
// phase.
type RandomizedConstraintSystem interface {
	ConstraintSystem

	// ChallengeScalar draws a challenge bound to the first-phase
	// commitments.
	ChallengeScalar(label string) curve.Scalar
}

// RandomizationFn builds the second-phase portion of a constraint system.
type RandomizationFn func(RandomizedConstraintSystem) error

// Metrics counts the gates and constraints of a system.
type Metrics struct {
	// Multipliers is the number of multiplication gates.
	Multipliers int
	// Constraints is the total number of linear constraints.
	Constraints int
	// PhaseOneConstraints counts the constraints added directly.
	PhaseOneConstraints int
	// PhaseTwoConstraints counts the deferred randomized constraints.
	PhaseTwoConstraints int
}
