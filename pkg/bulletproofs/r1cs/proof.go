package r1cs

import (
	"github.com/brave-experiments/boomerang/pkg/bulletproofs"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
)

// Proof attests that a constraint system is satisfiable for the committed
// inputs. The commitments and the system itself are not part of the proof;
// the verifier rebuilds the system against its own transcript.
type Proof struct {
	// AI1 commits to the first-phase multiplier input wires.
	AI1 curve.Point
	// AO1 commits to the first-phase multiplier output wires.
	AO1 curve.Point
	// S1 commits to the first-phase blinding vectors.
	S1 curve.Point
	// AI2, AO2 and S2 are the second-phase counterparts, identity when no
	// randomized constraints were specified.
	AI2 curve.Point
	AO2 curve.Point
	S2  curve.Point
	// T1, T3, T4, T5 and T6 commit to the coefficients of t(x). The x²
	// coefficient is fixed by the statement and needs no commitment.
	T1 curve.Point
	T3 curve.Point
	T4 curve.Point
	T5 curve.Point
	T6 curve.Point
	// TX is t(x) evaluated at the challenge point.
	TX curve.Scalar
	// TXBlinding opens the synthetic commitment to TX.
	TXBlinding curve.Scalar
	// EBlinding opens the synthetic commitment to the wire vectors.
	EBlinding curve.Scalar
	// IPP argues that TX is the inner product of the folded vectors.
	IPP *bulletproofs.InnerProductProof
}
