package params

const (
	// SecParam is the computational security parameter σ.
	SecParam = 128
	SecBytes = SecParam / 8

	// ScalarBytes is the canonical width of a serialized scalar on
	// either curve of a pair.
	ScalarBytes = 32

	// ChallengeBytes is the width of a Fiat-Shamir challenge buffer.
	// Challenge scalars are always derived from this many transcript
	// bytes so that nested proofs can share a single buffer.
	ChallengeBytes = 64

	// PointAddChallengeBytes is the width of the combined challenge
	// drawn for a point-addition proof. It is sliced into four
	// sub-challenges of ChallengeBytes each, one per sub-proof.
	PointAddChallengeBytes = 4 * ChallengeBytes

	// StatParam is the number of repetitions used to amplify the
	// ½-soundness of a single bit-challenge scalar-mult run.
	StatParam = SecParam

	// MaxRangeBits is the widest supported range-proof window, and the
	// width of a single spend component.
	MaxRangeBits = 64
)
