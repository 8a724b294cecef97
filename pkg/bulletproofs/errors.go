package bulletproofs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBitsize is returned when the requested range width is
	// not one of 8, 16, 32 or 64.
	ErrInvalidBitsize = errors.New("bulletproofs: bitsize must be 8, 16, 32 or 64")
	// ErrInvalidAggregation is returned when the number of aggregated
	// parties is not a power of two.
	ErrInvalidAggregation = errors.New("bulletproofs: aggregation size must be a power of two")
	// ErrInvalidGeneratorsLength is returned when the generator chains
	// are too short for the requested proof size.
	ErrInvalidGeneratorsLength = errors.New("bulletproofs: insufficient generator capacity")
	// ErrInvalidInputLength is returned when input vectors disagree on
	// length, or the length is not a power of two.
	ErrInvalidInputLength = errors.New("bulletproofs: invalid input length")
	// ErrMissingAssignment is returned by constraint system provers when
	// a variable has no assigned witness value.
	ErrMissingAssignment = errors.New("bulletproofs: variable is missing an assignment")
	// ErrVerificationFailed is returned when a proof fails to verify.
	ErrVerificationFailed = errors.New("bulletproofs: proof verification failed")
	// ErrMaliciousDealer is returned by a party handed a zero challenge,
	// which would annihilate its blinding factors.
	ErrMaliciousDealer = errors.New("bulletproofs: dealer issued a zero challenge")
)

// ErrMalformedProofShares is returned by the dealer when aggregation fails.
// BadShares lists the positions of the parties whose shares did not pass the
// audit, so that blame can be assigned.
type ErrMalformedProofShares struct {
	BadShares []int
}

func (e ErrMalformedProofShares) Error() string {
	return fmt.Sprintf("bulletproofs: malformed proof shares from parties %v", e.BadShares)
}
