package zkscalarmul

import (
	"crypto/rand"
	"io"

	"github.com/brave-experiments/boomerang/internal/params"
	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
)

const fsDomain = "fs-scalar-mul-proof"

// Iterations is the number of single-bit runs batched into an FSProof,
// bringing the soundness error down to 2^-Iterations.
const Iterations = params.SecParam

// FSProof is the Fiat-Shamir batched form: Iterations independent runs whose
// binary challenges are the bits of one transcript draw taken after every
// run's first move has been absorbed.
type FSProof struct {
	pair   curve.Pair
	Proofs []*Proof
}

func NewFSProof(pair curve.Pair, h *hash.Hash, public Public, private Private) (*FSProof, error) {
	_ = h.WriteAny([]byte(fsDomain))

	inters := make([]*Intermediate, Iterations)
	for i := range inters {
		inter, err := Commit(rand.Reader, pair, public, private)
		if err != nil {
			return nil, err
		}
		inter.Commitment.Absorb(h, public)
		inters[i] = inter
	}

	bits := fsChallengeBits(h)
	proofs := make([]*Proof, Iterations)
	for i, inter := range inters {
		e := pair.SingleBitChallenge(bits[i])
		proofs[i] = inter.FinalizeWithChallenge(pair, e, private)
	}
	return &FSProof{pair: pair, Proofs: proofs}, nil
}

func (p *FSProof) Verify(h *hash.Hash, public Public) bool {
	if p == nil || len(p.Proofs) != Iterations {
		return false
	}
	_ = h.WriteAny([]byte(fsDomain))
	for _, sub := range p.Proofs {
		if !sub.IsValid(public) {
			return false
		}
		sub.Commitment().Absorb(h, public)
	}

	bits := fsChallengeBits(h)
	for i, sub := range p.Proofs {
		if !sub.VerifyWithChallenge(public, p.pair.SingleBitChallenge(bits[i])) {
			return false
		}
	}
	return true
}

// fsChallengeBits expands one transcript draw into Iterations bits,
// least-significant bit of each byte first.
func fsChallengeBits(h *hash.Hash) []byte {
	buf := make([]byte, (Iterations+7)/8)
	if _, err := io.ReadFull(h.Digest(), buf); err != nil {
		panic(err)
	}
	bits := make([]byte, Iterations)
	for i := range bits {
		bits[i] = (buf[i/8] >> (i % 8)) & 1
	}
	return bits
}

func EmptyFS(pair curve.Pair) *FSProof {
	proofs := make([]*Proof, Iterations)
	for i := range proofs {
		proofs[i] = Empty(pair)
	}
	return &FSProof{pair: pair, Proofs: proofs}
}
