package issuance

import (
	"crypto/rand"

	"github.com/brave-experiments/boomerang/internal/round"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
	"github.com/brave-experiments/boomerang/pkg/pedersen"
	zkissuance "github.com/brave-experiments/boomerang/pkg/zk/issuance"
	"github.com/brave-experiments/boomerang/protocols/boomerang/wallet"
)

// message1U carries the user's registered commitment.
type message1U struct {
	// Comm commits to (id half, 0, sk, rand).
	Comm curve.Point
	// Proof shows Comm is well formed over PK.
	Proof *zkissuance.Proof
	// PK is the user's public key.
	PK curve.Point
}

func (message1U) RoundNumber() round.Number { return 1 }

// round1U is the first round from the user's perspective.
type round1U struct {
	*round.Helper
	client *wallet.Client
}

// VerifyMessage implements round.Round.
func (r *round1U) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Round.
func (r *round1U) StoreMessage(round.Message) error { return nil }

func (r *round1U) Finalize(out chan<- *round.Message) (round.Session, error) {
	group := r.Group()
	gens := r.client.Gens()

	id0 := sample.Scalar(rand.Reader, group)
	r1 := sample.Scalar(rand.Reader, group)
	ms := []curve.Scalar{id0, group.NewScalar(), r.client.Keys.SecretKey(), r1}
	com := pedersen.NewMulti(rand.Reader, group, ms, gens)

	proof := zkissuance.NewProof(group, r.Hash(), zkissuance.Public{
		C:    com.C,
		PK:   r.client.Keys.PublicKey,
		Gens: gens,
	}, zkissuance.Private{Ms: ms, R: com.R})

	if err := r.SendMessage(out, &message1U{Comm: com.C, Proof: proof, PK: r.client.Keys.PublicKey}); err != nil {
		return r, err
	}
	return &round2U{round1U: r, ms: ms, comm: com}, nil
}

// MessageContent implements round.Round.
func (round1U) MessageContent() round.Content { return nil }

// Number implements round.Round.
func (round1U) Number() round.Number { return 1 }
