package collection

import (
	"crypto/rand"

	"github.com/brave-experiments/boomerang/internal/round"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
	"github.com/brave-experiments/boomerang/protocols/boomerang/wallet"
)

// message1S opens the session with the server's tag nonce.
type message1S struct {
	R2 curve.Scalar
}

func (message1S) RoundNumber() round.Number { return 1 }

// round1S is the first round from the server's perspective.
type round1S struct {
	*round.Helper
	server *wallet.Server
	value  uint64

	r2 curve.Scalar
}

// VerifyMessage implements round.Round.
func (r *round1S) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Round.
func (r *round1S) StoreMessage(round.Message) error { return nil }

func (r *round1S) Finalize(out chan<- *round.Message) (round.Session, error) {
	r.r2 = sample.ScalarUnit(rand.Reader, r.Group())
	if err := r.SendMessage(out, &message1S{R2: r.r2}); err != nil {
		return r, err
	}
	return &round2S{round1S: r}, nil
}

// MessageContent implements round.Round.
func (round1S) MessageContent() round.Content { return nil }

// Number implements round.Round.
func (round1S) Number() round.Number { return 1 }
