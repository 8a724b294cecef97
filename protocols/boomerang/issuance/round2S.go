package issuance

import (
	"github.com/brave-experiments/boomerang/internal/round"
	"github.com/brave-experiments/boomerang/pkg/acl"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
)

// message2U carries the user's blinded challenge.
type message2U struct {
	E curve.Scalar
}

func (message2U) RoundNumber() round.Number { return 2 }

// message2S carries the signer's response.
type message2S struct {
	Resp acl.SigResp
}

func (message2S) RoundNumber() round.Number { return 3 }

// round2S is the second round from the server's perspective.
type round2S struct {
	*round1S
	signer *acl.SignerState
	total  curve.Point

	e curve.Scalar
}

func (r *round2S) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*message2U)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	if body.E == nil {
		return round.ErrNilFields
	}
	return nil
}

func (r *round2S) StoreMessage(msg round.Message) error {
	body := msg.Content.(*message2U)
	r.e = body.E
	return nil
}

func (r *round2S) Finalize(out chan<- *round.Message) (round.Session, error) {
	resp := r.signer.Respond(r.server.Keys, r.e)
	if err := r.SendMessage(out, &message2S{Resp: resp}); err != nil {
		return r, err
	}
	return r.ResultRound(&Summary{Comm: r.total}), nil
}

func (r *round2S) MessageContent() round.Content {
	return &message2U{E: r.Group().NewScalar()}
}

func (round2S) Number() round.Number { return 2 }
