package spend

import (
	"github.com/brave-experiments/boomerang/internal/round"
	"github.com/brave-experiments/boomerang/pkg/acl"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
)

// message3S carries the signer's response.
type message3S struct {
	Resp acl.SigResp
}

func (message3S) RoundNumber() round.Number { return 3 }

// round3S is the third round from the server's perspective.
type round3S struct {
	*round2S
	signer *acl.SignerState
	total  curve.Point
	reward uint64

	e curve.Scalar
}

func (r *round3S) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*message2U)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	if body.E == nil {
		return round.ErrNilFields
	}
	return nil
}

func (r *round3S) StoreMessage(msg round.Message) error {
	body := msg.Content.(*message2U)
	r.e = body.E
	return nil
}

func (r *round3S) Finalize(out chan<- *round.Message) (round.Session, error) {
	resp := r.signer.Respond(r.server.Keys, r.e)
	if err := r.SendMessage(out, &message3S{Resp: resp}); err != nil {
		return r, err
	}
	return r.ResultRound(&Summary{
		Comm:   r.total,
		Spent:  r.spent,
		Reward: r.reward,
		Tag:    r.tag,
	}), nil
}

func (r *round3S) MessageContent() round.Content {
	return &message2U{E: r.Group().NewScalar()}
}

func (round3S) Number() round.Number { return 3 }
