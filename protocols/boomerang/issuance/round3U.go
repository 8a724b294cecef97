package issuance

import (
	"github.com/brave-experiments/boomerang/internal/round"
	"github.com/brave-experiments/boomerang/pkg/acl"
	"github.com/brave-experiments/boomerang/protocols/boomerang/wallet"
)

// round3U is the third round from the user's perspective.
type round3U struct {
	*round2U
	sig     *acl.Signature
	opening acl.Opening
}

func (r *round3U) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*message2S)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	if body.Resp.C == nil || body.Resp.R == nil {
		return round.ErrNilFields
	}
	return nil
}

func (r *round3U) StoreMessage(msg round.Message) (err error) {
	body := msg.Content.(*message2S)
	r.sig, r.opening, err = r.chall.Sign(body.Resp)
	return
}

func (r *round3U) Finalize(chan<- *round.Message) (round.Session, error) {
	group := r.Group()
	rec := &wallet.Record{
		Sig:     r.sig,
		Opening: r.opening,
		Comm:    r.total,
		Token: wallet.Token{
			ID:       group.NewScalar().Set(r.ms[wallet.IDSlot]).Add(r.id1),
			Value:    group.NewScalar(),
			Rand:     group.NewScalar().Set(r.ms[wallet.RandSlot]),
			CommRand: group.NewScalar().Set(r.comm.R).Add(r.rand1),
		},
	}
	r.client.Append(rec)
	return r.ResultRound(rec), nil
}

func (r *round3U) MessageContent() round.Content {
	return &message2S{Resp: acl.EmptySigResp(r.Group())}
}

func (round3U) Number() round.Number { return 3 }
