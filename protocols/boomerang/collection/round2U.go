package collection

import (
	"crypto/rand"
	"errors"

	"github.com/brave-experiments/boomerang/internal/round"
	"github.com/brave-experiments/boomerang/pkg/acl"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/pedersen"
	"github.com/brave-experiments/boomerang/protocols/boomerang/wallet"
)

// message2U carries the user's blinded challenge.
type message2U struct {
	E curve.Scalar
}

func (message2U) RoundNumber() round.Number { return 3 }

// round2U is the second round from the user's perspective.
type round2U struct {
	*round1U

	id1   curve.Scalar
	value curve.Scalar
	rand1 curve.Scalar
	total curve.Point
	chall *acl.SigChall
}

func (r *round2U) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*message2S)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	if body.ID1 == nil || body.Value == nil || body.Comm1 == nil || body.Rand1 == nil || body.VK == nil {
		return round.ErrNilFields
	}
	group := r.Group()
	gens := r.client.Gens()
	ms := []curve.Scalar{body.ID1, body.Value, group.NewScalar(), group.NewScalar()}
	if !pedersen.NewMultiWith(group, ms, body.Rand1, gens).C.Equal(body.Comm1) {
		return errors.New("value commitment does not open")
	}
	return nil
}

func (r *round2U) StoreMessage(msg round.Message) error {
	body := msg.Content.(*message2S)
	group := r.Group()

	tk, err := acl.TagKey(group)
	if err != nil {
		return err
	}
	r.total = r.comNew.C.Add(body.Comm1)
	r.chall, err = acl.NewChallenge(rand.Reader, group, body.VK, tk, body.Commit, r.total, wallet.SigMessage)
	if err != nil {
		return err
	}
	r.id1 = body.ID1
	r.value = body.Value
	r.rand1 = body.Rand1
	return nil
}

func (r *round2U) Finalize(out chan<- *round.Message) (round.Session, error) {
	if err := r.SendMessage(out, &message2U{E: r.chall.E}); err != nil {
		return r, err
	}
	return &round3U{round2U: r}, nil
}

func (r *round2U) MessageContent() round.Content {
	group := r.Group()
	return &message2S{
		ID1:    group.NewScalar(),
		Value:  group.NewScalar(),
		Comm1:  group.NewPoint(),
		Rand1:  group.NewScalar(),
		Commit: acl.EmptySigCommit(group),
		VK:     group.NewPoint(),
	}
}

func (round2U) Number() round.Number { return 2 }
