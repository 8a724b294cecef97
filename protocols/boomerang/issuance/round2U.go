package issuance

import (
	"crypto/rand"
	"errors"

	"github.com/brave-experiments/boomerang/internal/round"
	"github.com/brave-experiments/boomerang/pkg/acl"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/pedersen"
	"github.com/brave-experiments/boomerang/protocols/boomerang/wallet"
)

// message1S carries the server's serial half and its signing commitment.
type message1S struct {
	// ID1 is the server's serial number half.
	ID1 curve.Scalar
	// Comm1 commits to (ID1, 0, 0, 0) with randomness Rand1.
	Comm1 curve.Point
	// Rand1 opens Comm1.
	Rand1 curve.Scalar
	// Commit is the signer's first move over the combined commitment.
	Commit acl.SigCommit
	// VK is the server's verifying key.
	VK curve.Point
}

func (message1S) RoundNumber() round.Number { return 2 }

// round2U is the second round from the user's perspective.
type round2U struct {
	*round1U
	ms   []curve.Scalar
	comm pedersen.Commitment

	id1   curve.Scalar
	rand1 curve.Scalar
	total curve.Point
	chall *acl.SigChall
}

func (r *round2U) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*message1S)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	if body.ID1 == nil || body.Comm1 == nil || body.Rand1 == nil || body.VK == nil {
		return round.ErrNilFields
	}
	group := r.Group()
	gens := r.client.Gens()
	ms := []curve.Scalar{body.ID1, group.NewScalar(), group.NewScalar(), group.NewScalar()}
	if !pedersen.NewMultiWith(group, ms, body.Rand1, gens).C.Equal(body.Comm1) {
		return errors.New("serial half commitment does not open")
	}
	return nil
}

func (r *round2U) StoreMessage(msg round.Message) error {
	body := msg.Content.(*message1S)
	group := r.Group()

	tk, err := acl.TagKey(group)
	if err != nil {
		return err
	}
	r.total = r.comm.C.Add(body.Comm1)
	r.chall, err = acl.NewChallenge(rand.Reader, group, body.VK, tk, body.Commit, r.total, wallet.SigMessage)
	if err != nil {
		return err
	}
	r.id1 = body.ID1
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
	return &message1S{
		ID1:    group.NewScalar(),
		Comm1:  group.NewPoint(),
		Rand1:  group.NewScalar(),
		Commit: acl.EmptySigCommit(group),
		VK:     group.NewPoint(),
	}
}

func (round2U) Number() round.Number { return 2 }
