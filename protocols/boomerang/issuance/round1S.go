package issuance

import (
	"crypto/rand"
	"errors"

	"github.com/brave-experiments/boomerang/internal/round"
	"github.com/brave-experiments/boomerang/pkg/acl"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
	"github.com/brave-experiments/boomerang/pkg/pedersen"
	zkissuance "github.com/brave-experiments/boomerang/pkg/zk/issuance"
	"github.com/brave-experiments/boomerang/protocols/boomerang/wallet"
)

// round1S is the first round from the server's perspective.
type round1S struct {
	*round.Helper
	server *wallet.Server

	comm curve.Point
}

func (r *round1S) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*message1U)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	if body.Comm == nil || body.Proof == nil || body.PK == nil {
		return round.ErrNilFields
	}
	if body.PK.IsIdentity() {
		return errors.New("user public key is the identity")
	}
	if !body.Proof.Verify(r.Hash(), zkissuance.Public{
		C:    body.Comm,
		PK:   body.PK,
		Gens: r.server.Gens(),
	}) {
		return errors.New("invalid registration proof")
	}
	return nil
}

func (r *round1S) StoreMessage(msg round.Message) error {
	body := msg.Content.(*message1U)
	r.comm = body.Comm
	return nil
}

func (r *round1S) Finalize(out chan<- *round.Message) (round.Session, error) {
	group := r.Group()
	gens := r.server.Gens()
	keys := r.server.Keys

	id1 := sample.Scalar(rand.Reader, group)
	ms := []curve.Scalar{id1, group.NewScalar(), group.NewScalar(), group.NewScalar()}
	c1 := pedersen.NewMulti(rand.Reader, group, ms, gens)

	total := r.comm.Add(c1.C)
	signer := acl.Commit(rand.Reader, keys, total)

	if err := r.SendMessage(out, &message1S{
		ID1:    id1,
		Comm1:  c1.C,
		Rand1:  c1.R,
		Commit: signer.SigCommit,
		VK:     keys.VerifyingKey,
	}); err != nil {
		return r, err
	}
	return &round2S{round1S: r, signer: signer, total: total}, nil
}

func (r *round1S) MessageContent() round.Content {
	group := r.Group()
	return &message1U{
		Comm:  group.NewPoint(),
		Proof: zkissuance.Empty(group, wallet.AttributeCount),
		PK:    group.NewPoint(),
	}
}

func (round1S) Number() round.Number { return 1 }
