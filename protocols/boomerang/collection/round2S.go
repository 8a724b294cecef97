package collection

import (
	"crypto/rand"
	"errors"

	"github.com/brave-experiments/boomerang/internal/round"
	"github.com/brave-experiments/boomerang/pkg/acl"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
	"github.com/brave-experiments/boomerang/pkg/pedersen"
	zkopeningmulti "github.com/brave-experiments/boomerang/pkg/zk/openingmulti"
	zktag "github.com/brave-experiments/boomerang/pkg/zk/tag"
	"github.com/brave-experiments/boomerang/protocols/boomerang/wallet"
)

// message2S carries the server's value commitment and signing commitment.
type message2S struct {
	// ID1 is the server's serial number half for the new token.
	ID1 curve.Scalar
	// Value is the amount being added.
	Value curve.Scalar
	// Comm1 commits to (ID1, Value, 0, 0) with randomness Rand1.
	Comm1 curve.Point
	// Rand1 opens Comm1.
	Rand1 curve.Scalar
	// Commit is the signer's first move over the combined commitment.
	Commit acl.SigCommit
	// VK is the server's verifying key.
	VK curve.Point
}

func (message2S) RoundNumber() round.Number { return 2 }

// round2S is the second round from the server's perspective.
type round2S struct {
	*round1S

	commNew curve.Point
	tag     curve.Scalar
}

func (r *round2S) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*message1U)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	if body.CommPrev == nil || body.CommNew == nil || body.Tag == nil ||
		body.Sig == nil || body.Possession == nil || body.TagProof == nil || body.EqProof == nil {
		return round.ErrNilFields
	}
	group := r.Group()
	gens := r.server.Gens()
	keys := r.server.Keys

	if err := acl.Verify(keys.VerifyingKey, keys.TagKey, body.Sig, wallet.SigMessage); err != nil {
		return err
	}
	if err := body.Possession.Verify(group, keys.TagKey, gens, body.Sig); err != nil {
		return err
	}
	if !body.TagProof.Verify(r.Hash(), zktag.Public{
		C:     body.CommPrev,
		Tag:   body.Tag,
		Nonce: r.r2,
		Gens:  gens,
	}) {
		return errors.New("invalid tag proof")
	}
	if !body.EqProof.Verify(r.Hash(), zkopeningmulti.Public{
		C:    body.CommPrev.Sub(body.CommNew),
		Gens: []curve.Point{gens[wallet.IDSlot], gens[wallet.RandSlot]},
	}) {
		return errors.New("invalid rerandomization proof")
	}
	return nil
}

func (r *round2S) StoreMessage(msg round.Message) error {
	body := msg.Content.(*message1U)
	if err := r.server.Tags.Insert(body.Tag, r.r2); err != nil {
		r.server.Log().WithError(err).Warn("rejecting token")
		return err
	}
	r.commNew = body.CommNew
	r.tag = body.Tag
	return nil
}

func (r *round2S) Finalize(out chan<- *round.Message) (round.Session, error) {
	group := r.Group()
	gens := r.server.Gens()
	keys := r.server.Keys

	id1 := sample.Scalar(rand.Reader, group)
	value := group.NewScalar().SetUInt64(r.value)
	ms := []curve.Scalar{id1, value, group.NewScalar(), group.NewScalar()}
	c1 := pedersen.NewMulti(rand.Reader, group, ms, gens)

	total := r.commNew.Add(c1.C)
	signer := acl.Commit(rand.Reader, keys, total)

	if err := r.SendMessage(out, &message2S{
		ID1:    id1,
		Value:  value,
		Comm1:  c1.C,
		Rand1:  c1.R,
		Commit: signer.SigCommit,
		VK:     keys.VerifyingKey,
	}); err != nil {
		return r, err
	}
	return &round3S{round2S: r, signer: signer, total: total, added: value}, nil
}

func (r *round2S) MessageContent() round.Content {
	group := r.Group()
	return &message1U{
		CommPrev:   group.NewPoint(),
		CommNew:    group.NewPoint(),
		Tag:        group.NewScalar(),
		Sig:        acl.EmptySignature(group),
		Possession: acl.EmptyPossessionProof(group, wallet.AttributeCount),
		TagProof:   zktag.Empty(group, wallet.AttributeCount),
		EqProof:    zkopeningmulti.Empty(group, 2),
	}
}

func (round2S) Number() round.Number { return 2 }
