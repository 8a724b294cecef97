package collection

import (
	"crypto/rand"

	"github.com/brave-experiments/boomerang/internal/round"
	"github.com/brave-experiments/boomerang/pkg/acl"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
	"github.com/brave-experiments/boomerang/pkg/pedersen"
	zkopeningmulti "github.com/brave-experiments/boomerang/pkg/zk/openingmulti"
	zktag "github.com/brave-experiments/boomerang/pkg/zk/tag"
	"github.com/brave-experiments/boomerang/protocols/boomerang/wallet"
)

// message1U presents the previous token and the rerandomized commitment.
type message1U struct {
	// CommPrev is the previously signed commitment.
	CommPrev curve.Point
	// CommNew carries the same balance and key under fresh randomness.
	CommNew curve.Point
	// Tag is the double-spend tag id⋅r₂ + sk.
	Tag curve.Scalar
	// Sig is the signature over CommPrev.
	Sig *acl.Signature
	// Possession shows knowledge of the signature blinding and opening.
	Possession *acl.PossessionProof
	// TagProof opens CommPrev and ties Tag to its serial and key slots.
	TagProof *zktag.Proof
	// EqProof opens CommPrev − CommNew over the serial and randomness
	// generators, fixing the balance and key slots.
	EqProof *zkopeningmulti.Proof
	// Membership is reserved for a proof about previously spent tags.
	// It is ignored for now.
	Membership []byte
}

func (message1U) RoundNumber() round.Number { return 2 }

// round1U is the first round from the user's perspective.
type round1U struct {
	*round.Helper
	client *wallet.Client
	rec    *wallet.Record

	r2     curve.Scalar
	msNew  []curve.Scalar
	comNew pedersen.Commitment
}

func (r *round1U) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*message1S)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	if body.R2 == nil || body.R2.IsZero() {
		return round.ErrNilFields
	}
	return nil
}

func (r *round1U) StoreMessage(msg round.Message) error {
	body := msg.Content.(*message1S)
	r.r2 = body.R2
	return nil
}

func (r *round1U) Finalize(out chan<- *round.Message) (round.Session, error) {
	group := r.Group()
	gens := r.client.Gens()
	sk := r.client.Keys.SecretKey()
	r2 := r.r2

	tag := group.NewScalar().Set(r2).Mul(r.rec.Token.ID).Add(sk)

	id0 := sample.Scalar(rand.Reader, group)
	r1 := sample.Scalar(rand.Reader, group)
	r.msNew = []curve.Scalar{id0, group.NewScalar().Set(r.rec.Token.Value), sk, r1}
	r.comNew = pedersen.NewMulti(rand.Reader, group, r.msNew, gens)

	msPrev := r.rec.Token.Attributes(sk)
	tagProof := zktag.NewProof(group, r.Hash(), zktag.Public{
		C:     r.rec.Comm,
		Tag:   tag,
		Nonce: r2,
		Gens:  gens,
	}, zktag.Private{Ms: msPrev, R: r.rec.Token.CommRand})

	eqGens := []curve.Point{gens[wallet.IDSlot], gens[wallet.RandSlot]}
	eqProof := zkopeningmulti.NewProof(group, r.Hash(), zkopeningmulti.Public{
		C:    r.rec.Comm.Sub(r.comNew.C),
		Gens: eqGens,
	}, zkopeningmulti.Private{
		Ms: []curve.Scalar{
			group.NewScalar().Set(r.rec.Token.ID).Sub(id0),
			group.NewScalar().Set(r.rec.Token.Rand).Sub(r1),
		},
		R: group.NewScalar().Set(r.rec.Token.CommRand).Sub(r.comNew.R),
	})

	tk, err := acl.TagKey(group)
	if err != nil {
		return r, err
	}
	possession, err := acl.ProvePossession(
		rand.Reader, group, tk, gens, r.rec.Sig, r.rec.Opening, msPrev, r.rec.Token.CommRand)
	if err != nil {
		return r, err
	}

	if err := r.SendMessage(out, &message1U{
		CommPrev:   r.rec.Comm,
		CommNew:    r.comNew.C,
		Tag:        tag,
		Sig:        r.rec.Sig,
		Possession: possession,
		TagProof:   tagProof,
		EqProof:    eqProof,
	}); err != nil {
		return r, err
	}
	return &round2U{round1U: r}, nil
}

func (r *round1U) MessageContent() round.Content {
	return &message1S{R2: r.Group().NewScalar()}
}

func (round1U) Number() round.Number { return 1 }
