package spend

import (
	"crypto/rand"

	"github.com/brave-experiments/boomerang/internal/round"
	"github.com/brave-experiments/boomerang/pkg/acl"
	"github.com/brave-experiments/boomerang/pkg/bulletproofs"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
	"github.com/brave-experiments/boomerang/pkg/pedersen"
	zkbalance "github.com/brave-experiments/boomerang/pkg/zk/balance"
	zkopeningmulti "github.com/brave-experiments/boomerang/pkg/zk/openingmulti"
	zktag "github.com/brave-experiments/boomerang/pkg/zk/tag"
	"github.com/brave-experiments/boomerang/protocols/boomerang/wallet"
)

// message1U presents the previous token, the rerandomized commitment, and
// the spend vector with its balance proofs.
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

	// Spend is the disclosed spend vector.
	Spend []uint64
	// ValueComm commits to the remaining balance.
	ValueComm curve.Point
	// RangeProof shows the remaining balance is nonnegative.
	RangeProof *bulletproofs.RangeProof
	// BalanceProof ties ValueComm to the balance slot of the spent token.
	BalanceProof *zkbalance.Proof
}

func (message1U) RoundNumber() round.Number { return 2 }

// round1U is the first round from the user's perspective.
type round1U struct {
	*round.Helper
	client *wallet.Client
	rec    *wallet.Record

	// spend is the requested spend vector, balance the value left after it.
	spend   []uint64
	balance uint64

	r2     curve.Scalar
	msNew  []curve.Scalar
	comNew pedersen.Commitment
	spent  curve.Scalar
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

	tag := group.NewScalar().Set(r.r2).Mul(r.rec.Token.ID).Add(sk)

	id0 := sample.Scalar(rand.Reader, group)
	r1 := sample.Scalar(rand.Reader, group)
	r.msNew = []curve.Scalar{id0, group.NewScalar().Set(r.rec.Token.Value), sk, r1}
	r.comNew = pedersen.NewMulti(rand.Reader, group, r.msNew, gens)

	msPrev := r.rec.Token.Attributes(sk)
	tagProof := zktag.NewProof(group, r.Hash(), zktag.Public{
		C:     r.rec.Comm,
		Tag:   tag,
		Nonce: r.r2,
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

	// The remaining balance lives in the value slot of
	// CommPrev − spent⋅g₂, with the original opening.
	r.spent = group.NewScalar()
	for _, v := range r.spend {
		r.spent.Add(group.NewScalar().SetUInt64(v))
	}
	pcGens := bulletproofs.NewPedersenGens(group)
	bpGens := bulletproofs.NewBulletproofGens(group, balanceBits, 1)
	blinding := sample.Scalar(rand.Reader, group)
	rangeProof, valueComm, err := bulletproofs.ProveSingle(
		rand.Reader, bpGens, pcGens, r.Hash(), r.balance, blinding, balanceBits)
	if err != nil {
		return r, err
	}

	spentComm := r.rec.Comm.Sub(r.spent.Act(gens[wallet.ValueSlot]))
	msSpent := []curve.Scalar{
		msPrev[wallet.IDSlot],
		group.NewScalar().Set(r.rec.Token.Value).Sub(r.spent),
		msPrev[wallet.KeySlot],
		msPrev[wallet.RandSlot],
	}
	balanceProof := zkbalance.NewProof(group, r.Hash(), zkbalance.Public{
		C:         spentComm,
		V:         valueComm,
		Gens:      gens,
		F:         pcGens.B,
		FBlinding: pcGens.BBlinding,
	}, zkbalance.Private{Ms: msSpent, R: r.rec.Token.CommRand, B: blinding})

	if err := r.SendMessage(out, &message1U{
		CommPrev:     r.rec.Comm,
		CommNew:      r.comNew.C,
		Tag:          tag,
		Sig:          r.rec.Sig,
		Possession:   possession,
		TagProof:     tagProof,
		EqProof:      eqProof,
		Spend:        r.spend,
		ValueComm:    valueComm,
		RangeProof:   rangeProof,
		BalanceProof: balanceProof,
	}); err != nil {
		return r, err
	}
	return &round2U{round1U: r}, nil
}

func (r *round1U) MessageContent() round.Content {
	return &message1S{R2: r.Group().NewScalar()}
}

func (round1U) Number() round.Number { return 1 }
