package spend

import (
	"crypto/rand"
	"errors"

	"github.com/brave-experiments/boomerang/internal/round"
	"github.com/brave-experiments/boomerang/pkg/acl"
	"github.com/brave-experiments/boomerang/pkg/bulletproofs"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
	"github.com/brave-experiments/boomerang/pkg/pedersen"
	"github.com/brave-experiments/boomerang/pkg/rewards"
	zkbalance "github.com/brave-experiments/boomerang/pkg/zk/balance"
	zkopeningmulti "github.com/brave-experiments/boomerang/pkg/zk/openingmulti"
	zktag "github.com/brave-experiments/boomerang/pkg/zk/tag"
	"github.com/brave-experiments/boomerang/protocols/boomerang/wallet"
)

// message2S carries the server's spend commitment, its signing commitment,
// and the reward proof.
type message2S struct {
	// ID1 is the server's serial number half for the new token.
	ID1 curve.Scalar
	// Spent is the total value being removed.
	Spent curve.Scalar
	// Comm1 commits to (ID1, Spent, 0, 0) with randomness Rand1.
	Comm1 curve.Point
	// Rand1 opens Comm1.
	Rand1 curve.Scalar
	// Commit is the signer's first move over CommNew − Comm1.
	Commit acl.SigCommit
	// VK is the server's verifying key.
	VK curve.Point
	// Reward proves the granted reward is the policy inner product.
	Reward *rewards.Proof
}

func (message2S) RoundNumber() round.Number { return 2 }

// round2S is the second round from the server's perspective.
type round2S struct {
	*round1S

	commNew curve.Point
	tag     curve.Scalar
	spend   []curve.Scalar
	spent   curve.Scalar
}

func (r *round2S) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*message1U)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	if body.CommPrev == nil || body.CommNew == nil || body.Tag == nil ||
		body.Sig == nil || body.Possession == nil || body.TagProof == nil || body.EqProof == nil ||
		body.ValueComm == nil || body.RangeProof == nil || body.BalanceProof == nil {
		return round.ErrNilFields
	}
	group := r.Group()
	gens := r.server.Gens()
	keys := r.server.Keys

	if len(body.Spend) != len(r.server.Policy) {
		return errors.New("spend vector length does not match policy")
	}

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

	spent := group.NewScalar()
	for _, v := range body.Spend {
		spent.Add(group.NewScalar().SetUInt64(v))
	}
	pcGens := bulletproofs.NewPedersenGens(group)
	bpGens := bulletproofs.NewBulletproofGens(group, balanceBits, 1)
	if err := body.RangeProof.VerifySingle(bpGens, pcGens, r.Hash(), body.ValueComm, balanceBits); err != nil {
		return err
	}
	if !body.BalanceProof.Verify(r.Hash(), zkbalance.Public{
		C:         body.CommPrev.Sub(group.NewScalar().Set(spent).Act(gens[wallet.ValueSlot])),
		V:         body.ValueComm,
		Gens:      gens,
		F:         pcGens.B,
		FBlinding: pcGens.BBlinding,
	}) {
		return errors.New("invalid balance proof")
	}
	return nil
}

func (r *round2S) StoreMessage(msg round.Message) error {
	body := msg.Content.(*message1U)
	if err := r.server.Tags.Insert(body.Tag, r.r2); err != nil {
		r.server.Log().WithError(err).Warn("rejecting token")
		return err
	}
	group := r.Group()
	r.commNew = body.CommNew
	r.tag = body.Tag
	r.spend = make([]curve.Scalar, len(body.Spend))
	r.spent = group.NewScalar()
	for i, v := range body.Spend {
		r.spend[i] = group.NewScalar().SetUInt64(v)
		r.spent.Add(r.spend[i])
	}
	return nil
}

func (r *round2S) Finalize(out chan<- *round.Message) (round.Session, error) {
	group := r.Group()
	gens := r.server.Gens()
	keys := r.server.Keys

	reward, rewardScalar, err := rewards.InnerProductUint64(group, r.server.Policy, r.spend)
	if err != nil {
		return r, err
	}
	rewardProof, err := rewards.Prove(rand.Reader, r.server.Rewards, reward, rewardScalar, r.server.Policy, r.spend)
	if err != nil {
		return r, err
	}

	id1 := sample.Scalar(rand.Reader, group)
	ms := []curve.Scalar{id1, r.spent, group.NewScalar(), group.NewScalar()}
	c1 := pedersen.NewMulti(rand.Reader, group, ms, gens)

	total := r.commNew.Sub(c1.C)
	signer := acl.Commit(rand.Reader, keys, total)

	if err := r.SendMessage(out, &message2S{
		ID1:    id1,
		Spent:  r.spent,
		Comm1:  c1.C,
		Rand1:  c1.R,
		Commit: signer.SigCommit,
		VK:     keys.VerifyingKey,
		Reward: rewardProof,
	}); err != nil {
		return r, err
	}
	return &round3S{round2S: r, signer: signer, total: total, reward: reward}, nil
}

func (r *round2S) MessageContent() round.Content {
	group := r.Group()
	return &message1U{
		CommPrev:     group.NewPoint(),
		CommNew:      group.NewPoint(),
		Tag:          group.NewScalar(),
		Sig:          acl.EmptySignature(group),
		Possession:   acl.EmptyPossessionProof(group, wallet.AttributeCount),
		TagProof:     zktag.Empty(group, wallet.AttributeCount),
		EqProof:      zkopeningmulti.Empty(group, 2),
		ValueComm:    group.NewPoint(),
		RangeProof:   bulletproofs.EmptyRangeProof(group, balanceBits, 1),
		BalanceProof: zkbalance.Empty(group, wallet.AttributeCount),
	}
}

func (round2S) Number() round.Number { return 2 }
