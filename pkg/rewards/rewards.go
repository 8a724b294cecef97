// Package rewards bundles the two proofs a server attaches to a reward
// payout: a range proof showing the reward fits a 64 bit window, and a
// linear proof showing the reward is the inner product of the spend vector
// with the server's private policy vector.
//
// The spend vector is public on both sides. The policy vector is the
// server's witness and never leaves it; the verifier works from its own copy
// of the spend vector only.
package rewards

import (
	"encoding/binary"
	"errors"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/brave-experiments/boomerang/internal/zero"
	"github.com/brave-experiments/boomerang/pkg/bulletproofs"
	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
)

// RewardBits is the width of the range proof window on the reward.
const RewardBits = 64

const (
	rangeDomain  = "boomerang-rewards-rangeproof"
	linearDomain = "boomerang-rewards-linearproof"
)

var (
	ErrInvalidCatalogSize  = errors.New("rewards: catalog size must be a power of two")
	ErrInvalidVectorLength = errors.New("rewards: vector length does not match catalog size")
)

// Generators carries the commitment bases for both halves of the proof.
// Both sides must derive them from the same catalog size.
type Generators struct {
	group curve.Curve

	// CatalogSize is the length of the spend and policy vectors.
	CatalogSize int

	rangePC  bulletproofs.PedersenGens
	rangeBP  *bulletproofs.BulletproofGens
	linearPC bulletproofs.PedersenGens
	linearBP *bulletproofs.BulletproofGens
}

// Setup derives generators for proofs over a reward catalog of the given
// size. The size must be a power of two, as the linear proof folds over it.
func Setup(group curve.Curve, catalogSize int) (*Generators, error) {
	if catalogSize <= 0 || catalogSize&(catalogSize-1) != 0 {
		return nil, ErrInvalidCatalogSize
	}
	return &Generators{
		group:       group,
		CatalogSize: catalogSize,
		rangePC:     bulletproofs.NewPedersenGens(group),
		rangeBP:     bulletproofs.NewBulletproofGens(group, RewardBits, 1),
		linearPC:    bulletproofs.NewPedersenGens(group),
		linearBP:    bulletproofs.NewBulletproofGens(group, catalogSize, 1),
	}, nil
}

// Proof is the pair of proofs together with the commitments they open.
type Proof struct {
	// Range proves RangeComm commits to a value below 2^RewardBits.
	Range *bulletproofs.RangeProof
	// RangeComm is the Pedersen commitment to the reward.
	RangeComm curve.Point
	// Linear proves LinearComm commits to the policy vector and the inner
	// product of policy and spend.
	Linear *bulletproofs.LinearProof
	// LinearComm = <policy, G> + r·BBlinding + <policy, spend>·B.
	LinearComm curve.Point
}

func innerProduct(group curve.Curve, a, b []curve.Scalar) curve.Scalar {
	out := group.NewScalar()
	for i := range a {
		out.Add(group.NewScalar().Set(a[i]).Mul(b[i]))
	}
	return out
}

// InnerProductUint64 computes <a, b> and truncates it to its low 64 bits,
// read from the canonical little-endian scalar encoding. The reward handed
// to the range proof is this truncation; the linear proof sees the full
// scalar.
func InnerProductUint64(group curve.Curve, a, b []curve.Scalar) (uint64, curve.Scalar, error) {
	if len(a) != len(b) {
		return 0, nil, ErrInvalidVectorLength
	}
	res := innerProduct(group, a, b)
	data, err := res.MarshalBinary()
	if err != nil {
		return 0, nil, err
	}
	if len(data) < 8 {
		return 0, nil, ErrInvalidVectorLength
	}
	return binary.LittleEndian.Uint64(data[:8]), res, nil
}

// Prove creates a rewards proof. The reward pair should come from
// InnerProductUint64 over the same policy and spend vectors.
func Prove(
	rand io.Reader,
	gens *Generators,
	rewardU64 uint64,
	reward curve.Scalar,
	policy, spend []curve.Scalar,
) (*Proof, error) {
	if len(policy) != gens.CatalogSize || len(spend) != gens.CatalogSize {
		return nil, ErrInvalidVectorLength
	}
	group := gens.group

	hr := hash.New()
	_ = hr.WriteAny([]byte(rangeDomain))
	blinding := sample.Scalar(rand, group)
	rangeProof, rangeComm, err := bulletproofs.ProveSingle(
		rand, gens.rangeBP, gens.rangePC, hr, rewardU64, blinding, RewardBits)
	if err != nil {
		return nil, err
	}

	gVec := gens.linearBP.Share(0).G(gens.CatalogSize)
	f := gens.linearPC.B
	bBase := gens.linearPC.BBlinding

	r := sample.Scalar(rand, group)
	c := group.NewScalar().Set(r).Act(bBase).
		Add(group.NewScalar().Set(reward).Act(f))
	for i := range policy {
		c = c.Add(group.NewScalar().Set(policy[i]).Act(gVec[i]))
	}

	// NewLinearProof consumes its vector arguments as scratch.
	a := make([]curve.Scalar, len(policy))
	for i := range policy {
		a[i] = group.NewScalar().Set(policy[i])
	}
	b := make([]curve.Scalar, len(spend))
	for i := range spend {
		b[i] = group.NewScalar().Set(spend[i])
	}
	g := append([]curve.Point{}, gVec...)

	hl := hash.New()
	_ = hl.WriteAny([]byte(linearDomain))
	linearProof, err := bulletproofs.NewLinearProof(rand, hl, c, r, a, b, g, f, bBase)
	if err != nil {
		return nil, err
	}
	zero.Scalars(blinding, r)

	return &Proof{
		Range:      rangeProof,
		RangeComm:  rangeComm,
		Linear:     linearProof,
		LinearComm: c,
	}, nil
}

// Verify checks a rewards proof against the public spend vector.
func (p *Proof) Verify(gens *Generators, spend []curve.Scalar) error {
	if len(spend) != gens.CatalogSize {
		return ErrInvalidVectorLength
	}

	hr := hash.New()
	_ = hr.WriteAny([]byte(rangeDomain))
	if err := p.Range.VerifySingle(gens.rangeBP, gens.rangePC, hr, p.RangeComm, RewardBits); err != nil {
		return err
	}

	gVec := gens.linearBP.Share(0).G(gens.CatalogSize)
	hl := hash.New()
	_ = hl.WriteAny([]byte(linearDomain))
	return p.Linear.Verify(hl, p.LinearComm, gVec, gens.linearPC.B, gens.linearPC.BBlinding, spend)
}

// VerifyBatch checks several rewards proofs over the same spend vector,
// verifying them in parallel. The first failure is reported.
func VerifyBatch(gens *Generators, proofs []*Proof, spend []curve.Scalar) error {
	var g errgroup.Group
	for _, p := range proofs {
		p := p
		g.Go(func() error {
			return p.Verify(gens, spend)
		})
	}
	return g.Wait()
}

// EmptyProof returns a Proof shaped for gens, ready to be unmarshalled.
func EmptyProof(gens *Generators) *Proof {
	group := gens.group
	return &Proof{
		Range:      bulletproofs.EmptyRangeProof(group, RewardBits, 1),
		RangeComm:  group.NewPoint(),
		Linear:     bulletproofs.EmptyLinearProof(group, gens.CatalogSize),
		LinearComm: group.NewPoint(),
	}
}
