package acl

import (
	"io"

	"github.com/brave-experiments/boomerang/internal/params"
	"github.com/brave-experiments/boomerang/internal/zero"
	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
)

// PossessionProof shows that the holder of a signature knows the blinding
// gamma behind Zeta and an opening of Zeta1 under the gamma-blinded
// generators. The two parts share the blinded generators: the first links
// them all to the same gamma, the second opens Zeta1 over them.
type PossessionProof struct {
	// BGamma = gamma·g.
	BGamma curve.Point
	// H[i] = gamma·gens[i], one per attribute slot.
	H []curve.Point
	// GammaH = gamma·h, blinding the commitment randomness base.
	GammaH curve.Point

	// LinkT are the first moves of the gamma link, one per base in the
	// order tk, g, gens..., h.
	LinkT []curve.Point
	// LinkZ = k + ch·gamma answers for every base at once.
	LinkZ curve.Scalar

	// OpenT is the first move of the opening of Zeta1.
	OpenT curve.Point
	// OpenZ are the responses for rand, the attributes, and the commitment
	// randomness.
	OpenZ []curve.Scalar
}

func possessionChallenge(group curve.Curve, label string, pts ...curve.Point) curve.Scalar {
	h := hash.New()
	_ = h.WriteAny([]byte(label))
	for _, p := range pts {
		_ = h.WriteAny(p)
	}
	buf := make([]byte, params.ChallengeBytes)
	if _, err := io.ReadFull(h.Digest(), buf); err != nil {
		panic(err)
	}
	return curve.ScalarFromChallenge(group, buf)
}

// ProvePossession proves knowledge of the signature's blinding and of the
// attributes inside Zeta1. The gens are the commitment generators of the
// registered commitment, values its attributes, and commRand its Pedersen
// randomness.
func ProvePossession(
	rand io.Reader,
	group curve.Curve,
	tk curve.Point,
	gens []curve.Point,
	sig *Signature,
	opening Opening,
	values []curve.Scalar,
	commRand curve.Scalar,
) (*PossessionProof, error) {
	if len(values) != len(gens) {
		return nil, ErrVerificationFailed
	}
	h := group.NewSecondBasePoint()
	tmp := group.NewScalar()

	proof := &PossessionProof{
		BGamma: opening.Gamma.ActOnBase(),
		H:      make([]curve.Point, len(gens)),
		GammaH: tmp.Set(opening.Gamma).Act(h),
	}
	for i, g := range gens {
		proof.H[i] = tmp.Set(opening.Gamma).Act(g)
	}

	// One response binds gamma across every base.
	linkBases := make([]curve.Point, 0, 3+len(gens))
	linkBases = append(linkBases, tk, group.NewBasePoint())
	linkBases = append(linkBases, gens...)
	linkBases = append(linkBases, h)
	linkStmts := make([]curve.Point, 0, 3+len(gens))
	linkStmts = append(linkStmts, sig.Zeta, proof.BGamma)
	linkStmts = append(linkStmts, proof.H...)
	linkStmts = append(linkStmts, proof.GammaH)

	k := sample.Scalar(rand, group)
	proof.LinkT = make([]curve.Point, len(linkBases))
	for j, base := range linkBases {
		proof.LinkT[j] = tmp.Set(k).Act(base)
	}
	ch := possessionChallenge(group, "acl-challenge-zk",
		append(append([]curve.Point{}, linkStmts...), proof.LinkT...)...)
	proof.LinkZ = group.NewScalar().Set(ch).Mul(opening.Gamma).Add(k)

	// Zeta1 = rand·BGamma + Σ values_i·H_i + commRand·GammaH.
	openBases := make([]curve.Point, 0, 2+len(gens))
	openBases = append(openBases, proof.BGamma)
	openBases = append(openBases, proof.H...)
	openBases = append(openBases, proof.GammaH)
	openExps := make([]curve.Scalar, 0, 2+len(gens))
	openExps = append(openExps, opening.Rand)
	openExps = append(openExps, values...)
	openExps = append(openExps, commRand)

	ks := make([]curve.Scalar, len(openBases))
	openT := group.NewPoint()
	for j := range openBases {
		ks[j] = sample.Scalar(rand, group)
		openT = openT.Add(tmp.Set(ks[j]).Act(openBases[j]))
	}
	proof.OpenT = openT

	ch2 := possessionChallenge(group, "acl-challenge-zk2",
		append([]curve.Point{sig.Zeta1, openT}, openBases...)...)
	proof.OpenZ = make([]curve.Scalar, len(openExps))
	for j := range openExps {
		proof.OpenZ[j] = group.NewScalar().Set(ch2).Mul(openExps[j]).Add(ks[j])
	}

	zero.Scalars(k)
	zero.Vec(ks)
	return proof, nil
}

// Verify checks a possession proof against a signature.
func (p *PossessionProof) Verify(group curve.Curve, tk curve.Point, gens []curve.Point, sig *Signature) error {
	if p == nil || p.BGamma == nil || p.GammaH == nil || len(p.H) != len(gens) {
		return ErrVerificationFailed
	}
	h := group.NewSecondBasePoint()
	tmp := group.NewScalar()

	linkBases := make([]curve.Point, 0, 3+len(gens))
	linkBases = append(linkBases, tk, group.NewBasePoint())
	linkBases = append(linkBases, gens...)
	linkBases = append(linkBases, h)
	linkStmts := make([]curve.Point, 0, 3+len(gens))
	linkStmts = append(linkStmts, sig.Zeta, p.BGamma)
	linkStmts = append(linkStmts, p.H...)
	linkStmts = append(linkStmts, p.GammaH)

	if len(p.LinkT) != len(linkBases) {
		return ErrVerificationFailed
	}
	ch := possessionChallenge(group, "acl-challenge-zk",
		append(append([]curve.Point{}, linkStmts...), p.LinkT...)...)
	for j := range linkBases {
		lhs := tmp.Set(p.LinkZ).Act(linkBases[j])
		rhs := p.LinkT[j].Add(group.NewScalar().Set(ch).Act(linkStmts[j]))
		if !lhs.Equal(rhs) {
			return ErrVerificationFailed
		}
	}

	openBases := make([]curve.Point, 0, 2+len(gens))
	openBases = append(openBases, p.BGamma)
	openBases = append(openBases, p.H...)
	openBases = append(openBases, p.GammaH)
	if len(p.OpenZ) != len(openBases) || p.OpenT == nil {
		return ErrVerificationFailed
	}

	ch2 := possessionChallenge(group, "acl-challenge-zk2",
		append([]curve.Point{sig.Zeta1, p.OpenT}, openBases...)...)
	lhs := group.NewPoint()
	for j := range openBases {
		lhs = lhs.Add(tmp.Set(p.OpenZ[j]).Act(openBases[j]))
	}
	rhs := p.OpenT.Add(group.NewScalar().Set(ch2).Act(sig.Zeta1))
	if !lhs.Equal(rhs) {
		return ErrVerificationFailed
	}
	return nil
}
