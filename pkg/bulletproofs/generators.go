package bulletproofs

import (
	"encoding/binary"
	"io"

	"golang.org/x/crypto/sha3"

	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/pedersen"
)

// chainDomain seeds the extendable output function deriving the per-party
// generator chains. Changing it invalidates every existing proof.
const chainDomain = "boomerang-bulletproof-generators"

// PedersenGens holds the pair of bases used for all value commitments:
// V = v*B + r*BBlinding.
type PedersenGens struct {
	B         curve.Point
	BBlinding curve.Point
}

// NewPedersenGens returns the canonical commitment bases of the group.
func NewPedersenGens(group curve.Curve) PedersenGens {
	return PedersenGens{
		B:         group.NewBasePoint(),
		BBlinding: group.NewSecondBasePoint(),
	}
}

// Commit returns value*B + blinding*BBlinding.
func (g PedersenGens) Commit(value, blinding curve.Scalar) curve.Point {
	group := value.Curve()
	vb := group.NewScalar().Set(value).Act(g.B)
	rb := group.NewScalar().Set(blinding).Act(g.BBlinding)
	return vb.Add(rb)
}

// BulletproofGens holds the vector commitment generators for aggregated
// proofs. Each party owns two chains of gensCapacity points, derived from a
// labelled SHAKE-256 stream, so that parties can commit independently and the
// dealer can concatenate the chains without coordination.
type BulletproofGens struct {
	group curve.Curve
	// GensCapacity is the number of generators available per party.
	GensCapacity int
	// PartyCapacity is the number of parties the chains support.
	PartyCapacity int
	gVec          [][]curve.Point
	hVec          [][]curve.Point
}

// NewBulletproofGens derives generator chains supporting proofs of up to
// gensCapacity bits aggregated over up to partyCapacity parties.
func NewBulletproofGens(group curve.Curve, gensCapacity, partyCapacity int) *BulletproofGens {
	b := &BulletproofGens{
		group:         group,
		GensCapacity:  gensCapacity,
		PartyCapacity: partyCapacity,
		gVec:          make([][]curve.Point, partyCapacity),
		hVec:          make([][]curve.Point, partyCapacity),
	}
	for j := 0; j < partyCapacity; j++ {
		b.gVec[j] = generatorChain(group, "G", j, gensCapacity)
		b.hVec[j] = generatorChain(group, "H", j, gensCapacity)
	}
	return b
}

func generatorChain(group curve.Curve, label string, party, n int) []curve.Point {
	shake := sha3.NewShake256()
	_, _ = shake.Write([]byte(chainDomain))
	_, _ = shake.Write([]byte(group.Name()))
	_, _ = shake.Write([]byte(label))
	var idx [4]byte
	binary.LittleEndian.PutUint32(idx[:], uint32(party))
	_, _ = shake.Write(idx[:])

	out := make([]curve.Point, n)
	buf := make([]byte, 64)
	for i := 0; i < n; i++ {
		if _, err := io.ReadFull(shake, buf); err != nil {
			panic(err)
		}
		p, err := pedersen.MapToPoint(group, buf)
		if err != nil {
			panic(err)
		}
		out[i] = p
	}
	return out
}

// Share returns a view of the generators used by party j.
func (b *BulletproofGens) Share(j int) BulletproofGensShare {
	return BulletproofGensShare{gens: b, share: j}
}

// G returns the first n generators of each of the first m parties,
// concatenated party by party.
func (b *BulletproofGens) G(n, m int) []curve.Point {
	out := make([]curve.Point, 0, n*m)
	for j := 0; j < m; j++ {
		out = append(out, b.gVec[j][:n]...)
	}
	return out
}

// H is the analogue of G for the second chain.
func (b *BulletproofGens) H(n, m int) []curve.Point {
	out := make([]curve.Point, 0, n*m)
	for j := 0; j < m; j++ {
		out = append(out, b.hVec[j][:n]...)
	}
	return out
}

// BulletproofGensShare is the view of a single party's generators.
type BulletproofGensShare struct {
	gens  *BulletproofGens
	share int
}

// G returns the first n generators of this party's first chain.
func (s BulletproofGensShare) G(n int) []curve.Point {
	return s.gens.gVec[s.share][:n]
}

// H returns the first n generators of this party's second chain.
func (s BulletproofGensShare) H(n int) []curve.Point {
	return s.gens.hVec[s.share][:n]
}
