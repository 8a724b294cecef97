// Package spend implements the protocol that spends value from a token and
// pays out a reward.
//
// It extends collection: the user additionally discloses a spend vector,
// proves the remaining balance nonnegative with a range proof, and the
// server answers with a proof that the reward it granted is the inner
// product of the spend vector with its secret policy. The signed commitment
// is the difference of the rerandomized token and the server's spend
// commitment, so the new token carries the reduced balance.
package spend

import (
	"encoding/binary"
	"fmt"

	"github.com/brave-experiments/boomerang/internal/round"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/party"
	"github.com/brave-experiments/boomerang/pkg/protocol"
	"github.com/brave-experiments/boomerang/pkg/rewards"
	"github.com/brave-experiments/boomerang/protocols/boomerang/wallet"
)

const (
	protocolID                  = "boomerang/spend"
	protocolRounds round.Number = 3
)

// balanceBits is the bitsize of the remaining-balance range proof.
const balanceBits = 64

// Summary is the server's view of a finished spend.
type Summary struct {
	// Comm is the commitment that was signed.
	Comm curve.Point
	// Spent is the total value removed from the token.
	Spent curve.Scalar
	// Reward is the inner product of the spend vector and the policy.
	Reward uint64
	// Tag is the double-spend tag retired in this session.
	Tag curve.Scalar
}

// scalarUint64 reads the low 64 bits of a scalar.
func scalarUint64(s curve.Scalar) (uint64, error) {
	data, err := s.MarshalBinary()
	if err != nil {
		return 0, err
	}
	if len(data) < 8 {
		return 0, fmt.Errorf("spend: scalar encoding too short")
	}
	// Scalar encodings are little-endian, so the low limb comes first.
	return binary.LittleEndian.Uint64(data[:8]), nil
}

// StartUser runs a spend from the user's side. The server leads.
func StartUser(client *wallet.Client, spendVec []uint64, selfID, otherID party.ID) protocol.StartFunc {
	return func(sessionID []byte) (round.Session, error) {
		rec, err := client.Active()
		if err != nil {
			return nil, fmt.Errorf("spend.StartUser: %w", err)
		}
		balance, err := scalarUint64(rec.Token.Value)
		if err != nil {
			return nil, fmt.Errorf("spend.StartUser: %w", err)
		}
		var total uint64
		for _, v := range spendVec {
			total += v
		}
		if total > balance {
			return nil, fmt.Errorf("spend.StartUser: spending %d exceeds balance %d", total, balance)
		}
		if _, err := rewards.Setup(client.Group(), len(spendVec)); err != nil {
			return nil, fmt.Errorf("spend.StartUser: %w", err)
		}
		info := round.Info{
			ProtocolID:       protocolID,
			FinalRoundNumber: protocolRounds,
			SelfID:           selfID,
			PartyIDs:         []party.ID{selfID, otherID},
			Group:            client.Group(),
		}
		helper, err := round.NewSession(info, sessionID)
		if err != nil {
			return nil, fmt.Errorf("spend.StartUser: %w", err)
		}
		return &round1U{
			Helper:  helper,
			client:  client,
			rec:     rec,
			spend:   spendVec,
			balance: balance - total,
		}, nil
	}
}

// StartServer runs a spend from the server's side.
func StartServer(server *wallet.Server, selfID, otherID party.ID) protocol.StartFunc {
	return func(sessionID []byte) (round.Session, error) {
		info := round.Info{
			ProtocolID:       protocolID,
			FinalRoundNumber: protocolRounds,
			SelfID:           selfID,
			PartyIDs:         []party.ID{selfID, otherID},
			Group:            server.Group(),
		}
		helper, err := round.NewSession(info, sessionID)
		if err != nil {
			return nil, fmt.Errorf("spend.StartServer: %w", err)
		}
		return &round1S{Helper: helper, server: server}, nil
	}
}
