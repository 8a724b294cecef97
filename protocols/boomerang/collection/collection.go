// Package collection implements the protocol that adds value to a token.
//
// The server opens with a fresh nonce. The user answers with a double-spend
// tag bound to that nonce, the previous signature with a possession proof,
// and a rerandomized commitment carrying the same balance and key. The
// server checks the tag against its ledger, adds the reward value through a
// commitment of its own, and blindly signs the sum. The old token is dead
// once its tag is in the ledger, and the new signature is unlinkable to it.
package collection

import (
	"fmt"

	"github.com/brave-experiments/boomerang/internal/round"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/party"
	"github.com/brave-experiments/boomerang/pkg/protocol"
	"github.com/brave-experiments/boomerang/protocols/boomerang/wallet"
)

const (
	protocolID                  = "boomerang/collection"
	protocolRounds round.Number = 3
)

// Summary is the server's view of a finished collection.
type Summary struct {
	// Comm is the commitment that was signed.
	Comm curve.Point
	// Value is the amount added to the token.
	Value curve.Scalar
	// Tag is the double-spend tag retired in this session.
	Tag curve.Scalar
}

// StartUser runs collection from the user's side. The server leads.
func StartUser(client *wallet.Client, selfID, otherID party.ID) protocol.StartFunc {
	return func(sessionID []byte) (round.Session, error) {
		rec, err := client.Active()
		if err != nil {
			return nil, fmt.Errorf("collection.StartUser: %w", err)
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
			return nil, fmt.Errorf("collection.StartUser: %w", err)
		}
		return &round1U{Helper: helper, client: client, rec: rec}, nil
	}
}

// StartServer runs collection from the server's side, adding value to the
// user's token.
func StartServer(server *wallet.Server, value uint64, selfID, otherID party.ID) protocol.StartFunc {
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
			return nil, fmt.Errorf("collection.StartServer: %w", err)
		}
		return &round1S{Helper: helper, server: server, value: value}, nil
	}
}
