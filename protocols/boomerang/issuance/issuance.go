// Package issuance implements the protocol that creates a user's first
// token.
//
// The user commits to a fresh serial number half, a zero balance, their
// signing key, and a randomness slot, and proves the commitment well
// formed. The server adds its own serial number half and blindly signs the
// combined commitment, so that neither side controls the serial number
// alone and the server never learns the user's key.
package issuance

import (
	"fmt"

	"github.com/brave-experiments/boomerang/internal/round"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/party"
	"github.com/brave-experiments/boomerang/pkg/protocol"
	"github.com/brave-experiments/boomerang/protocols/boomerang/wallet"
)

const (
	protocolID                  = "boomerang/issuance"
	protocolRounds round.Number = 3
)

// Summary is the server's view of a finished issuance.
type Summary struct {
	// Comm is the commitment that was signed.
	Comm curve.Point
}

// StartUser runs issuance from the user's side. The user leads.
func StartUser(client *wallet.Client, selfID, otherID party.ID) protocol.StartFunc {
	return func(sessionID []byte) (round.Session, error) {
		info := round.Info{
			ProtocolID:       protocolID,
			FinalRoundNumber: protocolRounds,
			SelfID:           selfID,
			PartyIDs:         []party.ID{selfID, otherID},
			Group:            client.Group(),
		}
		helper, err := round.NewSession(info, sessionID)
		if err != nil {
			return nil, fmt.Errorf("issuance.StartUser: %w", err)
		}
		return &round1U{Helper: helper, client: client}, nil
	}
}

// StartServer runs issuance from the server's side.
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
			return nil, fmt.Errorf("issuance.StartServer: %w", err)
		}
		return &round1S{Helper: helper, server: server}, nil
	}
}
