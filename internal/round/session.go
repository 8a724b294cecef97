package round

import (
	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/party"
)

// Info is the static configuration of a protocol execution.
type Info struct {
	// ProtocolID is an identifier for this protocol.
	ProtocolID string
	// FinalRoundNumber is the number of rounds before the output round.
	FinalRoundNumber Number
	// SelfID is this party's ID.
	SelfID party.ID
	// PartyIDs is a sorted slice of participating parties in this protocol.
	PartyIDs []party.ID
	// Group is the group used for this protocol execution.
	Group curve.Curve
}

// Session represents the current execution of a round-based protocol.
// It embeds the current round, and provides additional context.
type Session interface {
	// Round is the current round being executed.
	Round
	// Group returns the group used for this protocol execution.
	Group() curve.Curve
	// Hash returns a cloned hash function with the current transcript state.
	Hash() *hash.Hash
	// ProtocolID is an identifier for this protocol.
	ProtocolID() string
	// FinalRoundNumber is the number of rounds before the output round.
	FinalRoundNumber() Number
	// SSID is the unique identifier for this protocol execution.
	SSID() []byte
	// SelfID is this party's ID.
	SelfID() party.ID
	// PartyIDs is a sorted slice of participating parties in this protocol.
	PartyIDs() party.IDSlice
	// OtherID returns the ID of the peer.
	OtherID() party.ID
}
