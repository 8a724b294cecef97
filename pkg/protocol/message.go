package protocol

import (
	"fmt"

	"github.com/brave-experiments/boomerang/internal/round"
	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/party"
)

// Message is the transport-level envelope around round content.
type Message struct {
	// SSID is a byte string which uniquely identifies the session this
	// message belongs to.
	SSID []byte
	// From is the party.ID of the sender.
	From party.ID
	// To is the intended recipient of this message.
	To party.ID
	// Protocol identifies the protocol this message belongs to.
	Protocol string
	// RoundNumber is the index of the round this message belongs to.
	// A RoundNumber of 0 carries an abort notification.
	RoundNumber round.Number
	// Data is the serialized content consumed by the round.
	Data []byte
}

// String implements fmt.Stringer.
func (m Message) String() string {
	return fmt.Sprintf("message: round %d, from: %s, to: %s, protocol: %s", m.RoundNumber, m.From, m.To, m.Protocol)
}

// IsFor returns true if the message is intended for the designated party.
func (m Message) IsFor(id party.ID) bool {
	if m.From == id {
		return false
	}
	return m.To == id
}

// Hash returns a digest of the message content, including the headers.
func (m Message) Hash() []byte {
	h := hash.New(
		&hash.BytesWithDomain{TheDomain: "SSID", Bytes: m.SSID},
		m.From,
		m.To,
		&hash.BytesWithDomain{TheDomain: "Protocol", Bytes: []byte(m.Protocol)},
		m.RoundNumber,
		&hash.BytesWithDomain{TheDomain: "Content", Bytes: m.Data},
	)
	return h.Sum()
}
