// Package protocol drives round-based protocol executions over an external
// transport. The transport delivers Message objects; the handler advances
// the underlying rounds and exposes the protocol result.
package protocol

import (
	"github.com/brave-experiments/boomerang/internal/round"
)

// StartFunc creates the first round of a protocol execution, bound to the
// given session identifier.
type StartFunc func(sessionID []byte) (round.Session, error)

// Handler represents some kind of handler for a protocol.
type Handler interface {
	// Result returns the result of the protocol, or an error.
	Result() (interface{}, error)
	// Listen returns a channel emitting the messages to send to the peer.
	// It is closed when the protocol terminates.
	Listen() <-chan *Message
	// Accept delivers a message received from the peer.
	Accept(msg *Message)
}
